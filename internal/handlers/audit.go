package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"team-timelog/internal/audit"
	"team-timelog/internal/identity"
	"team-timelog/internal/models"
	"team-timelog/internal/pagination"
)

// ListAuditLogs shows the audit trail, newest first.
func (h *Handler) ListAuditLogs(c *gin.Context) {
	action, _ := models.ParseAuditAction(c.Query("action"))

	st := audit.NewState()
	st.Restore(c.Query("key"), queryInt(c.Query("page")), queryInt(c.Query("page_size")))
	st.SetQuery(audit.Query{Email: c.Query("email"), Action: action})

	q := st.Query()
	data := gin.H{
		"Query":     q,
		"Key":       st.Key(),
		"PageSizes": pagination.PageSizes,
	}

	engine := audit.NewEngine(h.audit, h.log)
	page, err := engine.Query(c.Request.Context(), q, st.Request())
	status := http.StatusOK
	if err != nil && !errors.Is(err, models.ErrStale) {
		h.logError(c, err, "failed to query audit log")
		data["Flashes"] = append(h.flashes(c), identity.Flash{Kind: identity.FlashError, Message: userMessage(err, "load the audit log")})
		status = errorStatus(err)
	}
	if page.PageSize == 0 {
		page = pagination.NewPage[models.AuditEntry](nil, 0, st.Request())
	}

	v := url.Values{}
	v.Set("email", q.Email)
	v.Set("action", string(q.Action))
	v.Set("key", st.Key())

	data["Page"] = page
	data["Links"] = links("/audit", v, page)
	h.render(c, status, "audit_list.html", data)
}

// ShowAuditLog dumps one audit entry.
func (h *Handler) ShowAuditLog(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.addFlash(c, identity.FlashError, "Audit entry not found")
		c.Redirect(http.StatusFound, "/audit")
		return
	}

	entry, err := audit.NewEngine(h.audit, h.log).Entry(c.Request.Context(), id)
	if err != nil {
		h.logError(c, err, "failed to load audit entry")
		msg := userMessage(err, "load the audit entry")
		if errors.Is(err, models.ErrNotFound) {
			msg = "Audit entry not found"
		}
		h.addFlash(c, identity.FlashError, msg)
		c.Redirect(http.StatusFound, "/audit")
		return
	}

	h.render(c, http.StatusOK, "audit_detail.html", gin.H{"Detail": audit.NewDetail(entry)})
}
