package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"team-timelog/internal/calendar"
	"team-timelog/internal/identity"
	"team-timelog/internal/models"
	"team-timelog/internal/pagination"
	"team-timelog/internal/team"
)

func parseOptionalDay(s string) *time.Time {
	d, err := calendar.ParseDay(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &d
}

// Dashboard lists every member's time logs with filters and paging.
func (h *Handler) Dashboard(c *gin.Context) {
	st := team.NewDashboardState()
	st.Restore(c.Query("key"), queryInt(c.Query("page")), queryInt(c.Query("page_size")))
	if c.Query("reset") != "" {
		st.ResetFilters()
	} else {
		st.SetQuery(team.DashboardQuery{
			Email:      c.Query("email"),
			DateFilter: team.ParseDateFilter(c.Query("date_filter")),
			From:       parseOptionalDay(c.Query("from")),
			To:         parseOptionalDay(c.Query("to")),
		})
	}

	q := st.Query()
	data := gin.H{
		"Query":     q,
		"From":      formatOptionalDay(q.From),
		"To":        formatOptionalDay(q.To),
		"Key":       st.Key(),
		"PageSizes": pagination.PageSizes,
	}

	agg := team.NewAggregator(h.team, h.log)
	dash, err := agg.LoadDashboard(c.Request.Context(), q, st.Request())
	status := http.StatusOK
	if err != nil && !errors.Is(err, models.ErrStale) {
		h.logError(c, err, "failed to load dashboard")
		data["Flashes"] = append(h.flashes(c), identity.Flash{Kind: identity.FlashError, Message: userMessage(err, "load the dashboard")})
		status = errorStatus(err)
	}
	if dash.Page.PageSize == 0 {
		dash.Page = pagination.NewPage[models.TeamLog](nil, 0, st.Request())
	}

	v := url.Values{}
	v.Set("email", q.Email)
	v.Set("date_filter", string(q.DateFilter))
	v.Set("from", formatOptionalDay(q.From))
	v.Set("to", formatOptionalDay(q.To))
	v.Set("key", st.Key())

	data["Dashboard"] = dash
	data["Links"] = links("/dashboard", v, dash.Page)
	h.render(c, status, "dashboard.html", data)
}

func formatOptionalDay(d *time.Time) string {
	if d == nil {
		return ""
	}
	return calendar.FormatDay(*d)
}
