package handlers

import (
	"github.com/gin-gonic/gin"

	"team-timelog/internal/identity"
	"team-timelog/internal/middleware"
)

var titles = map[string]string{
	"index.html":        "Welcome",
	"logger.html":       "Calendar",
	"dashboard.html":    "Dashboard",
	"audit_list.html":   "Audit log",
	"audit_detail.html": "Audit entry",
}

// addFlash queues a toast. A session that cannot be saved loses the toast
// and is logged.
func (h *Handler) addFlash(c *gin.Context, kind, message string) {
	if err := identity.AddFlash(c, kind, message); err != nil {
		h.logError(c, err, "failed to queue toast")
	}
}

func (h *Handler) flashes(c *gin.Context) []identity.Flash {
	flashes, err := identity.Flashes(c)
	if err != nil {
		h.logError(c, err, "failed to pop toasts")
	}
	return flashes
}

// render wraps c.HTML and passes the current profile and pending toasts to
// every template.
func (h *Handler) render(c *gin.Context, status int, tmpl string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	if p, ok := middleware.CurrentProfile(c); ok {
		data["Profile"] = p
		data["IsAdmin"] = p.IsAdmin()
	}
	if _, ok := data["Flashes"]; !ok {
		data["Flashes"] = h.flashes(c)
	}
	if _, ok := data["Title"]; !ok {
		data["Title"] = titles[tmpl]
	}
	data["RequestID"] = c.GetString(middleware.RequestIDKey)

	c.HTML(status, tmpl, data)
}
