package server

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"team-timelog/internal/audit"
	"team-timelog/internal/calendar"
	"team-timelog/internal/handlers"
	"team-timelog/internal/identity"
	"team-timelog/internal/middleware"
	"team-timelog/internal/models"
	"team-timelog/internal/profile"
	"team-timelog/internal/team"
	"team-timelog/internal/timelog"
	"team-timelog/web"
)

// Stores is every repository the router needs. store.Store satisfies it,
// as does storetest.Memory.
type Stores interface {
	profile.Store
	timelog.Store
	team.Store
	audit.Store
}

type RouterDeps struct {
	Log      *logrus.Logger
	Stores   Stores
	Provider identity.Provider
	Sessions sessions.Store
	Location *time.Location
	Now      func() time.Time
	Ping     func(ctx context.Context) error
}

var funcMap = template.FuncMap{
	"hours":      timelog.FormatHours,
	"isoDay":     calendar.FormatDay,
	"isoMonth":   calendar.FormatMonth,
	"displayDay": func(t time.Time) string { return t.Format("02/01/2006") },
	"monthTitle": func(t time.Time) string { return t.Format("January 2006") },
	"timestamp":  func(t time.Time) string { return t.Format("02/01/2006 15:04:05") },
	"summary":    func(a models.AuditLog) string { return audit.Summarize(a) },
	"dict":       dict,
}

// dict builds a map from alternating keys and values for passing several
// values to a nested template.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict needs an even number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		k, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %v is not a string", pairs[i])
		}
		m[k] = pairs[i+1]
	}
	return m, nil
}

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcMap).ParseFS(web.Templates, "templates/*.html")
}

func NewRouter(deps RouterDeps) (*gin.Engine, error) {
	tmpl, err := Templates()
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		return nil, err
	}

	log := deps.Log
	resolver := profile.NewResolver(deps.Stores, log)
	h := handlers.New(handlers.Deps{
		Log:      log,
		Provider: deps.Provider,
		Profiles: resolver,
		TimeLogs: deps.Stores,
		Team:     deps.Stores,
		Audit:    deps.Stores,
		Location: deps.Location,
		Now:      deps.Now,
		Ping:     deps.Ping,
	})

	r := gin.New()
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.SetHTMLTemplate(tmpl)

	r.Use(middleware.RequestID(log))
	r.Use(middleware.Logger(log))
	r.Use(gin.Recovery())
	r.Use(middleware.Prometheus())

	r.StaticFS("/static", http.FS(static))
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	app := r.Group("/")
	app.Use(sessions.Sessions(identity.SessionName, deps.Sessions))
	app.Use(middleware.LoadProfile(resolver, log))

	app.GET("/", middleware.RedirectAuthenticated(), h.Index)

	app.GET("/auth/login", h.Login)
	app.GET("/auth/callback", h.Callback)
	app.POST("/auth/logout", h.Logout)

	auth := app.Group("/")
	auth.Use(middleware.RequireAuth())

	auth.GET("/logger", h.ShowLogger)
	auth.POST("/logger/days", h.SaveDay)
	auth.POST("/logger/days/delete", h.DeleteDay)

	admin := auth.Group("/")
	admin.Use(middleware.RequireAdmin())

	admin.GET("/dashboard", h.Dashboard)
	admin.GET("/audit", h.ListAuditLogs)
	admin.GET("/audit/:id", h.ShowAuditLog)

	return r, nil
}
