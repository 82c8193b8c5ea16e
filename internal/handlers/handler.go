// Package handlers serves the HTML pages.
package handlers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"team-timelog/internal/audit"
	"team-timelog/internal/identity"
	"team-timelog/internal/middleware"
	"team-timelog/internal/roleview"
	"team-timelog/internal/team"
	"team-timelog/internal/timelog"
)

type Deps struct {
	Log      *logrus.Logger
	Provider identity.Provider
	Profiles middleware.ProfileResolver
	TimeLogs timelog.Store
	Team     team.Store
	Audit    audit.Store
	Location *time.Location
	Now      func() time.Time
	Ping     func(ctx context.Context) error
}

type Handler struct {
	log      *logrus.Logger
	provider identity.Provider
	profiles middleware.ProfileResolver
	views    roleview.Deps
	team     team.Store
	audit    audit.Store
	ping     func(ctx context.Context) error
}

func New(d Deps) *Handler {
	if d.Log == nil {
		d.Log = logrus.StandardLogger()
	}
	if d.Location == nil {
		d.Location = time.UTC
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Handler{
		log:      d.Log,
		provider: d.Provider,
		profiles: d.Profiles,
		views: roleview.Deps{
			TimeLogs: d.TimeLogs,
			Team:     d.Team,
			Log:      d.Log,
			Location: d.Location,
			Now:      d.Now,
		},
		team:  d.Team,
		audit: d.Audit,
		ping:  d.Ping,
	}
}
