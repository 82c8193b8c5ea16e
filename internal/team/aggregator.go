// Package team aggregates time logs across all members for the admin
// calendar and dashboard.
package team

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"team-timelog/internal/calendar"
	"team-timelog/internal/latest"
	"team-timelog/internal/metrics"
	"team-timelog/internal/models"
	"team-timelog/internal/pagination"
	"team-timelog/internal/timelog"
)

const (
	monthCategory     = "team_month"
	dashboardCategory = "dashboard"
)

type Store interface {
	ListTeam(ctx context.Context, f models.TimeLogFilter) ([]models.TeamLog, error)
	QueryTeam(ctx context.Context, f models.TimeLogFilter, req pagination.Request) ([]models.TeamLog, int64, error)
	SumHours(ctx context.Context, f models.TimeLogFilter) (float64, error)
}

// DayEntry is one member's hours on a day.
type DayEntry struct {
	Email string
	Hours float64
}

type Stats struct {
	TotalHours   float64
	DaysLogged   int
	TotalMembers int
}

type Aggregator struct {
	store Store
	log   *logrus.Logger
	tags  latest.Tracker

	mu    sync.Mutex
	month time.Time
	logs  []models.TeamLog
}

func NewAggregator(store Store, log *logrus.Logger) *Aggregator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Aggregator{store: store, log: log}
}

// LoadTeamMonth loads every member's logs for month. Admin rows are
// excluded. A load superseded by a later one returns ErrStale.
func (a *Aggregator) LoadTeamMonth(ctx context.Context, month time.Time) ([]models.TeamLog, error) {
	month = calendar.StartOfMonth(month)
	from, to := month, calendar.EndOfMonth(month)

	a.mu.Lock()
	a.month = month
	tag := a.tags.Issue(monthCategory, calendar.FormatMonth(month))
	a.mu.Unlock()

	logs, err := a.store.ListTeam(ctx, models.TimeLogFilter{From: &from, To: &to, MembersOnly: true})

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.tags.Current(tag) {
		metrics.StaleResponses.WithLabelValues(monthCategory).Inc()
		a.log.WithField("month", tag.Key).Debug("discarding stale team month load")
		return nil, models.ErrStale
	}
	if err != nil {
		return nil, err
	}
	a.logs = logs
	return append([]models.TeamLog(nil), logs...), nil
}

func (a *Aggregator) Month() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.month
}

// LogsForDate lists who logged what on day, ordered by email.
func (a *Aggregator) LogsForDate(day time.Time) []DayEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []DayEntry
	for _, l := range a.logs {
		if calendar.SameDay(l.Date, day) {
			out = append(out, DayEntry{Email: l.Email, Hours: l.Hours})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

// Stats summarizes the loaded month.
func (a *Aggregator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	days := make(map[string]struct{})
	members := make(map[uuid.UUID]struct{})
	var s Stats
	for _, l := range a.logs {
		s.TotalHours += l.Hours
		days[calendar.FormatDay(l.Date)] = struct{}{}
		members[l.UserID] = struct{}{}
	}
	s.TotalHours = timelog.RoundHours(s.TotalHours)
	s.DaysLogged = len(days)
	s.TotalMembers = len(members)
	return s
}

// DashboardStats describes one rendered dashboard page. PageHours and
// PageMembers cover the visible rows only; TotalHours covers the whole
// filtered set.
type DashboardStats struct {
	TotalRecords int64
	TotalHours   float64
	PageHours    float64
	PageMembers  int
}

type Dashboard struct {
	Page  pagination.Page[models.TeamLog]
	Stats DashboardStats
}

// LoadDashboard runs the page query and the hour total concurrently.
func (a *Aggregator) LoadDashboard(ctx context.Context, q DashboardQuery, req pagination.Request) (Dashboard, error) {
	tag := a.tags.Issue(dashboardCategory, q.Key())
	f := q.Filter()

	var (
		items []models.TeamLog
		total int64
		hours float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, total, err = a.store.QueryTeam(gctx, f, req)
		return err
	})
	g.Go(func() error {
		var err error
		hours, err = a.store.SumHours(gctx, f)
		return err
	})
	err := g.Wait()

	if !a.tags.Current(tag) {
		metrics.StaleResponses.WithLabelValues(dashboardCategory).Inc()
		return Dashboard{}, models.ErrStale
	}
	if err != nil {
		return Dashboard{}, err
	}

	members := make(map[uuid.UUID]struct{})
	stats := DashboardStats{TotalRecords: total, TotalHours: timelog.RoundHours(hours)}
	for _, l := range items {
		stats.PageHours += l.Hours
		members[l.UserID] = struct{}{}
	}
	stats.PageHours = timelog.RoundHours(stats.PageHours)
	stats.PageMembers = len(members)

	return Dashboard{Page: pagination.NewPage(items, total, req), Stats: stats}, nil
}
