// Package roleview builds the calendar page for the signed-in profile. A
// member edits their own days, an admin reads the whole team's.
package roleview

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"team-timelog/internal/calendar"
	"team-timelog/internal/models"
	"team-timelog/internal/team"
	"team-timelog/internal/timelog"
)

type RoleView interface {
	Role() models.UserRole
	Calendar(ctx context.Context, month time.Time) (CalendarPage, error)
	Day(ctx context.Context, day time.Time) (DayPanel, error)
	SaveDay(ctx context.Context, day time.Time, hours string) error
	DeleteDay(ctx context.Context, day time.Time) error
}

// Cell is a grid day plus what was logged on it.
type Cell struct {
	calendar.Cell
	Logged bool
	Label  string
}

type Stat struct {
	Label string
	Value string
}

type CalendarPage struct {
	Month    time.Time
	Prev     time.Time
	Next     time.Time
	Weeks    [][]Cell
	Stats    []Stat
	Editable bool
}

// DayPanel is the dialog opened from a day. Members get Hours pre-filled and
// may edit; admins get the read-only Entries.
type DayPanel struct {
	Date     time.Time
	Editable bool
	Logged   bool
	Hours    string
	Entries  []team.DayEntry
}

type Deps struct {
	TimeLogs timelog.Store
	Team     team.Store
	Log      *logrus.Logger
	Location *time.Location
	Now      func() time.Time
}

func (d Deps) today() time.Time {
	now, loc := time.Now, time.UTC
	if d.Now != nil {
		now = d.Now
	}
	if d.Location != nil {
		loc = d.Location
	}
	return calendar.Today(now(), loc)
}

// For picks the view for p. This is the only place the role is branched on.
func For(p models.Profile, deps Deps, actor models.Actor) RoleView {
	if deps.Log == nil {
		deps.Log = logrus.StandardLogger()
	}
	if p.IsAdmin() {
		return &Admin{deps: deps, agg: team.NewAggregator(deps.Team, deps.Log)}
	}

	opts := []timelog.Option{timelog.WithLogger(deps.Log)}
	if deps.Now != nil {
		opts = append(opts, timelog.WithClock(deps.Now))
	}
	if deps.Location != nil {
		opts = append(opts, timelog.WithLocation(deps.Location))
	}
	actor.UserID = p.ID
	return &Member{deps: deps, engine: timelog.NewEngine(deps.TimeLogs, actor, opts...)}
}

// buildPage lays out month and labels each in-month day with label.
func buildPage(month, today time.Time, label func(day time.Time) (string, bool)) CalendarPage {
	month = calendar.StartOfMonth(month)
	grid := calendar.Grid(month, today)

	weeks := make([][]Cell, len(grid))
	for i, week := range grid {
		weeks[i] = make([]Cell, len(week))
		for j, c := range week {
			cell := Cell{Cell: c}
			if c.InMonth {
				cell.Label, cell.Logged = label(c.Date)
			}
			weeks[i][j] = cell
		}
	}
	return CalendarPage{
		Month: month,
		Prev:  month.AddDate(0, -1, 0),
		Next:  month.AddDate(0, 1, 0),
		Weeks: weeks,
	}
}

func hoursLabel(h float64) string {
	return timelog.FormatHours(timelog.RoundHours(h)) + "h"
}
