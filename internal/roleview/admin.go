package roleview

import (
	"context"
	"strconv"
	"time"

	"team-timelog/internal/calendar"
	"team-timelog/internal/models"
	"team-timelog/internal/team"
)

type Admin struct {
	deps   Deps
	agg    *team.Aggregator
	loaded bool
}

func (a *Admin) Role() models.UserRole {
	return models.RoleAdmin
}

func (a *Admin) ensure(ctx context.Context, month time.Time) error {
	if a.loaded && calendar.SameMonth(a.agg.Month(), month) {
		return nil
	}
	if _, err := a.agg.LoadTeamMonth(ctx, month); err != nil {
		return err
	}
	a.loaded = true
	return nil
}

func (a *Admin) Calendar(ctx context.Context, month time.Time) (CalendarPage, error) {
	if err := a.ensure(ctx, month); err != nil {
		return CalendarPage{}, err
	}

	page := buildPage(month, a.deps.today(), func(day time.Time) (string, bool) {
		entries := a.agg.LogsForDate(day)
		if len(entries) == 0 {
			return "", false
		}
		var sum float64
		for _, e := range entries {
			sum += e.Hours
		}
		return hoursLabel(sum) + " · " + strconv.Itoa(len(entries)), true
	})

	stats := a.agg.Stats()
	page.Stats = []Stat{
		{Label: "Total hours", Value: hoursLabel(stats.TotalHours)},
		{Label: "Days logged", Value: strconv.Itoa(stats.DaysLogged)},
		{Label: "Members", Value: strconv.Itoa(stats.TotalMembers)},
	}
	return page, nil
}

func (a *Admin) Day(ctx context.Context, day time.Time) (DayPanel, error) {
	if err := a.ensure(ctx, day); err != nil {
		return DayPanel{}, err
	}
	entries := a.agg.LogsForDate(day)
	return DayPanel{
		Date:    calendar.Day(day),
		Logged:  len(entries) > 0,
		Entries: entries,
	}, nil
}

// Admins never write time logs, their own included.
func (a *Admin) SaveDay(context.Context, time.Time, string) error {
	return models.ErrForbidden
}

func (a *Admin) DeleteDay(context.Context, time.Time) error {
	return models.ErrForbidden
}
