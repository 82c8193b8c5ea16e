package roleview

import (
	"context"
	"strconv"
	"time"

	"team-timelog/internal/calendar"
	"team-timelog/internal/models"
	"team-timelog/internal/timelog"
)

type Member struct {
	deps   Deps
	engine *timelog.Engine
	loaded bool
}

func (m *Member) Role() models.UserRole {
	return models.RoleUser
}

// ensure loads month unless it is already the loaded one.
func (m *Member) ensure(ctx context.Context, month time.Time) error {
	if m.loaded && calendar.SameMonth(m.engine.Month(), month) {
		return nil
	}
	if _, err := m.engine.LoadMonth(ctx, month); err != nil {
		return err
	}
	m.loaded = true
	return nil
}

func (m *Member) Calendar(ctx context.Context, month time.Time) (CalendarPage, error) {
	if err := m.ensure(ctx, month); err != nil {
		return CalendarPage{}, err
	}

	page := buildPage(month, m.deps.today(), func(day time.Time) (string, bool) {
		if l, ok := m.engine.LogForDate(day); ok {
			return hoursLabel(l.Hours), true
		}
		return "", false
	})
	page.Editable = true
	page.Stats = []Stat{
		{Label: "Total hours", Value: hoursLabel(m.engine.TotalHours())},
		{Label: "Days logged", Value: strconv.Itoa(m.engine.DaysLogged())},
	}
	return page, nil
}

func (m *Member) Day(ctx context.Context, day time.Time) (DayPanel, error) {
	if err := m.ensure(ctx, day); err != nil {
		return DayPanel{}, err
	}
	_, logged := m.engine.LogForDate(day)
	return DayPanel{
		Date:     calendar.Day(day),
		Editable: true,
		Logged:   logged,
		Hours:    m.engine.DialogHours(day),
	}, nil
}

func (m *Member) SaveDay(ctx context.Context, day time.Time, hours string) error {
	h, err := timelog.ParseHours(hours)
	if err != nil {
		return err
	}
	if err := m.ensure(ctx, day); err != nil {
		return err
	}
	_, err = m.engine.UpsertDay(ctx, day, h)
	return err
}

func (m *Member) DeleteDay(ctx context.Context, day time.Time) error {
	if err := m.ensure(ctx, day); err != nil {
		return err
	}
	return m.engine.DeleteDay(ctx, day)
}
