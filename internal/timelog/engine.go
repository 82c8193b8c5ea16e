// Package timelog implements the calendar engine a member uses to log
// daily hours.
package timelog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"team-timelog/internal/calendar"
	"team-timelog/internal/latest"
	"team-timelog/internal/metrics"
	"team-timelog/internal/models"
)

const monthCategory = "month"

type Store interface {
	ListForUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.TimeLog, error)
	FindByDate(ctx context.Context, userID uuid.UUID, day time.Time) (models.TimeLog, error)
	Insert(ctx context.Context, actor models.Actor, log *models.TimeLog) error
	UpdateHours(ctx context.Context, actor models.Actor, id uuid.UUID, hours float64) (models.TimeLog, error)
	Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error
}

// Engine holds one member's displayed month and the logs loaded for it.
// It is safe for concurrent use.
type Engine struct {
	store Store
	actor models.Actor
	log   *logrus.Logger
	loc   *time.Location
	now   func() time.Time
	tags  latest.Tracker

	mu    sync.Mutex
	month time.Time
	logs  []models.TimeLog
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(e *Engine) { e.loc = loc }
}

func WithLogger(log *logrus.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// NewEngine creates an engine for actor's own logs, positioned on the
// current month.
func NewEngine(store Store, actor models.Actor, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		actor: actor,
		log:   logrus.StandardLogger(),
		loc:   time.UTC,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.month = calendar.StartOfMonth(e.today())
	return e
}

func (e *Engine) today() time.Time {
	return calendar.Today(e.now(), e.loc)
}

// Month returns the currently selected month.
func (e *Engine) Month() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.month
}

// LoadMonth selects month and loads its logs. If another load is issued
// before this one resolves, this result is dropped and ErrStale returned.
func (e *Engine) LoadMonth(ctx context.Context, month time.Time) ([]models.TimeLog, error) {
	month = calendar.StartOfMonth(month)

	e.mu.Lock()
	e.month = month
	tag := e.tags.Issue(monthCategory, calendar.FormatMonth(month))
	e.mu.Unlock()

	logs, err := e.store.ListForUser(ctx, e.actor.UserID, month, calendar.EndOfMonth(month))

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.tags.Current(tag) {
		metrics.StaleResponses.WithLabelValues(monthCategory).Inc()
		e.log.WithField("month", tag.Key).Debug("discarding stale month load")
		return nil, models.ErrStale
	}
	if err != nil {
		return nil, err
	}
	e.logs = logs
	return append([]models.TimeLog(nil), logs...), nil
}

// SetMonth jumps to month.
func (e *Engine) SetMonth(ctx context.Context, month time.Time) ([]models.TimeLog, error) {
	return e.LoadMonth(ctx, month)
}

func (e *Engine) Prev(ctx context.Context) ([]models.TimeLog, error) {
	return e.LoadMonth(ctx, e.Month().AddDate(0, -1, 0))
}

func (e *Engine) Next(ctx context.Context) ([]models.TimeLog, error) {
	return e.LoadMonth(ctx, e.Month().AddDate(0, 1, 0))
}

func (e *Engine) Today(ctx context.Context) ([]models.TimeLog, error) {
	return e.LoadMonth(ctx, e.today())
}

// Logs returns a copy of the loaded set.
func (e *Engine) Logs() []models.TimeLog {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.TimeLog(nil), e.logs...)
}

// LogForDate scans the loaded set for day, comparing calendar days only.
func (e *Engine) LogForDate(day time.Time) (models.TimeLog, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, l := range e.logs {
		if calendar.SameDay(l.Date, day) {
			return l, true
		}
	}
	return models.TimeLog{}, false
}

// DialogHours is the value the log dialog opens with for day.
func (e *Engine) DialogHours(day time.Time) string {
	if l, ok := e.LogForDate(day); ok {
		return FormatHours(l.Hours)
	}
	return ""
}

func (e *Engine) TotalHours() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	var sum float64
	for _, l := range e.logs {
		sum += l.Hours
	}
	return RoundHours(sum)
}

func (e *Engine) DaysLogged() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.logs)
}

// UpsertDay sets the hours logged for day: an update when the loaded set has
// a log for it, an insert otherwise. The month is reloaded afterwards.
func (e *Engine) UpsertDay(ctx context.Context, day time.Time, hours float64) (models.TimeLog, error) {
	if err := ValidateHours(hours); err != nil {
		return models.TimeLog{}, err
	}
	day = calendar.Day(day)

	var (
		saved models.TimeLog
		err   error
	)
	action := models.AuditCreate
	if existing, ok := e.LogForDate(day); ok {
		action = models.AuditUpdate
		saved, err = e.store.UpdateHours(ctx, e.actor, existing.ID, hours)
	} else {
		saved, err = e.insert(ctx, day, hours)
	}
	countMutation(action, err)
	if err != nil {
		return models.TimeLog{}, err
	}

	e.remember(saved)
	e.reload(ctx)
	return saved, nil
}

// insert creates the log for day. Losing a race against a concurrent insert
// for the same day turns into an update of the winning row.
func (e *Engine) insert(ctx context.Context, day time.Time, hours float64) (models.TimeLog, error) {
	row := models.TimeLog{UserID: e.actor.UserID, Date: day, Hours: hours}
	err := e.store.Insert(ctx, e.actor, &row)
	if err == nil {
		return row, nil
	}
	if !errors.Is(err, models.ErrDuplicate) {
		return models.TimeLog{}, err
	}

	e.log.WithFields(logrus.Fields{
		"user_id": e.actor.UserID,
		"date":    calendar.FormatDay(day),
	}).Warn("time log inserted concurrently, updating instead")

	existing, err := e.store.FindByDate(ctx, e.actor.UserID, day)
	if err != nil {
		return models.TimeLog{}, err
	}
	return e.store.UpdateHours(ctx, e.actor, existing.ID, hours)
}

// DeleteDay removes the log for day and reloads the month.
func (e *Engine) DeleteDay(ctx context.Context, day time.Time) error {
	existing, ok := e.LogForDate(day)
	if !ok {
		return fmt.Errorf("no time log on %s: %w", calendar.FormatDay(day), models.ErrNotFound)
	}

	err := e.store.Delete(ctx, e.actor, existing.ID)
	countMutation(models.AuditDelete, err)
	if err != nil {
		return err
	}

	e.forget(existing.ID)
	e.reload(ctx)
	return nil
}

func (e *Engine) remember(saved models.TimeLog) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !calendar.SameMonth(saved.Date, e.month) {
		return
	}
	for i, l := range e.logs {
		if l.ID == saved.ID || calendar.SameDay(l.Date, saved.Date) {
			e.logs[i] = saved
			return
		}
	}
	e.logs = append(e.logs, saved)
}

func (e *Engine) forget(id uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, l := range e.logs {
		if l.ID == id {
			e.logs = append(e.logs[:i], e.logs[i+1:]...)
			return
		}
	}
}

// reload refreshes the current month after a mutation. The mutation already
// succeeded, so a failed refresh is logged and the local set kept.
func (e *Engine) reload(ctx context.Context) {
	_, err := e.LoadMonth(ctx, e.Month())
	if err != nil && !errors.Is(err, models.ErrStale) {
		e.log.WithError(err).WithField("user_id", e.actor.UserID).Warn("failed to reload month after save")
	}
}

func countMutation(action models.AuditAction, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.TimeLogMutations.WithLabelValues(string(action), outcome).Inc()
}
