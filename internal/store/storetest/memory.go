// Package storetest provides an in-memory implementation of the store
// repositories for tests. It mirrors the Postgres behavior the application
// relies on: the (user_id, date) unique index, per-user mutation scoping,
// case-insensitive email matching and the audit trigger.
package storetest

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"team-timelog/internal/calendar"
	"team-timelog/internal/models"
	"team-timelog/internal/pagination"
)

type Memory struct {
	mu       sync.Mutex
	now      func() time.Time
	profiles map[uuid.UUID]models.Profile
	logs     map[uuid.UUID]models.TimeLog
	audit    []models.AuditLog
	calls    map[string]int
	failures map[string]error
}

func New() *Memory {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	var tick int
	return &Memory{
		now: func() time.Time {
			tick++
			return start.Add(time.Duration(tick) * time.Second)
		},
		profiles: make(map[uuid.UUID]models.Profile),
		logs:     make(map[uuid.UUID]models.TimeLog),
		calls:    make(map[string]int),
		failures: make(map[string]error),
	}
}

// Fail makes every later call of op return err until cleared with a nil err.
func (m *Memory) Fail(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

// Calls returns how many times op was invoked.
func (m *Memory) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// TotalCalls returns the number of store invocations of any kind.
func (m *Memory) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int
	for _, c := range m.calls {
		n += c
	}
	return n
}

func (m *Memory) enter(op string) error {
	m.calls[op]++
	if err, ok := m.failures[op]; ok {
		return &models.RemoteCallError{Op: op, Err: err}
	}
	return nil
}

// AddProfile seeds a profile.
func (m *Memory) AddProfile(email string, role models.UserRole) models.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := models.Profile{ID: uuid.New(), Email: email, Role: role}
	p.CreatedAt = m.now()
	p.UpdatedAt = p.CreatedAt
	m.profiles[p.ID] = p
	return p
}

// Logs returns every stored time log of a user.
func (m *Memory) Logs(userID uuid.UUID) []models.TimeLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.TimeLog
	for _, l := range m.logs {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// AuditRows returns the audit rows in insertion order.
func (m *Memory) AuditRows() []models.AuditLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.AuditLog(nil), m.audit...)
}

// AddAudit seeds an audit row directly.
func (m *Memory) AddAudit(row models.AuditLog) models.AuditLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	row.ID = int64(len(m.audit) + 1)
	if row.ChangedAt.IsZero() {
		row.ChangedAt = m.now()
	}
	m.audit = append(m.audit, row)
	return row
}

func (m *Memory) Get(_ context.Context, id uuid.UUID) (models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("get profile"); err != nil {
		return models.Profile{}, err
	}
	p, ok := m.profiles[id]
	if !ok {
		return models.Profile{}, fmt.Errorf("get profile: %w", models.ErrNotFound)
	}
	return p, nil
}

func (m *Memory) Create(_ context.Context, p *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("create profile"); err != nil {
		return err
	}
	if _, ok := m.profiles[p.ID]; ok {
		return fmt.Errorf("create profile: %w", models.ErrDuplicate)
	}
	if p.Role == "" {
		p.Role = models.RoleUser
	}
	p.CreatedAt = m.now()
	p.UpdatedAt = p.CreatedAt
	m.profiles[p.ID] = *p
	return nil
}

func (m *Memory) ListForUser(_ context.Context, userID uuid.UUID, from, to time.Time) ([]models.TimeLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("list time logs"); err != nil {
		return nil, err
	}
	from, to = calendar.Day(from), calendar.Day(to)
	var out []models.TimeLog
	for _, l := range m.logs {
		if l.UserID == userID && !l.Date.Before(from) && !l.Date.After(to) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *Memory) FindByDate(_ context.Context, userID uuid.UUID, day time.Time) (models.TimeLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("find time log"); err != nil {
		return models.TimeLog{}, err
	}
	for _, l := range m.logs {
		if l.UserID == userID && calendar.SameDay(l.Date, day) {
			return l, nil
		}
	}
	return models.TimeLog{}, fmt.Errorf("find time log: %w", models.ErrNotFound)
}

func (m *Memory) Insert(_ context.Context, actor models.Actor, log *models.TimeLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("insert time log"); err != nil {
		return err
	}
	log.UserID = actor.UserID
	log.Date = calendar.Day(log.Date)
	for _, l := range m.logs {
		if l.UserID == log.UserID && l.Date.Equal(log.Date) {
			return fmt.Errorf("insert time log: %w", models.ErrDuplicate)
		}
	}
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	log.CreatedAt = m.now()
	log.UpdatedAt = log.CreatedAt
	m.logs[log.ID] = *log
	m.record(actor, models.AuditCreate, nil, log)
	return nil
}

func (m *Memory) UpdateHours(_ context.Context, actor models.Actor, id uuid.UUID, hours float64) (models.TimeLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("update time log"); err != nil {
		return models.TimeLog{}, err
	}
	old, ok := m.logs[id]
	if !ok || old.UserID != actor.UserID {
		return models.TimeLog{}, fmt.Errorf("update time log: %w", models.ErrNotFound)
	}
	updated := old
	updated.Hours = hours
	updated.UpdatedAt = m.now()
	m.logs[id] = updated
	m.record(actor, models.AuditUpdate, &old, &updated)
	return updated, nil
}

func (m *Memory) Delete(_ context.Context, actor models.Actor, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("delete time log"); err != nil {
		return err
	}
	old, ok := m.logs[id]
	if !ok || old.UserID != actor.UserID {
		return fmt.Errorf("delete time log: %w", models.ErrNotFound)
	}
	delete(m.logs, id)
	m.record(actor, models.AuditDelete, &old, nil)
	return nil
}

// record mimics the time_logs audit trigger.
func (m *Memory) record(actor models.Actor, action models.AuditAction, oldRow, newRow *models.TimeLog) {
	row := models.AuditLog{
		ID:        int64(len(m.audit) + 1),
		UserID:    actor.UserID,
		Action:    action,
		Table:     "time_logs",
		ChangedAt: m.now(),
		IPAddress: actor.IP,
		UserAgent: actor.UserAgent,
	}
	if oldRow != nil {
		row.RecordID = oldRow.ID
		row.OldData = Snapshot(*oldRow)
	}
	if newRow != nil {
		row.RecordID = newRow.ID
		row.NewData = Snapshot(*newRow)
	}
	m.audit = append(m.audit, row)
}

// Snapshot renders a time log the way to_jsonb(row) does.
func Snapshot(l models.TimeLog) []byte {
	b, _ := json.Marshal(map[string]any{
		"id":         l.ID,
		"user_id":    l.UserID,
		"date":       calendar.FormatDay(l.Date),
		"hours":      l.Hours,
		"created_at": l.CreatedAt,
		"updated_at": l.UpdatedAt,
	})
	return b
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func (m *Memory) team(f models.TimeLogFilter) []models.TeamLog {
	var out []models.TeamLog
	for _, l := range m.logs {
		p := m.profiles[l.UserID]
		if f.MembersOnly && p.Role != models.RoleUser {
			continue
		}
		if f.EmailContains != "" && !containsFold(p.Email, f.EmailContains) {
			continue
		}
		if f.From != nil && l.Date.Before(calendar.Day(*f.From)) {
			continue
		}
		if f.To != nil && l.Date.After(calendar.Day(*f.To)) {
			continue
		}
		out = append(out, models.TeamLog{TimeLog: l, Email: p.Email})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (m *Memory) ListTeam(_ context.Context, f models.TimeLogFilter) ([]models.TeamLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("list team logs"); err != nil {
		return nil, err
	}
	return m.team(f), nil
}

func (m *Memory) QueryTeam(_ context.Context, f models.TimeLogFilter, req pagination.Request) ([]models.TeamLog, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("query team logs"); err != nil {
		return nil, 0, err
	}
	all := m.team(f)
	return window(all, req), int64(len(all)), nil
}

func (m *Memory) SumHours(_ context.Context, f models.TimeLogFilter) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("sum team hours"); err != nil {
		return 0, err
	}
	var sum float64
	for _, l := range m.team(f) {
		sum += l.Hours
	}
	return sum, nil
}

func (m *Memory) auditEntries(f models.AuditFilter) []models.AuditEntry {
	var out []models.AuditEntry
	for _, a := range m.audit {
		p, ok := m.profiles[a.UserID]
		if !ok {
			continue
		}
		if f.EmailContains != "" && !containsFold(p.Email, f.EmailContains) {
			continue
		}
		if f.Action != "" && a.Action != f.Action {
			continue
		}
		out = append(out, models.AuditEntry{AuditLog: a, Email: p.Email})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ChangedAt.Equal(out[j].ChangedAt) {
			return out[i].ChangedAt.After(out[j].ChangedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (m *Memory) Query(_ context.Context, f models.AuditFilter, req pagination.Request) ([]models.AuditEntry, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("query audit logs"); err != nil {
		return nil, 0, err
	}
	all := m.auditEntries(f)
	return window(all, req), int64(len(all)), nil
}

func (m *Memory) Entry(_ context.Context, id int64) (models.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("get audit log"); err != nil {
		return models.AuditEntry{}, err
	}
	for _, e := range m.auditEntries(models.AuditFilter{}) {
		if e.ID == id {
			return e, nil
		}
	}
	return models.AuditEntry{}, fmt.Errorf("get audit log: %w", models.ErrNotFound)
}

func window[T any](all []T, req pagination.Request) []T {
	lo := min(req.Offset(), len(all))
	hi := min(lo+req.Limit(), len(all))
	return append([]T(nil), all[lo:hi]...)
}
