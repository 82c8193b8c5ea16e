// Package audit lists the audit trail written by the time_logs trigger.
package audit

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"team-timelog/internal/latest"
	"team-timelog/internal/metrics"
	"team-timelog/internal/models"
	"team-timelog/internal/pagination"
)

const (
	DefaultPageSize = 25
	queryCategory   = "audit"
)

type Store interface {
	Query(ctx context.Context, f models.AuditFilter, req pagination.Request) ([]models.AuditEntry, int64, error)
	Entry(ctx context.Context, id int64) (models.AuditEntry, error)
}

// Query holds the audit list filters. An empty Action lists all actions.
type Query struct {
	Email  string
	Action models.AuditAction
}

func (q Query) Filter() models.AuditFilter {
	return models.AuditFilter{EmailContains: strings.TrimSpace(q.Email), Action: q.Action}
}

func (q Query) Key() string {
	return strings.ToLower(strings.TrimSpace(q.Email)) + "|" + string(q.Action)
}

type Engine struct {
	store Store
	log   *logrus.Logger
	tags  latest.Tracker
}

func NewEngine(store Store, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{store: store, log: log}
}

// Query returns one page of audit entries, newest first.
func (e *Engine) Query(ctx context.Context, q Query, req pagination.Request) (pagination.Page[models.AuditEntry], error) {
	tag := e.tags.Issue(queryCategory, q.Key())

	items, total, err := e.store.Query(ctx, q.Filter(), req)
	if !e.tags.Current(tag) {
		metrics.StaleResponses.WithLabelValues(queryCategory).Inc()
		e.log.WithField("filter", tag.Key).Debug("discarding stale audit query")
		return pagination.Page[models.AuditEntry]{}, models.ErrStale
	}
	if err != nil {
		return pagination.Page[models.AuditEntry]{}, err
	}
	return pagination.NewPage(items, total, req), nil
}

func (e *Engine) Entry(ctx context.Context, id int64) (models.AuditEntry, error) {
	return e.store.Entry(ctx, id)
}
