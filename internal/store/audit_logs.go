package store

import (
	"context"

	"gorm.io/gorm"

	"team-timelog/internal/models"
	"team-timelog/internal/pagination"
)

// AuditLogs reads the trigger-maintained audit table.
type AuditLogs struct {
	db *gorm.DB
}

func NewAuditLogs(db *gorm.DB) *AuditLogs {
	return &AuditLogs{db: db}
}

func (s *AuditLogs) query(ctx context.Context, f models.AuditFilter) *gorm.DB {
	q := s.db.WithContext(ctx).
		Table("audit_logs").
		Joins("JOIN profiles ON profiles.id = audit_logs.user_id")

	if f.EmailContains != "" {
		q = q.Where("profiles.email ILIKE ?", containsPattern(f.EmailContains))
	}
	if f.Action != "" {
		q = q.Where("audit_logs.action = ?", f.Action)
	}
	return q
}

const auditColumns = "audit_logs.*, profiles.email AS email"

func (s *AuditLogs) Query(ctx context.Context, f models.AuditFilter, req pagination.Request) ([]models.AuditEntry, int64, error) {
	var total int64
	if err := s.query(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, wrap("count audit logs", err)
	}

	var entries []models.AuditEntry
	err := s.query(ctx, f).
		Select(auditColumns).
		Order("audit_logs.changed_at desc, audit_logs.id desc").
		Offset(req.Offset()).
		Limit(req.Limit()).
		Scan(&entries).Error
	if err != nil {
		return nil, 0, wrap("query audit logs", err)
	}
	return entries, total, nil
}

func (s *AuditLogs) Entry(ctx context.Context, id int64) (models.AuditEntry, error) {
	var entry models.AuditEntry
	res := s.query(ctx, models.AuditFilter{}).
		Select(auditColumns).
		Where("audit_logs.id = ?", id).
		Limit(1).
		Scan(&entry)
	if res.Error != nil {
		return entry, wrap("get audit log", res.Error)
	}
	if res.RowsAffected == 0 {
		return entry, wrap("get audit log", gorm.ErrRecordNotFound)
	}
	return entry, nil
}
