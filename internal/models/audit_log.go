package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditAction string

const (
	AuditCreate AuditAction = "create"
	AuditUpdate AuditAction = "update"
	AuditDelete AuditAction = "delete"
)

// AuditLog is written by the time_logs trigger only; the application never
// inserts or changes these rows.
type AuditLog struct {
	ID        int64       `gorm:"primaryKey"`
	UserID    uuid.UUID   `gorm:"type:uuid;not null"`
	Action    AuditAction `gorm:"type:varchar(10);not null"`
	Table     string      `gorm:"column:table_name;type:text;not null"`
	RecordID  uuid.UUID   `gorm:"type:uuid;not null"`
	OldData   datatypes.JSON
	NewData   datatypes.JSON
	ChangedAt time.Time
	IPAddress string `gorm:"type:text"`
	UserAgent string `gorm:"type:text"`
}

// AuditEntry is an audit row joined with the profile email.
type AuditEntry struct {
	AuditLog
	Email string
}

// AuditFilter narrows audit queries. An empty Action means all actions.
type AuditFilter struct {
	EmailContains string
	Action        AuditAction
}

func ParseAuditAction(s string) (AuditAction, bool) {
	switch a := AuditAction(s); a {
	case AuditCreate, AuditUpdate, AuditDelete:
		return a, true
	}
	return "", false
}
