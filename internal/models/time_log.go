package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimeLog is one day of logged hours for one user. Date carries no time
// component; at most one row exists per (user_id, date).
type TimeLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:time_logs_user_id_date_key"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:time_logs_user_id_date_key"`
	Hours     float64   `gorm:"type:numeric(4,2);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t *TimeLog) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TeamLog is a time log joined with the owner's email.
type TeamLog struct {
	TimeLog
	Email string
}

// TimeLogFilter narrows team queries. Nil bounds are open; From and To are
// inclusive calendar days.
type TimeLogFilter struct {
	EmailContains string
	From          *time.Time
	To            *time.Time
	MembersOnly   bool
}
