package models

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// Profile is the application-side user record. The id equals the identity
// provider subject.
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"type:text;not null"`
	Role      UserRole  `gorm:"type:varchar(20);not null;default:user"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Actor describes who performs a mutation. The store hands it to the audit
// trigger.
type Actor struct {
	UserID    uuid.UUID
	IP        string
	UserAgent string
}
