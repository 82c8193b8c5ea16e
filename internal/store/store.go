package store

import "gorm.io/gorm"

// Store bundles the repositories over one database handle.
type Store struct {
	*Profiles
	*TimeLogs
	*AuditLogs
}

func New(db *gorm.DB) *Store {
	return &Store{
		Profiles:  NewProfiles(db),
		TimeLogs:  NewTimeLogs(db),
		AuditLogs: NewAuditLogs(db),
	}
}
