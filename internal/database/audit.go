package database

import (
	"context"

	"gorm.io/gorm"

	"team-timelog/internal/models"
)

// WithActor runs fn in a transaction whose local settings tell the
// time_logs audit trigger who made the change and from where.
func WithActor(ctx context.Context, db *gorm.DB, actor models.Actor, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(
			"SELECT set_config('app.actor_id', ?, true), set_config('app.client_ip', ?, true), set_config('app.user_agent', ?, true)",
			actor.UserID.String(), actor.IP, actor.UserAgent,
		).Error
		if err != nil {
			return err
		}
		return fn(tx)
	})
}
