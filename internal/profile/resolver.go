// Package profile resolves the application profile of an authenticated user.
package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"team-timelog/internal/metrics"
	"team-timelog/internal/models"
)

type Store interface {
	Get(ctx context.Context, id uuid.UUID) (models.Profile, error)
	Create(ctx context.Context, p *models.Profile) error
}

type Resolver struct {
	store Store
	log   *logrus.Logger
}

func NewResolver(store Store, log *logrus.Logger) *Resolver {
	return &Resolver{store: store, log: log}
}

// Resolve returns the profile for userID, creating it with role "user" on
// first access. A failed insert is a ProfileCreationError and is not retried.
func (r *Resolver) Resolve(ctx context.Context, userID uuid.UUID, email string) (models.Profile, error) {
	p, err := r.store.Get(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return models.Profile{}, err
	}

	p = models.Profile{ID: userID, Email: email, Role: models.RoleUser}
	if err := r.store.Create(ctx, &p); err != nil {
		r.log.WithError(err).WithField("user_id", userID).Error("failed to create profile")
		return models.Profile{}, &models.ProfileCreationError{Err: err}
	}

	metrics.ProfilesCreated.Inc()
	r.log.WithFields(logrus.Fields{"user_id": userID, "email": email}).Info("created profile")
	return p, nil
}
