package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"team-timelog/internal/models"
)

type Profiles struct {
	db *gorm.DB
}

func NewProfiles(db *gorm.DB) *Profiles {
	return &Profiles{db: db}
}

func (s *Profiles) Get(ctx context.Context, id uuid.UUID) (models.Profile, error) {
	var p models.Profile
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&p).Error
	return p, wrap("get profile", err)
}

func (s *Profiles) Create(ctx context.Context, p *models.Profile) error {
	return wrap("create profile", s.db.WithContext(ctx).Create(p).Error)
}
