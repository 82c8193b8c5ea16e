package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"team-timelog/internal/calendar"
	"team-timelog/internal/database"
	"team-timelog/internal/models"
	"team-timelog/internal/pagination"
)

type TimeLogs struct {
	db *gorm.DB
}

func NewTimeLogs(db *gorm.DB) *TimeLogs {
	return &TimeLogs{db: db}
}

// ListForUser returns the user's logs with from <= date <= to.
func (s *TimeLogs) ListForUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.TimeLog, error) {
	var logs []models.TimeLog
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("date >= ? AND date <= ?", calendar.FormatDay(from), calendar.FormatDay(to)).
		Order("date asc").
		Find(&logs).Error
	return logs, wrap("list time logs", err)
}

func (s *TimeLogs) FindByDate(ctx context.Context, userID uuid.UUID, day time.Time) (models.TimeLog, error) {
	var log models.TimeLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, calendar.FormatDay(day)).
		Take(&log).Error
	return log, wrap("find time log", err)
}

func (s *TimeLogs) Insert(ctx context.Context, actor models.Actor, log *models.TimeLog) error {
	log.UserID = actor.UserID
	log.Date = calendar.Day(log.Date)
	err := database.WithActor(ctx, s.db, actor, func(tx *gorm.DB) error {
		return tx.Create(log).Error
	})
	return wrap("insert time log", err)
}

// UpdateHours changes the hours of one of the actor's own logs.
func (s *TimeLogs) UpdateHours(ctx context.Context, actor models.Actor, id uuid.UUID, hours float64) (models.TimeLog, error) {
	var updated models.TimeLog
	err := database.WithActor(ctx, s.db, actor, func(tx *gorm.DB) error {
		res := tx.Model(&models.TimeLog{}).
			Where("id = ? AND user_id = ?", id, actor.UserID).
			Update("hours", hours)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("id = ?", id).Take(&updated).Error
	})
	return updated, wrap("update time log", err)
}

// Delete removes one of the actor's own logs.
func (s *TimeLogs) Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	err := database.WithActor(ctx, s.db, actor, func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, actor.UserID).Delete(&models.TimeLog{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return wrap("delete time log", err)
}

// teamQuery joins time_logs to profiles and applies f.
func (s *TimeLogs) teamQuery(ctx context.Context, f models.TimeLogFilter) *gorm.DB {
	q := s.db.WithContext(ctx).
		Table("time_logs").
		Joins("JOIN profiles ON profiles.id = time_logs.user_id")

	if f.MembersOnly {
		q = q.Where("profiles.role = ?", models.RoleUser)
	}
	if f.EmailContains != "" {
		q = q.Where("profiles.email ILIKE ?", containsPattern(f.EmailContains))
	}
	if f.From != nil {
		q = q.Where("time_logs.date >= ?", calendar.FormatDay(*f.From))
	}
	if f.To != nil {
		q = q.Where("time_logs.date <= ?", calendar.FormatDay(*f.To))
	}
	return q
}

const teamColumns = "time_logs.*, profiles.email AS email"

// ListTeam returns every log matching f, newest day first.
func (s *TimeLogs) ListTeam(ctx context.Context, f models.TimeLogFilter) ([]models.TeamLog, error) {
	var logs []models.TeamLog
	err := s.teamQuery(ctx, f).
		Select(teamColumns).
		Order("time_logs.date desc, profiles.email asc").
		Scan(&logs).Error
	return logs, wrap("list team logs", err)
}

// QueryTeam returns one page of logs matching f and the exact total.
func (s *TimeLogs) QueryTeam(ctx context.Context, f models.TimeLogFilter, req pagination.Request) ([]models.TeamLog, int64, error) {
	var total int64
	if err := s.teamQuery(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, wrap("count team logs", err)
	}

	var logs []models.TeamLog
	err := s.teamQuery(ctx, f).
		Select(teamColumns).
		Order("time_logs.date desc, time_logs.created_at desc").
		Offset(req.Offset()).
		Limit(req.Limit()).
		Scan(&logs).Error
	if err != nil {
		return nil, 0, wrap("query team logs", err)
	}
	return logs, total, nil
}

// SumHours totals the hours of every log matching f.
func (s *TimeLogs) SumHours(ctx context.Context, f models.TimeLogFilter) (float64, error) {
	var sum float64
	err := s.teamQuery(ctx, f).
		Select("COALESCE(SUM(time_logs.hours), 0)").
		Scan(&sum).Error
	return sum, wrap("sum team hours", err)
}
