package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"project-attendance-backend/internal/apperror"
	"project-attendance-backend/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubmissionStore keeps the HR request / PI submission state per (PI, period key).
// Submit must consume the request atomically and fail with a Conflict when there is
// none.
type SubmissionStore interface {
	SaveRequest(ctx context.Context, pi, periodKey string, at time.Time) error
	HasRequest(ctx context.Context, pi, periodKey string) (bool, error)
	RequestedPeriods(ctx context.Context, pi string) ([]string, error)
	Submit(ctx context.Context, pi, periodKey string, stats []model.UserStatistics, at time.Time) error
	FindSubmission(ctx context.Context, pi, periodKey string) ([]model.UserStatistics, bool, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository is the durable SubmissionStore backed by the hr_requests and
// pi_submissions tables.
func NewSubmissionRepository(db *gorm.DB) SubmissionStore {
	return &submissionRepository{db}
}

func (r *submissionRepository) SaveRequest(ctx context.Context, pi, periodKey string, at time.Time) error {
	req := model.HRRequest{PIUsername: pi, PeriodKey: periodKey, RequestedAt: at}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pi_username"}, {Name: "period_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"requested_at"}),
		}).
		Create(&req).Error
}

func (r *submissionRepository) HasRequest(ctx context.Context, pi, periodKey string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.HRRequest{}).
		Where("pi_username = ? AND period_key = ?", pi, periodKey).
		Count(&count).Error
	return count > 0, err
}

func (r *submissionRepository) RequestedPeriods(ctx context.Context, pi string) ([]string, error) {
	var keys []string
	err := r.db.WithContext(ctx).Model(&model.HRRequest{}).
		Where("pi_username = ?", pi).
		Order("requested_at asc").
		Pluck("period_key", &keys).Error
	return keys, err
}

func (r *submissionRepository) Submit(ctx context.Context, pi, periodKey string, stats []model.UserStatistics, at time.Time) error {
	if stats == nil {
		stats = []model.UserStatistics{}
	}
	payload, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req model.HRRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("pi_username = ? AND period_key = ?", pi, periodKey).
			First(&req).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.Conflictf("no active data request from HR for %s (%s)", pi, periodKey)
			}
			return err
		}

		sub := model.PISubmission{
			PIUsername:  pi,
			PeriodKey:   periodKey,
			SubmittedAt: at,
			Statistics:  datatypes.JSON(payload),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pi_username"}, {Name: "period_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"submitted_at", "statistics"}),
		}).Create(&sub).Error; err != nil {
			return err
		}

		return tx.Where("pi_username = ? AND period_key = ?", pi, periodKey).
			Delete(&model.HRRequest{}).Error
	})
}

func (r *submissionRepository) FindSubmission(ctx context.Context, pi, periodKey string) ([]model.UserStatistics, bool, error) {
	var sub model.PISubmission
	err := r.db.WithContext(ctx).
		Where("pi_username = ? AND period_key = ?", pi, periodKey).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	stats := []model.UserStatistics{}
	if len(sub.Statistics) > 0 {
		if err := json.Unmarshal(sub.Statistics, &stats); err != nil {
			return nil, true, err
		}
	}
	return stats, true, nil
}
