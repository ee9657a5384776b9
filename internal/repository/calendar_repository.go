package repository

import (
	"context"
	"time"

	"project-attendance-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CalendarRepository interface {
	GetBetween(ctx context.Context, start, end time.Time) ([]model.Calendar, error)
	CountNonWorking(ctx context.Context, start, end time.Time) (int64, error)
	Upsert(ctx context.Context, days []model.Calendar) error
	Delete(ctx context.Context, date time.Time) (bool, error)
}

type calendarRepository struct {
	db *gorm.DB
}

func NewCalendarRepository(db *gorm.DB) CalendarRepository {
	return &calendarRepository{db}
}

func (r *calendarRepository) GetBetween(ctx context.Context, start, end time.Time) ([]model.Calendar, error) {
	var days []model.Calendar
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", model.DateOnly(start), model.DateOnly(end)).
		Order("date asc").
		Find(&days).Error
	return days, err
}

// CountNonWorking counts dates in [start, end] flagged holiday or weekend.
func (r *calendarRepository) CountNonWorking(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Calendar{}).
		Where("date >= ? AND date <= ?", model.DateOnly(start), model.DateOnly(end)).
		Where("is_holiday = ? OR is_weekend = ?", true, true).
		Count(&count).Error
	return count, err
}

func (r *calendarRepository) Upsert(ctx context.Context, days []model.Calendar) error {
	if len(days) == 0 {
		return nil
	}
	for i := range days {
		days[i].Date = model.DateOnly(days[i].Date)
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_holiday", "is_weekend", "description"}),
		}).
		Create(&days).Error
}

func (r *calendarRepository) Delete(ctx context.Context, date time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("date = ?", model.DateOnly(date)).
		Delete(&model.Calendar{})
	return res.RowsAffected > 0, res.Error
}
