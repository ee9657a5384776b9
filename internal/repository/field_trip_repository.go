package repository

import (
	"context"
	"errors"
	"time"

	"project-attendance-backend/internal/apperror"
	"project-attendance-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FieldTripRepository interface {
	ReplaceActive(ctx context.Context, employeeNumber string, trips []model.FieldTrip) ([]model.FieldTrip, error)
	GetByKey(ctx context.Context, key string) (*model.FieldTrip, error)
	GetActiveByEmployee(ctx context.Context, employeeNumber string) ([]model.FieldTrip, error)
	GetActiveByEmployees(ctx context.Context, employeeNumbers []string) ([]model.FieldTrip, error)
	GetActiveCovering(ctx context.Context, day time.Time) ([]model.FieldTrip, error)
	GetExpired(ctx context.Context, asOf time.Time) ([]model.FieldTrip, error)
	Deactivate(ctx context.Context, key string) error
	ExpireByKey(ctx context.Context, key string, asOf time.Time) (bool, error)
	Update(ctx context.Context, trip *model.FieldTrip) error
}

type fieldTripRepository struct {
	db *gorm.DB
}

func NewFieldTripRepository(db *gorm.DB) FieldTripRepository {
	return &fieldTripRepository{db}
}

// ReplaceActive deactivates every active trip of the employee and creates trips in
// one transaction. The employee row is locked first so two replaces for the same
// employee never interleave.
func (r *fieldTripRepository) ReplaceActive(ctx context.Context, employeeNumber string, trips []model.FieldTrip) ([]model.FieldTrip, error) {
	created := make([]model.FieldTrip, 0, len(trips))

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("employee_number = ?", employeeNumber).
			First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFoundf("user %s not found", employeeNumber)
			}
			return err
		}

		if err := tx.Model(&model.FieldTrip{}).
			Where("employee_number = ? AND is_active = ?", employeeNumber, true).
			Update("is_active", false).Error; err != nil {
			return err
		}

		for _, trip := range trips {
			trip.EmployeeNumber = employeeNumber
			trip.IsActive = true
			trip.StartDate = model.DateOnly(trip.StartDate)
			trip.EndDate = model.DateOnly(trip.EndDate)
			if err := tx.Create(&trip).Error; err != nil {
				return err
			}
			created = append(created, trip)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *fieldTripRepository) GetByKey(ctx context.Context, key string) (*model.FieldTrip, error) {
	var trip model.FieldTrip
	if err := r.db.WithContext(ctx).Where("field_trip_key = ?", key).First(&trip).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *fieldTripRepository) GetActiveByEmployee(ctx context.Context, employeeNumber string) ([]model.FieldTrip, error) {
	var trips []model.FieldTrip
	err := r.db.WithContext(ctx).
		Where("employee_number = ? AND is_active = ?", employeeNumber, true).
		Order("start_date asc").
		Find(&trips).Error
	return trips, err
}

func (r *fieldTripRepository) GetActiveByEmployees(ctx context.Context, employeeNumbers []string) ([]model.FieldTrip, error) {
	var trips []model.FieldTrip
	if len(employeeNumbers) == 0 {
		return trips, nil
	}
	err := r.db.WithContext(ctx).
		Where("employee_number IN ? AND is_active = ?", employeeNumbers, true).
		Order("start_date asc").
		Find(&trips).Error
	return trips, err
}

// GetActiveCovering returns active trips with start_date <= day <= end_date, with the
// owning user preloaded, ordered by start date then employee.
func (r *fieldTripRepository) GetActiveCovering(ctx context.Context, day time.Time) ([]model.FieldTrip, error) {
	day = model.DateOnly(day)
	var trips []model.FieldTrip
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, day, day).
		Order("start_date asc").
		Order("employee_number asc").
		Find(&trips).Error
	return trips, err
}

// GetExpired returns active trips whose end date is strictly before asOf.
func (r *fieldTripRepository) GetExpired(ctx context.Context, asOf time.Time) ([]model.FieldTrip, error) {
	var trips []model.FieldTrip
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND end_date < ?", true, model.DateOnly(asOf)).
		Order("end_date asc").
		Find(&trips).Error
	return trips, err
}

func (r *fieldTripRepository) Deactivate(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Model(&model.FieldTrip{}).
		Where("field_trip_key = ?", key).
		Update("is_active", false).Error
}

// ExpireByKey deactivates the trip only while it is still active and ends before
// asOf, so an end date extended after GetExpired read it is left alone.
func (r *fieldTripRepository) ExpireByKey(ctx context.Context, key string, asOf time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.FieldTrip{}).
		Where("field_trip_key = ? AND is_active = ? AND end_date < ?", key, true, model.DateOnly(asOf)).
		Update("is_active", false)
	return res.RowsAffected > 0, res.Error
}

func (r *fieldTripRepository) Update(ctx context.Context, trip *model.FieldTrip) error {
	return r.db.WithContext(ctx).Model(&model.FieldTrip{}).
		Where("field_trip_key = ?", trip.FieldTripKey).
		Updates(map[string]interface{}{
			"start_date":  model.DateOnly(trip.StartDate),
			"end_date":    model.DateOnly(trip.EndDate),
			"description": trip.Description,
		}).Error
}
