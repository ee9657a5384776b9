package repository

import (
	"context"
	"time"

	"project-attendance-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttendanceRepository interface {
	GetByDate(ctx context.Context, employeeNumber string, date time.Time) (*model.Attendance, error)
	CreateIfAbsent(ctx context.Context, attendance *model.Attendance) (bool, error)
	GetOpenByDate(ctx context.Context, date time.Time) ([]model.Attendance, error)
	MarkFullDay(ctx context.Context, employeeNumber string, date time.Time) (int64, error)
	GetBetween(ctx context.Context, employeeNumbers []string, start, end time.Time) ([]model.Attendance, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db}
}

func (r *attendanceRepository) GetByDate(ctx context.Context, employeeNumber string, date time.Time) (*model.Attendance, error) {
	var attendance model.Attendance
	err := r.db.WithContext(ctx).
		Where("employee_number = ? AND date = ?", employeeNumber, model.DateOnly(date)).
		First(&attendance).Error
	if err != nil {
		return nil, err
	}
	return &attendance, nil
}

// CreateIfAbsent inserts the row unless (employee_number, date) already exists and
// reports whether a row was written.
func (r *attendanceRepository) CreateIfAbsent(ctx context.Context, attendance *model.Attendance) (bool, error) {
	attendance.Date = model.DateOnly(attendance.Date)
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(attendance)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// GetOpenByDate returns the day's rows with a check-in, no check-out and not yet
// classified as a full day.
func (r *attendanceRepository) GetOpenByDate(ctx context.Context, date time.Time) ([]model.Attendance, error) {
	var list []model.Attendance
	err := r.db.WithContext(ctx).
		Where("date = ? AND checkin_time IS NOT NULL AND checkout_time IS NULL", model.DateOnly(date)).
		Where("attendance_type IS NULL OR attendance_type <> ?", model.AttendanceFullDay).
		Order("employee_number asc").
		Find(&list).Error
	return list, err
}

// MarkFullDay only touches a row that is still open, so a checkout recorded in the
// meantime is never overridden.
func (r *attendanceRepository) MarkFullDay(ctx context.Context, employeeNumber string, date time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Attendance{}).
		Where("employee_number = ? AND date = ?", employeeNumber, model.DateOnly(date)).
		Where("checkin_time IS NOT NULL AND checkout_time IS NULL").
		Update("attendance_type", model.AttendanceFullDay)
	return res.RowsAffected, res.Error
}

func (r *attendanceRepository) GetBetween(ctx context.Context, employeeNumbers []string, start, end time.Time) ([]model.Attendance, error) {
	var list []model.Attendance
	if len(employeeNumbers) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).
		Where("employee_number IN ?", employeeNumbers).
		Where("date >= ? AND date <= ?", model.DateOnly(start), model.DateOnly(end)).
		Order("date desc").
		Find(&list).Error
	return list, err
}
