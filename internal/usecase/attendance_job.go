package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"project-attendance-backend/internal/apperror"
	"project-attendance-backend/internal/model"
	"project-attendance-backend/internal/repository"
)

type MarkStatus string

const (
	StatusMarked        MarkStatus = "marked"
	StatusAlreadyMarked MarkStatus = "already_marked"
	StatusFailed        MarkStatus = "failed"
)

type MarkResult struct {
	EmployeeNumber string     `json:"employeeNumber"`
	Username       string     `json:"username"`
	Status         MarkStatus `json:"status"`
	AttendanceID   string     `json:"attendanceId,omitempty"`
	Error          string     `json:"error,omitempty"`
}

type CompletionReport struct {
	Date      time.Time `json:"date"`
	Found     int       `json:"found"`
	Completed int       `json:"completed"`
	Failed    int       `json:"failed"`
}

// Representative working hours written on auto-marked field-trip attendance.
const (
	fieldTripCheckinHour, fieldTripCheckinMinute   = 9, 30
	fieldTripCheckoutHour, fieldTripCheckoutMinute = 17, 30
)

type AttendanceJobUsecase struct {
	trips      repository.FieldTripRepository
	attendance repository.AttendanceRepository
	loc        *time.Location
}

// NewAttendanceJobUsecase builds the two daily jobs. loc is the wall clock used for
// the synthetic check-in and check-out times.
func NewAttendanceJobUsecase(trips repository.FieldTripRepository, attendance repository.AttendanceRepository, loc *time.Location) *AttendanceJobUsecase {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceJobUsecase{trips: trips, attendance: attendance, loc: loc}
}

// MarkFieldTripAttendance writes a FULL_DAY / FIELDTRIP record for every employee on an
// active trip covering today who has no record yet. Running it again the same day
// only yields already_marked results.
func (u *AttendanceJobUsecase) MarkFieldTripAttendance(ctx context.Context, today time.Time) ([]MarkResult, error) {
	today = model.DateOnly(today)
	trips, err := u.trips.GetActiveCovering(ctx, today)
	if err != nil {
		return nil, apperror.FromGorm(err, "field trips")
	}

	results := make([]MarkResult, 0, len(trips))
	seen := make(map[string]bool, len(trips))
	for _, trip := range trips {
		if seen[trip.EmployeeNumber] {
			continue
		}
		seen[trip.EmployeeNumber] = true

		result := MarkResult{EmployeeNumber: trip.EmployeeNumber}
		if trip.User != nil {
			result.Username = trip.User.Username
		}

		created, err := u.markOne(ctx, trip, today)
		switch {
		case err != nil:
			log.Printf("[JOB] field trip attendance for %s failed: %v", trip.EmployeeNumber, err)
			result.Status = StatusFailed
			result.Error = err.Error()
		case created:
			result.Status = StatusMarked
			result.AttendanceID = trip.EmployeeNumber + "_" + today.Format(time.RFC3339)
		default:
			result.Status = StatusAlreadyMarked
		}
		results = append(results, result)
	}

	log.Printf("[JOB] field trip attendance processed for %d user(s) on %s", len(results), today.Format(model.DateLayout))
	return results, nil
}

func (u *AttendanceJobUsecase) markOne(ctx context.Context, trip model.FieldTrip, today time.Time) (bool, error) {
	existing, err := u.attendance.GetByDate(ctx, trip.EmployeeNumber, today)
	if err == nil && existing != nil {
		return false, nil
	}
	if err != nil && !apperror.Is(apperror.FromGorm(err, "attendance"), apperror.NotFound) {
		return false, err
	}

	checkin := time.Date(today.Year(), today.Month(), today.Day(), fieldTripCheckinHour, fieldTripCheckinMinute, 0, 0, u.loc)
	checkout := time.Date(today.Year(), today.Month(), today.Day(), fieldTripCheckoutHour, fieldTripCheckoutMinute, 0, 0, u.loc)
	description := "Auto-marked"
	if trip.Description != nil && *trip.Description != "" {
		description = *trip.Description
	}
	taken := fmt.Sprintf("Field Trip - %s", description)

	// the unique (employee_number, date) key settles a race with a concurrent run
	return u.attendance.CreateIfAbsent(ctx, &model.Attendance{
		EmployeeNumber: trip.EmployeeNumber,
		Date:           today,
		CheckinTime:    &checkin,
		CheckoutTime:   &checkout,
		SessionType:    model.SessionForenoon,
		AttendanceType: model.AttendanceFullDay,
		LocationType:   model.LocationFieldTrip,
		TakenLocation:  &taken,
	})
}

// CompleteOpenAttendance classifies today's check-ins without a checkout as FULL_DAY.
// The checkout stays empty, which marks the record as auto-completed.
func (u *AttendanceJobUsecase) CompleteOpenAttendance(ctx context.Context, today time.Time) (CompletionReport, error) {
	today = model.DateOnly(today)
	report := CompletionReport{Date: today}

	open, err := u.attendance.GetOpenByDate(ctx, today)
	if err != nil {
		return report, apperror.FromGorm(err, "attendance")
	}
	report.Found = len(open)

	for _, a := range open {
		n, err := u.attendance.MarkFullDay(ctx, a.EmployeeNumber, today)
		if err != nil {
			log.Printf("[JOB] auto-complete %s on %s failed: %v", a.EmployeeNumber, today.Format(model.DateLayout), err)
			report.Failed++
			continue
		}
		if n > 0 {
			report.Completed++
		}
	}

	log.Printf("[JOB] auto-completed %d attendance record(s) for %s", report.Completed, today.Format(model.DateLayout))
	return report, nil
}
