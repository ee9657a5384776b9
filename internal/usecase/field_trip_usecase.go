package usecase

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"project-attendance-backend/internal/apperror"
	"project-attendance-backend/internal/model"
	"project-attendance-backend/internal/repository"

	"gorm.io/gorm"
)

// TripDates is one requested trip range; EndDate is inclusive.
type TripDates struct {
	StartDate   time.Time
	EndDate     time.Time
	Description *string
}

// FieldTripPatch leaves nil fields untouched. ClearDescription removes the
// description and wins over Description.
type FieldTripPatch struct {
	StartDate        *time.Time
	EndDate          *time.Time
	Description      *string
	ClearDescription bool
}

type ActiveTrip struct {
	FieldTripKey   string    `json:"fieldTripKey"`
	EmployeeNumber string    `json:"employeeNumber"`
	Username       string    `json:"username"`
	EmpClass       string    `json:"empClass"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	Description    *string   `json:"description"`
	CreatedBy      string    `json:"createdBy"`
	DaysRemaining  int       `json:"daysRemaining"`
}

type EmployeeTrips struct {
	EmployeeNumber string             `json:"employeeNumber"`
	Username       string             `json:"username"`
	EmpClass       string             `json:"empClass"`
	LocationType   model.LocationType `json:"locationType"`
	FieldTrips     []model.FieldTrip  `json:"fieldTrips"`
}

type FieldTripUsecase struct {
	trips  repository.FieldTripRepository
	roster repository.RosterRepository
}

func NewFieldTripUsecase(trips repository.FieldTripRepository, roster repository.RosterRepository) *FieldTripUsecase {
	return &FieldTripUsecase{trips: trips, roster: roster}
}

// ReplaceActiveTrips deactivates all active trips of the employee and creates the
// given ones, all or nothing. An empty list only clears.
func (u *FieldTripUsecase) ReplaceActiveTrips(ctx context.Context, employeeNumber string, dates []TripDates, createdBy string) ([]model.FieldTrip, error) {
	if employeeNumber == "" {
		return nil, apperror.InvalidInputf("employee number is required")
	}
	if createdBy == "" {
		createdBy = "admin"
	}

	trips := make([]model.FieldTrip, 0, len(dates))
	for i, d := range dates {
		start, end := model.DateOnly(d.StartDate), model.DateOnly(d.EndDate)
		if d.StartDate.IsZero() || d.EndDate.IsZero() {
			return nil, apperror.InvalidInputf("field trip %d: start and end date are required", i+1)
		}
		if end.Before(start) {
			return nil, apperror.InvalidInputf("field trip %d: end date is before start date", i+1)
		}
		trips = append(trips, model.FieldTrip{
			StartDate:   start,
			EndDate:     end,
			Description: d.Description,
			CreatedBy:   createdBy,
		})
	}

	created, err := u.trips.ReplaceActive(ctx, employeeNumber, trips)
	if err != nil {
		if apperror.Is(err, apperror.NotFound) {
			return nil, err
		}
		log.Printf("[FIELDTRIP] replace for %s rolled back: %v", employeeNumber, err)
		return nil, apperror.Wrap(apperror.Conflict, err, "field trips for %s were not saved", employeeNumber)
	}

	log.Printf("[FIELDTRIP] %s now has %d active trip(s), set by %s", employeeNumber, len(created), createdBy)
	return created, nil
}

// ExpireOverdueTrips deactivates active trips that ended before asOf. A failure on one
// trip is logged and the rest are still processed.
func (u *FieldTripUsecase) ExpireOverdueTrips(ctx context.Context, asOf time.Time) ([]model.FieldTrip, error) {
	expired, err := u.trips.GetExpired(ctx, asOf)
	if err != nil {
		return nil, apperror.FromGorm(err, "field trips")
	}

	deactivated := make([]model.FieldTrip, 0, len(expired))
	for _, trip := range expired {
		ok, err := u.trips.ExpireByKey(ctx, trip.FieldTripKey, asOf)
		if err != nil {
			log.Printf("[FIELDTRIP] expire %s (%s) failed: %v", trip.FieldTripKey, trip.EmployeeNumber, err)
			continue
		}
		if !ok {
			log.Printf("[FIELDTRIP] %s (%s) changed since it was read, not expired", trip.FieldTripKey, trip.EmployeeNumber)
			continue
		}
		trip.IsActive = false
		deactivated = append(deactivated, trip)
	}

	log.Printf("[FIELDTRIP] deactivated %d of %d expired trip(s) as of %s", len(deactivated), len(expired), model.DateOnly(asOf).Format(model.DateLayout))
	return deactivated, nil
}

func (u *FieldTripUsecase) IsOnFieldTrip(ctx context.Context, employeeNumber string, asOf time.Time) (bool, error) {
	trips, err := u.trips.GetActiveByEmployee(ctx, employeeNumber)
	if err != nil {
		return false, apperror.FromGorm(err, "field trips")
	}
	return coversAny(trips, asOf), nil
}

func (u *FieldTripUsecase) LocationFor(ctx context.Context, employeeNumber string, asOf time.Time) (model.LocationType, error) {
	onTrip, err := u.IsOnFieldTrip(ctx, employeeNumber, asOf)
	if err != nil {
		return "", err
	}
	if onTrip {
		return model.LocationFieldTrip, nil
	}
	return model.LocationCampus, nil
}

func (u *FieldTripUsecase) Deactivate(ctx context.Context, key string) (*model.FieldTrip, error) {
	trip, err := u.trips.GetByKey(ctx, key)
	if err != nil {
		return nil, notFoundTrip(err, key)
	}
	if err := u.trips.Deactivate(ctx, key); err != nil {
		return nil, apperror.FromGorm(err, "field trip")
	}
	trip.IsActive = false
	return trip, nil
}

func (u *FieldTripUsecase) Update(ctx context.Context, key string, patch FieldTripPatch) (*model.FieldTrip, error) {
	trip, err := u.trips.GetByKey(ctx, key)
	if err != nil {
		return nil, notFoundTrip(err, key)
	}

	if patch.StartDate != nil {
		trip.StartDate = model.DateOnly(*patch.StartDate)
	}
	if patch.EndDate != nil {
		trip.EndDate = model.DateOnly(*patch.EndDate)
	}
	switch {
	case patch.ClearDescription:
		trip.Description = nil
	case patch.Description != nil:
		trip.Description = patch.Description
	}
	if trip.EndDate.Before(trip.StartDate) {
		return nil, apperror.InvalidInputf("end date is before start date")
	}

	if err := u.trips.Update(ctx, trip); err != nil {
		return nil, apperror.FromGorm(err, "field trip")
	}
	return trip, nil
}

// ListActiveTrips returns the trips covering asOf ordered by start date then employee.
func (u *FieldTripUsecase) ListActiveTrips(ctx context.Context, asOf time.Time) ([]ActiveTrip, error) {
	asOf = model.DateOnly(asOf)
	trips, err := u.trips.GetActiveCovering(ctx, asOf)
	if err != nil {
		return nil, apperror.FromGorm(err, "field trips")
	}

	list := make([]ActiveTrip, 0, len(trips))
	for _, trip := range trips {
		item := ActiveTrip{
			FieldTripKey:   trip.FieldTripKey,
			EmployeeNumber: trip.EmployeeNumber,
			StartDate:      trip.StartDate,
			EndDate:        trip.EndDate,
			Description:    trip.Description,
			CreatedBy:      trip.CreatedBy,
			DaysRemaining:  daysRemaining(trip.EndDate, asOf),
		}
		if trip.User != nil {
			item.Username = trip.User.Username
			item.EmpClass = trip.User.EmpClass
		}
		list = append(list, item)
	}
	return list, nil
}

func (u *FieldTripUsecase) TripsForEmployee(ctx context.Context, employeeNumber string, asOf time.Time) (*EmployeeTrips, error) {
	user, err := u.roster.FindUserByEmployeeNumber(ctx, employeeNumber)
	if err != nil {
		return nil, apperror.FromGorm(err, "user "+employeeNumber)
	}
	return u.employeeTrips(ctx, user, asOf)
}

func (u *FieldTripUsecase) TripsForUsername(ctx context.Context, username string, asOf time.Time) (*EmployeeTrips, error) {
	user, err := u.roster.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, apperror.FromGorm(err, "user "+username)
	}
	return u.employeeTrips(ctx, user, asOf)
}

func (u *FieldTripUsecase) employeeTrips(ctx context.Context, user *model.User, asOf time.Time) (*EmployeeTrips, error) {
	trips, err := u.trips.GetActiveByEmployee(ctx, user.EmployeeNumber)
	if err != nil {
		return nil, apperror.FromGorm(err, "field trips")
	}

	location := model.LocationCampus
	if coversAny(trips, asOf) {
		location = model.LocationFieldTrip
	}
	return &EmployeeTrips{
		EmployeeNumber: user.EmployeeNumber,
		Username:       user.Username,
		EmpClass:       user.EmpClass,
		LocationType:   location,
		FieldTrips:     trips,
	}, nil
}

func coversAny(trips []model.FieldTrip, day time.Time) bool {
	for _, trip := range trips {
		if trip.IsActive && trip.Covers(day) {
			return true
		}
	}
	return false
}

func daysRemaining(end, asOf time.Time) int {
	return int(math.Ceil(model.DateOnly(end).Sub(model.DateOnly(asOf)).Hours() / 24))
}

func notFoundTrip(err error, key string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFoundf("field trip %s not found", key)
	}
	return apperror.FromGorm(err, "field trip")
}
