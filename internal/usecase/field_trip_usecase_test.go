package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"project-attendance-backend/internal/apperror"
	"project-attendance-backend/internal/model"
	"project-attendance-backend/internal/repository"

	"gorm.io/gorm"
)

func newFieldTripUsecase(db *gorm.DB) *FieldTripUsecase {
	return NewFieldTripUsecase(repository.NewFieldTripRepository(db), repository.NewRosterRepository(db))
}

func activeTrips(t *testing.T, db *gorm.DB, employee string) []model.FieldTrip {
	t.Helper()
	var trips []model.FieldTrip
	if err := db.Where("employee_number = ? AND is_active = ?", employee, true).Find(&trips).Error; err != nil {
		t.Fatal(err)
	}
	return trips
}

func TestReplaceActiveTrips(t *testing.T) {
	db := newTestDB(t)
	seedStaff(t, db, "PRJ-1", model.User{EmployeeNumber: "EMP001", Username: "alice"})
	uc := newFieldTripUsecase(db)

	first, err := uc.ReplaceActiveTrips(bg, "EMP001", []TripDates{
		{StartDate: day(2025, 3, 1), EndDate: day(2025, 3, 5)},
		{StartDate: day(2025, 3, 10), EndDate: day(2025, 3, 12), Description: ptr("Site survey")},
	}, "hr.admin")
	if err != nil {
		t.Fatalf("ReplaceActiveTrips: %v", err)
	}
	if len(first) != 2 || first[0].FieldTripKey == "" || first[0].FieldTripKey == first[1].FieldTripKey {
		t.Fatalf("unexpected trips %+v", first)
	}

	second, err := uc.ReplaceActiveTrips(bg, "EMP001", []TripDates{
		{StartDate: day(2025, 4, 1), EndDate: day(2025, 4, 3)},
	}, "hr.admin")
	if err != nil {
		t.Fatal(err)
	}

	active := activeTrips(t, db, "EMP001")
	if len(active) != 1 || active[0].FieldTripKey != second[0].FieldTripKey {
		t.Fatalf("active after replace = %+v", active)
	}

	var total int64
	db.Model(&model.FieldTrip{}).Where("employee_number = ?", "EMP001").Count(&total)
	if total != 3 {
		t.Fatalf("trips are never deleted: want 3 rows, got %d", total)
	}

	// an empty list only clears
	if _, err := uc.ReplaceActiveTrips(bg, "EMP001", nil, "hr.admin"); err != nil {
		t.Fatal(err)
	}
	if n := len(activeTrips(t, db, "EMP001")); n != 0 {
		t.Fatalf("expected no active trips, got %d", n)
	}

	// clearing again changes nothing
	if _, err := uc.ReplaceActiveTrips(bg, "EMP001", []TripDates{}, "hr.admin"); err != nil {
		t.Fatal(err)
	}
	if n := len(activeTrips(t, db, "EMP001")); n != 0 {
		t.Fatalf("expected no active trips after second clear, got %d", n)
	}
	var after int64
	db.Model(&model.FieldTrip{}).Where("employee_number = ?", "EMP001").Count(&after)
	if after != total {
		t.Fatalf("second clear changed row count: %d -> %d", total, after)
	}
}

func TestReplaceActiveTripsValidation(t *testing.T) {
	db := newTestDB(t)
	seedStaff(t, db, "PRJ-1", model.User{EmployeeNumber: "EMP001", Username: "alice"})
	uc := newFieldTripUsecase(db)

	if _, err := uc.ReplaceActiveTrips(bg, "EMP001", []TripDates{{StartDate: day(2025, 3, 1), EndDate: day(2025, 3, 5)}}, ""); err != nil {
		t.Fatal(err)
	}

	_, err := uc.ReplaceActiveTrips(bg, "EMP001", []TripDates{
		{StartDate: day(2025, 4, 1), EndDate: day(2025, 4, 3)},
		{StartDate: day(2025, 4, 9), EndDate: day(2025, 4, 8)},
	}, "")
	if !apperror.Is(err, apperror.InvalidInput) {
		t.Fatalf("expected InvalidInput, got %v", err)
	}
	// prior state is untouched
	active := activeTrips(t, db, "EMP001")
	if len(active) != 1 || !active[0].StartDate.Equal(day(2025, 3, 1)) {
		t.Fatalf("active trips changed: %+v", active)
	}

	_, err = uc.ReplaceActiveTrips(bg, "NOPE", []TripDates{{StartDate: day(2025, 4, 1), EndDate: day(2025, 4, 3)}}, "")
	if !apperror.Is(err, apperror.NotFound) {
		t.Fatalf("expected NotFound for unknown employee, got %v", err)
	}

	if _, err := uc.ReplaceActiveTrips(bg, "", nil, ""); !apperror.Is(err, apperror.InvalidInput) {
		t.Fatalf("expected InvalidInput for empty employee, got %v", err)
	}
}

func TestReplaceActiveTripsConcurrent(t *testing.T) {
	db := newTestDB(t)
	seedStaff(t, db, "PRJ-1", model.User{EmployeeNumber: "EMP001", Username: "alice"})
	uc := newFieldTripUsecase(db)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := uc.ReplaceActiveTrips(bg, "EMP001", []TripDates{
				{StartDate: day(2025, 5, 1+i), EndDate: day(2025, 5, 2+i)},
				{StartDate: day(2025, 6, 1+i), EndDate: day(2025, 6, 2+i)},
			}, "hr")
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("replace: %v", err)
		}
	}

	// whichever replace ran last wins as a whole
	active := activeTrips(t, db, "EMP001")
	if len(active) != 2 {
		t.Fatalf("want exactly one set of 2 active trips, got %d", len(active))
	}
	if active[0].StartDate.Day() != active[1].StartDate.Day() {
		t.Fatalf("active trips come from different replaces: %+v", active)
	}
}

func TestExpireOverdueTrips(t *testing.T) {
	db := newTestDB(t)
	seedStaff(t, db, "PRJ-1",
		model.User{EmployeeNumber: "EMP001", Username: "alice"},
		model.User{EmployeeNumber: "EMP002", Username: "bob"},
	)
	uc := newFieldTripUsecase(db)

	if _, err := uc.ReplaceActiveTrips(bg, "EMP001", []TripDates{{StartDate: day(2025, 3, 1), EndDate: day(2025, 3, 9)}}, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.ReplaceActiveTrips(bg, "EMP002", []TripDates{{StartDate: day(2025, 3, 5), EndDate: day(2025, 3, 10)}}, ""); err != nil {
		t.Fatal(err)
	}

	expired, err := uc.ExpireOverdueTrips(bg, day(2025, 3, 10))
	if err != nil {
		t.Fatal(err)
	}
	if len(expired) != 1 || expired[0].EmployeeNumber != "EMP001" {
		t.Fatalf("expired = %+v", expired)
	}
	// a trip ending today stays active
	if n := len(activeTrips(t, db, "EMP002")); n != 1 {
		t.Fatalf("EMP002 active trips = %d", n)
	}

	again, err := uc.ExpireOverdueTrips(bg, day(2025, 3, 10))
	if err != nil || len(again) != 0 {
		t.Fatalf("second run = %v, %v", again, err)
	}
}

// extendingTrips moves the end date of every expired trip right after it is read,
// like an HR edit landing between the expiry job's read and its write.
type extendingTrips struct {
	repository.FieldTripRepository
	newEnd time.Time
}

func (r *extendingTrips) GetExpired(ctx context.Context, asOf time.Time) ([]model.FieldTrip, error) {
	trips, err := r.FieldTripRepository.GetExpired(ctx, asOf)
	if err != nil {
		return nil, err
	}
	for _, trip := range trips {
		trip.EndDate = r.newEnd
		if err := r.FieldTripRepository.Update(ctx, &trip); err != nil {
			return nil, err
		}
	}
	return trips, nil
}

func TestExpireSkipsTripExtendedMeanwhile(t *testing.T) {
	db := newTestDB(t)
	seedStaff(t, db, "PRJ-1", model.User{EmployeeNumber: "EMP001", Username: "alice"})
	trips := repository.NewFieldTripRepository(db)
	uc := NewFieldTripUsecase(&extendingTrips{FieldTripRepository: trips, newEnd: day(2025, 3, 20)}, repository.NewRosterRepository(db))

	created, err := uc.ReplaceActiveTrips(bg, "EMP001", []TripDates{{StartDate: day(2025, 3, 1), EndDate: day(2025, 3, 9)}}, "")
	if err != nil {
		t.Fatal(err)
	}

	expired, err := uc.ExpireOverdueTrips(bg, day(2025, 3, 12))
	if err != nil {
		t.Fatal(err)
	}
	if len(expired) != 0 {
		t.Fatalf("expired = %+v", expired)
	}

	trip, err := trips.GetByKey(bg, created[0].FieldTripKey)
	if err != nil {
		t.Fatal(err)
	}
	if !trip.IsActive || !trip.EndDate.Equal(day(2025, 3, 20)) {
		t.Fatalf("trip extended to 2025-03-20 should stay active: end=%s active=%v", trip.EndDate, trip.IsActive)
	}
}

func TestExpireByKeyGuards(t *testing.T) {
	db := newTestDB(t)
	seedStaff(t, db, "PRJ-1", model.User{EmployeeNumber: "EMP001", Username: "alice"})
	trips := repository.NewFieldTripRepository(db)

	created, err := trips.ReplaceActive(bg, "EMP001", []model.FieldTrip{{StartDate: day(2025, 3, 1), EndDate: day(2025, 3, 9)}})
	if err != nil {
		t.Fatal(err)
	}
	key := created[0].FieldTripKey

	cases := []struct {
		asOf time.Time
		want bool
	}{
		{day(2025, 3, 9), false}, // ends today
		{day(2025, 3, 10), true},
		{day(2025, 3, 10), false}, // already inactive
	}
	for i, tc := range cases {
		ok, err := trips.ExpireByKey(bg, key, tc.asOf)
		if err != nil {
			t.Fatal(err)
		}
		if ok != tc.want {
			t.Fatalf("case %d: ExpireByKey(%s) = %v, want %v", i, tc.asOf.Format(model.DateLayout), ok, tc.want)
		}
	}
}

func TestLocationAndLookups(t *testing.T) {
	db := newTestDB(t)
	seedStaff(t, db, "PRJ-1", model.User{EmployeeNumber: "EMP001", Username: "alice", EmpClass: "RA"})
	uc := newFieldTripUsecase(db)

	if _, err := uc.ReplaceActiveTrips(bg, "EMP001", []TripDates{{StartDate: day(2025, 3, 10), EndDate: day(2025, 3, 12)}}, ""); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		asOf time.Time
		want model.LocationType
	}{
		{day(2025, 3, 9), model.LocationCampus},
		{day(2025, 3, 10), model.LocationFieldTrip},
		{day(2025, 3, 12), model.LocationFieldTrip},
		{day(2025, 3, 13), model.LocationCampus},
	}
	for _, tc := range cases {
		got, err := uc.LocationFor(bg, "EMP001", tc.asOf)
		if err != nil || got != tc.want {
			t.Errorf("LocationFor(%s) = %s, %v; want %s", tc.asOf.Format(model.DateLayout), got, err, tc.want)
		}
	}

	byName, err := uc.TripsForUsername(bg, "alice", day(2025, 3, 11))
	if err != nil {
		t.Fatal(err)
	}
	if byName.EmployeeNumber != "EMP001" || byName.LocationType != model.LocationFieldTrip || len(byName.FieldTrips) != 1 {
		t.Fatalf("TripsForUsername = %+v", byName)
	}
	if _, err := uc.TripsForEmployee(bg, "EMP404", day(2025, 3, 11)); !apperror.Is(err, apperror.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestListActiveTrips(t *testing.T) {
	db := newTestDB(t)
	seedStaff(t, db, "PRJ-1",
		model.User{EmployeeNumber: "EMP002", Username: "bob"},
		model.User{EmployeeNumber: "EMP001", Username: "alice"},
		model.User{EmployeeNumber: "EMP003", Username: "carol"},
	)
	uc := newFieldTripUsecase(db)

	for emp, d := range map[string]TripDates{
		"EMP001": {StartDate: day(2025, 3, 5), EndDate: day(2025, 3, 15)},
		"EMP002": {StartDate: day(2025, 3, 5), EndDate: day(2025, 3, 10)},
		"EMP003": {StartDate: day(2025, 3, 11), EndDate: day(2025, 3, 20)},
	} {
		if _, err := uc.ReplaceActiveTrips(bg, emp, []TripDates{d}, ""); err != nil {
			t.Fatal(err)
		}
	}

	list, err := uc.ListActiveTrips(bg, day(2025, 3, 10))
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("want 2 trips covering the date, got %+v", list)
	}
	if list[0].EmployeeNumber != "EMP001" || list[1].EmployeeNumber != "EMP002" {
		t.Fatalf("order = %s, %s", list[0].EmployeeNumber, list[1].EmployeeNumber)
	}
	if list[0].DaysRemaining != 5 || list[1].DaysRemaining != 0 {
		t.Fatalf("days remaining = %d, %d", list[0].DaysRemaining, list[1].DaysRemaining)
	}
	if list[0].Username != "alice" {
		t.Fatalf("username not loaded: %+v", list[0])
	}
}

func TestUpdateAndDeactivate(t *testing.T) {
	db := newTestDB(t)
	seedStaff(t, db, "PRJ-1", model.User{EmployeeNumber: "EMP001", Username: "alice"})
	uc := newFieldTripUsecase(db)

	trips, err := uc.ReplaceActiveTrips(bg, "EMP001", []TripDates{{StartDate: day(2025, 3, 1), EndDate: day(2025, 3, 5)}}, "")
	if err != nil {
		t.Fatal(err)
	}
	key := trips[0].FieldTripKey

	newEnd := day(2025, 3, 8)
	updated, err := uc.Update(bg, key, FieldTripPatch{EndDate: &newEnd, Description: ptr("extended")})
	if err != nil {
		t.Fatal(err)
	}
	if !updated.EndDate.Equal(newEnd) || *updated.Description != "extended" {
		t.Fatalf("updated = %+v", updated)
	}

	cleared, err := uc.Update(bg, key, FieldTripPatch{ClearDescription: true, Description: ptr("ignored")})
	if err != nil {
		t.Fatal(err)
	}
	if cleared.Description != nil || !cleared.EndDate.Equal(newEnd) {
		t.Fatalf("cleared = %+v", cleared)
	}
	stored, err := repository.NewFieldTripRepository(db).GetByKey(bg, key)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Description != nil {
		t.Fatalf("stored description = %q", *stored.Description)
	}

	badEnd := day(2025, 2, 1)
	if _, err := uc.Update(bg, key, FieldTripPatch{EndDate: &badEnd}); !apperror.Is(err, apperror.InvalidInput) {
		t.Fatalf("expected InvalidInput, got %v", err)
	}

	if _, err := uc.Deactivate(bg, key); err != nil {
		t.Fatal(err)
	}
	if n := len(activeTrips(t, db, "EMP001")); n != 0 {
		t.Fatalf("still %d active", n)
	}

	if _, err := uc.Deactivate(bg, "missing"); !apperror.Is(err, apperror.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if _, err := uc.Update(bg, "missing", FieldTripPatch{}); !apperror.Is(err, apperror.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
