package usecase

import (
	"testing"
	"time"

	"project-attendance-backend/internal/apperror"
	"project-attendance-backend/internal/model"
	"project-attendance-backend/internal/repository"

	"gorm.io/gorm"
)

func newReportFixture(t *testing.T) (*gorm.DB, *ReportUsecase, repository.SubmissionStore) {
	t.Helper()
	db := newTestDB(t)
	store := repository.NewMemorySubmissionStore()
	roster := repository.NewRosterRepository(db)
	calendar := NewCalendarUsecase(repository.NewCalendarRepository(db))
	return db, NewReportUsecase(roster, repository.NewAttendanceRepository(db), repository.NewFieldTripRepository(db), calendar, store), store
}

func TestTeamAttendancePolicies(t *testing.T) {
	db, uc, _ := newReportFixture(t)
	seedStaff(t, db, "PRJ-1", model.User{EmployeeNumber: "EMP001", Username: "alice", EmpClass: "RA"})

	in := day(2025, 3, 3).Add(9 * time.Hour)
	out := in.Add(8 * time.Hour)
	seedAttendance(t, db,
		model.Attendance{EmployeeNumber: "EMP001", Date: day(2025, 3, 3), CheckinTime: &in, CheckoutTime: &out, AttendanceType: model.AttendanceFullDay,
			County: ptr("Pune"), State: ptr("Maharashtra"), Postcode: ptr("411001"), PhotoURL: ptr("https://cdn/p.jpg")},
		model.Attendance{EmployeeNumber: "EMP001", Date: day(2025, 3, 4), CheckinTime: &in, CheckoutTime: &out, AttendanceType: model.AttendanceHalfDay,
			LocationAddress: ptr("Main Campus, Gate 2"), AudioURL: ptr("https://cdn/a.m4a"), AudioDuration: ptr(12)},
		model.Attendance{EmployeeNumber: "EMP001", Date: day(2025, 3, 5), CheckinTime: &in},
	)
	if _, err := newFieldTripUsecase(db).ReplaceActiveTrips(bg, "EMP001", []TripDates{{StartDate: day(2025, 5, 1), EndDate: day(2025, 5, 3)}}, ""); err != nil {
		t.Fatal(err)
	}

	live, err := uc.TeamAttendance(bg, []string{"PRJ-1"}, march, PolicyLive)
	if err != nil {
		t.Fatal(err)
	}
	if len(live) != 1 {
		t.Fatalf("members = %+v", live)
	}
	m := live[0]
	if m.MonthlyStatistics.TotalDays != 2 {
		t.Fatalf("live total = %v, want 2", m.MonthlyStatistics.TotalDays)
	}
	if !m.HasActiveFieldTrip {
		t.Fatal("expected hasActiveFieldTrip")
	}
	if len(m.Projects) != 1 || m.Projects[0].Department != "Dept PRJ-1" {
		t.Fatalf("projects = %+v", m.Projects)
	}
	if len(m.Attendances) != 3 || !m.Attendances[0].Date.Equal(day(2025, 3, 5)) {
		t.Fatalf("attendances should be newest first: %+v", m.Attendances)
	}

	byDate := map[int]AttendanceDetail{}
	for _, a := range m.Attendances {
		byDate[a.Date.Day()] = a
	}
	if addr := byDate[3].Location.Address; addr == nil || *addr != "Pune, Maharashtra, 411001" {
		t.Fatalf("derived address = %v", addr)
	}
	if byDate[3].Photo == nil || byDate[3].Audio != nil {
		t.Fatalf("media = %+v / %+v", byDate[3].Photo, byDate[3].Audio)
	}
	if addr := byDate[4].Location.Address; addr == nil || *addr != "Main Campus, Gate 2" {
		t.Fatalf("stored address = %v", addr)
	}
	if byDate[4].Audio == nil || *byDate[4].Audio.Duration != 12 || !byDate[4].IsHalfDay {
		t.Fatalf("detail = %+v", byDate[4])
	}
	if byDate[5].Location.Address != nil || byDate[5].IsCheckedOut {
		t.Fatalf("detail = %+v", byDate[5])
	}

	sso, err := uc.TeamAttendance(bg, []string{"PRJ-1"}, march, PolicySubmission)
	if err != nil {
		t.Fatal(err)
	}
	if sso[0].MonthlyStatistics.TotalDays != 3 {
		t.Fatalf("submission total = %v, want 3", sso[0].MonthlyStatistics.TotalDays)
	}

	if _, err := uc.TeamAttendance(bg, nil, march, PolicyLive); !apperror.Is(err, apperror.InvalidInput) {
		t.Fatalf("expected InvalidInput, got %v", err)
	}
}

func TestPIPresence(t *testing.T) {
	db, uc, _ := newReportFixture(t)
	seedStaff(t, db, "PRJ-1",
		model.User{EmployeeNumber: "EMP001", Username: "alice"},
		model.User{EmployeeNumber: "EMP002", Username: "bob"},
	)
	seedPI(t, db, "pi.a", "PRJ-1")
	if _, err := NewCalendarUsecase(repository.NewCalendarRepository(db)).SeedWeekends(bg, 2025); err != nil {
		t.Fatal(err)
	}

	in := day(2025, 3, 3).Add(9 * time.Hour)
	seedAttendance(t, db,
		model.Attendance{EmployeeNumber: "EMP001", Date: day(2025, 3, 3), CheckinTime: &in, AttendanceType: model.AttendanceHalfDay},
		model.Attendance{EmployeeNumber: "EMP001", Date: day(2025, 3, 4), CheckinTime: &in, AttendanceType: model.AttendanceFullDay},
	)

	report, err := uc.PIPresence(bg, "pi.a", march)
	if err != nil {
		t.Fatal(err)
	}
	if report.WorkingDays != 21 || len(report.Users) != 2 {
		t.Fatalf("report = %+v", report)
	}
	alice, bob := report.Users[0], report.Users[1]
	if alice.PresentDays != 2 || alice.AbsentDays != 19 {
		t.Fatalf("alice = %+v", alice)
	}
	if bob.PresentDays != 0 || bob.AbsentDays != 21 {
		t.Fatalf("bob = %+v", bob)
	}

	if _, err := uc.PIPresence(bg, "pi.nobody", march); !apperror.Is(err, apperror.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestCombinedReport(t *testing.T) {
	db, uc, store := newReportFixture(t)
	seedPI(t, db, "pi.a")
	seedPI(t, db, "pi.b")

	if _, err := uc.CombinedReport(bg, nil, march); !apperror.Is(err, apperror.NotFound) {
		t.Fatalf("expected NotFound with no submissions, got %v", err)
	}

	if err := store.SaveRequest(bg, "pi.a", march.Key(), time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := store.Submit(bg, "pi.a", march.Key(), []model.UserStatistics{
		{Username: "alice", TotalDays: 25},
		{Username: "bob", TotalDays: 10.5},
	}, time.Now()); err != nil {
		t.Fatal(err)
	}

	report, err := uc.CombinedReport(bg, nil, march)
	if err != nil {
		t.Fatal(err)
	}
	if report.WorkingDays != 31 || len(report.Rows) != 2 {
		t.Fatalf("report = %+v", report)
	}
	if r := report.Rows[0]; r.PI != "pi.a" || r.PresentDays != 25 || r.AbsentDays != 6 {
		t.Fatalf("row 0 = %+v", r)
	}
	if r := report.Rows[1]; r.PresentDays != 10.5 || r.AbsentDays != 20.5 {
		t.Fatalf("row 1 = %+v", r)
	}

	if _, err := uc.CombinedReport(bg, []string{"pi.b"}, march); !apperror.Is(err, apperror.NotFound) {
		t.Fatalf("expected NotFound for pi.b only, got %v", err)
	}
}
