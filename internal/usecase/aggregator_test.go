package usecase

import (
	"testing"
	"time"

	"project-attendance-backend/internal/model"
)

func record(d time.Time, kind model.AttendanceType, checkedOut bool) model.Attendance {
	a := model.Attendance{EmployeeNumber: "EMP001", Date: d, AttendanceType: kind}
	in := d.Add(9 * time.Hour)
	a.CheckinTime = &in
	if checkedOut {
		out := d.Add(17 * time.Hour)
		a.CheckoutTime = &out
	}
	return a
}

func TestAggregatePolicies(t *testing.T) {
	events := []model.Attendance{
		record(day(2025, 3, 3), model.AttendanceFullDay, true),
		record(day(2025, 3, 4), model.AttendanceFullDay, true),
		record(day(2025, 3, 5), model.AttendanceFullDay, true),
		record(day(2025, 3, 6), model.AttendanceHalfDay, true),
		record(day(2025, 3, 7), "", false),
	}

	s := Aggregate(events)
	if s.FullDays != 3 || s.HalfDays != 1 || s.NotCheckedOut != 1 {
		t.Fatalf("counts = %+v", s)
	}
	if s.Total(PolicySubmission) != 5 {
		t.Errorf("submission total = %v, want 5", s.Total(PolicySubmission))
	}
	if s.Total(PolicyLive) != 4 {
		t.Errorf("live total = %v, want 4", s.Total(PolicyLive))
	}
}

func TestAggregateOpenFullDayCountsTwice(t *testing.T) {
	// auto-completed rows are FULL_DAY without a checkout
	events := []model.Attendance{record(day(2025, 3, 3), model.AttendanceFullDay, false)}
	s := Aggregate(events)
	if s.SubmissionTotal != 2 || s.LiveTotal != 1.5 {
		t.Fatalf("got submission=%v live=%v", s.SubmissionTotal, s.LiveTotal)
	}
}

func TestAggregateEmpty(t *testing.T) {
	if s := Aggregate(nil); s != (Statistics{}) {
		t.Fatalf("Aggregate(nil) = %+v", s)
	}
	if p := Presence(nil, 0); p != (PresenceSummary{}) {
		t.Fatalf("Presence(nil, 0) = %+v", p)
	}
}

func TestPresenceDedupsDates(t *testing.T) {
	d := day(2025, 3, 3)
	events := []model.Attendance{
		record(d, model.AttendanceHalfDay, true),
		record(d.Add(2*time.Hour), model.AttendanceHalfDay, true),
		record(day(2025, 3, 4), model.AttendanceFullDay, true),
	}
	p := Presence(events, 20)
	if p.PresentDays != 2 || p.AbsentDays != 18 || p.WorkingDays != 20 {
		t.Fatalf("Presence = %+v", p)
	}
}

func TestPresenceFromTotalClamps(t *testing.T) {
	cases := []struct {
		name        string
		present     float64
		workingDays int
		want        PresenceSummary
	}{
		{"normal", 18.5, 22, PresenceSummary{WorkingDays: 22, PresentDays: 18.5, AbsentDays: 3.5}},
		{"more present than working", 25, 22, PresenceSummary{WorkingDays: 22, PresentDays: 25, AbsentDays: 0}},
		{"negative working days", 3, -2, PresenceSummary{WorkingDays: 0, PresentDays: 3, AbsentDays: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PresenceFromTotal(tc.present, tc.workingDays); got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}
