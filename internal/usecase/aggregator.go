package usecase

import "project-attendance-backend/internal/model"

// Policy selects how incomplete and half days count towards the total.
type Policy int

const (
	// PolicySubmission counts every record as one present day. Used for PI
	// submissions and HR reports.
	PolicySubmission Policy = iota
	// PolicyLive counts half days and not-checked-out days as 0.5. Used for the
	// PI's own live dashboard.
	PolicyLive
)

type Statistics struct {
	FullDays        int     `json:"fullDays"`
	HalfDays        int     `json:"halfDays"`
	NotCheckedOut   int     `json:"notCheckedOut"`
	SubmissionTotal float64 `json:"submissionTotal"`
	LiveTotal       float64 `json:"liveTotal"`
}

func (s Statistics) Total(policy Policy) float64 {
	if policy == PolicyLive {
		return s.LiveTotal
	}
	return s.SubmissionTotal
}

// PresenceSummary is the (working, present, absent) tuple reports render.
type PresenceSummary struct {
	WorkingDays int     `json:"workingDays"`
	PresentDays float64 `json:"presentDays"`
	AbsentDays  float64 `json:"absentDays"`
}

// Aggregate classifies the events of one employee over one range. A record without a
// checkout is counted in NotCheckedOut on top of its classification.
func Aggregate(events []model.Attendance) Statistics {
	var s Statistics
	for _, e := range events {
		switch e.AttendanceType {
		case model.AttendanceFullDay:
			s.FullDays++
		case model.AttendanceHalfDay:
			s.HalfDays++
		}
		if e.CheckoutTime == nil {
			s.NotCheckedOut++
		}
	}
	s.SubmissionTotal = float64(s.FullDays + s.HalfDays + s.NotCheckedOut)
	s.LiveTotal = float64(s.FullDays) + 0.5*float64(s.HalfDays) + 0.5*float64(s.NotCheckedOut)
	return s
}

// UniquePresentDays counts distinct calendar dates among events.
func UniquePresentDays(events []model.Attendance) int {
	seen := make(map[string]struct{}, len(events))
	for _, e := range events {
		seen[model.DateOnly(e.Date).Format(model.DateLayout)] = struct{}{}
	}
	return len(seen)
}

// Presence derives presence from the events deduplicated by date.
func Presence(events []model.Attendance, workingDays int) PresenceSummary {
	return PresenceFromTotal(float64(UniquePresentDays(events)), workingDays)
}

// PresenceFromTotal is used when only a submitted total is available. A negative
// working-day count (over-flagged calendar) is reported as zero.
func PresenceFromTotal(present float64, workingDays int) PresenceSummary {
	if workingDays < 0 {
		workingDays = 0
	}
	absent := float64(workingDays) - present
	if absent < 0 {
		absent = 0
	}
	return PresenceSummary{WorkingDays: workingDays, PresentDays: present, AbsentDays: absent}
}
