package usecase

import (
	"context"
	"strings"
	"time"

	"project-attendance-backend/internal/apperror"
	"project-attendance-backend/internal/model"
	"project-attendance-backend/internal/repository"
)

type ProjectRef struct {
	ProjectCode string `json:"projectCode"`
	Department  string `json:"department"`
}

type LocationDetail struct {
	TakenLocation *string  `json:"takenLocation"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	County        *string  `json:"county"`
	State         *string  `json:"state"`
	Postcode      *string  `json:"postcode"`
	Address       *string  `json:"address"`
}

type PhotoDetail struct {
	URL string `json:"url"`
}

type AudioDetail struct {
	URL      string `json:"url"`
	Duration *int   `json:"duration"`
}

type AttendanceDetail struct {
	Date           time.Time               `json:"date"`
	CheckinTime    *time.Time              `json:"checkinTime"`
	CheckoutTime   *time.Time              `json:"checkoutTime"`
	SessionType    model.AttendanceSession `json:"sessionType"`
	AttendanceType model.AttendanceType    `json:"attendanceType"`
	LocationType   model.LocationType      `json:"locationType"`
	IsFullDay      bool                    `json:"isFullDay"`
	IsHalfDay      bool                    `json:"isHalfDay"`
	IsCheckedOut   bool                    `json:"isCheckedOut"`
	TakenLocation  *string                 `json:"takenLocation"`
	Location       LocationDetail          `json:"location"`
	Photo          *PhotoDetail            `json:"photo"`
	Audio          *AudioDetail            `json:"audio"`
}

type MonthlyStatistics struct {
	TotalDays     float64 `json:"totalDays"`
	FullDays      int     `json:"fullDays"`
	HalfDays      int     `json:"halfDays"`
	NotCheckedOut int     `json:"notCheckedOut"`
}

type TeamMember struct {
	EmployeeNumber     string             `json:"employeeNumber"`
	Username           string             `json:"username"`
	EmpClass           string             `json:"empClass"`
	Projects           []ProjectRef       `json:"projects"`
	HasActiveFieldTrip bool               `json:"hasActiveFieldTrip"`
	MonthlyStatistics  MonthlyStatistics  `json:"monthlyStatistics"`
	Attendances        []AttendanceDetail `json:"attendances"`
}

type UserPresence struct {
	EmployeeNumber string `json:"employeeNumber"`
	Username       string `json:"username"`
	EmpClass       string `json:"empClass"`
	PresenceSummary
}

type PIPresenceReport struct {
	PI          string         `json:"pi"`
	Period      model.Period   `json:"period"`
	WorkingDays int            `json:"workingDays"`
	Users       []UserPresence `json:"users"`
}

type CombinedRow struct {
	PI       string `json:"pi"`
	Username string `json:"username"`
	PresenceSummary
}

type CombinedReport struct {
	Period      model.Period  `json:"period"`
	WorkingDays int           `json:"workingDays"`
	Rows        []CombinedRow `json:"rows"`
}

// ReportUsecase turns roster, attendance and calendar data into the per-user views
// the PI dashboard and HR reports render.
type ReportUsecase struct {
	roster      repository.RosterRepository
	attendance  repository.AttendanceRepository
	trips       repository.FieldTripRepository
	calendar    *CalendarUsecase
	submissions repository.SubmissionStore
}

func NewReportUsecase(roster repository.RosterRepository, attendance repository.AttendanceRepository, trips repository.FieldTripRepository, calendar *CalendarUsecase, submissions repository.SubmissionStore) *ReportUsecase {
	return &ReportUsecase{
		roster:      roster,
		attendance:  attendance,
		trips:       trips,
		calendar:    calendar,
		submissions: submissions,
	}
}

type teamData struct {
	users  []model.User
	events map[string][]model.Attendance
}

func (u *ReportUsecase) loadTeam(ctx context.Context, projectCodes []string, period model.Period) (*teamData, error) {
	if len(projectCodes) == 0 {
		return nil, apperror.InvalidInputf("at least one project code is required")
	}
	if !period.Valid() {
		return nil, apperror.InvalidInputf("invalid period %s", period.Key())
	}

	users, err := u.roster.GetUsersByProjects(ctx, projectCodes)
	if err != nil {
		return nil, apperror.FromGorm(err, "users")
	}

	employees := make([]string, 0, len(users))
	for _, user := range users {
		employees = append(employees, user.EmployeeNumber)
	}
	start, end := period.Range()
	list, err := u.attendance.GetBetween(ctx, employees, start, end)
	if err != nil {
		return nil, apperror.FromGorm(err, "attendance")
	}

	events := make(map[string][]model.Attendance, len(users))
	for _, a := range list {
		events[a.EmployeeNumber] = append(events[a.EmployeeNumber], a)
	}
	return &teamData{users: users, events: events}, nil
}

// TeamAttendance is the PI's view of the staff on projectCodes for period, with the
// total counted under policy.
func (u *ReportUsecase) TeamAttendance(ctx context.Context, projectCodes []string, period model.Period, policy Policy) ([]TeamMember, error) {
	team, err := u.loadTeam(ctx, projectCodes, period)
	if err != nil {
		return nil, err
	}

	employees := make([]string, 0, len(team.users))
	for _, user := range team.users {
		employees = append(employees, user.EmployeeNumber)
	}
	active, err := u.trips.GetActiveByEmployees(ctx, employees)
	if err != nil {
		return nil, apperror.FromGorm(err, "field trips")
	}
	onTrip := make(map[string]bool, len(active))
	for _, trip := range active {
		onTrip[trip.EmployeeNumber] = true
	}

	members := make([]TeamMember, 0, len(team.users))
	for _, user := range team.users {
		events := team.events[user.EmployeeNumber]
		stats := Aggregate(events)

		member := TeamMember{
			EmployeeNumber:     user.EmployeeNumber,
			Username:           user.Username,
			EmpClass:           user.EmpClass,
			Projects:           make([]ProjectRef, 0, len(user.UserProjects)),
			HasActiveFieldTrip: onTrip[user.EmployeeNumber],
			MonthlyStatistics: MonthlyStatistics{
				TotalDays:     stats.Total(policy),
				FullDays:      stats.FullDays,
				HalfDays:      stats.HalfDays,
				NotCheckedOut: stats.NotCheckedOut,
			},
			Attendances: make([]AttendanceDetail, 0, len(events)),
		}
		for _, up := range user.UserProjects {
			member.Projects = append(member.Projects, ProjectRef{ProjectCode: up.ProjectCode, Department: up.Project.Department})
		}
		for _, e := range events {
			member.Attendances = append(member.Attendances, attendanceDetail(e))
		}
		members = append(members, member)
	}
	return members, nil
}

// TeamStatistics is the Policy A snapshot a PI submits to HR.
func (u *ReportUsecase) TeamStatistics(ctx context.Context, projectCodes []string, period model.Period) ([]model.UserStatistics, error) {
	team, err := u.loadTeam(ctx, projectCodes, period)
	if err != nil {
		return nil, err
	}

	stats := make([]model.UserStatistics, 0, len(team.users))
	for _, user := range team.users {
		s := Aggregate(team.events[user.EmployeeNumber])
		stats = append(stats, model.UserStatistics{Username: user.Username, TotalDays: s.Total(PolicySubmission)})
	}
	return stats, nil
}

// PIPresence counts each member's distinct attendance dates against the working days
// of period.
func (u *ReportUsecase) PIPresence(ctx context.Context, pi string, period model.Period) (*PIPresenceReport, error) {
	record, err := u.roster.FindPI(ctx, pi)
	if err != nil {
		return nil, apperror.FromGorm(err, "PI "+pi)
	}
	workingDays, err := u.calendar.WorkingDaysForPeriod(ctx, period)
	if err != nil {
		return nil, err
	}

	report := &PIPresenceReport{PI: record.Username, Period: period, WorkingDays: workingDays, Users: []UserPresence{}}
	codes := record.ProjectCodes()
	if len(codes) == 0 {
		return report, nil
	}

	team, err := u.loadTeam(ctx, codes, period)
	if err != nil {
		return nil, err
	}
	for _, user := range team.users {
		report.Users = append(report.Users, UserPresence{
			EmployeeNumber:  user.EmployeeNumber,
			Username:        user.Username,
			EmpClass:        user.EmpClass,
			PresenceSummary: Presence(team.events[user.EmployeeNumber], workingDays),
		})
	}
	return report, nil
}

// CombinedReport merges the submitted snapshots of pis (every roster PI when empty)
// into one table. It fails with NotFound when none of them has submitted.
func (u *ReportUsecase) CombinedReport(ctx context.Context, pis []string, period model.Period) (*CombinedReport, error) {
	workingDays, err := u.calendar.WorkingDaysForPeriod(ctx, period)
	if err != nil {
		return nil, err
	}
	if len(pis) == 0 {
		if pis, err = u.roster.GetPIUsernames(ctx); err != nil {
			return nil, apperror.FromGorm(err, "PIs")
		}
	}

	report := &CombinedReport{Period: period, WorkingDays: workingDays, Rows: []CombinedRow{}}
	submitted := 0
	for _, pi := range pis {
		stats, ok, err := u.submissions.FindSubmission(ctx, pi, period.Key())
		if err != nil {
			return nil, apperror.Wrap(apperror.UpstreamUnavailable, err, "reading submissions")
		}
		if !ok {
			continue
		}
		submitted++
		for _, s := range stats {
			report.Rows = append(report.Rows, CombinedRow{
				PI:              pi,
				Username:        s.Username,
				PresenceSummary: PresenceFromTotal(s.TotalDays, workingDays),
			})
		}
	}
	if submitted == 0 {
		return nil, apperror.NotFoundf("no submitted data for %s", period.Key())
	}
	return report, nil
}

func attendanceDetail(a model.Attendance) AttendanceDetail {
	d := AttendanceDetail{
		Date:           a.Date,
		CheckinTime:    a.CheckinTime,
		CheckoutTime:   a.CheckoutTime,
		SessionType:    a.SessionType,
		AttendanceType: a.AttendanceType,
		LocationType:   a.LocationType,
		IsFullDay:      a.AttendanceType == model.AttendanceFullDay,
		IsHalfDay:      a.AttendanceType == model.AttendanceHalfDay,
		IsCheckedOut:   a.IsCheckedOut(),
		TakenLocation:  a.TakenLocation,
		Location: LocationDetail{
			TakenLocation: a.TakenLocation,
			Latitude:      a.Latitude,
			Longitude:     a.Longitude,
			County:        a.County,
			State:         a.State,
			Postcode:      a.Postcode,
			Address:       deriveAddress(a),
		},
	}
	if a.PhotoURL != nil && *a.PhotoURL != "" {
		d.Photo = &PhotoDetail{URL: *a.PhotoURL}
	}
	if a.AudioURL != nil && *a.AudioURL != "" {
		d.Audio = &AudioDetail{URL: *a.AudioURL, Duration: a.AudioDuration}
	}
	return d
}

// deriveAddress prefers the stored address and falls back to county, state and
// postcode joined by commas.
func deriveAddress(a model.Attendance) *string {
	if a.LocationAddress != nil && *a.LocationAddress != "" {
		return a.LocationAddress
	}
	var parts []string
	for _, p := range []*string{a.County, a.State, a.Postcode} {
		if p != nil && strings.TrimSpace(*p) != "" {
			parts = append(parts, strings.TrimSpace(*p))
		}
	}
	if len(parts) == 0 {
		return nil
	}
	address := strings.Join(parts, ", ")
	return &address
}
