package routes

import (
	"time"

	"project-attendance-backend/config"
	"project-attendance-backend/internal/repository"
	"project-attendance-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Dependencies holds the repositories and use cases shared by the route groups and
// the scheduler.
type Dependencies struct {
	JWTSecret string
	Location  *time.Location

	Roster      repository.RosterRepository
	Attendance  repository.AttendanceRepository
	Trips       repository.FieldTripRepository
	Calendars   repository.CalendarRepository
	Submissions repository.SubmissionStore

	Calendar   *usecase.CalendarUsecase
	FieldTrips *usecase.FieldTripUsecase
	Jobs       *usecase.AttendanceJobUsecase
	Reports    *usecase.ReportUsecase
	Workflow   *usecase.SubmissionUsecase
}

// NewDependencies builds every repository and use case on db. store selects the
// submission store; notifier may be nil.
func NewDependencies(db *gorm.DB, cfg config.Config, store repository.SubmissionStore, notifier usecase.Notifier) *Dependencies {
	loc := cfg.Location()
	d := &Dependencies{
		JWTSecret:   cfg.JWTSecret,
		Location:    loc,
		Roster:      repository.NewRosterRepository(db),
		Attendance:  repository.NewAttendanceRepository(db),
		Trips:       repository.NewFieldTripRepository(db),
		Calendars:   repository.NewCalendarRepository(db),
		Submissions: store,
	}
	d.Calendar = usecase.NewCalendarUsecase(d.Calendars)
	d.FieldTrips = usecase.NewFieldTripUsecase(d.Trips, d.Roster)
	d.Jobs = usecase.NewAttendanceJobUsecase(d.Trips, d.Attendance, loc)
	d.Reports = usecase.NewReportUsecase(d.Roster, d.Attendance, d.Trips, d.Calendar, store)
	d.Workflow = usecase.NewSubmissionUsecase(store, d.Roster, d.Reports, notifier)
	return d
}

func Setup(app *fiber.App, deps *Dependencies) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	SetupFieldTripRoutes(app, deps)
	SetupJobRoutes(app, deps)
	SetupHRRoutes(app, deps)
	SetupPIRoutes(app, deps)
	SetupCalendarRoutes(app, deps)
}
