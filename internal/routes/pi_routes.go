package routes

import (
	"project-attendance-backend/internal/handler"
	"project-attendance-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupPIRoutes(app *fiber.App, deps *Dependencies) {
	hdl := handler.NewPIHandler(deps.Roster, deps.Workflow, deps.Reports, deps.Location)

	api := app.Group("/api/pi", middleware.Auth(deps.JWTSecret), middleware.Role(middleware.RolePI))

	api.Get("/attendance", hdl.Attendance)
	api.Post("/attendance/sso", hdl.SSOAttendance)
	api.Get("/notifications", hdl.Notifications)
	api.Post("/submissions", hdl.Submit)
}
