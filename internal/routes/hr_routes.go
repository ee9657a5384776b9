package routes

import (
	"project-attendance-backend/internal/handler"
	"project-attendance-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupHRRoutes(app *fiber.App, deps *Dependencies) {
	hdl := handler.NewHRHandler(deps.Roster, deps.Workflow, deps.Reports, deps.Location)

	api := app.Group("/api/hr", middleware.Auth(deps.JWTSecret), middleware.Role(middleware.RoleHR, middleware.RoleAdmin))

	api.Get("/pis", hdl.ListPIs)
	api.Get("/pis/:username/attendance", hdl.PIAttendance)
	api.Post("/requests", hdl.RequestData)
	api.Get("/submissions/status", hdl.SubmissionStatus)
	api.Get("/reports/combined", hdl.CombinedReport)
}
