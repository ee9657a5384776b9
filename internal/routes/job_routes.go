package routes

import (
	"project-attendance-backend/internal/handler"
	"project-attendance-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupJobRoutes(app *fiber.App, deps *Dependencies) {
	hdl := handler.NewJobHandler(deps.FieldTrips, deps.Jobs, deps.Location)

	api := app.Group("/api/jobs", middleware.Auth(deps.JWTSecret), middleware.Role(middleware.RoleAdmin, middleware.RoleHR))

	api.Post("/field-trips/expire", hdl.ExpireFieldTrips)
	api.Post("/field-trips/attendance", hdl.ProcessFieldTripAttendance)
	api.Post("/attendance/complete", hdl.CompleteAttendance)
}
