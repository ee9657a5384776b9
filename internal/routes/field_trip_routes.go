package routes

import (
	"project-attendance-backend/internal/handler"
	"project-attendance-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupFieldTripRoutes(app *fiber.App, deps *Dependencies) {
	hdl := handler.NewFieldTripHandler(deps.FieldTrips, deps.Location)

	api := app.Group("/api/field-trips", middleware.Auth(deps.JWTSecret), middleware.Role(middleware.RoleHR, middleware.RoleAdmin))

	api.Post("/", hdl.Replace)
	api.Get("/active", hdl.Active)
	api.Get("/employee/:employeeNumber", hdl.ByEmployee)
	api.Get("/user/:username", hdl.ByUsername)
	api.Put("/:fieldTripKey", hdl.Update)
	api.Delete("/:fieldTripKey", hdl.Delete)
}
