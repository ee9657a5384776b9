package routes

import (
	"project-attendance-backend/internal/handler"
	"project-attendance-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupCalendarRoutes(app *fiber.App, deps *Dependencies) {
	hdl := handler.NewCalendarHandler(deps.Calendar, deps.Location)

	admin := app.Group("/api/admin/calendar", middleware.Auth(deps.JWTSecret), middleware.Role(middleware.RoleAdmin, middleware.RoleHR))
	admin.Get("/", hdl.GetAll)
	admin.Post("/", hdl.Set)
	admin.Delete("/:date", hdl.Delete)

	app.Get("/api/calendar/working-days", middleware.Auth(deps.JWTSecret), hdl.WorkingDays)
}
