package handler

import (
	"errors"
	"log"
	"strconv"
	"time"

	"project-attendance-backend/internal/apperror"
	"project-attendance-backend/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func success(c *fiber.Ctx, message string, data interface{}) error {
	return successWithCode(c, fiber.StatusOK, message, data)
}

func successWithCode(c *fiber.Ctx, code int, message string, data interface{}) error {
	return c.Status(code).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// respondError maps the error kind to a status code.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch apperror.KindOf(err) {
	case apperror.NotFound:
		status = fiber.StatusNotFound
	case apperror.InvalidInput:
		status = fiber.StatusBadRequest
	case apperror.Conflict:
		status = fiber.StatusConflict
	case apperror.UpstreamUnavailable:
		status = fiber.StatusServiceUnavailable
	}
	if status >= fiber.StatusInternalServerError {
		log.Printf("[HTTP] %s %s: %v", c.Method(), c.OriginalURL(), err)
	}
	return c.Status(status).JSON(fiber.Map{"success": false, "error": err.Error()})
}

func validationError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid input"})
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Tag()
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "validation failed", "errors": fields})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": msg})
}

// periodFromQuery reads ?month=&year=, defaulting each to the current one in loc.
func periodFromQuery(c *fiber.Ctx, loc *time.Location) (model.Period, error) {
	period := model.PeriodOf(model.Today(loc))
	if m := c.Query("month"); m != "" {
		month, err := strconv.Atoi(m)
		if err != nil {
			return period, apperror.InvalidInputf("invalid month %q", m)
		}
		period.Month = month
	}
	if y := c.Query("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			return period, apperror.InvalidInputf("invalid year %q", y)
		}
		period.Year = year
	}
	if err := validate.Struct(period); err != nil {
		return period, apperror.InvalidInputf("invalid period %s", period.Key())
	}
	return period, nil
}

func periodOf(month, year int) model.Period {
	return model.Period{Month: month, Year: year}
}

func dateFromQuery(c *fiber.Ctx, key string, fallback time.Time) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return time.Time{}, apperror.InvalidInputf("invalid %s: %v", key, err)
	}
	return d, nil
}
