package handler

import (
	"time"

	"project-attendance-backend/internal/model"
	"project-attendance-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

// JobHandler exposes manual triggers for the scheduled jobs.
type JobHandler struct {
	trips *usecase.FieldTripUsecase
	jobs  *usecase.AttendanceJobUsecase
	loc   *time.Location
}

func NewJobHandler(trips *usecase.FieldTripUsecase, jobs *usecase.AttendanceJobUsecase, loc *time.Location) *JobHandler {
	return &JobHandler{trips: trips, jobs: jobs, loc: loc}
}

func (h *JobHandler) ExpireFieldTrips(c *fiber.Ctx) error {
	asOf, err := dateFromQuery(c, "date", model.Today(h.loc))
	if err != nil {
		return respondError(c, err)
	}
	expired, err := h.trips.ExpireOverdueTrips(c.UserContext(), asOf)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "expired field trips deactivated",
		"count":   len(expired),
		"data":    expired,
	})
}

func (h *JobHandler) ProcessFieldTripAttendance(c *fiber.Ctx) error {
	day, err := dateFromQuery(c, "date", model.Today(h.loc))
	if err != nil {
		return respondError(c, err)
	}
	results, err := h.jobs.MarkFieldTripAttendance(c.UserContext(), day)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "field trip attendance processed",
		"processed": len(results),
		"results":   results,
	})
}

func (h *JobHandler) CompleteAttendance(c *fiber.Ctx) error {
	day, err := dateFromQuery(c, "date", model.Today(h.loc))
	if err != nil {
		return respondError(c, err)
	}
	report, err := h.jobs.CompleteOpenAttendance(c.UserContext(), day)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, "open attendance completed", report)
}
