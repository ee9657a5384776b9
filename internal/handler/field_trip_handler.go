package handler

import (
	"encoding/json"
	"time"

	"project-attendance-backend/internal/middleware"
	"project-attendance-backend/internal/model"
	"project-attendance-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type FieldTripHandler struct {
	uc  *usecase.FieldTripUsecase
	loc *time.Location
}

func NewFieldTripHandler(uc *usecase.FieldTripUsecase, loc *time.Location) *FieldTripHandler {
	return &FieldTripHandler{uc: uc, loc: loc}
}

type tripInput struct {
	StartDate   string  `json:"startDate" validate:"required"`
	EndDate     string  `json:"endDate" validate:"required"`
	Description *string `json:"description"`
}

type replaceTripsRequest struct {
	EmployeeNumber string       `json:"employeeNumber" validate:"required"`
	FieldTrips     *[]tripInput `json:"fieldTrips" validate:"required,dive"`
}

// Description stays raw so an explicit null can be told apart from an absent field.
type updateTripRequest struct {
	StartDate   string          `json:"startDate"`
	EndDate     string          `json:"endDate"`
	Description json.RawMessage `json:"description"`
}

// Replace swaps all active trips of an employee for the submitted list.
func (h *FieldTripHandler) Replace(c *fiber.Ctx) error {
	var req replaceTripsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "fieldTrips must be an array of {startDate, endDate, description}")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	// 1. Parse the ranges
	dates := make([]usecase.TripDates, 0, len(*req.FieldTrips))
	for _, in := range *req.FieldTrips {
		start, err := model.ParseDate(in.StartDate)
		if err != nil {
			return badRequest(c, err.Error())
		}
		end, err := model.ParseDate(in.EndDate)
		if err != nil {
			return badRequest(c, err.Error())
		}
		dates = append(dates, usecase.TripDates{StartDate: start, EndDate: end, Description: in.Description})
	}

	// 2. Replace in one transaction
	trips, err := h.uc.ReplaceActiveTrips(c.UserContext(), req.EmployeeNumber, dates, middleware.Username(c))
	if err != nil {
		return respondError(c, err)
	}
	return successWithCode(c, fiber.StatusCreated, "field trips saved", trips)
}

func (h *FieldTripHandler) Active(c *fiber.Ctx) error {
	asOf, err := dateFromQuery(c, "date", model.Today(h.loc))
	if err != nil {
		return respondError(c, err)
	}
	trips, err := h.uc.ListActiveTrips(c.UserContext(), asOf)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "count": len(trips), "data": trips})
}

func (h *FieldTripHandler) ByEmployee(c *fiber.Ctx) error {
	result, err := h.uc.TripsForEmployee(c.UserContext(), c.Params("employeeNumber"), model.Today(h.loc))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, "field trips retrieved", result)
}

func (h *FieldTripHandler) ByUsername(c *fiber.Ctx) error {
	result, err := h.uc.TripsForUsername(c.UserContext(), c.Params("username"), model.Today(h.loc))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, "field trips retrieved", result)
}

func (h *FieldTripHandler) Update(c *fiber.Ctx) error {
	var req updateTripRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	// Empty dates are skipped
	var patch usecase.FieldTripPatch
	if req.StartDate != "" {
		d, err := model.ParseDate(req.StartDate)
		if err != nil {
			return badRequest(c, err.Error())
		}
		patch.StartDate = &d
	}
	if req.EndDate != "" {
		d, err := model.ParseDate(req.EndDate)
		if err != nil {
			return badRequest(c, err.Error())
		}
		patch.EndDate = &d
	}

	// null clears the description, a missing field keeps it
	if len(req.Description) > 0 {
		if string(req.Description) == "null" {
			patch.ClearDescription = true
		} else {
			var description string
			if err := json.Unmarshal(req.Description, &description); err != nil {
				return badRequest(c, "description must be a string or null")
			}
			patch.Description = &description
		}
	}

	trip, err := h.uc.Update(c.UserContext(), c.Params("fieldTripKey"), patch)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, "field trip updated", trip)
}

// Delete deactivates the trip; trips are never removed.
func (h *FieldTripHandler) Delete(c *fiber.Ctx) error {
	trip, err := h.uc.Deactivate(c.UserContext(), c.Params("fieldTripKey"))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, "field trip deactivated", trip)
}
