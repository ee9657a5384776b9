package handler

import (
	"time"

	"project-attendance-backend/internal/model"
	"project-attendance-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type CalendarHandler struct {
	uc  *usecase.CalendarUsecase
	loc *time.Location
}

func NewCalendarHandler(uc *usecase.CalendarUsecase, loc *time.Location) *CalendarHandler {
	return &CalendarHandler{uc: uc, loc: loc}
}

type calendarDay struct {
	Date        string `json:"date" validate:"required"`
	IsHoliday   bool   `json:"isHoliday"`
	IsWeekend   bool   `json:"isWeekend"`
	Description string `json:"description"`
}

type setDaysRequest struct {
	Days []calendarDay `json:"days" validate:"required,min=1,dive"`
}

func (h *CalendarHandler) GetAll(c *fiber.Ctx) error {
	period, err := periodFromQuery(c, h.loc)
	if err != nil {
		return respondError(c, err)
	}
	days, err := h.uc.Days(c.UserContext(), period)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, "calendar retrieved", days)
}

// Set creates or overwrites the flags of the given dates.
func (h *CalendarHandler) Set(c *fiber.Ctx) error {
	var req setDaysRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "days must be an array")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	days := make([]model.Calendar, 0, len(req.Days))
	for _, d := range req.Days {
		date, err := model.ParseDate(d.Date)
		if err != nil {
			return badRequest(c, err.Error())
		}
		days = append(days, model.Calendar{Date: date, IsHoliday: d.IsHoliday, IsWeekend: d.IsWeekend, Description: d.Description})
	}

	if err := h.uc.SetDays(c.UserContext(), days); err != nil {
		return respondError(c, err)
	}
	return success(c, "calendar updated", days)
}

func (h *CalendarHandler) Delete(c *fiber.Ctx) error {
	date, err := model.ParseDate(c.Params("date"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.uc.DeleteDay(c.UserContext(), date); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "calendar day removed"})
}

// WorkingDays answers for ?month=&year=, or for an explicit ?start=&end= range.
func (h *CalendarHandler) WorkingDays(c *fiber.Ctx) error {
	if c.Query("start") != "" || c.Query("end") != "" {
		start, err := dateFromQuery(c, "start", time.Time{})
		if err != nil {
			return respondError(c, err)
		}
		end, err := dateFromQuery(c, "end", time.Time{})
		if err != nil {
			return respondError(c, err)
		}
		if start.IsZero() || end.IsZero() {
			return badRequest(c, "start and end are both required")
		}
		days, err := h.uc.WorkingDays(c.UserContext(), start, end)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "start": start, "end": end, "workingDays": days})
	}

	period, err := periodFromQuery(c, h.loc)
	if err != nil {
		return respondError(c, err)
	}
	days, err := h.uc.WorkingDaysForPeriod(c.UserContext(), period)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "period": period, "workingDays": days})
}
