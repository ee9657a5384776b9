package handler

import (
	"time"

	"project-attendance-backend/internal/apperror"
	"project-attendance-backend/internal/middleware"
	"project-attendance-backend/internal/repository"
	"project-attendance-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type PIHandler struct {
	roster      repository.RosterRepository
	submissions *usecase.SubmissionUsecase
	reports     *usecase.ReportUsecase
	loc         *time.Location
}

func NewPIHandler(roster repository.RosterRepository, submissions *usecase.SubmissionUsecase, reports *usecase.ReportUsecase, loc *time.Location) *PIHandler {
	return &PIHandler{roster: roster, submissions: submissions, reports: reports, loc: loc}
}

type teamViewRequest struct {
	ProjectCodes []string `json:"projectCodes" validate:"omitempty,dive,required"`
}

type submitRequest struct {
	Month int `json:"month" validate:"required,min=1,max=12"`
	Year  int `json:"year" validate:"required,min=2000,max=2100"`
}

// projectCodes prefers the codes in the token and falls back to the roster.
func (h *PIHandler) projectCodes(c *fiber.Ctx) ([]string, error) {
	if codes := middleware.Projects(c); len(codes) > 0 {
		return codes, nil
	}
	pi, err := h.roster.FindPI(c.UserContext(), middleware.Username(c))
	if err != nil {
		return nil, apperror.FromGorm(err, "PI "+middleware.Username(c))
	}
	codes := pi.ProjectCodes()
	if len(codes) == 0 {
		return nil, apperror.InvalidInputf("no projects associated with %s", pi.Username)
	}
	return codes, nil
}

// Attendance is the PI's live dashboard; half and open days count as 0.5.
func (h *PIHandler) Attendance(c *fiber.Ctx) error {
	period, err := periodFromQuery(c, h.loc)
	if err != nil {
		return respondError(c, err)
	}
	codes, err := h.projectCodes(c)
	if err != nil {
		return respondError(c, err)
	}

	members, err := h.reports.TeamAttendance(c.UserContext(), codes, period, usecase.PolicyLive)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"period":       period,
		"projectCodes": codes,
		"totalUsers":   len(members),
		"data":         members,
	})
}

// SSOAttendance is the same view counted the way submissions are. The month comes
// from ?month=&year=, the body only narrows the projects.
func (h *PIHandler) SSOAttendance(c *fiber.Ctx) error {
	period, err := periodFromQuery(c, h.loc)
	if err != nil {
		return respondError(c, err)
	}

	var req teamViewRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid body")
		}
		if err := validate.Struct(req); err != nil {
			return validationError(c, err)
		}
	}

	codes := req.ProjectCodes
	if len(codes) == 0 {
		if codes, err = h.projectCodes(c); err != nil {
			return respondError(c, err)
		}
	}

	members, err := h.reports.TeamAttendance(c.UserContext(), codes, period, usecase.PolicySubmission)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"period":       period,
		"projectCodes": codes,
		"totalUsers":   len(members),
		"data":         members,
	})
}

func (h *PIHandler) Notifications(c *fiber.Ctx) error {
	periods, err := h.submissions.NotificationsFor(c.UserContext(), middleware.Username(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "count": len(periods), "data": periods})
}

// Submit sends the team's statistics for the requested month to HR.
func (h *PIHandler) Submit(c *fiber.Ctx) error {
	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	stats, err := h.submissions.SubmitTeam(c.UserContext(), middleware.Username(c), middleware.Projects(c), periodOf(req.Month, req.Year))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, "data submitted to HR", stats)
}
