package handler

import (
	"strings"
	"time"

	"project-attendance-backend/internal/apperror"
	"project-attendance-backend/internal/repository"
	"project-attendance-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type HRHandler struct {
	roster      repository.RosterRepository
	submissions *usecase.SubmissionUsecase
	reports     *usecase.ReportUsecase
	loc         *time.Location
}

func NewHRHandler(roster repository.RosterRepository, submissions *usecase.SubmissionUsecase, reports *usecase.ReportUsecase, loc *time.Location) *HRHandler {
	return &HRHandler{roster: roster, submissions: submissions, reports: reports, loc: loc}
}

type dataRequest struct {
	PIs   []string `json:"pis" validate:"required,min=1,dive,required"`
	Month int      `json:"month" validate:"required,min=1,max=12"`
	Year  int      `json:"year" validate:"required,min=2000,max=2100"`
}

func (h *HRHandler) ListPIs(c *fiber.Ctx) error {
	pis, err := h.roster.ListPIs(c.UserContext())
	if err != nil {
		return respondError(c, apperror.FromGorm(err, "PIs"))
	}
	return success(c, "PIs retrieved", pis)
}

// RequestData asks the listed PIs to submit their team's attendance for a month.
func (h *HRHandler) RequestData(c *fiber.Ctx) error {
	var req dataRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "pis must be an array of PI usernames")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	outcomes, err := h.submissions.Request(c.UserContext(), req.PIs, periodOf(req.Month, req.Year))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, "data request sent", outcomes)
}

func (h *HRHandler) SubmissionStatus(c *fiber.Ctx) error {
	period, err := periodFromQuery(c, h.loc)
	if err != nil {
		return respondError(c, err)
	}
	status, err := h.submissions.Status(c.UserContext(), period)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "period": period, "data": status})
}

// CombinedReport returns the rows of every submitted team, or 404 when no PI has
// submitted the month yet. ?pis=a,b narrows it to some PIs.
func (h *HRHandler) CombinedReport(c *fiber.Ctx) error {
	period, err := periodFromQuery(c, h.loc)
	if err != nil {
		return respondError(c, err)
	}
	var pis []string
	if raw := c.Query("pis"); raw != "" {
		for _, pi := range strings.Split(raw, ",") {
			if pi = strings.TrimSpace(pi); pi != "" {
				pis = append(pis, pi)
			}
		}
	}

	report, err := h.reports.CombinedReport(c.UserContext(), pis, period)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, "combined report", report)
}

func (h *HRHandler) PIAttendance(c *fiber.Ctx) error {
	period, err := periodFromQuery(c, h.loc)
	if err != nil {
		return respondError(c, err)
	}
	report, err := h.reports.PIPresence(c.UserContext(), c.Params("username"), period)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, "PI attendance", report)
}
