package http

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/samirrijal/digitalshield/internal/core/domain"
	"github.com/samirrijal/digitalshield/internal/pkg/auth"
)

// Edge functions keep the { success, ... } envelope the mobile and web
// clients were built against, including for errors.

// isoMillis matches JavaScript's Date.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type caseIDResponse struct {
	Success   bool   `json:"success"`
	CaseID    string `json:"caseId"`
	Timestamp string `json:"timestamp"`
}

type submitReportResponse struct {
	Success  bool   `json:"success"`
	CaseID   string `json:"case_id"`
	ReportID string `json:"report_id"`
	Message  string `json:"message"`
}

type functionError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func functionFail(c *fiber.Ctx, status int, msg, details string) error {
	return c.Status(status).JSON(functionError{Error: msg, Details: details})
}

func newCaseIDResponse(deps *Dependencies) caseIDResponse {
	id, at := deps.Reports.GenerateCaseID()
	return caseIDResponse{
		Success:   true,
		CaseID:    id,
		Timestamp: at.UTC().Format(isoMillis),
	}
}

func newSubmitReportResponse(r *domain.IncidentReport) submitReportResponse {
	return submitReportResponse{
		Success:  true,
		CaseID:   r.CaseID,
		ReportID: r.ID,
		Message:  "Report submitted successfully",
	}
}

// GenerateCaseIDFunctionHandler serves GET|POST /functions/v1/generate-case-id.
func GenerateCaseIDFunctionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Reports == nil {
			return functionFail(c, 500, "Failed to generate case ID", "report service not configured")
		}
		res := newCaseIDResponse(deps)
		LoggerFromCtx(c.UserContext()).Info("case id generated", "case_id", res.CaseID)
		return c.JSON(res)
	}
}

// SubmitReportFunctionHandler serves POST /functions/v1/submit-report. It is
// routed for every method so other methods get the function envelope.
// Every failure other than authentication is a 400.
func SubmitReportFunctionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := LoggerFromCtx(c.UserContext())

		if c.Method() != fiber.MethodPost {
			return functionFail(c, 400, "Method not allowed", "")
		}

		id, err := authenticate(c, deps)
		if err != nil {
			log.Warn("submit-report rejected", "error", err)
			if errors.Is(err, auth.ErrMissingToken) {
				return functionFail(c, 401, "No authorization header", "")
			}
			return functionFail(c, 401, "Unauthorized", "")
		}

		// Clients do not always send a JSON content type, so decode the
		// body directly.
		var sub domain.ReportSubmission
		if err := json.Unmarshal(c.Body(), &sub); err != nil {
			return functionFail(c, 400, "Invalid JSON body", "")
		}

		report, err := deps.Reports.Submit(c.UserContext(), id.UserID, sub)
		if err != nil {
			log.Error("submit-report failed", "user_id", id.UserID, "error", err)
			if errors.Is(err, domain.ErrInvalidInput) {
				return functionFail(c, 400, err.Error(), "")
			}
			return functionFail(c, 400, "Failed to submit report", "")
		}

		log.Info("report submitted", "case_id", report.CaseID, "user_id", id.UserID)
		return c.JSON(newSubmitReportResponse(report))
	}
}

// CreateCaseIDHandler serves POST /v1/case-ids.
func CreateCaseIDHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(newCaseIDResponse(deps))
	}
}
