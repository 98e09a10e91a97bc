package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/samirrijal/digitalshield/internal/core/domain"
	"github.com/samirrijal/digitalshield/internal/pkg/caseid"
	"github.com/samirrijal/digitalshield/internal/pkg/validate"
)

// reportFilter reads status, q, offset and limit from the query string.
func reportFilter(c *fiber.Ctx) domain.ReportFilter {
	return domain.ReportFilter{
		Status: domain.ReportStatus(c.Query("status")),
		Search: c.Query("q"),
		Offset: c.QueryInt("offset", 0),
		Limit:  c.QueryInt("limit", 50),
	}
}

func reportPage(c *fiber.Ctx, f domain.ReportFilter, reports []domain.IncidentReport) error {
	if reports == nil {
		reports = []domain.IncidentReport{}
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	pg := Pagination{
		Offset:  offset,
		Limit:   limit,
		Count:   len(reports),
		HasMore: len(reports) == limit,
	}
	SetLinkHeaders(c, pg)
	return c.JSON(PaginatedResponse{Data: reports, Pagination: pg})
}

// CreateReportHandler serves POST /v1/reports. The body matches the
// submit-report edge function.
func CreateReportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sub domain.ReportSubmission
		if err := c.BodyParser(&sub); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		report, err := deps.Reports.Submit(c.UserContext(), userID(c), sub)
		if err != nil {
			return respondError(c, err)
		}
		LoggerFromCtx(c.UserContext()).Info("report submitted", "case_id", report.CaseID)
		return c.Status(fiber.StatusCreated).JSON(newSubmitReportResponse(report))
	}
}

// ListReportsHandler returns the caller's own reports.
func ListReportsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := reportFilter(c)
		reports, err := deps.Reports.ListForUser(c.UserContext(), userID(c), f)
		if err != nil {
			return respondError(c, err)
		}
		return reportPage(c, f, reports)
	}
}

// GetReportHandler returns one report by case ID.
func GetReportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("caseId")
		if !caseid.Valid(id) {
			return errBadRequest(c, "malformed case id")
		}
		report, err := deps.Reports.Get(c.UserContext(), requester(c), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(report)
	}
}

// ReportReceiptHandler renders the PDF case receipt.
func ReportReceiptHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("caseId")
		if !caseid.Valid(id) {
			return errBadRequest(c, "malformed case id")
		}
		pdf, err := deps.Reports.Receipt(c.UserContext(), requester(c), id)
		if err != nil {
			return respondError(c, err)
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.pdf"`, id))
		return c.Send(pdf)
	}
}

// ---- Admin ----

// AdminListReportsHandler returns every user's reports.
func AdminListReportsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := reportFilter(c)
		reports, err := deps.Reports.ListAll(c.UserContext(), requester(c), f)
		if err != nil {
			return respondError(c, err)
		}
		return reportPage(c, f, reports)
	}
}

// AdminReportStatsHandler returns report counts by status and urgency.
func AdminReportStatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := deps.Reports.Stats(c.UserContext(), requester(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(stats)
	}
}

// AdminExportReportsHandler streams the filtered reports as an XLSX workbook.
func AdminExportReportsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := reportFilter(c)
		f.Offset = 0
		data, err := deps.Reports.Export(c.UserContext(), requester(c), f)
		if err != nil {
			return respondError(c, err)
		}
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="incident-reports.xlsx"`)
		return c.Send(data)
	}
}

type updateReportRequest struct {
	Status        string `json:"status" validate:"required,oneof=pending investigating resolved closed"`
	AssignedAgent string `json:"assigned_agent" validate:"max=200"`
}

// AdminUpdateReportHandler moves a report to a new status.
func AdminUpdateReportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("caseId")
		if !caseid.Valid(id) {
			return errBadRequest(c, "malformed case id")
		}
		var req updateReportRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return errBadRequest(c, err.Error())
		}
		report, err := deps.Reports.UpdateStatus(c.UserContext(), requester(c), id,
			domain.ReportStatus(req.Status), req.AssignedAgent)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(report)
	}
}
