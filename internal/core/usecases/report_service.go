package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/digitalshield/internal/core/domain"
	"github.com/samirrijal/digitalshield/internal/core/ports"
	"github.com/samirrijal/digitalshield/internal/pkg/caseid"
	"github.com/samirrijal/digitalshield/internal/pkg/metrics"
	"github.com/samirrijal/digitalshield/internal/pkg/telemetry"
	"github.com/samirrijal/digitalshield/internal/pkg/validate"
)

const (
	maxDescriptionLength = 5000
	maxLocationLength    = 500
	defaultReportLimit   = 50
	maxReportLimit       = 200
)

// ReportService handles incident report submission and case management.
type ReportService struct {
	reports   ports.ReportRepository
	publisher ports.EventPublisher
	exporter  ports.ReportExporter
	audit     *AuditService
	ids       *caseid.Generator
}

// NewReportService creates a new ReportService. publisher, exporter and audit
// may be nil; a nil generator uses caseid.New().
func NewReportService(
	reports ports.ReportRepository,
	publisher ports.EventPublisher,
	exporter ports.ReportExporter,
	audit *AuditService,
	ids *caseid.Generator,
) *ReportService {
	if ids == nil {
		ids = caseid.New()
	}
	return &ReportService{reports: reports, publisher: publisher, exporter: exporter, audit: audit, ids: ids}
}

// GenerateCaseID returns a fresh case ID and the instant it was issued.
func (s *ReportService) GenerateCaseID() (string, time.Time) {
	return s.ids.Next()
}

// Submit validates sub, assigns a case ID and stores the report as pending.
func (s *ReportService) Submit(ctx context.Context, userID string, sub domain.ReportSubmission) (*domain.IncidentReport, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanReportSubmit)
	defer span.End()

	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	// Anonymous reports never store contact details.
	if sub.IsAnonymous {
		sub.ContactEmail, sub.ContactPhone = "", ""
	}
	if err := validate.Struct(sub); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !domain.IsIncidentType(sub.IncidentType) {
		return nil, fmt.Errorf("%w: unknown incident_type %q", domain.ErrInvalidInput, sub.IncidentType)
	}

	desc := validate.Sanitize(sub.Description, 0)
	if desc == "" {
		return nil, fmt.Errorf("%w: description is required", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(desc) > maxDescriptionLength {
		return nil, fmt.Errorf("%w: description must be at most %d characters", domain.ErrInvalidInput, maxDescriptionLength)
	}

	var incidentDate *time.Time
	if sub.IncidentDate != "" {
		d, err := parseIncidentDate(sub.IncidentDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		incidentDate = &d
	}

	var evidence []string
	for _, f := range sub.EvidenceFiles {
		if f = strings.TrimSpace(f); f != "" {
			evidence = append(evidence, f)
		}
	}

	caseID, at := s.GenerateCaseID()
	report := &domain.IncidentReport{
		UserID:        userID,
		CaseID:        caseID,
		IncidentType:  sub.IncidentType,
		Urgency:       domain.Urgency(sub.Urgency),
		Description:   desc,
		Location:      validate.Sanitize(sub.Location, maxLocationLength),
		IncidentDate:  incidentDate,
		IsAnonymous:   sub.IsAnonymous,
		ContactEmail:  strings.TrimSpace(sub.ContactEmail),
		ContactPhone:  strings.TrimSpace(sub.ContactPhone),
		EvidenceFiles: evidence,
		Status:        domain.StatusPending,
		CreatedAt:     at,
		UpdatedAt:     at,
	}

	if err := s.reports.Insert(ctx, report); err != nil {
		return nil, fmt.Errorf("insert report: %w", err)
	}
	span.SetAttributes(attribute.String("case_id", caseID))
	metrics.ReportsSubmitted.WithLabelValues(sub.Urgency).Inc()

	if s.publisher != nil {
		err := s.publisher.PublishReportSubmitted(ctx, &domain.ReportSubmitted{
			ReportID:     report.ID,
			CaseID:       report.CaseID,
			UserID:       userID,
			IncidentType: report.IncidentType,
			Urgency:      report.Urgency,
			SubmittedAt:  at,
		})
		if err != nil {
			slog.Warn("publish report submitted", "case_id", caseID, "error", err)
		}
	}

	return report, nil
}

func parseIncidentDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("incident_date %q must be RFC 3339 or YYYY-MM-DD", s)
}

// Get returns a report the requester owns, or any report for admins.
// Reports owned by someone else are reported as not found.
func (s *ReportService) Get(ctx context.Context, req domain.Requester, caseID string) (*domain.IncidentReport, error) {
	r, err := s.reports.GetByCaseID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if !req.CanAccess(r.UserID) {
		return nil, fmt.Errorf("report %s: %w", caseID, domain.ErrNotFound)
	}
	if req.Admin && req.UserID != r.UserID {
		s.audit.Record(ctx, domain.AuditEvent{
			UserID:    req.UserID,
			EventType: domain.AuditDataAccess,
			EventData: map[string]any{"case_id": caseID},
		})
	}
	return r, nil
}

// ListForUser returns the user's own reports.
func (s *ReportService) ListForUser(ctx context.Context, userID string, filter domain.ReportFilter) ([]domain.IncidentReport, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	f, err := normalizeReportFilter(filter)
	if err != nil {
		return nil, err
	}
	return s.reports.List(ctx, userID, f)
}

// ListAll returns every user's reports. Admin only.
func (s *ReportService) ListAll(ctx context.Context, req domain.Requester, filter domain.ReportFilter) ([]domain.IncidentReport, error) {
	if !req.Admin {
		return nil, domain.ErrForbidden
	}
	f, err := normalizeReportFilter(filter)
	if err != nil {
		return nil, err
	}
	return s.reports.List(ctx, "", f)
}

func normalizeReportFilter(f domain.ReportFilter) (domain.ReportFilter, error) {
	if f.Status != "" && !f.Status.Valid() {
		return f, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, f.Status)
	}
	if f.Limit <= 0 {
		f.Limit = defaultReportLimit
	}
	if f.Limit > maxReportLimit {
		f.Limit = maxReportLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	f.Search = strings.TrimSpace(f.Search)
	return f, nil
}

// UpdateStatus moves a report to status and records the admin action.
func (s *ReportService) UpdateStatus(ctx context.Context, req domain.Requester, caseID string, status domain.ReportStatus, assignedAgent string) (*domain.IncidentReport, error) {
	if !req.Admin {
		return nil, domain.ErrForbidden
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	r, err := s.reports.UpdateStatus(ctx, caseID, status, validate.Sanitize(assignedAgent, 200))
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, domain.AuditEvent{
		UserID:    req.UserID,
		EventType: domain.AuditAdminAction,
		EventData: map[string]any{
			"action":         "update_report_status",
			"case_id":        caseID,
			"status":         string(status),
			"assigned_agent": r.AssignedAgent,
		},
	})
	return r, nil
}

// Stats returns report counts by status and urgency. Admin only.
func (s *ReportService) Stats(ctx context.Context, req domain.Requester) (*domain.ReportStats, error) {
	if !req.Admin {
		return nil, domain.ErrForbidden
	}
	return s.reports.Stats(ctx)
}

// Receipt renders the case receipt for a report the requester may read.
func (s *ReportService) Receipt(ctx context.Context, req domain.Requester, caseID string) ([]byte, error) {
	if s.exporter == nil {
		return nil, errors.New("report exporter not configured")
	}
	r, err := s.Get(ctx, req, caseID)
	if err != nil {
		return nil, err
	}
	return s.exporter.Receipt(r)
}

// Export renders every report matching filter as a spreadsheet. Admin only.
func (s *ReportService) Export(ctx context.Context, req domain.Requester, filter domain.ReportFilter) ([]byte, error) {
	if s.exporter == nil {
		return nil, errors.New("report exporter not configured")
	}
	filter.Limit = maxReportLimit
	reports, err := s.ListAll(ctx, req, filter)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, domain.AuditEvent{
		UserID:    req.UserID,
		EventType: domain.AuditAdminAction,
		EventData: map[string]any{"action": "export_reports", "count": len(reports)},
	})
	return s.exporter.Spreadsheet(reports)
}
