package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/digitalshield/internal/core/domain"
)

const reportColumns = `
	id::text, user_id, case_id, incident_type, urgency, description,
	COALESCE(location, ''), incident_date, is_anonymous,
	COALESCE(contact_email, ''), COALESCE(contact_phone, ''), evidence_files,
	status, COALESCE(assigned_agent, ''), created_at, updated_at`

// ReportRepo implements ports.ReportRepository with pgx.
type ReportRepo struct {
	db *DB
}

// NewReportRepo creates a new ReportRepo.
func NewReportRepo(db *DB) *ReportRepo {
	return &ReportRepo{db: db}
}

// Insert stores a new report and fills in its generated id and timestamps.
func (r *ReportRepo) Insert(ctx context.Context, rep *domain.IncidentReport) error {
	evidence := rep.EvidenceFiles
	if evidence == nil {
		evidence = []string{}
	}
	status := rep.Status
	if status == "" {
		status = domain.StatusPending
	}
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO incident_reports (
			user_id, case_id, incident_type, urgency, description, location,
			incident_date, is_anonymous, contact_email, contact_phone, evidence_files, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id::text, status, created_at, updated_at
	`, rep.UserID, rep.CaseID, rep.IncidentType, string(rep.Urgency), rep.Description,
		nilIfEmpty(rep.Location), rep.IncidentDate, rep.IsAnonymous,
		nilIfEmpty(rep.ContactEmail), nilIfEmpty(rep.ContactPhone), evidence, string(status),
	).Scan(&rep.ID, &rep.Status, &rep.CreatedAt, &rep.UpdatedAt)
}

// GetByCaseID returns the newest report carrying caseID.
func (r *ReportRepo) GetByCaseID(ctx context.Context, caseID string) (*domain.IncidentReport, error) {
	row := r.db.Pool.QueryRow(ctx, `
		SELECT `+reportColumns+`
		FROM incident_reports
		WHERE case_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, caseID)
	rep, err := scanReport(row)
	if err != nil {
		return nil, notFound(err)
	}
	return rep, nil
}

// List returns reports newest first. An empty userID lists every user.
func (r *ReportRepo) List(ctx context.Context, userID string, f domain.ReportFilter) ([]domain.IncidentReport, error) {
	q, args := listReportsQuery(userID, f)
	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []domain.IncidentReport{}
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *rep)
	}
	return reports, rows.Err()
}

// listReportsQuery builds the List query. id breaks created_at ties so offset
// pages neither repeat nor skip rows.
func listReportsQuery(userID string, f domain.ReportFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if userID != "" {
		where = append(where, "user_id = "+arg(userID))
	}
	if f.Status != "" {
		where = append(where, "status = "+arg(string(f.Status)))
	}
	if f.Search != "" {
		p := arg(containsPattern(f.Search))
		where = append(where, fmt.Sprintf("(case_id ILIKE %[1]s OR incident_type ILIKE %[1]s OR description ILIKE %[1]s)", p))
	}

	q := `SELECT ` + reportColumns + ` FROM incident_reports`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC, id DESC LIMIT " + arg(f.Limit) + " OFFSET " + arg(f.Offset)
	return q, args
}

// UpdateStatus sets status, and the assigned agent when non-empty, on the
// reports carrying caseID.
func (r *ReportRepo) UpdateStatus(ctx context.Context, caseID string, status domain.ReportStatus, agent string) (*domain.IncidentReport, error) {
	row := r.db.Pool.QueryRow(ctx, `
		UPDATE incident_reports
		SET status = $2,
		    assigned_agent = COALESCE($3, assigned_agent),
		    updated_at = now()
		WHERE case_id = $1
		RETURNING `+reportColumns,
		caseID, string(status), nilIfEmpty(agent))
	rep, err := scanReport(row)
	if err != nil {
		return nil, notFound(err)
	}
	return rep, nil
}

func (r *ReportRepo) Stats(ctx context.Context) (*domain.ReportStats, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT status, urgency, count(*)
		FROM incident_reports
		GROUP BY status, urgency
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &domain.ReportStats{ByStatus: map[string]int{}, ByUrgency: map[string]int{}}
	for rows.Next() {
		var status, urgency string
		var n int
		if err := rows.Scan(&status, &urgency, &n); err != nil {
			return nil, err
		}
		stats.Total += n
		stats.ByStatus[status] += n
		stats.ByUrgency[urgency] += n
	}
	return stats, rows.Err()
}

func scanReport(row pgx.Row) (*domain.IncidentReport, error) {
	var rep domain.IncidentReport
	if err := row.Scan(
		&rep.ID, &rep.UserID, &rep.CaseID, &rep.IncidentType, &rep.Urgency, &rep.Description,
		&rep.Location, &rep.IncidentDate, &rep.IsAnonymous,
		&rep.ContactEmail, &rep.ContactPhone, &rep.EvidenceFiles,
		&rep.Status, &rep.AssignedAgent, &rep.CreatedAt, &rep.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &rep, nil
}
