package postgres

import (
	"context"
	"encoding/json"

	"github.com/samirrijal/digitalshield/internal/core/domain"
)

// AuditRepo implements ports.AuditRepository with pgx.
type AuditRepo struct {
	db *DB
}

func NewAuditRepo(db *DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// Insert appends ev and fills in its generated id.
func (r *AuditRepo) Insert(ctx context.Context, ev *domain.AuditEvent) error {
	data := ev.EventData
	if data == nil {
		data = map[string]any{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO security_audit_log (user_id, event_type, event_data, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id::text
	`, nilIfEmpty(ev.UserID), string(ev.EventType), raw, nilIfEmpty(ev.IPAddress), nilIfEmpty(ev.UserAgent), ev.CreatedAt,
	).Scan(&ev.ID)
}
