package postgres

import (
	"context"
	"encoding/json"

	"github.com/samirrijal/digitalshield/internal/core/domain"
)

// LinkCheckRepo implements ports.LinkCheckRepository with pgx.
type LinkCheckRepo struct {
	db *DB
}

func NewLinkCheckRepo(db *DB) *LinkCheckRepo {
	return &LinkCheckRepo{db: db}
}

func (r *LinkCheckRepo) Insert(ctx context.Context, c *domain.LinkCheck) error {
	threats := c.ThreatsDetected
	if threats == nil {
		threats = []string{}
	}
	details, err := json.Marshal(map[string]any{
		"risk_level": c.RiskLevel,
		"threats":    threats,
	})
	if err != nil {
		return err
	}
	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO link_checks (id, user_id, url, is_safe, risk_level, threats_detected, scan_details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ID, nilIfEmpty(c.UserID), c.URL, c.IsSafe, c.RiskLevel, threats, details, c.CreatedAt)
	return err
}

// ListByUser returns the user's checks, newest first.
func (r *LinkCheckRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.LinkCheck, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id::text, COALESCE(user_id, ''), url, is_safe, risk_level, threats_detected, created_at
		FROM link_checks
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	checks := []domain.LinkCheck{}
	for rows.Next() {
		var c domain.LinkCheck
		if err := rows.Scan(&c.ID, &c.UserID, &c.URL, &c.IsSafe, &c.RiskLevel, &c.ThreatsDetected, &c.CreatedAt); err != nil {
			return nil, err
		}
		checks = append(checks, c)
	}
	return checks, rows.Err()
}
