package postgres

import (
	"context"

	"github.com/samirrijal/digitalshield/internal/core/domain"
)

// AlertRepo implements ports.AlertRepository with pgx.
type AlertRepo struct {
	db *DB
}

// NewAlertRepo creates a new AlertRepo.
func NewAlertRepo(db *DB) *AlertRepo {
	return &AlertRepo{db: db}
}

func (r *AlertRepo) Insert(ctx context.Context, a *domain.Alert) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO alerts (id, user_id, type, severity, title, message, location, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, a.ID, a.UserID, string(a.Type), string(a.Severity), a.Title, a.Message,
		nilIfEmpty(a.Location), a.Read, a.CreatedAt)
	return err
}

// List returns the user's alerts, newest first.
func (r *AlertRepo) List(ctx context.Context, userID string) ([]domain.Alert, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id::text, user_id, type, severity, title, message,
		       COALESCE(location, ''), is_read, created_at
		FROM alerts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	alerts := []domain.Alert{}
	for rows.Next() {
		var a domain.Alert
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Type, &a.Severity, &a.Title, &a.Message,
			&a.Location, &a.Read, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (r *AlertRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT count(*) FROM alerts WHERE user_id = $1 AND NOT is_read`, userID,
	).Scan(&n)
	return n, err
}

// MarkRead flags one alert. Alerts owned by someone else are not found.
func (r *AlertRepo) MarkRead(ctx context.Context, userID, id string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE alerts SET is_read = true WHERE id::text = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AlertRepo) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE alerts SET is_read = true WHERE user_id = $1 AND NOT is_read`, userID)
	return err
}

func (r *AlertRepo) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM alerts WHERE id::text = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AlertRepo) DeleteAll(ctx context.Context, userID string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM alerts WHERE user_id = $1`, userID)
	return err
}
