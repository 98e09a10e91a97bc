package postgres

import (
	"context"

	"github.com/samirrijal/digitalshield/internal/core/domain"
)

// AreaRepo implements ports.AreaRepository with pgx.
type AreaRepo struct {
	db *DB
}

func NewAreaRepo(db *DB) *AreaRepo {
	return &AreaRepo{db: db}
}

func (r *AreaRepo) Upsert(ctx context.Context, a *domain.MonitoredArea) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO monitored_areas (id, name, latitude, longitude, radius_meters, severity, category, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude,
		    radius_meters = EXCLUDED.radius_meters, severity = EXCLUDED.severity,
		    category = EXCLUDED.category, description = EXCLUDED.description
	`, a.ID, a.Name, a.Latitude, a.Longitude, a.RadiusMeters, string(a.Severity), a.Category, a.Description)
	return err
}

func (r *AreaRepo) List(ctx context.Context) ([]domain.MonitoredArea, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, latitude, longitude, radius_meters, severity, category, description
		FROM monitored_areas
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	areas := []domain.MonitoredArea{}
	for rows.Next() {
		var a domain.MonitoredArea
		if err := rows.Scan(&a.ID, &a.Name, &a.Latitude, &a.Longitude, &a.RadiusMeters, &a.Severity, &a.Category, &a.Description); err != nil {
			return nil, err
		}
		areas = append(areas, a)
	}
	return areas, rows.Err()
}
