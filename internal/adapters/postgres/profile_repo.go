package postgres

import (
	"context"

	"github.com/samirrijal/digitalshield/internal/core/domain"
)

// ProfileRepo implements ports.ProfileRepository with pgx.
type ProfileRepo struct {
	db *DB
}

func NewProfileRepo(db *DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

func (r *ProfileRepo) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	var p domain.Profile
	err := r.db.Pool.QueryRow(ctx, `
		SELECT user_id, full_name, COALESCE(email, ''), COALESCE(phone, ''),
		       emergency_contacts, notifications_enabled, created_at, updated_at
		FROM profiles WHERE user_id = $1
	`, userID).Scan(
		&p.UserID, &p.FullName, &p.Email, &p.Phone,
		&p.EmergencyContacts, &p.NotificationsEnabled, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// Upsert inserts or replaces the profile. created_at survives updates.
func (r *ProfileRepo) Upsert(ctx context.Context, p *domain.Profile) error {
	contacts := p.EmergencyContacts
	if contacts == nil {
		contacts = []string{}
	}
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO profiles (user_id, full_name, email, phone, emergency_contacts, notifications_enabled)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET full_name = EXCLUDED.full_name, email = EXCLUDED.email, phone = EXCLUDED.phone,
		    emergency_contacts = EXCLUDED.emergency_contacts,
		    notifications_enabled = EXCLUDED.notifications_enabled,
		    updated_at = now()
		RETURNING created_at, updated_at
	`, p.UserID, p.FullName, nilIfEmpty(p.Email), nilIfEmpty(p.Phone), contacts, p.NotificationsEnabled,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}
