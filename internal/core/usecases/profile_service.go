package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samirrijal/digitalshield/internal/core/domain"
	"github.com/samirrijal/digitalshield/internal/core/ports"
	"github.com/samirrijal/digitalshield/internal/pkg/validate"
)

// ProfileService manages user profiles and emergency contacts.
type ProfileService struct {
	profiles ports.ProfileRepository
	now      func() time.Time
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profiles ports.ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles, now: time.Now}
}

// Get returns the user's profile, or an empty profile for users who have not
// saved one yet.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	p, err := s.profiles.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.Profile{UserID: userID, EmergencyContacts: []string{}, NotificationsEnabled: true}, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Upsert validates u and stores it as the user's profile. An omitted
// notifications_enabled keeps the stored value, or true for a new profile.
func (s *ProfileService) Upsert(ctx context.Context, userID string, u domain.ProfileUpdate) (*domain.Profile, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	u.FullName = validate.Sanitize(u.FullName, 1000)
	u.Email = strings.TrimSpace(u.Email)
	u.Phone = strings.TrimSpace(u.Phone)

	contacts := make([]string, 0, len(u.EmergencyContacts))
	for _, c := range u.EmergencyContacts {
		if c = strings.TrimSpace(c); c != "" {
			contacts = append(contacts, c)
		}
	}
	u.EmergencyContacts = contacts

	if len(u.EmergencyContacts) > domain.MaxEmergencyContacts {
		return nil, fmt.Errorf("%w: at most %d emergency contacts", domain.ErrInvalidInput, domain.MaxEmergencyContacts)
	}
	if err := validate.Struct(u); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	now := s.now().UTC()
	p := &domain.Profile{
		UserID:               userID,
		FullName:             u.FullName,
		Email:                u.Email,
		Phone:                u.Phone,
		EmergencyContacts:    u.EmergencyContacts,
		NotificationsEnabled: true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	current, err := s.profiles.Get(ctx, userID)
	switch {
	case err == nil:
		p.NotificationsEnabled = current.NotificationsEnabled
		p.CreatedAt = current.CreatedAt
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if u.NotificationsEnabled != nil {
		p.NotificationsEnabled = *u.NotificationsEnabled
	}
	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return p, nil
}
