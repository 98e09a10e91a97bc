package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samirrijal/digitalshield/internal/core/domain"
	"github.com/samirrijal/digitalshield/internal/core/usecases"
)

func TestProfileService_GetMissingReturnsEmpty(t *testing.T) {
	svc := usecases.NewProfileService(&mockProfileRepo{})
	p, err := svc.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.UserID != "user-1" || p.IsComplete() || !p.NotificationsEnabled {
		t.Errorf("expected empty incomplete profile with notifications on, got %+v", p)
	}
}

func TestProfileService_Upsert(t *testing.T) {
	var saved *domain.Profile
	svc := usecases.NewProfileService(&mockProfileRepo{upsertFn: func(ctx context.Context, p *domain.Profile) error {
		saved = p
		return nil
	}})

	p, err := svc.Upsert(context.Background(), "user-1", domain.ProfileUpdate{
		FullName:             " <b>Jane</b> Doe ",
		Email:                "jane@example.com",
		Phone:                "(555) 010-2030",
		EmergencyContacts:    []string{"555-010-9999", " "},
		NotificationsEnabled: ptr(false),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved != p || p.FullName != "Jane Doe" || len(p.EmergencyContacts) != 1 || !p.IsComplete() {
		t.Errorf("unexpected profile %+v", p)
	}
	if p.NotificationsEnabled {
		t.Error("expected explicit false to be stored")
	}
}

func ptr[T any](v T) *T { return &v }

func TestProfileService_UpsertOmittedNotificationsSetting(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []struct {
		name    string
		current *domain.Profile
		want    bool
	}{
		{"new profile defaults on", nil, true},
		{"keeps stored off", &domain.Profile{UserID: "user-1", NotificationsEnabled: false, CreatedAt: created}, false},
		{"keeps stored on", &domain.Profile{UserID: "user-1", NotificationsEnabled: true, CreatedAt: created}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := usecases.NewProfileService(profileRepo(tt.current))
			p, err := svc.Upsert(context.Background(), "user-1", domain.ProfileUpdate{FullName: "Jane"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.NotificationsEnabled != tt.want {
				t.Errorf("notifications_enabled = %v, want %v", p.NotificationsEnabled, tt.want)
			}
			if tt.current != nil && !p.CreatedAt.Equal(created) {
				t.Errorf("expected created_at kept, got %v", p.CreatedAt)
			}
		})
	}
}

func TestProfileService_UpsertLookupError(t *testing.T) {
	svc := usecases.NewProfileService(&mockProfileRepo{getFn: func(ctx context.Context, userID string) (*domain.Profile, error) {
		return nil, errors.New("db down")
	}})
	if _, err := svc.Upsert(context.Background(), "user-1", domain.ProfileUpdate{FullName: "Jane"}); err == nil {
		t.Fatal("expected lookup error")
	}
}

func TestProfileService_UpsertInvalid(t *testing.T) {
	cases := map[string]domain.ProfileUpdate{
		"no name":     {Phone: "5550102030"},
		"bad email":   {FullName: "Jane", Email: "jane@"},
		"bad phone":   {FullName: "Jane", Phone: "12345"},
		"bad contact": {FullName: "Jane", EmergencyContacts: []string{"911"}},
		"too many":    {FullName: "Jane", EmergencyContacts: []string{"5550100001", "5550100002", "5550100003", "5550100004", "5550100005", "5550100006"}},
	}
	svc := usecases.NewProfileService(&mockProfileRepo{})
	for name, u := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Upsert(context.Background(), "user-1", u); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}
