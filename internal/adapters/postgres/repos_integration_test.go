//go:build integration
// +build integration

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/digitalshield/internal/adapters/postgres"
	"github.com/samirrijal/digitalshield/internal/core/domain"
	"github.com/samirrijal/digitalshield/internal/pkg/config"
)

// setupTestDB connects to the configured database and applies migrations.
func setupTestDB(t *testing.T) *postgres.DB {
	cfg, err := config.Load("digitalshield-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	if _, err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestReportRepo_InsertDefaultsToPending(t *testing.T) {
	db := setupTestDB(t)
	repo := postgres.NewReportRepo(db)
	ctx := context.Background()

	user := "it-" + uuid.NewString()
	caseID := "CASE-2026-292-" + uuid.NewString()[:4]
	rep := &domain.IncidentReport{
		UserID:       user,
		CaseID:       caseID,
		IncidentType: "Phishing/Email Scams",
		Urgency:      domain.UrgencyHigh,
		Description:  "integration test",
	}
	if err := repo.Insert(ctx, rep); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if rep.ID == "" || rep.Status != domain.StatusPending {
		t.Fatalf("expected id and pending status, got %+v", rep)
	}

	got, err := repo.GetByCaseID(ctx, caseID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.UserID != user || got.Urgency != domain.UrgencyHigh || len(got.EvidenceFiles) != 0 {
		t.Errorf("unexpected report %+v", got)
	}

	list, err := repo.List(ctx, user, domain.ReportFilter{Search: "integration", Limit: 10})
	if err != nil || len(list) != 1 {
		t.Fatalf("expected 1 listed report, got %d (%v)", len(list), err)
	}

	updated, err := repo.UpdateStatus(ctx, caseID, domain.StatusInvestigating, "Agent Smith")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != domain.StatusInvestigating || updated.AssignedAgent != "Agent Smith" {
		t.Errorf("unexpected update %+v", updated)
	}

	if _, err := repo.GetByCaseID(ctx, "CASE-0000-000-0000"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAlertRepo_ReadFlow(t *testing.T) {
	db := setupTestDB(t)
	repo := postgres.NewAlertRepo(db)
	ctx := context.Background()
	user := "it-" + uuid.NewString()

	for i := 0; i < 2; i++ {
		a := &domain.Alert{
			ID: uuid.NewString(), UserID: user, Type: domain.AlertCrime, Severity: domain.SeverityHigh,
			Title: "t", Message: "m", CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		}
		if err := repo.Insert(ctx, a); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	list, err := repo.List(ctx, user)
	if err != nil || len(list) != 2 || !list[0].CreatedAt.After(list[1].CreatedAt) {
		t.Fatalf("expected 2 alerts newest first, got %+v (%v)", list, err)
	}
	if err := repo.MarkRead(ctx, user, list[0].ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if n, _ := repo.CountUnread(ctx, user); n != 1 {
		t.Errorf("expected 1 unread, got %d", n)
	}
	if err := repo.MarkRead(ctx, "someone-else", list[1].ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign alert, got %v", err)
	}
	if err := repo.DeleteAll(ctx, user); err != nil {
		t.Fatalf("delete all: %v", err)
	}
	if n, _ := repo.CountUnread(ctx, user); n != 0 {
		t.Errorf("expected no alerts left, got %d", n)
	}
}

func TestProfileRepo_Upsert(t *testing.T) {
	db := setupTestDB(t)
	repo := postgres.NewProfileRepo(db)
	ctx := context.Background()
	user := "it-" + uuid.NewString()

	if _, err := repo.Get(ctx, user); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	p := &domain.Profile{UserID: user, FullName: "Jane", Phone: "5550102030", NotificationsEnabled: true}
	if err := repo.Upsert(ctx, p); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	p.EmergencyContacts = []string{"5550109999"}
	if err := repo.Upsert(ctx, p); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	got, err := repo.Get(ctx, user)
	if err != nil || len(got.EmergencyContacts) != 1 || !got.IsComplete() {
		t.Errorf("unexpected profile %+v (%v)", got, err)
	}
}
