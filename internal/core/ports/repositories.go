package ports

import (
	"context"

	"github.com/samirrijal/digitalshield/internal/core/domain"
)

// AlertRepository persists per-user alerts. List returns newest first.
type AlertRepository interface {
	Insert(ctx context.Context, alert *domain.Alert) error
	List(ctx context.Context, userID string) ([]domain.Alert, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID, id string) error
	DeleteAll(ctx context.Context, userID string) error
}

// ReportRepository persists incident reports.
type ReportRepository interface {
	Insert(ctx context.Context, report *domain.IncidentReport) error
	GetByCaseID(ctx context.Context, caseID string) (*domain.IncidentReport, error)
	// List returns reports newest first. An empty userID lists every user.
	List(ctx context.Context, userID string, filter domain.ReportFilter) ([]domain.IncidentReport, error)
	UpdateStatus(ctx context.Context, caseID string, status domain.ReportStatus, assignedAgent string) (*domain.IncidentReport, error)
	Stats(ctx context.Context) (*domain.ReportStats, error)
}

// ProfileRepository persists user profiles.
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Upsert(ctx context.Context, profile *domain.Profile) error
}

// LinkCheckRepository persists link-check history.
type LinkCheckRepository interface {
	Insert(ctx context.Context, check *domain.LinkCheck) error
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.LinkCheck, error)
}

// ChatRepository persists chat turns.
type ChatRepository interface {
	Insert(ctx context.Context, msg *domain.ChatMessage) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]domain.ChatMessage, error)
}

// ResourceRepository persists learning resources.
type ResourceRepository interface {
	Upsert(ctx context.Context, r *domain.Resource) error
	GetByID(ctx context.Context, id string) (*domain.Resource, error)
	List(ctx context.Context, filter domain.ResourceFilter) ([]domain.Resource, error)
}

// AreaRepository persists monitored areas for reporting and admin views.
type AreaRepository interface {
	Upsert(ctx context.Context, area *domain.MonitoredArea) error
	List(ctx context.Context) ([]domain.MonitoredArea, error)
}

// AuditRepository appends to the security audit log.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}
