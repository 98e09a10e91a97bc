package usecases

import (
	"context"
	"log/slog"
	"time"

	"github.com/samirrijal/digitalshield/internal/core/domain"
	"github.com/samirrijal/digitalshield/internal/core/ports"
)

// AuditService appends to the security audit log. Recording never fails the
// caller: write errors are logged and dropped.
type AuditService struct {
	events ports.AuditRepository
	now    func() time.Time
}

// NewAuditService creates a new AuditService.
func NewAuditService(events ports.AuditRepository) *AuditService {
	return &AuditService{events: events, now: time.Now}
}

// Record stores ev. A nil service is a no-op.
func (s *AuditService) Record(ctx context.Context, ev domain.AuditEvent) {
	if s == nil || s.events == nil {
		return
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = s.now().UTC()
	}
	if err := s.events.Insert(ctx, &ev); err != nil {
		slog.Error("write security audit event", "event_type", ev.EventType, "user_id", ev.UserID, "error", err)
	}
}
