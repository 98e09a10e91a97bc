package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/digitalshield/internal/core/domain"
	"github.com/samirrijal/digitalshield/internal/core/ports"
	"github.com/samirrijal/digitalshield/internal/pkg/metrics"
	"github.com/samirrijal/digitalshield/internal/pkg/validate"
)

// AlertService manages each user's alert list.
type AlertService struct {
	alerts ports.AlertRepository
	push   ports.NotificationPublisher
	now    func() time.Time
}

// NewAlertService creates a new AlertService. push may be nil, in which case
// no toasts are sent.
func NewAlertService(alerts ports.AlertRepository, push ports.NotificationPublisher) *AlertService {
	return &AlertService{alerts: alerts, push: push, now: time.Now}
}

// Add stores a new unread alert. High and critical alerts also raise a toast
// on the user's live sessions.
func (s *AlertService) Add(ctx context.Context, userID string, draft domain.AlertDraft) (*domain.Alert, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if err := validate.Struct(draft); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	alert := &domain.Alert{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      draft.Type,
		Severity:  draft.Severity,
		Title:     draft.Title,
		Message:   draft.Message,
		Location:  draft.Location,
		CreatedAt: s.now().UTC(),
	}
	if err := s.alerts.Insert(ctx, alert); err != nil {
		return nil, fmt.Errorf("insert alert: %w", err)
	}

	if alert.Severity.Elevated() && s.push != nil {
		variant := "default"
		if alert.Severity == domain.SeverityCritical {
			variant = "destructive"
		}
		err := s.push.PublishNotification(ctx, &domain.Notification{
			UserID:  userID,
			Kind:    domain.NotifyToast,
			Title:   alert.Title,
			Body:    alert.Message,
			Variant: variant,
			At:      alert.CreatedAt,
		})
		if err != nil {
			metrics.NotificationErrors.WithLabelValues("toast").Inc()
			slog.Warn("publish toast", "user_id", userID, "error", err)
		} else {
			metrics.NotificationsSent.WithLabelValues("toast").Inc()
		}
	}

	return alert, nil
}

// List returns the user's alerts, newest first.
func (s *AlertService) List(ctx context.Context, userID string) ([]domain.Alert, error) {
	return s.alerts.List(ctx, userID)
}

// UnreadCount returns how many of the user's alerts are unread.
func (s *AlertService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.alerts.CountUnread(ctx, userID)
}

// MarkRead marks one alert read. Unknown ids return domain.ErrNotFound.
func (s *AlertService) MarkRead(ctx context.Context, userID, id string) error {
	return s.alerts.MarkRead(ctx, userID, id)
}

func (s *AlertService) MarkAllRead(ctx context.Context, userID string) error {
	return s.alerts.MarkAllRead(ctx, userID)
}

// Delete removes one alert. Unknown ids return domain.ErrNotFound.
func (s *AlertService) Delete(ctx context.Context, userID, id string) error {
	return s.alerts.Delete(ctx, userID, id)
}

// Clear removes every alert of the user.
func (s *AlertService) Clear(ctx context.Context, userID string) error {
	return s.alerts.DeleteAll(ctx, userID)
}
