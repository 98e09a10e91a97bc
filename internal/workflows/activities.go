package workflows

import (
	"context"

	"github.com/samirrijal/digitalshield/internal/core/domain"
	"github.com/samirrijal/digitalshield/internal/core/usecases"
)

// AreaEntryActivities holds the activity implementations for the area-entry
// workflow, one activity per channel.
type AreaEntryActivities struct {
	Notifications *usecases.NotificationService
}

// RecordAreaAlert adds the crime alert to the user's alert list.
func (a *AreaEntryActivities) RecordAreaAlert(ctx context.Context, userID string, area domain.MonitoredArea) error {
	return a.Notifications.RecordAreaAlert(ctx, userID, area)
}

// SendDesktop publishes the desktop notification and reports whether one
// went out.
func (a *AreaEntryActivities) SendDesktop(ctx context.Context, userID string, area domain.MonitoredArea) (bool, error) {
	return a.Notifications.SendDesktop(ctx, userID, area)
}

// SendSMS sends the simulated SMS to the user and their emergency contacts
// and returns how many were sent.
func (a *AreaEntryActivities) SendSMS(ctx context.Context, userID string, area domain.MonitoredArea) (int, error) {
	return a.Notifications.SendSMS(ctx, userID, area)
}
