package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/digitalshield/internal/core/domain"
)

// AreaEntryInput is the input for the area-entry workflow.
type AreaEntryInput struct {
	UserID string
	Area   domain.MonitoredArea
	At     time.Time
}

// AreaEntryResult reports which channels delivered. DesktopSent is false
// when the notification failed or the user turned notifications off.
type AreaEntryResult struct {
	AlertRecorded bool
	DesktopSent   bool
	SMSSent       int
}

// AreaEntryWorkflow records the area alert and fans out the desktop
// notification and simulated SMS in parallel. Notifications are best effort:
// activities run once and failures are logged, never retried or returned.
func AreaEntryWorkflow(ctx workflow.Context, input AreaEntryInput) (AreaEntryResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting area entry workflow", "user_id", input.UserID, "area", input.Area.ID)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	var a *AreaEntryActivities
	alertF := workflow.ExecuteActivity(ctx, a.RecordAreaAlert, input.UserID, input.Area)
	desktopF := workflow.ExecuteActivity(ctx, a.SendDesktop, input.UserID, input.Area)
	smsF := workflow.ExecuteActivity(ctx, a.SendSMS, input.UserID, input.Area)

	var res AreaEntryResult
	if err := alertF.Get(ctx, nil); err != nil {
		logger.Warn("record area alert failed", "error", err)
	} else {
		res.AlertRecorded = true
	}
	if err := desktopF.Get(ctx, &res.DesktopSent); err != nil {
		logger.Warn("desktop notification failed", "error", err)
	}
	if err := smsF.Get(ctx, &res.SMSSent); err != nil {
		logger.Warn("sms fan-out failed", "error", err)
	}

	logger.Info("Area entry workflow finished", "alert", res.AlertRecorded, "desktop", res.DesktopSent, "sms", res.SMSSent)
	return res, nil
}
