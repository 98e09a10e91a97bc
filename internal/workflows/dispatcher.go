package workflows

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/client"

	"github.com/samirrijal/digitalshield/internal/core/domain"
)

// Dispatcher implements ports.AreaEntryNotifier by starting an
// AreaEntryWorkflow. It does not wait for the workflow to finish.
type Dispatcher struct {
	client    client.Client
	taskQueue string
}

// NewDispatcher creates a Dispatcher starting workflows on taskQueue.
func NewDispatcher(c client.Client, taskQueue string) *Dispatcher {
	return &Dispatcher{client: c, taskQueue: taskQueue}
}

// WorkflowID identifies one entry of a user into an area.
func WorkflowID(ev domain.GeofenceEvent) string {
	return fmt.Sprintf("area-entry-%s-%s-%d", ev.Subject, ev.Area.ID, ev.At.UnixMilli())
}

func (d *Dispatcher) NotifyAreaEntry(ctx context.Context, ev domain.GeofenceEvent) error {
	opts := client.StartWorkflowOptions{
		ID:        WorkflowID(ev),
		TaskQueue: d.taskQueue,
	}
	_, err := d.client.ExecuteWorkflow(ctx, opts, AreaEntryWorkflow, AreaEntryInput{
		UserID: ev.Subject,
		Area:   ev.Area,
		At:     ev.At,
	})
	if err != nil {
		return fmt.Errorf("start area entry workflow: %w", err)
	}
	return nil
}
