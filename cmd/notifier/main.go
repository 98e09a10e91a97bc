package main

import (
	"context"
	"log"
	"log/slog"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/samirrijal/digitalshield/internal/adapters/nats"
	"github.com/samirrijal/digitalshield/internal/adapters/postgres"
	"github.com/samirrijal/digitalshield/internal/adapters/sms"
	"github.com/samirrijal/digitalshield/internal/core/ports"
	"github.com/samirrijal/digitalshield/internal/core/usecases"
	"github.com/samirrijal/digitalshield/internal/pkg/config"
	"github.com/samirrijal/digitalshield/internal/pkg/logging"
	"github.com/samirrijal/digitalshield/internal/workflows"
)

func main() {
	cfg, err := config.Load("digitalshield-notifier")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format, "digitalshield-notifier")

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Desktop notifications and toasts are skipped when NATS is down.
	var push ports.NotificationPublisher
	if pub, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable, desktop notifications disabled", "error", err)
	} else {
		defer pub.Close()
		push = pub
	}

	alerts := usecases.NewAlertService(postgres.NewAlertRepo(db), push)
	notifications := usecases.NewNotificationService(alerts, postgres.NewProfileRepo(db), push, sms.NewLogSender(logger))

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	w.RegisterWorkflow(workflows.AreaEntryWorkflow)
	w.RegisterActivity(&workflows.AreaEntryActivities{Notifications: notifications})

	slog.Info("notifier worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
