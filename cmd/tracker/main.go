package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.temporal.io/sdk/client"

	mqttadapter "github.com/samirrijal/digitalshield/internal/adapters/mqtt"
	natsadapter "github.com/samirrijal/digitalshield/internal/adapters/nats"
	"github.com/samirrijal/digitalshield/internal/adapters/postgres"
	"github.com/samirrijal/digitalshield/internal/adapters/rabbitmq"
	"github.com/samirrijal/digitalshield/internal/adapters/sms"
	"github.com/samirrijal/digitalshield/internal/core/domain"
	"github.com/samirrijal/digitalshield/internal/core/ports"
	"github.com/samirrijal/digitalshield/internal/core/usecases"
	"github.com/samirrijal/digitalshield/internal/fixtures"
	"github.com/samirrijal/digitalshield/internal/pkg/config"
	"github.com/samirrijal/digitalshield/internal/pkg/logging"
	"github.com/samirrijal/digitalshield/internal/pkg/telemetry"
	"github.com/samirrijal/digitalshield/internal/workflows"
)

// sampleBuffer bounds how far the subscribers may run ahead of the
// containment check.
const sampleBuffer = 256

func main() {
	cfg, err := config.Load("digitalshield-tracker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format, "digitalshield-tracker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }()
		}
	}

	fx, err := fixtures.Load(cfg.Geofence.FixturesPath)
	if err != nil {
		log.Fatalf("fixtures: %v", err)
	}

	// Publisher also ensures the JetStream streams the subscriber reads.
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer pub.Close()

	var events ports.EventPublisher = pub
	if cfg.Events.Broker == "rabbitmq" {
		rp, err := rabbitmq.NewEventPublisher(cfg.Events.RabbitMQURL, cfg.Events.Exchange)
		if err != nil {
			log.Fatalf("rabbitmq: %v", err)
		}
		defer rp.Close()
		events = rp
	}

	var notifier ports.AreaEntryNotifier
	if cfg.Geofence.UseTemporal {
		tc, err := client.Dial(client.Options{HostPort: cfg.Temporal.HostPort, Namespace: cfg.Temporal.Namespace})
		if err != nil {
			log.Fatalf("temporal client: %v", err)
		}
		defer tc.Close()
		notifier = workflows.NewDispatcher(tc, cfg.Temporal.TaskQueue)
	} else {
		db, err := postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		alerts := usecases.NewAlertService(postgres.NewAlertRepo(db), pub)
		notifier = usecases.NewNotificationService(alerts, postgres.NewProfileRepo(db), pub, sms.NewLogSender(slog.Default()))
	}

	geofence := usecases.NewGeofenceService(fx.Areas(), events, notifier)

	updates := make(chan domain.LocationUpdate, sampleBuffer)
	enqueue := func(ctx context.Context, u *domain.LocationUpdate) error {
		select {
		case updates <- *u:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}
	defer sub.Close()
	if err := sub.SubscribeLocationSamples(ctx, enqueue); err != nil {
		log.Fatalf("subscribe nats locations: %v", err)
	}

	if cfg.MQTT.Enabled {
		mc, err := mqttadapter.Connect(cfg.MQTT.Broker, cfg.MQTT.ClientID)
		if err != nil {
			log.Fatalf("mqtt: %v", err)
		}
		ms, err := mqttadapter.NewLocationSubscriber(mc, cfg.MQTT.Topic)
		if err != nil {
			log.Fatalf("mqtt subscriber: %v", err)
		}
		defer ms.Close()
		if err := ms.SubscribeLocationSamples(ctx, enqueue); err != nil {
			log.Fatalf("subscribe mqtt locations: %v", err)
		}
		slog.Info("mqtt location ingestion enabled", "topic", cfg.MQTT.Topic)
	}

	slog.Info("tracker started", "areas", len(fx.Areas()), "temporal", cfg.Geofence.UseTemporal)
	if err := geofence.Run(ctx, updates); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("tracker stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("tracker stopped")
}
