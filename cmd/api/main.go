package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.temporal.io/sdk/client"

	"github.com/samirrijal/digitalshield/internal/adapters/export"
	"github.com/samirrijal/digitalshield/internal/adapters/http"
	natsadapter "github.com/samirrijal/digitalshield/internal/adapters/nats"
	"github.com/samirrijal/digitalshield/internal/adapters/postgres"
	"github.com/samirrijal/digitalshield/internal/adapters/rabbitmq"
	"github.com/samirrijal/digitalshield/internal/adapters/sms"
	"github.com/samirrijal/digitalshield/internal/adapters/valkey"
	"github.com/samirrijal/digitalshield/internal/core/ports"
	"github.com/samirrijal/digitalshield/internal/core/usecases"
	"github.com/samirrijal/digitalshield/internal/fixtures"
	"github.com/samirrijal/digitalshield/internal/pkg/config"
	"github.com/samirrijal/digitalshield/internal/pkg/logging"
	"github.com/samirrijal/digitalshield/internal/pkg/metrics"
	"github.com/samirrijal/digitalshield/internal/pkg/telemetry"
	"github.com/samirrijal/digitalshield/internal/workflows"
)

func main() {
	cfg, err := config.Load("digitalshield-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format, "digitalshield-api")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }()
		}
	}

	// Fixtures
	fx, err := fixtures.Load(cfg.Geofence.FixturesPath)
	if err != nil {
		log.Fatalf("fixtures: %v", err)
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	go reportPoolStats(ctx, db)

	// Cache
	var cache ports.CacheService
	var cachePinger http.Pinger
	if vc, err := valkey.New(cfg.Valkey.Addr); err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer vc.Close()
		cache, cachePinger = vc, vc
	}

	// NATS carries live notifications and, by default, domain events.
	var push ports.NotificationPublisher
	var events ports.EventPublisher
	deps := &http.Dependencies{}
	if nc, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer nc.Close()
		push, events = nc, nc
		deps.NATS = nc.Conn()
	}

	if cfg.Events.Broker == "rabbitmq" {
		rp, err := rabbitmq.NewEventPublisher(cfg.Events.RabbitMQURL, cfg.Events.Exchange)
		if err != nil {
			slog.Warn("rabbitmq unavailable", "error", err)
			events = nil
		} else {
			defer rp.Close()
			events = rp
			deps.Broker = rp
		}
	}

	// Repos
	alertRepo := postgres.NewAlertRepo(db)
	profileRepo := postgres.NewProfileRepo(db)
	auditSvc := usecases.NewAuditService(postgres.NewAuditRepo(db))

	// Use cases
	alertSvc := usecases.NewAlertService(alertRepo, push)

	var notifier ports.AreaEntryNotifier
	if cfg.Geofence.UseTemporal {
		tc, err := client.Dial(client.Options{HostPort: cfg.Temporal.HostPort, Namespace: cfg.Temporal.Namespace})
		if err != nil {
			log.Fatalf("temporal client: %v", err)
		}
		defer tc.Close()
		notifier = workflows.NewDispatcher(tc, cfg.Temporal.TaskQueue)
	} else {
		notifier = usecases.NewNotificationService(alertSvc, profileRepo, push, sms.NewLogSender(slog.Default()))
	}

	deps.Geofence = usecases.NewGeofenceService(fx.Areas(), events, notifier)
	deps.Alerts = alertSvc
	deps.Reports = usecases.NewReportService(postgres.NewReportRepo(db), events, export.New(), auditSvc, nil)
	deps.Links = usecases.NewLinkCheckService(postgres.NewLinkCheckRepo(db), cache, auditSvc)
	deps.Chat = usecases.NewChatService(postgres.NewChatRepo(db))
	deps.Profiles = usecases.NewProfileService(profileRepo)
	deps.Resources = usecases.NewResourceService(postgres.NewResourceRepo(db), cache)
	deps.Dashboard = usecases.NewDashboardService(fx, postgres.NewAreaRepo(db))
	deps.Audit = auditSvc
	deps.Auth = http.AuthConfig{Secret: []byte(cfg.Auth.JWTSecret), Issuer: cfg.Auth.Issuer}
	deps.NearbyRadius = cfg.Geofence.NearbyRadius
	deps.DB = db
	deps.Cache = cachePinger

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Digital Shield API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Authorization, X-Client-Info, Apikey, Content-Type",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

func reportPoolStats(ctx context.Context, db *postgres.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateDBPoolMetrics(db.Pool.Stat())
		}
	}
}
