package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"
	"github.com/samirrijal/digitalshield/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// RouteOptions tunes SetupRoutes. The zero value is production behaviour.
type RouteOptions struct {
	// OpenAPIPath overrides DefaultOpenAPIPath.
	OpenAPIPath string
	// RateLimit is requests per minute per IP; 0 means 120.
	RateLimit int
}

// SetupRoutes registers all REST, edge-function, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies, opts ...RouteOptions) {
	var o RouteOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.RateLimit <= 0 {
		o.RateLimit = 120
	}
	t := func(h fiber.Handler) fiber.Handler {
		return timeout.NewWithContext(h, requestTimeout)
	}

	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	app.Use(limiter.New(limiter.Config{
		Max:        o.RateLimit,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout: fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// Edge functions, kept for existing clients
	fn := app.Group("/functions/v1", DeprecationMiddleware(EdgeFunctionRoutes))
	fn.Get("/generate-case-id", t(GenerateCaseIDFunctionHandler(deps)))
	fn.Post("/generate-case-id", t(GenerateCaseIDFunctionHandler(deps)))
	fn.All("/submit-report", t(SubmitReportFunctionHandler(deps)))

	requireAuth := RequireAuth(deps)
	optionalAuth := OptionalAuth(deps)

	v1 := app.Group("/v1")

	// Reports
	v1.Post("/case-ids", t(CreateCaseIDHandler(deps)))
	v1.Post("/reports", requireAuth, t(CreateReportHandler(deps)))
	v1.Get("/reports", requireAuth, t(ListReportsHandler(deps)))
	v1.Get("/reports/:caseId/receipt.pdf", requireAuth, t(ReportReceiptHandler(deps)))
	v1.Get("/reports/:caseId", requireAuth, t(GetReportHandler(deps)))

	admin := v1.Group("/admin", requireAuth, RequireAdmin())
	admin.Get("/reports", t(AdminListReportsHandler(deps)))
	admin.Get("/reports/stats", t(AdminReportStatsHandler(deps)))
	admin.Get("/reports/export.xlsx", t(AdminExportReportsHandler(deps)))
	admin.Patch("/reports/:caseId", t(AdminUpdateReportHandler(deps)))

	// Geofence
	v1.Get("/geofence/areas", t(ListAreasHandler(deps)))
	v1.Get("/geofence/nearby", t(NearbyAreasHandler(deps)))
	v1.Post("/geofence/positions", requireAuth, t(PostPositionHandler(deps)))
	v1.Get("/geofence/active", requireAuth, t(ActiveGeofenceAlertsHandler(deps)))
	v1.Delete("/geofence/session", requireAuth, t(EndGeofenceSessionHandler(deps)))

	// Alerts
	v1.Get("/alerts", requireAuth, t(ListAlertsHandler(deps)))
	v1.Get("/alerts/unread-count", requireAuth, t(UnreadAlertsHandler(deps)))
	v1.Post("/alerts/read-all", requireAuth, t(MarkAllAlertsReadHandler(deps)))
	v1.Post("/alerts/:id/read", requireAuth, t(MarkAlertReadHandler(deps)))
	v1.Delete("/alerts/:id", requireAuth, t(DeleteAlertHandler(deps)))
	v1.Delete("/alerts", requireAuth, t(ClearAlertsHandler(deps)))

	// Link checker
	v1.Post("/links/check", optionalAuth, t(CheckLinkHandler(deps)))
	v1.Get("/links/history", requireAuth, t(LinkHistoryHandler(deps)))

	// Chat assistant
	v1.Post("/chat/messages", optionalAuth, t(ChatMessageHandler(deps)))
	v1.Get("/chat/quick-replies", ChatQuickRepliesHandler())
	v1.Get("/chat/history", requireAuth, t(ChatHistoryHandler(deps)))

	// Profile
	v1.Get("/profile", requireAuth, t(GetProfileHandler(deps)))
	v1.Put("/profile", requireAuth, t(PutProfileHandler(deps)))

	// Resources & dashboard
	v1.Get("/resources", t(ListResourcesHandler(deps)))
	v1.Get("/resources/:id", t(GetResourceHandler(deps)))
	v1.Get("/dashboard/crime-alerts", t(CrimeAlertsHandler(deps)))

	// GraphQL
	app.Post("/graphql", optionalAuth, t(GraphQLHandler(deps)))

	// API documentation (Swagger UI)
	SetupDocs(app, o.OpenAPIPath)

	// WebSocket
	app.Use("/ws", WebSocketUpgrade(deps))
	app.Get("/ws", websocket.New(WebSocketHandler(deps)))
}
