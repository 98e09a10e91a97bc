package http

import (
	"context"

	"github.com/nats-io/nats.go"
	"github.com/samirrijal/digitalshield/internal/core/usecases"
)

// Pinger is a backing service that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BrokerHealth is an event broker that tracks its own connection state.
type BrokerHealth interface {
	Healthy() bool
}

// AuthConfig holds the bearer-token verification settings.
type AuthConfig struct {
	Secret []byte
	Issuer string
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Geofence  *usecases.GeofenceService
	Alerts    *usecases.AlertService
	Reports   *usecases.ReportService
	Links     *usecases.LinkCheckService
	Chat      *usecases.ChatService
	Profiles  *usecases.ProfileService
	Resources *usecases.ResourceService
	Dashboard *usecases.DashboardService
	Audit     *usecases.AuditService

	Auth AuthConfig
	// NearbyRadius is the default radius in meters for nearby-area lookups.
	NearbyRadius float64

	NATS  *nats.Conn
	DB    Pinger
	Cache Pinger
	// Broker is set when events go to RabbitMQ instead of NATS.
	Broker BrokerHealth
}
