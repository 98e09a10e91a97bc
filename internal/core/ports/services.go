package ports

import (
	"context"

	"github.com/samirrijal/digitalshield/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishGeofenceEvent(ctx context.Context, event *domain.GeofenceEvent) error
	PublishReportSubmitted(ctx context.Context, event *domain.ReportSubmitted) error
}

// NotificationPublisher pushes notifications to a user's live sessions.
type NotificationPublisher interface {
	PublishNotification(ctx context.Context, n *domain.Notification) error
}

// LocationSubscriber delivers device location samples.
type LocationSubscriber interface {
	SubscribeLocationSamples(ctx context.Context, handler func(ctx context.Context, update *domain.LocationUpdate) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// SMSSender delivers text messages.
type SMSSender interface {
	Send(ctx context.Context, msg domain.SMSMessage) error
}

// AreaEntryNotifier dispatches the side effects of a subject entering an area.
type AreaEntryNotifier interface {
	NotifyAreaEntry(ctx context.Context, event domain.GeofenceEvent) error
}

// FixtureSource supplies the static data sets: monitored areas, learning
// resources and the crime feed.
type FixtureSource interface {
	Areas() []domain.MonitoredArea
	Resources() []domain.Resource
	CrimeFeed() domain.CrimeFeed
}

// ReportExporter renders incident reports into downloadable documents.
type ReportExporter interface {
	Receipt(report *domain.IncidentReport) ([]byte, error)
	Spreadsheet(reports []domain.IncidentReport) ([]byte, error)
}
