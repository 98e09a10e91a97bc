package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/digitalshield/internal/core/domain"
)

// Publisher implements ports.EventPublisher and ports.NotificationPublisher
// using NATS.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// Streams are created or updated when a Publisher connects.
var Streams = []nats.StreamConfig{
	{
		Name:      "LOCATION_SAMPLES",
		Subjects:  []string{LocationSubjectPrefix + ">"},
		Retention: nats.WorkQueuePolicy,
		MaxAge:    1 * time.Hour,
		Storage:   nats.FileStorage,
	},
	{
		Name:      "GEOFENCE_EVENTS",
		Subjects:  []string{GeofenceSubjectPrefix + ">"},
		Retention: nats.InterestPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	},
	{
		Name:      "REPORTS",
		Subjects:  []string{"shield.reports.>"},
		Retention: nats.InterestPolicy,
		MaxAge:    7 * 24 * time.Hour,
		Storage:   nats.FileStorage,
	},
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	for _, cfg := range Streams {
		cfg := cfg
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist; try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

func (p *Publisher) PublishGeofenceEvent(ctx context.Context, ev *domain.GeofenceEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(GeofenceSubject(ev.Subject, string(ev.Type)), data, nats.Context(ctx))
	return err
}

func (p *Publisher) PublishReportSubmitted(ctx context.Context, ev *domain.ReportSubmitted) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(ReportSubmittedSubject, data, nats.Context(ctx))
	return err
}

// PublishLocationSample queues a device sample for the tracker.
func (p *Publisher) PublishLocationSample(ctx context.Context, userID string, sample domain.PositionSample) error {
	data, err := json.Marshal(sample)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(LocationSubject(userID), data, nats.Context(ctx))
	return err
}

// PublishNotification is fire-and-forget on a core subject: users without a
// live session simply miss it.
func (p *Publisher) PublishNotification(ctx context.Context, n *domain.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return p.conn.Publish(NotifySubject(n.UserID), data)
}

// Conn exposes the underlying connection for health checks and the relay.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
