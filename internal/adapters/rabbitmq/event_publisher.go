// Package rabbitmq publishes geofence and report events to a RabbitMQ topic
// exchange as an alternative to the JetStream sink.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/samirrijal/digitalshield/internal/core/domain"
)

// Routing keys on the exchange.
const (
	RoutingGeofencePrefix  = "geofence."
	RoutingReportSubmitted = "reports.submitted"
)

// EventPublisher implements ports.EventPublisher on a topic exchange.
type EventPublisher struct {
	conn     *amqp.Connection
	exchange string

	mu sync.Mutex
	ch *amqp.Channel
}

// NewEventPublisher dials url and declares a durable topic exchange.
func NewEventPublisher(url, exchange string) (*EventPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq connect: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &EventPublisher{conn: conn, exchange: exchange, ch: ch}, nil
}

// GeofenceRoutingKey is e.g. geofence.entered.area1.
func GeofenceRoutingKey(ev *domain.GeofenceEvent) string {
	return RoutingGeofencePrefix + string(ev.Type) + "." + ev.Area.ID
}

func (p *EventPublisher) PublishGeofenceEvent(ctx context.Context, ev *domain.GeofenceEvent) error {
	return p.publish(ctx, GeofenceRoutingKey(ev), ev)
}

func (p *EventPublisher) PublishReportSubmitted(ctx context.Context, ev *domain.ReportSubmitted) error {
	return p.publish(ctx, RoutingReportSubmitted, ev)
}

func (p *EventPublisher) publish(ctx context.Context, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// Healthy reports whether the connection is still open.
func (p *EventPublisher) Healthy() bool {
	return !p.conn.IsClosed()
}

// Close closes the channel and connection.
func (p *EventPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.ch.Close()
	_ = p.conn.Close()
}
