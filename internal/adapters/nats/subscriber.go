package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/digitalshield/internal/core/domain"
)

// Subscriber implements ports.LocationSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeLocationSamples delivers samples from shield.location.<user>.
// Malformed messages are terminated rather than redelivered.
func (s *Subscriber) SubscribeLocationSamples(ctx context.Context, handler func(ctx context.Context, update *domain.LocationUpdate) error) error {
	sub, err := s.js.Subscribe(LocationSubjectPrefix+">", func(msg *nats.Msg) {
		update, err := DecodeLocation(msg.Subject, msg.Data)
		if err != nil {
			slog.Warn("drop location sample", "subject", msg.Subject, "error", err)
			_ = msg.Term()
			return
		}
		if err := handler(ctx, update); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("geofence-tracker"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// DecodeLocation builds a LocationUpdate from a location subject and its
// JSON payload.
func DecodeLocation(subject string, data []byte) (*domain.LocationUpdate, error) {
	user, ok := SubjectUser(subject, LocationSubjectPrefix)
	if !ok {
		return nil, fmt.Errorf("unexpected subject %q", subject)
	}
	var sample domain.PositionSample
	if err := json.Unmarshal(data, &sample); err != nil {
		return nil, fmt.Errorf("decode sample: %w", err)
	}
	return &domain.LocationUpdate{Subject: user, Sample: sample}, nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
