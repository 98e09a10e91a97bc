// Package mqtt ingests device location samples published by mobile clients
// over MQTT.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/samirrijal/digitalshield/internal/core/domain"
)

// LocationSubscriber implements ports.LocationSubscriber over MQTT. The
// topic pattern must contain exactly one "+" level holding the user id,
// e.g. shield/users/+/location.
type LocationSubscriber struct {
	client paho.Client
	topic  string
}

// Connect dials the broker.
func Connect(broker, clientID string) (paho.Client, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(2 * time.Second)

	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return client, nil
}

// NewLocationSubscriber wraps a connected client.
func NewLocationSubscriber(client paho.Client, topic string) (*LocationSubscriber, error) {
	if strings.Count(topic, "+") != 1 {
		return nil, fmt.Errorf("mqtt topic %q must contain exactly one + level", topic)
	}
	return &LocationSubscriber{client: client, topic: topic}, nil
}

func (s *LocationSubscriber) SubscribeLocationSamples(ctx context.Context, handler func(ctx context.Context, update *domain.LocationUpdate) error) error {
	token := s.client.Subscribe(s.topic, 1, func(_ paho.Client, msg paho.Message) {
		update, err := DecodeLocation(s.topic, msg.Topic(), msg.Payload())
		if err != nil {
			slog.Warn("invalid mqtt location message", "topic", msg.Topic(), "error", err)
			return
		}
		if err := handler(ctx, update); err != nil {
			slog.Warn("handle mqtt location", "user_id", update.Subject, "error", err)
		}
	})
	token.Wait()
	return token.Error()
}

// Close unsubscribes and disconnects.
func (s *LocationSubscriber) Close() {
	s.client.Unsubscribe(s.topic).Wait()
	s.client.Disconnect(250)
}

// TopicUser returns the topic level matched by the pattern's "+".
func TopicUser(pattern, topic string) (string, bool) {
	pl := strings.Split(pattern, "/")
	tl := strings.Split(topic, "/")
	if len(pl) != len(tl) {
		return "", false
	}
	user := ""
	for i := range pl {
		switch {
		case pl[i] == "+":
			user = tl[i]
		case pl[i] != tl[i]:
			return "", false
		}
	}
	return user, user != ""
}

// DecodeLocation builds a LocationUpdate from an MQTT message.
func DecodeLocation(pattern, topic string, payload []byte) (*domain.LocationUpdate, error) {
	user, ok := TopicUser(pattern, topic)
	if !ok {
		return nil, fmt.Errorf("topic %q does not match %q", topic, pattern)
	}
	var sample domain.PositionSample
	if err := json.Unmarshal(payload, &sample); err != nil {
		return nil, fmt.Errorf("decode sample: %w", err)
	}
	return &domain.LocationUpdate{Subject: user, Sample: sample}, nil
}
