package http

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/samirrijal/digitalshield/internal/adapters/nats"
	"github.com/samirrijal/digitalshield/internal/pkg/metrics"
)

const wsUserKey = "ws_user"

// wsMessage is sent from client to subscribe/unsubscribe to feeds.
type wsMessage struct {
	Action  string `json:"action"`  // "subscribe" | "unsubscribe"
	Channel string `json:"channel"` // "notifications" | "geofence"
}

// WebSocketUpgrade authenticates the upgrade request. Browsers cannot set
// headers on a WebSocket handshake, so the token may also come from ?token=.
func WebSocketUpgrade(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		token := c.Query("token")
		if token == "" {
			token = bearerToken(c)
		}
		id, err := authenticateToken(c, deps, token)
		if err != nil {
			return unauthorized(c, err)
		}
		c.Locals(wsUserKey, id.UserID)
		return c.Next()
	}
}

// wsSubject maps a channel name onto the caller's NATS subject.
func wsSubject(channel, user string) (string, bool) {
	switch channel {
	case "", "notifications":
		return natsadapter.NotifySubject(user), true
	case "geofence":
		return natsadapter.GeofenceUserWildcard(user), true
	}
	return "", false
}

// WebSocketHandler relays the caller's notifications and geofence events
// from NATS. Both channels are subscribed on connect; clients may drop and
// re-add them with {"action":"unsubscribe","channel":"geofence"}.
// Closing the socket ends the caller's geofence session.
func WebSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		user, _ := c.Locals(wsUserKey).(string)
		log := slog.Default().With("user_id", user, "remote", c.RemoteAddr().String())

		var mu sync.Mutex
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		if deps.NATS == nil {
			_ = writeJSON(map[string]string{"error": "live updates unavailable"})
			return
		}

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()
		log.Info("ws client connected")

		subs := make(map[string]*nats.Subscription) // channel -> subscription
		subscribe := func(channel string) error {
			subject, _ := wsSubject(channel, user)
			s, err := deps.NATS.Subscribe(subject, func(msg *nats.Msg) {
				_ = writeJSON(map[string]interface{}{
					"channel": channel,
					"subject": msg.Subject,
					"data":    json.RawMessage(msg.Data),
				})
			})
			if err != nil {
				return err
			}
			subs[channel] = s
			return nil
		}

		for _, ch := range []string{"notifications", "geofence"} {
			if err := subscribe(ch); err != nil {
				log.Error("ws subscribe", "channel", ch, "error", err)
				return
			}
		}

		// Keep-alive ping
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}
			channel := m.Channel
			if channel == "" {
				channel = "notifications"
			}
			if _, ok := wsSubject(channel, user); !ok {
				_ = writeJSON(map[string]string{"error": "unknown channel: " + channel})
				continue
			}

			switch m.Action {
			case "subscribe":
				if _, exists := subs[channel]; exists {
					_ = writeJSON(map[string]string{"status": "already subscribed", "channel": channel})
					continue
				}
				if err := subscribe(channel); err != nil {
					_ = writeJSON(map[string]string{"error": "subscribe failed"})
					continue
				}
				_ = writeJSON(map[string]string{"status": "subscribed", "channel": channel})

			case "unsubscribe":
				if s, exists := subs[channel]; exists {
					_ = s.Unsubscribe()
					delete(subs, channel)
					_ = writeJSON(map[string]string{"status": "unsubscribed", "channel": channel})
				} else {
					_ = writeJSON(map[string]string{"error": "not subscribed to " + channel})
				}

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		// Cleanup
		close(done)
		for _, s := range subs {
			_ = s.Unsubscribe()
		}
		if deps.Geofence != nil && user != "" {
			deps.Geofence.Forget(user)
		}
		log.Info("ws client disconnected")
	}
}
