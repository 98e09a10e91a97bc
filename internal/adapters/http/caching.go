package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on
// endpoint, unless the handler already set one. Per-user data is never
// stored by shared caches.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet {
			return err
		}
		if existing := c.GetRespHeader(fiber.HeaderCacheControl); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10"

		case path == "/metrics":
			ttl = "no-cache"

		case strings.HasPrefix(path, "/v1/geofence/areas"),
			strings.HasPrefix(path, "/v1/geofence/nearby"):
			ttl = "public, max-age=300"

		case strings.HasPrefix(path, "/v1/resources"),
			path == "/v1/chat/quick-replies":
			ttl = "public, max-age=600"

		case path == "/v1/dashboard/crime-alerts":
			ttl = "public, max-age=60"

		case strings.HasPrefix(path, "/v1/"), path == "/ws":
			ttl = "private, no-store"
		}

		if ttl != "" {
			c.Set(fiber.HeaderCacheControl, ttl)
		}

		return err
	}
}
