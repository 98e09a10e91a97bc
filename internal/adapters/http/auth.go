package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/samirrijal/digitalshield/internal/core/domain"
	"github.com/samirrijal/digitalshield/internal/pkg/auth"
)

const identityKey = "identity"

// bearerToken returns the token from an "Authorization: Bearer" header.
func bearerToken(c *fiber.Ctx) string {
	h := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// authenticate verifies the bearer token and stores the identity on the
// request. Rejected tokens are written to the security audit log; a missing
// token is not.
func authenticate(c *fiber.Ctx, deps *Dependencies) (auth.Identity, error) {
	return authenticateToken(c, deps, bearerToken(c))
}

func authenticateToken(c *fiber.Ctx, deps *Dependencies, token string) (auth.Identity, error) {
	if token == "" {
		return auth.Identity{}, auth.ErrMissingToken
	}
	id, err := auth.ParseToken(token, deps.Auth.Secret, deps.Auth.Issuer)
	if err != nil {
		deps.Audit.Record(c.UserContext(), domain.AuditEvent{
			EventType: domain.AuditLoginFailed,
			EventData: map[string]any{
				"path":       c.Path(),
				"reason":     err.Error(),
				"request_id": RequestIDFromCtx(c.UserContext()),
			},
			IPAddress: c.IP(),
			UserAgent: c.Get(fiber.HeaderUserAgent),
		})
		return auth.Identity{}, err
	}
	c.Locals(identityKey, id)
	ctx := auth.WithIdentity(c.UserContext(), id)
	ctx = withLogger(ctx, LoggerFromCtx(ctx).With("user_id", id.UserID))
	c.SetUserContext(ctx)
	return id, nil
}

func unauthorized(c *fiber.Ctx, err error) error {
	if errors.Is(err, auth.ErrMissingToken) {
		return errUnauthorized(c, "missing bearer token")
	}
	return errUnauthorized(c, "invalid or expired token")
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := authenticate(c, deps); err != nil {
			return unauthorized(c, err)
		}
		return c.Next()
	}
}

// OptionalAuth identifies the caller when a token is present. Anonymous
// requests pass through; a token that fails verification does not.
func OptionalAuth(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := authenticate(c, deps); err != nil && !errors.Is(err, auth.ErrMissingToken) {
			return unauthorized(c, err)
		}
		return c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := identityFrom(c)
		if !ok {
			return errUnauthorized(c, "missing bearer token")
		}
		if !id.IsAdmin() {
			return errForbidden(c, "admin role required")
		}
		return c.Next()
	}
}

func identityFrom(c *fiber.Ctx) (auth.Identity, bool) {
	id, ok := c.Locals(identityKey).(auth.Identity)
	return id, ok
}

// userID returns the caller's id, or "" for anonymous requests.
func userID(c *fiber.Ctx) string {
	id, _ := identityFrom(c)
	return id.UserID
}

func requester(c *fiber.Ctx) domain.Requester {
	id, _ := identityFrom(c)
	return domain.Requester{UserID: id.UserID, Admin: id.IsAdmin()}
}
