package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samirrijal/digitalshield/internal/core/domain"
)

// GetProfileHandler returns the caller's profile. Users who never saved one
// get an empty profile.
func GetProfileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := deps.Profiles.Get(c.UserContext(), userID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"profile": p, "complete": p.IsComplete()})
	}
}

func PutProfileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var u domain.ProfileUpdate
		if err := c.BodyParser(&u); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		p, err := deps.Profiles.Upsert(c.UserContext(), userID(c), u)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"profile": p, "complete": p.IsComplete()})
	}
}
