package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samirrijal/digitalshield/internal/core/domain"
)

type checkLinkRequest struct {
	URL string `json:"url"`
}

// CheckLinkHandler classifies a URL. Anonymous callers are allowed; signed-in
// callers get the check added to their history.
func CheckLinkHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req checkLinkRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if len(req.URL) > 2048 {
			return errBadRequest(c, "url too long (max 2048 characters)")
		}
		res, err := deps.Links.Check(c.UserContext(), userID(c), req.URL)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// LinkHistoryHandler returns the caller's recent link checks.
func LinkHistoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		checks, err := deps.Links.History(c.UserContext(), userID(c), c.QueryInt("limit", 20))
		if err != nil {
			return respondError(c, err)
		}
		if checks == nil {
			checks = []domain.LinkCheck{}
		}
		return c.JSON(checks)
	}
}
