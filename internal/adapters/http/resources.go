package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samirrijal/digitalshield/internal/core/domain"
)

// ListResourcesHandler returns learning resources, featured first.
func ListResourcesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := c.Query("q")
		if len(q) > 200 {
			return errBadRequest(c, "query too long (max 200 characters)")
		}
		resources, err := deps.Resources.List(c.UserContext(), domain.ResourceFilter{
			Category:     c.Query("category"),
			FeaturedOnly: c.QueryBool("featured", false),
			Search:       q,
		})
		if err != nil {
			return respondError(c, err)
		}
		if resources == nil {
			resources = []domain.Resource{}
		}
		return c.JSON(resources)
	}
}

func GetResourceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := deps.Resources.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(r)
	}
}

// CrimeAlertsHandler returns the dashboard crime feed, optionally filtered
// by min_severity.
func CrimeAlertsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		feed, err := deps.Dashboard.CrimeFeed(c.UserContext(), domain.Severity(c.Query("min_severity")))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(feed)
	}
}
