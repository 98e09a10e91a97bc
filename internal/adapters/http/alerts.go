package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samirrijal/digitalshield/internal/core/domain"
)

// ListAlertsHandler returns the caller's alerts, newest first.
func ListAlertsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		alerts, err := deps.Alerts.List(c.UserContext(), userID(c))
		if err != nil {
			return respondError(c, err)
		}
		if alerts == nil {
			alerts = []domain.Alert{}
		}
		return c.JSON(alerts)
	}
}

// UnreadAlertsHandler returns the caller's unread alert count.
func UnreadAlertsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		n, err := deps.Alerts.UnreadCount(c.UserContext(), userID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"unread": n})
	}
}

func MarkAlertReadHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Alerts.MarkRead(c.UserContext(), userID(c), c.Params("id")); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func MarkAllAlertsReadHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Alerts.MarkAllRead(c.UserContext(), userID(c)); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func DeleteAlertHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Alerts.Delete(c.UserContext(), userID(c), c.Params("id")); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func ClearAlertsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Alerts.Clear(c.UserContext(), userID(c)); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
