package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samirrijal/digitalshield/internal/core/domain"
	"github.com/samirrijal/digitalshield/internal/core/usecases"
)

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// ChatMessageHandler answers one message from the safety assistant.
func ChatMessageHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req chatRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if len(req.Message) > 4000 {
			return errBadRequest(c, "message too long (max 4000 characters)")
		}
		reply, err := deps.Chat.Reply(c.UserContext(), req.SessionID, userID(c), req.Message)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(reply)
	}
}

// ChatQuickRepliesHandler returns the greeting and suggested first questions.
func ChatQuickRepliesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"greeting":      usecases.ChatGreeting,
			"quick_replies": usecases.ChatQuickReplies,
		})
	}
}

// ChatHistoryHandler returns the caller's turns in one session.
func ChatHistoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		msgs, err := deps.Chat.History(c.UserContext(), userID(c), c.Query("session_id"), c.QueryInt("limit", 50))
		if err != nil {
			return respondError(c, err)
		}
		if msgs == nil {
			msgs = []domain.ChatMessage{}
		}
		return c.JSON(msgs)
	}
}
