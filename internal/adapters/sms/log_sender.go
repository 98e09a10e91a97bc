// Package sms holds the SMS sender used for area-entry alerts. Messages are
// simulated: they are written to the log and never transmitted.
package sms

import (
	"context"
	"log/slog"

	"github.com/samirrijal/digitalshield/internal/core/domain"
)

// LogSender implements ports.SMSSender by logging each message.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender logs through logger, or slog.Default when nil.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg domain.SMSMessage) error {
	s.logger.InfoContext(ctx, "sms simulated", "to", msg.To, "body", msg.Body)
	return nil
}
