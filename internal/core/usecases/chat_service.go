package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/digitalshield/internal/core/domain"
	"github.com/samirrijal/digitalshield/internal/core/ports"
	"github.com/samirrijal/digitalshield/internal/pkg/metrics"
	"github.com/samirrijal/digitalshield/internal/pkg/validate"
)

// ChatGreeting opens every conversation.
const ChatGreeting = "Hello! I'm your Digital Safety Assistant. I'm here to help you with cybersecurity questions, identify threats, and provide guidance on staying safe online. How can I assist you today?"

// ChatQuickReplies are suggested first questions.
var ChatQuickReplies = []string{
	"How do I spot phishing emails?",
	"Is this link safe to click?",
	"Help with password security",
	"Report a cyber incident",
	"Social media privacy tips",
}

type chatRule struct {
	topic    string
	keywords []string
	response string
}

// Rules are tried in order; the first whose keyword appears wins.
var chatRules = []chatRule{
	{"phishing", []string{"phishing", "email"}, "🎣 **Phishing Protection Tips:**\n\n• Check sender's email address carefully\n• Look for spelling/grammar errors\n• Hover over links to see real URLs\n• Never enter passwords from email links\n• When in doubt, contact the company directly\n\nWould you like me to help you analyze a specific email?"},
	{"passwords", []string{"password"}, "🔒 **Password Security Best Practices:**\n\n• Use unique passwords for each account\n• Make passwords 12+ characters long\n• Include uppercase, lowercase, numbers, symbols\n• Use a password manager\n• Enable two-factor authentication\n\nNeed help setting up 2FA or choosing a password manager?"},
	{"links", []string{"link", "url"}, "🔍 **Link Safety Check:**\n\nI can help you verify suspicious links! You can:\n\n• Use our Link Checker tool for automated scanning\n• Look for these red flags:\n  - Shortened URLs (bit.ly, tinyurl)\n  - Misspelled domains\n  - Urgent language\n  - Requests for personal info\n\nWould you like me to guide you to our Link Checker tool?"},
	{"privacy", []string{"social media", "privacy"}, "🔐 **Social Media Privacy Tips:**\n\n• Review privacy settings regularly\n• Limit personal information sharing\n• Be cautious with friend requests\n• Don't share location in real-time\n• Think before posting personal details\n\nWant specific guidance for Facebook, Instagram, or Twitter?"},
	{"reporting", []string{"report", "incident"}, "🚨 **Reporting Cyber Incidents:**\n\nI can help you report various threats:\n\n• Cyberbullying/harassment\n• Phishing attempts\n• Identity theft\n• Financial fraud\n• Malware attacks\n\nFor immediate reporting, use our Incident Report form. For emergencies, contact local authorities first. Would you like me to guide you to the reporting tool?"},
	{"scams", []string{"scam", "fraud"}, "⚠️ **Common Scam Warning Signs:**\n\n• Urgent language (\"Act now!\")\n• Requests for personal/financial info\n• Too-good-to-be-true offers\n• Pressure to send money quickly\n• Poor spelling/grammar\n\nIf you've encountered a potential scam, consider reporting it through our incident form. Need help with a specific situation?"},
}

const chatDefaultResponse = "I'm here to help with cybersecurity questions! I can assist with:\n\n• Identifying phishing and scams\n• Password and account security\n• Social media privacy\n• Reporting cyber incidents\n• Mobile device safety\n• Online shopping security\n\nWhat specific cybersecurity topic would you like to learn about?"

// MatchChatTopic returns the topic and canned response for message.
func MatchChatTopic(message string) (topic, response string) {
	lower := strings.ToLower(message)
	for _, r := range chatRules {
		for _, k := range r.keywords {
			if strings.Contains(lower, k) {
				return r.topic, r.response
			}
		}
	}
	return "general", chatDefaultResponse
}

// ChatService answers assistant messages with keyword-matched guidance.
type ChatService struct {
	messages ports.ChatRepository
	now      func() time.Time
}

// NewChatService creates a new ChatService. messages may be nil.
func NewChatService(messages ports.ChatRepository) *ChatService {
	return &ChatService{messages: messages, now: time.Now}
}

// Reply answers message within sessionID, creating a session when it is
// empty. Both turns are stored best effort.
func (s *ChatService) Reply(ctx context.Context, sessionID, userID, message string) (*domain.ChatReply, error) {
	message = validate.Sanitize(message, 1000)
	if message == "" {
		return nil, domain.ErrEmptyMessage
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	} else if _, err := uuid.Parse(sessionID); err != nil {
		return nil, fmt.Errorf("%w: session_id must be a uuid", domain.ErrInvalidInput)
	}

	topic, response := MatchChatTopic(message)
	metrics.ChatMessages.WithLabelValues(topic).Inc()
	now := s.now().UTC()

	s.store(ctx, &domain.ChatMessage{ID: uuid.NewString(), SessionID: sessionID, UserID: userID, IsUser: true, Message: message, CreatedAt: now})
	s.store(ctx, &domain.ChatMessage{ID: uuid.NewString(), SessionID: sessionID, UserID: userID, Message: response, CreatedAt: now})

	return &domain.ChatReply{SessionID: sessionID, Topic: topic, Message: response, Timestamp: now}, nil
}

func (s *ChatService) store(ctx context.Context, m *domain.ChatMessage) {
	if s.messages == nil {
		return
	}
	if err := s.messages.Insert(ctx, m); err != nil {
		slog.Warn("store chat message", "session_id", m.SessionID, "error", err)
	}
}

// History returns up to limit of the user's turns in a session, oldest
// first.
func (s *ChatService) History(ctx context.Context, userID, sessionID string, limit int) ([]domain.ChatMessage, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, fmt.Errorf("%w: session_id must be a uuid", domain.ErrInvalidInput)
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if s.messages == nil {
		return nil, nil
	}
	msgs, err := s.messages.ListBySession(ctx, sessionID, limit)
	if err != nil {
		return nil, err
	}
	out := msgs[:0]
	for _, m := range msgs {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}
