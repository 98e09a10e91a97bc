package usecases_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/samirrijal/digitalshield/internal/core/domain"
	"github.com/samirrijal/digitalshield/internal/core/usecases"
)

func TestMatchChatTopic(t *testing.T) {
	cases := map[string]string{
		"How do I spot PHISHING?":     "phishing",
		"I got a weird email":         "phishing",
		"Help with password security": "passwords",
		"Is this link safe to click?": "links",
		"check this URL":              "links",
		"Social media privacy tips":   "privacy",
		"Report a cyber incident":     "reporting",
		"Is this a scam?":             "scams",
		"credit card fraud":           "scams",
		"hello":                       "general",
		"my email password":           "phishing",
	}
	for msg, want := range cases {
		if got, _ := usecases.MatchChatTopic(msg); got != want {
			t.Errorf("%q: expected %s, got %s", msg, want, got)
		}
	}
	_, resp := usecases.MatchChatTopic("password")
	if !strings.Contains(resp, "Password Security Best Practices") {
		t.Errorf("unexpected password response %q", resp)
	}
}

func TestChatService_Reply(t *testing.T) {
	repo := &mockChatRepo{}
	svc := usecases.NewChatService(repo)

	reply, err := svc.Reply(context.Background(), "", "user-1", "what about scams?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uuid.Parse(reply.SessionID); err != nil {
		t.Errorf("expected generated session uuid, got %q", reply.SessionID)
	}
	if reply.Topic != "scams" {
		t.Errorf("expected scams, got %s", reply.Topic)
	}
	if len(repo.inserted) != 2 || !repo.inserted[0].IsUser || repo.inserted[1].IsUser {
		t.Fatalf("expected user turn then assistant turn, got %+v", repo.inserted)
	}

	history, err := svc.History(context.Background(), "user-1", reply.SessionID, 0)
	if err != nil || len(history) != 2 {
		t.Errorf("expected 2 turns, got %d %v", len(history), err)
	}
	others, _ := svc.History(context.Background(), "user-2", reply.SessionID, 0)
	if len(others) != 0 {
		t.Errorf("expected other users to see nothing, got %d", len(others))
	}
}

func TestChatService_ReplyErrors(t *testing.T) {
	svc := usecases.NewChatService(nil)
	ctx := context.Background()

	if _, err := svc.Reply(ctx, "", "", "   "); !errors.Is(err, domain.ErrEmptyMessage) {
		t.Errorf("expected ErrEmptyMessage, got %v", err)
	}
	if _, err := svc.Reply(ctx, "", "", "<p></p>"); !errors.Is(err, domain.ErrEmptyMessage) {
		t.Errorf("expected ErrEmptyMessage for markup only, got %v", err)
	}
	if _, err := svc.Reply(ctx, "not-a-uuid", "", "hi"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestChatService_StoreFailureIgnored(t *testing.T) {
	svc := usecases.NewChatService(&mockChatRepo{err: errors.New("db down")})
	if _, err := svc.Reply(context.Background(), "", "", "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
