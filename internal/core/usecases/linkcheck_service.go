package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/digitalshield/internal/core/domain"
	"github.com/samirrijal/digitalshield/internal/core/ports"
	"github.com/samirrijal/digitalshield/internal/pkg/metrics"
	"github.com/samirrijal/digitalshield/internal/pkg/telemetry"
	"github.com/samirrijal/digitalshield/internal/pkg/validate"
)

// LinkCheckSource is reported as the origin of every verdict.
const LinkCheckSource = "Multiple Security Providers"

// SuspiciousPatterns are matched as substrings of the lower-cased URL.
var SuspiciousPatterns = []string{
	"bit.ly",
	"tinyurl.com",
	"shorturl.at",
	"click.me",
	"secure-bank-update",
	"paypal-verify",
	"account-suspended",
	"urgent-action",
	"claim-prize",
	"free-money",
}

const linkCheckCacheTTL = 600

// ClassifyURL applies the substring blocklist to an already normalised URL.
func ClassifyURL(url string, at time.Time) domain.LinkCheckResult {
	lower := strings.ToLower(url)
	suspicious := false
	for _, p := range SuspiciousPatterns {
		if strings.Contains(lower, p) {
			suspicious = true
			break
		}
	}

	res := domain.LinkCheckResult{
		URL:       url,
		Status:    domain.LinkSafe,
		Threats:   []string{},
		Source:    LinkCheckSource,
		Timestamp: at,
		Details:   domain.LinkDetails{Reputation: 85, Category: "Safe", LastSeen: at},
	}
	if suspicious {
		res.Status = domain.LinkDangerous
		res.Threats = []string{"Phishing", "Suspicious Domain"}
		res.Details.Reputation = 15
		res.Details.Category = "Phishing"
	}
	return res
}

// LinkCheckService checks URLs against the blocklist and keeps a history.
type LinkCheckService struct {
	checks ports.LinkCheckRepository
	cache  ports.CacheService
	audit  *AuditService
	now    func() time.Time
}

// NewLinkCheckService creates a new LinkCheckService. Any collaborator may be
// nil.
func NewLinkCheckService(checks ports.LinkCheckRepository, cache ports.CacheService, audit *AuditService) *LinkCheckService {
	return &LinkCheckService{checks: checks, cache: cache, audit: audit, now: time.Now}
}

// Check normalises raw and classifies it. userID may be empty for anonymous
// callers.
func (s *LinkCheckService) Check(ctx context.Context, userID, raw string) (*domain.LinkCheckResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanLinkCheck)
	defer span.End()

	url, err := validate.NormalizeURL(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}

	res, cached := s.cached(ctx, url)
	if !cached {
		r := ClassifyURL(url, s.now().UTC())
		res = &r
		if s.cache != nil {
			if data, err := json.Marshal(res); err == nil {
				_ = s.cache.Set(ctx, "links:check:"+url, data, linkCheckCacheTTL)
			}
		}
	}
	metrics.LinkChecks.WithLabelValues(string(res.Status)).Inc()

	s.record(ctx, userID, res)
	if res.Status == domain.LinkDangerous {
		s.audit.Record(ctx, domain.AuditEvent{
			UserID:    userID,
			EventType: domain.AuditSuspiciousActivity,
			EventData: map[string]any{"action": "dangerous_link_checked", "url": url},
		})
	}
	return res, nil
}

func (s *LinkCheckService) cached(ctx context.Context, url string) (*domain.LinkCheckResult, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, "links:check:"+url)
	if err != nil {
		metrics.CacheMisses.WithLabelValues("link_check").Inc()
		return nil, false
	}
	var res domain.LinkCheckResult
	if err := json.Unmarshal(data, &res); err != nil {
		metrics.CacheMisses.WithLabelValues("link_check").Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("link_check").Inc()
	return &res, true
}

func (s *LinkCheckService) record(ctx context.Context, userID string, res *domain.LinkCheckResult) {
	if s.checks == nil {
		return
	}
	risk := "low"
	if res.Status == domain.LinkDangerous {
		risk = "high"
	}
	err := s.checks.Insert(ctx, &domain.LinkCheck{
		ID:              uuid.NewString(),
		UserID:          userID,
		URL:             res.URL,
		IsSafe:          res.Status == domain.LinkSafe,
		RiskLevel:       risk,
		ThreatsDetected: res.Threats,
		CreatedAt:       s.now().UTC(),
	})
	if err != nil {
		slog.Warn("store link check", "url", res.URL, "error", err)
	}
}

// History returns the user's most recent checks.
func (s *LinkCheckService) History(ctx context.Context, userID string, limit int) ([]domain.LinkCheck, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if s.checks == nil {
		return nil, nil
	}
	return s.checks.ListByUser(ctx, userID, limit)
}
