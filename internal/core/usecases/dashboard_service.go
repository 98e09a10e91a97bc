package usecases

import (
	"context"
	"fmt"
	"sort"

	"github.com/samirrijal/digitalshield/internal/core/domain"
	"github.com/samirrijal/digitalshield/internal/core/ports"
)

// DashboardService serves the crime feed and keeps the stored copy of the
// monitored areas in step with the fixture set.
type DashboardService struct {
	fixtures ports.FixtureSource
	areas    ports.AreaRepository
}

// NewDashboardService creates a new DashboardService. areas may be nil.
func NewDashboardService(fixtures ports.FixtureSource, areas ports.AreaRepository) *DashboardService {
	return &DashboardService{fixtures: fixtures, areas: areas}
}

// CrimeFeed returns the crime alerts newest first, optionally filtered by
// minimum severity, along with the area stats.
func (s *DashboardService) CrimeFeed(_ context.Context, minSeverity domain.Severity) (domain.CrimeFeed, error) {
	if minSeverity != "" && !minSeverity.Valid() {
		return domain.CrimeFeed{}, fmt.Errorf("%w: unknown severity %q", domain.ErrInvalidInput, minSeverity)
	}
	feed := s.fixtures.CrimeFeed()
	if minSeverity != "" {
		kept := feed.Alerts[:0]
		for _, a := range feed.Alerts {
			if severityRank(a.Severity) >= severityRank(minSeverity) {
				kept = append(kept, a)
			}
		}
		feed.Alerts = kept
	}
	sort.SliceStable(feed.Alerts, func(i, j int) bool {
		return feed.Alerts[i].Timestamp.After(feed.Alerts[j].Timestamp)
	})
	if feed.Alerts == nil {
		feed.Alerts = []domain.CrimeAlert{}
	}
	return feed, nil
}

func severityRank(s domain.Severity) int {
	switch s {
	case domain.SeverityLow:
		return 1
	case domain.SeverityMedium:
		return 2
	case domain.SeverityHigh:
		return 3
	case domain.SeverityCritical:
		return 4
	}
	return 0
}

// SeedAreas upserts the monitored areas from the fixture set.
func (s *DashboardService) SeedAreas(ctx context.Context) (int, error) {
	if s.areas == nil {
		return 0, nil
	}
	areas := s.fixtures.Areas()
	for i := range areas {
		if err := s.areas.Upsert(ctx, &areas[i]); err != nil {
			return i, fmt.Errorf("upsert area %s: %w", areas[i].ID, err)
		}
	}
	return len(areas), nil
}
