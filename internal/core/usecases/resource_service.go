package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samirrijal/digitalshield/internal/core/domain"
	"github.com/samirrijal/digitalshield/internal/core/ports"
	"github.com/samirrijal/digitalshield/internal/pkg/metrics"
)

// ResourceCategories are the learning-resource categories.
var ResourceCategories = []string{"phishing", "passwords", "mobile", "financial", "privacy", "social"}

// ResourceService serves learning resources.
type ResourceService struct {
	resources ports.ResourceRepository
	cache     ports.CacheService
}

// NewResourceService creates a new ResourceService.
func NewResourceService(resources ports.ResourceRepository, cache ports.CacheService) *ResourceService {
	return &ResourceService{resources: resources, cache: cache}
}

// List returns resources matching filter. An empty or "all" category lists
// every category.
func (s *ResourceService) List(ctx context.Context, filter domain.ResourceFilter) ([]domain.Resource, error) {
	filter.Category = strings.ToLower(strings.TrimSpace(filter.Category))
	if filter.Category == "all" {
		filter.Category = ""
	}
	filter.Search = strings.TrimSpace(filter.Search)

	// Try cache
	cacheKey := fmt.Sprintf("resources:list:%s:%t:%s", filter.Category, filter.FeaturedOnly, filter.Search)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var rs []domain.Resource
			if err := json.Unmarshal(data, &rs); err == nil {
				metrics.CacheHits.WithLabelValues("resources").Inc()
				return rs, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("resources").Inc()
	}

	rs, err := s.resources.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	// Cache for 10 minutes
	if s.cache != nil {
		if data, err := json.Marshal(rs); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}
	return rs, nil
}

// Get returns one resource.
func (s *ResourceService) Get(ctx context.Context, id string) (*domain.Resource, error) {
	cacheKey := "resources:id:" + id
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var r domain.Resource
			if err := json.Unmarshal(data, &r); err == nil {
				return &r, nil
			}
		}
	}

	r, err := s.resources.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(r); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}
	return r, nil
}

// Seed upserts every resource from the fixture source.
func (s *ResourceService) Seed(ctx context.Context, src ports.FixtureSource) (int, error) {
	rs := src.Resources()
	for i := range rs {
		if err := s.resources.Upsert(ctx, &rs[i]); err != nil {
			return i, fmt.Errorf("upsert resource %s: %w", rs[i].ID, err)
		}
	}
	return len(rs), nil
}
