// Package fixtures loads the static data sets served by the API: the
// monitored high-crime areas, learning resources and the crime feed. A
// default set is compiled into the binary; a YAML file can replace it.
package fixtures

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/samirrijal/digitalshield/internal/core/domain"
)

//go:embed demo.yaml
var demoYAML []byte

// Set is an in-memory fixture set. It satisfies ports.FixtureSource.
type Set struct {
	AreaList     []domain.MonitoredArea `yaml:"areas"`
	ResourceList []domain.Resource      `yaml:"resources"`
	Feed         domain.CrimeFeed       `yaml:"crime_feed"`
}

// Default returns the embedded fixture set.
func Default() (*Set, error) {
	return Parse(demoYAML)
}

// Load reads a fixture set from path, or the embedded set when path is empty.
func Load(path string) (*Set, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML fixture set.
func Parse(data []byte) (*Set, error) {
	var s Set
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	seen := make(map[string]bool, len(s.AreaList))
	for _, a := range s.AreaList {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if seen[a.ID] {
			return nil, fmt.Errorf("%w: duplicate area id %s", domain.ErrInvalidInput, a.ID)
		}
		seen[a.ID] = true
	}
	return &s, nil
}

func (s *Set) Areas() []domain.MonitoredArea {
	out := make([]domain.MonitoredArea, len(s.AreaList))
	copy(out, s.AreaList)
	return out
}

func (s *Set) Resources() []domain.Resource {
	out := make([]domain.Resource, len(s.ResourceList))
	copy(out, s.ResourceList)
	return out
}

func (s *Set) CrimeFeed() domain.CrimeFeed {
	feed := domain.CrimeFeed{Stats: s.Feed.Stats}
	feed.Alerts = append([]domain.CrimeAlert(nil), s.Feed.Alerts...)
	return feed
}
