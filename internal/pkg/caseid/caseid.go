// Package caseid generates human-readable incident case identifiers of the
// form CASE-<year>-<dayOfYear>-<suffix>, e.g. CASE-2026-292-0417.
//
// The random suffix spans 0000-9999 and is not checked for uniqueness.
package caseid

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"time"
)

// Pattern matches a well-formed case ID.
var Pattern = regexp.MustCompile(`^CASE-\d{4}-\d{3}-\d{4}$`)

const suffixSpace = 10000

// Generator produces case IDs. The zero value is not usable; call New.
type Generator struct {
	now    func() time.Time
	suffix func() int
}

// Option customises a Generator.
type Option func(*Generator)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithSuffix overrides the random suffix source. Values are reduced modulo 10000.
func WithSuffix(suffix func() int) Option {
	return func(g *Generator) {
		if suffix != nil {
			g.suffix = suffix
		}
	}
}

// New returns a Generator using the UTC wall clock and math/rand/v2.
func New(opts ...Option) *Generator {
	g := &Generator{
		now:    time.Now,
		suffix: func() int { return rand.IntN(suffixSpace) },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Next returns a fresh case ID and the instant it was generated at.
func (g *Generator) Next() (string, time.Time) {
	now := g.now().UTC()
	return Format(now, g.suffix()), now
}

// Format renders a case ID for the given instant and suffix.
func Format(t time.Time, suffix int) string {
	t = t.UTC()
	suffix %= suffixSpace
	if suffix < 0 {
		suffix += suffixSpace
	}
	return fmt.Sprintf("CASE-%04d-%03d-%04d", t.Year(), t.YearDay(), suffix)
}

// Valid reports whether id is a well-formed case ID.
func Valid(id string) bool {
	return Pattern.MatchString(id)
}
