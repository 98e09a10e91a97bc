package usecases

import (
	"math"
	"slices"
	"sync"
	"time"

	"github.com/samirrijal/digitalshield/internal/core/domain"
	"github.com/samirrijal/digitalshield/internal/pkg/geospatial"
)

// isoMillis matches the millisecond UTC timestamps clients already parse.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// GeofenceMonitor holds one subject's containment state against a fixed set
// of areas. Evaluations are serialised by the monitor's lock.
type GeofenceMonitor struct {
	mu     sync.Mutex
	areas  []domain.MonitoredArea
	inside map[string]bool
	active []domain.GeofenceAlert
}

// NewGeofenceMonitor creates a monitor with every area in the "outside" state.
func NewGeofenceMonitor(areas []domain.MonitoredArea) *GeofenceMonitor {
	return &GeofenceMonitor{
		areas:  areas,
		inside: make(map[string]bool, len(areas)),
	}
}

// Evaluate checks pos against every area and returns the transitions it
// caused. Membership is distance <= radius. An area whose state did not
// change produces no event.
func (m *GeofenceMonitor) Evaluate(pos domain.Position, at time.Time) []domain.GeofenceEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	var events []domain.GeofenceEvent
	for _, area := range m.areas {
		dist := geospatial.Haversine(pos.Latitude, pos.Longitude, area.Latitude, area.Longitude)
		now := dist <= area.RadiusMeters
		was := m.inside[area.ID]

		switch {
		case now && !was:
			m.inside[area.ID] = true
			m.active = append(m.active, domain.GeofenceAlert{
				AreaID:    area.ID,
				AreaName:  area.Name,
				Severity:  area.Severity,
				Category:  area.Category,
				Distance:  int(math.Round(dist)),
				EnteredAt: at.UTC().Format(isoMillis),
			})
			events = append(events, domain.GeofenceEvent{
				Type: domain.EventEntered, Area: area, DistanceMeters: dist, At: at,
			})
		case !now && was:
			delete(m.inside, area.ID)
			m.active = slices.DeleteFunc(m.active, func(a domain.GeofenceAlert) bool {
				return a.AreaID == area.ID
			})
			events = append(events, domain.GeofenceEvent{
				Type: domain.EventExited, Area: area, DistanceMeters: dist, At: at,
			})
		}
	}
	return events
}

// ActiveAlerts returns a copy of the alerts for areas the subject is in,
// in entry order.
func (m *GeofenceMonitor) ActiveAlerts() []domain.GeofenceAlert {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.active)
}

// Inside reports whether the subject is currently inside areaID.
func (m *GeofenceMonitor) Inside(areaID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inside[areaID]
}
