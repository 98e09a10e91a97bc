package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/digitalshield/internal/core/domain"
	"github.com/samirrijal/digitalshield/internal/core/ports"
	"github.com/samirrijal/digitalshield/internal/pkg/geospatial"
	"github.com/samirrijal/digitalshield/internal/pkg/metrics"
	"github.com/samirrijal/digitalshield/internal/pkg/telemetry"
)

// DefaultNearbyRadius is the nearby-area lookup radius in meters.
const DefaultNearbyRadius = 1000.0

// GeofenceService runs the containment check for every tracked subject and
// fans transitions out to the event publisher and the area-entry notifier.
type GeofenceService struct {
	areas     []domain.MonitoredArea
	publisher ports.EventPublisher
	notifier  ports.AreaEntryNotifier
	now       func() time.Time

	mu       sync.Mutex
	monitors map[string]*GeofenceMonitor
}

// NewGeofenceService creates a new GeofenceService. publisher and notifier
// may be nil.
func NewGeofenceService(areas []domain.MonitoredArea, publisher ports.EventPublisher, notifier ports.AreaEntryNotifier) *GeofenceService {
	return &GeofenceService{
		areas:     areas,
		publisher: publisher,
		notifier:  notifier,
		now:       time.Now,
		monitors:  make(map[string]*GeofenceMonitor),
	}
}

// Areas returns the monitored areas.
func (s *GeofenceService) Areas() []domain.MonitoredArea {
	out := make([]domain.MonitoredArea, len(s.areas))
	copy(out, s.areas)
	return out
}

func (s *GeofenceService) monitor(subject string, create bool) *GeofenceMonitor {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.monitors[subject]
	if !ok && create {
		m = NewGeofenceMonitor(s.areas)
		s.monitors[subject] = m
		metrics.TrackedSubjects.Set(float64(len(s.monitors)))
	}
	return m
}

// ProcessSample evaluates one location sample for subject. A sample without
// a usable position is skipped: no events, no error.
func (s *GeofenceService) ProcessSample(ctx context.Context, subject string, sample domain.PositionSample) (*domain.EvaluationResult, error) {
	if subject == "" {
		return nil, fmt.Errorf("%w: subject is required", domain.ErrInvalidInput)
	}

	pos, ok := sample.Position()
	if !ok {
		metrics.LocationSamples.WithLabelValues("skipped").Inc()
		return &domain.EvaluationResult{Skipped: true, ActiveAlerts: s.ActiveAlerts(subject)}, nil
	}

	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanGeofenceEvaluate)
	defer span.End()
	span.SetAttributes(attribute.String("subject", subject))

	at := sample.Timestamp
	if at.IsZero() {
		at = s.now()
	}

	m := s.monitor(subject, true)
	start := time.Now()
	events := m.Evaluate(pos, at)
	metrics.EvaluationDuration.Observe(time.Since(start).Seconds())
	metrics.LocationSamples.WithLabelValues("evaluated").Inc()
	span.SetAttributes(attribute.Int("events", len(events)))

	cell := geospatial.Geohash(pos.Latitude, pos.Longitude, geospatial.PrecisionStreet)
	for i := range events {
		events[i].Subject = subject
		events[i].Cell = cell
		s.dispatch(ctx, &events[i])
	}

	return &domain.EvaluationResult{Events: events, ActiveAlerts: m.ActiveAlerts()}, nil
}

// dispatch is fire-and-forget: failures are logged and never retried.
func (s *GeofenceService) dispatch(ctx context.Context, ev *domain.GeofenceEvent) {
	metrics.GeofenceEvents.WithLabelValues(string(ev.Type), ev.Area.ID).Inc()

	if s.publisher != nil {
		if err := s.publisher.PublishGeofenceEvent(ctx, ev); err != nil {
			slog.Warn("publish geofence event", "subject", ev.Subject, "area", ev.Area.ID, "error", err)
		}
	}
	if ev.Type == domain.EventEntered && s.notifier != nil {
		if err := s.notifier.NotifyAreaEntry(ctx, *ev); err != nil {
			slog.Warn("area entry notification", "subject", ev.Subject, "area", ev.Area.ID, "error", err)
		}
	}
}

// Run consumes updates one at a time until ctx is cancelled or the channel
// is closed.
func (s *GeofenceService) Run(ctx context.Context, updates <-chan domain.LocationUpdate) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			if _, err := s.ProcessSample(ctx, u.Subject, u.Sample); err != nil {
				slog.Warn("process location sample", "subject", u.Subject, "error", err)
			}
		}
	}
}

// NearbyAreas returns areas whose center lies within radiusMeters of pos,
// nearest first. A non-positive radius uses DefaultNearbyRadius.
func (s *GeofenceService) NearbyAreas(pos domain.Position, radiusMeters float64) []domain.NearbyArea {
	if radiusMeters <= 0 {
		radiusMeters = DefaultNearbyRadius
	}
	var out []domain.NearbyArea
	for _, a := range s.areas {
		d := geospatial.Haversine(pos.Latitude, pos.Longitude, a.Latitude, a.Longitude)
		if d <= radiusMeters {
			out = append(out, domain.NearbyArea{MonitoredArea: a, DistanceMeters: int(math.Round(d))})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceMeters < out[j].DistanceMeters
	})
	return out
}

// ActiveAlerts returns subject's active alerts, or nil when untracked.
func (s *GeofenceService) ActiveAlerts(subject string) []domain.GeofenceAlert {
	m := s.monitor(subject, false)
	if m == nil {
		return nil
	}
	return m.ActiveAlerts()
}

// Forget drops subject's containment state. The next sample starts from
// "outside" for every area.
func (s *GeofenceService) Forget(subject string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.monitors, subject)
	metrics.TrackedSubjects.Set(float64(len(s.monitors)))
}
