package usecases_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/samirrijal/digitalshield/internal/core/domain"
	"github.com/samirrijal/digitalshield/internal/core/usecases"
)

func downtownSample() domain.PositionSample {
	return domain.SampleAt(downtown.Latitude, downtown.Longitude, testTime)
}

func TestGeofenceService_ProcessSample_Entered(t *testing.T) {
	pub := &mockPublisher{}
	notifier := &mockNotifier{}
	svc := usecases.NewGeofenceService(testAreas, pub, notifier)

	res, err := svc.ProcessSample(context.Background(), "user-1", downtownSample())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Skipped {
		t.Fatal("expected sample to be evaluated")
	}
	if len(res.Events) != 1 || res.Events[0].Subject != "user-1" {
		t.Fatalf("expected one event for user-1, got %+v", res.Events)
	}
	if len(res.Events[0].Cell) != 7 {
		t.Errorf("expected street-level geohash cell, got %q", res.Events[0].Cell)
	}
	if len(res.ActiveAlerts) != 1 {
		t.Errorf("expected 1 active alert, got %d", len(res.ActiveAlerts))
	}
	if len(pub.events) != 1 || pub.events[0].Type != domain.EventEntered {
		t.Errorf("expected entered event published, got %+v", pub.events)
	}
	if notifier.count() != 1 || notifier.events[0].Area.ID != "area1" {
		t.Errorf("expected area1 entry notification, got %+v", notifier.events)
	}
}

func TestGeofenceService_ProcessSample_ExitNotNotified(t *testing.T) {
	pub := &mockPublisher{}
	notifier := &mockNotifier{}
	svc := usecases.NewGeofenceService(testAreas, pub, notifier)
	ctx := context.Background()

	_, _ = svc.ProcessSample(ctx, "user-1", downtownSample())
	res, err := svc.ProcessSample(ctx, "user-1", domain.SampleAt(0, 0, testTime.Add(time.Minute)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Events) != 1 || res.Events[0].Type != domain.EventExited {
		t.Fatalf("expected exited event, got %+v", res.Events)
	}
	if len(res.ActiveAlerts) != 0 {
		t.Errorf("expected no active alerts after exit, got %d", len(res.ActiveAlerts))
	}
	if len(pub.events) != 2 {
		t.Errorf("expected both transitions published, got %d", len(pub.events))
	}
	if notifier.count() != 1 {
		t.Errorf("expected exit to send no notification, got %d", notifier.count())
	}
}

func TestGeofenceService_ProcessSample_Skipped(t *testing.T) {
	lat := 40.7589
	cases := map[string]domain.PositionSample{
		"provider error": {Error: "User denied Geolocation", Timestamp: testTime},
		"no coordinates": {Timestamp: testTime},
		"missing lon":    {Latitude: &lat, Timestamp: testTime},
		"out of range":   domain.SampleAt(123, 0, testTime),
	}
	for name, sample := range cases {
		t.Run(name, func(t *testing.T) {
			pub := &mockPublisher{}
			svc := usecases.NewGeofenceService(testAreas, pub, &mockNotifier{})
			res, err := svc.ProcessSample(context.Background(), "user-1", sample)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !res.Skipped || len(res.Events) != 0 {
				t.Errorf("expected skipped with no events, got %+v", res)
			}
			if len(pub.events) != 0 {
				t.Errorf("expected nothing published, got %d", len(pub.events))
			}
		})
	}
}

func TestGeofenceService_SkippedSampleKeepsState(t *testing.T) {
	svc := usecases.NewGeofenceService(testAreas, nil, nil)
	ctx := context.Background()
	_, _ = svc.ProcessSample(ctx, "user-1", downtownSample())

	res, _ := svc.ProcessSample(ctx, "user-1", domain.PositionSample{Error: "timeout"})
	if !res.Skipped || len(res.ActiveAlerts) != 1 {
		t.Fatalf("expected skipped sample to leave active alert, got %+v", res)
	}
}

func TestGeofenceService_ProcessSample_EmptySubject(t *testing.T) {
	svc := usecases.NewGeofenceService(testAreas, nil, nil)
	_, err := svc.ProcessSample(context.Background(), "", downtownSample())
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestGeofenceService_SideEffectFailuresIgnored(t *testing.T) {
	pub := &mockPublisher{err: errors.New("nats down")}
	notifier := &mockNotifier{err: errors.New("sms down")}
	svc := usecases.NewGeofenceService(testAreas, pub, notifier)

	res, err := svc.ProcessSample(context.Background(), "user-1", downtownSample())
	if err != nil {
		t.Fatalf("expected side-effect failures to be swallowed, got %v", err)
	}
	if len(res.Events) != 1 {
		t.Errorf("expected event despite failures, got %d", len(res.Events))
	}
}

func TestGeofenceService_SubjectsIndependent(t *testing.T) {
	svc := usecases.NewGeofenceService(testAreas, nil, nil)
	ctx := context.Background()
	_, _ = svc.ProcessSample(ctx, "a", downtownSample())
	_, _ = svc.ProcessSample(ctx, "b", domain.SampleAt(0, 0, testTime))

	if len(svc.ActiveAlerts("a")) != 1 {
		t.Error("expected a inside downtown")
	}
	if len(svc.ActiveAlerts("b")) != 0 {
		t.Error("expected b outside every area")
	}
	if svc.ActiveAlerts("never-seen") != nil {
		t.Error("expected nil alerts for untracked subject")
	}
}

func TestGeofenceService_Forget(t *testing.T) {
	notifier := &mockNotifier{}
	svc := usecases.NewGeofenceService(testAreas, nil, notifier)
	ctx := context.Background()

	_, _ = svc.ProcessSample(ctx, "user-1", downtownSample())
	svc.Forget("user-1")
	if svc.ActiveAlerts("user-1") != nil {
		t.Fatal("expected state dropped")
	}
	_, _ = svc.ProcessSample(ctx, "user-1", downtownSample())
	if notifier.count() != 2 {
		t.Errorf("expected re-entry after Forget, got %d notifications", notifier.count())
	}
}

func TestGeofenceService_ConcurrentSamplesSameSubject(t *testing.T) {
	notifier := &mockNotifier{}
	svc := usecases.NewGeofenceService(testAreas, nil, notifier)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.ProcessSample(context.Background(), "user-1", downtownSample())
		}()
	}
	wg.Wait()

	if notifier.count() != 1 {
		t.Fatalf("expected exactly one entry, got %d", notifier.count())
	}
}

func TestGeofenceService_NearbyAreas(t *testing.T) {
	svc := usecases.NewGeofenceService(testAreas, nil, nil)
	pos := domain.Position{Latitude: downtown.Latitude, Longitude: downtown.Longitude}

	nearby := svc.NearbyAreas(pos, 0)
	if len(nearby) != 2 {
		t.Fatalf("expected 2 areas within 1km, got %d", len(nearby))
	}
	if nearby[0].ID != "area1" || nearby[1].ID != "area3" {
		t.Errorf("expected [area1 area3], got [%s %s]", nearby[0].ID, nearby[1].ID)
	}
	if nearby[0].DistanceMeters != 0 || nearby[1].DistanceMeters < 680 || nearby[1].DistanceMeters > 700 {
		t.Errorf("unexpected distances %d, %d", nearby[0].DistanceMeters, nearby[1].DistanceMeters)
	}

	if all := svc.NearbyAreas(pos, 5000); len(all) != 3 {
		t.Errorf("expected all 3 areas within 5km, got %d", len(all))
	}
}

func TestGeofenceService_RunProcessesInOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	pub := &mockPublisher{}
	svc := usecases.NewGeofenceService(testAreas, pub, nil)
	updates := make(chan domain.LocationUpdate, 4)
	updates <- domain.LocationUpdate{Subject: "user-1", Sample: downtownSample()}
	updates <- domain.LocationUpdate{Subject: "user-1", Sample: domain.PositionSample{Error: "denied"}}
	updates <- domain.LocationUpdate{Subject: "user-1", Sample: domain.SampleAt(0, 0, testTime)}
	updates <- domain.LocationUpdate{Subject: "", Sample: downtownSample()}
	close(updates)

	done := make(chan error, 1)
	go func() { done <- svc.Run(context.Background(), updates) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected nil on closed channel, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after channel close")
	}

	if len(pub.events) != 2 || pub.events[0].Type != domain.EventEntered || pub.events[1].Type != domain.EventExited {
		t.Fatalf("expected entered then exited, got %+v", pub.events)
	}
}

func TestGeofenceService_RunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	svc := usecases.NewGeofenceService(testAreas, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	updates := make(chan domain.LocationUpdate)

	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx, updates) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
