package usecases_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/samirrijal/digitalshield/internal/core/domain"
	"github.com/samirrijal/digitalshield/internal/core/usecases"
)

func profileRepo(p *domain.Profile) *mockProfileRepo {
	return &mockProfileRepo{getFn: func(ctx context.Context, userID string) (*domain.Profile, error) {
		if p == nil {
			return nil, domain.ErrNotFound
		}
		return p, nil
	}}
}

func entry(subject string) domain.GeofenceEvent {
	return domain.GeofenceEvent{Subject: subject, Type: domain.EventEntered, Area: downtown, At: testTime}
}

func TestNotificationService_AllChannels(t *testing.T) {
	alerts := &memAlertRepo{}
	push := &mockPush{}
	sms := &mockSMS{}
	profile := &domain.Profile{
		UserID: "user-1", FullName: "Jane", Phone: "+15550102030",
		EmergencyContacts:    []string{"+15550109999", "+15550108888"},
		NotificationsEnabled: true,
	}
	svc := usecases.NewNotificationService(usecases.NewAlertService(alerts, push), profileRepo(profile), push, sms)

	if err := svc.NotifyAreaEntry(context.Background(), entry("user-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(alerts.alerts) != 1 {
		t.Fatalf("expected 1 stored alert, got %d", len(alerts.alerts))
	}
	a := alerts.alerts[0]
	if a.Type != domain.AlertCrime || a.Title != "Crime Area Alert: Downtown Financial District" || a.Location != "Downtown Financial District" {
		t.Errorf("unexpected alert %+v", a)
	}
	if a.Message != "You've entered an area with reported Cyber Fraud incidents. High incidents of ATM skimming and card fraud" {
		t.Errorf("unexpected message %q", a.Message)
	}

	// one toast (high severity alert) plus one desktop notification
	var desktop *domain.Notification
	for i := range push.sent {
		if push.sent[i].Kind == domain.NotifyDesktop {
			desktop = &push.sent[i]
		}
	}
	if desktop == nil {
		t.Fatal("expected a desktop notification")
	}
	if desktop.Body != "High Cyber Fraud activity reported in this area. Stay vigilant!" || desktop.Tag != "area1" {
		t.Errorf("unexpected desktop notification %+v", desktop)
	}

	if len(sms.sent) != 3 {
		t.Fatalf("expected 3 sms, got %d", len(sms.sent))
	}
	if sms.sent[0].To != "+15550102030" || sms.sent[0].Body != "CRIME ALERT: Jane, you've entered Downtown Financial District. High Cyber Fraud activity reported. Stay alert! - Digital Shield" {
		t.Errorf("unexpected user sms %+v", sms.sent[0])
	}
	want := "EMERGENCY ALERT: Jane has entered a high-crime area (Downtown Financial District) with reported Cyber Fraud. Location coordinates: 40.7589, -73.9851"
	if sms.sent[1].To != "+15550109999" || sms.sent[1].Body != want {
		t.Errorf("unexpected emergency sms %+v", sms.sent[1])
	}
}

func TestNotificationService_NoProfile(t *testing.T) {
	alerts := &memAlertRepo{}
	push := &mockPush{}
	sms := &mockSMS{}
	svc := usecases.NewNotificationService(usecases.NewAlertService(alerts, nil), profileRepo(nil), push, sms)

	if err := svc.NotifyAreaEntry(context.Background(), entry("user-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts.alerts) != 1 {
		t.Errorf("expected alert stored regardless of profile, got %d", len(alerts.alerts))
	}
	if len(push.sent) != 1 || push.sent[0].Kind != domain.NotifyDesktop {
		t.Errorf("expected one desktop notification without a profile, got %+v", push.sent)
	}
	if len(sms.sent) != 0 {
		t.Errorf("expected no sms without a profile, got %d", len(sms.sent))
	}
}

func TestNotificationService_DesktopGatedSMSNeedsPhone(t *testing.T) {
	push := &mockPush{}
	sms := &mockSMS{}
	profile := &domain.Profile{UserID: "user-1", FullName: "Jane", EmergencyContacts: []string{"+15550109999"}}
	svc := usecases.NewNotificationService(usecases.NewAlertService(&memAlertRepo{}, nil), profileRepo(profile), push, sms)

	sent, err := svc.SendDesktop(context.Background(), "user-1", downtown)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent || len(push.sent) != 0 {
		t.Errorf("expected desktop gated by notifications_enabled")
	}
	n, err := svc.SendSMS(context.Background(), "user-1", downtown)
	if err != nil || n != 0 {
		t.Errorf("expected no sms without a phone, got %d %v", n, err)
	}
}

func TestNotificationService_SMSFailureJoined(t *testing.T) {
	sms := &mockSMS{failTo: "+15550109999"}
	profile := &domain.Profile{UserID: "user-1", FullName: "Jane", Phone: "+15550102030", EmergencyContacts: []string{"+15550109999", "+15550108888"}}
	svc := usecases.NewNotificationService(usecases.NewAlertService(&memAlertRepo{}, nil), profileRepo(profile), nil, sms)

	n, err := svc.SendSMS(context.Background(), "user-1", mall)
	if err == nil || !strings.Contains(err.Error(), "+15550109999") {
		t.Fatalf("expected failure naming the contact, got %v", err)
	}
	if n != 2 {
		t.Errorf("expected remaining messages sent, got %d", n)
	}
}

func TestNotificationService_ProfileLookupError(t *testing.T) {
	repo := &mockProfileRepo{getFn: func(ctx context.Context, userID string) (*domain.Profile, error) {
		return nil, errors.New("db down")
	}}
	svc := usecases.NewNotificationService(usecases.NewAlertService(&memAlertRepo{}, nil), repo, &mockPush{}, &mockSMS{})
	if err := svc.NotifyAreaEntry(context.Background(), entry("user-1")); err == nil {
		t.Fatal("expected lookup error to surface")
	}
}
