package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/digitalshield/internal/core/domain"
	"github.com/samirrijal/digitalshield/internal/core/ports"
	"github.com/samirrijal/digitalshield/internal/pkg/metrics"
	"github.com/samirrijal/digitalshield/internal/pkg/telemetry"
)

// NotificationService carries out the side effects of an area entry: a crime
// alert in the user's list, a desktop notification and simulated SMS to the
// user and their emergency contacts. It satisfies ports.AreaEntryNotifier.
type NotificationService struct {
	alerts   *AlertService
	profiles ports.ProfileRepository
	push     ports.NotificationPublisher
	sms      ports.SMSSender
	now      func() time.Time
}

// NewNotificationService creates a new NotificationService. push and sms may
// be nil to disable that channel.
func NewNotificationService(
	alerts *AlertService,
	profiles ports.ProfileRepository,
	push ports.NotificationPublisher,
	sms ports.SMSSender,
) *NotificationService {
	return &NotificationService{alerts: alerts, profiles: profiles, push: push, sms: sms, now: time.Now}
}

// AreaAlertTitle is shared by the stored alert and the desktop notification.
func AreaAlertTitle(area domain.MonitoredArea) string {
	return "Crime Area Alert: " + area.Name
}

// AreaAlertMessage is the body of the stored crime alert.
func AreaAlertMessage(area domain.MonitoredArea) string {
	return fmt.Sprintf("You've entered an area with reported %s incidents. %s", area.Category, area.Description)
}

// UserSMS is the text sent to the user's own phone.
func UserSMS(userName string, area domain.MonitoredArea) string {
	return fmt.Sprintf("CRIME ALERT: %s, you've entered %s. High %s activity reported. Stay alert! - Digital Shield",
		userName, area.Name, area.Category)
}

// EmergencySMS is the text sent to each emergency contact.
func EmergencySMS(userName string, area domain.MonitoredArea) string {
	return fmt.Sprintf("EMERGENCY ALERT: %s has entered a high-crime area (%s) with reported %s. Location coordinates: %v, %v",
		userName, area.Name, area.Category, area.Latitude, area.Longitude)
}

// NotifyAreaEntry runs every channel and joins their failures.
func (s *NotificationService) NotifyAreaEntry(ctx context.Context, ev domain.GeofenceEvent) error {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanNotifyAreaEntry)
	defer span.End()
	span.SetAttributes(attribute.String("subject", ev.Subject), attribute.String("area", ev.Area.ID))

	var errs []error
	if err := s.RecordAreaAlert(ctx, ev.Subject, ev.Area); err != nil {
		errs = append(errs, err)
	}
	if _, err := s.SendDesktop(ctx, ev.Subject, ev.Area); err != nil {
		errs = append(errs, err)
	}
	if _, err := s.SendSMS(ctx, ev.Subject, ev.Area); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// RecordAreaAlert adds a crime alert for the area to the user's list.
func (s *NotificationService) RecordAreaAlert(ctx context.Context, userID string, area domain.MonitoredArea) error {
	_, err := s.alerts.Add(ctx, userID, domain.AlertDraft{
		Type:     domain.AlertCrime,
		Severity: area.Severity,
		Title:    AreaAlertTitle(area),
		Message:  AreaAlertMessage(area),
		Location: area.Name,
	})
	if err != nil {
		return fmt.Errorf("record area alert: %w", err)
	}
	return nil
}

// SendDesktop publishes a desktop notification unless the user turned
// notifications off in their profile. Users without a profile get it. The
// returned flag is false when nothing was published.
func (s *NotificationService) SendDesktop(ctx context.Context, userID string, area domain.MonitoredArea) (bool, error) {
	if s.push == nil {
		return false, nil
	}
	p, err := s.profile(ctx, userID)
	if err != nil {
		return false, err
	}
	if p != nil && !p.NotificationsEnabled {
		return false, nil
	}
	err = s.push.PublishNotification(ctx, &domain.Notification{
		UserID: userID,
		Kind:   domain.NotifyDesktop,
		Title:  AreaAlertTitle(area),
		Body:   fmt.Sprintf("High %s activity reported in this area. Stay vigilant!", area.Category),
		Tag:    area.ID,
		At:     s.now().UTC(),
	})
	if err != nil {
		metrics.NotificationErrors.WithLabelValues("desktop").Inc()
		return false, fmt.Errorf("publish desktop notification: %w", err)
	}
	metrics.NotificationsSent.WithLabelValues("desktop").Inc()
	return true, nil
}

// SendSMS texts the user and then each emergency contact. Nothing is sent
// when the profile has no phone number. It returns the number of messages
// handed to the sender.
func (s *NotificationService) SendSMS(ctx context.Context, userID string, area domain.MonitoredArea) (int, error) {
	if s.sms == nil {
		return 0, nil
	}
	p, err := s.profile(ctx, userID)
	if err != nil {
		return 0, err
	}
	if p == nil || p.Phone == "" {
		return 0, nil
	}

	name := p.FullName
	if name == "" {
		name = "User"
	}
	msgs := []domain.SMSMessage{{To: p.Phone, Body: UserSMS(name, area)}}
	for _, c := range p.EmergencyContacts {
		msgs = append(msgs, domain.SMSMessage{To: c, Body: EmergencySMS(name, area)})
	}

	sent := 0
	var errs []error
	for _, m := range msgs {
		if err := s.sms.Send(ctx, m); err != nil {
			metrics.NotificationErrors.WithLabelValues("sms").Inc()
			errs = append(errs, fmt.Errorf("sms to %s: %w", m.To, err))
			continue
		}
		metrics.NotificationsSent.WithLabelValues("sms").Inc()
		sent++
	}
	return sent, errors.Join(errs...)
}

func (s *NotificationService) profile(ctx context.Context, userID string) (*domain.Profile, error) {
	p, err := s.profiles.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		slog.Debug("no profile for area entry notification", "user_id", userID)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}
