package domain

import (
	"fmt"
	"time"
)

// Severity ranks monitored areas, alerts and crime-feed entries.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Valid reports whether s is one of the four known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Elevated is true for high and critical.
func (s Severity) Elevated() bool {
	return s == SeverityHigh || s == SeverityCritical
}

// MonitoredArea is a static circular high-crime zone.
type MonitoredArea struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Latitude     float64  `json:"latitude" yaml:"latitude"`
	Longitude    float64  `json:"longitude" yaml:"longitude"`
	RadiusMeters float64  `json:"radius_meters" yaml:"radius_meters"`
	Severity     Severity `json:"severity" yaml:"severity"`
	Category     string   `json:"category" yaml:"category"`
	Description  string   `json:"description" yaml:"description"`
}

// Validate rejects areas that cannot take part in a containment check.
func (a MonitoredArea) Validate() error {
	switch {
	case a.ID == "":
		return fmt.Errorf("%w: area id is required", ErrInvalidInput)
	case a.Latitude < -90 || a.Latitude > 90:
		return fmt.Errorf("%w: area %s latitude %v out of range", ErrInvalidInput, a.ID, a.Latitude)
	case a.Longitude < -180 || a.Longitude > 180:
		return fmt.Errorf("%w: area %s longitude %v out of range", ErrInvalidInput, a.ID, a.Longitude)
	case a.RadiusMeters <= 0:
		return fmt.Errorf("%w: area %s radius must be positive", ErrInvalidInput, a.ID)
	case !a.Severity.Valid():
		return fmt.Errorf("%w: area %s severity %q", ErrInvalidInput, a.ID, a.Severity)
	}
	return nil
}

// Position is a device location.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PositionSample is the raw reading from a device location provider. A
// sample with an error or without coordinates carries no position.
type PositionSample struct {
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	Accuracy  float64   `json:"accuracy,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Position returns the sample's coordinates, or false when the provider
// reported an error, a coordinate is missing or a coordinate is out of range.
func (s PositionSample) Position() (Position, bool) {
	if s.Error != "" || s.Latitude == nil || s.Longitude == nil {
		return Position{}, false
	}
	lat, lon := *s.Latitude, *s.Longitude
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Position{}, false
	}
	return Position{Latitude: lat, Longitude: lon}, true
}

// SampleAt builds a valid sample for the given coordinates.
func SampleAt(lat, lon float64, at time.Time) PositionSample {
	return PositionSample{Latitude: &lat, Longitude: &lon, Timestamp: at}
}

// LocationUpdate is a sample attributed to a tracked subject (user).
type LocationUpdate struct {
	Subject string         `json:"subject"`
	Sample  PositionSample `json:"sample"`
}

// GeofenceEventType is the kind of area transition.
type GeofenceEventType string

const (
	EventEntered GeofenceEventType = "entered"
	EventExited  GeofenceEventType = "exited"
)

// GeofenceEvent is one containment transition.
type GeofenceEvent struct {
	Subject        string            `json:"subject,omitempty"`
	Type           GeofenceEventType `json:"type"`
	Area           MonitoredArea     `json:"area"`
	DistanceMeters float64           `json:"distance_meters"`
	// Cell is the street-level geohash of the sample that caused the event.
	Cell string    `json:"cell,omitempty"`
	At   time.Time `json:"at"`
}

// GeofenceAlert is the active-alert record kept while a subject is inside an
// area.
type GeofenceAlert struct {
	AreaID    string   `json:"area_id"`
	AreaName  string   `json:"area_name"`
	Severity  Severity `json:"severity"`
	Category  string   `json:"category"`
	Distance  int      `json:"distance"`
	EnteredAt string   `json:"entered_at"`
}

// NearbyArea is an area annotated with its distance from a query point.
type NearbyArea struct {
	MonitoredArea
	DistanceMeters int `json:"distance_meters"`
}

// EvaluationResult is what a single sample produced.
type EvaluationResult struct {
	Skipped      bool            `json:"skipped"`
	Events       []GeofenceEvent `json:"events"`
	ActiveAlerts []GeofenceAlert `json:"active_alerts"`
}
