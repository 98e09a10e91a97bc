package natsadapter

import "strings"

// Subject layout shared by the publisher, the subscriber and the WebSocket
// relay.
const (
	LocationSubjectPrefix  = "shield.location."
	GeofenceSubjectPrefix  = "shield.geofence."
	NotifySubjectPrefix    = "shield.notify."
	ReportSubmittedSubject = "shield.reports.submitted"
)

var tokenReplacer = strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_")

// Token makes s safe to use as a single subject token.
func Token(s string) string {
	if s == "" {
		return "_"
	}
	return tokenReplacer.Replace(s)
}

// LocationSubject is where a user's device samples are published.
func LocationSubject(userID string) string {
	return LocationSubjectPrefix + Token(userID)
}

// GeofenceSubject carries one transition, e.g. shield.geofence.u1.entered.
func GeofenceSubject(userID, eventType string) string {
	return GeofenceSubjectPrefix + Token(userID) + "." + Token(eventType)
}

// GeofenceUserWildcard matches every transition of one user.
func GeofenceUserWildcard(userID string) string {
	return GeofenceSubjectPrefix + Token(userID) + ".>"
}

// NotifySubject is the core (non-JetStream) subject for a user's live
// notifications.
func NotifySubject(userID string) string {
	return NotifySubjectPrefix + Token(userID)
}

// SubjectUser extracts the user token following prefix.
func SubjectUser(subject, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(subject, prefix)
	if !ok || rest == "" {
		return "", false
	}
	user, _, _ := strings.Cut(rest, ".")
	return user, true
}
