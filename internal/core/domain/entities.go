package domain

import (
	"slices"
	"time"
)

// AlertType groups alerts in the user's alert list.
type AlertType string

const (
	AlertCrime  AlertType = "crime"
	AlertSafety AlertType = "safety"
	AlertSystem AlertType = "system"
)

// Valid reports whether t is a known alert type.
func (t AlertType) Valid() bool {
	return t == AlertCrime || t == AlertSafety || t == AlertSystem
}

// Alert is an entry in a user's alert list.
type Alert struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      AlertType `json:"type"`
	Severity  Severity  `json:"severity"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Location  string    `json:"location,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"timestamp"`
}

// AlertDraft is the caller-supplied part of a new alert.
type AlertDraft struct {
	Type     AlertType `json:"type" validate:"required,oneof=crime safety system"`
	Severity Severity  `json:"severity" validate:"required,oneof=low medium high critical"`
	Title    string    `json:"title" validate:"required,max=200"`
	Message  string    `json:"message" validate:"required,max=2000"`
	Location string    `json:"location,omitempty" validate:"max=200"`
}

// IncidentTypes are the report categories offered to users.
var IncidentTypes = []string{
	"Cyberbullying/Online Harassment",
	"Phishing/Email Scams",
	"Identity Theft",
	"Financial Fraud",
	"Malware/Virus Attack",
	"Data Breach",
	"Social Media Impersonation",
	"Romance/Dating Scams",
	"Investment/Cryptocurrency Scams",
	"Other",
}

// IsIncidentType reports whether s is one of IncidentTypes.
func IsIncidentType(s string) bool {
	return slices.Contains(IncidentTypes, s)
}

// Urgency of an incident report.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// ReportStatus tracks a report through investigation.
type ReportStatus string

const (
	StatusPending       ReportStatus = "pending"
	StatusInvestigating ReportStatus = "investigating"
	StatusResolved      ReportStatus = "resolved"
	StatusClosed        ReportStatus = "closed"
)

// Valid reports whether s is a known status.
func (s ReportStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInvestigating, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// IncidentReport is a persisted cyber-incident report.
type IncidentReport struct {
	ID            string       `json:"id"`
	UserID        string       `json:"user_id"`
	CaseID        string       `json:"case_id"`
	IncidentType  string       `json:"incident_type"`
	Urgency       Urgency      `json:"urgency"`
	Description   string       `json:"description"`
	Location      string       `json:"location,omitempty"`
	IncidentDate  *time.Time   `json:"incident_date,omitempty"`
	IsAnonymous   bool         `json:"is_anonymous"`
	ContactEmail  string       `json:"contact_email,omitempty"`
	ContactPhone  string       `json:"contact_phone,omitempty"`
	EvidenceFiles []string     `json:"evidence_files,omitempty"`
	Status        ReportStatus `json:"status"`
	AssignedAgent string       `json:"assigned_agent,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// ReportSubmission is the body accepted by the submit endpoints.
type ReportSubmission struct {
	IncidentType  string   `json:"incident_type" validate:"required"`
	Urgency       string   `json:"urgency" validate:"required,oneof=low medium high critical"`
	Description   string   `json:"description" validate:"required"`
	Location      string   `json:"location,omitempty" validate:"max=500"`
	IncidentDate  string   `json:"incident_date,omitempty"`
	IsAnonymous   bool     `json:"is_anonymous,omitempty"`
	ContactEmail  string   `json:"contact_email,omitempty" validate:"omitempty,emailaddr"`
	ContactPhone  string   `json:"contact_phone,omitempty" validate:"omitempty,phone"`
	EvidenceFiles []string `json:"evidence_files,omitempty" validate:"max=10"`
}

// ReportFilter narrows report listings.
type ReportFilter struct {
	Status ReportStatus
	Search string
	Offset int
	Limit  int
}

// ReportStats summarises reports for the admin dashboard.
type ReportStats struct {
	Total     int            `json:"total"`
	ByStatus  map[string]int `json:"by_status"`
	ByUrgency map[string]int `json:"by_urgency"`
}

// ReportSubmitted is published after a report is stored.
type ReportSubmitted struct {
	ReportID     string    `json:"report_id"`
	CaseID       string    `json:"case_id"`
	UserID       string    `json:"user_id"`
	IncidentType string    `json:"incident_type"`
	Urgency      Urgency   `json:"urgency"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// MaxEmergencyContacts caps the contacts stored on a profile.
const MaxEmergencyContacts = 5

// Profile holds the contact details used for area-entry notifications.
type Profile struct {
	UserID               string    `json:"user_id"`
	FullName             string    `json:"full_name"`
	Email                string    `json:"email,omitempty"`
	Phone                string    `json:"phone,omitempty"`
	EmergencyContacts    []string  `json:"emergency_contacts"`
	NotificationsEnabled bool      `json:"notifications_enabled"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// IsComplete is true once name and phone are known.
func (p Profile) IsComplete() bool {
	return p.FullName != "" && p.Phone != ""
}

// ProfileUpdate is the body accepted by PUT /v1/profile.
type ProfileUpdate struct {
	FullName             string   `json:"full_name" validate:"required"`
	Email                string   `json:"email,omitempty" validate:"omitempty,emailaddr"`
	Phone                string   `json:"phone,omitempty" validate:"omitempty,phone"`
	EmergencyContacts    []string `json:"emergency_contacts" validate:"max=5,dive,phone"`
	NotificationsEnabled *bool    `json:"notifications_enabled,omitempty"`
}

// LinkStatus is the link checker verdict.
type LinkStatus string

const (
	LinkSafe      LinkStatus = "safe"
	LinkDangerous LinkStatus = "dangerous"
)

// LinkDetails carries the reputation block of a link check.
type LinkDetails struct {
	Reputation int       `json:"reputation"`
	Category   string    `json:"category"`
	LastSeen   time.Time `json:"lastSeen"`
}

// LinkCheckResult is returned to the caller of the link checker.
type LinkCheckResult struct {
	URL       string      `json:"url"`
	Status    LinkStatus  `json:"status"`
	Threats   []string    `json:"threats"`
	Source    string      `json:"source"`
	Timestamp time.Time   `json:"timestamp"`
	Details   LinkDetails `json:"details"`
}

// LinkCheck is a stored link check.
type LinkCheck struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id,omitempty"`
	URL             string    `json:"url"`
	IsSafe          bool      `json:"is_safe"`
	RiskLevel       string    `json:"risk_level"`
	ThreatsDetected []string  `json:"threats_detected"`
	CreatedAt       time.Time `json:"created_at"`
}

// ChatMessage is one turn of an assistant conversation.
type ChatMessage struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id,omitempty"`
	IsUser    bool      `json:"is_user"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatReply is the assistant's answer to one message.
type ChatReply struct {
	SessionID string    `json:"session_id"`
	Topic     string    `json:"topic"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Resource is a learning article or guide.
type Resource struct {
	ID              string    `json:"id" yaml:"id"`
	Title           string    `json:"title" yaml:"title"`
	Description     string    `json:"description" yaml:"description"`
	Content         string    `json:"content,omitempty" yaml:"content"`
	Category        string    `json:"category" yaml:"category"`
	Kind            string    `json:"type" yaml:"type"`
	DifficultyLevel string    `json:"difficulty_level" yaml:"difficulty"`
	ReadTime        string    `json:"read_time,omitempty" yaml:"read_time"`
	URL             string    `json:"url,omitempty" yaml:"url"`
	Tags            []string  `json:"tags" yaml:"tags"`
	IsFeatured      bool      `json:"is_featured" yaml:"featured"`
	CreatedAt       time.Time `json:"created_at" yaml:"-"`
}

// ResourceFilter narrows resource listings.
type ResourceFilter struct {
	Category     string
	FeaturedOnly bool
	Search       string
}

// CrimeAlert is an entry of the area crime feed.
type CrimeAlert struct {
	ID          string    `json:"id" yaml:"id"`
	Type        string    `json:"type" yaml:"type"`
	Severity    Severity  `json:"severity" yaml:"severity"`
	Location    string    `json:"location" yaml:"location"`
	Description string    `json:"description" yaml:"description"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
	Distance    string    `json:"distance" yaml:"distance"`
}

// CrimeStats summarises recent activity around the user.
type CrimeStats struct {
	TotalIncidents int      `json:"totalIncidents" yaml:"total_incidents"`
	RiskLevel      string   `json:"riskLevel" yaml:"risk_level"`
	Trending       string   `json:"trending" yaml:"trending"`
	CommonCrimes   []string `json:"commonCrimes" yaml:"common_crimes"`
}

// CrimeFeed is what the dashboard shows.
type CrimeFeed struct {
	Alerts []CrimeAlert `json:"alerts"`
	Stats  CrimeStats   `json:"stats"`
}

// AuditEventType classifies security audit entries.
type AuditEventType string

const (
	AuditLoginSuccess       AuditEventType = "auth_login_success"
	AuditLoginFailed        AuditEventType = "auth_login_failed"
	AuditLogout             AuditEventType = "auth_logout"
	AuditRoleChangeAttempt  AuditEventType = "role_change_attempt"
	AuditSuspiciousActivity AuditEventType = "suspicious_activity"
	AuditDataAccess         AuditEventType = "data_access"
	AuditAdminAction        AuditEventType = "admin_action"
)

// AuditEvent is a row in the security audit log.
type AuditEvent struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id,omitempty"`
	EventType AuditEventType `json:"event_type"`
	EventData map[string]any `json:"event_data,omitempty"`
	IPAddress string         `json:"ip_address,omitempty"`
	UserAgent string         `json:"user_agent,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// NotificationKind separates browser notifications from in-app toasts.
type NotificationKind string

const (
	NotifyDesktop NotificationKind = "desktop"
	NotifyToast   NotificationKind = "toast"
)

// Notification is pushed to a user's live session.
type Notification struct {
	UserID  string           `json:"user_id"`
	Kind    NotificationKind `json:"kind"`
	Title   string           `json:"title"`
	Body    string           `json:"body"`
	Tag     string           `json:"tag,omitempty"`
	Variant string           `json:"variant,omitempty"`
	At      time.Time        `json:"at"`
}

// SMSMessage is a text message handed to an SMS sender.
type SMSMessage struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// Requester is the authenticated caller of a use case.
type Requester struct {
	UserID string
	Admin  bool
}

// CanAccess reports whether the requester may read data owned by userID.
func (r Requester) CanAccess(userID string) bool {
	return r.Admin || (r.UserID != "" && r.UserID == userID)
}
