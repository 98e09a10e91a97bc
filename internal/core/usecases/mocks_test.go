package usecases_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/samirrijal/digitalshield/internal/core/domain"
)

// --- In-memory AlertRepository ---

type memAlertRepo struct {
	mu     sync.Mutex
	alerts []domain.Alert
}

func (m *memAlertRepo) Insert(ctx context.Context, a *domain.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, *a)
	return nil
}

func (m *memAlertRepo) List(ctx context.Context, userID string) ([]domain.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Alert
	for _, a := range m.alerts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memAlertRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, a := range m.alerts {
		if a.UserID == userID && !a.Read {
			n++
		}
	}
	return n, nil
}

func (m *memAlertRepo) MarkRead(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.alerts {
		if m.alerts[i].UserID == userID && m.alerts[i].ID == id {
			m.alerts[i].Read = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memAlertRepo) MarkAllRead(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.alerts {
		if m.alerts[i].UserID == userID {
			m.alerts[i].Read = true
		}
	}
	return nil
}

func (m *memAlertRepo) Delete(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.alerts {
		if m.alerts[i].UserID == userID && m.alerts[i].ID == id {
			m.alerts = append(m.alerts[:i], m.alerts[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memAlertRepo) DeleteAll(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.alerts[:0]
	for _, a := range m.alerts {
		if a.UserID != userID {
			kept = append(kept, a)
		}
	}
	m.alerts = kept
	return nil
}

// --- Mock ReportRepository ---

type mockReportRepo struct {
	insertFn       func(ctx context.Context, r *domain.IncidentReport) error
	getFn          func(ctx context.Context, caseID string) (*domain.IncidentReport, error)
	listFn         func(ctx context.Context, userID string, f domain.ReportFilter) ([]domain.IncidentReport, error)
	updateStatusFn func(ctx context.Context, caseID string, status domain.ReportStatus, agent string) (*domain.IncidentReport, error)
	statsFn        func(ctx context.Context) (*domain.ReportStats, error)
}

func (m *mockReportRepo) Insert(ctx context.Context, r *domain.IncidentReport) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, r)
	}
	r.ID = "rep-1"
	return nil
}

func (m *mockReportRepo) GetByCaseID(ctx context.Context, caseID string) (*domain.IncidentReport, error) {
	if m.getFn != nil {
		return m.getFn(ctx, caseID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockReportRepo) List(ctx context.Context, userID string, f domain.ReportFilter) ([]domain.IncidentReport, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, f)
	}
	return nil, nil
}

func (m *mockReportRepo) UpdateStatus(ctx context.Context, caseID string, status domain.ReportStatus, agent string) (*domain.IncidentReport, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, caseID, status, agent)
	}
	return nil, domain.ErrNotFound
}

func (m *mockReportRepo) Stats(ctx context.Context) (*domain.ReportStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return &domain.ReportStats{}, nil
}

// --- Mock ProfileRepository ---

type mockProfileRepo struct {
	getFn    func(ctx context.Context, userID string) (*domain.Profile, error)
	upsertFn func(ctx context.Context, p *domain.Profile) error
}

func (m *mockProfileRepo) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockProfileRepo) Upsert(ctx context.Context, p *domain.Profile) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, p)
	}
	return nil
}

// --- Mock LinkCheckRepository ---

type mockLinkRepo struct {
	mu       sync.Mutex
	inserted []domain.LinkCheck
	listFn   func(ctx context.Context, userID string, limit int) ([]domain.LinkCheck, error)
}

func (m *mockLinkRepo) Insert(ctx context.Context, c *domain.LinkCheck) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserted = append(m.inserted, *c)
	return nil
}

func (m *mockLinkRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.LinkCheck, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, limit)
	}
	return nil, nil
}

// --- Mock ChatRepository ---

type mockChatRepo struct {
	inserted []domain.ChatMessage
	err      error
}

func (m *mockChatRepo) Insert(ctx context.Context, msg *domain.ChatMessage) error {
	if m.err != nil {
		return m.err
	}
	m.inserted = append(m.inserted, *msg)
	return nil
}

func (m *mockChatRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	for _, msg := range m.inserted {
		if msg.SessionID == sessionID {
			out = append(out, msg)
		}
	}
	return out, nil
}

// --- Mock ResourceRepository ---

type mockResourceRepo struct {
	listCalls int
	upserted  []string
	listFn    func(ctx context.Context, f domain.ResourceFilter) ([]domain.Resource, error)
	getFn     func(ctx context.Context, id string) (*domain.Resource, error)
}

func (m *mockResourceRepo) Upsert(ctx context.Context, r *domain.Resource) error {
	m.upserted = append(m.upserted, r.ID)
	return nil
}

func (m *mockResourceRepo) GetByID(ctx context.Context, id string) (*domain.Resource, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockResourceRepo) List(ctx context.Context, f domain.ResourceFilter) ([]domain.Resource, error) {
	m.listCalls++
	if m.listFn != nil {
		return m.listFn(ctx, f)
	}
	return nil, nil
}

// --- Mock AreaRepository ---

type mockAreaRepo struct {
	upserted []string
}

func (m *mockAreaRepo) Upsert(ctx context.Context, a *domain.MonitoredArea) error {
	m.upserted = append(m.upserted, a.ID)
	return nil
}

func (m *mockAreaRepo) List(ctx context.Context) ([]domain.MonitoredArea, error) { return nil, nil }

// --- Mock AuditRepository ---

type mockAuditRepo struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	err    error
}

func (m *mockAuditRepo) Insert(ctx context.Context, ev *domain.AuditEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, *ev)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu      sync.Mutex
	events  []domain.GeofenceEvent
	reports []domain.ReportSubmitted
	err     error
}

func (m *mockPublisher) PublishGeofenceEvent(ctx context.Context, ev *domain.GeofenceEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, *ev)
	return m.err
}

func (m *mockPublisher) PublishReportSubmitted(ctx context.Context, ev *domain.ReportSubmitted) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, *ev)
	return m.err
}

// --- Mock NotificationPublisher ---

type mockPush struct {
	mu   sync.Mutex
	sent []domain.Notification
	err  error
}

func (m *mockPush) PublishNotification(ctx context.Context, n *domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, *n)
	return nil
}

// --- Mock SMSSender ---

type mockSMS struct {
	sent   []domain.SMSMessage
	failTo string
}

func (m *mockSMS) Send(ctx context.Context, msg domain.SMSMessage) error {
	if msg.To == m.failTo {
		return errors.New("carrier unavailable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

// --- Mock AreaEntryNotifier ---

type mockNotifier struct {
	mu     sync.Mutex
	events []domain.GeofenceEvent
	err    error
}

func (m *mockNotifier) NotifyAreaEntry(ctx context.Context, ev domain.GeofenceEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return m.err
}

func (m *mockNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

// --- Mock CacheService ---

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttl  map[string]int
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]byte{}, ttl: map[string]int{}}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttl[key] = ttlSeconds
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// --- Mock ReportExporter ---

type mockExporter struct {
	receipts int
	rows     int
}

func (m *mockExporter) Receipt(r *domain.IncidentReport) ([]byte, error) {
	m.receipts++
	return []byte("%PDF-" + r.CaseID), nil
}

func (m *mockExporter) Spreadsheet(rs []domain.IncidentReport) ([]byte, error) {
	m.rows = len(rs)
	return []byte("PK"), nil
}
