// Package testutil provides mock implementations for testing the
// entitlement application layer.
package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"inboxlift/internal/domain/entitlement"
	"inboxlift/internal/shared/logger"
)

// MockUsageRecordRepository is an in-memory entitlement.UsageRecordRepository.
type MockUsageRecordRepository struct {
	mu      sync.RWMutex
	records map[string]*entitlement.UsageRecord
	nextID  uint

	// Error injection for testing
	getError       error
	createError    error
	incrementError error
	resetError     error
	updateError    error

	// Call tracking
	IncrementCalls int
	ResetCalls     int
}

// NewMockUsageRecordRepository creates a new mock usage record repository.
func NewMockUsageRecordRepository() *MockUsageRecordRepository {
	return &MockUsageRecordRepository{
		records: make(map[string]*entitlement.UsageRecord),
	}
}

// AddRecord seeds a record into the mock.
func (m *MockUsageRecordRepository) AddRecord(record *entitlement.UsageRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if record.ID() == 0 {
		m.nextID++
		_ = record.SetID(m.nextID)
	}
	m.records[record.Email()] = record
}

// GetByEmail retrieves a record by email, nil when absent.
func (m *MockUsageRecordRepository) GetByEmail(ctx context.Context, email string) (*entitlement.UsageRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getError != nil {
		return nil, m.getError
	}
	return m.records[email], nil
}

// GetByEmailForUpdate behaves like GetByEmail; the mock has no row locks.
func (m *MockUsageRecordRepository) GetByEmailForUpdate(ctx context.Context, email string) (*entitlement.UsageRecord, error) {
	return m.GetByEmail(ctx, email)
}

// Create inserts a fresh record.
func (m *MockUsageRecordRepository) Create(ctx context.Context, record *entitlement.UsageRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createError != nil {
		return m.createError
	}
	if record.ID() == 0 {
		m.nextID++
		if err := record.SetID(m.nextID); err != nil {
			return err
		}
	}
	m.records[record.Email()] = record
	return nil
}

// IncrementUsage emulates the SQL-side upsert-and-increment.
func (m *MockUsageRecordRepository) IncrementUsage(ctx context.Context, email string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.incrementError != nil {
		return m.incrementError
	}
	m.IncrementCalls++

	record, err := m.ensureRecordLocked(email)
	if err != nil {
		return err
	}
	record.RecordUse(now)
	return nil
}

// ResetAndRecordUse emulates the paid-transition upsert: counter to 1,
// status to paid.
func (m *MockUsageRecordRepository) ResetAndRecordUse(ctx context.Context, email string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.resetError != nil {
		return m.resetError
	}
	m.ResetCalls++

	record, err := m.ensureRecordLocked(email)
	if err != nil {
		return err
	}
	if _, err := record.ObserveSubscription(entitlement.StatusPaid); err != nil {
		return err
	}
	record.RecordUse(now)
	return nil
}

// UpdateObservedStatus persists the observed status without moving counters.
func (m *MockUsageRecordRepository) UpdateObservedStatus(ctx context.Context, email string, status entitlement.SubscriptionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateError != nil {
		return m.updateError
	}
	record := m.records[email]
	if record == nil {
		return nil
	}
	_, err := record.ObserveSubscription(status)
	return err
}

// Update persists claim mutations.
func (m *MockUsageRecordRepository) Update(ctx context.Context, record *entitlement.UsageRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateError != nil {
		return m.updateError
	}
	m.records[record.Email()] = record
	return nil
}

func (m *MockUsageRecordRepository) ensureRecordLocked(email string) (*entitlement.UsageRecord, error) {
	if record := m.records[email]; record != nil {
		return record, nil
	}
	record, err := entitlement.NewUsageRecord(email)
	if err != nil {
		return nil, err
	}
	m.nextID++
	if err := record.SetID(m.nextID); err != nil {
		return nil, err
	}
	m.records[email] = record
	return record, nil
}

// SetGetError sets the error to return on read calls.
func (m *MockUsageRecordRepository) SetGetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getError = err
}

// SetIncrementError sets the error to return on IncrementUsage calls.
func (m *MockUsageRecordRepository) SetIncrementError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.incrementError = err
}

// MockPromotionalAccessRepository is an in-memory grant store.
type MockPromotionalAccessRepository struct {
	mu      sync.RWMutex
	granted map[string]bool
	err     error
}

// NewMockPromotionalAccessRepository creates a new mock grant store.
func NewMockPromotionalAccessRepository() *MockPromotionalAccessRepository {
	return &MockPromotionalAccessRepository{granted: make(map[string]bool)}
}

// Grant marks an email as holding an active promotional grant.
func (m *MockPromotionalAccessRepository) Grant(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.granted[email] = true
}

// SetError sets the error to return on lookups.
func (m *MockPromotionalAccessRepository) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// HasActiveGrant reports grant membership.
func (m *MockPromotionalAccessRepository) HasActiveGrant(ctx context.Context, email string, now time.Time) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return false, m.err
	}
	return m.granted[email], nil
}

// MockUnlimitedUserRepository is an in-memory allow-list.
type MockUnlimitedUserRepository struct {
	mu      sync.RWMutex
	members map[string]bool
	err     error
}

// NewMockUnlimitedUserRepository creates a new mock allow-list.
func NewMockUnlimitedUserRepository() *MockUnlimitedUserRepository {
	return &MockUnlimitedUserRepository{members: make(map[string]bool)}
}

// Add puts an email on the allow-list.
func (m *MockUnlimitedUserRepository) Add(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[email] = true
}

// IsUnlimited reports allow-list membership.
func (m *MockUnlimitedUserRepository) IsUnlimited(ctx context.Context, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return false, m.err
	}
	return m.members[email], nil
}

// MockEvidenceRepository is an in-memory share evidence store.
type MockEvidenceRepository struct {
	mu        sync.RWMutex
	evidences map[string][]*entitlement.Evidence
	nextID    uint

	createError error
	listError   error
}

// NewMockEvidenceRepository creates a new mock evidence store.
func NewMockEvidenceRepository() *MockEvidenceRepository {
	return &MockEvidenceRepository{evidences: make(map[string][]*entitlement.Evidence)}
}

// Create stores a piece of share evidence.
func (m *MockEvidenceRepository) Create(ctx context.Context, evidence *entitlement.Evidence) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createError != nil {
		return m.createError
	}
	if evidence.ID() == 0 {
		m.nextID++
		if err := evidence.SetID(m.nextID); err != nil {
			return err
		}
	}
	m.evidences[evidence.Email()] = append(m.evidences[evidence.Email()], evidence)
	return nil
}

// ListByEmail returns stored evidence for an email.
func (m *MockEvidenceRepository) ListByEmail(ctx context.Context, email string) ([]*entitlement.Evidence, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.listError != nil {
		return nil, m.listError
	}
	return append([]*entitlement.Evidence(nil), m.evidences[email]...), nil
}

// SetListError sets the error to return on ListByEmail calls.
func (m *MockEvidenceRepository) SetListError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listError = err
}

// MockStatusCache is an in-memory subscription status cache.
type MockStatusCache struct {
	mu      sync.RWMutex
	entries map[string]entitlement.SubscriptionStatus

	getError error
	setError error

	SetCalls        int
	InvalidateCalls int
}

// NewMockStatusCache creates a new mock status cache.
func NewMockStatusCache() *MockStatusCache {
	return &MockStatusCache{entries: make(map[string]entitlement.SubscriptionStatus)}
}

// Get returns the cached status for an email.
func (m *MockStatusCache) Get(ctx context.Context, email string) (entitlement.SubscriptionStatus, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getError != nil {
		return "", false, m.getError
	}
	status, found := m.entries[email]
	return status, found, nil
}

// Set caches the status for an email.
func (m *MockStatusCache) Set(ctx context.Context, email string, status entitlement.SubscriptionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	if m.setError != nil {
		return m.setError
	}
	m.entries[email] = status
	return nil
}

// Invalidate drops the cached status for an email.
func (m *MockStatusCache) Invalidate(ctx context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InvalidateCalls++
	delete(m.entries, email)
	return nil
}

// Cached reports what the cache currently holds for an email.
func (m *MockStatusCache) Cached(email string) (entitlement.SubscriptionStatus, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	status, found := m.entries[email]
	return status, found
}

// SetGetError sets the error to return on Get calls.
func (m *MockStatusCache) SetGetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getError = err
}

// MockSubscriptionOracle is a canned billing oracle.
type MockSubscriptionOracle struct {
	mu         sync.RWMutex
	subscribed map[string]bool
	err        error

	Calls int
}

// NewMockSubscriptionOracle creates a new mock oracle.
func NewMockSubscriptionOracle() *MockSubscriptionOracle {
	return &MockSubscriptionOracle{subscribed: make(map[string]bool)}
}

// Subscribe marks an email as a paying subscriber.
func (m *MockSubscriptionOracle) Subscribe(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribed[email] = true
}

// SetError makes the oracle unavailable.
func (m *MockSubscriptionOracle) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// IsSubscribed reports subscription state.
func (m *MockSubscriptionOracle) IsSubscribed(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.err != nil {
		return false, m.err
	}
	return m.subscribed[email], nil
}

// NotificationCall records one bonus email send.
type NotificationCall struct {
	To             string
	CreditsAwarded int
	TotalCredits   int
}

// MockBonusNotifier records bonus notification sends.
type MockBonusNotifier struct {
	mu    sync.Mutex
	calls []NotificationCall
	err   error
}

// NewMockBonusNotifier creates a new mock notifier.
func NewMockBonusNotifier() *MockBonusNotifier {
	return &MockBonusNotifier{}
}

// SendBonusAwarded records the send.
func (m *MockBonusNotifier) SendBonusAwarded(to string, creditsAwarded, totalCredits int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.calls = append(m.calls, NotificationCall{To: to, CreditsAwarded: creditsAwarded, TotalCredits: totalCredits})
	return nil
}

// GetCalls returns the recorded sends.
func (m *MockBonusNotifier) GetCalls() []NotificationCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]NotificationCall(nil), m.calls...)
}

// MockNoteSanitizer trims whitespace, standing in for the HTML scrubber.
type MockNoteSanitizer struct{}

// NewMockNoteSanitizer creates a new mock sanitizer.
func NewMockNoteSanitizer() *MockNoteSanitizer {
	return &MockNoteSanitizer{}
}

// SanitizePlain trims the input.
func (m *MockNoteSanitizer) SanitizePlain(input string) string {
	return strings.TrimSpace(input)
}

// LogEntry is one captured log line.
type LogEntry struct {
	Level   string
	Message string
	Fields  []interface{}
}

// MockLogger is a mock implementation of logger.Interface for testing.
type MockLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewMockLogger creates a new mock logger.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) Debug(msg string, args ...any) { m.log("debug", msg, args...) }
func (m *MockLogger) Info(msg string, args ...any)  { m.log("info", msg, args...) }
func (m *MockLogger) Warn(msg string, args ...any)  { m.log("warn", msg, args...) }
func (m *MockLogger) Error(msg string, args ...any) { m.log("error", msg, args...) }
func (m *MockLogger) Fatal(msg string, args ...any) { m.log("fatal", msg, args...) }

func (m *MockLogger) With(args ...any) logger.Interface  { return m }
func (m *MockLogger) Named(name string) logger.Interface { return m }

func (m *MockLogger) Debugw(msg string, keysAndValues ...interface{}) {
	m.log("debug", msg, keysAndValues...)
}
func (m *MockLogger) Infow(msg string, keysAndValues ...interface{}) {
	m.log("info", msg, keysAndValues...)
}
func (m *MockLogger) Warnw(msg string, keysAndValues ...interface{}) {
	m.log("warn", msg, keysAndValues...)
}
func (m *MockLogger) Errorw(msg string, keysAndValues ...interface{}) {
	m.log("error", msg, keysAndValues...)
}
func (m *MockLogger) Fatalw(msg string, keysAndValues ...interface{}) {
	m.log("fatal", msg, keysAndValues...)
}

func (m *MockLogger) log(level, msg string, fields ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, LogEntry{Level: level, Message: msg, Fields: fields})
}

// GetEntries returns the captured log lines.
func (m *MockLogger) GetEntries() []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LogEntry(nil), m.entries...)
}
