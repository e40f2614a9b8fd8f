// Package testutil provides mock implementations for testing the billing
// application layer.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"inboxlift/internal/domain/billing"
	"inboxlift/internal/domain/pricing"
)

type tierState struct {
	id           uint
	priceCents   int64
	currentSeats int
	maxSeats     int
	isActive     bool
}

// MockTierRepository is an in-memory pricing.TierRepository with the same
// atomic seat semantics as the SQL implementation.
type MockTierRepository struct {
	mu     sync.Mutex
	tiers  map[string]*tierState
	nextID uint

	reserveError error
	getError     error

	ReserveCalls int
	ReleaseCalls int
}

// NewMockTierRepository creates a new mock tier repository.
func NewMockTierRepository() *MockTierRepository {
	return &MockTierRepository{tiers: make(map[string]*tierState)}
}

// AddTier seeds a tier with the given seat usage.
func (m *MockTierRepository) AddTier(name string, priceCents int64, currentSeats, maxSeats int, isActive bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.tiers[name] = &tierState{
		id:           m.nextID,
		priceCents:   priceCents,
		currentSeats: currentSeats,
		maxSeats:     maxSeats,
		isActive:     isActive,
	}
}

// CurrentSeats reports the seat counter for assertions.
func (m *MockTierRepository) CurrentSeats(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state := m.tiers[name]; state != nil {
		return state.currentSeats
	}
	return 0
}

// SetReserveError sets the error to return on ReserveSeat calls.
func (m *MockTierRepository) SetReserveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reserveError = err
}

// GetByName returns the named tier or pricing.ErrTierNotFound.
func (m *MockTierRepository) GetByName(ctx context.Context, name string) (*pricing.Tier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return nil, m.getError
	}
	state := m.tiers[name]
	if state == nil {
		return nil, pricing.ErrTierNotFound
	}
	return m.toTierLocked(name, state)
}

// ListActive returns all enabled tiers.
func (m *MockTierRepository) ListActive(ctx context.Context) ([]*pricing.Tier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var tiers []*pricing.Tier
	for _, name := range []string{pricing.TierFoundersProgram, pricing.TierRegularProgram} {
		state := m.tiers[name]
		if state == nil || !state.isActive {
			continue
		}
		tier, err := m.toTierLocked(name, state)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, tier)
	}
	return tiers, nil
}

// ReserveSeat increments the seat counter while below the cap.
func (m *MockTierRepository) ReserveSeat(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReserveCalls++
	if m.reserveError != nil {
		return m.reserveError
	}
	state := m.tiers[name]
	if state == nil || !state.isActive || state.currentSeats >= state.maxSeats {
		return pricing.ErrSoldOut
	}
	state.currentSeats++
	return nil
}

// ReleaseSeat decrements the seat counter, clamped at zero.
func (m *MockTierRepository) ReleaseSeat(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReleaseCalls++
	state := m.tiers[name]
	if state == nil {
		return nil
	}
	if state.currentSeats > 0 {
		state.currentSeats--
	}
	return nil
}

// Save upserts the tier definition without touching seat counters.
func (m *MockTierRepository) Save(ctx context.Context, tier *pricing.Tier) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	state := m.tiers[tier.Name()]
	if state == nil {
		m.nextID++
		state = &tierState{id: m.nextID}
		m.tiers[tier.Name()] = state
	}
	state.priceCents = tier.PriceCents()
	state.maxSeats = tier.MaxSeats()
	state.isActive = tier.IsActive()
	return nil
}

func (m *MockTierRepository) toTierLocked(name string, state *tierState) (*pricing.Tier, error) {
	now := time.Now().UTC()
	return pricing.ReconstructTier(state.id, name, state.priceCents, state.currentSeats, state.maxSeats, state.isActive, now, now)
}

// MockReservationRepository is an in-memory billing.ReservationRepository.
type MockReservationRepository struct {
	mu           sync.Mutex
	reservations map[string]*billing.Reservation
	settled      map[string]bool
	nextID       uint

	createError error
	updateError error
}

// NewMockReservationRepository creates a new mock reservation repository.
func NewMockReservationRepository() *MockReservationRepository {
	return &MockReservationRepository{
		reservations: make(map[string]*billing.Reservation),
		settled:      make(map[string]bool),
	}
}

// SetCreateError sets the error to return on Create calls.
func (m *MockReservationRepository) SetCreateError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createError = err
}

// Create stores a reservation.
func (m *MockReservationRepository) Create(ctx context.Context, reservation *billing.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createError != nil {
		return m.createError
	}
	if reservation.ID() == 0 {
		m.nextID++
		if err := reservation.SetID(m.nextID); err != nil {
			return err
		}
	}
	m.reservations[reservation.SID()] = reservation
	return nil
}

// Update persists reservation mutations.
func (m *MockReservationRepository) Update(ctx context.Context, reservation *billing.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateError != nil {
		return m.updateError
	}
	m.reservations[reservation.SID()] = reservation
	return nil
}

// SettlePending applies a transition out of pending only when the stored
// copy is still pending, mirroring the conditional UPDATE of the SQL
// implementation.
func (m *MockReservationRepository) SettlePending(ctx context.Context, reservation *billing.Reservation) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateError != nil {
		return false, m.updateError
	}
	if m.settled[reservation.SID()] {
		return false, nil
	}
	m.settled[reservation.SID()] = true
	m.reservations[reservation.SID()] = reservation
	return true, nil
}

// GetBySID returns a stored reservation for assertions.
func (m *MockReservationRepository) GetBySID(sid string) *billing.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reservations[sid]
}

// GetByProviderSessionID resolves the reservation a webhook refers to.
func (m *MockReservationRepository) GetByProviderSessionID(ctx context.Context, sessionID string) (*billing.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sessionID == "" {
		return nil, nil
	}
	for _, r := range m.reservations {
		if r.ProviderSessionID() == sessionID {
			return r, nil
		}
	}
	return nil, nil
}

// ListExpiredPending returns pending reservations past their TTL.
func (m *MockReservationRepository) ListExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]*billing.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var expired []*billing.Reservation
	for _, r := range m.reservations {
		if r.Status() == billing.ReservationStatusPending && r.ExpiresAt().Before(cutoff) {
			expired = append(expired, r)
			if len(expired) >= limit {
				break
			}
		}
	}
	return expired, nil
}

// MockCheckoutProvider is a canned billing.CheckoutProvider.
type MockCheckoutProvider struct {
	mu       sync.Mutex
	err      error
	sessions int

	Calls []string
}

// NewMockCheckoutProvider creates a new mock checkout provider.
func NewMockCheckoutProvider() *MockCheckoutProvider {
	return &MockCheckoutProvider{}
}

// SetError makes session creation fail.
func (m *MockCheckoutProvider) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// CreateSession returns a synthetic hosted checkout session.
func (m *MockCheckoutProvider) CreateSession(ctx context.Context, email, tierName string) (*billing.CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, tierName)
	if m.err != nil {
		return nil, m.err
	}
	m.sessions++
	sessionID := fmt.Sprintf("cs_test_%03d", m.sessions)
	return &billing.CheckoutSession{
		ProviderSessionID: sessionID,
		URL:               "https://checkout.example.com/" + sessionID,
	}, nil
}
