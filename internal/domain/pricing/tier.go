// Package pricing models the seat-limited subscription tiers: the founders
// program is offered while seats remain, then pricing falls back to the
// regular program.
package pricing

import (
	"fmt"
	"time"
)

// Tier names. Exactly one tier is active at a time: founders while
// current_seats < max_seats, regular afterwards.
const (
	TierFoundersProgram = "founders_program"
	TierRegularProgram  = "regular_program"
)

// Tier is the pricing tier aggregate backed by the subscription_tiers table.
type Tier struct {
	id           uint
	name         string
	priceCents   int64
	currentSeats int
	maxSeats     int
	isActive     bool
	createdAt    time.Time
	updatedAt    time.Time
}

// NewTier creates a tier definition.
func NewTier(name string, priceCents int64, maxSeats int) (*Tier, error) {
	if name != TierFoundersProgram && name != TierRegularProgram {
		return nil, fmt.Errorf("unknown tier name: %q", name)
	}
	if priceCents <= 0 {
		return nil, ErrInvalidPrice
	}
	if maxSeats < 0 {
		return nil, fmt.Errorf("max seats cannot be negative")
	}

	now := time.Now().UTC()
	return &Tier{
		name:       name,
		priceCents: priceCents,
		maxSeats:   maxSeats,
		isActive:   true,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ReconstructTier rebuilds a tier from persistence.
func ReconstructTier(
	id uint,
	name string,
	priceCents int64,
	currentSeats int,
	maxSeats int,
	isActive bool,
	createdAt, updatedAt time.Time,
) (*Tier, error) {
	if id == 0 {
		return nil, fmt.Errorf("tier ID cannot be zero")
	}
	if name == "" {
		return nil, fmt.Errorf("tier name is required")
	}
	if currentSeats < 0 || maxSeats < 0 {
		return nil, fmt.Errorf("seat counts cannot be negative")
	}

	return &Tier{
		id:           id,
		name:         name,
		priceCents:   priceCents,
		currentSeats: currentSeats,
		maxSeats:     maxSeats,
		isActive:     isActive,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

// ID returns the tier ID
func (t *Tier) ID() uint { return t.id }

// Name returns the tier name
func (t *Tier) Name() string { return t.name }

// PriceCents returns the tier price in cents
func (t *Tier) PriceCents() int64 { return t.priceCents }

// CurrentSeats returns the number of reserved seats
func (t *Tier) CurrentSeats() int { return t.currentSeats }

// MaxSeats returns the seat cap; 0 means uncapped
func (t *Tier) MaxSeats() int { return t.maxSeats }

// IsActive returns whether the tier is enabled at all
func (t *Tier) IsActive() bool { return t.isActive }

// CreatedAt returns when the tier was created
func (t *Tier) CreatedAt() time.Time { return t.createdAt }

// UpdatedAt returns when the tier was last updated
func (t *Tier) UpdatedAt() time.Time { return t.updatedAt }

// SeatLimited reports whether the tier has a seat cap.
func (t *Tier) SeatLimited() bool {
	return t.maxSeats > 0
}

// HasSeatsAvailable reports whether a seat can still be reserved.
// Uncapped tiers always have seats.
func (t *Tier) HasSeatsAvailable() bool {
	if !t.SeatLimited() {
		return true
	}
	return t.currentSeats < t.maxSeats
}

// SeatsRemaining returns how many seats are left, 0 for sold out. Uncapped
// tiers report 0; callers should check SeatLimited first.
func (t *Tier) SeatsRemaining() int {
	if !t.SeatLimited() {
		return 0
	}
	remaining := t.maxSeats - t.currentSeats
	if remaining < 0 {
		return 0
	}
	return remaining
}
