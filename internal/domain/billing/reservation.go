package billing

import (
	"fmt"
	"time"

	"inboxlift/internal/shared/id"
)

// ReservationStatus is the lifecycle state of an optimistic seat
// reservation taken at checkout-session creation.
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusReleased  ReservationStatus = "released"
)

// IsValid checks if the reservation status is valid
func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusCompleted, ReservationStatusReleased:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status
func (s ReservationStatus) String() string {
	return string(s)
}

// Reservation tracks one optimistic founders seat held for a checkout
// session. The seat is given back when the provider reports the session
// expired, or when the TTL sweeper finds the reservation still pending past
// its deadline (abandoned checkout).
type Reservation struct {
	reservationID     uint
	sid               string
	email             string
	tierName          string
	providerSessionID string
	status            ReservationStatus
	expiresAt         time.Time
	createdAt         time.Time
	updatedAt         time.Time
}

// NewReservation creates a pending seat reservation with the given TTL.
func NewReservation(email, tierName string, ttl time.Duration) (*Reservation, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if tierName == "" {
		return nil, fmt.Errorf("tier name is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("reservation TTL must be positive")
	}

	sid, err := id.GenerateWithPrefix(id.PrefixCheckout, id.DefaultLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate reservation sid: %w", err)
	}

	now := time.Now().UTC()
	return &Reservation{
		sid:       sid,
		email:     email,
		tierName:  tierName,
		status:    ReservationStatusPending,
		expiresAt: now.Add(ttl),
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructReservation rebuilds a reservation from persistence.
func ReconstructReservation(
	reservationID uint,
	sid string,
	email string,
	tierName string,
	providerSessionID string,
	status ReservationStatus,
	expiresAt time.Time,
	createdAt, updatedAt time.Time,
) (*Reservation, error) {
	if reservationID == 0 {
		return nil, fmt.Errorf("reservation ID cannot be zero")
	}
	if err := id.ValidatePrefix(sid, id.PrefixCheckout); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid reservation status: %s", status)
	}

	return &Reservation{
		reservationID:     reservationID,
		sid:               sid,
		email:             email,
		tierName:          tierName,
		providerSessionID: providerSessionID,
		status:            status,
		expiresAt:         expiresAt,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}, nil
}

// ID returns the reservation ID
func (r *Reservation) ID() uint { return r.reservationID }

// SID returns the public identifier (chk_xxx)
func (r *Reservation) SID() string { return r.sid }

// Email returns the checkout email
func (r *Reservation) Email() string { return r.email }

// TierName returns the tier the seat was reserved on
func (r *Reservation) TierName() string { return r.tierName }

// ProviderSessionID returns the billing provider's session ID
func (r *Reservation) ProviderSessionID() string { return r.providerSessionID }

// Status returns the reservation status
func (r *Reservation) Status() ReservationStatus { return r.status }

// ExpiresAt returns the TTL deadline for pending reservations
func (r *Reservation) ExpiresAt() time.Time { return r.expiresAt }

// CreatedAt returns when the reservation was taken
func (r *Reservation) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns when the reservation was last updated
func (r *Reservation) UpdatedAt() time.Time { return r.updatedAt }

// SetID sets the reservation ID (only for persistence layer use)
func (r *Reservation) SetID(reservationID uint) error {
	if r.reservationID != 0 {
		return fmt.Errorf("reservation ID is already set")
	}
	if reservationID == 0 {
		return fmt.Errorf("reservation ID cannot be zero")
	}
	r.reservationID = reservationID
	return nil
}

// AttachProviderSession binds the provider session created for this
// reservation.
func (r *Reservation) AttachProviderSession(sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("provider session ID cannot be empty")
	}
	r.providerSessionID = sessionID
	r.updatedAt = time.Now().UTC()
	return nil
}

// Complete marks the reservation as paid for; the seat is kept.
func (r *Reservation) Complete() error {
	if r.status == ReservationStatusCompleted {
		return nil
	}
	if r.status == ReservationStatusReleased {
		return fmt.Errorf("cannot complete a released reservation")
	}
	r.status = ReservationStatusCompleted
	r.updatedAt = time.Now().UTC()
	return nil
}

// Release gives the seat back: abandoned, expired, or failed checkout.
func (r *Reservation) Release() error {
	if r.status == ReservationStatusReleased {
		return nil
	}
	if r.status == ReservationStatusCompleted {
		return fmt.Errorf("cannot release a completed reservation")
	}
	r.status = ReservationStatusReleased
	r.updatedAt = time.Now().UTC()
	return nil
}

// IsExpired reports whether a pending reservation has passed its TTL.
func (r *Reservation) IsExpired(now time.Time) bool {
	return r.status == ReservationStatusPending && now.After(r.expiresAt)
}
