package billing

import (
	"context"
	"time"
)

// ReservationRepository persists checkout seat reservations.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *Reservation) error
	Update(ctx context.Context, reservation *Reservation) error

	// SettlePending persists a reservation's transition out of pending.
	// Returns false when the stored row was no longer pending, meaning a
	// concurrent settler already took the transition; the caller must not
	// release the seat again in that case.
	SettlePending(ctx context.Context, reservation *Reservation) (bool, error)

	// GetByProviderSessionID resolves the reservation a billing webhook
	// refers to. Returns nil when no reservation matches (sessions for
	// the uncapped regular tier take no reservation).
	GetByProviderSessionID(ctx context.Context, sessionID string) (*Reservation, error)

	// ListExpiredPending returns pending reservations whose TTL passed
	// before cutoff, for the compensating sweeper.
	ListExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]*Reservation, error)
}
