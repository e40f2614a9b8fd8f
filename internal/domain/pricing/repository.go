package pricing

import "context"

// TierRepository persists pricing tiers. Seat arithmetic must happen inside
// the database: the bound check and the increment are one conditional
// statement, never a read followed by a write, so concurrent checkouts can
// never overbook the founders program.
type TierRepository interface {
	// GetByName returns the named tier, or ErrTierNotFound.
	GetByName(ctx context.Context, name string) (*Tier, error)

	// ListActive returns all enabled tiers.
	ListActive(ctx context.Context) ([]*Tier, error)

	// ReserveSeat atomically increments current_seats for the named tier,
	// but only while current_seats < max_seats. Returns ErrSoldOut when no
	// seat could be reserved.
	ReserveSeat(ctx context.Context, name string) error

	// ReleaseSeat atomically decrements current_seats, clamped at zero.
	// Used to compensate abandoned or failed checkouts.
	ReleaseSeat(ctx context.Context, name string) error

	// Save persists a tier definition (seed/upsert path).
	Save(ctx context.Context, tier *Tier) error
}
