package pricing

import "errors"

var (
	ErrTierNotFound = errors.New("pricing tier not found")
	ErrInvalidPrice = errors.New("invalid tier price")
	// ErrSoldOut means a seat reservation would push current_seats past
	// max_seats. Checkout falls back to the regular tier instead of
	// failing.
	ErrSoldOut = errors.New("founders program sold out")
)
