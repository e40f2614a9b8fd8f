package ratelimit

import (
	"context"
	"time"
)

// Limits describes per-window request caps. A zero limit disables the
// window.
type Limits struct {
	PerMinute int
	PerDay    int
}

type RateLimiter interface {
	// Allow reports whether the caller identified by key may proceed, and
	// records the attempt.
	Allow(ctx context.Context, key string, limits Limits) (bool, error)

	// Remaining returns how many requests the key has used in the window.
	Remaining(ctx context.Context, key string, window time.Duration) (int64, error)

	Reset(ctx context.Context, key string) error
}
