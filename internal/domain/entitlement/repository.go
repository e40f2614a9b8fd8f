package entitlement

import (
	"context"
	"time"
)

// UsageRecordRepository persists per-email usage records. Counter updates
// must use server-side arithmetic so concurrent sessions racing on the same
// email never lose increments.
type UsageRecordRepository interface {
	// GetByEmail returns the record for email, or nil when the email has
	// never been seen.
	GetByEmail(ctx context.Context, email string) (*UsageRecord, error)

	// GetByEmailForUpdate locks the record row for the duration of the
	// surrounding transaction. Used by the bonus claim path so eligibility
	// check and award are one atomic unit.
	GetByEmailForUpdate(ctx context.Context, email string) (*UsageRecord, error)

	// Create inserts a fresh record.
	Create(ctx context.Context, record *UsageRecord) error

	// IncrementUsage atomically advances usage_count by one for email,
	// creating the record when absent, and stamps last_used_at. The
	// increment is SQL-side, never read-modify-write.
	IncrementUsage(ctx context.Context, email string, now time.Time) error

	// ResetAndRecordUse handles the transition into paid: usage_count
	// becomes exactly 1 (the reset plus this use) and the observed status
	// becomes paid, in a single statement.
	ResetAndRecordUse(ctx context.Context, email string, now time.Time) error

	// UpdateObservedStatus persists the last oracle observation without
	// touching counters.
	UpdateObservedStatus(ctx context.Context, email string, status SubscriptionStatus) error

	// Update persists claim mutations (bonus credits, claim flags) made on
	// a record loaded with GetByEmailForUpdate.
	Update(ctx context.Context, record *UsageRecord) error
}

// PromotionalAccessRepository answers whether an email holds an active
// promotional grant, which counts as paid-equivalent access.
type PromotionalAccessRepository interface {
	HasActiveGrant(ctx context.Context, email string, now time.Time) (bool, error)
}

// UnlimitedUserRepository answers allow-list membership. Members bypass all
// metering: their counters never move.
type UnlimitedUserRepository interface {
	IsUnlimited(ctx context.Context, email string) (bool, error)
}

// EvidenceRepository persists social bonus share proofs.
type EvidenceRepository interface {
	Create(ctx context.Context, evidence *Evidence) error
	ListByEmail(ctx context.Context, email string) ([]*Evidence, error)
}
