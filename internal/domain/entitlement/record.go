package entitlement

import (
	"fmt"
	"time"

	"inboxlift/internal/domain/identity"
	"inboxlift/internal/shared/biztime"
)

// UsageRecord is the per-email entitlement aggregate. It owns the lifetime
// usage counter, the bonus credit pool, and the social bonus claim flags.
// Records are created on first identified use and never deleted.
type UsageRecord struct {
	id                  uint
	email               string
	usageCount          int
	bonusCredits        int
	subscriptionStatus  SubscriptionStatus // last observed, not authoritative
	oneTimeBonusClaimed bool
	lastMonthlyClaim    *time.Time
	lastUsedAt          *time.Time
	createdAt           time.Time
	updatedAt           time.Time
}

// NewUsageRecord creates a fresh record for an identified visitor with
// all-zero counters.
func NewUsageRecord(email string) (*UsageRecord, error) {
	ident, err := identity.FromEmail(email)
	if err != nil {
		return nil, err
	}

	now := biztime.NowUTC()
	return &UsageRecord{
		email:              ident.Email(),
		subscriptionStatus: StatusFree,
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

// ReconstructUsageRecord rebuilds a record from persistence.
func ReconstructUsageRecord(
	id uint,
	email string,
	usageCount int,
	bonusCredits int,
	subscriptionStatus SubscriptionStatus,
	oneTimeBonusClaimed bool,
	lastMonthlyClaim *time.Time,
	lastUsedAt *time.Time,
	createdAt, updatedAt time.Time,
) (*UsageRecord, error) {
	if id == 0 {
		return nil, fmt.Errorf("usage record ID cannot be zero")
	}
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if usageCount < 0 {
		return nil, fmt.Errorf("%w: usage_count=%d", ErrNegativeCounter, usageCount)
	}
	if bonusCredits < 0 {
		return nil, fmt.Errorf("%w: bonus_credits=%d", ErrNegativeCounter, bonusCredits)
	}
	if !subscriptionStatus.IsValid() {
		return nil, fmt.Errorf("invalid subscription status: %s", subscriptionStatus)
	}

	return &UsageRecord{
		id:                  id,
		email:               email,
		usageCount:          usageCount,
		bonusCredits:        bonusCredits,
		subscriptionStatus:  subscriptionStatus,
		oneTimeBonusClaimed: oneTimeBonusClaimed,
		lastMonthlyClaim:    lastMonthlyClaim,
		lastUsedAt:          lastUsedAt,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}, nil
}

// ID returns the record ID
func (r *UsageRecord) ID() uint { return r.id }

// Email returns the owning email address
func (r *UsageRecord) Email() string { return r.email }

// UsageCount returns the number of rewrites recorded against the record
func (r *UsageRecord) UsageCount() int { return r.usageCount }

// BonusCredits returns the accumulated social bonus credit pool
func (r *UsageRecord) BonusCredits() int { return r.bonusCredits }

// SubscriptionStatus returns the last observed subscription status
func (r *UsageRecord) SubscriptionStatus() SubscriptionStatus { return r.subscriptionStatus }

// OneTimeBonusClaimed reports whether the free-tier bonus was ever claimed
func (r *UsageRecord) OneTimeBonusClaimed() bool { return r.oneTimeBonusClaimed }

// LastMonthlyClaim returns when the monthly bonus was last claimed, if ever
func (r *UsageRecord) LastMonthlyClaim() *time.Time { return r.lastMonthlyClaim }

// LastUsedAt returns the timestamp of the most recent rewrite
func (r *UsageRecord) LastUsedAt() *time.Time { return r.lastUsedAt }

// CreatedAt returns when the record was created
func (r *UsageRecord) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns when the record was last updated
func (r *UsageRecord) UpdatedAt() time.Time { return r.updatedAt }

// SetID sets the record ID (only for persistence layer use)
func (r *UsageRecord) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("usage record ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("usage record ID cannot be zero")
	}
	r.id = id
	return nil
}

// ObserveSubscription records the oracle-derived status and reports whether
// the record just transitioned into paid. On that transition the usage
// counter resets to zero so new subscribers are not billed for their
// pre-subscription free uses.
func (r *UsageRecord) ObserveSubscription(status SubscriptionStatus) (transitioned bool, err error) {
	if !status.IsValid() {
		return false, fmt.Errorf("invalid subscription status: %s", status)
	}

	transitioned = status == StatusPaid && r.subscriptionStatus != StatusPaid
	if transitioned {
		r.usageCount = 0
	}
	if r.subscriptionStatus != status {
		r.subscriptionStatus = status
		r.updatedAt = biztime.NowUTC()
	}
	return transitioned, nil
}

// RecordUse advances the usage counter for one completed rewrite.
func (r *UsageRecord) RecordUse(now time.Time) {
	r.usageCount++
	used := now.UTC()
	r.lastUsedAt = &used
	r.updatedAt = used
}

// CanClaimSocialBonus evaluates the claim eligibility rule at the given
// instant for the given tier.
func (r *UsageRecord) CanClaimSocialBonus(status SubscriptionStatus, now time.Time) bool {
	_, ok := BonusEligibility(DefaultRules(), status, r.oneTimeBonusClaimed, r.lastMonthlyClaim, now)
	return ok
}

// ApplyBonusClaim awards bonus credits after a successful eligibility check.
// The caller must run this inside the same transaction as the eligibility
// re-check; the method re-validates so a lost race surfaces as a rejection
// rather than a double award.
func (r *UsageRecord) ApplyBonusClaim(status SubscriptionStatus, amount int, now time.Time) (CreditType, error) {
	if amount <= 0 {
		return "", fmt.Errorf("bonus amount must be positive, got %d", amount)
	}

	switch status {
	case StatusPaid:
		if r.lastMonthlyClaim != nil && biztime.SameCalendarMonth(*r.lastMonthlyClaim, now) {
			return "", ErrAlreadyClaimedThisMonth
		}
		claimed := now.UTC()
		r.lastMonthlyClaim = &claimed
		r.bonusCredits += amount
		r.updatedAt = claimed
		return CreditTypeMonthly, nil
	case StatusFree:
		if r.oneTimeBonusClaimed {
			return "", ErrAlreadyClaimed
		}
		r.oneTimeBonusClaimed = true
		r.bonusCredits += amount
		r.updatedAt = now.UTC()
		return CreditTypeOneTime, nil
	default:
		return "", fmt.Errorf("invalid subscription status: %s", status)
	}
}
