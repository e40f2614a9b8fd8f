package entitlement

import (
	"time"

	"inboxlift/internal/shared/biztime"
)

// Rules carries the tunable accounting constants. The defaults are the
// product rules; config may override them at wiring time.
type Rules struct {
	BaseFreeLimit       int
	OneTimeBonusCredits int
	MonthlyBonusCredits int
}

// DefaultRules returns the stock accounting rules: 5 free rewrites, a 10
// credit one-time share bonus, and a 30 credit monthly bonus for
// subscribers.
func DefaultRules() Rules {
	return Rules{
		BaseFreeLimit:       5,
		OneTimeBonusCredits: 10,
		MonthlyBonusCredits: 30,
	}
}

// Validate checks the rules are usable.
func (r Rules) Validate() error {
	if r.BaseFreeLimit < 0 {
		return ErrNegativeCounter
	}
	if r.OneTimeBonusCredits < 0 || r.MonthlyBonusCredits < 0 {
		return ErrNegativeCounter
	}
	return nil
}

// BonusEligibility is the pure eligibility rule for the social share bonus.
//
// Free tier: eligible exactly once, ever. Paid tier: eligible once per
// calendar month+year in the business timezone — a claim on the 31st
// followed by one on the 1st two days later is allowed, which is the
// intended calendar semantics rather than a rolling 30-day window.
func BonusEligibility(
	rules Rules,
	status SubscriptionStatus,
	oneTimeClaimed bool,
	lastMonthlyClaim *time.Time,
	now time.Time,
) (amount int, eligible bool) {
	switch status {
	case StatusPaid:
		if lastMonthlyClaim == nil || !biztime.SameCalendarMonth(*lastMonthlyClaim, now) {
			return rules.MonthlyBonusCredits, true
		}
		return 0, false
	case StatusFree:
		if !oneTimeClaimed {
			return rules.OneTimeBonusCredits, true
		}
		return 0, false
	default:
		return 0, false
	}
}
