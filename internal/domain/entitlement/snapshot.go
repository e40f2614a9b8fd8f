package entitlement

import (
	"time"

	"inboxlift/internal/domain/identity"
)

// Snapshot is the derived entitlement view the UI gates on. It is computed
// on demand from the usage record plus the oracle-derived subscription
// status, and is never persisted.
type Snapshot struct {
	Identity            identity.Identity
	SubscriptionStatus  SubscriptionStatus
	UsageCount          int
	BonusCredits        int
	EffectiveFreeLimit  int
	RemainingFreeUses   int
	CanClaimSocialBonus bool
	SocialBonusAmount   int
	NeedsEmailCapture   bool
	NeedsPaywall        bool
}

// ComputeSnapshot derives the entitlement snapshot for an identified
// visitor. record may be nil (an email never seen before), which is treated
// as all-zero defaults. status is the oracle-derived truth, not the stale
// stored value. The function is pure: same inputs, same snapshot.
func ComputeSnapshot(rules Rules, ident identity.Identity, record *UsageRecord, status SubscriptionStatus, now time.Time) Snapshot {
	if ident.IsAnonymous() {
		uses := 0
		if record != nil {
			uses = record.UsageCount()
		}
		return ComputeAnonymousSnapshot(rules, uses)
	}

	usageCount := 0
	bonusCredits := 0
	oneTimeClaimed := false
	var lastMonthlyClaim *time.Time
	if record != nil {
		usageCount = record.UsageCount()
		bonusCredits = record.BonusCredits()
		oneTimeClaimed = record.OneTimeBonusClaimed()
		lastMonthlyClaim = record.LastMonthlyClaim()
	}

	effectiveLimit := rules.BaseFreeLimit
	if status == StatusFree {
		effectiveLimit += bonusCredits
	}

	remaining := effectiveLimit - usageCount
	if remaining < 0 {
		remaining = 0
	}

	amount, eligible := BonusEligibility(rules, status, oneTimeClaimed, lastMonthlyClaim, now)

	return Snapshot{
		Identity:            ident,
		SubscriptionStatus:  status,
		UsageCount:          usageCount,
		BonusCredits:        bonusCredits,
		EffectiveFreeLimit:  effectiveLimit,
		RemainingFreeUses:   remaining,
		CanClaimSocialBonus: eligible,
		SocialBonusAmount:   amount,
		NeedsEmailCapture:   false,
		NeedsPaywall:        status != StatusPaid && usageCount >= effectiveLimit,
	}
}

// ComputeAnonymousSnapshot derives the snapshot for a visitor with no email
// on file. The counter comes from the client's durable local storage; there
// is nothing server-side to consult. Anonymous visitors never see the
// paywall — they see the email capture prompt once they have used the tool
// at least once.
func ComputeAnonymousSnapshot(rules Rules, localUses int) Snapshot {
	if localUses < 0 {
		localUses = 0
	}

	remaining := rules.BaseFreeLimit - localUses
	if remaining < 0 {
		remaining = 0
	}

	return Snapshot{
		Identity:           identity.Anonymous(),
		SubscriptionStatus: StatusFree,
		UsageCount:         localUses,
		EffectiveFreeLimit: rules.BaseFreeLimit,
		RemainingFreeUses:  remaining,
		NeedsEmailCapture:  localUses >= 1,
		NeedsPaywall:       false,
	}
}
