package dto

import (
	"time"

	"inboxlift/internal/domain/entitlement"
)

// SnapshotDTO is the wire form of the entitlement snapshot the client UI
// gates on.
type SnapshotDTO struct {
	Email               string `json:"email,omitempty"`
	SubscriptionStatus  string `json:"subscription_status"`
	Unlimited           bool   `json:"unlimited"`
	UsageCount          int    `json:"usage_count"`
	BonusCredits        int    `json:"bonus_credits"`
	EffectiveFreeLimit  int    `json:"effective_free_limit"`
	RemainingFreeUses   int    `json:"remaining_free_uses"`
	CanClaimSocialBonus bool   `json:"can_claim_social_bonus"`
	SocialBonusAmount   int    `json:"social_bonus_amount,omitempty"`
	NeedsEmailCapture   bool   `json:"needs_email_capture"`
	NeedsPaywall        bool   `json:"needs_paywall"`
}

// ClaimResultDTO reports the outcome of a social bonus claim.
type ClaimResultDTO struct {
	EvidenceSID    string `json:"evidence_sid"`
	CreditsAwarded int    `json:"credits_awarded"`
	CreditType     string `json:"credit_type"`
	TotalCredits   int    `json:"total_credits"`
}

// BonusClaimDTO is one historical share claim.
type BonusClaimDTO struct {
	SID            string     `json:"sid"`
	ImageURL       string     `json:"image_url"`
	Note           string     `json:"note,omitempty"`
	Status         string     `json:"status"`
	CreditsAwarded int        `json:"credits_awarded"`
	CreditType     string     `json:"credit_type"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ToSnapshotDTO converts a domain snapshot to its wire form.
func ToSnapshotDTO(snapshot entitlement.Snapshot, unlimited bool) *SnapshotDTO {
	d := &SnapshotDTO{
		Email:               snapshot.Identity.Email(),
		SubscriptionStatus:  snapshot.SubscriptionStatus.String(),
		Unlimited:           unlimited,
		UsageCount:          snapshot.UsageCount,
		BonusCredits:        snapshot.BonusCredits,
		EffectiveFreeLimit:  snapshot.EffectiveFreeLimit,
		RemainingFreeUses:   snapshot.RemainingFreeUses,
		CanClaimSocialBonus: snapshot.CanClaimSocialBonus,
		SocialBonusAmount:   snapshot.SocialBonusAmount,
		NeedsEmailCapture:   snapshot.NeedsEmailCapture,
		NeedsPaywall:        snapshot.NeedsPaywall,
	}
	if unlimited {
		d.NeedsPaywall = false
		d.NeedsEmailCapture = false
	}
	return d
}

// ToBonusClaimDTO converts evidence to its wire form.
func ToBonusClaimDTO(evidence *entitlement.Evidence) *BonusClaimDTO {
	if evidence == nil {
		return nil
	}
	return &BonusClaimDTO{
		SID:            evidence.SID(),
		ImageURL:       evidence.ImageURL(),
		Note:           evidence.Note(),
		Status:         evidence.Status().String(),
		CreditsAwarded: evidence.CreditsAwarded(),
		CreditType:     evidence.CreditType().String(),
		ReviewedAt:     evidence.ReviewedAt(),
		CreatedAt:      evidence.CreatedAt(),
	}
}

// ToBonusClaimDTOList batch converts evidence records.
func ToBonusClaimDTOList(evidences []*entitlement.Evidence) []*BonusClaimDTO {
	dtos := make([]*BonusClaimDTO, 0, len(evidences))
	for _, e := range evidences {
		if e != nil {
			dtos = append(dtos, ToBonusClaimDTO(e))
		}
	}
	return dtos
}
