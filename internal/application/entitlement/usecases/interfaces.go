package usecases

import (
	"context"

	"inboxlift/internal/domain/entitlement"
)

// StatusCache is the short-TTL cache in front of the billing oracle.
type StatusCache interface {
	Get(ctx context.Context, email string) (status entitlement.SubscriptionStatus, found bool, err error)
	Set(ctx context.Context, email string, status entitlement.SubscriptionStatus) error
	Invalidate(ctx context.Context, email string) error
}

// BonusNotifier sends the post-claim notification email. Failures are
// logged, never surfaced: the claim has already committed.
type BonusNotifier interface {
	SendBonusAwarded(to string, creditsAwarded, totalCredits int) error
}

// NoteSanitizer scrubs user-submitted evidence notes before persistence.
type NoteSanitizer interface {
	SanitizePlain(input string) string
}
