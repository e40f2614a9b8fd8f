package usecases

import (
	"context"

	"inboxlift/internal/domain/billing"
	"inboxlift/internal/domain/entitlement"
	"inboxlift/internal/shared/biztime"
	apperrors "inboxlift/internal/shared/errors"
	"inboxlift/internal/shared/logger"
)

// StatusResolver derives the effective subscription status for an email:
// the billing oracle is the source of truth, an unexpired promotional grant
// counts as paid-equivalent, and a short-TTL cache keeps the oracle off the
// hot path. When neither the oracle nor the grant store can answer, the
// resolver fails closed: the caller gets a retryable error instead of a
// guessed "paid".
type StatusResolver struct {
	oracle    billing.SubscriptionOracle
	promoRepo entitlement.PromotionalAccessRepository
	cache     StatusCache
	logger    logger.Interface
}

func NewStatusResolver(
	oracle billing.SubscriptionOracle,
	promoRepo entitlement.PromotionalAccessRepository,
	cache StatusCache,
	logger logger.Interface,
) *StatusResolver {
	return &StatusResolver{
		oracle:    oracle,
		promoRepo: promoRepo,
		cache:     cache,
		logger:    logger,
	}
}

func (r *StatusResolver) Resolve(ctx context.Context, email string) (entitlement.SubscriptionStatus, error) {
	if cached, found, err := r.cache.Get(ctx, email); err != nil {
		// cache trouble is not a reason to refuse service
		r.logger.Warnw("subscription status cache read failed", "error", err, "email", email)
	} else if found {
		return cached, nil
	}

	subscribed, err := r.oracle.IsSubscribed(ctx, email)
	if err != nil {
		r.logger.Errorw("subscription oracle unavailable", "error", err, "email", email)
		return "", apperrors.NewUnavailableError("subscription status unavailable", err.Error())
	}

	status := entitlement.StatusFree
	if subscribed {
		status = entitlement.StatusPaid
	} else {
		granted, err := r.promoRepo.HasActiveGrant(ctx, email, biztime.NowUTC())
		if err != nil {
			r.logger.Errorw("promotional grant lookup failed", "error", err, "email", email)
			return "", apperrors.NewUnavailableError("subscription status unavailable", err.Error())
		}
		if granted {
			status = entitlement.StatusPaid
		}
	}

	if err := r.cache.Set(ctx, email, status); err != nil {
		r.logger.Warnw("subscription status cache write failed", "error", err, "email", email)
	}

	return status, nil
}

// InvalidateCache drops the cached status after a billing event.
func (r *StatusResolver) InvalidateCache(ctx context.Context, email string) {
	if err := r.cache.Invalidate(ctx, email); err != nil {
		r.logger.Warnw("subscription status cache invalidation failed", "error", err, "email", email)
	}
}
