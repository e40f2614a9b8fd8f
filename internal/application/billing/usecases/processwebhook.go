package usecases

import (
	"context"
	"fmt"

	entusecases "inboxlift/internal/application/entitlement/usecases"
	"inboxlift/internal/domain/billing"
	"inboxlift/internal/shared/logger"
)

// Webhook event types the accounting engine reacts to. The transport layer
// maps provider events onto these before calling Execute.
const (
	WebhookCheckoutCompleted   = "checkout.session.completed"
	WebhookCheckoutExpired     = "checkout.session.expired"
	WebhookSubscriptionDeleted = "customer.subscription.deleted"
)

// WebhookEvent is the provider-neutral projection of a billing webhook.
type WebhookEvent struct {
	ID            string
	Type          string
	SessionID     string
	CustomerEmail string
}

// ProcessWebhookUseCase settles checkout reservations from billing
// provider events and keeps the cached subscription status honest.
type ProcessWebhookUseCase struct {
	reservationRepo billing.ReservationRepository
	tierRepo        tierSeatReleaser
	resolver        *entusecases.StatusResolver
	logger          logger.Interface
}

// tierSeatReleaser is the slice of the tier repository webhook settlement
// needs.
type tierSeatReleaser interface {
	ReleaseSeat(ctx context.Context, name string) error
}

func NewProcessWebhookUseCase(
	reservationRepo billing.ReservationRepository,
	tierRepo tierSeatReleaser,
	resolver *entusecases.StatusResolver,
	logger logger.Interface,
) *ProcessWebhookUseCase {
	return &ProcessWebhookUseCase{
		reservationRepo: reservationRepo,
		tierRepo:        tierRepo,
		resolver:        resolver,
		logger:          logger,
	}
}

func (uc *ProcessWebhookUseCase) Execute(ctx context.Context, event WebhookEvent) error {
	switch event.Type {
	case WebhookCheckoutCompleted:
		return uc.handleCompleted(ctx, event)
	case WebhookCheckoutExpired:
		return uc.handleExpired(ctx, event)
	case WebhookSubscriptionDeleted:
		// The oracle is the source of truth; just stop serving the stale
		// cached status.
		uc.resolver.InvalidateCache(ctx, event.CustomerEmail)
		uc.logger.Infow("subscription deleted, cache invalidated", "email", event.CustomerEmail)
		return nil
	default:
		uc.logger.Infow("ignoring webhook event", "event_id", event.ID, "type", event.Type)
		return nil
	}
}

func (uc *ProcessWebhookUseCase) handleCompleted(ctx context.Context, event WebhookEvent) error {
	reservation, err := uc.reservationRepo.GetByProviderSessionID(ctx, event.SessionID)
	if err != nil {
		return fmt.Errorf("failed to look up reservation for session %s: %w", event.SessionID, err)
	}
	if reservation != nil && reservation.Status() == billing.ReservationStatusPending {
		if err := reservation.Complete(); err != nil {
			return err
		}
		settled, err := uc.reservationRepo.SettlePending(ctx, reservation)
		if err != nil {
			return fmt.Errorf("failed to complete reservation %s: %w", reservation.SID(), err)
		}
		if settled {
			uc.logger.Infow("founders seat confirmed",
				"reservation_sid", reservation.SID(),
				"tier", reservation.TierName(),
			)
		} else {
			// The sweeper released the hold before payment landed. The seat
			// count is the cheap side; the subscription itself still counts
			// through the oracle.
			uc.logger.Warnw("completed checkout found its reservation already settled",
				"reservation_sid", reservation.SID(),
				"tier", reservation.TierName(),
			)
		}
	}

	email := event.CustomerEmail
	if email == "" && reservation != nil {
		email = reservation.Email()
	}
	if email != "" {
		uc.resolver.InvalidateCache(ctx, email)
	}
	return nil
}

func (uc *ProcessWebhookUseCase) handleExpired(ctx context.Context, event WebhookEvent) error {
	reservation, err := uc.reservationRepo.GetByProviderSessionID(ctx, event.SessionID)
	if err != nil {
		return fmt.Errorf("failed to look up reservation for session %s: %w", event.SessionID, err)
	}
	if reservation == nil || reservation.Status() != billing.ReservationStatusPending {
		// Regular-tier session, or the sweeper already freed the seat.
		return nil
	}

	if err := reservation.Release(); err != nil {
		return err
	}
	settled, err := uc.reservationRepo.SettlePending(ctx, reservation)
	if err != nil {
		return fmt.Errorf("failed to release reservation %s: %w", reservation.SID(), err)
	}
	if !settled {
		// The sweeper got there between our read and the write; the seat is
		// already back.
		return nil
	}
	if err := uc.tierRepo.ReleaseSeat(ctx, reservation.TierName()); err != nil {
		return fmt.Errorf("failed to release seat for tier %s: %w", reservation.TierName(), err)
	}
	uc.logger.Infow("abandoned checkout, seat released",
		"reservation_sid", reservation.SID(),
		"tier", reservation.TierName(),
	)
	return nil
}
