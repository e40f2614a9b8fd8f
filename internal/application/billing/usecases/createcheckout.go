package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inboxlift/internal/application/billing/dto"
	"inboxlift/internal/domain/billing"
	"inboxlift/internal/domain/identity"
	"inboxlift/internal/domain/pricing"
	apperrors "inboxlift/internal/shared/errors"
	"inboxlift/internal/shared/logger"
)

type CreateCheckoutCommand struct {
	Email string
}

// CreateCheckoutUseCase starts a hosted checkout session. For the
// seat-limited founders program it reserves a seat first and compensates
// (gives the seat back, releases the reservation) if the provider call
// fails; a sold-out founders tier falls back to the regular program
// without a reservation.
type CreateCheckoutUseCase struct {
	tierRepo        pricing.TierRepository
	reservationRepo billing.ReservationRepository
	provider        billing.CheckoutProvider
	reservationTTL  time.Duration
	logger          logger.Interface
}

func NewCreateCheckoutUseCase(
	tierRepo pricing.TierRepository,
	reservationRepo billing.ReservationRepository,
	provider billing.CheckoutProvider,
	reservationTTL time.Duration,
	logger logger.Interface,
) *CreateCheckoutUseCase {
	return &CreateCheckoutUseCase{
		tierRepo:        tierRepo,
		reservationRepo: reservationRepo,
		provider:        provider,
		reservationTTL:  reservationTTL,
		logger:          logger,
	}
}

func (uc *CreateCheckoutUseCase) Execute(ctx context.Context, cmd CreateCheckoutCommand) (*dto.CheckoutSessionDTO, error) {
	ident, err := identity.FromEmail(cmd.Email)
	if err != nil {
		return nil, err
	}
	email := ident.Email()

	tierName, reservation, err := uc.selectTier(ctx, email)
	if err != nil {
		return nil, err
	}

	session, err := uc.provider.CreateSession(ctx, email, tierName)
	if err != nil {
		uc.compensate(ctx, reservation)
		uc.logger.Errorw("checkout session creation failed", "error", err, "email", email, "tier", tierName)
		return nil, apperrors.NewBadGatewayError("billing provider rejected the checkout", err.Error())
	}

	result := &dto.CheckoutSessionDTO{
		SessionID: session.ProviderSessionID,
		URL:       session.URL,
		TierName:  tierName,
	}
	if reservation != nil {
		result.ReservationSID = reservation.SID()
		if err := reservation.AttachProviderSession(session.ProviderSessionID); err != nil {
			return nil, err
		}
		if err := uc.reservationRepo.Update(ctx, reservation); err != nil {
			// The webhook can no longer find this reservation; the TTL
			// sweeper will give the seat back once it lapses.
			uc.logger.Warnw("failed to bind provider session to reservation",
				"error", err, "reservation_sid", reservation.SID())
		}
	}

	uc.logger.Infow("checkout session created",
		"email", email,
		"tier", tierName,
		"session_id", session.ProviderSessionID,
	)
	return result, nil
}

// selectTier picks the tier to sell and, for the founders program, holds a
// seat. Returns a nil reservation for the uncapped regular tier.
func (uc *CreateCheckoutUseCase) selectTier(ctx context.Context, email string) (string, *billing.Reservation, error) {
	founders, err := uc.tierRepo.GetByName(ctx, pricing.TierFoundersProgram)
	if err != nil {
		if errors.Is(err, pricing.ErrTierNotFound) {
			return pricing.TierRegularProgram, nil, nil
		}
		return "", nil, fmt.Errorf("failed to load founders tier: %w", err)
	}
	if !founders.IsActive() {
		return pricing.TierRegularProgram, nil, nil
	}

	if err := uc.tierRepo.ReserveSeat(ctx, pricing.TierFoundersProgram); err != nil {
		if errors.Is(err, pricing.ErrSoldOut) {
			uc.logger.Infow("founders program sold out, selling regular tier", "email", email)
			return pricing.TierRegularProgram, nil, nil
		}
		return "", nil, fmt.Errorf("failed to reserve founders seat: %w", err)
	}

	reservation, err := billing.NewReservation(email, pricing.TierFoundersProgram, uc.reservationTTL)
	if err == nil {
		err = uc.reservationRepo.Create(ctx, reservation)
	}
	if err != nil {
		// Seat was already incremented; hand it back before failing.
		if relErr := uc.tierRepo.ReleaseSeat(ctx, pricing.TierFoundersProgram); relErr != nil {
			uc.logger.Errorw("failed to release seat after reservation failure",
				"error", relErr, "email", email)
		}
		return "", nil, fmt.Errorf("failed to create seat reservation: %w", err)
	}
	return pricing.TierFoundersProgram, reservation, nil
}

// compensate undoes a seat hold after the provider call failed.
func (uc *CreateCheckoutUseCase) compensate(ctx context.Context, reservation *billing.Reservation) {
	if reservation == nil {
		return
	}
	if err := reservation.Release(); err != nil {
		uc.logger.Errorw("failed to mark reservation released", "error", err, "reservation_sid", reservation.SID())
		return
	}
	settled, err := uc.reservationRepo.SettlePending(ctx, reservation)
	if err != nil {
		uc.logger.Errorw("failed to persist released reservation", "error", err, "reservation_sid", reservation.SID())
		return
	}
	if !settled {
		return
	}
	if err := uc.tierRepo.ReleaseSeat(ctx, reservation.TierName()); err != nil {
		uc.logger.Errorw("failed to release reserved seat", "error", err, "tier", reservation.TierName())
	}
}
