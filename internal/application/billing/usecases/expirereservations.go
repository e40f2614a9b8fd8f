package usecases

import (
	"context"
	"fmt"

	"inboxlift/internal/domain/billing"
	"inboxlift/internal/shared/biztime"
	"inboxlift/internal/shared/logger"
)

const expireBatchSize = 100

// ExpireReservationsUseCase is the TTL sweeper: it finds pending seat
// reservations whose checkout deadline passed without a webhook and gives
// the seats back. Safety net for lost or delayed provider events.
type ExpireReservationsUseCase struct {
	reservationRepo billing.ReservationRepository
	tierRepo        tierSeatReleaser
	logger          logger.Interface
}

func NewExpireReservationsUseCase(
	reservationRepo billing.ReservationRepository,
	tierRepo tierSeatReleaser,
	logger logger.Interface,
) *ExpireReservationsUseCase {
	return &ExpireReservationsUseCase{
		reservationRepo: reservationRepo,
		tierRepo:        tierRepo,
		logger:          logger,
	}
}

// Execute releases one batch of expired reservations and returns how many
// seats were freed. Individual failures are logged and skipped so one bad
// row cannot wedge the sweep.
func (uc *ExpireReservationsUseCase) Execute(ctx context.Context) (int, error) {
	expired, err := uc.reservationRepo.ListExpiredPending(ctx, biztime.NowUTC(), expireBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired reservations: %w", err)
	}

	released := 0
	for _, reservation := range expired {
		freed, err := uc.releaseOne(ctx, reservation)
		if err != nil {
			uc.logger.Errorw("failed to expire reservation",
				"error", err,
				"reservation_sid", reservation.SID(),
			)
			continue
		}
		if freed {
			released++
		}
	}

	if released > 0 {
		uc.logger.Infow("expired reservations swept", "released", released, "scanned", len(expired))
	}
	return released, nil
}

func (uc *ExpireReservationsUseCase) releaseOne(ctx context.Context, reservation *billing.Reservation) (bool, error) {
	if err := reservation.Release(); err != nil {
		return false, err
	}
	settled, err := uc.reservationRepo.SettlePending(ctx, reservation)
	if err != nil {
		return false, err
	}
	if !settled {
		// A webhook settled this row after our listing read it; whoever won
		// the conditional update owns the seat.
		return false, nil
	}
	return true, uc.tierRepo.ReleaseSeat(ctx, reservation.TierName())
}
