package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"inboxlift/internal/domain/billing"
	"inboxlift/internal/infrastructure/persistence/models"
	shareddb "inboxlift/internal/shared/db"
	"inboxlift/internal/shared/logger"
)

type CheckoutReservationRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewCheckoutReservationRepository(db *gorm.DB, logger logger.Interface) billing.ReservationRepository {
	return &CheckoutReservationRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *CheckoutReservationRepositoryImpl) Create(ctx context.Context, reservation *billing.Reservation) error {
	model := r.toModel(reservation)

	if err := shareddb.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create checkout reservation", "error", err, "sid", reservation.SID())
		return fmt.Errorf("failed to create checkout reservation: %w", err)
	}

	if reservation.ID() == 0 && model.ID > 0 {
		if err := reservation.SetID(model.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *CheckoutReservationRepositoryImpl) Update(ctx context.Context, reservation *billing.Reservation) error {
	if reservation.ID() == 0 {
		return fmt.Errorf("cannot update reservation without ID")
	}

	err := shareddb.GetTxFromContext(ctx, r.db).
		Model(&models.CheckoutReservationModel{}).
		Where("id = ?", reservation.ID()).
		Updates(map[string]interface{}{
			"provider_session_id": reservation.ProviderSessionID(),
			"status":              reservation.Status().String(),
			"updated_at":          time.Now().UTC(),
		}).Error

	if err != nil {
		r.logger.Errorw("failed to update checkout reservation", "error", err, "sid", reservation.SID())
		return fmt.Errorf("failed to update checkout reservation: %w", err)
	}
	return nil
}

// SettlePending moves a reservation out of pending with a conditional
// UPDATE. The status guard in the WHERE clause makes the transition atomic:
// when the webhook and the TTL sweeper race on the same row, exactly one of
// them sees RowsAffected == 1 and owns the seat release.
func (r *CheckoutReservationRepositoryImpl) SettlePending(ctx context.Context, reservation *billing.Reservation) (bool, error) {
	if reservation.ID() == 0 {
		return false, fmt.Errorf("cannot settle reservation without ID")
	}

	result := shareddb.GetTxFromContext(ctx, r.db).
		Model(&models.CheckoutReservationModel{}).
		Where("id = ? AND status = ?", reservation.ID(), billing.ReservationStatusPending.String()).
		Updates(map[string]interface{}{
			"status":     reservation.Status().String(),
			"updated_at": time.Now().UTC(),
		})

	if result.Error != nil {
		r.logger.Errorw("failed to settle checkout reservation", "error", result.Error, "sid", reservation.SID())
		return false, fmt.Errorf("failed to settle checkout reservation: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *CheckoutReservationRepositoryImpl) GetByProviderSessionID(ctx context.Context, sessionID string) (*billing.Reservation, error) {
	var model models.CheckoutReservationModel
	err := shareddb.GetTxFromContext(ctx, r.db).
		Where("provider_session_id = ?", sessionID).
		First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get checkout reservation", "error", err, "provider_session_id", sessionID)
		return nil, fmt.Errorf("failed to get checkout reservation: %w", err)
	}

	return r.toEntity(&model)
}

func (r *CheckoutReservationRepositoryImpl) ListExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]*billing.Reservation, error) {
	var modelList []models.CheckoutReservationModel
	err := shareddb.GetTxFromContext(ctx, r.db).
		Where("status = ? AND expires_at < ?", billing.ReservationStatusPending.String(), cutoff.UTC()).
		Order("expires_at ASC").
		Limit(limit).
		Find(&modelList).Error

	if err != nil {
		r.logger.Errorw("failed to list expired reservations", "error", err)
		return nil, fmt.Errorf("failed to list expired reservations: %w", err)
	}

	result := make([]*billing.Reservation, 0, len(modelList))
	for i := range modelList {
		reservation, err := r.toEntity(&modelList[i])
		if err != nil {
			return nil, err
		}
		result = append(result, reservation)
	}
	return result, nil
}

func (r *CheckoutReservationRepositoryImpl) toModel(reservation *billing.Reservation) *models.CheckoutReservationModel {
	return &models.CheckoutReservationModel{
		SID:               reservation.SID(),
		Email:             reservation.Email(),
		TierName:          reservation.TierName(),
		ProviderSessionID: reservation.ProviderSessionID(),
		Status:            reservation.Status().String(),
		ExpiresAt:         reservation.ExpiresAt(),
		CreatedAt:         reservation.CreatedAt(),
		UpdatedAt:         reservation.UpdatedAt(),
	}
}

func (r *CheckoutReservationRepositoryImpl) toEntity(model *models.CheckoutReservationModel) (*billing.Reservation, error) {
	return billing.ReconstructReservation(
		model.ID,
		model.SID,
		model.Email,
		model.TierName,
		model.ProviderSessionID,
		billing.ReservationStatus(model.Status),
		model.ExpiresAt,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
