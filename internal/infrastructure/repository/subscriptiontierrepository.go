package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inboxlift/internal/domain/pricing"
	"inboxlift/internal/infrastructure/persistence/models"
	shareddb "inboxlift/internal/shared/db"
	"inboxlift/internal/shared/logger"
)

type SubscriptionTierRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewSubscriptionTierRepository(db *gorm.DB, logger logger.Interface) pricing.TierRepository {
	return &SubscriptionTierRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *SubscriptionTierRepositoryImpl) GetByName(ctx context.Context, name string) (*pricing.Tier, error) {
	var model models.SubscriptionTierModel
	err := shareddb.GetTxFromContext(ctx, r.db).
		Where("tier_name = ?", name).
		First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pricing.ErrTierNotFound
		}
		r.logger.Errorw("failed to get tier", "error", err, "tier", name)
		return nil, fmt.Errorf("failed to get tier: %w", err)
	}

	return r.toEntity(&model)
}

func (r *SubscriptionTierRepositoryImpl) ListActive(ctx context.Context) ([]*pricing.Tier, error) {
	var modelList []models.SubscriptionTierModel
	err := shareddb.GetTxFromContext(ctx, r.db).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&modelList).Error

	if err != nil {
		r.logger.Errorw("failed to list active tiers", "error", err)
		return nil, fmt.Errorf("failed to list active tiers: %w", err)
	}

	tiers := make([]*pricing.Tier, 0, len(modelList))
	for i := range modelList {
		tier, err := r.toEntity(&modelList[i])
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, tier)
	}
	return tiers, nil
}

// ReserveSeat takes a seat with a single conditional UPDATE. The bound
// check and the increment execute as one statement, so two concurrent
// checkouts racing for the last seat cannot both succeed.
func (r *SubscriptionTierRepositoryImpl) ReserveSeat(ctx context.Context, name string) error {
	result := shareddb.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionTierModel{}).
		Where("tier_name = ? AND is_active = ? AND current_seats < max_seats", name, true).
		Updates(map[string]interface{}{
			"current_seats": gorm.Expr("current_seats + 1"),
			"updated_at":    time.Now().UTC(),
		})

	if result.Error != nil {
		r.logger.Errorw("failed to reserve seat", "error", result.Error, "tier", name)
		return fmt.Errorf("failed to reserve seat: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return pricing.ErrSoldOut
	}
	return nil
}

// ReleaseSeat compensates an abandoned reservation. Clamped at zero so a
// duplicate release can never drive the counter negative.
func (r *SubscriptionTierRepositoryImpl) ReleaseSeat(ctx context.Context, name string) error {
	result := shareddb.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionTierModel{}).
		Where("tier_name = ? AND current_seats > 0", name).
		Updates(map[string]interface{}{
			"current_seats": gorm.Expr("current_seats - 1"),
			"updated_at":    time.Now().UTC(),
		})

	if result.Error != nil {
		r.logger.Errorw("failed to release seat", "error", result.Error, "tier", name)
		return fmt.Errorf("failed to release seat: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		r.logger.Warnw("seat release found no seat to free", "tier", name)
	}
	return nil
}

func (r *SubscriptionTierRepositoryImpl) Save(ctx context.Context, tier *pricing.Tier) error {
	model := &models.SubscriptionTierModel{
		TierName:   tier.Name(),
		PriceCents: tier.PriceCents(),
		MaxSeats:   tier.MaxSeats(),
		IsActive:   tier.IsActive(),
	}

	err := shareddb.GetTxFromContext(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tier_name"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"price_cents": tier.PriceCents(),
			"max_seats":   tier.MaxSeats(),
			"is_active":   tier.IsActive(),
			"updated_at":  time.Now().UTC(),
		}),
	}).Create(model).Error

	if err != nil {
		r.logger.Errorw("failed to save tier", "error", err, "tier", tier.Name())
		return fmt.Errorf("failed to save tier: %w", err)
	}
	return nil
}

func (r *SubscriptionTierRepositoryImpl) toEntity(model *models.SubscriptionTierModel) (*pricing.Tier, error) {
	return pricing.ReconstructTier(
		model.ID,
		model.TierName,
		model.PriceCents,
		model.CurrentSeats,
		model.MaxSeats,
		model.IsActive,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
