package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inboxlift/internal/domain/entitlement"
	"inboxlift/internal/infrastructure/persistence/models"
	shareddb "inboxlift/internal/shared/db"
	"inboxlift/internal/shared/logger"
)

type UsageTrackingRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewUsageTrackingRepository(db *gorm.DB, logger logger.Interface) entitlement.UsageRecordRepository {
	return &UsageTrackingRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *UsageTrackingRepositoryImpl) GetByEmail(ctx context.Context, email string) (*entitlement.UsageRecord, error) {
	var model models.UsageTrackingModel
	err := shareddb.GetTxFromContext(ctx, r.db).
		Where("email = ?", email).
		First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get usage record", "error", err, "email", email)
		return nil, fmt.Errorf("failed to get usage record: %w", err)
	}

	return r.toEntity(&model)
}

func (r *UsageTrackingRepositoryImpl) GetByEmailForUpdate(ctx context.Context, email string) (*entitlement.UsageRecord, error) {
	var model models.UsageTrackingModel
	err := shareddb.GetTxFromContext(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("email = ?", email).
		First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to lock usage record", "error", err, "email", email)
		return nil, fmt.Errorf("failed to lock usage record: %w", err)
	}

	return r.toEntity(&model)
}

func (r *UsageTrackingRepositoryImpl) Create(ctx context.Context, record *entitlement.UsageRecord) error {
	model := r.toModel(record)

	if err := shareddb.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create usage record", "error", err, "email", record.Email())
		return fmt.Errorf("failed to create usage record: %w", err)
	}

	if record.ID() == 0 && model.ID > 0 {
		if err := record.SetID(model.ID); err != nil {
			return err
		}
	}
	return nil
}

// IncrementUsage advances the counter with server-side arithmetic. The
// upsert inserts a fresh row at count 1 for unseen emails and otherwise
// adds one to the stored value, so racing sessions never lose increments.
func (r *UsageTrackingRepositoryImpl) IncrementUsage(ctx context.Context, email string, now time.Time) error {
	used := now.UTC()
	model := &models.UsageTrackingModel{
		Email:              email,
		UsageCount:         1,
		SubscriptionStatus: entitlement.StatusFree.String(),
		LastUsedAt:         &used,
	}

	err := shareddb.GetTxFromContext(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"usage_count":  gorm.Expr("usage_count + 1"),
			"last_used_at": used,
			"updated_at":   used,
		}),
	}).Create(model).Error

	if err != nil {
		r.logger.Errorw("failed to increment usage", "error", err, "email", email)
		return fmt.Errorf("failed to increment usage: %w", err)
	}
	return nil
}

// ResetAndRecordUse is the paid-transition path: the counter becomes
// exactly 1 (the reset plus this use) and the observed status flips to
// paid, in one statement.
func (r *UsageTrackingRepositoryImpl) ResetAndRecordUse(ctx context.Context, email string, now time.Time) error {
	used := now.UTC()
	model := &models.UsageTrackingModel{
		Email:              email,
		UsageCount:         1,
		SubscriptionStatus: entitlement.StatusPaid.String(),
		LastUsedAt:         &used,
	}

	err := shareddb.GetTxFromContext(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"usage_count":         1,
			"subscription_status": entitlement.StatusPaid.String(),
			"last_used_at":        used,
			"updated_at":          used,
		}),
	}).Create(model).Error

	if err != nil {
		r.logger.Errorw("failed to reset usage for subscription", "error", err, "email", email)
		return fmt.Errorf("failed to reset usage for subscription: %w", err)
	}

	r.logger.Infow("usage counter reset on paid transition", "email", email)
	return nil
}

func (r *UsageTrackingRepositoryImpl) UpdateObservedStatus(ctx context.Context, email string, status entitlement.SubscriptionStatus) error {
	result := shareddb.GetTxFromContext(ctx, r.db).
		Model(&models.UsageTrackingModel{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"subscription_status": status.String(),
			"updated_at":          time.Now().UTC(),
		})

	if result.Error != nil {
		r.logger.Errorw("failed to update observed status", "error", result.Error, "email", email)
		return fmt.Errorf("failed to update observed status: %w", result.Error)
	}
	return nil
}

func (r *UsageTrackingRepositoryImpl) Update(ctx context.Context, record *entitlement.UsageRecord) error {
	if record.ID() == 0 {
		return fmt.Errorf("cannot update usage record without ID")
	}

	model := r.toModel(record)
	model.ID = record.ID()

	err := shareddb.GetTxFromContext(ctx, r.db).
		Model(&models.UsageTrackingModel{}).
		Where("id = ?", record.ID()).
		Updates(map[string]interface{}{
			"usage_count":            model.UsageCount,
			"bonus_credits":          model.BonusCredits,
			"subscription_status":    model.SubscriptionStatus,
			"one_time_bonus_claimed": model.OneTimeBonusClaimed,
			"last_monthly_claim":     model.LastMonthlyClaim,
			"last_used_at":           model.LastUsedAt,
			"updated_at":             time.Now().UTC(),
		}).Error

	if err != nil {
		r.logger.Errorw("failed to update usage record", "error", err, "email", record.Email())
		return fmt.Errorf("failed to update usage record: %w", err)
	}
	return nil
}

func (r *UsageTrackingRepositoryImpl) toEntity(model *models.UsageTrackingModel) (*entitlement.UsageRecord, error) {
	if model == nil {
		return nil, nil
	}

	return entitlement.ReconstructUsageRecord(
		model.ID,
		model.Email,
		model.UsageCount,
		model.BonusCredits,
		entitlement.SubscriptionStatus(model.SubscriptionStatus),
		model.OneTimeBonusClaimed,
		model.LastMonthlyClaim,
		model.LastUsedAt,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (r *UsageTrackingRepositoryImpl) toModel(record *entitlement.UsageRecord) *models.UsageTrackingModel {
	return &models.UsageTrackingModel{
		Email:               record.Email(),
		UsageCount:          record.UsageCount(),
		BonusCredits:        record.BonusCredits(),
		SubscriptionStatus:  record.SubscriptionStatus().String(),
		OneTimeBonusClaimed: record.OneTimeBonusClaimed(),
		LastMonthlyClaim:    record.LastMonthlyClaim(),
		LastUsedAt:          record.LastUsedAt(),
		CreatedAt:           record.CreatedAt(),
		UpdatedAt:           record.UpdatedAt(),
	}
}
