package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"inboxlift/internal/domain/entitlement"
	"inboxlift/internal/infrastructure/persistence/models"
	shareddb "inboxlift/internal/shared/db"
	"inboxlift/internal/shared/logger"
)

type UnlimitedUserRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewUnlimitedUserRepository(db *gorm.DB, logger logger.Interface) entitlement.UnlimitedUserRepository {
	return &UnlimitedUserRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *UnlimitedUserRepositoryImpl) IsUnlimited(ctx context.Context, email string) (bool, error) {
	var count int64
	err := shareddb.GetTxFromContext(ctx, r.db).
		Model(&models.UnlimitedUserModel{}).
		Where("email = ? AND is_active = ?", email, true).
		Count(&count).Error

	if err != nil {
		r.logger.Errorw("failed to check unlimited allow-list", "error", err, "email", email)
		return false, fmt.Errorf("failed to check unlimited allow-list: %w", err)
	}
	return count > 0, nil
}
