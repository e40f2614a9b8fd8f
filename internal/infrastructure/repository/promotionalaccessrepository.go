package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"inboxlift/internal/domain/entitlement"
	"inboxlift/internal/infrastructure/persistence/models"
	shareddb "inboxlift/internal/shared/db"
	"inboxlift/internal/shared/logger"
)

type PromotionalAccessRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewPromotionalAccessRepository(db *gorm.DB, logger logger.Interface) entitlement.PromotionalAccessRepository {
	return &PromotionalAccessRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

// HasActiveGrant reports whether email holds an unexpired promotional
// grant. Expiry is evaluated against the caller's clock, not the DB clock,
// so entitlement decisions and grant checks share one notion of now.
func (r *PromotionalAccessRepositoryImpl) HasActiveGrant(ctx context.Context, email string, now time.Time) (bool, error) {
	var count int64
	err := shareddb.GetTxFromContext(ctx, r.db).
		Model(&models.PromotionalAccessModel{}).
		Where("email = ? AND is_active = ? AND expires_at > ?", email, true, now.UTC()).
		Count(&count).Error

	if err != nil {
		r.logger.Errorw("failed to check promotional access", "error", err, "email", email)
		return false, fmt.Errorf("failed to check promotional access: %w", err)
	}
	return count > 0, nil
}
