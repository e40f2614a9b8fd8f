package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"inboxlift/internal/domain/entitlement"
	"inboxlift/internal/infrastructure/persistence/models"
	shareddb "inboxlift/internal/shared/db"
	"inboxlift/internal/shared/logger"
)

type SocialMediaCreditRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewSocialMediaCreditRepository(db *gorm.DB, logger logger.Interface) entitlement.EvidenceRepository {
	return &SocialMediaCreditRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *SocialMediaCreditRepositoryImpl) Create(ctx context.Context, evidence *entitlement.Evidence) error {
	model, err := r.toModel(evidence)
	if err != nil {
		return err
	}

	if err := shareddb.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create social media credit", "error", err, "email", evidence.Email())
		return fmt.Errorf("failed to create social media credit: %w", err)
	}

	if evidence.ID() == 0 && model.ID > 0 {
		if err := evidence.SetID(model.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *SocialMediaCreditRepositoryImpl) ListByEmail(ctx context.Context, email string) ([]*entitlement.Evidence, error) {
	var modelList []models.SocialMediaCreditModel
	err := shareddb.GetTxFromContext(ctx, r.db).
		Where("email = ?", email).
		Order("created_at DESC").
		Find(&modelList).Error

	if err != nil {
		r.logger.Errorw("failed to list social media credits", "error", err, "email", email)
		return nil, fmt.Errorf("failed to list social media credits: %w", err)
	}

	result := make([]*entitlement.Evidence, 0, len(modelList))
	for i := range modelList {
		evidence, err := r.toEntity(&modelList[i])
		if err != nil {
			return nil, err
		}
		result = append(result, evidence)
	}
	return result, nil
}

func (r *SocialMediaCreditRepositoryImpl) toModel(evidence *entitlement.Evidence) (*models.SocialMediaCreditModel, error) {
	model := &models.SocialMediaCreditModel{
		SID:            evidence.SID(),
		Email:          evidence.Email(),
		ImageURL:       evidence.ImageURL(),
		Note:           evidence.Note(),
		Status:         evidence.Status().String(),
		CreditsAwarded: evidence.CreditsAwarded(),
		CreditType:     evidence.CreditType().String(),
		ReviewedAt:     evidence.ReviewedAt(),
		CreatedAt:      evidence.CreatedAt(),
	}

	if meta := evidence.Metadata(); len(meta) > 0 {
		raw, err := json.Marshal(meta)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal evidence metadata: %w", err)
		}
		model.Metadata = raw
	}
	return model, nil
}

func (r *SocialMediaCreditRepositoryImpl) toEntity(model *models.SocialMediaCreditModel) (*entitlement.Evidence, error) {
	var meta map[string]string
	if len(model.Metadata) > 0 {
		if err := json.Unmarshal(model.Metadata, &meta); err != nil {
			r.logger.Warnw("dropping unreadable evidence metadata", "error", err, "sid", model.SID)
			meta = nil
		}
	}

	return entitlement.ReconstructEvidence(
		model.ID,
		model.SID,
		model.Email,
		model.ImageURL,
		model.Note,
		entitlement.EvidenceStatus(model.Status),
		model.CreditsAwarded,
		entitlement.CreditType(model.CreditType),
		meta,
		model.ReviewedAt,
		model.CreatedAt,
	)
}
