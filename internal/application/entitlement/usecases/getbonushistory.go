package usecases

import (
	"context"
	"fmt"

	"inboxlift/internal/application/entitlement/dto"
	"inboxlift/internal/domain/entitlement"
	"inboxlift/internal/domain/identity"
)

type GetBonusHistoryQuery struct {
	Email string
}

// GetBonusHistoryUseCase lists a user's share bonus claims, newest first.
type GetBonusHistoryUseCase struct {
	evidenceRepo entitlement.EvidenceRepository
}

func NewGetBonusHistoryUseCase(evidenceRepo entitlement.EvidenceRepository) *GetBonusHistoryUseCase {
	return &GetBonusHistoryUseCase{evidenceRepo: evidenceRepo}
}

func (uc *GetBonusHistoryUseCase) Execute(ctx context.Context, query GetBonusHistoryQuery) ([]*dto.BonusClaimDTO, error) {
	ident, err := identity.FromEmail(query.Email)
	if err != nil {
		return nil, err
	}

	evidences, err := uc.evidenceRepo.ListByEmail(ctx, ident.Email())
	if err != nil {
		return nil, fmt.Errorf("failed to list bonus claims: %w", err)
	}
	return dto.ToBonusClaimDTOList(evidences), nil
}
