package usecases

import (
	"context"
	"errors"
	"fmt"

	"inboxlift/internal/application/billing/dto"
	"inboxlift/internal/domain/pricing"
	"inboxlift/internal/shared/logger"
)

// GetCurrentTierUseCase returns the pricing offer a visitor should see:
// the founders program while seats remain, the regular program after.
type GetCurrentTierUseCase struct {
	tierRepo pricing.TierRepository
	logger   logger.Interface
}

func NewGetCurrentTierUseCase(tierRepo pricing.TierRepository, logger logger.Interface) *GetCurrentTierUseCase {
	return &GetCurrentTierUseCase{
		tierRepo: tierRepo,
		logger:   logger,
	}
}

func (uc *GetCurrentTierUseCase) Execute(ctx context.Context) (*dto.TierDTO, error) {
	founders, err := uc.tierRepo.GetByName(ctx, pricing.TierFoundersProgram)
	if err != nil && !errors.Is(err, pricing.ErrTierNotFound) {
		return nil, fmt.Errorf("failed to load founders tier: %w", err)
	}
	if founders != nil && founders.IsActive() && founders.HasSeatsAvailable() {
		return dto.ToTierDTO(founders), nil
	}

	regular, err := uc.tierRepo.GetByName(ctx, pricing.TierRegularProgram)
	if err != nil {
		return nil, fmt.Errorf("failed to load regular tier: %w", err)
	}
	return dto.ToTierDTO(regular), nil
}

// ListTiers returns every enabled tier, founders first.
func (uc *GetCurrentTierUseCase) ListTiers(ctx context.Context) ([]*dto.TierDTO, error) {
	tiers, err := uc.tierRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tiers: %w", err)
	}
	dtos := make([]*dto.TierDTO, 0, len(tiers))
	for _, t := range tiers {
		dtos = append(dtos, dto.ToTierDTO(t))
	}
	return dtos, nil
}
