package usecases

import (
	"context"
	"fmt"

	"inboxlift/internal/application/entitlement/dto"
	"inboxlift/internal/domain/entitlement"
	"inboxlift/internal/domain/identity"
	"inboxlift/internal/shared/biztime"
	"inboxlift/internal/shared/logger"
)

type GetSnapshotQuery struct {
	// Email is empty for anonymous visitors.
	Email string
	// AnonymousUses is the client-reported local counter, only meaningful
	// when Email is empty.
	AnonymousUses int
}

// GetSnapshotUseCase computes the entitlement snapshot a client renders
// its gating UI from. Read-only: no counters move here.
type GetSnapshotUseCase struct {
	usageRepo     entitlement.UsageRecordRepository
	unlimitedRepo entitlement.UnlimitedUserRepository
	resolver      *StatusResolver
	rules         entitlement.Rules
	logger        logger.Interface
}

func NewGetSnapshotUseCase(
	usageRepo entitlement.UsageRecordRepository,
	unlimitedRepo entitlement.UnlimitedUserRepository,
	resolver *StatusResolver,
	rules entitlement.Rules,
	logger logger.Interface,
) *GetSnapshotUseCase {
	return &GetSnapshotUseCase{
		usageRepo:     usageRepo,
		unlimitedRepo: unlimitedRepo,
		resolver:      resolver,
		rules:         rules,
		logger:        logger,
	}
}

func (uc *GetSnapshotUseCase) Execute(ctx context.Context, query GetSnapshotQuery) (*dto.SnapshotDTO, error) {
	if query.Email == "" {
		snapshot := entitlement.ComputeAnonymousSnapshot(uc.rules, query.AnonymousUses)
		return dto.ToSnapshotDTO(snapshot, false), nil
	}

	ident, err := identity.FromEmail(query.Email)
	if err != nil {
		return nil, err
	}
	email := ident.Email()

	unlimited, err := uc.unlimitedRepo.IsUnlimited(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check allow-list: %w", err)
	}

	status, err := uc.resolver.Resolve(ctx, email)
	if err != nil {
		return nil, err
	}

	record, err := uc.usageRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load usage record: %w", err)
	}

	snapshot := entitlement.ComputeSnapshot(uc.rules, ident, record, status, biztime.NowUTC())
	return dto.ToSnapshotDTO(snapshot, unlimited), nil
}
