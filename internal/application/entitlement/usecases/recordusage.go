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

type RecordUsageCommand struct {
	Email string
}

// RecordUsageUseCase records one completed rewrite against an email. The
// counter moves with server-side arithmetic, and the first use observed
// after a subscription starts resets the counter so free-tier consumption
// does not carry into the paid period. Allow-listed users and holders of
// an active promotional grant are never metered: their counters must stay
// where they are so an expired grant resumes from the old count.
type RecordUsageUseCase struct {
	usageRepo     entitlement.UsageRecordRepository
	unlimitedRepo entitlement.UnlimitedUserRepository
	promoRepo     entitlement.PromotionalAccessRepository
	resolver      *StatusResolver
	rules         entitlement.Rules
	logger        logger.Interface
}

func NewRecordUsageUseCase(
	usageRepo entitlement.UsageRecordRepository,
	unlimitedRepo entitlement.UnlimitedUserRepository,
	promoRepo entitlement.PromotionalAccessRepository,
	resolver *StatusResolver,
	rules entitlement.Rules,
	logger logger.Interface,
) *RecordUsageUseCase {
	return &RecordUsageUseCase{
		usageRepo:     usageRepo,
		unlimitedRepo: unlimitedRepo,
		promoRepo:     promoRepo,
		resolver:      resolver,
		rules:         rules,
		logger:        logger,
	}
}

func (uc *RecordUsageUseCase) Execute(ctx context.Context, cmd RecordUsageCommand) (*dto.SnapshotDTO, error) {
	ident, err := identity.FromEmail(cmd.Email)
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

	now := biztime.NowUTC()

	bypass := unlimited
	if !bypass {
		// A promotional grant reads as paid through the resolver, but it is
		// a privileged bypass like the allow-list, not a subscription. No
		// increment and no paid-transition reset while it is active.
		granted, err := uc.promoRepo.HasActiveGrant(ctx, email, now)
		if err != nil {
			return nil, fmt.Errorf("failed to check promotional grant: %w", err)
		}
		bypass = granted
	}

	if !bypass {
		record, err := uc.usageRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("failed to load usage record: %w", err)
		}

		storedStatus := entitlement.StatusFree
		if record != nil {
			storedStatus = record.SubscriptionStatus()
		}

		switch {
		case status == entitlement.StatusPaid && storedStatus != entitlement.StatusPaid:
			// first use since the subscription started: wipe the free-tier
			// consumption and count this use as the first paid one
			if err := uc.usageRepo.ResetAndRecordUse(ctx, email, now); err != nil {
				return nil, err
			}
			uc.logger.Infow("paid transition observed on usage", "email", email)
		case status == entitlement.StatusFree && storedStatus != entitlement.StatusFree:
			if err := uc.usageRepo.UpdateObservedStatus(ctx, email, status); err != nil {
				return nil, err
			}
			if err := uc.usageRepo.IncrementUsage(ctx, email, now); err != nil {
				return nil, err
			}
		default:
			if err := uc.usageRepo.IncrementUsage(ctx, email, now); err != nil {
				return nil, err
			}
		}
	}

	record, err := uc.usageRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to reload usage record: %w", err)
	}

	snapshot := entitlement.ComputeSnapshot(uc.rules, ident, record, status, now)
	return dto.ToSnapshotDTO(snapshot, unlimited), nil
}
