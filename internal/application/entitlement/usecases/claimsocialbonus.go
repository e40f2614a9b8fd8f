package usecases

import (
	"context"
	"errors"
	"fmt"

	"inboxlift/internal/application/entitlement/dto"
	"inboxlift/internal/domain/entitlement"
	"inboxlift/internal/domain/identity"
	"inboxlift/internal/shared/biztime"
	"inboxlift/internal/shared/db"
	apperrors "inboxlift/internal/shared/errors"
	"inboxlift/internal/shared/goroutine"
	"inboxlift/internal/shared/logger"
)

type ClaimSocialBonusCommand struct {
	Email     string
	ImageURL  string
	Note      string
	Platform  string
	UserAgent string
}

// ClaimSocialBonusUseCase awards share bonus credits. The eligibility
// re-check and the award run inside one transaction with the usage record
// row locked, so two simultaneous claims for the same email serialize and
// the loser gets a conflict instead of a second award.
type ClaimSocialBonusUseCase struct {
	usageRepo    entitlement.UsageRecordRepository
	evidenceRepo entitlement.EvidenceRepository
	resolver     *StatusResolver
	txManager    *db.TransactionManager
	sanitizer    NoteSanitizer
	notifier     BonusNotifier
	rules        entitlement.Rules
	logger       logger.Interface
}

func NewClaimSocialBonusUseCase(
	usageRepo entitlement.UsageRecordRepository,
	evidenceRepo entitlement.EvidenceRepository,
	resolver *StatusResolver,
	txManager *db.TransactionManager,
	sanitizer NoteSanitizer,
	notifier BonusNotifier,
	rules entitlement.Rules,
	logger logger.Interface,
) *ClaimSocialBonusUseCase {
	return &ClaimSocialBonusUseCase{
		usageRepo:    usageRepo,
		evidenceRepo: evidenceRepo,
		resolver:     resolver,
		txManager:    txManager,
		sanitizer:    sanitizer,
		notifier:     notifier,
		rules:        rules,
		logger:       logger,
	}
}

func (uc *ClaimSocialBonusUseCase) Execute(ctx context.Context, cmd ClaimSocialBonusCommand) (*dto.ClaimResultDTO, error) {
	if cmd.Email == "" {
		return nil, apperrors.NewValidationError("an email is required to claim the share bonus", entitlement.ErrNoIdentity.Error())
	}
	ident, err := identity.FromEmail(cmd.Email)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid email address", err.Error())
	}
	email := ident.Email()

	evidence, err := entitlement.NewEvidence(email, cmd.ImageURL, uc.sanitizer.SanitizePlain(cmd.Note))
	if err != nil {
		if errors.Is(err, entitlement.ErrMissingEvidence) {
			return nil, apperrors.NewValidationError("share evidence is required", err.Error())
		}
		return nil, apperrors.NewValidationError("invalid share evidence", err.Error())
	}

	metadata := map[string]string{}
	if cmd.Platform != "" {
		metadata["platform"] = uc.sanitizer.SanitizePlain(cmd.Platform)
	}
	if cmd.UserAgent != "" {
		metadata["user_agent"] = cmd.UserAgent
	}
	evidence.AttachMetadata(metadata)

	status, err := uc.resolver.Resolve(ctx, email)
	if err != nil {
		return nil, err
	}

	amount, eligible := entitlement.BonusEligibility(uc.rules, status, false, nil, biztime.NowUTC())
	if !eligible || amount <= 0 {
		// status itself rules out any claim (should not happen for valid
		// statuses, but never award zero credits)
		return nil, apperrors.NewConflictError("no bonus available for this account")
	}

	var result *dto.ClaimResultDTO
	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		record, err := uc.usageRepo.GetByEmailForUpdate(txCtx, email)
		if err != nil {
			return err
		}
		if record == nil {
			// The bonus rewards sharing the product, so the email must have
			// used it at least once before claiming.
			return entitlement.ErrNoUsageYet
		}

		now := biztime.NowUTC()
		creditType, err := record.ApplyBonusClaim(status, amount, now)
		if err != nil {
			return err
		}

		if err := evidence.Approve(amount, creditType, now); err != nil {
			return err
		}
		if err := uc.evidenceRepo.Create(txCtx, evidence); err != nil {
			return err
		}

		if err := uc.usageRepo.Update(txCtx, record); err != nil {
			return err
		}

		result = &dto.ClaimResultDTO{
			EvidenceSID:    evidence.SID(),
			CreditsAwarded: amount,
			CreditType:     creditType.String(),
			TotalCredits:   record.BonusCredits(),
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, entitlement.ErrAlreadyClaimed):
			return nil, apperrors.NewConflictError("the one-time share bonus was already claimed", err.Error())
		case errors.Is(err, entitlement.ErrAlreadyClaimedThisMonth):
			return nil, apperrors.NewConflictError("the monthly share bonus was already claimed this month", err.Error())
		case errors.Is(err, entitlement.ErrNoUsageYet):
			return nil, apperrors.NewValidationError("use the product at least once before claiming the share bonus", err.Error())
		}
		uc.logger.Errorw("social bonus claim failed", "error", err, "email", email)
		return nil, fmt.Errorf("failed to claim social bonus: %w", err)
	}

	uc.logger.Infow("social bonus claimed",
		"email", email,
		"credits", result.CreditsAwarded,
		"credit_type", result.CreditType,
	)

	notify := result
	goroutine.SafeGo(uc.logger, "bonus-awarded-email", func() {
		if err := uc.notifier.SendBonusAwarded(email, notify.CreditsAwarded, notify.TotalCredits); err != nil {
			uc.logger.Warnw("bonus notification email failed", "error", err, "email", email)
		}
	})

	return result, nil
}
