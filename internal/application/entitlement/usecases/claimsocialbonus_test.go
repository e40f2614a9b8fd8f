package usecases

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"inboxlift/internal/application/entitlement/testutil"
	"inboxlift/internal/domain/entitlement"
	"inboxlift/internal/shared/db"
	apperrors "inboxlift/internal/shared/errors"
)

// claimHarness wires the claim use case against in-memory mocks plus a real
// transaction manager over an in-memory sqlite handle. The mocks carry the
// state; sqlite only provides the transaction scope.
type claimHarness struct {
	uc        *ClaimSocialBonusUseCase
	usageRepo *testutil.MockUsageRecordRepository
	evidence  *testutil.MockEvidenceRepository
	oracle    *testutil.MockSubscriptionOracle
	notifier  *testutil.MockBonusNotifier
}

func newClaimHarness(t *testing.T) *claimHarness {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	usageRepo := testutil.NewMockUsageRecordRepository()
	evidenceRepo := testutil.NewMockEvidenceRepository()
	oracle := testutil.NewMockSubscriptionOracle()
	notifier := testutil.NewMockBonusNotifier()
	resolver := NewStatusResolver(oracle, testutil.NewMockPromotionalAccessRepository(), testutil.NewMockStatusCache(), testutil.NewMockLogger())

	uc := NewClaimSocialBonusUseCase(
		usageRepo,
		evidenceRepo,
		resolver,
		db.NewTransactionManager(gormDB),
		testutil.NewMockNoteSanitizer(),
		notifier,
		entitlement.DefaultRules(),
		testutil.NewMockLogger(),
	)

	return &claimHarness{
		uc:        uc,
		usageRepo: usageRepo,
		evidence:  evidenceRepo,
		oracle:    oracle,
		notifier:  notifier,
	}
}

// recordUse seeds one prior product use, satisfying the claim precondition.
func (h *claimHarness) recordUse(t *testing.T, email string) {
	t.Helper()
	if err := h.usageRepo.IncrementUsage(context.Background(), email, time.Now().UTC()); err != nil {
		t.Fatalf("IncrementUsage() error = %v", err)
	}
}

// waitForNotification polls for the async bonus email send.
func (h *claimHarness) waitForNotification(t *testing.T) []testutil.NotificationCall {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if calls := h.notifier.GetCalls(); len(calls) > 0 {
			return calls
		}
		time.Sleep(10 * time.Millisecond)
	}
	return h.notifier.GetCalls()
}

// TestClaimSocialBonus_FreeUser verifies the one-time 10 credit award.
func TestClaimSocialBonus_FreeUser(t *testing.T) {
	h := newClaimHarness(t)
	h.recordUse(t, "sharer@example.com")

	result, err := h.uc.Execute(context.Background(), ClaimSocialBonusCommand{
		Email:    "sharer@example.com",
		ImageURL: "https://cdn.example.com/proof.png",
		Note:     "  shared on my timeline  ",
		Platform: "twitter",
	})
	if err != nil {
		t.Fatalf("Execute() unexpected error = %v", err)
	}
	if result.CreditsAwarded != 10 {
		t.Errorf("CreditsAwarded = %d, want 10", result.CreditsAwarded)
	}
	if result.CreditType != "one_time" {
		t.Errorf("CreditType = %q, want one_time", result.CreditType)
	}
	if result.TotalCredits != 10 {
		t.Errorf("TotalCredits = %d, want 10", result.TotalCredits)
	}

	stored, err := h.evidence.ListByEmail(context.Background(), "sharer@example.com")
	if err != nil {
		t.Fatalf("ListByEmail() error = %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("stored evidence count = %d, want 1", len(stored))
	}
	if stored[0].Note() != "shared on my timeline" {
		t.Errorf("evidence note = %q, want sanitized note", stored[0].Note())
	}
	if stored[0].Metadata()["platform"] != "twitter" {
		t.Errorf("evidence platform = %q, want twitter", stored[0].Metadata()["platform"])
	}

	calls := h.waitForNotification(t)
	if len(calls) != 1 {
		t.Fatalf("notification calls = %d, want 1", len(calls))
	}
	if calls[0].To != "sharer@example.com" || calls[0].CreditsAwarded != 10 {
		t.Errorf("notification = %+v, want sharer@example.com / 10 credits", calls[0])
	}
}

// TestClaimSocialBonus_FreeUserSecondClaimConflicts verifies the one-time
// bonus cannot be claimed twice.
func TestClaimSocialBonus_FreeUserSecondClaimConflicts(t *testing.T) {
	h := newClaimHarness(t)
	h.recordUse(t, "sharer@example.com")

	cmd := ClaimSocialBonusCommand{
		Email:    "sharer@example.com",
		ImageURL: "https://cdn.example.com/proof.png",
	}
	if _, err := h.uc.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("first Execute() unexpected error = %v", err)
	}

	_, err := h.uc.Execute(context.Background(), cmd)
	if err == nil {
		t.Fatal("second Execute() expected conflict error")
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("error type = %T, want *apperrors.AppError", err)
	}
	if appErr.Code != 409 {
		t.Errorf("appErr.Code = %d, want 409", appErr.Code)
	}
}

// TestClaimSocialBonus_PaidUserMonthly verifies subscribers get the 30
// credit monthly award.
func TestClaimSocialBonus_PaidUserMonthly(t *testing.T) {
	h := newClaimHarness(t)
	h.oracle.Subscribe("payer@example.com")
	h.recordUse(t, "payer@example.com")

	result, err := h.uc.Execute(context.Background(), ClaimSocialBonusCommand{
		Email:    "payer@example.com",
		ImageURL: "https://cdn.example.com/proof.png",
	})
	if err != nil {
		t.Fatalf("Execute() unexpected error = %v", err)
	}
	if result.CreditsAwarded != 30 {
		t.Errorf("CreditsAwarded = %d, want 30", result.CreditsAwarded)
	}
	if result.CreditType != "monthly" {
		t.Errorf("CreditType = %q, want monthly", result.CreditType)
	}

	// A second claim in the same calendar month must conflict.
	_, err = h.uc.Execute(context.Background(), ClaimSocialBonusCommand{
		Email:    "payer@example.com",
		ImageURL: "https://cdn.example.com/proof2.png",
	})
	if err == nil {
		t.Fatal("second Execute() expected conflict error")
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("error type = %T, want *apperrors.AppError", err)
	}
	if appErr.Code != 409 {
		t.Errorf("appErr.Code = %d, want 409", appErr.Code)
	}
}

// TestClaimSocialBonus_RequiresEmail verifies anonymous claims are rejected.
func TestClaimSocialBonus_RequiresEmail(t *testing.T) {
	h := newClaimHarness(t)

	_, err := h.uc.Execute(context.Background(), ClaimSocialBonusCommand{
		ImageURL: "https://cdn.example.com/proof.png",
	})
	if err == nil {
		t.Fatal("Execute() expected validation error without an email")
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("error type = %T, want *apperrors.AppError", err)
	}
	if appErr.Code != 400 {
		t.Errorf("appErr.Code = %d, want 400", appErr.Code)
	}
}

// TestClaimSocialBonus_RequiresEvidence verifies a claim without proof is
// rejected.
func TestClaimSocialBonus_RequiresEvidence(t *testing.T) {
	h := newClaimHarness(t)

	_, err := h.uc.Execute(context.Background(), ClaimSocialBonusCommand{
		Email: "sharer@example.com",
	})
	if err == nil {
		t.Fatal("Execute() expected validation error without evidence")
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("error type = %T, want *apperrors.AppError", err)
	}
	if appErr.Code != 400 {
		t.Errorf("appErr.Code = %d, want 400", appErr.Code)
	}
}

// TestClaimSocialBonus_RequiresPriorUsage verifies an email that never used
// the product cannot collect the bonus.
func TestClaimSocialBonus_RequiresPriorUsage(t *testing.T) {
	h := newClaimHarness(t)

	_, err := h.uc.Execute(context.Background(), ClaimSocialBonusCommand{
		Email:    "drive-by@example.com",
		ImageURL: "https://cdn.example.com/proof.png",
	})
	if err == nil {
		t.Fatal("Execute() expected validation error without prior usage")
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("error type = %T, want *apperrors.AppError", err)
	}
	if appErr.Code != 400 {
		t.Errorf("appErr.Code = %d, want 400", appErr.Code)
	}
	if record, _ := h.usageRepo.GetByEmail(context.Background(), "drive-by@example.com"); record != nil {
		t.Error("a rejected claim must not create a usage record")
	}

	stored, err := h.evidence.ListByEmail(context.Background(), "drive-by@example.com")
	if err != nil {
		t.Fatalf("ListByEmail() error = %v", err)
	}
	if len(stored) != 0 {
		t.Errorf("stored evidence count = %d, want 0", len(stored))
	}
}

// TestClaimSocialBonus_BonusExtendsFreeLimit verifies awarded credits show
// up in the snapshot's effective limit.
func TestClaimSocialBonus_BonusExtendsFreeLimit(t *testing.T) {
	h := newClaimHarness(t)
	h.recordUse(t, "sharer@example.com")

	if _, err := h.uc.Execute(context.Background(), ClaimSocialBonusCommand{
		Email:    "sharer@example.com",
		ImageURL: "https://cdn.example.com/proof.png",
	}); err != nil {
		t.Fatalf("Execute() unexpected error = %v", err)
	}

	record, err := h.usageRepo.GetByEmail(context.Background(), "sharer@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if record == nil {
		t.Fatal("usage record should exist after the claim")
	}
	if record.BonusCredits() != 10 {
		t.Errorf("BonusCredits() = %d, want 10", record.BonusCredits())
	}
	if !record.OneTimeBonusClaimed() {
		t.Error("OneTimeBonusClaimed() = false, want true")
	}
}
