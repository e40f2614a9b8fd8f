package usecases

import (
	"context"
	"errors"
	"testing"

	"inboxlift/internal/application/entitlement/testutil"
	"inboxlift/internal/domain/entitlement"
)

// TestGetBonusHistory verifies claims come back with their award details.
func TestGetBonusHistory(t *testing.T) {
	evidenceRepo := testutil.NewMockEvidenceRepository()
	evidence, err := entitlement.NewEvidence("sharer@example.com", "https://cdn.example.com/proof.png", "my post")
	if err != nil {
		t.Fatalf("NewEvidence() error = %v", err)
	}
	if err := evidenceRepo.Create(context.Background(), evidence); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	uc := NewGetBonusHistoryUseCase(evidenceRepo)

	result, err := uc.Execute(context.Background(), GetBonusHistoryQuery{Email: "Sharer@Example.com"})
	if err != nil {
		t.Fatalf("Execute() unexpected error = %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("result length = %d, want 1", len(result))
	}
	if result[0].SID != evidence.SID() {
		t.Errorf("result SID = %q, want %q", result[0].SID, evidence.SID())
	}
	if result[0].Status != "pending" {
		t.Errorf("result Status = %q, want pending", result[0].Status)
	}
}

// TestGetBonusHistory_Empty verifies an email with no claims gets an empty
// list, not an error.
func TestGetBonusHistory_Empty(t *testing.T) {
	uc := NewGetBonusHistoryUseCase(testutil.NewMockEvidenceRepository())

	result, err := uc.Execute(context.Background(), GetBonusHistoryQuery{Email: "nobody@example.com"})
	if err != nil {
		t.Fatalf("Execute() unexpected error = %v", err)
	}
	if len(result) != 0 {
		t.Errorf("result length = %d, want 0", len(result))
	}
}

// TestGetBonusHistory_RepositoryError verifies store errors propagate.
func TestGetBonusHistory_RepositoryError(t *testing.T) {
	evidenceRepo := testutil.NewMockEvidenceRepository()
	evidenceRepo.SetListError(errors.New("connection refused"))

	uc := NewGetBonusHistoryUseCase(evidenceRepo)

	if _, err := uc.Execute(context.Background(), GetBonusHistoryQuery{Email: "sharer@example.com"}); err == nil {
		t.Fatal("Execute() expected error from the repository")
	}
}
