package usecases

import (
	"context"
	"testing"

	"inboxlift/internal/application/billing/testutil"
	enttestutil "inboxlift/internal/application/entitlement/testutil"
	"inboxlift/internal/domain/pricing"
)

// TestGetCurrentTier_FoundersWhileSeatsRemain verifies the founders offer
// is shown while seats are open.
func TestGetCurrentTier_FoundersWhileSeatsRemain(t *testing.T) {
	tierRepo := testutil.NewMockTierRepository()
	tierRepo.AddTier(pricing.TierFoundersProgram, 500, 12, 30, true)
	tierRepo.AddTier(pricing.TierRegularProgram, 1500, 0, 0, true)

	uc := NewGetCurrentTierUseCase(tierRepo, enttestutil.NewMockLogger())

	result, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() unexpected error = %v", err)
	}
	if result.Name != pricing.TierFoundersProgram {
		t.Errorf("result.Name = %q, want founders_program", result.Name)
	}
	if result.DisplayPrice != "$5.00" {
		t.Errorf("result.DisplayPrice = %q, want $5.00", result.DisplayPrice)
	}
	if result.SeatsRemaining != 18 {
		t.Errorf("result.SeatsRemaining = %d, want 18", result.SeatsRemaining)
	}
	if result.SoldOut {
		t.Error("result.SoldOut = true, want false")
	}
}

// TestGetCurrentTier_RegularAfterSellOut verifies the price steps up once
// the founders seats are gone, and stays up.
func TestGetCurrentTier_RegularAfterSellOut(t *testing.T) {
	tierRepo := testutil.NewMockTierRepository()
	tierRepo.AddTier(pricing.TierFoundersProgram, 500, 30, 30, true)
	tierRepo.AddTier(pricing.TierRegularProgram, 1500, 0, 0, true)

	uc := NewGetCurrentTierUseCase(tierRepo, enttestutil.NewMockLogger())

	result, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() unexpected error = %v", err)
	}
	if result.Name != pricing.TierRegularProgram {
		t.Errorf("result.Name = %q, want regular_program", result.Name)
	}
	if result.DisplayPrice != "$15.00" {
		t.Errorf("result.DisplayPrice = %q, want $15.00", result.DisplayPrice)
	}
	if result.SeatLimited {
		t.Error("result.SeatLimited = true, want false for the uncapped tier")
	}
}

// TestGetCurrentTier_MissingFoundersTier verifies a deployment without the
// founders tier just sells the regular program.
func TestGetCurrentTier_MissingFoundersTier(t *testing.T) {
	tierRepo := testutil.NewMockTierRepository()
	tierRepo.AddTier(pricing.TierRegularProgram, 1500, 0, 0, true)

	uc := NewGetCurrentTierUseCase(tierRepo, enttestutil.NewMockLogger())

	result, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() unexpected error = %v", err)
	}
	if result.Name != pricing.TierRegularProgram {
		t.Errorf("result.Name = %q, want regular_program", result.Name)
	}
}

// TestListTiers verifies the full offer listing.
func TestListTiers(t *testing.T) {
	tierRepo := testutil.NewMockTierRepository()
	tierRepo.AddTier(pricing.TierFoundersProgram, 500, 0, 30, true)
	tierRepo.AddTier(pricing.TierRegularProgram, 1500, 0, 0, true)

	uc := NewGetCurrentTierUseCase(tierRepo, enttestutil.NewMockLogger())

	tiers, err := uc.ListTiers(context.Background())
	if err != nil {
		t.Fatalf("ListTiers() unexpected error = %v", err)
	}
	if len(tiers) != 2 {
		t.Fatalf("len(tiers) = %d, want 2", len(tiers))
	}
	if tiers[0].Name != pricing.TierFoundersProgram {
		t.Errorf("tiers[0].Name = %q, want founders first", tiers[0].Name)
	}
}
