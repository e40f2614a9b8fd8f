package pricing

import (
	"testing"
	"time"
)

func TestNewTier(t *testing.T) {
	tests := []struct {
		name       string
		tierName   string
		priceCents int64
		maxSeats   int
		wantErr    bool
	}{
		{name: "founders", tierName: TierFoundersProgram, priceCents: 1900, maxSeats: 30},
		{name: "regular uncapped", tierName: TierRegularProgram, priceCents: 3900, maxSeats: 0},
		{name: "unknown name", tierName: "vip_program", priceCents: 1000, wantErr: true},
		{name: "zero price", tierName: TierFoundersProgram, priceCents: 0, wantErr: true},
		{name: "negative seats", tierName: TierFoundersProgram, priceCents: 1900, maxSeats: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, err := NewTier(tt.tierName, tt.priceCents, tt.maxSeats)

			if tt.wantErr {
				if err == nil {
					t.Errorf("NewTier() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("NewTier() unexpected error = %v", err)
				return
			}
			if !tier.IsActive() {
				t.Errorf("new tier should be active")
			}
			if tier.CurrentSeats() != 0 {
				t.Errorf("CurrentSeats = %d, want 0", tier.CurrentSeats())
			}
		})
	}
}

func TestTierSeatAvailability(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name          string
		currentSeats  int
		maxSeats      int
		wantAvailable bool
		wantRemaining int
	}{
		{name: "empty", currentSeats: 0, maxSeats: 30, wantAvailable: true, wantRemaining: 30},
		{name: "one left", currentSeats: 29, maxSeats: 30, wantAvailable: true, wantRemaining: 1},
		{name: "full", currentSeats: 30, maxSeats: 30, wantAvailable: false, wantRemaining: 0},
		{name: "uncapped", currentSeats: 500, maxSeats: 0, wantAvailable: true, wantRemaining: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, err := ReconstructTier(1, TierFoundersProgram, 1900, tt.currentSeats, tt.maxSeats, true, now, now)
			if err != nil {
				t.Fatalf("ReconstructTier failed: %v", err)
			}

			if got := tier.HasSeatsAvailable(); got != tt.wantAvailable {
				t.Errorf("HasSeatsAvailable() = %v, want %v", got, tt.wantAvailable)
			}
			if got := tier.SeatsRemaining(); got != tt.wantRemaining {
				t.Errorf("SeatsRemaining() = %d, want %d", got, tt.wantRemaining)
			}
		})
	}
}
