package entitlement

import (
	"testing"
	"time"
)

func TestNewUsageRecord(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "valid email", email: "user@example.com"},
		{name: "normalizes case", email: "User@Example.com"},
		{name: "empty email", email: "", wantErr: true},
		{name: "malformed email", email: "not-an-email", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := NewUsageRecord(tt.email)

			if tt.wantErr {
				if err == nil {
					t.Errorf("NewUsageRecord(%q) expected error, got nil", tt.email)
				}
				return
			}
			if err != nil {
				t.Errorf("NewUsageRecord(%q) unexpected error = %v", tt.email, err)
				return
			}

			if record.UsageCount() != 0 {
				t.Errorf("UsageCount = %d, want 0", record.UsageCount())
			}
			if record.BonusCredits() != 0 {
				t.Errorf("BonusCredits = %d, want 0", record.BonusCredits())
			}
			if record.SubscriptionStatus() != StatusFree {
				t.Errorf("SubscriptionStatus = %s, want free", record.SubscriptionStatus())
			}
			if record.OneTimeBonusClaimed() {
				t.Errorf("OneTimeBonusClaimed = true on fresh record")
			}
		})
	}
}

func TestReconstructUsageRecord_RejectsNegativeCounters(t *testing.T) {
	now := time.Now().UTC()

	if _, err := ReconstructUsageRecord(1, "a@b.co", -1, 0, StatusFree, false, nil, nil, now, now); err == nil {
		t.Errorf("negative usage_count accepted")
	}
	if _, err := ReconstructUsageRecord(1, "a@b.co", 0, -5, StatusFree, false, nil, nil, now, now); err == nil {
		t.Errorf("negative bonus_credits accepted")
	}
}

func TestObserveSubscription_TransitionIntoPaidResetsUsage(t *testing.T) {
	record, err := NewUsageRecord("upgrade@example.com")
	if err != nil {
		t.Fatalf("NewUsageRecord failed: %v", err)
	}

	now := time.Now().UTC()
	for i := 0; i < 4; i++ {
		record.RecordUse(now)
	}
	if record.UsageCount() != 4 {
		t.Fatalf("UsageCount = %d, want 4", record.UsageCount())
	}

	transitioned, err := record.ObserveSubscription(StatusPaid)
	if err != nil {
		t.Fatalf("ObserveSubscription failed: %v", err)
	}
	if !transitioned {
		t.Errorf("transitioned = false on first paid observation")
	}
	if record.UsageCount() != 0 {
		t.Errorf("UsageCount after transition = %d, want 0", record.UsageCount())
	}

	// second paid observation is not a transition and must not reset
	record.RecordUse(now)
	transitioned, err = record.ObserveSubscription(StatusPaid)
	if err != nil {
		t.Fatalf("ObserveSubscription failed: %v", err)
	}
	if transitioned {
		t.Errorf("transitioned = true on repeat paid observation")
	}
	if record.UsageCount() != 1 {
		t.Errorf("UsageCount = %d, want 1", record.UsageCount())
	}
}

func TestObserveSubscription_DowngradeDoesNotReset(t *testing.T) {
	record, err := NewUsageRecord("churn@example.com")
	if err != nil {
		t.Fatalf("NewUsageRecord failed: %v", err)
	}

	now := time.Now().UTC()
	if _, err := record.ObserveSubscription(StatusPaid); err != nil {
		t.Fatalf("ObserveSubscription failed: %v", err)
	}
	record.RecordUse(now)
	record.RecordUse(now)

	transitioned, err := record.ObserveSubscription(StatusFree)
	if err != nil {
		t.Fatalf("ObserveSubscription failed: %v", err)
	}
	if transitioned {
		t.Errorf("transitioned = true on downgrade")
	}
	if record.UsageCount() != 2 {
		t.Errorf("UsageCount = %d, want 2 (downgrade keeps counter)", record.UsageCount())
	}
}

func TestRecordUse_StampsLastUsedAt(t *testing.T) {
	record, err := NewUsageRecord("stamp@example.com")
	if err != nil {
		t.Fatalf("NewUsageRecord failed: %v", err)
	}

	now := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	record.RecordUse(now)

	if record.LastUsedAt() == nil || !record.LastUsedAt().Equal(now) {
		t.Errorf("LastUsedAt = %v, want %v", record.LastUsedAt(), now)
	}
}
