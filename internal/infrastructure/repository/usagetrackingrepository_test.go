package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"inboxlift/internal/domain/entitlement"
	"inboxlift/internal/infrastructure/persistence/models"
	"inboxlift/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.UsageTrackingModel{},
		&models.PromotionalAccessModel{},
		&models.UnlimitedUserModel{},
		&models.SubscriptionTierModel{},
		&models.SocialMediaCreditModel{},
		&models.CheckoutReservationModel{},
	)
	require.NoError(t, err)

	return db
}

func TestUsageTrackingRepository_IncrementUsage(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUsageTrackingRepository(db, logger.NewLogger())
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("creates record at count 1 for unseen email", func(t *testing.T) {
		err := repo.IncrementUsage(ctx, "fresh@example.com", now)
		assert.NoError(t, err)

		record, err := repo.GetByEmail(ctx, "fresh@example.com")
		assert.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, 1, record.UsageCount())
		assert.Equal(t, entitlement.StatusFree, record.SubscriptionStatus())
		require.NotNil(t, record.LastUsedAt())
		assert.Equal(t, now, record.LastUsedAt().UTC())
	})

	t.Run("advances existing counter by one", func(t *testing.T) {
		for i := 0; i < 4; i++ {
			err := repo.IncrementUsage(ctx, "repeat@example.com", now.Add(time.Duration(i)*time.Minute))
			require.NoError(t, err)
		}

		record, err := repo.GetByEmail(ctx, "repeat@example.com")
		assert.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, 4, record.UsageCount())
	})

	t.Run("does not touch bonus credits or claim flags", func(t *testing.T) {
		record, err := entitlement.NewUsageRecord("claimed@example.com")
		require.NoError(t, err)
		_, err = record.ApplyBonusClaim(entitlement.StatusFree, 10, now)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, record))

		err = repo.IncrementUsage(ctx, "claimed@example.com", now)
		assert.NoError(t, err)

		found, err := repo.GetByEmail(ctx, "claimed@example.com")
		assert.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, 10, found.BonusCredits())
		assert.True(t, found.OneTimeBonusClaimed())
	})
}

func TestUsageTrackingRepository_ResetAndRecordUse(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUsageTrackingRepository(db, logger.NewLogger())
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("resets accumulated count and flips status to paid", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			require.NoError(t, repo.IncrementUsage(ctx, "upgraded@example.com", now))
		}

		err := repo.ResetAndRecordUse(ctx, "upgraded@example.com", now)
		assert.NoError(t, err)

		record, err := repo.GetByEmail(ctx, "upgraded@example.com")
		assert.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, 1, record.UsageCount())
		assert.Equal(t, entitlement.StatusPaid, record.SubscriptionStatus())
	})

	t.Run("creates record for subscriber never seen before", func(t *testing.T) {
		err := repo.ResetAndRecordUse(ctx, "direct-subscriber@example.com", now)
		assert.NoError(t, err)

		record, err := repo.GetByEmail(ctx, "direct-subscriber@example.com")
		assert.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, 1, record.UsageCount())
		assert.Equal(t, entitlement.StatusPaid, record.SubscriptionStatus())
	})
}

func TestUsageTrackingRepository_GetByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUsageTrackingRepository(db, logger.NewLogger())
	ctx := context.Background()

	t.Run("returns nil without error for unseen email", func(t *testing.T) {
		record, err := repo.GetByEmail(ctx, "never-seen@example.com")
		assert.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("round-trips a created record", func(t *testing.T) {
		record, err := entitlement.NewUsageRecord("roundtrip@example.com")
		require.NoError(t, err)

		err = repo.Create(ctx, record)
		assert.NoError(t, err)
		assert.NotZero(t, record.ID())

		found, err := repo.GetByEmail(ctx, "roundtrip@example.com")
		assert.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, record.ID(), found.ID())
		assert.Equal(t, "roundtrip@example.com", found.Email())
		assert.Equal(t, 0, found.UsageCount())
	})

	t.Run("duplicate email rejected by unique index", func(t *testing.T) {
		first, err := entitlement.NewUsageRecord("dup@example.com")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, first))

		second, err := entitlement.NewUsageRecord("dup@example.com")
		require.NoError(t, err)
		err = repo.Create(ctx, second)
		assert.Error(t, err)
	})
}

func TestUsageTrackingRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUsageTrackingRepository(db, logger.NewLogger())
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("persists claim mutations", func(t *testing.T) {
		record, err := entitlement.NewUsageRecord("claimer@example.com")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, record))

		creditType, err := record.ApplyBonusClaim(entitlement.StatusPaid, 30, now)
		require.NoError(t, err)
		require.Equal(t, entitlement.CreditTypeMonthly, creditType)

		err = repo.Update(ctx, record)
		assert.NoError(t, err)

		found, err := repo.GetByEmail(ctx, "claimer@example.com")
		assert.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, 30, found.BonusCredits())
		require.NotNil(t, found.LastMonthlyClaim())
		assert.Equal(t, now, found.LastMonthlyClaim().UTC())
	})

	t.Run("rejects record without ID", func(t *testing.T) {
		record, err := entitlement.NewUsageRecord("no-id@example.com")
		require.NoError(t, err)

		err = repo.Update(ctx, record)
		assert.Error(t, err)
	})
}

func TestUsageTrackingRepository_UpdateObservedStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUsageTrackingRepository(db, logger.NewLogger())
	ctx := context.Background()

	record, err := entitlement.NewUsageRecord("observer@example.com")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, record))

	err = repo.UpdateObservedStatus(ctx, "observer@example.com", entitlement.StatusPaid)
	assert.NoError(t, err)

	found, err := repo.GetByEmail(ctx, "observer@example.com")
	assert.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, entitlement.StatusPaid, found.SubscriptionStatus())
	assert.Equal(t, 0, found.UsageCount())
}
