package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inboxlift/internal/domain/pricing"
	"inboxlift/internal/shared/logger"
)

func seedTier(t *testing.T, repo pricing.TierRepository, name string, priceCents int64, maxSeats int) {
	tier, err := pricing.NewTier(name, priceCents, maxSeats)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), tier))
}

func TestSubscriptionTierRepository_GetByName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionTierRepository(db, logger.NewLogger())
	ctx := context.Background()

	seedTier(t, repo, pricing.TierFoundersProgram, 500, 30)

	t.Run("returns seeded tier", func(t *testing.T) {
		tier, err := repo.GetByName(ctx, pricing.TierFoundersProgram)
		assert.NoError(t, err)
		require.NotNil(t, tier)
		assert.Equal(t, pricing.TierFoundersProgram, tier.Name())
		assert.Equal(t, int64(500), tier.PriceCents())
		assert.Equal(t, 30, tier.MaxSeats())
		assert.Equal(t, 0, tier.CurrentSeats())
	})

	t.Run("unknown tier returns ErrTierNotFound", func(t *testing.T) {
		tier, err := repo.GetByName(ctx, "enterprise_program")
		assert.ErrorIs(t, err, pricing.ErrTierNotFound)
		assert.Nil(t, tier)
	})
}

func TestSubscriptionTierRepository_ReserveSeat(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionTierRepository(db, logger.NewLogger())
	ctx := context.Background()

	t.Run("increments seat counter while capacity remains", func(t *testing.T) {
		seedTier(t, repo, pricing.TierFoundersProgram, 500, 3)

		err := repo.ReserveSeat(ctx, pricing.TierFoundersProgram)
		assert.NoError(t, err)

		tier, err := repo.GetByName(ctx, pricing.TierFoundersProgram)
		assert.NoError(t, err)
		assert.Equal(t, 1, tier.CurrentSeats())
	})

	t.Run("exactly max seats can ever be reserved", func(t *testing.T) {
		reserved := 0
		for i := 0; i < 10; i++ {
			err := repo.ReserveSeat(ctx, pricing.TierFoundersProgram)
			if err == nil {
				reserved++
				continue
			}
			assert.ErrorIs(t, err, pricing.ErrSoldOut)
		}
		// one seat already taken in the previous subtest
		assert.Equal(t, 2, reserved)

		tier, err := repo.GetByName(ctx, pricing.TierFoundersProgram)
		assert.NoError(t, err)
		assert.Equal(t, 3, tier.CurrentSeats())
		assert.False(t, tier.HasSeatsAvailable())
	})

	t.Run("sold out tier rejects further reservations", func(t *testing.T) {
		err := repo.ReserveSeat(ctx, pricing.TierFoundersProgram)
		assert.ErrorIs(t, err, pricing.ErrSoldOut)
	})

	t.Run("unknown tier reports sold out", func(t *testing.T) {
		err := repo.ReserveSeat(ctx, "enterprise_program")
		assert.ErrorIs(t, err, pricing.ErrSoldOut)
	})
}

func TestSubscriptionTierRepository_ReleaseSeat(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionTierRepository(db, logger.NewLogger())
	ctx := context.Background()

	seedTier(t, repo, pricing.TierFoundersProgram, 500, 2)

	t.Run("frees a reserved seat", func(t *testing.T) {
		require.NoError(t, repo.ReserveSeat(ctx, pricing.TierFoundersProgram))
		require.NoError(t, repo.ReserveSeat(ctx, pricing.TierFoundersProgram))

		err := repo.ReleaseSeat(ctx, pricing.TierFoundersProgram)
		assert.NoError(t, err)

		tier, err := repo.GetByName(ctx, pricing.TierFoundersProgram)
		assert.NoError(t, err)
		assert.Equal(t, 1, tier.CurrentSeats())
		assert.True(t, tier.HasSeatsAvailable())
	})

	t.Run("release clamps at zero", func(t *testing.T) {
		require.NoError(t, repo.ReleaseSeat(ctx, pricing.TierFoundersProgram))

		// counter is at zero now; further releases must not go negative
		err := repo.ReleaseSeat(ctx, pricing.TierFoundersProgram)
		assert.NoError(t, err)

		tier, err := repo.GetByName(ctx, pricing.TierFoundersProgram)
		assert.NoError(t, err)
		assert.Equal(t, 0, tier.CurrentSeats())
	})

	t.Run("released seat becomes reservable again", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			require.NoError(t, repo.ReserveSeat(ctx, pricing.TierFoundersProgram))
		}
		require.ErrorIs(t, repo.ReserveSeat(ctx, pricing.TierFoundersProgram), pricing.ErrSoldOut)

		require.NoError(t, repo.ReleaseSeat(ctx, pricing.TierFoundersProgram))

		err := repo.ReserveSeat(ctx, pricing.TierFoundersProgram)
		assert.NoError(t, err)
	})
}

func TestSubscriptionTierRepository_Save(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionTierRepository(db, logger.NewLogger())
	ctx := context.Background()

	t.Run("upsert updates price without resetting seats", func(t *testing.T) {
		seedTier(t, repo, pricing.TierFoundersProgram, 500, 30)
		require.NoError(t, repo.ReserveSeat(ctx, pricing.TierFoundersProgram))

		updated, err := pricing.NewTier(pricing.TierFoundersProgram, 700, 30)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, updated))

		tier, err := repo.GetByName(ctx, pricing.TierFoundersProgram)
		assert.NoError(t, err)
		assert.Equal(t, int64(700), tier.PriceCents())
		assert.Equal(t, 1, tier.CurrentSeats())
	})
}

func TestSubscriptionTierRepository_ListActive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionTierRepository(db, logger.NewLogger())
	ctx := context.Background()

	seedTier(t, repo, pricing.TierFoundersProgram, 500, 30)
	seedTier(t, repo, pricing.TierRegularProgram, 1500, 0)

	tiers, err := repo.ListActive(ctx)
	assert.NoError(t, err)
	require.Len(t, tiers, 2)
	assert.Equal(t, pricing.TierFoundersProgram, tiers[0].Name())
	assert.Equal(t, pricing.TierRegularProgram, tiers[1].Name())
	assert.False(t, tiers[1].SeatLimited())
}
