package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inboxlift/internal/domain/billing"
	"inboxlift/internal/domain/pricing"
	"inboxlift/internal/shared/logger"
)

func TestCheckoutReservationRepository_CreateAndLookup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCheckoutReservationRepository(db, logger.NewLogger())
	ctx := context.Background()

	t.Run("create assigns ID and round-trips via provider session", func(t *testing.T) {
		reservation, err := billing.NewReservation("buyer@example.com", pricing.TierFoundersProgram, 30*time.Minute)
		require.NoError(t, err)

		err = repo.Create(ctx, reservation)
		assert.NoError(t, err)
		assert.NotZero(t, reservation.ID())

		require.NoError(t, reservation.AttachProviderSession("cs_test_abc123"))
		require.NoError(t, repo.Update(ctx, reservation))

		found, err := repo.GetByProviderSessionID(ctx, "cs_test_abc123")
		assert.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, reservation.SID(), found.SID())
		assert.Equal(t, "buyer@example.com", found.Email())
		assert.Equal(t, pricing.TierFoundersProgram, found.TierName())
		assert.Equal(t, billing.ReservationStatusPending, found.Status())
	})

	t.Run("unknown provider session returns nil without error", func(t *testing.T) {
		found, err := repo.GetByProviderSessionID(ctx, "cs_test_unknown")
		assert.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestCheckoutReservationRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCheckoutReservationRepository(db, logger.NewLogger())
	ctx := context.Background()

	t.Run("persists status transitions", func(t *testing.T) {
		reservation, err := billing.NewReservation("done@example.com", pricing.TierFoundersProgram, 30*time.Minute)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, reservation))
		require.NoError(t, reservation.AttachProviderSession("cs_test_done"))
		require.NoError(t, repo.Update(ctx, reservation))

		require.NoError(t, reservation.Complete())
		err = repo.Update(ctx, reservation)
		assert.NoError(t, err)

		found, err := repo.GetByProviderSessionID(ctx, "cs_test_done")
		assert.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, billing.ReservationStatusCompleted, found.Status())
	})

	t.Run("rejects reservation without ID", func(t *testing.T) {
		reservation, err := billing.NewReservation("no-id@example.com", pricing.TierFoundersProgram, 30*time.Minute)
		require.NoError(t, err)

		err = repo.Update(ctx, reservation)
		assert.Error(t, err)
	})
}

func TestCheckoutReservationRepository_SettlePending(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCheckoutReservationRepository(db, logger.NewLogger())
	ctx := context.Background()

	t.Run("one winner when two loaded copies settle the same row", func(t *testing.T) {
		reservation, err := billing.NewReservation("abandon@example.com", pricing.TierFoundersProgram, time.Minute)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, reservation))
		require.NoError(t, reservation.AttachProviderSession("cs_test_race"))
		require.NoError(t, repo.Update(ctx, reservation))

		// Both settlers read the row while it was still pending.
		webhookCopy, err := repo.GetByProviderSessionID(ctx, "cs_test_race")
		require.NoError(t, err)
		sweeperCopy, err := repo.GetByProviderSessionID(ctx, "cs_test_race")
		require.NoError(t, err)

		require.NoError(t, webhookCopy.Release())
		settled, err := repo.SettlePending(ctx, webhookCopy)
		assert.NoError(t, err)
		assert.True(t, settled)

		require.NoError(t, sweeperCopy.Release())
		settled, err = repo.SettlePending(ctx, sweeperCopy)
		assert.NoError(t, err)
		assert.False(t, settled, "second settle of the same row must lose")

		found, err := repo.GetByProviderSessionID(ctx, "cs_test_race")
		assert.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, billing.ReservationStatusReleased, found.Status())
	})

	t.Run("rejects reservation without ID", func(t *testing.T) {
		reservation, err := billing.NewReservation("no-id@example.com", pricing.TierFoundersProgram, time.Minute)
		require.NoError(t, err)
		require.NoError(t, reservation.Release())

		_, err = repo.SettlePending(ctx, reservation)
		assert.Error(t, err)
	})
}

func TestCheckoutReservationRepository_ListExpiredPending(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCheckoutReservationRepository(db, logger.NewLogger())
	ctx := context.Background()

	stale, err := billing.NewReservation("stale@example.com", pricing.TierFoundersProgram, time.Minute)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, stale))

	fresh, err := billing.NewReservation("fresh@example.com", pricing.TierFoundersProgram, time.Hour)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, fresh))

	released, err := billing.NewReservation("released@example.com", pricing.TierFoundersProgram, time.Minute)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, released))
	require.NoError(t, released.Release())
	require.NoError(t, repo.Update(ctx, released))

	t.Run("returns only pending reservations past cutoff", func(t *testing.T) {
		cutoff := time.Now().UTC().Add(10 * time.Minute)

		expired, err := repo.ListExpiredPending(ctx, cutoff, 100)
		assert.NoError(t, err)
		require.Len(t, expired, 1)
		assert.Equal(t, stale.SID(), expired[0].SID())
	})

	t.Run("nothing expired before cutoff", func(t *testing.T) {
		cutoff := time.Now().UTC().Add(-10 * time.Minute)

		expired, err := repo.ListExpiredPending(ctx, cutoff, 100)
		assert.NoError(t, err)
		assert.Len(t, expired, 0)
	})

	t.Run("limit bounds the batch", func(t *testing.T) {
		another, err := billing.NewReservation("stale2@example.com", pricing.TierFoundersProgram, time.Minute)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, another))

		cutoff := time.Now().UTC().Add(10 * time.Minute)
		expired, err := repo.ListExpiredPending(ctx, cutoff, 1)
		assert.NoError(t, err)
		assert.Len(t, expired, 1)
	})
}
