package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inboxlift/internal/infrastructure/persistence/models"
	"inboxlift/internal/shared/logger"
)

func TestPromotionalAccessRepository_HasActiveGrant(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPromotionalAccessRepository(db, logger.NewLogger())
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	seed := func(email string, expiresAt time.Time, active bool) {
		grant := &models.PromotionalAccessModel{
			Email:     email,
			ExpiresAt: expiresAt,
			IsActive:  true,
		}
		require.NoError(t, db.Create(grant).Error)
		if !active {
			// gorm skips zero-valued fields carrying a default tag on
			// insert, so deactivation needs an explicit update
			require.NoError(t, db.Model(grant).Update("is_active", false).Error)
		}
	}

	seed("active@example.com", now.Add(24*time.Hour), true)
	seed("expired@example.com", now.Add(-time.Hour), true)
	seed("revoked@example.com", now.Add(24*time.Hour), false)

	t.Run("unexpired active grant counts", func(t *testing.T) {
		ok, err := repo.HasActiveGrant(ctx, "active@example.com", now)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("expired grant does not count", func(t *testing.T) {
		ok, err := repo.HasActiveGrant(ctx, "expired@example.com", now)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("revoked grant does not count", func(t *testing.T) {
		ok, err := repo.HasActiveGrant(ctx, "revoked@example.com", now)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unknown email has no grant", func(t *testing.T) {
		ok, err := repo.HasActiveGrant(ctx, "nobody@example.com", now)
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestUnlimitedUserRepository_IsUnlimited(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUnlimitedUserRepository(db, logger.NewLogger())
	ctx := context.Background()

	require.NoError(t, db.Create(&models.UnlimitedUserModel{Email: "vip@example.com", IsActive: true}).Error)

	former := &models.UnlimitedUserModel{Email: "former-vip@example.com", IsActive: true}
	require.NoError(t, db.Create(former).Error)
	require.NoError(t, db.Model(former).Update("is_active", false).Error)

	t.Run("active allow-list member", func(t *testing.T) {
		ok, err := repo.IsUnlimited(ctx, "vip@example.com")
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("deactivated member is metered again", func(t *testing.T) {
		ok, err := repo.IsUnlimited(ctx, "former-vip@example.com")
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unknown email is metered", func(t *testing.T) {
		ok, err := repo.IsUnlimited(ctx, "regular@example.com")
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}
