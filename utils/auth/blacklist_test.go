package auth

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yarmel/photoshare/model"
)

func initBlacklistDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.BlacklistedToken{}))

	return db
}

func TestBlacklist_AddAndLookup(t *testing.T) {
	t.Parallel()

	svc := NewBlacklistService(initBlacklistDB(t))
	ctx := context.Background()

	revoked, err := svc.IsBlacklisted(ctx, "some.token")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, svc.Add(ctx, "alice@example.com", "some.token"))

	revoked, err = svc.IsBlacklisted(ctx, "some.token")
	require.NoError(t, err)
	assert.True(t, revoked)

	// Lookup is by exact token string
	revoked, err = svc.IsBlacklisted(ctx, "some.token2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestBlacklist_AddTwiceIsHarmless(t *testing.T) {
	t.Parallel()

	svc := NewBlacklistService(initBlacklistDB(t))
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "alice@example.com", "some.token"))
	require.NoError(t, svc.Add(ctx, "alice@example.com", "some.token"))

	revoked, err := svc.IsBlacklisted(ctx, "some.token")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestBlacklist_PruneRemovesOnlyExpired(t *testing.T) {
	t.Parallel()

	db := initBlacklistDB(t)
	svc := NewBlacklistService(db)
	ctx := context.Background()

	// One entry well past the window, one fresh
	old := model.BlacklistedToken{
		Email:   "alice@example.com",
		Token:   "old.token",
		AddedAt: time.Now().Add(-2 * time.Hour),
	}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, svc.Add(ctx, "alice@example.com", "fresh.token"))

	removed, err := svc.Prune(ctx, 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	revoked, err := svc.IsBlacklisted(ctx, "old.token")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = svc.IsBlacklisted(ctx, "fresh.token")
	require.NoError(t, err)
	assert.True(t, revoked)

	// Pruning again finds nothing
	removed, err = svc.Prune(ctx, 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)
}
