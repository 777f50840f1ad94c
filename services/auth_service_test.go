package services

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yarmel/photoshare/config"
	"github.com/yarmel/photoshare/model"
	"github.com/yarmel/photoshare/utils/auth"
)

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.BlacklistedToken{},
		&model.Image{},
		&model.Tag{},
		&model.Comment{},
	))

	return db
}

func newTestAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()

	db := initTestDB(t)
	codec := auth.NewTokenCodec(config.JWTConfig{
		Secret:     "test-jwt-secret",
		Algorithm:  "HS256",
		Issuer:     "photoshare-test",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	})

	return NewAuthService(db, codec), db
}

func TestAuthService_SignupThenLogin(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "password123", user.PasswordHash)

	// Login by email
	loggedIn, pair, err := svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.Equal(t, "bearer", pair.TokenType)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// Login by username
	_, pair2, err := svc.Login(ctx, "alice", "password123")
	require.NoError(t, err)
	require.NotNil(t, pair2)
}

func TestAuthService_FirstUserBecomesAdmin(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	first, err := svc.Signup(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, first.Role)

	second, err := svc.Signup(ctx, "bob", "bob@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, second.Role)
}

func TestAuthService_SignupConflicts(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "bob", "alice@example.com", "password123")
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Signup(ctx, "alice", "bob@example.com", "password123")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	// Colliding on both reports only the email conflict
	_, err = svc.Signup(ctx, "alice", "alice@example.com", "password123")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_WrongPasswordLeavesRefreshTokenUntouched(t *testing.T) {
	t.Parallel()

	svc, db := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, pair, err := svc.Login(ctx, "alice", "password123")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice", "not-the-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	var user model.User
	require.NoError(t, db.Where("username = ?", "alice").First(&user).Error)
	require.NotNil(t, user.RefreshToken)
	assert.Equal(t, pair.RefreshToken, *user.RefreshToken)
}

func TestAuthService_LoginBanned(t *testing.T) {
	t.Parallel()

	svc, db := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, db.Model(&model.User{}).
		Where("username = ?", "alice").
		Update("banned", true).Error)

	_, _, err = svc.Login(ctx, "alice", "password123")
	assert.ErrorIs(t, err, ErrUserBanned)
}

func TestAuthService_LogoutRevokesToken(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "alice", "password123")
	require.NoError(t, err)

	// Token resolves before logout
	user, err := svc.ResolveCurrentUser(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	require.NoError(t, svc.Logout(ctx, pair.AccessToken))

	_, err = svc.ResolveCurrentUser(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenBlacklisted)

	// Logout is idempotent
	require.NoError(t, svc.Logout(ctx, pair.AccessToken))
}

func TestAuthService_LogoutRejectsNonAccessTokens(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "alice", "password123")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Logout(ctx, pair.RefreshToken), ErrInvalidToken)
	assert.ErrorIs(t, svc.Logout(ctx, "garbage"), ErrInvalidToken)
}

func TestAuthService_RefreshRotation(t *testing.T) {
	t.Parallel()

	svc, db := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "alice", "password123")
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	var user model.User
	require.NoError(t, db.Where("username = ?", "alice").First(&user).Error)
	require.NotNil(t, user.RefreshToken)
	assert.Equal(t, rotated.RefreshToken, *user.RefreshToken)

	// The superseded token is treated as a replay: rejected, and the
	// stored token is cleared so the session must log in again
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshMismatch)

	require.NoError(t, db.Where("username = ?", "alice").First(&user).Error)
	assert.Nil(t, user.RefreshToken)

	// Even the freshly rotated token is now dead
	_, err = svc.Refresh(ctx, rotated.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshMismatch)
}

func TestAuthService_RefreshRejectsAccessTokens(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "alice", "password123")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_ResolveCurrentUser_UnknownAndBanned(t *testing.T) {
	t.Parallel()

	svc, db := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.ResolveCurrentUser(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Valid token for an email with no account
	ghost, err := svc.Codec().EncodeAccess("ghost@example.com", "user")
	require.NoError(t, err)
	_, err = svc.ResolveCurrentUser(ctx, ghost)
	assert.ErrorIs(t, err, ErrUserNotFound)

	// Ban takes effect on the next resolve even with a live token
	_, err = svc.Signup(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "alice", "password123")
	require.NoError(t, err)
	require.NoError(t, db.Model(&model.User{}).
		Where("username = ?", "alice").
		Update("banned", true).Error)

	_, err = svc.ResolveCurrentUser(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrUserBanned)
}

func TestAuthService_ClearExpiredBlacklistRecords(t *testing.T) {
	t.Parallel()

	svc, db := newTestAuthService(t)
	ctx := context.Background()

	old := model.BlacklistedToken{
		Email:   "alice@example.com",
		Token:   "old.token",
		AddedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, svc.Blacklist().Add(ctx, "alice@example.com", "fresh.token"))

	removed, err := svc.ClearExpiredBlacklistRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	revoked, err := svc.Blacklist().IsBlacklisted(ctx, "fresh.token")
	require.NoError(t, err)
	assert.True(t, revoked)
}
