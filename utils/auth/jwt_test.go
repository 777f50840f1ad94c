package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yarmel/photoshare/config"
)

func newTestCodec() *TokenCodec {
	return NewTokenCodec(config.JWTConfig{
		Secret:     "test-jwt-secret",
		Algorithm:  "HS256",
		Issuer:     "photoshare-test",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	})
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()

	token, err := codec.EncodeAccess("alice@example.com", "user")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := codec.Decode(token, ScopeAccess)
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, ScopeAccess, claims.Scope)
	assert.Equal(t, "photoshare-test", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenCodec_TamperedTokenRejected(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()

	token, err := codec.EncodeAccess("alice@example.com", "user")
	require.NoError(t, err)

	// Flip one byte in the payload section
	raw := []byte(token)
	mid := len(raw) / 2
	if raw[mid] == 'a' {
		raw[mid] = 'b'
	} else {
		raw[mid] = 'a'
	}

	claims, err := codec.Decode(string(raw), ScopeAccess)
	require.Error(t, err)
	assert.Nil(t, claims)
}

func TestTokenCodec_WrongSecretRejected(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()
	other := NewTokenCodec(config.JWTConfig{
		Secret:     "a-different-secret",
		Algorithm:  "HS256",
		Issuer:     "photoshare-test",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	})

	token, err := codec.EncodeAccess("alice@example.com", "user")
	require.NoError(t, err)

	_, err = other.Decode(token, ScopeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenCodec_WrongScopeRejected(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()

	access, err := codec.EncodeAccess("alice@example.com", "user")
	require.NoError(t, err)
	refresh, err := codec.EncodeRefresh("alice@example.com", "user")
	require.NoError(t, err)

	_, err = codec.Decode(access, ScopeRefresh)
	assert.ErrorIs(t, err, ErrWrongScope)

	_, err = codec.Decode(refresh, ScopeAccess)
	assert.ErrorIs(t, err, ErrWrongScope)
}

func TestTokenCodec_ExpiredTokenRejected(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()

	token, err := codec.Encode("alice@example.com", "user", ScopeAccess, -time.Minute)
	require.NoError(t, err)

	_, err = codec.Decode(token, ScopeAccess)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenCodec_GarbageRejected(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()

	_, err := codec.Decode("not-a-jwt-at-all", ScopeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
