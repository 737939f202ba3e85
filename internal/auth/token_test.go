package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestTokenRoundtrip(t *testing.T) {
	tm := newTestManager()

	token, err := tm.Access(42, "ana@example.com", RoleCustomer)
	require.NoError(t, err)

	claims, err := tm.ParseAccess(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID())
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, RoleCustomer, claims.Role)
}

func TestTokenSecretsAreSeparate(t *testing.T) {
	tm := newTestManager()

	refresh, err := tm.Refresh(42, "ana@example.com", RoleCustomer)
	require.NoError(t, err)

	// A refresh token must not pass as an access token.
	_, err = tm.ParseAccess(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims, err := tm.ParseRefresh(refresh)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID())
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := newTestManager().Access(1, "x@example.com", RoleAdmin)
	require.NoError(t, err)

	other := NewTokenManager("different", "different", time.Minute, time.Minute)
	_, err = other.ParseAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpired(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret", -time.Minute, -time.Minute)

	token, err := tm.Access(1, "x@example.com", RoleCustomer)
	require.NoError(t, err)

	_, err = tm.ParseAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenGarbage(t *testing.T) {
	_, err := newTestManager().ParseAccess("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
