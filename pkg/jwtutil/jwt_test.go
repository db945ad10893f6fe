package jwtutil

import (
	"testing"
	"time"

	"etailor-admin/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUtil(accessTTL, refreshTTL time.Duration) *JWTUtil {
	return NewJWTUtil(&config.JWTConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	util := newTestUtil(time.Hour, 7*24*time.Hour)

	token, err := util.GenerateAccessToken(12, "admin@test.com", "admin")
	require.NoError(t, err)

	claims, err := util.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(12), claims.ID)
	assert.Equal(t, "admin@test.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestBackToBackMintsAreDistinct(t *testing.T) {
	util := newTestUtil(time.Hour, 7*24*time.Hour)

	// Identical identity and same-second timestamps must still yield
	// distinct token values, or in-place rotation becomes a no-op.
	first, err := util.GenerateRefreshToken(1, "a@test.com", "admin")
	require.NoError(t, err)
	second, err := util.GenerateRefreshToken(1, "a@test.com", "admin")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	firstClaims, err := util.VerifyRefreshToken(first)
	require.NoError(t, err)
	secondClaims, err := util.VerifyRefreshToken(second)
	require.NoError(t, err)
	assert.NotEmpty(t, firstClaims.RegisteredClaims.ID)
	assert.NotEqual(t, firstClaims.RegisteredClaims.ID, secondClaims.RegisteredClaims.ID)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	util := newTestUtil(time.Hour, 7*24*time.Hour)

	access, err := util.GenerateAccessToken(1, "a@test.com", "admin")
	require.NoError(t, err)
	refresh, err := util.GenerateRefreshToken(1, "a@test.com", "admin")
	require.NoError(t, err)

	_, err = util.VerifyRefreshToken(access)
	assert.Error(t, err)
	_, err = util.VerifyAccessToken(refresh)
	assert.Error(t, err)
}

func TestExpiredTokenDetection(t *testing.T) {
	util := newTestUtil(-time.Minute, 7*24*time.Hour)

	token, err := util.GenerateAccessToken(1, "a@test.com", "admin")
	require.NoError(t, err)

	_, err = util.VerifyAccessToken(token)
	require.Error(t, err)
	assert.True(t, IsExpired(err))

	// Other verification failures are not expiry.
	_, err = util.VerifyAccessToken("not-a-token")
	require.Error(t, err)
	assert.False(t, IsExpired(err))
}

func TestWrongSecretRejected(t *testing.T) {
	util := newTestUtil(time.Hour, time.Hour)
	other := NewJWTUtil(&config.JWTConfig{
		AccessSecret:  "different-secret",
		RefreshSecret: "different-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    time.Hour,
	})

	token, err := util.GenerateAccessToken(1, "a@test.com", "admin")
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(token)
	assert.Error(t, err)
}
