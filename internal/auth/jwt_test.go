package auth

import (
	"testing"
	"time"

	"workhub_backend/internal/config"
	"workhub_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(accessHours int) *TokenManager {
	return NewTokenManager(config.JWTConfig{
		Secret:          "unit-test-secret",
		AccessTTLHours:  accessHours,
		RefreshTTLHours: 24,
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager(1)

	token, err := m.IssueAccessToken(42, models.UserRoleWorker)
	require.NoError(t, err)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, models.UserRoleWorker, claims.Role)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := newTestManager(1).IssueAccessToken(7, models.UserRoleClient)
	require.NoError(t, err)

	other := NewTokenManager(config.JWTConfig{Secret: "another-secret", AccessTTLHours: 1, RefreshTTLHours: 1})
	_, err = other.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := newTestManager(1).ParseToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredToken(t *testing.T) {
	m := newTestManager(0)
	m.accessTTL = -time.Minute

	token, err := m.IssueAccessToken(1, models.UserRoleWorker)
	require.NoError(t, err)

	_, err = m.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestIssueRefreshToken(t *testing.T) {
	m := newTestManager(1)

	token, expires := m.IssueRefreshToken()
	assert.NotEmpty(t, token)
	assert.True(t, expires.After(time.Now()))

	second, _ := m.IssueRefreshToken()
	assert.NotEqual(t, token, second)
}
