package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolhub_backend/internal/config"
)

func setJWTConfig(t *testing.T, secret string, ttlMinutes int) {
	t.Helper()
	config.AppConfig = &config.Config{}
	config.AppConfig.JWT.Secret = secret
	config.AppConfig.JWT.TTL = ttlMinutes
}

func TestGenerateAndParseToken(t *testing.T) {
	setJWTConfig(t, "unit-test-secret", 60)

	token, expiresAt, err := GenerateToken("user-1", "teacher", "school-1")
	require.NoError(t, err)
	assert.False(t, expiresAt.IsZero())

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "teacher", claims.Role)
	assert.Equal(t, "school-1", claims.SchoolID)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestParseToken_WrongSecret(t *testing.T) {
	setJWTConfig(t, "first-secret", 60)
	token, _, err := GenerateToken("user-1", "student", "school-1")
	require.NoError(t, err)

	setJWTConfig(t, "other-secret", 60)

	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseToken_Expired(t *testing.T) {
	setJWTConfig(t, "unit-test-secret", -1)
	token, _, err := GenerateToken("user-1", "student", "school-1")
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseToken_Garbage(t *testing.T) {
	setJWTConfig(t, "unit-test-secret", 60)

	_, err := ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
