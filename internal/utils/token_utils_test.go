package utils

import (
	"testing"
	"time"

	"github.com/SscSPs/timesheet_app/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndParseJWT(t *testing.T) {
	now := time.Now()
	token, expiresAt, err := GenerateJWT("user-1", domain.RoleManager, testSecret, time.Hour, "timesheet-app", now)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, now.Add(time.Hour), expiresAt, time.Second)

	claims, err := ParseAndValidateJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{UserID: "user-1", Role: domain.RoleManager}, claims.Identity())
	assert.Equal(t, "timesheet-app", claims.Issuer)
}

func TestParseAndValidateJWT_Rejects(t *testing.T) {
	now := time.Now()

	expired, _, err := GenerateJWT("user-1", domain.RoleUser, testSecret, -time.Minute, "iss", now)
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(expired, testSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	valid, _, err := GenerateJWT("user-1", domain.RoleUser, testSecret, time.Hour, "iss", now)
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(valid, "other-secret")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	badRole, _, err := GenerateJWT("user-1", domain.UserRole("root"), testSecret, time.Hour, "iss", now)
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(badRole, testSecret)
	assert.Error(t, err)

	noSubject, _, err := GenerateJWT("", domain.RoleUser, testSecret, time.Hour, "iss", now)
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(noSubject, testSecret)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
	assert.Equal(t, "a@b.com", NormalizeEmail("  A@B.com "))
}

func TestPosthogWrapper_NoopWithoutKey(t *testing.T) {
	var w *PosthogClientWrapper
	assert.False(t, w.IsInitialized())
	w.Enqueue("u", "event", nil)
	w.Close()
}
