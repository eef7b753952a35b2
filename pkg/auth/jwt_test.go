package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, ttl time.Duration) *JWTManager {
	m, err := NewJWTManager("test-secret-key", "taskstack", "taskstack-clients", ttl)
	require.NoError(t, err)
	return m
}

func TestNewJWTManagerRequiresConfiguration(t *testing.T) {
	_, err := NewJWTManager("", "issuer", "audience", time.Minute)
	assert.ErrorIs(t, err, ErrMissingJWTConf)

	_, err = NewJWTManager("key", "", "audience", time.Minute)
	assert.ErrorIs(t, err, ErrMissingJWTConf)

	_, err = NewJWTManager("key", "issuer", "", time.Minute)
	assert.ErrorIs(t, err, ErrMissingJWTConf)
}

func TestGenerateAndVerify(t *testing.T) {
	m := newTestManager(t, time.Hour)

	token, err := m.Generate(7, "user@example.com", "admin", "Jane", "Doe")
	require.NoError(t, err)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "Jane", claims.FirstName)
	assert.Equal(t, "Doe", claims.LastName)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := newTestManager(t, -time.Minute)

	token, err := m.Generate(1, "user@example.com", "user", "", "")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyRejectsForeignToken(t *testing.T) {
	m := newTestManager(t, time.Hour)

	other, err := NewJWTManager("other-secret", "taskstack", "taskstack-clients", time.Hour)
	require.NoError(t, err)

	token, err := other.Generate(1, "user@example.com", "user", "", "")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsWrongAudience(t *testing.T) {
	m := newTestManager(t, time.Hour)

	other, err := NewJWTManager("test-secret-key", "taskstack", "someone-else", time.Hour)
	require.NoError(t, err)

	token, err := other.Generate(1, "user@example.com", "user", "", "")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := newTestManager(t, time.Hour)

	_, err := m.Verify("not-a-token")
	assert.Error(t, err)
}
