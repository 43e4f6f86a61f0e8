package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenService_RoundTrip(t *testing.T) {
	svc, err := NewTokenService(time.Hour, "susanoo", "susanoo-api", testSecret)
	require.NoError(t, err)

	token, err := svc.GenerateToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.AdvertiserID)
	assert.NotEmpty(t, claims.TokenID)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
}

func TestTokenService_RequiresSecret(t *testing.T) {
	_, err := NewTokenService(time.Hour, "susanoo", "susanoo-api", "")
	assert.Error(t, err)
}

func TestTokenService_RejectsExpiredToken(t *testing.T) {
	svc, err := NewTokenService(-time.Minute, "susanoo", "susanoo-api", testSecret)
	require.NoError(t, err)

	token, err := svc.GenerateToken(42)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenService_RejectsForeignToken(t *testing.T) {
	issuer, err := NewTokenService(time.Hour, "susanoo", "susanoo-api", testSecret)
	require.NoError(t, err)
	verifier, err := NewTokenService(time.Hour, "susanoo", "susanoo-api", "ffffffffffffffffffffffffffffffff")
	require.NoError(t, err)

	token, err := issuer.GenerateToken(42)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_RejectsWrongAudience(t *testing.T) {
	issuer, err := NewTokenService(time.Hour, "susanoo", "other-api", testSecret)
	require.NoError(t, err)
	verifier, err := NewTokenService(time.Hour, "susanoo", "susanoo-api", testSecret)
	require.NoError(t, err)

	token, err := issuer.GenerateToken(42)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	svc, err := NewTokenService(time.Hour, "susanoo", "susanoo-api", testSecret)
	require.NoError(t, err)

	_, err = svc.ValidateToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
