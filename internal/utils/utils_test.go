package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/pitch-booking/internal/model"
)

const secret = "0123456789abcdef-test"

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken(secret, 42, model.RoleAdmin, 5)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), tok.Exp, 5*time.Second)

	id, err := ParseAccessToken(secret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: 42, Role: model.RoleAdmin}, id)
}

func TestParseAccessToken_Rejects(t *testing.T) {
	good, err := NewAccessToken(secret, 42, model.RolePlayer, 5)
	require.NoError(t, err)
	expired, err := NewAccessToken(secret, 42, model.RolePlayer, -1)
	require.NoError(t, err)
	unknownRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42", "role": "OWNER", "exp": time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"wrong secret": good.Token,
		"expired":      expired.Token,
		"unknown role": unknownRole,
		"garbage":      "not.a.jwt",
	} {
		t.Run(name, func(t *testing.T) {
			key := secret
			if name == "wrong secret" {
				key = "another-secret-entirely"
			}
			_, err := ParseAccessToken(key, raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestRefreshToken(t *testing.T) {
	a, err := NewRefreshToken(7)
	require.NoError(t, err)
	b, err := NewRefreshToken(7)
	require.NoError(t, err)

	assert.Len(t, a.Raw, 96)
	assert.NotEqual(t, a.Raw, b.Raw)
	assert.Len(t, HashRefreshRaw(a.Raw), 64)
	assert.Equal(t, HashRefreshRaw(a.Raw), HashRefreshRaw(a.Raw))
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter22", 4)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "hunter22"))
	assert.False(t, VerifyPassword(hash, "hunter23"))
	assert.False(t, VerifyPassword("not-a-hash", "hunter22"))

	_, err = HashPassword("short", 4)
	assert.ErrorIs(t, err, ErrPasswordLength)
	_, err = HashPassword(strings.Repeat("x", MaxPasswordLen+1), 4)
	assert.ErrorIs(t, err, ErrPasswordLength)
}
