package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaker_GenerateAndParseToken_ValidCases(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	tokenTTL := 15 * time.Minute
	maker := NewMaker(secretKey, tokenTTL)

	tests := []struct {
		name       string
		subjectUID string
	}{
		{name: "uuid subject", subjectUID: "9f2c3a44-28f1-4a6e-b9a7-2f0f4f9a1d11"},
		{name: "plain subject", subjectUID: "user-42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, expiresAt, err := maker.GenerateToken(tt.subjectUID)
			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), expiresAt, time.Second)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.subjectUID, claims.Subject)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second)
			assert.WithinDuration(t, expiresAt, claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestMaker_GenerateTokenWithTTL(t *testing.T) {
	maker := NewMaker("test_secret_key_1234567890", 15*time.Minute)

	token, expiresAt, err := maker.GenerateTokenWithTTL("user-1", time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Second)
}

func TestMaker_ParseToken_InvalidTokens(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	maker := NewMaker(secretKey, 15*time.Minute)

	validToken, _, err := maker.GenerateToken("user-1")
	require.NoError(t, err)

	expiredMaker := NewMaker(secretKey, -time.Minute)
	expiredToken, _, err := expiredMaker.GenerateToken("user-1")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "malformed token", token: "invalid.token.here"},
		{name: "expired token", token: expiredToken},
		{name: "tampered token", token: validToken + "tampered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestMaker_DifferentSecretKeys(t *testing.T) {
	userMaker := NewMaker("user_secret_key", 15*time.Minute)
	adminMaker := NewMaker("admin_secret_key", 15*time.Minute)

	userToken, _, err := userMaker.GenerateToken("user-1")
	require.NoError(t, err)
	adminToken, _, err := adminMaker.GenerateToken("admin-1")
	require.NoError(t, err)

	// Секреты невзаимозаменяемы: пользовательский токен не проходит
	// проверку админским Maker и наоборот.
	claims, err := adminMaker.ParseToken(userToken)
	assert.Error(t, err)
	assert.Nil(t, claims)

	claims, err = userMaker.ParseToken(adminToken)
	assert.Error(t, err)
	assert.Nil(t, claims)
}
