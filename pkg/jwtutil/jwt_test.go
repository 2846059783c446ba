package jwtutil

import (
	"testing"

	"cardapio-api/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupJWT(t *testing.T) {
	t.Helper()
	Initialize(&config.JWTConfig{
		SigningKey:      "test-signing-key",
		ExpirationHours: 1,
	})
	t.Cleanup(func() { cfg = nil })
}

func TestGenerateAndValidateToken(t *testing.T) {
	setupJWT(t)

	token, err := GenerateToken("owner@pizzaria.com", 7, 3, "OWNER")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "owner@pizzaria.com", claims.Email)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, uint(3), claims.TenantID)
	assert.Equal(t, "OWNER", claims.Role)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestValidateTokenWrongKey(t *testing.T) {
	setupJWT(t)

	token, err := GenerateToken("owner@pizzaria.com", 1, 1, "OWNER")
	require.NoError(t, err)

	Initialize(&config.JWTConfig{SigningKey: "another-key", ExpirationHours: 1})
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	setupJWT(t)

	_, err := ValidateToken("not-a-jwt")
	assert.Error(t, err)
}

func TestUninitializedConfig(t *testing.T) {
	cfg = nil

	_, err := GenerateToken("a@b.com", 1, 1, "")
	assert.Error(t, err)

	_, err = ValidateToken("whatever")
	assert.Error(t, err)
}
