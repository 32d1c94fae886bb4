package utils_test

import (
	"testing"

	"room_finder/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := utils.GenerateJWT("profile-123", "secret")
	require.NoError(t, err)

	claims, err := utils.ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "profile-123", claims.UserID)
	assert.NotEmpty(t, claims.TokenID, "each token carries a revocable id")
	require.NotNil(t, claims.ExpiresAt)
}

func TestParseJWTWrongSecret(t *testing.T) {
	token, err := utils.GenerateJWT("profile-123", "secret")
	require.NoError(t, err)

	_, err = utils.ParseJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestTokenIDsAreUnique(t *testing.T) {
	a, err := utils.GenerateJWT("profile-123", "secret")
	require.NoError(t, err)
	b, err := utils.GenerateJWT("profile-123", "secret")
	require.NoError(t, err)

	ca, err := utils.ParseJWT(a, "secret")
	require.NoError(t, err)
	cb, err := utils.ParseJWT(b, "secret")
	require.NoError(t, err)
	assert.NotEqual(t, ca.TokenID, cb.TokenID)
}
