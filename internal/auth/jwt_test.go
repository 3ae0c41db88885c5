package auth_test

import (
	"testing"

	"sprintdeck/internal/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	userID := uuid.New().String()

	token, err := auth.GenerateToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := auth.GenerateToken(uuid.New().String())
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "different-secret")
	_, err = auth.ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := auth.ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestGenerateToken_BadExpiryFallsBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRY_HOURS", "not-a-number")

	token, err := auth.GenerateToken(uuid.New().String())
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}
