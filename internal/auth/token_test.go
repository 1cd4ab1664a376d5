package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	tm := NewTokenManager("test-secret", "fintrack", time.Hour)
	userID := uuid.New()

	token, err := tm.Generate(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", "fintrack", time.Hour).Generate(uuid.New())
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", "fintrack", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	token, err := NewTokenManager("secret", "someone-else", time.Hour).Generate(uuid.New())
	require.NoError(t, err)

	_, err = NewTokenManager("secret", "fintrack", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager("secret", "fintrack", -time.Minute)
	token, err := tm.Generate(uuid.New())
	require.NoError(t, err)

	_, err = tm.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("secret", "fintrack", time.Hour)
	_, err := tm.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
