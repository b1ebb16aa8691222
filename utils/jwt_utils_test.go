package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func TestToken_RoundTrip(t *testing.T) {
	userID := primitive.NewObjectID()

	token, err := GenerateToken(testSecret, userID, "alice", "alice@example.com")
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, primitive.NewObjectID(), "alice", "a@b.co")
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.True(t, errors.Is(err, ErrTokenInvalid))
}

func TestToken_Garbage(t *testing.T) {
	_, err := ParseToken(testSecret, "not.a.token")
	assert.True(t, errors.Is(err, ErrTokenInvalid))
}

func TestAdminToken_RoundTrip(t *testing.T) {
	token, err := GenerateAdminToken(testSecret)
	require.NoError(t, err)
	assert.NoError(t, ParseAdminToken(testSecret, token))
}

func TestAdminToken_RejectsUserToken(t *testing.T) {
	token, err := GenerateToken(testSecret, primitive.NewObjectID(), "alice", "a@b.co")
	require.NoError(t, err)

	err = ParseAdminToken(testSecret, token)
	assert.True(t, errors.Is(err, ErrTokenInvalid))
}

func TestUserToken_RejectsAdminToken(t *testing.T) {
	token, err := GenerateAdminToken(testSecret)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	assert.True(t, errors.Is(err, ErrTokenInvalid))
}

func TestPassword_HashAndCheck(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", hash)

	assert.True(t, CheckPassword("hunter2hunter2", hash))
	assert.False(t, CheckPassword("wrong-password", hash))
}
