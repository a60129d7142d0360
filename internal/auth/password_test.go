package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret-pass1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret-pass1", hash)

	assert.True(t, CheckPasswordHash("secret-pass1", hash))
	assert.False(t, CheckPasswordHash("wrong-pass1", hash))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("password123"))
	assert.Error(t, ValidatePassword("short1"))
	assert.Error(t, ValidatePassword("onlyletters"))
	assert.Error(t, ValidatePassword("1234567890"))
}
