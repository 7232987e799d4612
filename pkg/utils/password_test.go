package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	// MinCost keeps the test fast; cost only changes work factor, not behavior.
	hash, err := HashPassword("Abcdefg1!", 4)
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotContains(t, hash, "Abcdefg1!")

	assert.True(t, VerifyPassword("Abcdefg1!", hash))
	assert.False(t, VerifyPassword("wrong-password", hash))
	assert.False(t, VerifyPassword("Abcdefg1!", "not-a-hash"))
}
