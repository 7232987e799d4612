package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRevocationList(t *testing.T) {
	ctx := context.Background()
	list := NewMemoryRevocationList()

	revoked, err := list.IsRevoked(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))
	revoked, err = list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestMemoryRevocationListExpiry(t *testing.T) {
	ctx := context.Background()
	list := NewMemoryRevocationList()

	// Revoking an already-expired token is a no-op.
	require.NoError(t, list.Revoke(ctx, "stale", time.Now().Add(-time.Minute)))
	revoked, err := list.IsRevoked(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, revoked)

	// A revocation lapses once the token itself would have expired.
	require.NoError(t, list.Revoke(ctx, "short", time.Now().Add(20*time.Millisecond)))
	time.Sleep(30 * time.Millisecond)
	revoked, err = list.IsRevoked(ctx, "short")
	require.NoError(t, err)
	assert.False(t, revoked)
}
