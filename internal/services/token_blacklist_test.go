package services

import (
	"context"
	"testing"
	"time"

	"github.com/edtech-scanner/app-auth/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBlacklist_RevokeAndCheck(t *testing.T) {
	ctx := context.Background()
	blacklist := NewTokenBlacklist(store.NewMemory(), 24*time.Hour)

	revoked, err := blacklist.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, blacklist.Revoke(ctx, "token-a"))

	revoked, err = blacklist.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsRevoked(ctx, "token-b")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenBlacklist_RevokeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	blacklist := NewTokenBlacklist(store.NewMemory(), 24*time.Hour)

	require.NoError(t, blacklist.Revoke(ctx, "token-a"))
	require.NoError(t, blacklist.Revoke(ctx, "token-a"))

	revoked, err := blacklist.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestTokenBlacklist_EntryExpires(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	blacklist := NewTokenBlacklist(store.NewMemoryWithClock(clock.Now), 24*time.Hour)

	require.NoError(t, blacklist.Revoke(ctx, "token-a"))

	clock.Advance(24*time.Hour + time.Second)
	revoked, err := blacklist.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)
}
