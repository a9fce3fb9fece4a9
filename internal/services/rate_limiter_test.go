package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/edtech-scanner/app-auth/internal/models"
	"github.com/edtech-scanner/app-auth/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClock is a manually advanced clock for TTL tests
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestRateLimiter_AdmitsUpToMax(t *testing.T) {
	ctx := context.Background()
	limiter := NewOTPRateLimiter(store.NewMemory(), 3, time.Hour)

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Admit(ctx, "+85512345678"))
		require.NoError(t, limiter.Record(ctx, "+85512345678"))
	}

	err := limiter.Admit(ctx, "+85512345678")
	assert.ErrorIs(t, err, models.ErrRateLimited)
}

func TestRateLimiter_WindowExpiryResets(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	limiter := NewOTPRateLimiter(store.NewMemoryWithClock(clock.Now), 3, time.Hour)

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Admit(ctx, "+85512345678"))
		require.NoError(t, limiter.Record(ctx, "+85512345678"))
	}
	require.ErrorIs(t, limiter.Admit(ctx, "+85512345678"), models.ErrRateLimited)

	clock.Advance(time.Hour + time.Second)
	assert.NoError(t, limiter.Admit(ctx, "+85512345678"))
}

func TestRateLimiter_WindowNotExtendedByLaterIssuance(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	limiter := NewOTPRateLimiter(store.NewMemoryWithClock(clock.Now), 3, time.Hour)

	require.NoError(t, limiter.Record(ctx, "+85512345678"))

	// Two more issuances deep into the window must not push its end out
	clock.Advance(50 * time.Minute)
	require.NoError(t, limiter.Record(ctx, "+85512345678"))
	require.NoError(t, limiter.Record(ctx, "+85512345678"))
	require.ErrorIs(t, limiter.Admit(ctx, "+85512345678"), models.ErrRateLimited)

	clock.Advance(10*time.Minute + time.Second)
	assert.NoError(t, limiter.Admit(ctx, "+85512345678"))
}

func TestRateLimiter_PhonesAreIndependent(t *testing.T) {
	ctx := context.Background()
	limiter := NewOTPRateLimiter(store.NewMemory(), 3, time.Hour)

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Record(ctx, "+85512345678"))
	}
	require.ErrorIs(t, limiter.Admit(ctx, "+85512345678"), models.ErrRateLimited)
	assert.NoError(t, limiter.Admit(ctx, "+85598765432"))
}
