package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(config *RateLimitConfig) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	limiter := NewRateLimiter(config)
	limiter.now = clock.now
	return limiter, clock
}

func TestRateLimiter_Allow(t *testing.T) {
	ctx := context.Background()
	config := &RateLimitConfig{RequestsPerWindow: 10, WindowDuration: time.Second, BurstSize: 2}
	limiter, clock := newTestLimiter(config)

	allowed := 0
	for i := 0; i < 20; i++ {
		ok, err := limiter.Allow(ctx, "client")
		require.NoError(t, err)
		if ok {
			allowed++
		}
	}
	assert.Equal(t, 12, allowed)

	// other clients have their own bucket
	ok, _ := limiter.Allow(ctx, "other")
	assert.True(t, ok)

	clock.advance(100 * time.Millisecond)
	ok, _ = limiter.Allow(ctx, "client")
	assert.True(t, ok, "one token refilled")
	ok, _ = limiter.Allow(ctx, "client")
	assert.False(t, ok)
}

func TestRateLimiter_RefillCapped(t *testing.T) {
	ctx := context.Background()
	config := &RateLimitConfig{RequestsPerWindow: 5, WindowDuration: time.Second, BurstSize: 1}
	limiter, clock := newTestLimiter(config)

	_, _ = limiter.Allow(ctx, "client")
	clock.advance(time.Hour)

	remaining, err := limiter.Remaining(ctx, "client")
	require.NoError(t, err)
	assert.Equal(t, 6, remaining)
}

func TestRateLimiter_RemainingAndReset(t *testing.T) {
	ctx := context.Background()
	config := &RateLimitConfig{RequestsPerWindow: 2, WindowDuration: time.Second}
	limiter, _ := newTestLimiter(config)

	remaining, _ := limiter.Remaining(ctx, "client")
	assert.Equal(t, 2, remaining)
	reset, _ := limiter.Reset(ctx, "client")
	assert.Zero(t, reset)

	_, _ = limiter.Allow(ctx, "client")
	remaining, _ = limiter.Remaining(ctx, "client")
	assert.Equal(t, 1, remaining)

	_, _ = limiter.Allow(ctx, "client")
	reset, _ = limiter.Reset(ctx, "client")
	assert.Equal(t, 500*time.Millisecond, reset)
	assert.Equal(t, 2, limiter.Limit())
}

func TestRateLimiter_Cleanup(t *testing.T) {
	ctx := context.Background()
	config := &RateLimitConfig{RequestsPerWindow: 10, WindowDuration: time.Second}
	limiter, clock := newTestLimiter(config)

	_, _ = limiter.Allow(ctx, "old")
	clock.advance(3 * time.Second)
	_, _ = limiter.Allow(ctx, "new")
	require.Equal(t, 2, limiter.Len())

	limiter.Cleanup()
	assert.Equal(t, 1, limiter.Len())
	remaining, _ := limiter.Remaining(ctx, "new")
	assert.Equal(t, 9, remaining)
}

func TestNewRateLimiter_Defaults(t *testing.T) {
	limiter := NewRateLimiter(nil)
	assert.Equal(t, DefaultRateLimitConfig(), limiter.config)
	assert.Equal(t, 120, limiter.Limit())
}
