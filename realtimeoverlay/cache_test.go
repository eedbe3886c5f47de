package realtimeoverlay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryBlobCache(t *testing.T) {
	cache := NewMemoryBlobCache()
	ctx := context.Background()

	_, ok := cache.Get(ctx, "regional")
	assert.False(t, ok)

	cache.Set(ctx, "regional", []byte("blob"), time.Minute)
	blob, ok := cache.Get(ctx, "regional")
	assert.True(t, ok)
	assert.Equal(t, []byte("blob"), blob)

	// Keys are per mode.
	_, ok = cache.Get(ctx, "bus")
	assert.False(t, ok)
}

func TestMemoryBlobCacheExpiry(t *testing.T) {
	cache := NewMemoryBlobCache()
	ctx := context.Background()

	cache.Set(ctx, "regional", []byte("stale"), -time.Second)
	_, ok := cache.Get(ctx, "regional")
	assert.False(t, ok)
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(3, time.Hour)

	assert.True(t, limiter.Allow())
	assert.True(t, limiter.Allow())
	assert.True(t, limiter.Allow())
	assert.False(t, limiter.Allow())
}

func TestRateLimiterWindowSlides(t *testing.T) {
	limiter := NewRateLimiter(2, 50*time.Millisecond)

	assert.True(t, limiter.Allow())
	assert.True(t, limiter.Allow())
	assert.False(t, limiter.Allow())

	time.Sleep(60 * time.Millisecond)
	assert.True(t, limiter.Allow())
}
