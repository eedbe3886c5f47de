package realtimeoverlay

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is the recommended cache lifetime for realtime blobs.
const DefaultTTL = 60 * time.Second

// BlobCache stores the most recently fetched raw trip-update bytes,
// keyed by mode_tag. MemoryBlobCache is the default; RedisBlobCache
// lets several instances share one cache.
type BlobCache interface {
	Get(ctx context.Context, modeTag string) ([]byte, bool)
	Set(ctx context.Context, modeTag string, blob []byte, ttl time.Duration)
}

// MemoryBlobCache is the default, dependency-free BlobCache.
type MemoryBlobCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	blob      []byte
	expiresAt time.Time
}

func NewMemoryBlobCache() *MemoryBlobCache {
	return &MemoryBlobCache{entries: map[string]memoryEntry{}}
}

func (c *MemoryBlobCache) Get(_ context.Context, modeTag string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[modeTag]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.blob, true
}

func (c *MemoryBlobCache) Set(_ context.Context, modeTag string, blob []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[modeTag] = memoryEntry{blob: blob, expiresAt: time.Now().Add(ttl)}
}

// RedisBlobCache is the Redis-backed BlobCache for multi-instance
// deployments sharing one overlay cache.
type RedisBlobCache struct {
	client *redis.Client
	prefix string
}

func NewRedisBlobCache(client *redis.Client) *RedisBlobCache {
	return &RedisBlobCache{client: client, prefix: "realtime-overlay:"}
}

func (c *RedisBlobCache) key(modeTag string) string {
	return c.prefix + modeTag
}

func (c *RedisBlobCache) Get(ctx context.Context, modeTag string) ([]byte, bool) {
	val, err := c.client.Get(ctx, c.key(modeTag)).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *RedisBlobCache) Set(ctx context.Context, modeTag string, blob []byte, ttl time.Duration) {
	c.client.Set(ctx, c.key(modeTag), blob, ttl)
}

// RateLimiter enforces the feed-wide "24 calls per 60 seconds across
// all modes" budget. A sliding window of call timestamps, since
// the limit is shared across modes rather than per-mode.
type RateLimiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	calls  []time.Time
}

func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{max: max, window: window}
}

// Allow reports whether a new realtime fetch may proceed right now,
// recording it if so.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-r.window)

	live := r.calls[:0]
	for _, t := range r.calls {
		if t.After(cutoff) {
			live = append(live, t)
		}
	}
	r.calls = live

	if len(r.calls) >= r.max {
		return false
	}
	r.calls = append(r.calls, now)
	return true
}
