package realtimeoverlay

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/DevelopBG/PTV-Assistant-for-travel/catalogue"
	"github.com/DevelopBG/PTV-Assistant-for-travel/downloader"
	"github.com/DevelopBG/PTV-Assistant-for-travel/model"
	"github.com/DevelopBG/PTV-Assistant-for-travel/parse"
)

// APIKeyEnvVar names the environment variable carrying the realtime
// feed's API key. Its absence disables the overlay gracefully;
// it is never required for scheduled-only planning.
const APIKeyEnvVar = "PTV_API_KEY"

// Feed-wide rate budget: 24 calls per 60 seconds across all
// modes.
const (
	RateLimitCalls  = 24
	RateLimitWindow = 60 * time.Second
)

// RateLimitedError reports that the feed-wide call budget is spent;
// the overlay is skipped for this request and the scheduled answer
// stands.
type RateLimitedError struct{}

func (e *RateLimitedError) Error() string {
	return "realtime fetch rate limit exceeded"
}

// UpstreamUnavailableError wraps a fetch failure after retries.
type UpstreamUnavailableError struct {
	Cause error
}

func (e *UpstreamUnavailableError) Error() string {
	return fmt.Sprintf("realtime upstream unavailable: %v", e.Cause)
}

func (e *UpstreamUnavailableError) Unwrap() error {
	return e.Cause
}

// Fetcher retrieves trip-update blobs per mode, behind the shared
// rate limiter and TTL cache. The fetch is separable from Apply:
// anything that can hand Apply raw bytes works, which is what the
// tests do.
type Fetcher struct {
	FeedURLs   map[string]string // mode_tag -> trip-update URL
	Downloader downloader.Downloader
	Cache      BlobCache
	CacheTTL   time.Duration
	Limiter    *RateLimiter

	// APIKey overrides the environment lookup when set; tests use
	// this instead of mutating the process environment.
	APIKey string
}

// NewFetcher builds a Fetcher with the default cache TTL and rate
// budget.
func NewFetcher(feedURLs map[string]string) *Fetcher {
	return &Fetcher{
		FeedURLs:   feedURLs,
		Downloader: downloader.NewHTTP(),
		Cache:      NewMemoryBlobCache(),
		CacheTTL:   DefaultTTL,
		Limiter:    NewRateLimiter(RateLimitCalls, RateLimitWindow),
	}
}

// apiKey resolves the key, preferring the struct field over the
// environment.
func (f *Fetcher) apiKey() string {
	if f.APIKey != "" {
		return f.APIKey
	}
	return os.Getenv(APIKeyEnvVar)
}

// Enabled reports whether the overlay can run at all: it needs an API
// key and at least one feed URL.
func (f *Fetcher) Enabled() bool {
	return f.apiKey() != "" && len(f.FeedURLs) > 0
}

// FetchBlob returns the raw trip-update bytes for one mode, serving
// from the TTL cache when fresh and charging the rate limiter only on
// a real upstream call.
func (f *Fetcher) FetchBlob(ctx context.Context, modeTag string) ([]byte, error) {
	url, ok := f.FeedURLs[modeTag]
	if !ok {
		return nil, fmt.Errorf("no realtime feed configured for mode %q", modeTag)
	}

	if blob, ok := f.Cache.Get(ctx, modeTag); ok {
		return blob, nil
	}

	if !f.Limiter.Allow() {
		return nil, &RateLimitedError{}
	}

	headers := map[string]string{"X-API-Key": f.apiKey()}
	blob, err := f.Downloader.Get(ctx, url, headers, downloader.GetOptions{
		Timeout: 10 * time.Second,
	})
	if err != nil {
		return nil, &UpstreamUnavailableError{Cause: err}
	}

	f.Cache.Set(ctx, modeTag, blob, f.CacheTTL)
	return blob, nil
}

// Overlay fetches, parses and applies the trip-update feed for one
// mode onto journey. All overlay errors are soft: the journey is
// returned unmodified alongside the error so callers can attach the
// note and keep the scheduled answer.
func (f *Fetcher) Overlay(ctx context.Context, journey *model.Journey, modeTag string, cat *catalogue.Catalogue) (*model.Journey, error) {
	blob, err := f.FetchBlob(ctx, modeTag)
	if err != nil {
		return journey, err
	}

	batch, err := parse.ParseRealtime([][]byte{blob})
	if err != nil {
		return journey, err
	}

	prefixTripIDs(batch, modeTag)
	return Apply(journey, batch, cat), nil
}

// prefixTripIDs rewrites the feed's raw trip and stop ids into the
// catalogue's global id space, since a realtime feed only knows
// its own bundle's ids.
func prefixTripIDs(batch *parse.TripUpdateBatch, modeTag string) {
	cancelled := make(map[string]bool, len(batch.CancelledTrips))
	for id := range batch.CancelledTrips {
		cancelled[catalogue.GlobalID(modeTag, id)] = true
	}
	batch.CancelledTrips = cancelled

	for _, u := range batch.Updates {
		u.TripID = catalogue.GlobalID(modeTag, u.TripID)
		if u.StopID != "" {
			u.StopID = catalogue.GlobalID(modeTag, u.StopID)
		}
	}
}
