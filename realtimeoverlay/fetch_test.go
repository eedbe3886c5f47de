package realtimeoverlay

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevelopBG/PTV-Assistant-for-travel/downloader"
)

type stubDownloader struct {
	blob  []byte
	err   error
	calls int
}

func (d *stubDownloader) Get(_ context.Context, _ string, headers map[string]string, _ downloader.GetOptions) ([]byte, error) {
	d.calls++
	return d.blob, d.err
}

func testFetcher(stub *stubDownloader) *Fetcher {
	f := NewFetcher(map[string]string{"regional": "http://example.com/trip-updates"})
	f.Downloader = stub
	f.APIKey = "test-key"
	return f
}

func TestFetchBlobCachesAcrossCalls(t *testing.T) {
	stub := &stubDownloader{blob: []byte("payload")}
	f := testFetcher(stub)

	blob, err := f.FetchBlob(context.Background(), "regional")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), blob)

	_, err = f.FetchBlob(context.Background(), "regional")
	require.NoError(t, err)
	assert.Equal(t, 1, stub.calls)
}

func TestFetchBlobRateLimited(t *testing.T) {
	stub := &stubDownloader{blob: []byte("payload")}
	f := testFetcher(stub)
	f.Cache = NewMemoryBlobCache()
	f.CacheTTL = 0 // force an upstream call every time
	f.Limiter = NewRateLimiter(1, time.Hour)

	_, err := f.FetchBlob(context.Background(), "regional")
	require.NoError(t, err)

	_, err = f.FetchBlob(context.Background(), "regional")
	var rateLimited *RateLimitedError
	require.ErrorAs(t, err, &rateLimited)
	assert.Equal(t, 1, stub.calls)
}

func TestFetchBlobUpstreamFailure(t *testing.T) {
	stub := &stubDownloader{err: errors.New("connection refused")}
	f := testFetcher(stub)

	_, err := f.FetchBlob(context.Background(), "regional")
	var unavailable *UpstreamUnavailableError
	require.ErrorAs(t, err, &unavailable)
}

func TestFetchBlobUnknownMode(t *testing.T) {
	f := testFetcher(&stubDownloader{})
	_, err := f.FetchBlob(context.Background(), "tram")
	assert.Error(t, err)
}

func TestFetcherEnabled(t *testing.T) {
	f := NewFetcher(map[string]string{"regional": "http://example.com"})
	f.APIKey = "key"
	assert.True(t, f.Enabled())

	f.APIKey = ""
	t.Setenv(APIKeyEnvVar, "")
	assert.False(t, f.Enabled())

	t.Setenv(APIKeyEnvVar, "env-key")
	assert.True(t, f.Enabled())

	none := NewFetcher(nil)
	none.APIKey = "key"
	assert.False(t, none.Enabled())
}
