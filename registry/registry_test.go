package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFeed(mode, hash string, loadedAt time.Time) *FeedMetadata {
	return &FeedMetadata{
		ModeTag:           mode,
		Path:              "/feeds/" + mode,
		Hash:              hash,
		LoadedAt:          loadedAt,
		StopCount:         10,
		TripCount:         20,
		ConnectionCount:   100,
		CalendarStartDate: "20260101",
		CalendarEndDate:   "20261231",
	}
}

func TestMemoryRegistry(t *testing.T) {
	reg := NewMemoryRegistry()
	defer reg.Close()

	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, reg.WriteFeedMetadata(sampleFeed("regional", "aaa", t0)))
	require.NoError(t, reg.WriteFeedMetadata(sampleFeed("bus", "bbb", t0.Add(time.Hour))))

	feeds, err := reg.ListFeeds(ListFilter{})
	require.NoError(t, err)
	require.Len(t, feeds, 2)
	// Most recently loaded first.
	assert.Equal(t, "bus", feeds[0].ModeTag)

	feeds, err = reg.ListFeeds(ListFilter{ModeTag: "regional"})
	require.NoError(t, err)
	require.Len(t, feeds, 1)
	assert.Equal(t, "aaa", feeds[0].Hash)
	assert.Equal(t, 100, feeds[0].ConnectionCount)
}

func TestMemoryRegistryUpsert(t *testing.T) {
	reg := NewMemoryRegistry()
	defer reg.Close()

	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, reg.WriteFeedMetadata(sampleFeed("regional", "aaa", t0)))

	// Same (mode, hash): updated in place, not appended.
	updated := sampleFeed("regional", "aaa", t0.Add(time.Hour))
	updated.StopCount = 11
	require.NoError(t, reg.WriteFeedMetadata(updated))

	feeds, err := reg.ListFeeds(ListFilter{ModeTag: "regional"})
	require.NoError(t, err)
	require.Len(t, feeds, 1)
	assert.Equal(t, 11, feeds[0].StopCount)

	// A new hash for the same mode is a new record.
	require.NoError(t, reg.WriteFeedMetadata(sampleFeed("regional", "ccc", t0.Add(2*time.Hour))))
	feeds, err = reg.ListFeeds(ListFilter{ModeTag: "regional"})
	require.NoError(t, err)
	assert.Len(t, feeds, 2)
}

func TestMemoryRegistryCopiesRecords(t *testing.T) {
	reg := NewMemoryRegistry()
	defer reg.Close()

	feed := sampleFeed("regional", "aaa", time.Now())
	require.NoError(t, reg.WriteFeedMetadata(feed))

	// Mutating the caller's struct after the write must not leak into
	// the registry.
	feed.StopCount = 999

	feeds, err := reg.ListFeeds(ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 10, feeds[0].StopCount)
}
