package registry

import (
	"sort"
	"sync"
)

// MemoryRegistry keeps the ledger in process memory. Handy for tests
// and for deployments that don't care about persistence.
type MemoryRegistry struct {
	mutex sync.Mutex
	feeds []*FeedMetadata
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{}
}

func (r *MemoryRegistry) ListFeeds(filter ListFilter) ([]*FeedMetadata, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var result []*FeedMetadata
	for _, f := range r.feeds {
		if filter.ModeTag != "" && f.ModeTag != filter.ModeTag {
			continue
		}
		copied := *f
		result = append(result, &copied)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].LoadedAt.After(result[j].LoadedAt)
	})

	return result, nil
}

func (r *MemoryRegistry) WriteFeedMetadata(metadata *FeedMetadata) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	copied := *metadata
	for i, f := range r.feeds {
		if f.ModeTag == metadata.ModeTag && f.Hash == metadata.Hash {
			r.feeds[i] = &copied
			return nil
		}
	}
	r.feeds = append(r.feeds, &copied)
	return nil
}

func (r *MemoryRegistry) Close() error {
	return nil
}
