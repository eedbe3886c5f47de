// Package registry tracks metadata about loaded GTFS bundles: when
// each mode's feed was last loaded, its content hash, and its record
// counts. The parsed catalogue itself stays in memory; the
// registry is the durable ledger a deployment consults to decide when
// a rebuild is due. Backends: memory for tests and single-process
// runs, SQLite for on-disk single-instance state, Postgres for
// multi-instance deployments sharing one ledger.
package registry

import "time"

// FeedMetadata describes one loaded mode bundle.
type FeedMetadata struct {
	ModeTag           string
	Path              string
	Hash              string
	LoadedAt          time.Time
	StopCount         int
	TripCount         int
	ConnectionCount   int
	CalendarStartDate string // YYYYMMDD, empty when the bundle has no calendar
	CalendarEndDate   string
}

// ListFilter narrows a ListFeeds call.
type ListFilter struct {
	// If set, only include feeds with the given mode tag.
	ModeTag string
}

// Registry stores FeedMetadata records keyed by (mode_tag, hash).
type Registry interface {
	// Retrieves all feed metadata records matching the filter,
	// most recently loaded first.
	ListFeeds(filter ListFilter) ([]*FeedMetadata, error)

	// Writes a FeedMetadata record. If a record with the same
	// mode tag and hash exists, it is updated.
	WriteFeedMetadata(metadata *FeedMetadata) error

	Close() error
}
