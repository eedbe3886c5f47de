package registry

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteConfig configures an on-disk or in-memory SQLite ledger.
type SQLiteConfig struct {
	OnDisk    bool
	Directory string
}

// SQLiteRegistry stores the feed ledger in a single SQLite database.
type SQLiteRegistry struct {
	db *sql.DB
}

func NewSQLiteRegistry(cfg ...SQLiteConfig) (*SQLiteRegistry, error) {
	sourceName := ":memory:"
	if len(cfg) > 0 && cfg[0].OnDisk {
		sourceName = filepath.Join(cfg[0].Directory, "feeds.db")
	}

	db, err := sql.Open("sqlite3", sourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS feed (
    mode_tag TEXT NOT NULL,
    path TEXT NOT NULL,
    sha256 TEXT NOT NULL,
    loaded_at TIMESTAMP NOT NULL,
    stop_count INTEGER NOT NULL,
    trip_count INTEGER NOT NULL,
    connection_count INTEGER NOT NULL,
    calendar_start TEXT NOT NULL,
    calendar_end TEXT NOT NULL,
    PRIMARY KEY (mode_tag, sha256)
);`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating feed table: %w", err)
	}

	return &SQLiteRegistry{db: db}, nil
}

func (r *SQLiteRegistry) ListFeeds(filter ListFilter) ([]*FeedMetadata, error) {
	query := `
SELECT mode_tag, path, sha256, loaded_at, stop_count, trip_count, connection_count, calendar_start, calendar_end
FROM feed`
	args := []interface{}{}
	if filter.ModeTag != "" {
		query += ` WHERE mode_tag = ?`
		args = append(args, filter.ModeTag)
	}
	query += ` ORDER BY loaded_at DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying feeds: %w", err)
	}
	defer rows.Close()

	var result []*FeedMetadata
	for rows.Next() {
		f := &FeedMetadata{}
		var loadedAt time.Time
		err := rows.Scan(
			&f.ModeTag, &f.Path, &f.Hash, &loadedAt,
			&f.StopCount, &f.TripCount, &f.ConnectionCount,
			&f.CalendarStartDate, &f.CalendarEndDate,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning feed row: %w", err)
		}
		f.LoadedAt = loadedAt
		result = append(result, f)
	}

	return result, rows.Err()
}

func (r *SQLiteRegistry) WriteFeedMetadata(metadata *FeedMetadata) error {
	_, err := r.db.Exec(`
INSERT INTO feed (mode_tag, path, sha256, loaded_at, stop_count, trip_count, connection_count, calendar_start, calendar_end)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (mode_tag, sha256) DO UPDATE SET
    path = excluded.path,
    loaded_at = excluded.loaded_at,
    stop_count = excluded.stop_count,
    trip_count = excluded.trip_count,
    connection_count = excluded.connection_count,
    calendar_start = excluded.calendar_start,
    calendar_end = excluded.calendar_end`,
		metadata.ModeTag, metadata.Path, metadata.Hash, metadata.LoadedAt,
		metadata.StopCount, metadata.TripCount, metadata.ConnectionCount,
		metadata.CalendarStartDate, metadata.CalendarEndDate,
	)
	if err != nil {
		return fmt.Errorf("writing feed metadata: %w", err)
	}
	return nil
}

func (r *SQLiteRegistry) Close() error {
	return r.db.Close()
}
