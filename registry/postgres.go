package registry

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PSQLRegistry stores the feed ledger in Postgres, for deployments
// where several instances share one refresh ledger.
type PSQLRegistry struct {
	db *sql.DB
}

// NewPSQLRegistry connects using the provided connection string. If
// clearDB is true, the feed table is dropped first. You probably only
// want that for testing.
func NewPSQLRegistry(connStr string, clearDB bool) (*PSQLRegistry, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if clearDB {
		if _, err := db.Exec(`DROP TABLE IF EXISTS feed`); err != nil {
			db.Close()
			return nil, fmt.Errorf("clearing feed table: %w", err)
		}
	}

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS feed (
    mode_tag TEXT NOT NULL,
    path TEXT NOT NULL,
    sha256 TEXT NOT NULL,
    loaded_at TIMESTAMPTZ NOT NULL,
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

	return &PSQLRegistry{db: db}, nil
}

func (r *PSQLRegistry) ListFeeds(filter ListFilter) ([]*FeedMetadata, error) {
	query := `
SELECT mode_tag, path, sha256, loaded_at, stop_count, trip_count, connection_count, calendar_start, calendar_end
FROM feed`
	args := []interface{}{}
	if filter.ModeTag != "" {
		query += ` WHERE mode_tag = $1`
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
		err := rows.Scan(
			&f.ModeTag, &f.Path, &f.Hash, &f.LoadedAt,
			&f.StopCount, &f.TripCount, &f.ConnectionCount,
			&f.CalendarStartDate, &f.CalendarEndDate,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning feed row: %w", err)
		}
		result = append(result, f)
	}

	return result, rows.Err()
}

func (r *PSQLRegistry) WriteFeedMetadata(metadata *FeedMetadata) error {
	_, err := r.db.Exec(`
INSERT INTO feed (mode_tag, path, sha256, loaded_at, stop_count, trip_count, connection_count, calendar_start, calendar_end)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
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

func (r *PSQLRegistry) Close() error {
	return r.db.Close()
}
