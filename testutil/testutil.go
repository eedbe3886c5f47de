// Package testutil provides synthetic GTFS fixture builders:
// directory-backed bundles with minimal defaults filled in, so tests
// only spell out the files they care about.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DevelopBG/PTV-Assistant-for-travel/catalogue"
)

// BuildBundleDir writes files (file name -> lines) into a fresh temp
// directory and fills in minimal defaults for any mandatory file the
// caller omitted, plus a one-row agency.txt when none is given.
func BuildBundleDir(t testing.TB, files map[string][]string) string {
	t.Helper()

	if files["agency.txt"] == nil {
		files["agency.txt"] = []string{
			"agency_timezone,agency_name,agency_url",
			"UTC,Fake Agency,http://example.com",
		}
	}
	if files["routes.txt"] == nil {
		files["routes.txt"] = []string{"route_id"}
	}
	if files["trips.txt"] == nil {
		files["trips.txt"] = []string{"trip_id"}
	}
	if files["stops.txt"] == nil {
		files["stops.txt"] = []string{"stop_id"}
	}
	if files["stop_times.txt"] == nil {
		files["stop_times.txt"] = []string{"stop_id"}
	}

	dir := t.TempDir()
	for name, lines := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644))
	}

	return dir
}

// BuildCatalogue writes the fixture to a temp directory via
// BuildBundleDir and loads it as a single-mode Catalogue, for callers
// that only need the merged catalogue, not the raw files.
func BuildCatalogue(t testing.TB, modeTag string, files map[string][]string) *catalogue.Catalogue {
	t.Helper()

	dir := BuildBundleDir(t, files)
	cat, _, err := catalogue.Load([]catalogue.BundleSource{{ModeTag: modeTag, FeedPath: dir}})
	require.NoError(t, err)
	return cat
}
