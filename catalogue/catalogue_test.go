package catalogue_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevelopBG/PTV-Assistant-for-travel/catalogue"
	"github.com/DevelopBG/PTV-Assistant-for-travel/testutil"
)

func railFiles() map[string][]string {
	return map[string][]string{
		"stops.txt": {
			"stop_id,stop_name,stop_lat,stop_lon",
			"19854,Geelong Station,-38.1,144.35",
			"2,Lara Station,-38.0,144.4",
		},
		"routes.txt": {
			"route_id,route_short_name,route_type",
			"r1,Geelong,2",
		},
		"trips.txt": {
			"trip_id,route_id,service_id",
			"t1,r1,daily",
		},
		"calendar.txt": {
			"service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date",
			"daily,1,1,1,1,1,1,1,20260101,20261231",
		},
		"stop_times.txt": {
			"trip_id,stop_sequence,stop_id,arrival_time,departure_time",
			"t1,1,19854,10:00:00,10:00:00",
			"t1,2,2,10:12:00,10:12:00",
		},
	}
}

func busFiles() map[string][]string {
	return map[string][]string{
		"stops.txt": {
			"stop_id,stop_name,stop_lat,stop_lon",
			// Same raw id as the rail stop, but a different place.
			"19854,Moorabool St Bus Stop,-38.15,144.36",
			"20000,Ryrie St Bus Stop,-38.16,144.37",
		},
		"routes.txt": {
			"route_id,route_short_name,route_type",
			"b1,B1,700",
		},
		"trips.txt": {
			"trip_id,route_id,service_id",
			"bt1,b1,always",
		},
		"stop_times.txt": {
			"trip_id,stop_sequence,stop_id,arrival_time,departure_time",
			"bt1,1,19854,09:00:00,09:00:00",
			"bt1,2,20000,09:05:00,09:05:00",
		},
	}
}

func TestMergeAssignsGlobalIDs(t *testing.T) {
	railDir := testutil.BuildBundleDir(t, railFiles())
	busDir := testutil.BuildBundleDir(t, busFiles())

	cat, _, err := catalogue.Load([]catalogue.BundleSource{
		{ModeTag: "regional", FeedPath: railDir},
		{ModeTag: "bus", FeedPath: busDir},
	})
	require.NoError(t, err)

	// The raw id 19854 exists in both bundles as different stops; the
	// mode prefix keeps them apart (no DuplicateId warnings expected).
	rail, ok := cat.GetStop("regional:19854")
	require.True(t, ok)
	assert.Equal(t, "Geelong Station", rail.Name)
	assert.Equal(t, "regional", rail.ModeTag)
	assert.Equal(t, "19854", rail.RawID)

	bus, ok := cat.GetStopByModeRaw("bus", "19854")
	require.True(t, ok)
	assert.Equal(t, "Moorabool St Bus Stop", bus.Name)

	assert.Empty(t, cat.Warnings)
	assert.Equal(t, []string{"bus", "regional"}, cat.Modes())

	// Trip and route references were rewritten into the global space.
	trip, ok := cat.GetTrip("regional:t1")
	require.True(t, ok)
	assert.Equal(t, "regional:r1", trip.RouteID)
	assert.Equal(t, "regional:daily", trip.ServiceID)

	sts := cat.IterStopTimes("regional:t1")
	require.Len(t, sts, 2)
	assert.Equal(t, "regional:19854", sts[0].StopID)
}

func TestMergeTracksCalendarPerMode(t *testing.T) {
	railDir := testutil.BuildBundleDir(t, railFiles())
	busDir := testutil.BuildBundleDir(t, busFiles())

	cat, _, err := catalogue.Load([]catalogue.BundleSource{
		{ModeTag: "regional", FeedPath: railDir},
		{ModeTag: "bus", FeedPath: busDir},
	})
	require.NoError(t, err)

	// regional loaded calendar.txt; bus loaded none.
	assert.True(t, cat.HasCalendarData("regional:daily"))
	assert.False(t, cat.HasCalendarData("bus:always"))

	_, ok := cat.Calendar("regional:daily")
	assert.True(t, ok)
}

func TestMergeReportsMissingOptionalFiles(t *testing.T) {
	busDir := testutil.BuildBundleDir(t, busFiles())

	_, missing, err := catalogue.Load([]catalogue.BundleSource{
		{ModeTag: "bus", FeedPath: busDir},
	})
	require.NoError(t, err)
	assert.Contains(t, missing, "bus:calendar.txt")
	assert.Contains(t, missing, "bus:transfers.txt")
}

func TestIterStopsForMode(t *testing.T) {
	railDir := testutil.BuildBundleDir(t, railFiles())
	busDir := testutil.BuildBundleDir(t, busFiles())

	cat, _, err := catalogue.Load([]catalogue.BundleSource{
		{ModeTag: "regional", FeedPath: railDir},
		{ModeTag: "bus", FeedPath: busDir},
	})
	require.NoError(t, err)

	assert.Len(t, cat.IterStopsForMode("regional"), 2)
	assert.Len(t, cat.IterStopsForMode("bus"), 2)
	assert.Len(t, cat.IterStops(), 4)
}

func TestNearbyStops(t *testing.T) {
	railDir := testutil.BuildBundleDir(t, railFiles())
	cat, _, err := catalogue.Load([]catalogue.BundleSource{
		{ModeTag: "regional", FeedPath: railDir},
	})
	require.NoError(t, err)

	// Geelong Station is at (-38.1, 144.35); query from right next to
	// it.
	stops := cat.NearbyStops(-38.11, 144.35, 1)
	require.Len(t, stops, 1)
	assert.Equal(t, "Geelong Station", stops[0].Name)
}
