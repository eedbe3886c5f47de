package connection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevelopBG/PTV-Assistant-for-travel/connection"
	"github.com/DevelopBG/PTV-Assistant-for-travel/model"
	"github.com/DevelopBG/PTV-Assistant-for-travel/testutil"
)

func builderFixture() map[string][]string {
	return map[string][]string{
		"stops.txt": {
			"stop_id,stop_name,stop_lat,stop_lon",
			"a,Alpha,1.0,1.0",
			"b,Bravo,2.0,2.0",
			"c,Charlie,3.0,3.0",
		},
		"routes.txt": {
			"route_id,route_short_name,route_type",
			"r1,R1,2",
		},
		"trips.txt": {
			"trip_id,route_id,service_id",
			"t1,r1,daily",
			"t2,r1,daily",
		},
		"stop_times.txt": {
			"trip_id,stop_sequence,stop_id,arrival_time,departure_time",
			"t1,1,a,08:00:00,08:00:00",
			"t1,2,b,08:10:00,08:10:00",
			"t1,3,c,08:20:00,08:20:00",
			// t2 runs past midnight on its service day.
			"t2,1,a,24:30:00,24:30:00",
			"t2,2,b,24:45:00,24:45:00",
		},
		"transfers.txt": {
			"from_stop_id,to_stop_id,transfer_type,min_transfer_time",
			"b,c,2,240",
			"a,b,3,0",
		},
	}
}

func TestBuildEmitsConsecutivePairs(t *testing.T) {
	cat := testutil.BuildCatalogue(t, "rail", builderFixture())
	set := connection.Build(cat)

	// t1 has 3 stop_times -> 2 connections; t2's pair lands in
	// Wrapped.
	require.Len(t, set.Regular, 2)
	require.Len(t, set.Wrapped, 1)

	first := set.Regular[0]
	assert.Equal(t, "rail:a", first.FromStopID)
	assert.Equal(t, "rail:b", first.ToStopID)
	assert.Equal(t, 8*3600, first.DepartureSecs)
	assert.Equal(t, "rail:t1", first.TripID)
	assert.Equal(t, "rail:r1", first.RouteID)
	assert.Equal(t, model.RouteTypeRail, first.RouteType)
	assert.Equal(t, "rail:daily", first.ServiceID)

	// Every emitted connection departs no later than it arrives.
	for _, c := range append(set.Regular, set.Wrapped...) {
		assert.LessOrEqual(t, c.DepartureSecs, c.ArrivalSecs)
	}
}

func TestBuildNormalisesWrappedTimes(t *testing.T) {
	cat := testutil.BuildCatalogue(t, "rail", builderFixture())
	set := connection.Build(cat)

	require.Len(t, set.Wrapped, 1)
	w := set.Wrapped[0]
	// 24:30 folds to 00:30 on the next calendar day.
	assert.Equal(t, 1800, w.DepartureSecs)
	assert.Equal(t, 2700, w.ArrivalSecs)
	assert.Equal(t, "rail:t2", w.TripID)
}

func TestBuildTransferTable(t *testing.T) {
	cat := testutil.BuildCatalogue(t, "rail", builderFixture())
	set := connection.Build(cat)

	// The b->c transfer is indexed by from_stop; the a->b entry is
	// transfer_type 3 (not possible) and must be excluded.
	require.Len(t, set.TransfersByStop["rail:b"], 1)
	assert.Equal(t, 240, set.TransfersByStop["rail:b"][0].MinTransferSecs)
	assert.Empty(t, set.TransfersByStop["rail:a"])
}

func TestSortIsIdempotentAndOrdered(t *testing.T) {
	cat := testutil.BuildCatalogue(t, "rail", builderFixture())
	set := connection.Build(cat)

	// Already sorted by departure...
	for i := 1; i < len(set.Regular); i++ {
		assert.LessOrEqual(t, set.Regular[i-1].DepartureSecs, set.Regular[i].DepartureSecs)
	}

	// ...and re-sorting changes nothing.
	resorted := make([]model.Connection, len(set.Regular))
	copy(resorted, set.Regular)
	connection.Sort(resorted)
	assert.Equal(t, set.Regular, resorted)
}

func TestMergeByDeparture(t *testing.T) {
	a := []model.Connection{
		{FromStopID: "x", DepartureSecs: 100, ArrivalSecs: 200},
		{FromStopID: "x", DepartureSecs: 300, ArrivalSecs: 400},
	}
	b := []model.Connection{
		{FromStopID: "y", DepartureSecs: 150, ArrivalSecs: 250},
		{FromStopID: "y", DepartureSecs: 300, ArrivalSecs: 350},
	}

	merged := connection.MergeByDeparture(a, b)
	require.Len(t, merged, 4)
	assert.Equal(t, 100, merged[0].DepartureSecs)
	assert.Equal(t, 150, merged[1].DepartureSecs)
	// Equal departures tie-break on arrival: y's 300->350 precedes
	// x's 300->400.
	assert.Equal(t, 350, merged[2].ArrivalSecs)
	assert.Equal(t, 400, merged[3].ArrivalSecs)
}

func TestFilterActive(t *testing.T) {
	conns := []model.Connection{
		{TripID: "t1", ServiceID: "s1", DepartureSecs: 100},
		{TripID: "t2", ServiceID: "s2", DepartureSecs: 200},
	}

	onlyS1 := func(serviceID, date string) bool { return serviceID == "s1" }
	filtered := connection.FilterActive(conns, onlyS1, "20260105")
	require.Len(t, filtered, 1)
	assert.Equal(t, "t1", filtered[0].TripID)
}

func TestForMode(t *testing.T) {
	railDir := builderFixture()
	cat := testutil.BuildCatalogue(t, "rail", railDir)
	set := connection.Build(cat)

	scoped := set.ForMode("rail")
	assert.Equal(t, set.Regular, scoped.Regular)
	assert.Equal(t, set.Wrapped, scoped.Wrapped)
	assert.Len(t, scoped.TransfersByStop, 1)

	empty := set.ForMode("bus")
	assert.Empty(t, empty.Regular)
	assert.Empty(t, empty.Wrapped)
	assert.Empty(t, empty.TransfersByStop)
}
