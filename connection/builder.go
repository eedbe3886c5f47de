// Package connection implements the Connection Builder: it
// turns the merged catalogue's trips and in-feed transfers into the
// flat, time-sorted connection arrays the planner scans, plus a
// stop-indexed table of in-feed transfers.
//
// Transfer connections carry only a relative duration at build time
// (arrival - departure == min_transfer_time); they are not given a
// fixed slot in the departure-sorted scan order because their
// absolute departure depends on when the planner actually reaches
// from_stop_id. The planner instantiates them with absolute
// times the moment it relaxes a stop's earliest arrival, the same way
// a classic connection-scan implementation treats footpaths.
package connection

import (
	"sort"

	"github.com/DevelopBG/PTV-Assistant-for-travel/catalogue"
	"github.com/DevelopBG/PTV-Assistant-for-travel/model"
)

// Set is the connection builder's output.
//
// Regular holds every transit connection with departure_secs < 86400,
// sorted ascending by departure. Wrapped holds every transit
// connection whose departure_secs was >= 86400 in the feed (a trip
// continuing past midnight on its own service day), with both
// departure and arrival normalised back by 86400 so they read as
// early-morning times on the *following* calendar date; Wrapped
// remains sorted ascending by the normalised departure because
// subtracting a constant preserves order. A scan for calendar date D
// is the merge of Regular filtered by is_active(_, D) and Wrapped
// filtered by is_active(_, D-1).
type Set struct {
	Regular         []model.Connection
	Wrapped         []model.Connection
	TransfersByStop map[string][]model.Transfer
}

// Build produces the Connection Set for the whole catalogue.
// Sort order: departure_time ascending, ties broken by arrival_time,
// then from_stop_id, then trip_id -- this ordering is the single
// source of truth for scan order.
func Build(cat *catalogue.Catalogue) *Set {
	conns := []model.Connection{}

	for _, trip := range cat.IterTrips() {
		route, ok := cat.GetRoute(trip.RouteID)
		var routeType model.RouteType
		if ok {
			routeType = route.Type
		}

		sts := cat.IterStopTimes(trip.ID)
		for i := 0; i+1 < len(sts); i++ {
			a, b := sts[i], sts[i+1]
			conns = append(conns, model.Connection{
				FromStopID:    a.StopID,
				ToStopID:      b.StopID,
				DepartureSecs: a.DepartureSecs,
				ArrivalSecs:   b.ArrivalSecs,
				TripID:        trip.ID,
				RouteID:       trip.RouteID,
				RouteType:     routeType,
				ServiceID:     trip.ServiceID,
			})
		}
	}

	Sort(conns)

	splitIdx := sort.Search(len(conns), func(i int) bool {
		return conns[i].DepartureSecs >= 86400
	})

	regular := conns[:splitIdx]
	wrapped := make([]model.Connection, len(conns)-splitIdx)
	for i, c := range conns[splitIdx:] {
		c.DepartureSecs -= 86400
		c.ArrivalSecs -= 86400
		wrapped[i] = c
	}

	transfersByStop := map[string][]model.Transfer{}
	for _, tr := range cat.Transfers() {
		if tr.Type == model.TransferNotPossible {
			continue
		}
		transfersByStop[tr.FromStopID] = append(transfersByStop[tr.FromStopID], tr)
	}

	return &Set{Regular: regular, Wrapped: wrapped, TransfersByStop: transfersByStop}
}

// Sort orders a Connection slice per the builder's tie-break rule.
// Exported so callers can re-sort after rebuilding without depending
// on build order.
func Sort(conns []model.Connection) {
	sort.SliceStable(conns, func(i, j int) bool {
		a, b := conns[i], conns[j]
		if a.DepartureSecs != b.DepartureSecs {
			return a.DepartureSecs < b.DepartureSecs
		}
		if a.ArrivalSecs != b.ArrivalSecs {
			return a.ArrivalSecs < b.ArrivalSecs
		}
		if a.FromStopID != b.FromStopID {
			return a.FromStopID < b.FromStopID
		}
		return a.TripID < b.TripID
	})
}

// FilterActive returns the subset of conns whose service is active on
// date, preserving relative order.
func FilterActive(conns []model.Connection, isActive func(serviceID, date string) bool, date string) []model.Connection {
	out := make([]model.Connection, 0, len(conns))
	for _, c := range conns {
		if isActive(c.ServiceID, date) {
			out = append(out, c)
		}
	}
	return out
}

// MergeByDeparture merges two connection slices that are each already
// sorted ascending by DepartureSecs into one sorted slice, in O(n).
func MergeByDeparture(a, b []model.Connection) []model.Connection {
	out := make([]model.Connection, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if lessConn(a[i], b[j]) {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

func lessConn(a, b model.Connection) bool {
	if a.DepartureSecs != b.DepartureSecs {
		return a.DepartureSecs < b.DepartureSecs
	}
	if a.ArrivalSecs != b.ArrivalSecs {
		return a.ArrivalSecs < b.ArrivalSecs
	}
	if a.FromStopID != b.FromStopID {
		return a.FromStopID < b.FromStopID
	}
	return a.TripID < b.TripID
}
