// Package realtimeoverlay applies a parsed GTFS-realtime trip-update
// batch onto an already planned Journey, in place and without ever
// touching the scheduled fields. A leg with no update data falls back
// to its scheduled times.
package realtimeoverlay

import (
	"fmt"

	"github.com/DevelopBG/PTV-Assistant-for-travel/catalogue"
	"github.com/DevelopBG/PTV-Assistant-for-travel/model"
	"github.com/DevelopBG/PTV-Assistant-for-travel/parse"
)

// MinTransferSecs mirrors the planner's transfer-time floor; the
// overlay re-validates the same threshold against realtime-adjusted
// times.
const MinTransferSecs = 120

// Apply overlays batch onto journey in place. Legs whose
// trip_id has no entry in batch are left untouched (treated as
// on-time). cat resolves stop ids to names for the BrokenTransfer
// note. Returns the same *Journey for convenience chaining.
func Apply(journey *model.Journey, batch *parse.TripUpdateBatch, cat *catalogue.Catalogue) *model.Journey {
	index := indexByTripAndStop(batch.Updates)

	touchedAny := false
	for i := range journey.Legs {
		leg := &journey.Legs[i]
		if leg.IsTransfer || leg.TripID == "" {
			continue
		}

		if batch.CancelledTrips[leg.TripID] {
			leg.Cancelled = true
			leg.ActualDepartureSecs = leg.ScheduledDepartureSecs
			leg.ActualArrivalSecs = leg.ScheduledArrivalSecs
			touchedAny = true
			continue
		}

		stopUpdates, found := index[leg.TripID]
		if !found {
			continue // no data for this trip: on time
		}

		delayFrom := 0
		if u, ok := stopUpdates[leg.FromStop]; ok && u.DepartureIsSet {
			delayFrom = u.DepartureDelay
			touchedAny = true
		}

		delayTo := 0
		var platform string
		if u, ok := stopUpdates[leg.ToStop]; ok {
			if u.ArrivalIsSet {
				delayTo = u.ArrivalDelay
			}
			if u.PlatformID != "" {
				platform = u.PlatformID
			}
			touchedAny = true
		}

		leg.ActualDepartureSecs = leg.ScheduledDepartureSecs + delayFrom
		leg.ActualArrivalSecs = leg.ScheduledArrivalSecs + delayTo
		leg.DelaySeconds = delayTo
		if platform != "" {
			leg.Platform = platform
		}
	}

	journey.HasRealtime = touchedAny
	revalidateTransfers(journey, cat)

	return journey
}

// indexByTripAndStop buckets updates by (trip_id, stop_id) for O(1)
// leg-time lookup during Apply.
func indexByTripAndStop(updates []*parse.StopTimeUpdate) map[string]map[string]*parse.StopTimeUpdate {
	index := map[string]map[string]*parse.StopTimeUpdate{}
	for _, u := range updates {
		if u.StopID == "" {
			continue
		}
		byStop, ok := index[u.TripID]
		if !ok {
			byStop = map[string]*parse.StopTimeUpdate{}
			index[u.TripID] = byStop
		}
		byStop[u.StopID] = u
	}
	return index
}

// revalidateTransfers re-checks the transfer-time floor against
// realtime-adjusted times across every interchange. A leg that
// was cancelled still uses its scheduled times here, since a
// cancellation doesn't by itself shrink the gap at a *surviving*
// interchange -- it just means the rider never makes that particular
// leg, which is a planning-level concern outside this overlay's scope.
func revalidateTransfers(journey *model.Journey, cat *catalogue.Catalogue) {
	var transitIdx []int
	for i, leg := range journey.Legs {
		if !leg.IsTransfer {
			transitIdx = append(transitIdx, i)
		}
	}

	journey.ValidAfterRealtime = true

	for k := 1; k < len(transitIdx); k++ {
		prev := journey.Legs[transitIdx[k-1]]
		next := journey.Legs[transitIdx[k]]
		if prev.ToStop != next.FromStop {
			continue // modes changed stops entirely; not an in-place interchange
		}

		gap := next.ActualDepartureSecs - prev.ActualArrivalSecs
		if gap < MinTransferSecs {
			name := prev.ToStop
			if stop, ok := cat.GetStop(prev.ToStop); ok {
				name = stop.Name
			}
			journey.ValidAfterRealtime = false
			journey.BrokenTransferNote = fmt.Sprintf("transfer at %s broken by realtime delay: only %ds available", name, gap)
			return
		}
	}
}
