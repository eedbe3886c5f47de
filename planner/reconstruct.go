package planner

import "github.com/DevelopBG/PTV-Assistant-for-travel/model"

// reconstruct walks incoming[destID] back to originID, groups the
// resulting Connections into Legs, and assembles the Journey
// envelope.
func (p *Planner) reconstruct(originID, destID string, incoming map[string]*model.Connection, dayOffset int) *model.Journey {
	path := backtrack(originID, destID, incoming)
	legs := buildLegs(path)
	p.resolveLegNames(legs)

	j := &model.Journey{
		OriginStop:         originID,
		DestinationStop:    destID,
		Legs:               legs,
		DateShiftedByDays:  dayOffset,
		ValidAfterRealtime: true,
	}

	firstTransit, lastTransit := -1, -1
	for i, leg := range legs {
		if leg.IsTransfer {
			continue
		}
		if firstTransit == -1 {
			firstTransit = i
		}
		lastTransit = i
	}

	if firstTransit >= 0 {
		j.DepartureSecs = legs[firstTransit].DepartureSecs
		j.ArrivalSecs = legs[lastTransit].ArrivalSecs
	} else if len(legs) > 0 {
		// Pure-walk itinerary (no transit leg at all): fall back to the
		// full span of legs.
		j.DepartureSecs = legs[0].DepartureSecs
		j.ArrivalSecs = legs[len(legs)-1].ArrivalSecs
	}

	duration := j.ArrivalSecs - j.DepartureSecs
	if duration < 0 {
		duration += 86400
	}
	j.DurationSeconds = duration

	for _, leg := range legs {
		if leg.IsTransfer {
			j.NumTransfers++
		}
	}

	return j
}

// resolveLegNames fills in the route short name and swaps
// IntermediateStops from stop ids to stop names, both
// of which require catalogue access that buildLegs, a pure function
// over Connections, does not have.
func (p *Planner) resolveLegNames(legs []model.Leg) {
	for i := range legs {
		leg := &legs[i]
		if leg.IsTransfer {
			continue
		}
		if route, ok := p.cat.GetRoute(leg.RouteID); ok {
			leg.RouteShortName = route.ShortName
		}
		if stop, ok := p.cat.GetStop(leg.FromStop); ok && stop.PlatformCode != "" {
			leg.Platform = stop.PlatformCode
		}
		for j, stopID := range leg.IntermediateStops {
			if stop, ok := p.cat.GetStop(stopID); ok {
				leg.IntermediateStops[j] = stop.Name
			}
		}
	}
}

// backtrack walks incoming back from destID to originID, returning the
// path of Connections in forward (origin-to-destination) order.
func backtrack(originID, destID string, incoming map[string]*model.Connection) []model.Connection {
	var reversed []model.Connection
	cur := destID
	for cur != originID {
		c := incoming[cur]
		if c == nil {
			break
		}
		reversed = append(reversed, *c)
		cur = c.FromStopID
	}

	path := make([]model.Connection, len(reversed))
	for i, c := range reversed {
		path[len(reversed)-1-i] = c
	}
	return path
}

// buildLegs groups a forward Connection path into Legs. Consecutive connections
// sharing a trip_id collapse into one transit Leg; an explicit
// transfer Connection becomes its own transfer Leg; and a same-stop
// trip change with no explicit transfer Connection between them gets
// a synthetic zero-distance transfer Leg for the dwell.
func buildLegs(path []model.Connection) []model.Leg {
	legs := []model.Leg{}

	i := 0
	for i < len(path) {
		c := path[i]

		if c.IsTransfer {
			legs = append(legs, model.Leg{
				FromStop:               c.FromStopID,
				ToStop:                 c.ToStopID,
				DepartureSecs:          c.DepartureSecs,
				ArrivalSecs:            c.ArrivalSecs,
				IsTransfer:             true,
				ScheduledDepartureSecs: c.DepartureSecs,
				ScheduledArrivalSecs:   c.ArrivalSecs,
				ActualDepartureSecs:    c.DepartureSecs,
				ActualArrivalSecs:      c.ArrivalSecs,
			})
			i++
			continue
		}

		j := i + 1
		for j < len(path) && !path[j].IsTransfer && path[j].TripID == c.TripID {
			j++
		}
		group := path[i:j]
		legs = append(legs, transitLeg(group))
		i = j

		if i < len(path) {
			next := path[i]
			last := group[len(group)-1]
			if !next.IsTransfer && next.TripID != c.TripID && next.FromStopID == last.ToStopID && next.DepartureSecs > last.ArrivalSecs {
				legs = append(legs, model.Leg{
					FromStop:               last.ToStopID,
					ToStop:                 last.ToStopID,
					DepartureSecs:          last.ArrivalSecs,
					ArrivalSecs:            next.DepartureSecs,
					IsTransfer:             true,
					ScheduledDepartureSecs: last.ArrivalSecs,
					ScheduledArrivalSecs:   next.DepartureSecs,
					ActualDepartureSecs:    last.ArrivalSecs,
					ActualArrivalSecs:      next.DepartureSecs,
				})
			}
		}
	}

	return legs
}

func transitLeg(group []model.Connection) model.Leg {
	first, last := group[0], group[len(group)-1]

	intermediate := make([]string, 0, len(group)-1)
	for k := 0; k < len(group)-1; k++ {
		intermediate = append(intermediate, group[k].ToStopID)
	}

	return model.Leg{
		FromStop:               first.FromStopID,
		ToStop:                 last.ToStopID,
		DepartureSecs:          first.DepartureSecs,
		ArrivalSecs:            last.ArrivalSecs,
		TripID:                 first.TripID,
		RouteID:                first.RouteID,
		RouteType:              first.RouteType,
		IntermediateStops:      intermediate,
		NumStops:               len(group) + 1,
		ScheduledDepartureSecs: first.DepartureSecs,
		ScheduledArrivalSecs:   last.ArrivalSecs,
		ActualDepartureSecs:    first.DepartureSecs,
		ActualArrivalSecs:      last.ArrivalSecs,
	}
}
