// Package planner implements the connection-scan journey planner: an
// earliest-arrival search over a mode's pre-sorted connection array,
// a multi-day next-service search, and reconstruction of the winning
// path into a Journey of legs.
package planner

import (
	"context"
	"math"

	"github.com/DevelopBG/PTV-Assistant-for-travel/calendarsvc"
	"github.com/DevelopBG/PTV-Assistant-for-travel/catalogue"
	"github.com/DevelopBG/PTV-Assistant-for-travel/connection"
	"github.com/DevelopBG/PTV-Assistant-for-travel/model"
)

// Documented defaults for the planner's tunables.
const (
	DefaultMinTransferSecs  = 120
	DefaultMaxNextDaySearch = 7
	cancelCheckInterval     = 4096
)

// Config holds the planner's tunables.
type Config struct {
	MinTransferSecs  int
	MaxNextDaySearch int
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{MinTransferSecs: DefaultMinTransferSecs, MaxNextDaySearch: DefaultMaxNextDaySearch}
}

// Status is the terminal state of a Plan call.
type Status int

const (
	StatusFound Status = iota
	StatusNoRoute
	StatusNoServiceWithinWindow
	StatusCancelled
)

// Outcome is the result of one Plan call.
type Outcome struct {
	Status  Status
	Journey *model.Journey
}

// Planner scans one mode's connection set. A Planner is built once
// over a read-only Catalogue/Set and is safe for concurrent use across
// requests: all mutable state lives in the per-call scan, never on the
// Planner itself.
type Planner struct {
	cat    *catalogue.Catalogue
	oracle *calendarsvc.Oracle
	conns  *connection.Set
	cfg    Config
}

// New builds a Planner. cfg's zero value is replaced field-by-field
// with the documented defaults.
func New(cat *catalogue.Catalogue, oracle *calendarsvc.Oracle, conns *connection.Set, cfg Config) *Planner {
	if cfg.MinTransferSecs <= 0 {
		cfg.MinTransferSecs = DefaultMinTransferSecs
	}
	if cfg.MaxNextDaySearch <= 0 {
		cfg.MaxNextDaySearch = DefaultMaxNextDaySearch
	}
	return &Planner{cat: cat, oracle: oracle, conns: conns, cfg: cfg}
}

// Plan returns the earliest-arrival Journey from originID to destID
// departing no earlier than earliestDepartureSecs on date (YYYYMMDD),
// searching cfg.MaxNextDaySearch calendar days in all: date itself and
// the MaxNextDaySearch-1 days after it.
func (p *Planner) Plan(ctx context.Context, originID, destID string, earliestDepartureSecs int, date string) (*Outcome, error) {
	if originID == destID {
		return &Outcome{Status: StatusFound, Journey: &model.Journey{
			OriginStop:         originID,
			DestinationStop:    destID,
			DepartureSecs:      earliestDepartureSecs,
			ArrivalSecs:        earliestDepartureSecs,
			Legs:               []model.Leg{},
			ValidAfterRealtime: true,
		}}, nil
	}

	for offset := 0; offset < p.cfg.MaxNextDaySearch; offset++ {
		scanDate := calendarsvc.AddDays(date, offset)
		startSecs := earliestDepartureSecs
		if offset > 0 {
			startSecs = 0
		}

		earliestArrival, incoming, cancelled := p.scanDay(ctx, originID, destID, startSecs, scanDate, p.oracle.IsActive)
		if cancelled {
			return &Outcome{Status: StatusCancelled}, nil
		}

		if _, found := earliestArrival[destID]; found && incoming[destID] != nil {
			journey := p.reconstruct(originID, destID, incoming, offset)
			return &Outcome{Status: StatusFound, Journey: journey}, nil
		}
	}

	// The window is exhausted. One more scan with the calendar filter
	// disabled tells NoRoute (the stops are simply not connected)
	// apart from NoServiceWithinWindow (connected, but nothing runs
	// within the search window).
	alwaysActive := func(string, string) bool { return true }
	earliestArrival, _, cancelled := p.scanDay(ctx, originID, destID, 0, date, alwaysActive)
	if cancelled {
		return &Outcome{Status: StatusCancelled}, nil
	}
	if _, reachable := earliestArrival[destID]; !reachable {
		return &Outcome{Status: StatusNoRoute}, nil
	}

	return &Outcome{Status: StatusNoServiceWithinWindow}, nil
}

// scanDay runs one single-day connection scan.
func (p *Planner) scanDay(ctx context.Context, originID, destID string, startSecs int, date string, isActive func(serviceID, date string) bool) (map[string]int, map[string]*model.Connection, bool) {
	earliestArrival := map[string]int{originID: startSecs}
	incoming := map[string]*model.Connection{}

	p.relaxTransfers(originID, earliestArrival, incoming)

	prevDate := calendarsvc.AddDays(date, -1)
	regularActive := connection.FilterActive(p.conns.Regular, isActive, date)
	wrappedActive := connection.FilterActive(p.conns.Wrapped, isActive, prevDate)
	merged := connection.MergeByDeparture(regularActive, wrappedActive)

	cancelled := p.scanConnections(ctx, merged, destID, earliestArrival, incoming)
	return earliestArrival, incoming, cancelled
}

func (p *Planner) scanConnections(ctx context.Context, conns []model.Connection, destID string, earliestArrival map[string]int, incoming map[string]*model.Connection) bool {
	bestDestArrival := math.MaxInt
	if v, ok := earliestArrival[destID]; ok {
		bestDestArrival = v
	}

	for i := range conns {
		if i%cancelCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return true
			default:
			}
		}

		c := conns[i]

		if c.DepartureSecs > bestDestArrival {
			break // early-exit optimisation
		}

		arrFrom, reachable := earliestArrival[c.FromStopID]
		if !reachable || c.DepartureSecs < arrFrom {
			continue // unreachable
		}

		if inc, ok := incoming[c.FromStopID]; ok && inc.TripID != "" && inc.TripID != c.TripID {
			if c.DepartureSecs-arrFrom < p.cfg.MinTransferSecs {
				continue // transfer-time floor
			}
		}

		cur, known := earliestArrival[c.ToStopID]
		if known && c.ArrivalSecs >= cur {
			continue
		}

		cc := c
		earliestArrival[c.ToStopID] = c.ArrivalSecs
		incoming[c.ToStopID] = &cc
		p.relaxTransfers(c.ToStopID, earliestArrival, incoming)

		if v, ok := earliestArrival[destID]; ok && v < bestDestArrival {
			bestDestArrival = v
		}
	}

	return false
}

// relaxTransfers walks every in-feed transfer reachable from stop,
// relaxing earliest_arrival across the (typically tiny) walking graph
// until it converges. Each hop only adds time, so this always
// terminates.
func (p *Planner) relaxTransfers(stop string, earliestArrival map[string]int, incoming map[string]*model.Connection) {
	queue := []string{stop}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]

		base, ok := earliestArrival[s]
		if !ok {
			continue
		}

		for _, tr := range p.conns.TransfersByStop[s] {
			candidate := base + tr.MinTransferSecs
			if cur, known := earliestArrival[tr.ToStopID]; known && candidate >= cur {
				continue
			}
			earliestArrival[tr.ToStopID] = candidate
			incoming[tr.ToStopID] = &model.Connection{
				FromStopID:    s,
				ToStopID:      tr.ToStopID,
				DepartureSecs: base,
				ArrivalSecs:   candidate,
				IsTransfer:    true,
			}
			queue = append(queue, tr.ToStopID)
		}
	}
}
