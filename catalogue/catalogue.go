// Package catalogue implements the Multi-Mode Catalogue: it
// loads N GTFS bundles tagged by mode, merges them into one
// addressable store keyed by global id, and exposes the uniform
// lookup API the rest of the system reads from. Once built at process
// start, a Catalogue is read-only.
package catalogue

import (
	"fmt"
	"sort"
	"strings"

	"github.com/DevelopBG/PTV-Assistant-for-travel/model"
	"github.com/DevelopBG/PTV-Assistant-for-travel/parse"
)

// GlobalID synthesises the public id for a (mode, raw id) pair.
func GlobalID(modeTag, rawID string) string {
	return modeTag + ":" + rawID
}

// DuplicateIDWarning records one id collision found while merging
// bundles.
type DuplicateIDWarning struct {
	Kind        string // "stop", "route", "trip"
	ID          string
	WinningMode string
	LosingMode  string
}

func (w DuplicateIDWarning) String() string {
	return fmt.Sprintf("duplicate %s id %q: %s wins over %s", w.Kind, w.ID, w.WinningMode, w.LosingMode)
}

// Catalogue is the merged, mode-aware view over any number of GTFS
// bundles. All fields are populated once and never mutated afterward.
type Catalogue struct {
	stops  map[string]model.Stop
	routes map[string]model.Route
	trips  map[string]model.Trip

	stopTimesByTrip map[string][]model.StopTime
	calendars       map[string]model.Calendar
	calendarDates   map[string][]model.CalendarDate
	transfers       []model.Transfer

	modeTags          []string
	modesWithCalendar map[string]bool
	stopsByMode       map[string][]model.Stop

	Warnings []DuplicateIDWarning
}

// BundleSource is one (mode_tag, feed_path) entry.
type BundleSource struct {
	ModeTag  string
	FeedPath string
}

// Load loads each source via parse.LoadBundle and merges the
// results. The order of sources matters: on a global id collision
// with non-identical records (only possible when two sources share a
// mode tag), the earlier-listed bundle wins.
func Load(sources []BundleSource) (*Catalogue, []string, error) {
	bundles := make([]*parse.Bundle, 0, len(sources))
	missingFiles := []string{}

	for _, src := range sources {
		bundle, missing, err := parse.LoadBundle(src.ModeTag, src.FeedPath)
		if err != nil {
			return nil, nil, fmt.Errorf("loading bundle %q: %w", src.ModeTag, err)
		}
		for _, m := range missing {
			missingFiles = append(missingFiles, src.ModeTag+":"+m)
		}
		bundles = append(bundles, bundle)
	}

	return Merge(bundles), missingFiles, nil
}

// Merge combines already-parsed bundles into one Catalogue.
// Bundles earlier in the slice take priority on id collision.
func Merge(bundles []*parse.Bundle) *Catalogue {
	c := &Catalogue{
		stops:             map[string]model.Stop{},
		routes:            map[string]model.Route{},
		trips:             map[string]model.Trip{},
		stopTimesByTrip:   map[string][]model.StopTime{},
		calendars:         map[string]model.Calendar{},
		calendarDates:     map[string][]model.CalendarDate{},
		modesWithCalendar: map[string]bool{},
		stopsByMode:       map[string][]model.Stop{},
	}

	winnerMode := map[string]string{} // global id -> mode_tag that wrote it

	for _, b := range bundles {
		c.modeTags = append(c.modeTags, b.ModeTag)
		if b.HasCalendarData {
			c.modesWithCalendar[b.ModeTag] = true
		}

		for rawID, s := range b.Stops {
			s.ID = GlobalID(b.ModeTag, rawID)
			s.ModeTag = b.ModeTag
			s.RawID = rawID
			if s.ParentStation != "" {
				s.ParentStation = GlobalID(b.ModeTag, s.ParentStation)
			}
			c.mergeStop(s, winnerMode)
		}

		for rawID, r := range b.Routes {
			r.ID = GlobalID(b.ModeTag, rawID)
			r.ModeTag = b.ModeTag
			r.RawID = rawID
			if r.AgencyID != "" {
				r.AgencyID = GlobalID(b.ModeTag, r.AgencyID)
			}
			c.mergeRoute(r, winnerMode)
		}

		for rawID, t := range b.Trips {
			t.ID = GlobalID(b.ModeTag, rawID)
			t.ModeTag = b.ModeTag
			t.RawID = rawID
			t.RouteID = GlobalID(b.ModeTag, t.RouteID)
			t.ServiceID = GlobalID(b.ModeTag, t.ServiceID)
			c.mergeTrip(t, winnerMode)
		}

		for serviceID, cal := range b.Calendars {
			cal.ServiceID = GlobalID(b.ModeTag, serviceID)
			if _, exists := c.calendars[cal.ServiceID]; exists {
				continue
			}
			c.calendars[cal.ServiceID] = cal
		}

		for serviceID, cds := range b.CalendarDates {
			gid := GlobalID(b.ModeTag, serviceID)
			if _, exists := c.calendarDates[gid]; exists {
				continue
			}
			for _, cd := range cds {
				cd.ServiceID = gid
				c.calendarDates[gid] = append(c.calendarDates[gid], cd)
			}
		}

		for tripRawID, sts := range b.StopTimes {
			tripID := GlobalID(b.ModeTag, tripRawID)
			if _, exists := c.stopTimesByTrip[tripID]; exists {
				continue
			}
			out := make([]model.StopTime, len(sts))
			for i, st := range sts {
				st.TripID = tripID
				st.StopID = GlobalID(b.ModeTag, st.StopID)
				out[i] = st
			}
			c.stopTimesByTrip[tripID] = out
		}

		for _, tr := range b.Transfers {
			tr.FromStopID = GlobalID(b.ModeTag, tr.FromStopID)
			tr.ToStopID = GlobalID(b.ModeTag, tr.ToStopID)
			c.transfers = append(c.transfers, tr)
		}
	}

	for _, s := range c.stops {
		c.stopsByMode[s.ModeTag] = append(c.stopsByMode[s.ModeTag], s)
	}

	sort.Strings(c.modeTags)

	return c
}

func (c *Catalogue) mergeStop(s model.Stop, winner map[string]string) {
	existing, found := c.stops[s.ID]
	if !found {
		c.stops[s.ID] = s
		winner[s.ID] = s.ModeTag
		return
	}
	if existing == s {
		return // byte-identical, silent dedupe
	}
	// Earlier-listed bundle wins: since bundles are processed in
	// source order and winner already recorded the first writer,
	// keep existing and just warn.
	c.Warnings = append(c.Warnings, DuplicateIDWarning{
		Kind:        "stop",
		ID:          s.ID,
		WinningMode: winner[s.ID],
		LosingMode:  s.ModeTag,
	})
}

func (c *Catalogue) mergeRoute(r model.Route, winner map[string]string) {
	existing, found := c.routes[r.ID]
	if !found {
		c.routes[r.ID] = r
		winner[r.ID] = r.ModeTag
		return
	}
	if existing == r {
		return
	}
	c.Warnings = append(c.Warnings, DuplicateIDWarning{
		Kind:        "route",
		ID:          r.ID,
		WinningMode: winner[r.ID],
		LosingMode:  r.ModeTag,
	})
}

func (c *Catalogue) mergeTrip(t model.Trip, winner map[string]string) {
	existing, found := c.trips[t.ID]
	if !found {
		c.trips[t.ID] = t
		winner[t.ID] = t.ModeTag
		return
	}
	if existing == t {
		return
	}
	c.Warnings = append(c.Warnings, DuplicateIDWarning{
		Kind:        "trip",
		ID:          t.ID,
		WinningMode: winner[t.ID],
		LosingMode:  t.ModeTag,
	})
}

// GetStop resolves a global stop id.
func (c *Catalogue) GetStop(id string) (model.Stop, bool) {
	s, ok := c.stops[id]
	return s, ok
}

// GetStopByModeRaw resolves a stop by (mode, raw_id) pair.
func (c *Catalogue) GetStopByModeRaw(modeTag, rawID string) (model.Stop, bool) {
	return c.GetStop(GlobalID(modeTag, rawID))
}

// GetRoute resolves a global route id.
func (c *Catalogue) GetRoute(id string) (model.Route, bool) {
	r, ok := c.routes[id]
	return r, ok
}

// GetTrip resolves a global trip id.
func (c *Catalogue) GetTrip(id string) (model.Trip, bool) {
	t, ok := c.trips[id]
	return t, ok
}

// IterStopTimes returns the (already stop_sequence sorted) stop_times
// for a trip.
func (c *Catalogue) IterStopTimes(tripID string) []model.StopTime {
	return c.stopTimesByTrip[tripID]
}

// IterStops returns every stop in the catalogue, across all modes.
func (c *Catalogue) IterStops() []model.Stop {
	stops := make([]model.Stop, 0, len(c.stops))
	for _, s := range c.stops {
		stops = append(stops, s)
	}
	return stops
}

// IterStopsForMode returns only stops belonging to one mode bundle.
func (c *Catalogue) IterStopsForMode(modeTag string) []model.Stop {
	return c.stopsByMode[modeTag]
}

// IterTrips returns every trip in the catalogue.
func (c *Catalogue) IterTrips() []model.Trip {
	trips := make([]model.Trip, 0, len(c.trips))
	for _, t := range c.trips {
		trips = append(trips, t)
	}
	return trips
}

// Transfers returns every in-feed transfer record.
func (c *Catalogue) Transfers() []model.Transfer {
	return c.transfers
}

// Calendar returns the Calendar record for a global service id.
func (c *Catalogue) Calendar(serviceID string) (model.Calendar, bool) {
	cal, ok := c.calendars[serviceID]
	return cal, ok
}

// CalendarDates returns the exception records for a global service id.
func (c *Catalogue) CalendarDates(serviceID string) []model.CalendarDate {
	return c.calendarDates[serviceID]
}

// HasCalendarData reports whether the owning mode of serviceID loaded
// any calendar bundle at all.
func (c *Catalogue) HasCalendarData(serviceID string) bool {
	modeTag, _, found := strings.Cut(serviceID, ":")
	if !found {
		return false
	}
	return c.modesWithCalendar[modeTag]
}

// Modes returns the sorted list of mode tags loaded into the catalogue.
func (c *Catalogue) Modes() []string {
	return c.modeTags
}
