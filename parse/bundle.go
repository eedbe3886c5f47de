package parse

import "github.com/DevelopBG/PTV-Assistant-for-travel/model"

// BundleWriter receives parsed GTFS rows as they stream off the CSV
// parsers. Bundle (below) is the only implementation; the interface
// exists so parsers stay decoupled from how rows end up stored.
type BundleWriter interface {
	WriteAgency(model.Agency) error
	WriteStop(model.Stop) error
	WriteRoute(model.Route) error
	WriteTrip(model.Trip) error
	WriteCalendar(model.Calendar) error
	WriteCalendarDate(model.CalendarDate) error
	WriteStopTime(model.StopTime) error
	WriteTransfer(model.Transfer) error
}

// Bundle holds one mode's worth of parsed-but-unmerged GTFS records,
// keyed by their raw (un-prefixed) ids. catalogue.Merge assigns global
// ids and builds the cross-bundle catalogue.
type Bundle struct {
	ModeTag string

	Agencies      map[string]model.Agency
	Stops         map[string]model.Stop
	Routes        map[string]model.Route
	Trips         map[string]model.Trip
	Calendars     map[string]model.Calendar
	CalendarDates map[string][]model.CalendarDate
	StopTimes     map[string][]model.StopTime // by trip id, unsorted until ParseStopTimes sorts
	Transfers     []model.Transfer

	HasCalendarData bool
}

func NewBundle(modeTag string) *Bundle {
	return &Bundle{
		ModeTag:       modeTag,
		Agencies:      map[string]model.Agency{},
		Stops:         map[string]model.Stop{},
		Routes:        map[string]model.Route{},
		Trips:         map[string]model.Trip{},
		Calendars:     map[string]model.Calendar{},
		CalendarDates: map[string][]model.CalendarDate{},
		StopTimes:     map[string][]model.StopTime{},
	}
}

func (b *Bundle) WriteAgency(a model.Agency) error {
	b.Agencies[a.ID] = a
	return nil
}

func (b *Bundle) WriteStop(s model.Stop) error {
	b.Stops[s.ID] = s
	return nil
}

func (b *Bundle) WriteRoute(r model.Route) error {
	b.Routes[r.ID] = r
	return nil
}

func (b *Bundle) WriteTrip(t model.Trip) error {
	b.Trips[t.ID] = t
	return nil
}

func (b *Bundle) WriteCalendar(c model.Calendar) error {
	b.Calendars[c.ServiceID] = c
	return nil
}

func (b *Bundle) WriteCalendarDate(cd model.CalendarDate) error {
	b.CalendarDates[cd.ServiceID] = append(b.CalendarDates[cd.ServiceID], cd)
	return nil
}

func (b *Bundle) WriteStopTime(st model.StopTime) error {
	b.StopTimes[st.TripID] = append(b.StopTimes[st.TripID], st)
	return nil
}

func (b *Bundle) WriteTransfer(t model.Transfer) error {
	b.Transfers = append(b.Transfers, t)
	return nil
}
