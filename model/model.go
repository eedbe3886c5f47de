// Package model holds the record types shared by every other package:
// the immutable GTFS entities plus the derived Connection, Leg and
// Journey types the planner produces.
package model

import (
	"fmt"

	"github.com/paulmach/orb"
)

// LocationType mirrors GTFS stops.location_type.
type LocationType int

const (
	LocationTypeStop LocationType = iota
	LocationTypeStation
	LocationTypeEntranceExit
	LocationTypeGenericNode
	LocationTypeBoardingArea
)

// RouteType is the GTFS routes.route_type numeric code. Preserved
// end-to-end: mode display derives from it, never from mode_tag alone.
type RouteType int

const (
	RouteTypeTram              RouteType = 0
	RouteTypeSubway            RouteType = 1
	RouteTypeRail              RouteType = 2
	RouteTypeBus               RouteType = 3
	RouteTypeFerry             RouteType = 4
	RouteTypeCableTram         RouteType = 5
	RouteTypeAerial            RouteType = 6
	RouteTypeFunicular         RouteType = 7
	RouteTypeTrolleybus        RouteType = 11
	RouteTypeMonorail          RouteType = 12
	RouteTypeLongDistanceRail  RouteType = 102
	RouteTypeExpressBus        RouteType = 204
	RouteTypeMetroRail         RouteType = 400
	RouteTypeBusStandard       RouteType = 700
	RouteTypeRegionalBus       RouteType = 701
	RouteTypeTramVariant       RouteType = 900
)

// ModeDisplay returns a short human label for a route type, used in
// the external-facing response.
func (rt RouteType) ModeDisplay() string {
	switch rt {
	case RouteTypeTram, RouteTypeTramVariant:
		return "Tram"
	case RouteTypeSubway, RouteTypeMetroRail:
		return "Metro"
	case RouteTypeRail, RouteTypeLongDistanceRail:
		return "Train"
	case RouteTypeBus, RouteTypeBusStandard, RouteTypeRegionalBus, RouteTypeExpressBus, RouteTypeTrolleybus:
		return "Bus"
	case RouteTypeFerry:
		return "Ferry"
	case RouteTypeCableTram:
		return "Cable car"
	case RouteTypeAerial:
		return "Aerial"
	case RouteTypeFunicular:
		return "Funicular"
	case RouteTypeMonorail:
		return "Monorail"
	default:
		return "Unknown"
	}
}

// ExceptionType mirrors GTFS calendar_dates.exception_type.
type ExceptionType int8

const (
	ExceptionTypeAdded   ExceptionType = 1
	ExceptionTypeRemoved ExceptionType = 2
)

type Agency struct {
	ID       string
	Name     string
	URL      string
	Timezone string
}

type Calendar struct {
	ServiceID string
	StartDate string // YYYYMMDD
	EndDate   string // YYYYMMDD
	Weekday   int8   // bitmask, bit time.Weekday
}

type CalendarDate struct {
	ServiceID     string
	Date          string // YYYYMMDD
	ExceptionType ExceptionType
}

// Stop is immutable once loaded. ID is the global_id (mode_tag:raw_id)
// once merged into a Catalogue; RawID/ModeTag preserve the source
// bundle's own identity.
type Stop struct {
	ID            string
	ModeTag       string
	RawID         string
	Code          string
	Name          string
	Desc          string
	Lat           float64
	Lon           float64
	URL           string
	LocationType  LocationType
	ParentStation string
	PlatformCode  string
}

// Point returns the stop's coordinate as an orb.Point, [lon, lat]
// order as orb convention requires.
func (s Stop) Point() orb.Point {
	return orb.Point{s.Lon, s.Lat}
}

type Route struct {
	ID        string
	ModeTag   string
	RawID     string
	AgencyID  string
	ShortName string
	LongName  string
	Desc      string
	Type      RouteType
	URL       string
	Color     string
	TextColor string
}

type Trip struct {
	ID          string
	ModeTag     string
	RawID       string
	RouteID     string
	ServiceID   string
	Headsign    string
	ShortName   string
	DirectionID int8
}

// StopTime holds seconds-from-midnight times which may exceed 86400 to
// denote next-day wrap. StopID/TripID here are already the
// merged global ids.
type StopTime struct {
	TripID        string
	StopID        string
	Headsign      string
	StopSequence  uint32
	ArrivalSecs   int
	DepartureSecs int
}

// Transfer is an in-feed authorised walk between two physical stops.
type TransferType int8

const (
	TransferRecommended     TransferType = 0
	TransferTimed           TransferType = 1
	TransferMinimumRequired TransferType = 2
	TransferNotPossible     TransferType = 3
)

type Transfer struct {
	FromStopID      string
	ToStopID        string
	Type            TransferType
	MinTransferSecs int
}

// Connection is the planner's atomic unit: one timetabled hop between
// two stops, or a synthetic in-feed transfer. TripID == "" and
// ServiceID == "" denote a transfer connection.
type Connection struct {
	FromStopID    string
	ToStopID      string
	DepartureSecs int
	ArrivalSecs   int
	TripID        string
	RouteID       string
	RouteType     RouteType
	ServiceID     string
	IsTransfer    bool
}

func (c Connection) String() string {
	if c.IsTransfer {
		return fmt.Sprintf("transfer %s->%s [%d,%d]", c.FromStopID, c.ToStopID, c.DepartureSecs, c.ArrivalSecs)
	}
	return fmt.Sprintf("trip %s %s->%s [%d,%d]", c.TripID, c.FromStopID, c.ToStopID, c.DepartureSecs, c.ArrivalSecs)
}

// Leg is one contiguous segment of a Journey: either a transit leg
// (TripID != "") or a transfer leg (IsTransfer true). Never both.
type Leg struct {
	FromStop          string
	ToStop            string
	DepartureSecs     int
	ArrivalSecs       int
	TripID            string
	RouteID           string
	RouteShortName    string
	RouteType         RouteType
	IsTransfer        bool
	IntermediateStops []string
	NumStops          int

	// Realtime overlay fields. Scheduled* mirror
	// Departure/ArrivalSecs at construction time and never change;
	// Actual* default to the scheduled value until an overlay
	// applies a delay.
	ScheduledDepartureSecs int
	ScheduledArrivalSecs   int
	ActualDepartureSecs    int
	ActualArrivalSecs      int
	DelaySeconds           int
	Cancelled              bool
	Platform               string
}

// Journey is the full itinerary returned by the planner.
// DepartureSecs/ArrivalSecs refer to the first/last non-transfer
// leg.
type Journey struct {
	OriginStop         string
	DestinationStop    string
	DepartureSecs      int
	ArrivalSecs        int
	DurationSeconds    int
	NumTransfers       int
	Legs               []Leg
	DateShiftedByDays  int
	HasRealtime        bool
	ValidAfterRealtime bool
	BrokenTransferNote string
}
