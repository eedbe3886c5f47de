// Package response defines the request/response shapes the HTTP
// façade and CLI consume. Only the structures live here; the
// transports themselves are external collaborators. Times cross the
// boundary as display strings, never as raw seconds.
package response

import (
	"fmt"
	"strings"
	"time"

	"github.com/DevelopBG/PTV-Assistant-for-travel/catalogue"
	"github.com/DevelopBG/PTV-Assistant-for-travel/model"
)

// Request is the inbound journey query.
type Request struct {
	OriginQuery      string   `json:"origin_query"`
	DestinationQuery string   `json:"destination_query"`
	DepartureTime    string   `json:"departure_time"` // HH:MM[:SS] or "now"
	Date             string   `json:"date"`           // YYYY-MM-DD or "today"
	Realtime         bool     `json:"realtime"`
	Modes            []string `json:"modes"` // empty means all
}

// StopInfo describes one endpoint of a journey.
type StopInfo struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Platform string  `json:"platform,omitempty"`
}

// LegInfo is one leg of the outbound journey shape.
type LegInfo struct {
	FromStop           string   `json:"from_stop"`
	ToStop             string   `json:"to_stop"`
	DepartureTime      string   `json:"departure_time"`
	ArrivalTime        string   `json:"arrival_time"`
	DurationSeconds    int      `json:"duration_seconds"`
	RouteShortName     string   `json:"route_short_name,omitempty"`
	RouteType          int      `json:"route_type"`
	ModeDisplay        string   `json:"mode_display"`
	NumStops           int      `json:"num_stops"`
	IntermediateStops  []string `json:"intermediate_stops"`
	IsTransfer         bool     `json:"is_transfer"`
	ScheduledDeparture string   `json:"scheduled_departure"`
	ScheduledArrival   string   `json:"scheduled_arrival"`
	ActualDeparture    string   `json:"actual_departure,omitempty"`
	ActualArrival      string   `json:"actual_arrival,omitempty"`
	DelaySeconds       int      `json:"delay_seconds"`
	Cancelled          bool     `json:"cancelled"`
	Platform           string   `json:"platform,omitempty"`
}

// JourneyResponse is the per-mode success shape.
type JourneyResponse struct {
	Origin             StopInfo  `json:"origin"`
	Destination        StopInfo  `json:"destination"`
	DepartureTime      string    `json:"departure_time"`
	ArrivalTime        string    `json:"arrival_time"`
	DurationSeconds    int       `json:"duration_seconds"`
	NumTransfers       int       `json:"num_transfers"`
	Legs               []LegInfo `json:"legs"`
	DateShiftedByDays  int       `json:"date_shifted_by_days"`
	HasRealtime        bool      `json:"has_realtime"`
	ValidAfterRealtime bool      `json:"valid_after_realtime"`
	BrokenTransfer     string    `json:"broken_transfer,omitempty"`
}

// ErrorResponse is the boundary error shape.
type ErrorResponse struct {
	Error       string   `json:"error"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Boundary error messages.
const (
	ErrOriginNotFound      = "Origin not found"
	ErrDestinationNotFound = "Destination not found"
	ErrNoRoute             = "No route available"
	ErrNoServiceIn7Days    = "No service within 7 days"
)

// HTTPStatus maps an outcome to the façade's status code: 200
// for any success including a null mode, 404 when both endpoints
// resolve but no mode has a route (or the error is ErrNoRoute or
// ErrNoServiceIn7Days), and 400 for every other error. No outcome
// maps to 503; there is no error message for an upstream-feed outage.
func HTTPStatus(err *ErrorResponse, anyRoute bool) int {
	switch {
	case err == nil && !anyRoute:
		return 404
	case err == nil:
		return 200
	case err.Error == ErrNoRoute || err.Error == ErrNoServiceIn7Days:
		return 404
	case err.Error == ErrOriginNotFound || err.Error == ErrDestinationNotFound:
		return 400
	default:
		return 400
	}
}

// ParseDepartureTime turns "HH:MM", "HH:MM:SS" or "now" into seconds
// from midnight.
func ParseDepartureTime(s string, now time.Time) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "now") {
		return now.Hour()*3600 + now.Minute()*60 + now.Second(), nil
	}

	layouts := []string{"15:04:05", "15:04"}
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.Hour()*3600 + t.Minute()*60 + t.Second(), nil
		}
	}
	return 0, fmt.Errorf("invalid departure time %q: expected HH:MM[:SS] or now", s)
}

// ParseDate turns "YYYY-MM-DD" or "today" into the catalogue's
// YYYYMMDD date format.
func ParseDate(s string, now time.Time) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "today") {
		return now.Format("20060102"), nil
	}

	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD or today", s)
	}
	return t.Format("20060102"), nil
}

// FormatClock renders seconds-from-midnight as HH:MM:SS, folding
// next-day values back onto the clock face.
func FormatClock(secs int) string {
	secs %= 86400
	if secs < 0 {
		secs += 86400
	}
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
}

// FromJourney converts a planner Journey into the outbound shape,
// resolving stop ids to display records via the catalogue.
func FromJourney(j *model.Journey, cat *catalogue.Catalogue) *JourneyResponse {
	resp := &JourneyResponse{
		Origin:             stopInfo(j.OriginStop, cat),
		Destination:        stopInfo(j.DestinationStop, cat),
		DepartureTime:      FormatClock(j.DepartureSecs),
		ArrivalTime:        FormatClock(j.ArrivalSecs),
		DurationSeconds:    j.DurationSeconds,
		NumTransfers:       j.NumTransfers,
		Legs:               make([]LegInfo, 0, len(j.Legs)),
		DateShiftedByDays:  j.DateShiftedByDays,
		HasRealtime:        j.HasRealtime,
		ValidAfterRealtime: j.ValidAfterRealtime,
		BrokenTransfer:     j.BrokenTransferNote,
	}

	for _, leg := range j.Legs {
		info := LegInfo{
			FromStop:           stopName(leg.FromStop, cat),
			ToStop:             stopName(leg.ToStop, cat),
			DepartureTime:      FormatClock(leg.DepartureSecs),
			ArrivalTime:        FormatClock(leg.ArrivalSecs),
			DurationSeconds:    leg.ArrivalSecs - leg.DepartureSecs,
			RouteShortName:     leg.RouteShortName,
			RouteType:          int(leg.RouteType),
			ModeDisplay:        leg.RouteType.ModeDisplay(),
			NumStops:           leg.NumStops,
			IntermediateStops:  leg.IntermediateStops,
			IsTransfer:         leg.IsTransfer,
			ScheduledDeparture: FormatClock(leg.ScheduledDepartureSecs),
			ScheduledArrival:   FormatClock(leg.ScheduledArrivalSecs),
			DelaySeconds:       leg.DelaySeconds,
			Cancelled:          leg.Cancelled,
			Platform:           leg.Platform,
		}
		if info.DurationSeconds < 0 {
			info.DurationSeconds += 86400
		}
		if info.IntermediateStops == nil {
			info.IntermediateStops = []string{}
		}
		if leg.IsTransfer {
			info.ModeDisplay = "Transfer"
		}
		if j.HasRealtime && !leg.IsTransfer {
			info.ActualDeparture = FormatClock(leg.ActualDepartureSecs)
			info.ActualArrival = FormatClock(leg.ActualArrivalSecs)
		}
		resp.Legs = append(resp.Legs, info)
	}

	return resp
}

func stopInfo(id string, cat *catalogue.Catalogue) StopInfo {
	stop, ok := cat.GetStop(id)
	if !ok {
		return StopInfo{ID: id, Name: id}
	}
	return StopInfo{
		ID:       stop.ID,
		Name:     stop.Name,
		Lat:      stop.Lat,
		Lon:      stop.Lon,
		Platform: stop.PlatformCode,
	}
}

func stopName(id string, cat *catalogue.Catalogue) string {
	if stop, ok := cat.GetStop(id); ok {
		return stop.Name
	}
	return id
}
