package parse

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/DevelopBG/PTV-Assistant-for-travel/model"
)

type tripCSV struct {
	ID          string `csv:"trip_id"`
	RouteID     string `csv:"route_id"`
	ServiceID   string `csv:"service_id"`
	Headsign    string `csv:"trip_headsign"`
	ShortName   string `csv:"trip_short_name"`
	DirectionID int8   `csv:"direction_id"`
}

// ParseTrips parses trips.txt. route_id must
// resolve to a loaded route; unresolved references are malformed-feed
// offenders, not fatal one-at-a-time errors.
func ParseTrips(
	writer BundleWriter,
	data io.Reader,
	routes map[string]bool,
	services map[string]bool,
) (map[string]bool, error) {
	rows := []*tripCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("unmarshaling trips.txt: %w", err)
	}

	trips := map[string]bool{}
	offenders := []string{}

	for _, t := range rows {
		if t.ID == "" {
			offenders = append(offenders, "row with empty trip_id")
			continue
		}
		if trips[t.ID] {
			offenders = append(offenders, fmt.Sprintf("repeated trip_id %q", t.ID))
			continue
		}
		trips[t.ID] = true

		if t.RouteID == "" {
			offenders = append(offenders, fmt.Sprintf("trip %q has no route_id", t.ID))
			continue
		}
		if !routes[t.RouteID] {
			offenders = append(offenders, fmt.Sprintf("trip %q references unknown route_id %q", t.ID, t.RouteID))
			continue
		}
		if len(services) > 0 && !services[t.ServiceID] {
			offenders = append(offenders, fmt.Sprintf("trip %q references unknown service_id %q", t.ID, t.ServiceID))
			continue
		}
		if t.DirectionID != 0 && t.DirectionID != 1 {
			offenders = append(offenders, fmt.Sprintf("trip %q has invalid direction_id %d", t.ID, t.DirectionID))
			continue
		}

		if err := writer.WriteTrip(model.Trip{
			ID:          t.ID,
			RawID:       t.ID,
			RouteID:     t.RouteID,
			ServiceID:   t.ServiceID,
			Headsign:    t.Headsign,
			ShortName:   t.ShortName,
			DirectionID: t.DirectionID,
		}); err != nil {
			return nil, fmt.Errorf("writing trip %q: %w", t.ID, err)
		}
	}

	if len(offenders) > 0 {
		return nil, newMalformed("trips.txt", offenders)
	}

	return trips, nil
}
