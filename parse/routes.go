package parse

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/DevelopBG/PTV-Assistant-for-travel/model"
)

type routeCSV struct {
	ID        string `csv:"route_id"`
	AgencyID  string `csv:"agency_id"`
	ShortName string `csv:"route_short_name"`
	LongName  string `csv:"route_long_name"`
	Desc      string `csv:"route_desc"`
	Type      string `csv:"route_type"`
	URL       string `csv:"route_url"`
	Color     string `csv:"route_color"`
	TextColor string `csv:"route_text_color"`
}

// legalRouteType accepts both the base GTFS 0-7/11-12 codes and the
// extended numeric codes real feeds carry (102, 204, 400, 700, 701,
// 900).
func legalRouteType(t model.RouteType) bool {
	switch {
	case t >= 0 && t <= 7:
		return true
	case t >= 11 && t <= 12:
		return true
	case t == model.RouteTypeLongDistanceRail,
		t == model.RouteTypeExpressBus,
		t == model.RouteTypeMetroRail,
		t == model.RouteTypeBusStandard,
		t == model.RouteTypeRegionalBus,
		t == model.RouteTypeTramVariant:
		return true
	}
	return false
}

func validRouteColor(color string) bool {
	if len(color) != 6 {
		return false
	}
	_, err := hex.DecodeString(color)
	return err == nil
}

// ParseRoutes parses routes.txt. Returns the set of
// known raw route ids.
func ParseRoutes(writer BundleWriter, data io.Reader, agencies map[string]bool) (map[string]bool, error) {
	rows := []*routeCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("unmarshaling routes.txt: %w", err)
	}

	routes := map[string]bool{}
	offenders := []string{}

	for _, r := range rows {
		if r.ID == "" {
			offenders = append(offenders, "row with empty route_id")
			continue
		}
		if routes[r.ID] {
			offenders = append(offenders, fmt.Sprintf("repeated route_id %q", r.ID))
			continue
		}
		routes[r.ID] = true

		if len(agencies) > 1 && r.AgencyID == "" {
			offenders = append(offenders, fmt.Sprintf("route %q has no agency_id in a multi-agency feed", r.ID))
			continue
		}
		if len(agencies) > 0 && r.AgencyID != "" && !agencies[r.AgencyID] {
			offenders = append(offenders, fmt.Sprintf("route %q references unknown agency_id %q", r.ID, r.AgencyID))
			continue
		}
		if r.ShortName == "" && r.LongName == "" {
			offenders = append(offenders, fmt.Sprintf("route %q has no short_name or long_name", r.ID))
			continue
		}
		if r.Type == "" {
			offenders = append(offenders, fmt.Sprintf("route %q has no route_type", r.ID))
			continue
		}

		routeType, err := strconv.Atoi(r.Type)
		if err != nil {
			offenders = append(offenders, fmt.Sprintf("route %q has non-numeric route_type %q", r.ID, r.Type))
			continue
		}
		if !legalRouteType(model.RouteType(routeType)) {
			offenders = append(offenders, fmt.Sprintf("route %q has invalid route_type %d", r.ID, routeType))
			continue
		}

		if r.Color == "" {
			r.Color = "FFFFFF"
		} else if !validRouteColor(r.Color) {
			offenders = append(offenders, fmt.Sprintf("route %q has invalid route_color %q", r.ID, r.Color))
			continue
		}
		if r.TextColor == "" {
			r.TextColor = "000000"
		} else if !validRouteColor(r.TextColor) {
			offenders = append(offenders, fmt.Sprintf("route %q has invalid route_text_color %q", r.ID, r.TextColor))
			continue
		}

		if err := writer.WriteRoute(model.Route{
			ID:        r.ID,
			RawID:     r.ID,
			AgencyID:  r.AgencyID,
			ShortName: r.ShortName,
			LongName:  r.LongName,
			Desc:      r.Desc,
			Type:      model.RouteType(routeType),
			URL:       r.URL,
			Color:     r.Color,
			TextColor: r.TextColor,
		}); err != nil {
			return nil, fmt.Errorf("writing route %q: %w", r.ID, err)
		}
	}

	if len(offenders) > 0 {
		return nil, newMalformed("routes.txt", offenders)
	}

	return routes, nil
}
