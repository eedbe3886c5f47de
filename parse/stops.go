package parse

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/DevelopBG/PTV-Assistant-for-travel/model"
)

type stopCSV struct {
	ID            string  `csv:"stop_id"`
	Code          string  `csv:"stop_code"`
	Name          string  `csv:"stop_name"`
	Desc          string  `csv:"stop_desc"`
	Lat           float64 `csv:"stop_lat"`
	Lon           float64 `csv:"stop_lon"`
	URL           string  `csv:"stop_url"`
	LocationType  int8    `csv:"location_type"`
	ParentStation string  `csv:"parent_station"`
	PlatformCode  string  `csv:"platform_code"`
}

// ParseStops parses stops.txt. Returns the set of
// known raw stop ids.
func ParseStops(writer BundleWriter, data io.Reader) (map[string]bool, error) {
	rows := []*stopCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("unmarshaling stops.txt: %w", err)
	}

	stopIDs := map[string]bool{}
	parentRef := map[string]string{}
	offenders := []string{}

	for _, st := range rows {
		if st.ID == "" {
			offenders = append(offenders, "row with empty stop_id")
			continue
		}
		if stopIDs[st.ID] {
			offenders = append(offenders, fmt.Sprintf("repeated stop_id %q", st.ID))
			continue
		}
		stopIDs[st.ID] = true

		locationType := model.LocationType(st.LocationType)

		if locationType != model.LocationTypeGenericNode && locationType != model.LocationTypeBoardingArea {
			if st.Name == "" {
				offenders = append(offenders, fmt.Sprintf("stop %q missing stop_name", st.ID))
				continue
			}
		}

		if st.ParentStation != "" {
			parentRef[st.ID] = st.ParentStation
		}

		if err := writer.WriteStop(model.Stop{
			ID:            st.ID,
			RawID:         st.ID,
			Code:          st.Code,
			Name:          st.Name,
			Desc:          st.Desc,
			Lat:           st.Lat,
			Lon:           st.Lon,
			URL:           st.URL,
			LocationType:  locationType,
			ParentStation: st.ParentStation,
			PlatformCode:  st.PlatformCode,
		}); err != nil {
			return nil, fmt.Errorf("writing stop %q: %w", st.ID, err)
		}
	}

	for stopID, parentID := range parentRef {
		if !stopIDs[parentID] {
			offenders = append(offenders, fmt.Sprintf("stop %q references unknown parent_station %q", stopID, parentID))
		}
	}

	if len(offenders) > 0 {
		return nil, newMalformed("stops.txt", offenders)
	}

	return stopIDs, nil
}
