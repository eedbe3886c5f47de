// Package parse turns GTFS static CSV files and GTFS-realtime
// protobuf messages into the typed records in model. The static side
// is split one file, one function, one BundleWriter sink; the
// realtime side wraps MobilityData's generated protobuf bindings.
package parse

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/spkg/bom"
)

// mandatory files. The rest (calendar.txt, calendar_dates.txt,
// transfers.txt, agency.txt) are optional; their absence is logged by
// the caller and treated as empty.
var mandatoryFiles = []string{"stops.txt", "routes.txt", "trips.txt", "stop_times.txt"}

func init() {
	// LazyCSVReader survives sloppy quoting; the BOM reader strips a
	// leading UTF-8 BOM transparently.
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		return gocsv.LazyCSVReader(bom.NewReader(in))
	})
}

// LoadBundle parses one GTFS bundle directory into a Bundle tagged
// with modeTag. Returns the list of optional files that
// were absent, for the caller to log.
func LoadBundle(modeTag string, dir string) (*Bundle, []string, error) {
	bundle := NewBundle(modeTag)

	open := func(name string) (*os.File, error) {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, err
		}
		return f, nil
	}

	for _, name := range mandatoryFiles {
		f, err := open(name)
		if err != nil {
			return nil, nil, fmt.Errorf("opening %s: %w", name, err)
		}
		if f == nil {
			return nil, nil, &MissingFileError{File: name}
		}
		f.Close()
	}

	missingOptional := []string{}

	agencyFile, err := open("agency.txt")
	if err != nil {
		return nil, nil, fmt.Errorf("opening agency.txt: %w", err)
	}
	var agencies map[string]bool
	if agencyFile != nil {
		defer agencyFile.Close()
		agencies, _, err = ParseAgency(bundle, agencyFile)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing agency.txt: %w", err)
		}
	} else {
		missingOptional = append(missingOptional, "agency.txt")
		agencies = map[string]bool{}
	}

	routesFile, err := open("routes.txt")
	if err != nil {
		return nil, nil, fmt.Errorf("opening routes.txt: %w", err)
	}
	defer routesFile.Close()
	routes, err := ParseRoutes(bundle, routesFile, agencies)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing routes.txt: %w", err)
	}

	services := map[string]bool{}

	calFile, err := open("calendar.txt")
	if err != nil {
		return nil, nil, fmt.Errorf("opening calendar.txt: %w", err)
	}
	if calFile != nil {
		defer calFile.Close()
		cs, err := ParseCalendar(bundle, calFile)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing calendar.txt: %w", err)
		}
		for id := range cs {
			services[id] = true
		}
		bundle.HasCalendarData = true
	} else {
		missingOptional = append(missingOptional, "calendar.txt")
	}

	calDatesFile, err := open("calendar_dates.txt")
	if err != nil {
		return nil, nil, fmt.Errorf("opening calendar_dates.txt: %w", err)
	}
	if calDatesFile != nil {
		defer calDatesFile.Close()
		cs, err := ParseCalendarDates(bundle, calDatesFile)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing calendar_dates.txt: %w", err)
		}
		for id := range cs {
			services[id] = true
		}
		bundle.HasCalendarData = true
	} else {
		missingOptional = append(missingOptional, "calendar_dates.txt")
	}

	tripsFile, err := open("trips.txt")
	if err != nil {
		return nil, nil, fmt.Errorf("opening trips.txt: %w", err)
	}
	defer tripsFile.Close()
	trips, err := ParseTrips(bundle, tripsFile, routes, services)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing trips.txt: %w", err)
	}

	stopsFile, err := open("stops.txt")
	if err != nil {
		return nil, nil, fmt.Errorf("opening stops.txt: %w", err)
	}
	defer stopsFile.Close()
	stops, err := ParseStops(bundle, stopsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing stops.txt: %w", err)
	}

	stopTimesFile, err := open("stop_times.txt")
	if err != nil {
		return nil, nil, fmt.Errorf("opening stop_times.txt: %w", err)
	}
	defer stopTimesFile.Close()
	if err := ParseStopTimes(bundle, stopTimesFile, trips, stops); err != nil {
		return nil, nil, fmt.Errorf("parsing stop_times.txt: %w", err)
	}

	transfersFile, err := open("transfers.txt")
	if err != nil {
		return nil, nil, fmt.Errorf("opening transfers.txt: %w", err)
	}
	if transfersFile != nil {
		defer transfersFile.Close()
		if err := ParseTransfers(bundle, transfersFile, stops); err != nil {
			return nil, nil, fmt.Errorf("parsing transfers.txt: %w", err)
		}
	} else {
		missingOptional = append(missingOptional, "transfers.txt")
	}

	return bundle, missingOptional, nil
}
