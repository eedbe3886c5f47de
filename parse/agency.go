package parse

import (
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/DevelopBG/PTV-Assistant-for-travel/model"
)

type agencyCSV struct {
	ID       string `csv:"agency_id"`
	Name     string `csv:"agency_name"`
	URL      string `csv:"agency_url"`
	Timezone string `csv:"agency_timezone"`
}

// ParseAgency parses agency.txt. Returns the set of known agency ids
// and the feed's timezone. agency.txt is optional at the bundle
// level; when absent, callers skip this and leave timezone blank.
func ParseAgency(writer BundleWriter, data io.Reader) (map[string]bool, string, error) {
	rows := []*agencyCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return nil, "", fmt.Errorf("unmarshaling agency.txt: %w", err)
	}

	if len(rows) == 0 {
		return nil, "", newMalformed("agency.txt", []string{"no agency rows"})
	}

	agencyTz := map[string]bool{}
	for _, a := range rows {
		agencyTz[a.Timezone] = true
	}
	if len(agencyTz) > 1 {
		return nil, "", newMalformed("agency.txt", []string{"multiple distinct agency_timezone values"})
	}

	tz := rows[0].Timezone
	if tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return nil, "", fmt.Errorf("agency_timezone %q invalid: %w", tz, err)
		}
	}

	agencies := map[string]bool{}
	offenders := []string{}
	for _, a := range rows {
		if agencies[a.ID] {
			offenders = append(offenders, fmt.Sprintf("duplicate agency_id %q", a.ID))
			continue
		}
		agencies[a.ID] = true

		if a.Name == "" {
			offenders = append(offenders, fmt.Sprintf("agency %q missing agency_name", a.ID))
			continue
		}

		if err := writer.WriteAgency(model.Agency{
			ID:       a.ID,
			Name:     a.Name,
			URL:      a.URL,
			Timezone: tz,
		}); err != nil {
			return nil, "", fmt.Errorf("writing agency %q: %w", a.ID, err)
		}
	}

	if len(offenders) > 0 {
		return nil, "", newMalformed("agency.txt", offenders)
	}

	return agencies, tz, nil
}
