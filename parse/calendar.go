package parse

import (
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/DevelopBG/PTV-Assistant-for-travel/model"
)

type calendarCSV struct {
	ServiceID string `csv:"service_id"`
	StartDate string `csv:"start_date"`
	EndDate   string `csv:"end_date"`
	Monday    int8   `csv:"monday"`
	Tuesday   int8   `csv:"tuesday"`
	Wednesday int8   `csv:"wednesday"`
	Thursday  int8   `csv:"thursday"`
	Friday    int8   `csv:"friday"`
	Saturday  int8   `csv:"saturday"`
	Sunday    int8   `csv:"sunday"`
}

func weekdayBit(day int8, weekday time.Weekday, offenders *[]string, field string) int8 {
	if day == 1 {
		return 1 << weekday
	}
	if day != 0 {
		*offenders = append(*offenders, fmt.Sprintf("invalid %s value %d", field, day))
	}
	return 0
}

// ParseCalendar parses calendar.txt. Returns the set of known service
// ids. calendar.txt is optional per bundle; when both it and
// calendar_dates.txt are absent, the Calendar Oracle fails open.
func ParseCalendar(writer BundleWriter, data io.Reader) (map[string]bool, error) {
	rows := []*calendarCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("unmarshaling calendar.txt: %w", err)
	}

	services := map[string]bool{}
	offenders := []string{}

	for _, c := range rows {
		if c.ServiceID == "" {
			offenders = append(offenders, "row with empty service_id")
			continue
		}
		if services[c.ServiceID] {
			offenders = append(offenders, fmt.Sprintf("repeated service_id %q", c.ServiceID))
			continue
		}
		services[c.ServiceID] = true

		var weekday int8
		weekday |= weekdayBit(c.Monday, time.Monday, &offenders, "monday")
		weekday |= weekdayBit(c.Tuesday, time.Tuesday, &offenders, "tuesday")
		weekday |= weekdayBit(c.Wednesday, time.Wednesday, &offenders, "wednesday")
		weekday |= weekdayBit(c.Thursday, time.Thursday, &offenders, "thursday")
		weekday |= weekdayBit(c.Friday, time.Friday, &offenders, "friday")
		weekday |= weekdayBit(c.Saturday, time.Saturday, &offenders, "saturday")
		weekday |= weekdayBit(c.Sunday, time.Sunday, &offenders, "sunday")

		if _, err := time.ParseInLocation("20060102", c.StartDate, time.UTC); err != nil {
			offenders = append(offenders, fmt.Sprintf("service %q: invalid start_date %q", c.ServiceID, c.StartDate))
			continue
		}
		if _, err := time.ParseInLocation("20060102", c.EndDate, time.UTC); err != nil {
			offenders = append(offenders, fmt.Sprintf("service %q: invalid end_date %q", c.ServiceID, c.EndDate))
			continue
		}

		if err := writer.WriteCalendar(model.Calendar{
			ServiceID: c.ServiceID,
			StartDate: c.StartDate,
			EndDate:   c.EndDate,
			Weekday:   weekday,
		}); err != nil {
			return nil, fmt.Errorf("writing calendar %q: %w", c.ServiceID, err)
		}
	}

	if len(offenders) > 0 {
		return nil, newMalformed("calendar.txt", offenders)
	}

	return services, nil
}
