package parse

import (
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/DevelopBG/PTV-Assistant-for-travel/model"
)

type calendarDateCSV struct {
	ServiceID     string `csv:"service_id"`
	Date          string `csv:"date"`
	ExceptionType int8   `csv:"exception_type"`
}

// ParseCalendarDates parses calendar_dates.txt, which is optional.
// Returns the set of service ids it mentions (added or removed).
func ParseCalendarDates(writer BundleWriter, data io.Reader) (map[string]bool, error) {
	rows := []*calendarDateCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("unmarshaling calendar_dates.txt: %w", err)
	}

	services := map[string]bool{}
	seen := map[string]bool{}
	offenders := []string{}

	for _, cd := range rows {
		if cd.ExceptionType != int8(model.ExceptionTypeAdded) && cd.ExceptionType != int8(model.ExceptionTypeRemoved) {
			offenders = append(offenders, fmt.Sprintf("invalid exception_type %d for service %q", cd.ExceptionType, cd.ServiceID))
			continue
		}
		if _, err := time.ParseInLocation("20060102", cd.Date, time.UTC); err != nil {
			offenders = append(offenders, fmt.Sprintf("invalid date %q for service %q", cd.Date, cd.ServiceID))
			continue
		}

		key := cd.Date + "-" + cd.ServiceID
		if seen[key] {
			offenders = append(offenders, fmt.Sprintf("duplicate (service_id,date) %q", key))
			continue
		}
		seen[key] = true
		services[cd.ServiceID] = true

		if err := writer.WriteCalendarDate(model.CalendarDate{
			ServiceID:     cd.ServiceID,
			Date:          cd.Date,
			ExceptionType: model.ExceptionType(cd.ExceptionType),
		}); err != nil {
			return nil, fmt.Errorf("writing calendar_date: %w", err)
		}
	}

	if len(offenders) > 0 {
		return nil, newMalformed("calendar_dates.txt", offenders)
	}

	return services, nil
}
