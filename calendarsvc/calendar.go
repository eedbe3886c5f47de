// Package calendarsvc implements the Calendar Oracle: given a
// global service_id and a date, decide whether that service runs.
// Grounded on the weekday-bitmask and exception semantics already
// validated by parse/calendar.go and parse/calendar_dates.go -- this
// package only combines records the parser already trusts.
package calendarsvc

import (
	"time"

	"github.com/DevelopBG/PTV-Assistant-for-travel/catalogue"
	"github.com/DevelopBG/PTV-Assistant-for-travel/model"
)

const dateLayout = "20060102"

// Oracle answers is_active(service_id, date) queries against a
// Catalogue. It holds no state of its own; everything it reads
// was already merged and validated by the catalogue.
type Oracle struct {
	cat *catalogue.Catalogue
}

// New builds an Oracle over cat.
func New(cat *catalogue.Catalogue) *Oracle {
	return &Oracle{cat: cat}
}

// IsActive reports whether service_id runs on date (format YYYYMMDD).
//
// Rules, in order:
//  1. A mode that loaded no calendar.txt and no calendar_dates.txt at
//     all fails open: every service_id in that mode is considered
//     active every day.
//  2. An unknown service_id (absent from both calendar and
//     calendar_dates, in a mode that does have calendar data) is
//     inactive.
//  3. A calendar_dates exception for this exact date wins outright:
//     ExceptionTypeAdded forces active, ExceptionTypeRemoved forces
//     inactive.
//  4. Otherwise, active iff date falls within [start_date, end_date]
//     and the calendar's weekday bitmask has that day's bit set. A
//     service_id with no calendar.txt row (calendar_dates-only
//     service) is active only via an Added exception.
func (o *Oracle) IsActive(serviceID string, date string) bool {
	if !o.cat.HasCalendarData(serviceID) {
		return true
	}

	for _, cd := range o.cat.CalendarDates(serviceID) {
		if cd.Date != date {
			continue
		}
		switch cd.ExceptionType {
		case model.ExceptionTypeAdded:
			return true
		case model.ExceptionTypeRemoved:
			return false
		}
	}

	cal, found := o.cat.Calendar(serviceID)
	if !found {
		return false
	}

	if date < cal.StartDate || date > cal.EndDate {
		return false
	}

	t, err := time.ParseInLocation(dateLayout, date, time.UTC)
	if err != nil {
		return false
	}

	bit := int8(1) << uint(t.Weekday())
	return cal.Weekday&bit != 0
}

// AddDays returns the date that is n days after date (format
// YYYYMMDD), used by the planner's next-service search.
func AddDays(date string, n int) string {
	t, err := time.ParseInLocation(dateLayout, date, time.UTC)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, n).Format(dateLayout)
}
