package calendarsvc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DevelopBG/PTV-Assistant-for-travel/calendarsvc"
	"github.com/DevelopBG/PTV-Assistant-for-travel/testutil"
)

func calendarFixture() map[string][]string {
	return map[string][]string{
		"stops.txt": {
			"stop_id,stop_name,stop_lat,stop_lon",
			"a,Alpha,1.0,1.0",
			"b,Bravo,2.0,2.0",
		},
		"routes.txt": {
			"route_id,route_short_name,route_type",
			"r1,R1,2",
		},
		"calendar.txt": {
			"service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date",
			"weekdays,1,1,1,1,1,0,0,20260101,20261231",
			"saturdays,0,0,0,0,0,1,0,20260101,20261231",
		},
		"calendar_dates.txt": {
			"service_id,date,exception_type",
			// Australia Day Monday removed from weekdays.
			"weekdays,20260126,2",
			// A one-off Sunday addition to the Saturday service.
			"saturdays,20260111,1",
		},
		"trips.txt": {
			"trip_id,route_id,service_id",
			"t1,r1,weekdays",
			"t2,r1,saturdays",
		},
		"stop_times.txt": {
			"trip_id,stop_sequence,stop_id,arrival_time,departure_time",
			"t1,1,a,08:00:00,08:00:00",
			"t1,2,b,08:10:00,08:10:00",
			"t2,1,a,09:00:00,09:00:00",
			"t2,2,b,09:10:00,09:10:00",
		},
	}
}

func TestIsActive(t *testing.T) {
	cat := testutil.BuildCatalogue(t, "rail", calendarFixture())
	oracle := calendarsvc.New(cat)

	for _, tc := range []struct {
		name      string
		serviceID string
		date      string
		active    bool
	}{
		{"weekday_monday", "rail:weekdays", "20260105", true},
		{"weekday_friday", "rail:weekdays", "20260109", true},
		{"weekday_saturday", "rail:weekdays", "20260110", false},
		{"weekday_sunday", "rail:weekdays", "20260111", false},
		{"saturday_service_saturday", "rail:saturdays", "20260110", true},
		{"saturday_service_monday", "rail:saturdays", "20260105", false},
		{"before_start_date", "rail:weekdays", "20251229", false},
		{"after_end_date", "rail:weekdays", "20270104", false},
		{"removed_exception", "rail:weekdays", "20260126", false},
		{"added_exception_overrides_weekday", "rail:saturdays", "20260111", true},
		{"unknown_service", "rail:ghost", "20260105", false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.active, oracle.IsActive(tc.serviceID, tc.date))
		})
	}
}

func TestIsActiveFailsOpenWithoutCalendarData(t *testing.T) {
	files := calendarFixture()
	delete(files, "calendar.txt")
	delete(files, "calendar_dates.txt")

	cat := testutil.BuildCatalogue(t, "bus", files)
	oracle := calendarsvc.New(cat)

	// No calendar bundle at all: every service runs every day.
	assert.True(t, oracle.IsActive("bus:weekdays", "20260110"))
	assert.True(t, oracle.IsActive("bus:anything", "20260105"))
}

func TestAddDays(t *testing.T) {
	assert.Equal(t, "20260106", calendarsvc.AddDays("20260105", 1))
	assert.Equal(t, "20260201", calendarsvc.AddDays("20260131", 1))
	assert.Equal(t, "20260104", calendarsvc.AddDays("20260105", -1))
	assert.Equal(t, "20270105", calendarsvc.AddDays("20260105", 365))
	// 2028 is a leap year.
	assert.Equal(t, "20280229", calendarsvc.AddDays("20280228", 1))
}
