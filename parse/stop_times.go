package parse

import (
	"fmt"
	"io"
	"sort"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/DevelopBG/PTV-Assistant-for-travel/model"
)

type stopTimeCSV struct {
	TripID        string `csv:"trip_id"`
	StopID        string `csv:"stop_id"`
	StopSequence  uint32 `csv:"stop_sequence"`
	ArrivalTime   string `csv:"arrival_time"`
	DepartureTime string `csv:"departure_time"`
	Headsign      string `csv:"stop_headsign"`
}

// ParseStopTimes parses stop_times.txt. Validates
// trip_id and stop_id resolve, enumerating at most the first 20
// offenders before failing. On success, stop_times for each
// trip are sorted by stop_sequence.
func ParseStopTimes(
	writer BundleWriter,
	data io.Reader,
	trips map[string]bool,
	stops map[string]bool,
) error {
	offenders := []string{}
	stopSeqSeen := map[string]map[uint32]bool{}
	byTrip := map[string][]model.StopTime{}

	i := -1
	err := gocsv.UnmarshalToCallbackWithError(data, func(st *stopTimeCSV) error {
		i++
		if len(offenders) >= 20 {
			return nil
		}

		if !trips[st.TripID] {
			offenders = append(offenders, fmt.Sprintf("row %d: unknown trip_id %q", i+1, st.TripID))
			return nil
		}
		if st.StopID == "" {
			offenders = append(offenders, fmt.Sprintf("row %d: missing stop_id", i+1))
			return nil
		}
		if !stops[st.StopID] {
			offenders = append(offenders, fmt.Sprintf("row %d: unknown stop_id %q", i+1, st.StopID))
			return nil
		}

		arrival, err := parseClock(st.ArrivalTime)
		if err != nil {
			offenders = append(offenders, fmt.Sprintf("row %d: arrival_time: %v", i+1, err))
			return nil
		}
		departure, err := parseClock(st.DepartureTime)
		if err != nil {
			offenders = append(offenders, fmt.Sprintf("row %d: departure_time: %v", i+1, err))
			return nil
		}

		if stopSeqSeen[st.TripID] == nil {
			stopSeqSeen[st.TripID] = map[uint32]bool{}
		}
		if stopSeqSeen[st.TripID][st.StopSequence] {
			offenders = append(offenders, fmt.Sprintf("row %d: duplicate stop_sequence %d for trip %q", i+1, st.StopSequence, st.TripID))
			return nil
		}
		stopSeqSeen[st.TripID][st.StopSequence] = true

		byTrip[st.TripID] = append(byTrip[st.TripID], model.StopTime{
			TripID:        st.TripID,
			StopID:        st.StopID,
			Headsign:      st.Headsign,
			StopSequence:  st.StopSequence,
			ArrivalSecs:   arrival,
			DepartureSecs: departure,
		})

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "unmarshaling stop_times.txt")
	}

	if len(offenders) > 0 {
		return newMalformed("stop_times.txt", offenders)
	}

	for tripID, sts := range byTrip {
		sort.SliceStable(sts, func(i, j int) bool {
			return sts[i].StopSequence < sts[j].StopSequence
		})
		for _, st := range sts {
			if err := writer.WriteStopTime(st); err != nil {
				return errors.Wrapf(err, "writing stop_time for trip %q", tripID)
			}
		}
	}

	return nil
}
