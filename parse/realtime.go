package parse

import (
	"fmt"

	gtfsrt "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"
)

// StopTimeUpdateType mirrors GTFS-realtime's
// StopTimeUpdate.schedule_relationship, trimmed to the three values
// this parser keeps; updates with any other value are dropped.
type StopTimeUpdateType int

const (
	StopTimeUpdateScheduled StopTimeUpdateType = iota
	StopTimeUpdateSkipped
	StopTimeUpdateNoData
)

// StopTimeUpdate is the trimmed-down shape of a
// TripUpdate.stop_time_update entry.
type StopTimeUpdate struct {
	TripID         string
	StopID         string
	StopSequence   uint32
	ArrivalDelay   int
	ArrivalIsSet   bool
	DepartureDelay int
	DepartureIsSet bool
	PlatformID     string
	Type           StopTimeUpdateType
}

// TripUpdateBatch is the parsed content of one or more GTFS-realtime
// trip-update feed messages.
type TripUpdateBatch struct {
	Timestamp      uint64
	CancelledTrips map[string]bool
	Updates        []*StopTimeUpdate
}

// ParseRealtime unmarshals one or more GTFS-realtime FeedMessage
// protobuf blobs. Returns MalformedRealtimeError on bad protobuf
// bytes or an unsupported header; it is up to the caller to treat
// that error as non-fatal so scheduled times survive a bad feed.
func ParseRealtime(feeds [][]byte) (*TripUpdateBatch, error) {
	batch := &TripUpdateBatch{
		CancelledTrips: map[string]bool{},
	}

	for _, feed := range feeds {
		msg := &gtfsrt.FeedMessage{}
		if err := proto.Unmarshal(feed, msg); err != nil {
			return nil, &MalformedRealtimeError{Cause: err}
		}

		header := msg.GetHeader()
		version := header.GetGtfsRealtimeVersion()
		if version != "2.0" && version != "1.0" {
			return nil, &MalformedRealtimeError{Cause: fmt.Errorf("unsupported gtfs-realtime version %q", version)}
		}
		if header.GetIncrementality() != gtfsrt.FeedHeader_FULL_DATASET {
			return nil, &MalformedRealtimeError{Cause: fmt.Errorf("unsupported incrementality %v", header.GetIncrementality())}
		}
		batch.Timestamp = header.GetTimestamp()

		if err := processEntities(batch, msg.GetEntity()); err != nil {
			return nil, errors.Wrap(err, "processing feed entities")
		}
	}

	return batch, nil
}

// MalformedRealtimeError wraps a protobuf decode/validation failure.
type MalformedRealtimeError struct {
	Cause error
}

func (e *MalformedRealtimeError) Error() string {
	return fmt.Sprintf("malformed gtfs-realtime feed: %v", e.Cause)
}

func (e *MalformedRealtimeError) Unwrap() error {
	return e.Cause
}

func processEntities(batch *TripUpdateBatch, entities []*gtfsrt.FeedEntity) error {
	for _, entity := range entities {
		tu := entity.GetTripUpdate()
		if tu == nil {
			continue
		}

		trip := tu.GetTrip()
		if trip == nil {
			return fmt.Errorf("trip_update missing trip descriptor")
		}
		tripID := trip.GetTripId()
		if tripID == "" {
			// Trip identification via (route_id, direction_id,
			// start_time, start_date) is not supported.
			continue
		}

		switch trip.GetScheduleRelationship() {
		case gtfsrt.TripDescriptor_CANCELED:
			batch.CancelledTrips[tripID] = true

		case gtfsrt.TripDescriptor_SCHEDULED:
			for _, u := range tu.GetStopTimeUpdate() {
				stup, err := toStopTimeUpdate(tripID, u)
				if err != nil {
					return errors.Wrapf(err, "trip %q", tripID)
				}
				if stup != nil {
					batch.Updates = append(batch.Updates, stup)
				}
			}

		default:
			// ADDED, UNSCHEDULED, DUPLICATED trips are not
			// handled by this overlay.
		}
	}

	return nil
}

func toStopTimeUpdate(tripID string, u *gtfsrt.TripUpdate_StopTimeUpdate) (*StopTimeUpdate, error) {
	if u.GetStopId() == "" && u.GetStopSequence() == 0 {
		return nil, fmt.Errorf("stop_time_update missing both stop_id and stop_sequence")
	}

	stup := &StopTimeUpdate{
		TripID:       tripID,
		StopID:       u.GetStopId(),
		StopSequence: u.GetStopSequence(),
		// Platform reassignment rides on stop_time_properties'
		// assigned_stop_id in this profile -- the base GTFS-realtime
		// schema has no dedicated platform_id field.
		PlatformID: u.GetStopTimeProperties().GetAssignedStopId(),
	}

	if a := u.GetArrival(); a != nil {
		stup.ArrivalIsSet = true
		stup.ArrivalDelay = int(a.GetDelay())
	}
	if d := u.GetDeparture(); d != nil {
		stup.DepartureIsSet = true
		stup.DepartureDelay = int(d.GetDelay())
	}

	switch u.GetScheduleRelationship() {
	case gtfsrt.TripUpdate_StopTimeUpdate_SCHEDULED:
		stup.Type = StopTimeUpdateScheduled
	case gtfsrt.TripUpdate_StopTimeUpdate_SKIPPED:
		stup.Type = StopTimeUpdateSkipped
	case gtfsrt.TripUpdate_StopTimeUpdate_NO_DATA:
		stup.Type = StopTimeUpdateNoData
	default:
		// UNSCHEDULED (frequency-based trips) is not supported.
		return nil, nil
	}

	return stup, nil
}
