package parse

import (
	"testing"

	gtfsrt "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
)

func buildTripUpdateFeed(t *testing.T, entity []*gtfsrt.FeedEntity) []byte {
	t.Helper()

	incrementality := gtfsrt.FeedHeader_FULL_DATASET
	feed := &gtfsrt.FeedMessage{
		Header: &gtfsrt.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Incrementality:      &incrementality,
			Timestamp:           proto.Uint64(1767225600),
		},
		Entity: entity,
	}

	data, err := proto.Marshal(feed)
	require.NoError(t, err)
	return data
}

func scheduledEntity(tripID string, updates []*gtfsrt.TripUpdate_StopTimeUpdate) *gtfsrt.FeedEntity {
	rel := gtfsrt.TripDescriptor_SCHEDULED
	return &gtfsrt.FeedEntity{
		Id: proto.String(tripID),
		TripUpdate: &gtfsrt.TripUpdate{
			Trip: &gtfsrt.TripDescriptor{
				TripId:               proto.String(tripID),
				ScheduleRelationship: &rel,
			},
			StopTimeUpdate: updates,
		},
	}
}

func TestParseRealtimeDelays(t *testing.T) {
	data := buildTripUpdateFeed(t, []*gtfsrt.FeedEntity{
		scheduledEntity("t1", []*gtfsrt.TripUpdate_StopTimeUpdate{
			{
				StopId:    proto.String("s2"),
				Arrival:   &gtfsrt.TripUpdate_StopTimeEvent{Delay: proto.Int32(120)},
				Departure: &gtfsrt.TripUpdate_StopTimeEvent{Delay: proto.Int32(90)},
			},
		}),
	})

	batch, err := ParseRealtime([][]byte{data})
	require.NoError(t, err)
	assert.Equal(t, uint64(1767225600), batch.Timestamp)
	assert.Empty(t, batch.CancelledTrips)

	require.Len(t, batch.Updates, 1)
	u := batch.Updates[0]
	assert.Equal(t, "t1", u.TripID)
	assert.Equal(t, "s2", u.StopID)
	assert.True(t, u.ArrivalIsSet)
	assert.Equal(t, 120, u.ArrivalDelay)
	assert.True(t, u.DepartureIsSet)
	assert.Equal(t, 90, u.DepartureDelay)
	assert.Equal(t, StopTimeUpdateScheduled, u.Type)
}

func TestParseRealtimeCancelledTrip(t *testing.T) {
	rel := gtfsrt.TripDescriptor_CANCELED
	data := buildTripUpdateFeed(t, []*gtfsrt.FeedEntity{
		{
			Id: proto.String("t9"),
			TripUpdate: &gtfsrt.TripUpdate{
				Trip: &gtfsrt.TripDescriptor{
					TripId:               proto.String("t9"),
					ScheduleRelationship: &rel,
				},
			},
		},
	})

	batch, err := ParseRealtime([][]byte{data})
	require.NoError(t, err)
	assert.True(t, batch.CancelledTrips["t9"])
	assert.Empty(t, batch.Updates)
}

func TestParseRealtimeMalformedBytes(t *testing.T) {
	_, err := ParseRealtime([][]byte{[]byte("this is not protobuf at all")})
	var malformed *MalformedRealtimeError
	require.ErrorAs(t, err, &malformed)
}

func TestParseRealtimeUnsupportedVersion(t *testing.T) {
	incrementality := gtfsrt.FeedHeader_FULL_DATASET
	data, err := proto.Marshal(&gtfsrt.FeedMessage{
		Header: &gtfsrt.FeedHeader{
			GtfsRealtimeVersion: proto.String("3.0"),
			Incrementality:      &incrementality,
		},
	})
	require.NoError(t, err)

	_, err = ParseRealtime([][]byte{data})
	var malformed *MalformedRealtimeError
	require.ErrorAs(t, err, &malformed)
}
