// Package feed exports simulated vehicles as a GTFS-Realtime feed.
package feed

import (
	"fmt"
	"time"
	"transit-map-service/internal/domain"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

const (
	GTFSRealtimeVersion = "2.0"
	ContentType         = "application/x-protobuf"
)

// VehicleID is the GTFS-RT vehicle id of the simulated vehicle on a route.
func VehicleID(routeID string) string { return "vehicle-" + routeID }

// VehiclePositions builds a FULL_DATASET feed with one entity per vehicle.
// routes is consulted for labels and congestion; a vehicle whose route is
// missing is still exported.
func VehiclePositions(vehicles []domain.LiveVehicleState, routes map[string]*domain.Route, now time.Time) *gtfsrtpb.FeedMessage {
	ts := uint64(now.Unix())

	msg := &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{
			GtfsRealtimeVersion: proto.String(GTFSRealtimeVersion),
			Incrementality:      gtfsrtpb.FeedHeader_FULL_DATASET.Enum(),
			Timestamp:           proto.Uint64(ts),
		},
	}

	for _, v := range vehicles {
		vp := &gtfsrtpb.VehiclePosition{
			Trip: &gtfsrtpb.TripDescriptor{
				RouteId: proto.String(v.RouteID),
			},
			Vehicle: &gtfsrtpb.VehicleDescriptor{
				Id: proto.String(VehicleID(v.RouteID)),
			},
			Position: &gtfsrtpb.Position{
				Latitude:  proto.Float32(float32(v.Position.Lat)),
				Longitude: proto.Float32(float32(v.Position.Lng)),
				Bearing:   proto.Float32(float32(v.Bearing)),
			},
			CurrentStatus: gtfsrtpb.VehiclePosition_IN_TRANSIT_TO.Enum(),
			Timestamp:     proto.Uint64(ts),
		}

		if r, ok := routes[v.RouteID]; ok && r != nil {
			vp.Vehicle.Label = proto.String(r.Name)
			vp.CongestionLevel = congestion(r.Status).Enum()
		}

		msg.Entity = append(msg.Entity, &gtfsrtpb.FeedEntity{
			Id:      proto.String(v.RouteID),
			Vehicle: vp,
		})
	}
	return msg
}

func congestion(s domain.RouteStatus) gtfsrtpb.VehiclePosition_CongestionLevel {
	switch s {
	case domain.StatusTraffic:
		return gtfsrtpb.VehiclePosition_CONGESTION
	case domain.StatusDelayed:
		return gtfsrtpb.VehiclePosition_STOP_AND_GO
	case domain.StatusNormal:
		return gtfsrtpb.VehiclePosition_RUNNING_SMOOTHLY
	default:
		return gtfsrtpb.VehiclePosition_UNKNOWN_CONGESTION_LEVEL
	}
}

// Marshal encodes a feed in the protobuf wire format.
func Marshal(msg *gtfsrtpb.FeedMessage) ([]byte, error) {
	b, err := proto.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal gtfs-rt feed: %w", err)
	}
	return b, nil
}
