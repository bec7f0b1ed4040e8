package render

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/salestrack/tracking"
	"github.com/theoremus-urban-solutions/salestrack/utils"
)

const gtfsRealtimeVersion = "2.0"

// FeedAdapter publishes the playback marker as a single-entity GTFS-Realtime
// VehiclePosition feed. Path and point calls only record the path length.
type FeedAdapter struct {
	mu        sync.Mutex
	vehicleID string
	label     string
	now       func() time.Time

	marker  *tracking.Coordinate
	bearing *float64
	pathLen int
}

// NewFeedAdapter creates a feed for one agent.
func NewFeedAdapter(agent tracking.Agent) *FeedAdapter {
	return &FeedAdapter{
		vehicleID: strconv.Itoa(agent.ID),
		label:     agent.Name,
		now:       time.Now,
	}
}

func (f *FeedAdapter) SetMarkerPosition(lat, lng float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.marker != nil && (f.marker.Lat != lat || f.marker.Lng != lng) {
		b := utils.BearingDegrees(f.marker.Lat, f.marker.Lng, lat, lng)
		f.bearing = &b
	}
	f.marker = &tracking.Coordinate{Lat: lat, Lng: lng}
}

func (f *FeedAdapter) DrawPath(path []tracking.Sample) {
	f.mu.Lock()
	f.pathLen = len(path)
	f.mu.Unlock()
}

func (f *FeedAdapter) DrawPoints([]PointLabel) {}

// PathLen returns the length of the last drawn path.
func (f *FeedAdapter) PathLen() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pathLen
}

// Feed builds the current feed message. It has no entity until the marker has
// been positioned at least once.
func (f *FeedAdapter) Feed() *gtfsrtpb.FeedMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	ts := f.now()
	fm := newFeedMessage(ts)
	if f.marker != nil {
		fm.Entity = append(fm.Entity, vehicleEntity(f.vehicleID, f.label, *f.marker, f.bearing, ts))
	}
	return fm
}

// Marshal encodes the current feed as protobuf.
func (f *FeedAdapter) Marshal() ([]byte, error) {
	b, err := proto.Marshal(f.Feed())
	if err != nil {
		return nil, fmt.Errorf("marshal playback feed: %w", err)
	}
	return b, nil
}

// SnapshotFeed builds a feed with the latest known position of every agent.
// Agents without samples are skipped.
func SnapshotFeed(agents []tracking.AgentView, now time.Time) *gtfsrtpb.FeedMessage {
	fm := newFeedMessage(now)
	for _, a := range agents {
		last, ok := a.Current()
		if !ok {
			continue
		}
		fm.Entity = append(fm.Entity, vehicleEntity(strconv.Itoa(a.ID), a.Name, last.Coordinate(), nil, last.Time))
	}
	return fm
}

func newFeedMessage(ts time.Time) *gtfsrtpb.FeedMessage {
	return &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{
			GtfsRealtimeVersion: proto.String(gtfsRealtimeVersion),
			Incrementality:      gtfsrtpb.FeedHeader_FULL_DATASET.Enum(),
			Timestamp:           proto.Uint64(uint64(ts.Unix())),
		},
	}
}

func vehicleEntity(id, label string, c tracking.Coordinate, bearing *float64, ts time.Time) *gtfsrtpb.FeedEntity {
	pos := &gtfsrtpb.Position{
		Latitude:  proto.Float32(float32(c.Lat)),
		Longitude: proto.Float32(float32(c.Lng)),
	}
	if bearing != nil {
		pos.Bearing = proto.Float32(float32(*bearing))
	}
	return &gtfsrtpb.FeedEntity{
		Id: proto.String(id),
		Vehicle: &gtfsrtpb.VehiclePosition{
			Vehicle: &gtfsrtpb.VehicleDescriptor{
				Id:    proto.String(id),
				Label: proto.String(label),
			},
			Position:  pos,
			Timestamp: proto.Uint64(uint64(ts.Unix())),
		},
	}
}
