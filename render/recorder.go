package render

import (
	"sync"

	"github.com/theoremus-urban-solutions/salestrack/tracking"
)

// Recorder is an Adapter that remembers what it was asked to draw.
type Recorder struct {
	mu        sync.Mutex
	markers   []tracking.Coordinate
	path      []tracking.Sample
	points    []PointLabel
	pathDraws int
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) SetMarkerPosition(lat, lng float64) {
	r.mu.Lock()
	r.markers = append(r.markers, tracking.Coordinate{Lat: lat, Lng: lng})
	r.mu.Unlock()
}

func (r *Recorder) DrawPath(path []tracking.Sample) {
	r.mu.Lock()
	r.path = append([]tracking.Sample(nil), path...)
	r.pathDraws++
	r.mu.Unlock()
}

func (r *Recorder) DrawPoints(points []PointLabel) {
	r.mu.Lock()
	r.points = append([]PointLabel(nil), points...)
	r.mu.Unlock()
}

// Markers returns every marker position received, oldest first.
func (r *Recorder) Markers() []tracking.Coordinate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]tracking.Coordinate(nil), r.markers...)
}

// LastMarker returns the latest marker position.
func (r *Recorder) LastMarker() (tracking.Coordinate, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.markers) == 0 {
		return tracking.Coordinate{}, false
	}
	return r.markers[len(r.markers)-1], true
}

// Path returns the most recently drawn path.
func (r *Recorder) Path() []tracking.Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]tracking.Sample(nil), r.path...)
}

// PathDraws returns how many times DrawPath was called.
func (r *Recorder) PathDraws() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pathDraws
}

// Points returns the most recently drawn point labels.
func (r *Recorder) Points() []PointLabel {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]PointLabel(nil), r.points...)
}
