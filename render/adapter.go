package render

import (
	"fmt"

	"github.com/theoremus-urban-solutions/salestrack/tracking"
	"github.com/theoremus-urban-solutions/salestrack/window"
)

// Adapter is a drawing surface for one agent's history.
type Adapter interface {
	SetMarkerPosition(lat, lng float64)
	DrawPath(path []tracking.Sample)
	DrawPoints(points []PointLabel)
}

// PointLabel is the detail shown for one sample of the path.
// Values are formatted for display only.
type PointLabel struct {
	Index int    `json:"index"`
	Time  string `json:"time"`
	Lat   string `json:"lat"`
	Lng   string `json:"lng"`
}

// Labels builds the per-point details for a path.
func Labels(path []tracking.Sample) []PointLabel {
	out := make([]PointLabel, len(path))
	for i, s := range path {
		out[i] = PointLabel{
			Index: i,
			Time:  window.ClockOf(s.Time).String(),
			Lat:   fmt.Sprintf("%.4f", s.Lat),
			Lng:   fmt.Sprintf("%.4f", s.Lng),
		}
	}
	return out
}

// Nop is an Adapter that draws nothing.
type Nop struct{}

func (Nop) SetMarkerPosition(float64, float64) {}
func (Nop) DrawPath([]tracking.Sample)         {}
func (Nop) DrawPoints([]PointLabel)            {}

// Multi forwards every call to each adapter in order.
type Multi []Adapter

func (m Multi) SetMarkerPosition(lat, lng float64) {
	for _, a := range m {
		a.SetMarkerPosition(lat, lng)
	}
}

func (m Multi) DrawPath(path []tracking.Sample) {
	for _, a := range m {
		a.DrawPath(path)
	}
}

func (m Multi) DrawPoints(points []PointLabel) {
	for _, a := range m {
		a.DrawPoints(points)
	}
}
