package tracking

import "time"

// Sample is a single recorded position of an agent.
type Sample struct {
	Lat  float64   `json:"lat"`
	Lng  float64   `json:"lng"`
	Time time.Time `json:"time"`
}

// Coordinate is a bare lat/lng pair, used for interpolated positions.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Coordinate drops the timestamp.
func (s Sample) Coordinate() Coordinate {
	return Coordinate{Lat: s.Lat, Lng: s.Lng}
}

// LatLng returns the sample's position.
func (s Sample) LatLng() (float64, float64) { return s.Lat, s.Lng }

// LatLng returns the coordinate's position.
func (c Coordinate) LatLng() (float64, float64) { return c.Lat, c.Lng }
