package utils

import (
	"fmt"
	"math"
)

const earthRadiusKM = 6371.0

// HaversineKM returns the great-circle distance between two points in kilometers.
func HaversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	la1 := lat1 * math.Pi / 180
	la2 := lat2 * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(la1)*math.Cos(la2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKM * c
}

// BearingDegrees returns the initial bearing from the first point to the second,
// clockwise from north in [0, 360).
func BearingDegrees(lat1, lon1, lat2, lon2 float64) float64 {
	la1 := lat1 * math.Pi / 180
	la2 := lat2 * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	y := math.Sin(dLon) * math.Cos(la2)
	x := math.Cos(la1)*math.Sin(la2) - math.Sin(la1)*math.Cos(la2)*math.Cos(dLon)
	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

// LatLng is anything with a latitude and longitude.
type LatLng interface {
	LatLng() (lat, lng float64)
}

// PathLengthKM sums the haversine length of consecutive points.
func PathLengthKM[T LatLng](points []T) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		lat1, lng1 := points[i-1].LatLng()
		lat2, lng2 := points[i].LatLng()
		total += HaversineKM(lat1, lng1, lat2, lng2)
	}
	return total
}

// PresentableDistance formats a distance for display: meters below one
// kilometer, kilometers with one decimal above.
func PresentableDistance(km float64) string {
	if km < 1 {
		m := int(math.Round(km * 1000))
		return fmt.Sprintf("%d m", m)
	}
	return fmt.Sprintf("%.1f km", km)
}
