package domain

import "math"

// Mean Earth radius in kilometers used for great-circle distances.
const earthRadiusKm = 6371.0

// Immutable geographic coordinates (latitude, longitude), WGS 84.
type Coordinates struct {
	Lat float64
	Lon float64
}

// DistanceKm returns the great-circle (haversine) distance between two points
// in kilometers, rounded to 2 decimal places.
//
// The result is symmetric, non-negative, and zero for identical points.
func DistanceKm(a, b Coordinates) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return math.Round(earthRadiusKm*c*100) / 100
}

// WithinRadiusKm reports whether p lies within radiusKm of center.
func WithinRadiusKm(center, p Coordinates, radiusKm float64) bool {
	return DistanceKm(center, p) <= radiusKm
}
