package utils

import "math"

const earthRadiusMeters = 6371000

// CalculateHaversineDistance returns the great-circle distance between two
// coordinates in meters.
func CalculateHaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// WithinRadius reports whether a point lies inside a circular geofence.
// A non-positive radius never matches.
func WithinRadius(lat, lng, centerLat, centerLng float64, radiusMeters int) bool {
	if radiusMeters <= 0 {
		return false
	}
	return CalculateHaversineDistance(lat, lng, centerLat, centerLng) <= float64(radiusMeters)
}

// FormatCoordinates renders a coordinate pair the way attendance rows store
// it, or "N/A" when either side is missing.
func FormatCoordinates(lat, lng *float64) string {
	if lat == nil || lng == nil {
		return "N/A"
	}
	return formatFloat(*lat) + "," + formatFloat(*lng)
}
