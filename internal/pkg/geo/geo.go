package geo

import "math"

// EarthRadiusMeters is the mean Earth radius.
const EarthRadiusMeters = 6371000.0

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Geofence is a circle around an office in which attendance actions are allowed.
type Geofence struct {
	Center       Coordinates
	RadiusMeters float64
}

// Distance returns the great-circle distance between a and b in meters (haversine).
func Distance(a, b Coordinates) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// Contains reports whether p lies within the fence, along with its distance to the center.
// A NaN distance is never inside.
func (g Geofence) Contains(p Coordinates) (bool, float64) {
	d := Distance(g.Center, p)
	return d <= g.RadiusMeters, d
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
