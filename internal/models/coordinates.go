package models

import "math"

// Coordinates represents a geographical point defined by its latitude and longitude.
// The JSON form matches the persisted cache payload.
type Coordinates struct {
	Latitude  float64 `json:"lat"` // Latitude of the geographical point.
	Longitude float64 `json:"lng"` // Longitude of the geographical point.
}

// Valid reports whether both values are finite and inside the WGS84 range.
// NaN and infinities cannot be encoded as JSON.
func (c Coordinates) Valid() bool {
	for _, v := range []float64{c.Latitude, c.Longitude} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}
