package utils

import (
	"math"

	"github.com/pragyatmika/hrms-backend-go/internal/pkg/validator"
)

// EarthRadiusMeters is the mean radius used by the spherical-earth model.
const EarthRadiusMeters = 6371000

// Coordinate is a WGS84 latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate rejects NaN, infinities and out-of-range values.
func (c Coordinate) Validate() error {
	var errs validator.ValidationErrors

	if math.IsNaN(c.Latitude) || math.IsInf(c.Latitude, 0) || c.Latitude < -90 || c.Latitude > 90 {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if math.IsNaN(c.Longitude) || math.IsInf(c.Longitude, 0) || c.Longitude < -180 || c.Longitude > 180 {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CalculateHaversineDistance returns the great-circle distance in meters.
func CalculateHaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// Distance is the haversine distance between a claimed and a reference coordinate.
func Distance(claimed, reference Coordinate) float64 {
	return CalculateHaversineDistance(claimed.Latitude, claimed.Longitude, reference.Latitude, reference.Longitude)
}

// WithinFence reports whether distance lies inside the fence. The boundary is inclusive.
func WithinFence(distance, radius float64) bool {
	return distance <= radius
}
