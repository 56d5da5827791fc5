package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance_SymmetricAndZero(t *testing.T) {
	points := []Coordinate{
		{Latitude: 17.0, Longitude: 78.0},
		{Latitude: 17.001, Longitude: 78.0},
		{Latitude: -33.8688, Longitude: 151.2093},
		{Latitude: 51.5074, Longitude: -0.1278},
		{Latitude: 0, Longitude: 179.9},
		{Latitude: 0, Longitude: -179.9},
	}

	for _, a := range points {
		assert.Equal(t, 0.0, Distance(a, a))
		for _, b := range points {
			assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-6)
		}
	}
}

func TestDistance_KnownValues(t *testing.T) {
	// 0.001 degree of latitude is about 111.19 m on a 6371 km sphere.
	d := Distance(Coordinate{Latitude: 17.001, Longitude: 78.0}, Coordinate{Latitude: 17.0, Longitude: 78.0})
	assert.InDelta(t, 111.19, d, 0.05)
	assert.Equal(t, 111, int(math.Round(d)))

	// Across the antimeridian the short way round is used.
	d = Distance(Coordinate{Latitude: 0, Longitude: 179.9}, Coordinate{Latitude: 0, Longitude: -179.9})
	assert.InDelta(t, 22239, d, 1)
}

func TestWithinFence_BoundaryInclusive(t *testing.T) {
	cases := []struct {
		distance float64
		radius   float64
		want     bool
	}{
		{0, 100, true},
		{99.999, 100, true},
		{100, 100, true},
		{100.0001, 100, false},
		{111.19, 100, false},
		{0, 0, true},
	}
	for _, c := range cases {
		if got := WithinFence(c.distance, c.radius); got != c.want {
			t.Errorf("WithinFence(%v, %v) = %v, want %v", c.distance, c.radius, got, c.want)
		}
	}
}

func TestCoordinateValidate(t *testing.T) {
	require.NoError(t, Coordinate{Latitude: 90, Longitude: -180}.Validate())
	require.NoError(t, Coordinate{Latitude: -90, Longitude: 180}.Validate())

	invalid := []Coordinate{
		{Latitude: 90.0001, Longitude: 0},
		{Latitude: 0, Longitude: -180.5},
		{Latitude: math.NaN(), Longitude: 0},
		{Latitude: 0, Longitude: math.Inf(1)},
	}
	for _, c := range invalid {
		assert.Error(t, c.Validate(), "%+v should be rejected", c)
	}
}
