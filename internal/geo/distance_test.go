package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineSelfIsZero(t *testing.T) {
	p := Point{Lat: 37.7749, Lon: -122.4194}
	assert.Equal(t, 0.0, Haversine(p, p))
}

func TestHaversineSymmetric(t *testing.T) {
	a := Point{Lat: 10, Lon: 10}
	b := Point{Lat: -5, Lon: 20}
	assert.InDelta(t, Haversine(a, b), Haversine(b, a), 1e-9)
}

func TestHaversineNonNegative(t *testing.T) {
	a := Point{Lat: 0, Lon: 0}
	b := Point{Lat: 1, Lon: 1}
	assert.GreaterOrEqual(t, Haversine(a, b), 0.0)
}

func TestGridDistance(t *testing.T) {
	assert.Equal(t, 5.0, GridDistance(GridPoint{X: 0, Y: 0}, GridPoint{X: 3, Y: 4}))
	assert.Equal(t, 0.0, GridDistance(GridPoint{X: 2, Y: 2}, GridPoint{X: 2, Y: 2}))
}
