package grid

import (
	"testing"

	"github.com/ctessum/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squarePolygon(left, bottom, right, top float64) geom.Polygon {
	return geom.Polygon{{
		{X: left, Y: bottom},
		{X: right, Y: bottom},
		{X: right, Y: top},
		{X: left, Y: top},
	}}
}

func TestMaskAoIAllInsideWithNoPolygon(t *testing.T) {
	g := smallGrid(t)
	g.MaskAoI(0)
	assert.Equal(t, g.N(), len(g.ZonesInside))
	for _, in := range g.Inside {
		assert.True(t, in)
	}
}

func TestMaskAoISortedAndDeduped(t *testing.T) {
	g := smallGrid(t)
	g.Polygons = []geom.Polygon{squarePolygon(-0.001, -0.001, 0.001, 0.001)}
	g.MaskAoI(0)

	require.NotEmpty(t, g.ZonesInside)
	seen := make(map[int]bool)
	prev := -1
	for _, id := range g.ZonesInside {
		assert.True(t, g.Inside[id])
		assert.Greater(t, id, prev)
		assert.False(t, seen[id])
		seen[id] = true
		prev = id
	}
}

func TestMaskAoIIsIdempotent(t *testing.T) {
	g := smallGrid(t)
	g.Polygons = []geom.Polygon{squarePolygon(-0.001, -0.001, 0.001, 0.001)}
	g.MaskAoI(0)
	first := append([]int(nil), g.ZonesInside...)
	g.MaskAoI(0)
	assert.Equal(t, first, g.ZonesInside)
}

func TestMaskAoIEmptyWhenPolygonOutsideBBox(t *testing.T) {
	g := smallGrid(t)
	g.Polygons = []geom.Polygon{squarePolygon(10, 10, 11, 11)}
	g.MaskAoI(0)
	assert.Empty(t, g.ZonesInside)
}
