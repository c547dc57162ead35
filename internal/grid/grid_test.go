package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallGrid(t *testing.T) *Grid {
	t.Helper()
	g, err := New(-0.0015, -0.0015, 0.0015, 0.0015, 100)
	require.NoError(t, err)
	return g
}

func TestGridCellCount(t *testing.T) {
	g := smallGrid(t)
	assert.Equal(t, g.NX*g.NY, g.N())
	assert.Equal(t, g.N(), len(g.Inside))
}

func TestGridIDRoundTrip(t *testing.T) {
	g := smallGrid(t)
	for y := 0; y < g.NY; y++ {
		for x := 0; x < g.NX; x++ {
			id := g.ID(x, y)
			gotX, gotY := g.XY(id)
			assert.Equal(t, x, gotX)
			assert.Equal(t, y, gotY)
		}
	}
}

func TestGridCenterWithinBounds(t *testing.T) {
	g := smallGrid(t)
	for id := 0; id < g.N(); id++ {
		c := g.Center(id)
		assert.GreaterOrEqual(t, c.Lat, g.Bottom)
		assert.LessOrEqual(t, c.Lat, g.Top)
		assert.GreaterOrEqual(t, c.Lon, g.Left)
		assert.LessOrEqual(t, c.Lon, g.Right)
	}
}

func TestGridRejectsDegenerateBBox(t *testing.T) {
	_, err := New(1, 1, 0, 2, 10)
	assert.Error(t, err)
	_, err = New(0, 0, 1, 1, 0)
	assert.Error(t, err)
}

func TestPlaceAndClearEDU(t *testing.T) {
	g := smallGrid(t)
	id := 0
	g.PlaceEDU(id, 2, EDUTight)
	assert.True(t, g.HasEDU[id])
	assert.Equal(t, EDUTight, g.EDUType[id])
	assert.Contains(t, g.EDUs[2], id)

	g.ClearEDU(id, 2)
	assert.False(t, g.HasEDU[id])
	assert.NotContains(t, g.EDUs[2], id)
}
