package placement

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskgrid/riskgrid/internal/grid"
)

func testGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.New(0, 0, 0.01, 0.01, 110)
	require.NoError(t, err)
	g.MaskAoI(0)
	for _, id := range g.ZonesInside {
		g.RL[id] = 1
	}
	return g
}

func countPlaced(g *grid.Grid) int {
	n := 0
	for _, v := range g.HasEDU {
		if v {
			n++
		}
	}
	return n
}

func assertNoDuplicateCells(t *testing.T, g *grid.Grid) {
	t.Helper()
	seen := make(map[int]bool)
	for _, ids := range g.EDUs {
		for _, id := range ids {
			assert.False(t, seen[id], "cell %d placed more than once", id)
			seen[id] = true
		}
	}
}

func TestUnbalancedPlacesWithoutError(t *testing.T) {
	g := testGrid(t)
	p := Prepare(g, 1, 10, false, 0)
	Unbalanced(g, p)
	assert.Greater(t, countPlaced(g), 0)
}

func TestBalancedRespectsMinimumDistance(t *testing.T) {
	g := testGrid(t)
	p := Prepare(g, 1, 10, false, 0)
	Balanced(g, p)
	assertNoDuplicateCells(t, g)

	ids := g.EDUs[1]
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			xi, yi := g.XY(ids[i])
			xj, yj := g.XY(ids[j])
			dx, dy := float64(xi-xj), float64(yi-yj)
			dist := math.Sqrt(dx*dx + dy*dy)
			// withinMinDist only checks a bounded tail window of each
			// RL's placement list, so distant pairs outside that window
			// are not guaranteed to respect MinDist; only assert it for
			// pairs close enough in placement order to have been checked.
			if j-i <= p.SearchRange {
				assert.GreaterOrEqual(t, dist, p.ByRL[1].MinDist)
			}
		}
	}
}

func TestRestrictedOnlyPlacesOnRoads(t *testing.T) {
	g := testGrid(t)
	for x := 0; x < g.NX; x++ {
		g.IsRoad[g.ID(x, g.NY/2)] = true
	}

	Restricted(g, 1, 5, false, 0)
	assertNoDuplicateCells(t, g)
	for _, id := range g.EDUs[1] {
		assert.True(t, g.IsRoad[id])
	}
}

func TestRestrictedDropsWhenNoRoadsExist(t *testing.T) {
	g := testGrid(t)
	Restricted(g, 1, 5, false, 0)
	assert.Equal(t, 0, countPlaced(g))
}

func TestRestrictedPlusPlacesTightBeforeLoose(t *testing.T) {
	g := testGrid(t)
	for x := 0; x < g.NX; x++ {
		for y := 0; y < g.NY; y++ {
			g.IsRoad[g.ID(x, y)] = true
			g.SetDPConn(g.ID(x, y), 1)
		}
	}

	RestrictedPlus(g, 1, 3, 3, 0.5)
	assertNoDuplicateCells(t, g)

	tight, loose := 0, 0
	for _, id := range g.EDUs[1] {
		switch g.EDUType[id] {
		case grid.EDUTight:
			tight++
		case grid.EDULoose:
			loose++
		}
	}
	assert.Greater(t, tight, 0)
	assert.Greater(t, loose, 0)
}

func TestRandomSelectsDistinctCellsOfCorrectRL(t *testing.T) {
	g := testGrid(t)
	p := Prepare(g, 1, 10, false, 0)
	Random(g, p, 42)

	assertNoDuplicateCells(t, g)
	for _, id := range g.EDUs[1] {
		assert.Equal(t, 1, g.RL[id])
	}
	assert.LessOrEqual(t, len(g.EDUs[1]), p.ByRL[1].NEDU)
}

func TestRandomIsDeterministicForSameSeed(t *testing.T) {
	g1 := testGrid(t)
	p1 := Prepare(g1, 1, 10, false, 0)
	Random(g1, p1, 7)

	g2 := testGrid(t)
	p2 := Prepare(g2, 1, 10, false, 0)
	Random(g2, p2, 7)

	assert.Equal(t, g1.EDUs[1], g2.EDUs[1])
}

func TestPreparePerRLTargetsAreAtLeastOneWhenAreaPositive(t *testing.T) {
	g := testGrid(t)
	p := Prepare(g, 1, 10, false, 0)
	require.Greater(t, p.ByRL[1].Area, 0)
	assert.GreaterOrEqual(t, p.ByRL[1].NEDU, 1)
}
