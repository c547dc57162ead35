package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario 1 (SPEC_FULL.md §8): a single good PoI at the grid center
// gives that cell the lowest risk.
func TestComputeRiskGoodPoIFavorsCenter(t *testing.T) {
	g := smallGrid(t)
	g.MaskAoI(0)
	center := g.Center(g.N() / 2)
	g.PoIs = []PoI{{Lat: center.Lat, Lon: center.Lon, Weight: 1}}
	g.ComputeRisk(g.PoIsInside(), 0)

	minID, minRisk := -1, 0.0
	for i, id := range g.ZonesInside {
		r := g.Risk(id)
		if i == 0 || r < minRisk {
			minRisk, minID = r, id
		}
	}
	require.NotEqual(t, -1, minID)
	cx, cy := g.XY(minID)
	gx, gy := g.XY(g.N() / 2)
	assert.InDelta(t, gx, cx, 1)
	assert.InDelta(t, gy, cy, 1)
}

// A single bad PoI produces risk(d) = weight/d^2, which is most negative
// (the column minimum) right at the hazard and closest to zero (the
// column maximum) far from it -- see DESIGN.md's discrepancy note. After
// min-max normalization the hazard cell is the one that lands on exactly
// 0, not 1.
func TestComputeRiskBadPoIMinimumAtHazard(t *testing.T) {
	g := smallGrid(t)
	g.MaskAoI(0)
	center := g.Center(g.N() / 2)
	g.PoIs = []PoI{{Lat: center.Lat, Lon: center.Lon, Weight: -1}}
	g.ComputeRisk(g.PoIsInside(), 0)

	hazardID := g.N() / 2
	for _, id := range g.ZonesInside {
		if id == hazardID {
			continue
		}
		assert.Less(t, g.Risk(hazardID), g.Risk(id))
	}
}

func TestComputeRiskNoPoIsGivesMaxFinite(t *testing.T) {
	g := smallGrid(t)
	g.MaskAoI(0)
	g.ComputeRisk(nil, 0)
	for _, id := range g.ZonesInside {
		assert.Equal(t, math.MaxFloat64, g.Risk(id))
	}
}
