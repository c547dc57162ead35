package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRiskRangeIsZeroOne(t *testing.T) {
	g := smallGrid(t)
	g.MaskAoI(0)
	center := g.Center(g.N() / 2)
	g.PoIs = []PoI{{Lat: center.Lat, Lon: center.Lon, Weight: 1}}
	g.ComputeRisk(g.PoIsInside(), 0)
	g.NormalizeRisk()

	for _, id := range g.ZonesInside {
		r := g.Risk(id)
		assert.GreaterOrEqual(t, r, 0.0)
		assert.LessOrEqual(t, r, 1.0)
	}
}

func TestNormalizeRiskFlatAmplitudeMapsToZero(t *testing.T) {
	g := smallGrid(t)
	g.MaskAoI(0)
	for _, id := range g.ZonesInside {
		g.SetRisk(id, 5)
	}
	g.NormalizeRisk()
	for _, id := range g.ZonesInside {
		assert.Equal(t, 0.0, g.Risk(id))
	}
}

func TestQuantizeRLInRangeAndZeroIsOne(t *testing.T) {
	g := smallGrid(t)
	g.MaskAoI(0)
	center := g.Center(g.N() / 2)
	g.PoIs = []PoI{{Lat: center.Lat, Lon: center.Lon, Weight: 1}}
	g.ComputeRisk(g.PoIsInside(), 0)
	g.NormalizeRisk()

	const M = 4
	g.QuantizeRL(M)
	for _, id := range g.ZonesInside {
		assert.GreaterOrEqual(t, g.RL[id], 1)
		assert.LessOrEqual(t, g.RL[id], M)
		if g.Risk(id) == 0 {
			assert.Equal(t, 1, g.RL[id])
		}
	}
}

func TestQuantizeRLIdempotent(t *testing.T) {
	g := smallGrid(t)
	g.MaskAoI(0)
	center := g.Center(g.N() / 2)
	g.PoIs = []PoI{{Lat: center.Lat, Lon: center.Lon, Weight: 1}}
	g.ComputeRisk(g.PoIsInside(), 0)
	g.NormalizeRisk()

	const M = 4
	g.QuantizeRL(M)
	first := append([]int(nil), g.RL...)
	g.QuantizeRL(M)
	assert.Equal(t, first, g.RL)
}
