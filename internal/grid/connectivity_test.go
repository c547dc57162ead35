package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeDPConnZeroWhenNoAccessPoints(t *testing.T) {
	g := smallGrid(t)
	g.MaskAoI(0)
	g.ComputeDPConn(nil, nil, ConnectivityWeights{}, 0)
	for _, id := range g.ZonesInside {
		assert.Equal(t, 0.0, g.DPConn(id))
	}
}

func TestComputeDPConnUniformCoverageGivesOne(t *testing.T) {
	g := smallGrid(t)
	g.MaskAoI(0)
	aps := []AccessPoint{{Lat: g.Bottom, Lon: g.Left, RangeMeters: 1e7, Type: "cell"}}
	params := map[string]ConnectivityParams{"cell": {S: 1, T: 1, R: 1, C: 0}}
	weights := ConnectivityWeights{WS: 1, WT: 1, WR: 1, WC: 1}
	g.ComputeDPConn(aps, params, weights, 0)

	for _, id := range g.ZonesInside {
		assert.InDelta(t, 1.0, g.DPConn(id), 1e-9)
	}
}
