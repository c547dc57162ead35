package grid

import (
	"math"

	"github.com/riskgrid/riskgrid/internal/geo"
	"github.com/riskgrid/riskgrid/internal/parallel"
)

// slopeSpiralRadius bounds the neighbor search for slope: candidates are
// drawn from the Chebyshev-radius-1 ring (the 8 immediate neighbors),
// filtered further to grid-space distance <= 3 as specified.
const slopeSpiralRadius = 1
const slopeMaxGridDistance = 3

// SetElevations loads raw elevation samples (meters) for every
// AoI-inside cell, keyed by cell id.
func (g *Grid) SetElevations(elevations map[int]float64) {
	for id, h := range elevations {
		g.SetElevation(id, h)
	}
}

// ComputeElevationRisk normalizes elevation across the AoI-inside cells
// and derives slope and the elevation risk multiplier H = 1 /
// (e^elev_norm * e^slope). Slope is the maximum absolute elevation
// gradient to neighbors within the radius-1 spiral whose grid-space
// distance is <= 3 (the full 8-neighbor ring always qualifies; the
// distance filter exists for parity with larger spiral radii reused
// elsewhere).
func (g *Grid) ComputeElevationRisk(workers int) {
	zones := g.ZonesInside
	if len(zones) == 0 {
		return
	}
	g.hasElevation = true

	hmin, hmax := g.Elevation(zones[0]), g.Elevation(zones[0])
	for _, id := range zones {
		h := g.Elevation(id)
		if h > hmax {
			hmax = h
		}
		if h < hmin {
			hmin = h
		}
	}
	m := (hmax-hmin)/2 + hmin
	mTop := math.Max(hmax-m, 0.1)

	offsets := geo.SpiralOffsets(slopeSpiralRadius)

	parallel.Do(workers, len(zones), func(i int) {
		id := zones[i]
		x, y := g.XY(id)
		h := g.Elevation(id)

		var maxGrad float64
		for _, o := range offsets {
			nx, ny := x+o.X, y+o.Y
			if !g.InBounds(nx, ny) {
				continue
			}
			if geo.GridDistance(geo.GridPoint{X: x, Y: y}, geo.GridPoint{X: nx, Y: ny}) > slopeMaxGridDistance {
				continue
			}
			nid := g.ID(nx, ny)
			grad := math.Abs(g.Elevation(nid)-h) / g.ZoneSizeMeters
			if grad > maxGrad {
				maxGrad = grad
			}
		}
		g.SetSlope(id, maxGrad)

		elevNorm := (h - m) / mTop
		risk := 1 / (math.Exp(elevNorm) * math.Exp(maxGrad))
		g.SetRiskElevation(id, risk)
	})
}
