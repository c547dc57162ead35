package grid

import (
	"math"

	"github.com/riskgrid/riskgrid/internal/geo"
	"github.com/riskgrid/riskgrid/internal/parallel"
)

// ComputeRisk fuses inverse-square-distance PoI influence into g.Risk
// for every AoI-inside cell: good PoIs (weight >= 0) contribute
// weight/d^2, bad PoIs (weight < 0) contribute d^2/weight, and
// risk(z) = 1/sum. Cells with no contributing PoIs (sum == 0) get the
// largest finite float64 rather than +Inf, so normalization stays
// well-defined. Computed in parallel over AoI-inside cells; pois should
// already be filtered to the AoI (see PoIsInside).
func (g *Grid) ComputeRisk(pois []PoI, workers int) {
	zones := g.ZonesInside
	parallel.Do(workers, len(zones), func(i int) {
		id := zones[i]
		center := g.Center(id)
		var sum float64
		for _, p := range pois {
			d := geo.Haversine(center, p.point())
			if d == 0 {
				d = 1e-9 // coincident PoI: avoid divide-by-zero, treat as extremely close
			}
			d2 := d * d
			if p.Bad() {
				sum += d2 / p.Weight
			} else {
				sum += p.Weight / d2
			}
		}
		if sum == 0 {
			g.SetRisk(id, math.MaxFloat64)
			return
		}
		g.SetRisk(id, 1/sum)
	})
}
