package grid

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// HasElevationRisk reports whether any AoI-inside cell carries an
// elevation-derived risk multiplier, i.e. whether ComputeElevationRisk
// ran for this grid.
func (g *Grid) HasElevationRisk() bool {
	return g.hasElevation
}

// NormalizeRisk min-max normalizes g.Risk across the AoI-inside cells to
// [0,1] in place. An amplitude of 0 (every inside cell has identical
// risk) is treated as 1, to avoid a degenerate division. Re-running this
// on an already-normalized column is idempotent only in the trivial
// sense that min=0,max=1 afterward will map the column to itself.
func (g *Grid) NormalizeRisk() {
	zones := g.ZonesInside
	if len(zones) == 0 {
		return
	}
	values := make([]float64, len(zones))
	for i, id := range zones {
		values[i] = g.Risk(id)
	}
	min, max := floats.Min(values), floats.Max(values)
	amplitude := max - min
	if amplitude == 0 {
		amplitude = 1
	}
	for i, id := range zones {
		g.SetRisk(id, (values[i]-min)/amplitude)
	}
}

// QuantizeRL assigns RL in 1..M to every AoI-inside cell from the
// (already normalized) risk column, fused multiplicatively with the
// elevation risk multiplier when present:
//
//	RL = M - min(|floor(log10(risk_combined))|, M-1), risk_combined == 0 => RL = 1.
//
// This is implemented literally as specified -- see SPEC_FULL.md open
// question decision 2. Only risk_combined == 1 exactly reaches RL = M;
// every value in [0.1, 1) floors to magnitude 1 and gets RL = M-1.
// Re-running this on an unchanged risk column yields identical RLs.
func (g *Grid) QuantizeRL(M int) {
	for _, id := range g.ZonesInside {
		combined := g.Risk(id)
		if g.hasElevation {
			combined *= g.RiskElevation(id)
		}
		if combined == 0 {
			g.RL[id] = 1
			continue
		}
		mag := int(math.Abs(math.Floor(math.Log10(combined))))
		capped := mag
		if capped > M-1 {
			capped = M - 1
		}
		g.RL[id] = M - capped
	}
}
