package placement

import "github.com/riskgrid/riskgrid/internal/grid"

// Balanced scans with stride SmallestRadius in both axes, accepting a
// candidate cell only if it lies inside the AoI and is not within
// its own RL's MinDist of any recently-placed EDU of any RL (checked
// against a positive tail window of each RL's placement list, per Prep's
// SearchRange). Accepted cells advance x by 2*SmallestRadius; rejected
// cells advance by 1.
func Balanced(g *grid.Grid, p *Prep) {
	ResetEDUs(g)
	balancedPass(g, p)
}

// balancedPass runs a single balanced scan without resetting prior
// placements, so it can be reused by the Restricted policy across
// repeated runs.
func balancedPass(g *grid.Grid, p *Prep) {
	stride := int(p.SmallestRadius * 2)
	if stride < 1 {
		stride = 1
	}

	y := int(p.SmallestRadius)
	for y < g.NY {
		x := 0
		for x < g.NX {
			for x < g.NX && !g.Inside[g.ID(x, y)] {
				x++
			}
			if x >= g.NX {
				break
			}

			id := g.ID(x, y)
			rl := g.RL[id]
			if rl < 1 || rl > p.M || withinMinDist(g, p, id) {
				x++
				continue
			}

			g.PlaceEDU(id, rl, grid.EDUNone)
			x += stride
		}
		y++
	}
}
