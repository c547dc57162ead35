package placement

import "github.com/riskgrid/riskgrid/internal/grid"

// RestrictedPlus places tight EDUs first at connectivity threshold
// theta, then loose EDUs at threshold 0. Each pass is a deterministic
// single scan with stride SmallestRadius over road cells with
// sufficient connectivity, reusing Balanced's minimum-distance
// acceptance test, and repeats with a growing target count until a full
// pass places nothing or the requested count is reached.
func RestrictedPlus(g *grid.Grid, M int, nTight, nLoose int, theta float64) {
	ResetEDUs(g)
	restrictedPlusPass(g, M, nTight, theta, grid.EDUTight)
	restrictedPlusPass(g, M, nLoose, 0, grid.EDULoose)
}

func restrictedPlusPass(g *grid.Grid, M, nEDUs int, connThreshold float64, eduType grid.EDUType) {
	if nEDUs <= 0 {
		return
	}

	placed := 0
	run := 1
	for placed < nEDUs {
		p := Prepare(g, M, nEDUs*run, true, connThreshold)
		run++

		placedThisPass := restrictedPlusSinglePass(g, p, nEDUs-placed, connThreshold, eduType)
		placed += placedThisPass
		if placedThisPass == 0 {
			break
		}
	}
}

func restrictedPlusSinglePass(g *grid.Grid, p *Prep, remaining int, connThreshold float64, eduType grid.EDUType) int {
	stride := int(p.SmallestRadius * 2)
	if stride < 1 {
		stride = 1
	}

	placed := 0
	y := int(p.SmallestRadius)
	for y < g.NY && remaining > 0 {
		x := 0
		for x < g.NX && remaining > 0 {
			for x < g.NX {
				id := g.ID(x, y)
				if g.Inside[id] && g.IsRoad[id] && g.DPConn(id) > connThreshold && !g.HasEDU[id] {
					break
				}
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

			g.PlaceEDU(id, rl, eduType)
			placed++
			remaining--
			x += stride
		}
		y++
	}
	return placed
}
