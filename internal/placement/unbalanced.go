package placement

import "github.com/riskgrid/riskgrid/internal/grid"

// Unbalanced scans the grid row-major, maintaining independent x/y step
// counters per RL, and places an EDU whenever both counters are
// multiples of that RL's step. It is deterministic and fast but accepts
// overlapping placement across RLs, and does not distinguish loose from
// tight EDUs.
func Unbalanced(g *grid.Grid, p *Prep) {
	ResetEDUs(g)

	stepX := make(map[int]int, p.M)
	stepY := make(map[int]int, p.M)
	zoneInY := make(map[int]bool, p.M)

	for y := 0; y < g.NY; y++ {
		for i := 1; i <= p.M; i++ {
			stepX[i] = 0
			if zoneInY[i] {
				stepY[i]++
				zoneInY[i] = false
			}
		}

		for x := 0; x < g.NX; x++ {
			id := g.ID(x, y)
			if !g.Inside[id] {
				continue
			}
			rl := g.RL[id]
			if rl < 1 || rl > p.M {
				continue
			}
			zoneInY[rl] = true

			step := p.ByRL[rl].Step
			if step < 1 {
				step = 1
			}
			if stepX[rl]%step == 0 && stepY[rl]%step == 0 {
				g.PlaceEDU(id, rl, grid.EDUNone)
			}
			stepX[rl]++
		}
	}
}
