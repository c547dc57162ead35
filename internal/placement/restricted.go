package placement

import (
	"github.com/riskgrid/riskgrid/internal/geo"
	"github.com/riskgrid/riskgrid/internal/grid"
)

// Restricted repeats a Balanced pass against the remaining EDU count,
// relocating every non-road placement to the nearest road cell within a
// spiral search of its own RL's radius, and dropping any placement for
// which no such cell exists. It restarts with whatever count is still
// unplaced until nothing more can be positioned.
func Restricted(g *grid.Grid, M, total int, useRoads bool, connThreshold float64) {
	ResetEDUs(g)
	final := make(map[int][]int, M)

	placedTotal := 0
	remaining := total
	for remaining > 0 {
		ResetEDUs(g)
		p := Prepare(g, M, remaining, useRoads, connThreshold)
		balancedPass(g, p)

		for i := 1; i <= M; i++ {
			kept := g.EDUs[i][:0:0]
			for _, id := range g.EDUs[i] {
				if g.IsRoad[id] {
					kept = append(kept, id)
					continue
				}
				g.ClearEDU(id, i)

				if relocated, ok := relocateToRoad(g, id, i, p.ByRL[i].Radius, final[i]); ok {
					g.PlaceEDU(relocated, i, grid.EDUNone)
					kept = append(kept, relocated)
				}
			}
			g.EDUs[i] = kept
		}

		placedThisRun := 0
		for i := 1; i <= M; i++ {
			final[i] = append(final[i], g.EDUs[i]...)
			placedThisRun += len(g.EDUs[i])
		}
		if placedThisRun == 0 {
			break
		}

		placedTotal += placedThisRun
		remaining = total - placedTotal
	}

	ResetEDUs(g)
	for i := 1; i <= M; i++ {
		for _, id := range final[i] {
			g.PlaceEDU(id, i, grid.EDUNone)
		}
	}
}

// relocateToRoad searches a spiral path of the given radius around id
// for an AoI-inside, unplaced road cell not already recorded in
// alreadyFinal, and returns the first match.
func relocateToRoad(g *grid.Grid, id, rl int, radius float64, alreadyFinal []int) (int, bool) {
	x, y := g.XY(id)
	offsets := geo.SpiralOffsets(int(radius))

	inFinal := make(map[int]bool, len(alreadyFinal))
	for _, f := range alreadyFinal {
		inFinal[f] = true
	}

	for _, o := range offsets {
		nx, ny := x+o.X, y+o.Y
		if !g.InBounds(nx, ny) {
			continue
		}
		if geo.GridDistance(geo.GridPoint{X: x, Y: y}, geo.GridPoint{X: nx, Y: ny}) > radius+1 {
			continue
		}
		nid := g.ID(nx, ny)
		if !g.Inside[nid] || !g.IsRoad[nid] || g.HasEDU[nid] || inFinal[nid] {
			continue
		}
		return nid, true
	}
	return 0, false
}
