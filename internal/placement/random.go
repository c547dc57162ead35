package placement

import (
	"math/rand"

	"github.com/riskgrid/riskgrid/internal/grid"
)

// Random selects, for each RL, NEDU distinct AoI-inside cells of that RL
// uniformly at random and marks them, subject to the same
// single-EDU-per-cell invariant as the other policies. It is seeded by a
// configuration value rather than wall-clock time so runs are
// reproducible.
func Random(g *grid.Grid, p *Prep, seed int64) {
	ResetEDUs(g)
	rng := rand.New(rand.NewSource(seed))

	zonesByRL := make(map[int][]int, p.M)
	for _, id := range g.ZonesInside {
		rl := g.RL[id]
		zonesByRL[rl] = append(zonesByRL[rl], id)
	}

	for i := 1; i <= p.M; i++ {
		candidates := append([]int(nil), zonesByRL[i]...)
		rng.Shuffle(len(candidates), func(a, b int) {
			candidates[a], candidates[b] = candidates[b], candidates[a]
		})

		n := p.ByRL[i].NEDU
		if n > len(candidates) {
			n = len(candidates)
		}
		for _, id := range candidates[:n] {
			if g.HasEDU[id] {
				continue
			}
			g.PlaceEDU(id, i, grid.EDUNone)
		}
	}
}
