// Package placement implements the EDU positioning policies: Unbalanced,
// Balanced, Restricted, Restricted+, and Random. Each policy consumes a
// shared per-RL preparation (target count, coverage radius, minimum
// inter-EDU distance) derived from the grid's risk-level distribution.
package placement

import (
	"math"

	"github.com/riskgrid/riskgrid/internal/geo"
	"github.com/riskgrid/riskgrid/internal/grid"
)

// RLPrep holds the per-risk-level quantities derived before any
// placement policy runs.
type RLPrep struct {
	// Area is At_i: the count of candidate cells at this RL (all
	// AoI-inside cells, or only road cells with sufficient
	// connectivity when UseRoads is set).
	Area int
	// NEDU is the number of EDUs targeted for this RL, coerced to at
	// least 1 whenever Area > 0.
	NEDU int
	// Ax is the approximate area (in cells) a single EDU at this RL
	// should cover.
	Ax float64
	// Radius is the coverage radius in grid cells, r_i = max(sqrt(Ax)/2, 1).
	Radius float64
	// Step is the scan stride used by the Unbalanced policy.
	Step int
	// MinDist is the minimum grid-space distance required between two
	// EDUs at this RL, d_i = 2*Radius + 1.
	MinDist float64
}

// Prep is the shared preparation for a placement run across every RL
// from 1 to M.
type Prep struct {
	M              int
	ByRL           map[int]*RLPrep
	SmallestRadius float64 // radius[M], the tightest RL's radius
	HighestRadius  float64 // radius[1], the loosest RL's radius
	// SearchRange is the number of most-recently-placed EDUs per RL
	// considered by the minimum-distance check, expressed as a
	// positive tail-window size rather than a negative slice bound.
	SearchRange int
}

func countZonesByRL(g *grid.Grid, M int) map[int]int {
	counts := make(map[int]int, M)
	for i := 1; i <= M; i++ {
		counts[i] = 0
	}
	for _, id := range g.ZonesInside {
		counts[g.RL[id]]++
	}
	return counts
}

func countRoadsByRL(g *grid.Grid, M int, connThreshold float64) map[int]int {
	counts := make(map[int]int, M)
	for i := 1; i <= M; i++ {
		counts[i] = 0
	}
	for _, id := range g.ZonesInside {
		if g.IsRoad[id] && g.DPConn(id) > connThreshold {
			counts[g.RL[id]]++
		}
	}
	return counts
}

// eduTargetsByRL distributes nEDUs across RLs proportionally to i*n_i,
// the risk-weighted cell count.
func eduTargetsByRL(M, nEDUs int, area map[int]int) map[int]int {
	var sum int
	for i := 1; i <= M; i++ {
		sum += i * area[i]
	}
	targets := make(map[int]int, M)
	if sum == 0 {
		return targets
	}
	for i := 1; i <= M; i++ {
		targets[i] = (nEDUs * i * area[i]) / sum
	}
	return targets
}

// Prepare computes the shared per-RL quantities used by every placement
// policy. When useRoads is true, candidate cells are restricted to road
// cells whose dpconn exceeds connThreshold.
func Prepare(g *grid.Grid, M, nEDUs int, useRoads bool, connThreshold float64) *Prep {
	var area map[int]int
	if useRoads {
		area = countRoadsByRL(g, M, connThreshold)
	} else {
		area = countZonesByRL(g, M)
	}
	targets := eduTargetsByRL(M, nEDUs, area)

	p := &Prep{M: M, ByRL: make(map[int]*RLPrep, M)}
	for i := 1; i <= M; i++ {
		n := targets[i]
		if n == 0 && area[i] > 0 {
			n = 1
		}
		var ax float64
		if n > 0 {
			ax = math.Round(float64(area[i]) / float64(n))
		}
		radius := math.Max(math.Sqrt(ax)/2, 1)
		p.ByRL[i] = &RLPrep{
			Area:    area[i],
			NEDU:    n,
			Ax:      ax,
			Radius:  radius,
			Step:    int(2*radius + 1),
			MinDist: 2*radius + 1,
		}
	}

	p.SmallestRadius = p.ByRL[M].Radius
	p.HighestRadius = p.ByRL[1].Radius
	if p.SmallestRadius == 0 {
		p.SmallestRadius = 1
	}
	if p.HighestRadius == 0 {
		p.HighestRadius = 1
	}
	p.SearchRange = int(math.Ceil(2 * float64(g.NX) / p.SmallestRadius))
	return p
}

// TotalTarget is the sum of every RL's NEDU.
func (p *Prep) TotalTarget() int {
	var total int
	for i := 1; i <= p.M; i++ {
		total += p.ByRL[i].NEDU
	}
	return total
}

// withinMinDist reports whether candidate id is too close to any of the
// tail-windowed recently-placed EDUs across every RL.
func withinMinDist(g *grid.Grid, p *Prep, id int) bool {
	cx, cy := g.XY(id)
	rl := g.RL[id]
	for i := 1; i <= p.M; i++ {
		list := g.EDUs[i]
		start := len(list) - p.SearchRange
		if start < 0 {
			start = 0
		}
		for j := len(list) - 1; j >= start; j-- {
			ox, oy := g.XY(list[j])
			d := geo.GridDistance(geo.GridPoint{X: cx, Y: cy}, geo.GridPoint{X: ox, Y: oy})
			if d <= p.ByRL[rl].MinDist {
				return true
			}
		}
	}
	return false
}

// ResetEDUs clears every placement on g, leaving it ready for a fresh
// positioning run.
func ResetEDUs(g *grid.Grid) {
	for id := range g.HasEDU {
		g.HasEDU[id] = false
		g.EDUType[id] = grid.EDUNone
	}
	g.EDUs = make(map[int][]int)
}
