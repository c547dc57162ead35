package grid

// ComputeUrbanProbability derives urban_prob for every cell from road
// proximity via four axis-aligned sweeps (left-right, right-left,
// bottom-top, top-bottom). Within each sweep, probability resets to 0 at
// the start of every row (horizontal sweeps) or column (vertical
// sweeps); hitting a road cell sets it to 1, and every subsequent cell
// subtracts reducingFactor = ZoneSizeMeters/200, floored at 0. The final
// value per cell is the maximum across all four sweeps. This stage is
// not listed among the parallelized stages in the concurrency model and
// runs sequentially.
func (g *Grid) ComputeUrbanProbability() {
	reducingFactor := g.ZoneSizeMeters / 200
	n := g.N()
	best := make([]float64, n)

	apply := func(id int, prob float64) {
		if prob > best[id] {
			best[id] = prob
		}
	}

	decay := func(prob float64, isRoad bool) float64 {
		if isRoad {
			return 1
		}
		prob -= reducingFactor
		if prob < 0 {
			prob = 0
		}
		return prob
	}

	// left -> right, right -> left
	for y := 0; y < g.NY; y++ {
		prob := 0.0
		for x := 0; x < g.NX; x++ {
			id := g.ID(x, y)
			prob = decay(prob, g.IsRoad[id])
			apply(id, prob)
		}
		prob = 0.0
		for x := g.NX - 1; x >= 0; x-- {
			id := g.ID(x, y)
			prob = decay(prob, g.IsRoad[id])
			apply(id, prob)
		}
	}

	// bottom -> top, top -> bottom
	for x := 0; x < g.NX; x++ {
		prob := 0.0
		for y := 0; y < g.NY; y++ {
			id := g.ID(x, y)
			prob = decay(prob, g.IsRoad[id])
			apply(id, prob)
		}
		prob = 0.0
		for y := g.NY - 1; y >= 0; y-- {
			id := g.ID(x, y)
			prob = decay(prob, g.IsRoad[id])
			apply(id, prob)
		}
	}

	for id := 0; id < n; id++ {
		g.SetUrbanProb(id, best[id])
	}
}
