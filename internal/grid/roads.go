package grid

import (
	"github.com/riskgrid/riskgrid/internal/geo"
)

// CellCoords maps a geographic point to the (x,y) grid cell that
// contains it, reporting ok=false if pt falls outside the bbox.
func (g *Grid) CellCoords(pt geo.Point) (x, y int, ok bool) {
	if pt.Lon < g.Left || pt.Lon > g.Right || pt.Lat < g.Bottom || pt.Lat > g.Top {
		return 0, 0, false
	}
	x = int((pt.Lon - g.Left) / (g.Right - g.Left) * float64(g.NX))
	y = int((pt.Lat - g.Bottom) / (g.Top - g.Bottom) * float64(g.NY))
	if x >= g.NX {
		x = g.NX - 1
	}
	if y >= g.NY {
		y = g.NY - 1
	}
	return x, y, true
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// rasterize walks the grid from seg.A to seg.B one cell per step along
// the dominant axis, carrying a fractional accumulator for the minor
// axis, and calls mark on every cell touched. The walk terminates when
// the haversine distance to the target stops decreasing, guarding
// against accumulator drift on highly oblique segments.
//
// Open-question decision (row-boundary overrun, SPEC_FULL.md §4.3):
// the walk clamps rather than wraps or silently corrupts an adjacent
// row — any step that would leave the grid stops the walk for that
// segment immediately, leaving it partially rasterized up to that
// point. Segments with either endpoint outside the bbox are skipped
// entirely before the walk starts.
func (g *Grid) rasterize(seg Segment, mark func(x, y int)) (touched int, ok bool) {
	ax, ay, aok := g.CellCoords(seg.A)
	bx, by, bok := g.CellCoords(seg.B)
	if !aok || !bok {
		return 0, false
	}

	dx := bx - ax
	dy := by - ay
	dxAbs, dyAbs := abs(dx), abs(dy)

	x, y := ax, ay
	mark(x, y)
	touched = 1
	if x == bx && y == by {
		return touched, true
	}

	dominantX := dxAbs >= dyAbs
	var dominantLen int
	var minorPerStep float64
	if dominantX {
		dominantLen = dxAbs
		if dominantLen > 0 {
			minorPerStep = float64(dyAbs) / float64(dxAbs)
		}
	} else {
		dominantLen = dyAbs
		if dominantLen > 0 {
			minorPerStep = float64(dxAbs) / float64(dyAbs)
		}
	}
	stepX, stepY := sign(dx), sign(dy)

	target := seg.B
	prevDist := geo.Haversine(g.Center(g.ID(x, y)), target)
	accum := 0.0

	for step := 0; step < dominantLen; step++ {
		if dominantX {
			x += stepX
		} else {
			y += stepY
		}
		accum += minorPerStep
		for accum >= 1.0-1e-9 {
			if dominantX {
				y += stepY
			} else {
				x += stepX
			}
			accum -= 1.0
		}

		if !g.InBounds(x, y) {
			// Clamp: stop walking rather than wrap into an unrelated row.
			break
		}

		mark(x, y)
		touched++

		dist := geo.Haversine(g.Center(g.ID(x, y)), target)
		if dist > prevDist {
			break
		}
		prevDist = dist

		if x == bx && y == by {
			break
		}
	}
	return touched, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// AddRoad rasterizes seg onto the grid, flagging every traversed cell
// IsRoad and bumping RoadsPoints by the number of cells touched by this
// walk (including ones already marked by an earlier segment, matching
// the source's plain running counter). Segments with an endpoint outside
// the bbox are skipped.
func (g *Grid) AddRoad(seg Segment) {
	g.Roads = append(g.Roads, seg)
	touched, ok := g.rasterize(seg, func(x, y int) {
		g.IsRoad[g.ID(x, y)] = true
	})
	if ok {
		g.RoadsPoints += touched
	}
}

// AddRiver rasterizes seg identically to AddRoad but flags IsRiver
// instead; rivers are a layered output and never factor into PoI risk.
func (g *Grid) AddRiver(seg Segment) {
	g.Rivers = append(g.Rivers, seg)
	g.rasterize(seg, func(x, y int) {
		g.IsRiver[g.ID(x, y)] = true
	})
}

// RasterizeRoads rasterizes every segment in segs as roads.
func (g *Grid) RasterizeRoads(segs []Segment) {
	for _, s := range segs {
		g.AddRoad(s)
	}
}

// RasterizeRivers rasterizes every segment in segs as rivers.
func (g *Grid) RasterizeRivers(segs []Segment) {
	for _, s := range segs {
		g.AddRiver(s)
	}
}
