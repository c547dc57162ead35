package grid

import (
	"github.com/ctessum/geom"

	"github.com/riskgrid/riskgrid/internal/geo"
	"github.com/riskgrid/riskgrid/internal/parallel"
)

// maxSlope stands in for an infinite slope on a degenerate (vertical)
// polygon edge, so the line-intersection formula below never divides by
// zero; large enough that the resulting x-intercept is effectively the
// edge's own longitude.
const maxSlope = 1e12

// inRing reports whether pt lies inside ring using the eastward ray-cast
// parity test: a horizontal ray from pt towards lon+180 is tested against
// every edge of the ring (consecutive vertices, wrapping last to first);
// an odd number of crossings means pt is inside. A point exactly on an
// edge or vertex has no fixed side: on an axis-aligned square the west
// and south sides test inside and the north side outside, while points
// on vertical edges depend on the ring's winding direction.
func inRing(pt geo.Point, ring []geo.Point) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	crossings := 0
	prev := ring[n-1]
	for i := 0; i < n; i++ {
		cur := ring[i]
		x1, y1 := prev.Lon, prev.Lat
		x2, y2 := cur.Lon, cur.Lat
		prev = cur

		// Only edges that reach at least as far east as pt and whose
		// latitude span straddles pt's latitude can possibly cross the
		// ray.
		if x1 < pt.Lon && x2 < pt.Lon {
			continue
		}
		straddles := (y1 > pt.Lat) != (y2 > pt.Lat)
		if !straddles {
			continue
		}

		slope := maxSlope
		if x2 != x1 {
			slope = (y2 - y1) / (x2 - x1)
		}
		xIntersect := x1 + (pt.Lat-y1)/slope
		if xIntersect > pt.Lon {
			crossings++
		}
	}
	return crossings%2 == 1
}

func ringFromPolygonPath(path []geom.Point) []geo.Point {
	ring := make([]geo.Point, len(path))
	for i, p := range path {
		ring[i] = geo.Point{Lat: p.Y, Lon: p.X}
	}
	return ring
}

// outerRings flattens the outer ring of every polygon in polys. Inner
// rings (holes) are deliberately not modeled, per the AoI data model.
func outerRings(polys []geom.Polygon) [][]geo.Point {
	var rings [][]geo.Point
	for _, poly := range polys {
		if len(poly) == 0 {
			continue
		}
		rings = append(rings, ringFromPolygonPath(poly[0]))
	}
	return rings
}

// Inside reports whether pt lies inside at least one of the AoI rings.
// With no polygons configured, every point is considered inside (no AoI
// restriction).
func Inside(pt geo.Point, rings [][]geo.Point) bool {
	if len(rings) == 0 {
		return true
	}
	for _, ring := range rings {
		if inRing(pt, ring) {
			return true
		}
	}
	return false
}

// MaskAoI marks g.Inside for every cell against g.Polygons and
// (re)populates g.ZonesInside, sorted and deduplicated. Re-running it
// with the same polygons is a no-op. The per-cell test is embarrassingly
// parallel; it is the only work done per cell.
func (g *Grid) MaskAoI(workers int) {
	rings := outerRings(g.Polygons)
	n := g.N()
	parallel.Do(workers, n, func(id int) {
		g.Inside[id] = Inside(g.Center(id), rings)
	})

	zones := make([]int, 0, n)
	for id := 0; id < n; id++ {
		if g.Inside[id] {
			zones = append(zones, id)
		}
	}
	g.ZonesInside = zones // already sorted: id increases monotonically above
}

// PoIsInside filters g.PoIs to those whose coordinates fall inside the
// AoI, used before PoI risk computation.
func (g *Grid) PoIsInside() []PoI {
	rings := outerRings(g.Polygons)
	if len(rings) == 0 {
		return g.PoIs
	}
	out := make([]PoI, 0, len(g.PoIs))
	for _, p := range g.PoIs {
		if Inside(p.point(), rings) {
			out = append(out, p)
		}
	}
	return out
}
