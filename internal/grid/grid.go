// Package grid implements the core risk-classification engine: a
// struct-of-arrays raster over a bounding box, and the pipeline stages
// that populate it (AoI masking, road rasterization, PoI/elevation/
// connectivity risk, urban probability, RL quantization).
package grid

import (
	"fmt"

	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"

	"github.com/riskgrid/riskgrid/internal/geo"
)

// EDUType tags a placed Emergency-Detection Unit.
type EDUType int

// EDU placement states. None is the zero value so an unplaced cell's
// EDUType is always the obvious default.
const (
	EDUNone EDUType = iota
	EDULoose
	EDUTight
)

func (t EDUType) String() string {
	switch t {
	case EDULoose:
		return "LOOSE"
	case EDUTight:
		return "TIGHT"
	default:
		return "NONE"
	}
}

// PoI is a weighted point of interest. Positive weights are safety
// assets (nearer is safer); negative weights are hazards. "Bad" is
// always derived from the sign of Weight, never stored separately.
type PoI struct {
	Lat, Lon, Weight float64
}

// Bad reports whether p is a hazard (negative weight).
func (p PoI) Bad() bool { return p.Weight < 0 }

func (p PoI) point() geo.Point { return geo.Point{Lat: p.Lat, Lon: p.Lon} }

// Segment is a road or river polyline edge between two geographic
// points.
type Segment struct {
	A, B geo.Point
}

// AccessPoint is a connectivity access point used by the DPConn overlay.
type AccessPoint struct {
	Lat, Lon, RangeMeters float64
	Type                  string
}

// Grid is the struct-of-arrays raster. All per-cell columns have length
// NX*NY and are indexed by the row-major cell id id = y*NX + x.
type Grid struct {
	Left, Bottom, Right, Top float64
	ZoneSizeMeters           float64
	NX, NY                   int

	lat, lon []float64

	Inside  []bool
	IsRoad  []bool
	IsRiver []bool
	HasEDU  []bool
	EDUType []EDUType
	RL      []int

	risk          *sparse.DenseArray
	riskElevation *sparse.DenseArray
	urbanProb     *sparse.DenseArray
	elevation     *sparse.DenseArray
	slope         *sparse.DenseArray
	dpconn        *sparse.DenseArray

	// ZonesInside is the sorted, deduplicated list of cell ids with
	// Inside == true, populated by MaskAoI.
	ZonesInside []int

	Polygons []geom.Polygon
	PoIs     []PoI
	Roads    []Segment
	Rivers   []Segment

	// RoadsPoints is the running count of cells touched by road
	// rasterization (may double-count cells touched by more than one
	// segment, matching the source's plain counter semantics).
	RoadsPoints int

	// EDUs maps RL -> the cell ids chosen for placement at that level.
	EDUs map[int][]int

	hasElevation bool
}

// New builds a Grid covering [left,right]x[bottom,top], with cells of
// approximately zoneSizeMeters on a side. The dimensions are derived from
// the haversine width/height of the bbox, floored, and raised to 1 when
// the floor is 0.
func New(left, bottom, right, top, zoneSizeMeters float64) (*Grid, error) {
	if zoneSizeMeters <= 0 {
		return nil, fmt.Errorf("grid.New: zone_size must be > 0, got %v", zoneSizeMeters)
	}
	if right <= left || top <= bottom {
		return nil, fmt.Errorf("grid.New: degenerate bbox (%v,%v,%v,%v)", left, bottom, right, top)
	}

	width := geo.Haversine(geo.Point{Lat: bottom, Lon: left}, geo.Point{Lat: bottom, Lon: right})
	height := geo.Haversine(geo.Point{Lat: bottom, Lon: left}, geo.Point{Lat: top, Lon: left})

	nx := int(width / zoneSizeMeters)
	ny := int(height / zoneSizeMeters)
	if nx < 1 {
		nx = 1
	}
	if ny < 1 {
		ny = 1
	}

	n := nx * ny
	g := &Grid{
		Left: left, Bottom: bottom, Right: right, Top: top,
		ZoneSizeMeters: zoneSizeMeters,
		NX:             nx, NY: ny,
		lat: make([]float64, n), lon: make([]float64, n),
		Inside:  make([]bool, n),
		IsRoad:  make([]bool, n),
		IsRiver: make([]bool, n),
		HasEDU:  make([]bool, n),
		EDUType: make([]EDUType, n),
		RL:      make([]int, n),

		risk:          sparse.ZerosDense(n),
		riskElevation: sparse.ZerosDense(n),
		urbanProb:     sparse.ZerosDense(n),
		elevation:     sparse.ZerosDense(n),
		slope:         sparse.ZerosDense(n),
		dpconn:        sparse.ZerosDense(n),

		EDUs: make(map[int][]int),
	}

	lonStep := (right - left) / float64(nx)
	latStep := (top - bottom) / float64(ny)
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			id := g.ID(x, y)
			g.lon[id] = left + (float64(x)+0.5)*lonStep
			g.lat[id] = bottom + (float64(y)+0.5)*latStep
		}
	}
	return g, nil
}

// N is the total cell count.
func (g *Grid) N() int { return g.NX * g.NY }

// ID returns the row-major index of cell (x,y).
func (g *Grid) ID(x, y int) int { return y*g.NX + x }

// XY returns the (x,y) coordinates of cell id, the inverse of ID.
func (g *Grid) XY(id int) (x, y int) { return id % g.NX, id / g.NX }

// Center returns the geographic center of cell id.
func (g *Grid) Center(id int) geo.Point { return geo.Point{Lat: g.lat[id], Lon: g.lon[id]} }

// Lat returns the geographic latitude of cell id's center.
func (g *Grid) Lat(id int) float64 { return g.lat[id] }

// Lon returns the geographic longitude of cell id's center.
func (g *Grid) Lon(id int) float64 { return g.lon[id] }

// InBounds reports whether (x,y) is a valid cell coordinate.
func (g *Grid) InBounds(x, y int) bool { return x >= 0 && x < g.NX && y >= 0 && y < g.NY }

// Risk returns the risk score of cell id (before RL quantization).
func (g *Grid) Risk(id int) float64 { return g.risk.Get1d(id) }

// SetRisk sets the risk score of cell id.
func (g *Grid) SetRisk(id int, v float64) { g.risk.Set(v, id) }

// RiskElevation returns the elevation-derived risk multiplier of cell id.
func (g *Grid) RiskElevation(id int) float64 { return g.riskElevation.Get1d(id) }

// SetRiskElevation sets the elevation-derived risk multiplier of cell id.
func (g *Grid) SetRiskElevation(id int, v float64) { g.riskElevation.Set(v, id) }

// UrbanProb returns the urban-probability score of cell id.
func (g *Grid) UrbanProb(id int) float64 { return g.urbanProb.Get1d(id) }

// SetUrbanProb sets the urban-probability score of cell id.
func (g *Grid) SetUrbanProb(id int, v float64) { g.urbanProb.Set(v, id) }

// Elevation returns the raw elevation (meters) of cell id.
func (g *Grid) Elevation(id int) float64 { return g.elevation.Get1d(id) }

// SetElevation sets the raw elevation (meters) of cell id.
func (g *Grid) SetElevation(id int, v float64) { g.elevation.Set(v, id) }

// Slope returns the slope score of cell id.
func (g *Grid) Slope(id int) float64 { return g.slope.Get1d(id) }

// SetSlope sets the slope score of cell id.
func (g *Grid) SetSlope(id int, v float64) { g.slope.Set(v, id) }

// DPConn returns the connectivity score of cell id.
func (g *Grid) DPConn(id int) float64 { return g.dpconn.Get1d(id) }

// SetDPConn sets the connectivity score of cell id.
func (g *Grid) SetDPConn(id int, v float64) { g.dpconn.Set(v, id) }

// PlaceEDU marks cell id as carrying an EDU of the given type at risk
// level rl, appending it to EDUs[rl]. Callers are responsible for
// checking HasEDU first; PlaceEDU does not itself enforce the
// one-EDU-per-cell invariant.
func (g *Grid) PlaceEDU(id, rl int, t EDUType) {
	g.HasEDU[id] = true
	g.EDUType[id] = t
	g.EDUs[rl] = append(g.EDUs[rl], id)
}

// ClearEDU removes any EDU placement from cell id and the RL list it was
// recorded under (used by the Restricted policy when relocating a
// placement to a road cell).
func (g *Grid) ClearEDU(id, rl int) {
	g.HasEDU[id] = false
	g.EDUType[id] = EDUNone
	list := g.EDUs[rl]
	for i, v := range list {
		if v == id {
			g.EDUs[rl] = append(list[:i], list[i+1:]...)
			return
		}
	}
}
