// Package run orchestrates the full risk-classification and EDU
// placement pipeline: grid construction, AoI masking, road/river
// rasterization, PoI/elevation/connectivity risk, urban probability,
// RL quantization, and EDU placement. It generalizes the teacher's
// run.go goroutine/WaitGroup/stride pattern (via internal/parallel)
// from per-cell chemistry updates to per-cell risk stages.
package run

import (
	"fmt"

	"github.com/ctessum/geom"

	"github.com/riskgrid/riskgrid/internal/corelog"
	"github.com/riskgrid/riskgrid/internal/errs"
	"github.com/riskgrid/riskgrid/internal/grid"
	"github.com/riskgrid/riskgrid/internal/parallel"
	"github.com/riskgrid/riskgrid/internal/placement"
)

// ElevationProvider samples elevation (meters) for a batch of
// coordinates; an optional collaborator for layer enrichment.
type ElevationProvider interface {
	Elevations(lats, lons []float64) ([]float64, error)
}

// AccessPointProvider fetches connectivity access points covering a
// bbox; an optional collaborator for layer enrichment.
type AccessPointProvider interface {
	AccessPoints(left, top, right, bottom float64) ([]grid.AccessPoint, error)
}

// Input is the resolved job input: geometry and weighted features
// already parsed from their source formats (OSM XML, GeoJSON, job
// descriptor), independent of how they were loaded.
type Input struct {
	Left, Bottom, Right, Top, ZoneSizeMeters float64
	M                                        int
	NLoose, NTight                           int

	PoIs     []grid.PoI
	Polygons []geom.Polygon
	Roads    []grid.Segment
	Rivers   []grid.Segment
}

// Options configures optional layers and the placement policy.
type Options struct {
	Workers int

	Elevation   ElevationProvider
	AccessPoint AccessPointProvider

	ConnectivityParams  map[string]grid.ConnectivityParams
	ConnectivityWeights grid.ConnectivityWeights
	UseRoadsForTargets  bool

	Policy                placement.Policy
	ConnectivityThreshold float64
	RandomSeed            int64

	Log corelog.Logger
}

func (o *Options) logger() corelog.Logger {
	if o.Log == nil {
		return corelog.Nop{}
	}
	return o.Log
}

// Run executes the full pipeline and returns the populated, fully
// risk-quantized and EDU-placed grid. It is BuildGrid followed by
// PlaceEDUs; callers restoring a cached grid (whose risk/RL fields
// were already computed by a prior run) call PlaceEDUs directly and
// skip BuildGrid, per the cache file's "replaces steps 2-6" contract.
func Run(in Input, opts Options) (*grid.Grid, error) {
	g, err := BuildGrid(in, opts)
	if err != nil {
		return nil, err
	}
	if err := PlaceEDUs(g, in.M, in.NLoose, in.NTight, opts); err != nil {
		return nil, fmt.Errorf("run.Run: EDU placement: %w", err)
	}
	return g, nil
}

// BuildGrid executes steps 1-6: grid construction through RL
// quantization, without placing any EDUs.
func BuildGrid(in Input, opts Options) (*grid.Grid, error) {
	log := opts.logger()
	workers := parallel.Workers(opts.Workers)

	g, err := grid.New(in.Left, in.Bottom, in.Right, in.Top, in.ZoneSizeMeters)
	if err != nil {
		return nil, fmt.Errorf("run.Run: grid construction: %w", err)
	}
	g.Polygons = in.Polygons
	g.PoIs = in.PoIs

	g.MaskAoI(workers)
	if len(g.ZonesInside) == 0 {
		return nil, errs.EmptyAoI("run.Run: MaskAoI", fmt.Errorf("bbox (%v,%v,%v,%v) has zero AoI-inside cells", in.Left, in.Bottom, in.Right, in.Top))
	}

	for _, seg := range in.Roads {
		g.AddRoad(seg)
	}
	for _, seg := range in.Rivers {
		g.AddRiver(seg)
	}

	insidePoIs := g.PoIsInside()
	if len(insidePoIs) == 0 {
		log.Warnf("run.Run: no PoIs inside AoI, risk will default to uniform")
	}
	g.ComputeRisk(insidePoIs, workers)

	if opts.Elevation != nil {
		if err := applyElevation(g, opts.Elevation, workers, log); err != nil {
			log.Warnf("run.Run: elevation layer disabled: %v", err)
		}
	}

	if opts.AccessPoint != nil {
		if err := applyConnectivity(g, opts.AccessPoint, opts.ConnectivityParams, opts.ConnectivityWeights, workers, log); err != nil {
			log.Warnf("run.Run: connectivity layer disabled: %v", err)
		}
	}

	g.ComputeUrbanProbability()
	g.NormalizeRisk()

	M := in.M
	if M < 1 {
		M = 1
	}
	g.QuantizeRL(M)

	return g, nil
}

func applyElevation(g *grid.Grid, provider ElevationProvider, workers int, log corelog.Logger) error {
	zones := g.ZonesInside
	lats := make([]float64, len(zones))
	lons := make([]float64, len(zones))
	for i, id := range zones {
		c := g.Center(id)
		lats[i], lons[i] = c.Lat, c.Lon
	}

	elevations, err := provider.Elevations(lats, lons)
	if err != nil {
		return err
	}
	if len(elevations) != len(zones) {
		return fmt.Errorf("elevation provider returned %d results for %d zones", len(elevations), len(zones))
	}

	byID := make(map[int]float64, len(zones))
	for i, id := range zones {
		byID[id] = elevations[i]
	}
	g.SetElevations(byID)
	g.ComputeElevationRisk(workers)
	return nil
}

func applyConnectivity(g *grid.Grid, provider AccessPointProvider, params map[string]grid.ConnectivityParams, weights grid.ConnectivityWeights, workers int, log corelog.Logger) error {
	aps, err := provider.AccessPoints(g.Left, g.Top, g.Right, g.Bottom)
	if err != nil {
		return err
	}
	g.ComputeDPConn(aps, params, weights, workers)
	return nil
}

// PlaceEDUs runs step 7 (EDU positioning) against an already
// risk-quantized grid, per opts.Policy.
func PlaceEDUs(g *grid.Grid, M, nLoose, nTight int, opts Options) error {
	total := nLoose + nTight

	switch opts.Policy {
	case placement.PolicyUnbalanced:
		p := placement.Prepare(g, M, total, opts.UseRoadsForTargets, opts.ConnectivityThreshold)
		placement.Unbalanced(g, p)
	case placement.PolicyBalanced:
		p := placement.Prepare(g, M, total, opts.UseRoadsForTargets, opts.ConnectivityThreshold)
		placement.Balanced(g, p)
	case placement.PolicyRestricted:
		placement.Restricted(g, M, total, opts.UseRoadsForTargets, opts.ConnectivityThreshold)
	case placement.PolicyRestrictedPlus:
		placement.RestrictedPlus(g, M, nTight, nLoose, opts.ConnectivityThreshold)
	case placement.PolicyRandom:
		p := placement.Prepare(g, M, total, opts.UseRoadsForTargets, opts.ConnectivityThreshold)
		placement.Random(g, p, opts.RandomSeed)
	default:
		return fmt.Errorf("unknown placement policy %q", opts.Policy)
	}
	return nil
}
