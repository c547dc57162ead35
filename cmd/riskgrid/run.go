package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"

	"github.com/riskgrid/riskgrid/internal/cache"
	"github.com/riskgrid/riskgrid/internal/config"
	"github.com/riskgrid/riskgrid/internal/corelog"
	"github.com/riskgrid/riskgrid/internal/errs"
	"github.com/riskgrid/riskgrid/internal/geojson"
	"github.com/riskgrid/riskgrid/internal/grid"
	"github.com/riskgrid/riskgrid/internal/osm"
	"github.com/riskgrid/riskgrid/internal/placement"
	"github.com/riskgrid/riskgrid/internal/report"
	"github.com/riskgrid/riskgrid/internal/run"
	"github.com/riskgrid/riskgrid/internal/services"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "riskgrid",
		Short: "Geospatial risk classification and EDU placement engine.",
		Long: `riskgrid discretizes an area of interest into a grid, classifies each
cell's risk level from points of interest, terrain, and connectivity,
and places Emergency-Detection Units under one of several policies.`,
		DisableAutoGenTag: true,
	}
	cfg := config.New(root)

	runCmd := &cobra.Command{
		Use:   "run job.json",
		Short: "Run a job descriptor and write the configured output files.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}
			return runJob(cfg, args[0])
		},
	}
	root.AddCommand(runCmd)

	reportCmd := &cobra.Command{
		Use:   "report res_data.json",
		Short: "Open a previously written res_data.json report in the browser.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return open.Run(args[0])
		},
	}
	root.AddCommand(reportCmd)

	return root
}

func newLogger(cfg *config.Cfg) corelog.Logger {
	l := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.GetString("log-level")); err == nil {
		l.SetLevel(lvl)
	}
	return corelog.NewLogrus(l)
}

func runJob(cfg *config.Cfg, jobPath string) error {
	log := newLogger(cfg)

	jd, err := config.LoadJobDescriptor(jobPath)
	if err != nil {
		return errs.MissingConfig("main.runJob: load job descriptor", err)
	}

	policy, err := placement.ParsePolicy(eduAlgToPolicy(jd.EDUAlg))
	if err != nil {
		return errs.MissingConfig("main.runJob: edu_alg", err)
	}

	workers := jd.Workers
	if workers == 0 {
		workers = cfg.GetInt("workers")
	}

	client := services.NewClient()
	if s := cfg.GetInt("http-timeout-seconds"); s > 0 {
		client.HTTP.Timeout = time.Duration(s) * time.Second
	}
	if s := cfg.GetInt("http-max-elapsed-seconds"); s > 0 {
		client.MaxElapsed = time.Duration(s) * time.Second
	}
	opts := run.Options{
		Workers:               workers,
		Policy:                policy,
		ConnectivityThreshold: jd.ConnectivityThreshold,
		Log:                   log,
	}
	if endpoint := cfg.GetString("elevation-endpoint"); endpoint != "" {
		opts.Elevation = elevationAdapter{client: client, baseURL: endpoint}
	}
	if endpoint := cfg.GetString("accesspoint-endpoint"); endpoint != "" {
		opts.AccessPoint = accessPointAdapter{client: client, baseURL: endpoint}
		opts.ConnectivityParams = defaultConnectivityParams
		opts.ConnectivityWeights = defaultConnectivityWeights
	}

	var g *grid.Grid
	cachePath := jd.ResData + ".cache.json"

	if jd.CacheZones {
		if loaded, err := loadCache(cachePath); err == nil {
			log.Infof("main.runJob: loaded cached grid from %s", cachePath)
			g = loaded
		} else if !os.IsNotExist(err) {
			return err
		}
	}

	classifyStart := time.Now()
	var classifyElapsed time.Duration

	if g == nil {
		in, err := buildInput(cfg, jd)
		if err != nil {
			return err
		}
		g, err = run.BuildGrid(in, opts)
		if err != nil {
			return err
		}
		classifyElapsed = time.Since(classifyStart)

		if jd.CacheZones {
			if err := saveCache(cachePath, g); err != nil {
				log.Warnf("main.runJob: cache write failed: %v", err)
			}
		}
	}

	placeStart := time.Now()
	if err := run.PlaceEDUs(g, jd.M, jd.EDUs.Loose, jd.EDUs.Tight, opts); err != nil {
		return err
	}
	placeElapsed := time.Since(placeStart)

	if err := writeOutputs(jd, g, classifyElapsed, placeElapsed); err != nil {
		return err
	}
	if cfg.GetBool("open-report") && jd.ResData != "" {
		return open.Run(jd.ResData)
	}
	return nil
}

func eduAlgToPolicy(alg string) string {
	switch alg {
	case "balanced":
		return "unbalanced"
	case "enhanced":
		return "balanced"
	case "restricted_plus":
		return "restricted+"
	default:
		return alg
	}
}

func buildInput(cfg *config.Cfg, jd *config.JobDescriptor) (run.Input, error) {
	in := run.Input{
		Left: jd.Left, Bottom: jd.Bottom, Right: jd.Right, Top: jd.Top,
		ZoneSizeMeters: jd.ZoneSize,
		M:              jd.M,
		NLoose:         jd.EDUs.Loose,
		NTight:         jd.EDUs.Tight,
	}

	if jd.GeoJSON != "" {
		data, err := os.ReadFile(jd.GeoJSON)
		if err != nil {
			return in, fmt.Errorf("main.buildInput: geojson: %w", err)
		}
		polys, err := geojson.Decode(data)
		if err != nil {
			return in, fmt.Errorf("main.buildInput: geojson: %w", err)
		}
		in.Polygons = polys
	}

	if jd.PoIs != "" {
		f, err := os.Open(jd.PoIs)
		if err != nil {
			return in, errs.NoPoIs("main.buildInput: pois", err)
		}
		defer f.Close()

		types := make(osm.Types, len(jd.PoIsTypes))
		for k, values := range jd.PoIsTypes {
			types[k] = make(map[string]osm.TypeWeight, len(values))
			for v, w := range values {
				types[k][v] = osm.TypeWeight{Weight: w.W}
			}
		}
		extracted, err := osm.Extract(f, types)
		if err != nil {
			return in, errs.NoPoIs("main.buildInput: pois", err)
		}
		in.PoIs = extracted.PoIs
		in.Roads = extracted.Roads
		in.Rivers = extracted.Rivers
	}

	return in, nil
}

// defaultConnectivityParams/Weights give every access point type equal
// signal-only weight. The job descriptor (§6) doesn't expose a
// per-type parameter table, unlike the original's standalone
// connectivity config; a real deployment wanting per-radio-type
// weighting would extend the descriptor schema for it.
var defaultConnectivityParams = map[string]grid.ConnectivityParams{
	"": {S: 1, T: 0, R: 0, C: 0},
}

var defaultConnectivityWeights = grid.ConnectivityWeights{WS: 1, WT: 0, WR: 0, WC: 0}

type elevationAdapter struct {
	client  *services.Client
	baseURL string
}

func (e elevationAdapter) Elevations(lats, lons []float64) ([]float64, error) {
	return e.client.Elevation(e.baseURL, lats, lons)
}

type accessPointAdapter struct {
	client  *services.Client
	baseURL string
}

func (a accessPointAdapter) AccessPoints(left, top, right, bottom float64) ([]grid.AccessPoint, error) {
	aps, err := a.client.AccessPoints(a.baseURL, left, top, right, bottom)
	if err != nil {
		return nil, err
	}
	out := make([]grid.AccessPoint, len(aps))
	for i, p := range aps {
		out[i] = grid.AccessPoint{Lat: p.Lat, Lon: p.Lon, RangeMeters: p.Range, Type: p.Type}
	}
	return out, nil
}

func loadCache(path string) (*grid.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return cache.Load(f)
}

func saveCache(path string, g *grid.Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return cache.Save(f, g)
}

func writeOutputs(jd *config.JobDescriptor, g *grid.Grid, classifyElapsed, placeElapsed time.Duration) error {
	writers := []struct {
		path string
		fn   func(f *os.File) error
	}{
		{jd.Output, func(f *os.File) error { return report.WriteMap(f, g) }},
		{jd.OutputEDUs, func(f *os.File) error { return report.WriteEDUs(f, g) }},
		{jd.OutputRoads, func(f *os.File) error { return report.WriteRoads(f, g) }},
		{jd.OutputRivers, func(f *os.File) error { return report.WriteRivers(f, g) }},
		{jd.OutputElevation, func(f *os.File) error { return report.WriteElevation(f, g) }},
		{jd.OutputSlope, func(f *os.File) error { return report.WriteSlope(f, g) }},
		{jd.OutputConnectivity, func(f *os.File) error { return report.WriteConnectivity(f, g) }},
	}
	for _, w := range writers {
		if w.path == "" {
			continue
		}
		if err := writeFile(w.path, w.fn); err != nil {
			return fmt.Errorf("main.writeOutputs: %s: %w", w.path, err)
		}
	}

	if jd.ResData != "" {
		summary := report.Summarize(g, classifyElapsed, placeElapsed)
		if err := summary.ApplyDerivedMetrics(jd.DerivedMetrics); err != nil {
			return err
		}
		if err := writeFile(jd.ResData, func(f *os.File) error { return report.WriteJSON(f, summary) }); err != nil {
			return fmt.Errorf("main.writeOutputs: %s: %w", jd.ResData, err)
		}
	}
	return nil
}

func writeFile(path string, fn func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return fn(f)
}
