// Command riskgrid-worker polls a remote task queue, downloads job
// descriptors, invokes the risk-classification pipeline, and uploads
// the resulting map/EDU layers. Grounded on the original worker's
// poll/fetch/invoke/upload loop, generalized from a local PBF extract
// + subprocess invocation to an HTTP Overpass fetch + in-process
// pipeline call.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

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

// workerConfig is the daemon's ambient configuration, read from the
// environment the way worker.py reads os.getenv rather than through
// internal/config's job-descriptor-oriented cobra/viper layer.
type workerConfig struct {
	APIURL         string
	TasksDir       string
	OutDir         string
	SleepInterval  time.Duration
	StatusAddr     string
	OverpassURL    string
	ElevationURL   string
	AccessPointURL string
	Workers        int
}

func loadWorkerConfig() workerConfig {
	return workerConfig{
		APIURL:         os.Getenv("RISKGRID_API_URL"),
		TasksDir:       envOr("RISKGRID_TASKS_DIR", "./tasks"),
		OutDir:         envOr("RISKGRID_OUT_DIR", "./out"),
		SleepInterval:  time.Duration(envOrInt("RISKGRID_SLEEP_SECONDS", 10)) * time.Second,
		StatusAddr:     envOr("RISKGRID_STATUS_ADDR", ":7172"),
		OverpassURL:    os.Getenv("RISKGRID_OVERPASS_URL"),
		ElevationURL:   os.Getenv("RISKGRID_ELEVATION_URL"),
		AccessPointURL: os.Getenv("RISKGRID_ACCESSPOINT_URL"),
		Workers:        envOrInt("RISKGRID_WORKERS", 0),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return def
	}
	return n
}

func main() {
	cfg := loadWorkerConfig()

	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	log := corelog.NewLogrus(l)

	hub := newStatusHub()
	go func() {
		http.Handle("/status", hub)
		log.Infof("riskgrid-worker: status feed listening on %s", cfg.StatusAddr)
		if err := http.ListenAndServe(cfg.StatusAddr, nil); err != nil {
			log.Errorf("riskgrid-worker: status server stopped: %v", err)
		}
	}()

	client := services.NewClient()
	os.MkdirAll(cfg.TasksDir, 0o755)
	os.MkdirAll(cfg.OutDir, 0o755)

	for {
		task, ok, err := client.GetTask(cfg.APIURL)
		if err != nil {
			log.Warnf("riskgrid-worker: poll failed: %v", err)
			time.Sleep(cfg.SleepInterval)
			continue
		}
		if !ok {
			time.Sleep(cfg.SleepInterval)
			continue
		}

		hub.Broadcast(task.ID, "running")
		if err := processTask(cfg, client, log, task); err != nil {
			log.Errorf("riskgrid-worker: task %s failed: %v", task.ID, err)
			hub.Broadcast(task.ID, "failed:"+err.Error())
		} else {
			hub.Broadcast(task.ID, "done")
		}
	}
}

func processTask(cfg workerConfig, client *services.Client, log corelog.Logger, task *services.Task) error {
	var jd config.JobDescriptor
	if err := json.Unmarshal(task.Config, &jd); err != nil {
		return errs.MissingConfig("main.processTask: decode config", err)
	}

	jd.GeoJSON = filepath.Join(cfg.TasksDir, task.ID+".geojson")
	jd.PoIs = filepath.Join(cfg.TasksDir, task.ID+".osm.xml")
	jd.Output = filepath.Join(cfg.OutDir, task.ID+".map.csv")
	jd.OutputEDUs = filepath.Join(cfg.OutDir, task.ID+".edus.csv")

	if err := os.WriteFile(jd.GeoJSON, task.GeoJSON, 0o644); err != nil {
		return fmt.Errorf("main.processTask: write geojson: %w", err)
	}

	if cfg.OverpassURL == "" {
		return errs.MissingConfig("main.processTask", fmt.Errorf("RISKGRID_OVERPASS_URL not configured"))
	}
	overpass := services.NewOverpass(client, cfg.OverpassURL)
	xmlBody, err := overpass.FetchBBox(jd.Left, jd.Bottom, jd.Right, jd.Top)
	if err != nil {
		return fmt.Errorf("main.processTask: overpass fetch: %w", err)
	}
	if err := os.WriteFile(jd.PoIs, xmlBody, 0o644); err != nil {
		return fmt.Errorf("main.processTask: write osm extract: %w", err)
	}

	policy, err := placement.ParsePolicy(eduAlgToPolicy(jd.EDUAlg))
	if err != nil {
		return errs.MissingConfig("main.processTask: edu_alg", err)
	}

	in, err := buildWorkerInput(&jd)
	if err != nil {
		return err
	}

	opts := run.Options{
		Workers:               jd.Workers,
		Policy:                policy,
		ConnectivityThreshold: jd.ConnectivityThreshold,
		Log:                   log,
	}
	if cfg.ElevationURL != "" {
		opts.Elevation = elevationAdapter{client: client, baseURL: cfg.ElevationURL}
	}
	if cfg.AccessPointURL != "" {
		opts.AccessPoint = accessPointAdapter{client: client, baseURL: cfg.AccessPointURL}
		opts.ConnectivityParams = defaultConnectivityParams
		opts.ConnectivityWeights = defaultConnectivityWeights
	}

	g, err := run.BuildGrid(in, opts)
	if err != nil {
		return err
	}
	if err := run.PlaceEDUs(g, jd.M, jd.EDUs.Loose, jd.EDUs.Tight, opts); err != nil {
		return err
	}

	mapFile, err := os.Create(jd.Output)
	if err != nil {
		return err
	}
	defer mapFile.Close()
	if err := report.WriteMap(mapFile, g); err != nil {
		return err
	}

	eduFile, err := os.Create(jd.OutputEDUs)
	if err != nil {
		return err
	}
	defer eduFile.Close()
	if err := report.WriteEDUs(eduFile, g); err != nil {
		return err
	}

	mapBytes, err := os.ReadFile(jd.Output)
	if err != nil {
		return err
	}
	eduBytes, err := os.ReadFile(jd.OutputEDUs)
	if err != nil {
		return err
	}

	return client.PostResult(cfg.APIURL, services.TaskResult{
		ID:   task.ID,
		Map:  string(mapBytes),
		EDUs: string(eduBytes),
	})
}

func buildWorkerInput(jd *config.JobDescriptor) (run.Input, error) {
	in := run.Input{
		Left: jd.Left, Bottom: jd.Bottom, Right: jd.Right, Top: jd.Top,
		ZoneSizeMeters: jd.ZoneSize,
		M:              jd.M,
		NLoose:         jd.EDUs.Loose,
		NTight:         jd.EDUs.Tight,
	}

	data, err := os.ReadFile(jd.GeoJSON)
	if err != nil {
		return in, fmt.Errorf("main.buildWorkerInput: geojson: %w", err)
	}
	polys, err := geojson.Decode(data)
	if err != nil {
		return in, fmt.Errorf("main.buildWorkerInput: geojson: %w", err)
	}
	in.Polygons = polys

	f, err := os.Open(jd.PoIs)
	if err != nil {
		return in, errs.NoPoIs("main.buildWorkerInput: pois", err)
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
		return in, errs.NoPoIs("main.buildWorkerInput: pois", err)
	}
	in.PoIs = extracted.PoIs
	in.Roads = extracted.Roads
	in.Rivers = extracted.Rivers
	return in, nil
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

// defaultConnectivityParams/Weights give every access point type equal
// signal-only weight, mirroring the CLI's own default: the job
// descriptor (§6) doesn't expose a per-type parameter table.
var defaultConnectivityParams = map[string]grid.ConnectivityParams{
	"": {S: 1, T: 0, R: 0, C: 0},
}

var defaultConnectivityWeights = grid.ConnectivityWeights{WS: 1, WT: 0, WR: 0, WC: 0}
