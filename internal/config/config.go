// Package config defines the job descriptor schema consumed by the
// core and the layered ambient configuration (file/env/flags) used by
// the CLI and daemon. The Cfg type generalizes the teacher's
// Cfg+viper+options-table pattern (inmaputil/cmd.go) from InMAP's
// physical/chemistry options to this repo's service endpoints and
// run-time knobs.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/spf13/cobra"
)

// PoIWeight is a single pois_types leaf: {"w": weight}.
type PoIWeight struct {
	W float64 `json:"w"`
}

// EDUCounts is the edus object in a job descriptor.
type EDUCounts struct {
	Loose int `json:"loose"`
	Tight int `json:"tight"`
}

// JobDescriptor is the §6 job descriptor, decoded from the file named
// on the command line or downloaded by the daemon.
type JobDescriptor struct {
	Left   float64 `json:"left"`
	Bottom float64 `json:"bottom"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`

	ZoneSize float64   `json:"zone_size"`
	M        int       `json:"M"`
	EDUs     EDUCounts `json:"edus"`

	PoIs      string                          `json:"pois"`
	PoIsTypes map[string]map[string]PoIWeight `json:"pois_types"`
	GeoJSON   string                          `json:"geojson"`

	EDUAlg                string  `json:"edu_alg"`
	ConnectivityThreshold float64 `json:"connectivity_threshold"`
	CacheZones            bool    `json:"cache_zones"`

	Output             string `json:"output"`
	OutputEDUs         string `json:"output_edus"`
	OutputRoads        string `json:"output_roads"`
	OutputRivers       string `json:"output_rivers"`
	OutputElevation    string `json:"output_elevation"`
	OutputSlope        string `json:"output_slope"`
	OutputConnectivity string `json:"output_connectivity"`
	ResData            string `json:"res_data"`

	DerivedMetrics map[string]string `json:"derived_metrics"`

	Workers int `json:"workers"`
}

// LoadJobDescriptor reads and decodes a job descriptor from path.
func LoadJobDescriptor(path string) (*JobDescriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config.LoadJobDescriptor: %w", err)
	}
	defer f.Close()

	var jd JobDescriptor
	if err := json.NewDecoder(f).Decode(&jd); err != nil {
		return nil, fmt.Errorf("config.LoadJobDescriptor: %w", err)
	}
	if jd.M < 1 {
		jd.M = 1
	}
	return &jd, nil
}

// Cfg holds the ambient, non-job configuration: service endpoints,
// concurrency, logging -- the settings an operator tunes across many
// job runs rather than ones that describe a single job.
type Cfg struct {
	*viper.Viper

	Root *cobra.Command
}

var options = []struct {
	name, usage string
	defaultVal  interface{}
}{
	{"config", "path to a JSON or TOML configuration file", ""},
	{"workers", "number of parallel workers (0 = CPU count)", 0},
	{"log-level", "log level: debug, info, warn, error", "info"},
	{"overpass-endpoint", "Overpass API endpoint (not read by the CLI; the daemon takes RISKGRID_OVERPASS_URL)", ""},
	{"elevation-endpoint", "elevation lookup service base URL", ""},
	{"accesspoint-endpoint", "cell-coverage access-point service base URL", ""},
	{"http-timeout-seconds", "per-request HTTP timeout", 30},
	{"http-max-elapsed-seconds", "max total retry time per HTTP call", 120},
	{"open-report", "open the static report in a browser after a run", false},
}

// addOptions registers every entry in options as a persistent flag on
// cmd and binds it into cfg, following the teacher's type-switch
// flag-registration loop generalized to this repo's smaller option
// set.
func addOptions(cfg *Cfg, cmd *cobra.Command) {
	set := cmd.PersistentFlags()
	for _, o := range options {
		switch v := o.defaultVal.(type) {
		case string:
			set.String(o.name, v, o.usage)
		case int:
			set.Int(o.name, v, o.usage)
		case bool:
			set.Bool(o.name, v, o.usage)
		default:
			panic(fmt.Errorf("config: unsupported option type %T for %q", v, o.name))
		}
		cfg.BindPFlag(o.name, set.Lookup(o.name))
	}
}

// New builds a Cfg with every option bound to cmd's persistent flags,
// layered defaults < config file < environment < flags.
func New(cmd *cobra.Command) *Cfg {
	cfg := &Cfg{Viper: viper.New(), Root: cmd}
	cfg.SetEnvPrefix("RISKGRID")
	cfg.AutomaticEnv()
	addOptions(cfg, cmd)
	return cfg
}

// Load reads the configured --config file, if any, merging it under
// flags/env per viper's precedence rules.
func (cfg *Cfg) Load() error {
	path := cfg.GetString("config")
	if path == "" {
		return nil
	}
	cfg.SetConfigFile(path)
	if err := cfg.ReadInConfig(); err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}
	return nil
}

