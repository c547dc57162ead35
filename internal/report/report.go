// Package report builds the §4.10 summary (per-RL counts, phase
// timings, risk statistics, and user-configured derived metrics) and
// writes the per-layer CSV/JSON output artifacts. Grounded on the
// teacher's Results()/Log() pair in run.go, generalized from pollutant
// concentration tables to per-cell risk layers.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/GaryBoone/GoStats/stats"
	"github.com/Knetic/govaluate"

	"github.com/riskgrid/riskgrid/internal/grid"
)

// Summary is the flat §4.10 report: counts per RL for zones, roads,
// urban cells, and EDUs; phase timings; and risk distribution
// statistics. Mirrored verbatim into the res_data JSON artifact.
type Summary struct {
	ZonesByRL map[int]int `json:"zones_by_rl"`
	RoadsByRL map[int]int `json:"roads_by_rl"`
	UrbanByRL map[int]int `json:"urban_by_rl"`
	EDUsByRL  map[int]int `json:"edus_by_rl"`

	ClassificationSeconds float64 `json:"classification_seconds"`
	PlacementSeconds      float64 `json:"placement_seconds"`

	RiskMeanByRL   map[int]float64 `json:"risk_mean_by_rl"`
	RiskStdDevByRL map[int]float64 `json:"risk_stddev_by_rl"`

	Derived map[string]float64 `json:"derived_metrics,omitempty"`
}

// Summarize computes the §4.10 report from a fully placed grid, given
// the elapsed wall-clock time of the classification and placement
// phases.
func Summarize(g *grid.Grid, classificationElapsed, placementElapsed time.Duration) Summary {
	s := Summary{
		ZonesByRL: make(map[int]int),
		RoadsByRL: make(map[int]int),
		UrbanByRL: make(map[int]int),
		EDUsByRL:  make(map[int]int),

		RiskMeanByRL:   make(map[int]float64),
		RiskStdDevByRL: make(map[int]float64),

		ClassificationSeconds: classificationElapsed.Seconds(),
		PlacementSeconds:      placementElapsed.Seconds(),
	}

	riskByRL := make(map[int]*stats.Stats)
	for _, id := range g.ZonesInside {
		rl := g.RL[id]
		s.ZonesByRL[rl]++
		if g.IsRoad[id] {
			s.RoadsByRL[rl]++
		}
		if g.UrbanProb(id) >= 0.5 {
			s.UrbanByRL[rl]++
		}
		if riskByRL[rl] == nil {
			riskByRL[rl] = &stats.Stats{}
		}
		riskByRL[rl].Update(g.Risk(id))
	}
	for rl, ids := range g.EDUs {
		s.EDUsByRL[rl] = len(ids)
	}
	for rl, st := range riskByRL {
		s.RiskMeanByRL[rl] = st.Mean()
		s.RiskStdDevByRL[rl] = st.SampleStandardDeviation()
	}
	return s
}

// params flattens a Summary into the variable namespace derived
// metric expressions evaluate against: rl-keyed fields become
// "zones_by_rl_1" etc, scalars keep their JSON name.
func (s Summary) params() map[string]interface{} {
	p := map[string]interface{}{
		"classification_seconds": s.ClassificationSeconds,
		"placement_seconds":      s.PlacementSeconds,
	}
	flattenInt := func(prefix string, m map[int]int) {
		total := 0
		for rl, n := range m {
			p[fmt.Sprintf("%s_%d", prefix, rl)] = float64(n)
			total += n
		}
		p[prefix+"_total"] = float64(total)
	}
	flattenFloat := func(prefix string, m map[int]float64) {
		for rl, v := range m {
			p[fmt.Sprintf("%s_%d", prefix, rl)] = v
		}
	}
	flattenInt("zones_by_rl", s.ZonesByRL)
	flattenInt("roads_by_rl", s.RoadsByRL)
	flattenInt("urban_by_rl", s.UrbanByRL)
	flattenInt("edus_by_rl", s.EDUsByRL)
	flattenFloat("risk_mean_by_rl", s.RiskMeanByRL)
	flattenFloat("risk_stddev_by_rl", s.RiskStdDevByRL)
	return p
}

// ApplyDerivedMetrics evaluates each named govaluate expression over
// s's fields (see params) and stores the results on s.Derived. A
// missing variable evaluates to zero rather than failing the whole
// report, since a job descriptor may reference an RL with no cells.
func (s *Summary) ApplyDerivedMetrics(exprs map[string]string) error {
	if len(exprs) == 0 {
		return nil
	}
	params := s.params()
	s.Derived = make(map[string]float64, len(exprs))
	for name, expr := range exprs {
		e, err := govaluate.NewEvaluableExpressionWithFunctions(expr, nil)
		if err != nil {
			return fmt.Errorf("report.ApplyDerivedMetrics: %q: %w", name, err)
		}
		for _, v := range e.Vars() {
			if _, ok := params[v]; !ok {
				params[v] = 0.0
			}
		}
		result, err := e.Evaluate(params)
		if err != nil {
			return fmt.Errorf("report.ApplyDerivedMetrics: %q: %w", name, err)
		}
		v, ok := result.(float64)
		if !ok {
			return fmt.Errorf("report.ApplyDerivedMetrics: %q: expression did not evaluate to a number", name)
		}
		s.Derived[name] = v
	}
	return nil
}

// WriteJSON writes the res_data artifact.
func WriteJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

func f(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// WriteMap writes the main per-cell layer: id, lat, lon, rl, risk,
// urban_prob for every AoI-inside cell.
func WriteMap(w io.Writer, g *grid.Grid) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()
	if err := cw.Write([]string{"id", "lat", "lon", "rl", "risk", "urban_prob"}); err != nil {
		return err
	}
	for _, id := range g.ZonesInside {
		c := g.Center(id)
		row := []string{
			strconv.Itoa(id), f(c.Lat), f(c.Lon),
			strconv.Itoa(g.RL[id]), f(g.Risk(id)), f(g.UrbanProb(id)),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

// WriteEDUs writes one row per placed EDU: id, lat, lon, rl, type.
func WriteEDUs(w io.Writer, g *grid.Grid) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()
	if err := cw.Write([]string{"id", "lat", "lon", "rl", "type"}); err != nil {
		return err
	}
	for rl, ids := range g.EDUs {
		for _, id := range ids {
			c := g.Center(id)
			row := []string{
				strconv.Itoa(id), f(c.Lat), f(c.Lon),
				strconv.Itoa(rl), g.EDUType[id].String(),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	return cw.Error()
}

// writeBoolLayer writes id, lat, lon for every AoI-inside cell where
// include reports true; shared by roads/rivers.
func writeBoolLayer(w io.Writer, g *grid.Grid, include func(id int) bool) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()
	if err := cw.Write([]string{"id", "lat", "lon"}); err != nil {
		return err
	}
	for _, id := range g.ZonesInside {
		if !include(id) {
			continue
		}
		c := g.Center(id)
		if err := cw.Write([]string{strconv.Itoa(id), f(c.Lat), f(c.Lon)}); err != nil {
			return err
		}
	}
	return cw.Error()
}

// WriteRoads writes the road-cell layer.
func WriteRoads(w io.Writer, g *grid.Grid) error {
	return writeBoolLayer(w, g, func(id int) bool { return g.IsRoad[id] })
}

// WriteRivers writes the river-cell layer.
func WriteRivers(w io.Writer, g *grid.Grid) error {
	return writeBoolLayer(w, g, func(id int) bool { return g.IsRiver[id] })
}

// WriteElevation writes id, lat, lon, elevation, risk_elevation for
// every AoI-inside cell. It writes every row whether or not the
// elevation layer was computed; without it the values are zero.
func WriteElevation(w io.Writer, g *grid.Grid) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()
	if err := cw.Write([]string{"id", "lat", "lon", "elevation", "risk_elevation"}); err != nil {
		return err
	}
	for _, id := range g.ZonesInside {
		c := g.Center(id)
		row := []string{strconv.Itoa(id), f(c.Lat), f(c.Lon), f(g.Elevation(id)), f(g.RiskElevation(id))}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

// WriteSlope writes id, lat, lon, slope for every AoI-inside cell.
func WriteSlope(w io.Writer, g *grid.Grid) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()
	if err := cw.Write([]string{"id", "lat", "lon", "slope"}); err != nil {
		return err
	}
	for _, id := range g.ZonesInside {
		c := g.Center(id)
		if err := cw.Write([]string{strconv.Itoa(id), f(c.Lat), f(c.Lon), f(g.Slope(id))}); err != nil {
			return err
		}
	}
	return cw.Error()
}

// WriteConnectivity writes id, lat, lon, dpconn for every AoI-inside
// cell.
func WriteConnectivity(w io.Writer, g *grid.Grid) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()
	if err := cw.Write([]string{"id", "lat", "lon", "dpconn"}); err != nil {
		return err
	}
	for _, id := range g.ZonesInside {
		c := g.Center(id)
		if err := cw.Write([]string{strconv.Itoa(id), f(c.Lat), f(c.Lon), f(g.DPConn(id))}); err != nil {
			return err
		}
	}
	return cw.Error()
}
