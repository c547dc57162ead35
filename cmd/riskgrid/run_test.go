package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskgrid/riskgrid/internal/grid"
	"github.com/riskgrid/riskgrid/internal/placement"
	"github.com/riskgrid/riskgrid/internal/report"
	"github.com/riskgrid/riskgrid/internal/run"
)

func TestEDUAlgToPolicyMapsAllFiveNames(t *testing.T) {
	// Per the job descriptor's edu_alg -> §4.9 policy mapping, "balanced"
	// runs the Unbalanced algorithm and "enhanced" runs Balanced.
	cases := map[string]string{
		"random":          "random",
		"balanced":        "unbalanced",
		"enhanced":        "balanced",
		"restricted":      "restricted",
		"restricted_plus": "restricted+",
	}
	for alg, want := range cases {
		assert.Equal(t, want, eduAlgToPolicy(alg))
	}
}

func TestWriteOutputsDirectWritesResData(t *testing.T) {
	dir := t.TempDir()
	g, err := grid.New(0, 0, 0.01, 0.01, 110)
	require.NoError(t, err)
	g.MaskAoI(0)

	resPath := filepath.Join(dir, "res.json")
	err = writeOutputsDirect(resPath, g)
	require.NoError(t, err)

	data, err := os.ReadFile(resPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "zones_by_rl")
}

func TestEDUAlgToPolicyBalancedAndEnhancedPlaceDifferently(t *testing.T) {
	in := run.Input{
		Left: 0, Bottom: 0, Right: 0.01, Top: 0.01,
		ZoneSizeMeters: 110,
		M:              3,
		NLoose:         2,
		NTight:         1,
		PoIs: []grid.PoI{
			{Lat: 0.005, Lon: 0.005, Weight: 10},
			{Lat: 0.001, Lon: 0.001, Weight: -20},
		},
	}

	g, err := run.BuildGrid(in, run.Options{})
	require.NoError(t, err)

	wireBalanced, err := placement.ParsePolicy(eduAlgToPolicy("balanced"))
	require.NoError(t, err)
	assert.Equal(t, placement.PolicyUnbalanced, wireBalanced, `edu_alg "balanced" must run the Unbalanced algorithm`)

	wireEnhanced, err := placement.ParsePolicy(eduAlgToPolicy("enhanced"))
	require.NoError(t, err)
	assert.Equal(t, placement.PolicyBalanced, wireEnhanced, `edu_alg "enhanced" must run the Balanced algorithm`)

	require.NoError(t, run.PlaceEDUs(g, in.M, in.NLoose, in.NTight, run.Options{Policy: wireBalanced}))
	fromBalancedWire := g.EDUs

	require.NoError(t, run.PlaceEDUs(g, in.M, in.NLoose, in.NTight, run.Options{Policy: wireEnhanced}))
	fromEnhancedWire := g.EDUs

	assert.NotEqual(t, fromBalancedWire, fromEnhancedWire, `"balanced" (Unbalanced's row-major step/stride scan) and "enhanced" (Balanced's min-distance scan) must place EDUs differently`)
}

// writeOutputsDirect exercises the res_data write path in isolation,
// without needing a full config.JobDescriptor.
func writeOutputsDirect(resPath string, g *grid.Grid) error {
	summary := report.Summarize(g, 0, 0)
	f, err := os.Create(resPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return report.WriteJSON(f, summary)
}
