package cache

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskgrid/riskgrid/internal/errs"
	"github.com/riskgrid/riskgrid/internal/grid"
)

func buildGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.New(0, 0, 0.01, 0.01, 110)
	require.NoError(t, err)
	g.MaskAoI(0)
	for _, id := range g.ZonesInside {
		g.RL[id] = 2
		g.SetRisk(id, 0.5)
	}
	g.PlaceEDU(g.ZonesInside[0], 2, grid.EDUTight)
	return g
}

func TestSaveLoadRoundTrip(t *testing.T) {
	g := buildGrid(t)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, g))

	loaded, err := Load(&buf)
	require.NoError(t, err)

	assert.Equal(t, g.N(), loaded.N())
	assert.Equal(t, g.ZonesInside, loaded.ZonesInside)
	for _, id := range g.ZonesInside {
		assert.Equal(t, g.RL[id], loaded.RL[id])
		assert.Equal(t, g.Risk(id), loaded.Risk(id))
	}
	assert.Equal(t, g.EDUs, loaded.EDUs)
}

func TestLoadRejectsCorruptData(t *testing.T) {
	_, err := Load(strings.NewReader("not json"))
	require.Error(t, err)
	e, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.KindCacheCorrupt, e.Kind)
}

func TestLoadRejectsWrongDataVersion(t *testing.T) {
	_, err := Load(strings.NewReader(`{"DataVersion":"bogus"}`))
	require.Error(t, err)
	e, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.KindCacheCorrupt, e.Kind)
}
