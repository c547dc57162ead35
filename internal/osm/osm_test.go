package osm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOSM = `<?xml version="1.0"?>
<osm>
  <node id="1" lat="10.0" lon="20.0">
    <tag k="amenity" v="hospital"/>
  </node>
  <node id="2" lat="10.001" lon="20.001"/>
  <node id="3" lat="10.002" lon="20.002"/>
  <way id="100">
    <nd ref="2"/>
    <nd ref="3"/>
    <tag k="highway" v="primary"/>
  </way>
  <way id="101">
    <nd ref="1"/>
    <nd ref="2"/>
    <tag k="waterway" v="river"/>
  </way>
</osm>`

func TestExtractFindsPoIByTag(t *testing.T) {
	types := Types{"amenity": {"hospital": TypeWeight{Weight: 1}}}
	out, err := Extract(strings.NewReader(sampleOSM), types)
	require.NoError(t, err)

	require.Len(t, out.PoIs, 1)
	assert.Equal(t, 10.0, out.PoIs[0].Lat)
	assert.Equal(t, 20.0, out.PoIs[0].Lon)
	assert.Equal(t, 1.0, out.PoIs[0].Weight)
}

func TestExtractFindsRoadsAndRivers(t *testing.T) {
	out, err := Extract(strings.NewReader(sampleOSM), nil)
	require.NoError(t, err)

	require.Len(t, out.Roads, 1)
	require.Len(t, out.Rivers, 1)
	assert.Equal(t, 10.001, out.Roads[0].A.Lat)
	assert.Equal(t, 10.002, out.Roads[0].B.Lat)
}

func TestExtractIgnoresUnmatchedTags(t *testing.T) {
	types := Types{"amenity": {"restaurant": TypeWeight{Weight: 2}}}
	out, err := Extract(strings.NewReader(sampleOSM), types)
	require.NoError(t, err)
	assert.Empty(t, out.PoIs)
}

func TestExtractRejectsMalformedXML(t *testing.T) {
	_, err := Extract(strings.NewReader("<osm><node"), nil)
	assert.Error(t, err)
}
