// Package geojson decodes an Area-of-Interest GeoJSON document into the
// outer rings of its first Polygon or MultiPolygon feature, using the
// teacher's own ctessum/geom geojson codec for the Polygon case and a
// minimal MultiPolygon decode for the rest (the vendored codec predates
// MultiPolygon support).
package geojson

import (
	"encoding/json"
	"fmt"

	"github.com/ctessum/geom"
	ctgeojson "github.com/ctessum/geom/encoding/geojson"
)

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	Geometry rawGeometry `json:"geometry"`
}

type rawGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Decode reads a FeatureCollection and returns the polygons of its
// first feature, whether that feature is a Polygon or a MultiPolygon.
// Each polygon keeps all its rings, holes included; the grid's AoI
// mask uses only the first (outer) ring of each.
func Decode(data []byte) ([]geom.Polygon, error) {
	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("geojson.Decode: %w", err)
	}
	if len(fc.Features) == 0 {
		return nil, fmt.Errorf("geojson.Decode: no features")
	}
	g := fc.Features[0].Geometry

	switch g.Type {
	case "Polygon":
		ctg := &ctgeojson.Geometry{Type: "Polygon"}
		if err := json.Unmarshal(g.Coordinates, &ctg.Coordinates); err != nil {
			return nil, fmt.Errorf("geojson.Decode: polygon coordinates: %w", err)
		}
		geometry, err := ctgeojson.FromGeoJSON(ctg)
		if err != nil {
			return nil, fmt.Errorf("geojson.Decode: %w", err)
		}
		poly, ok := geometry.(geom.Polygon)
		if !ok {
			return nil, fmt.Errorf("geojson.Decode: expected polygon, got %T", geometry)
		}
		return []geom.Polygon{poly}, nil

	case "MultiPolygon":
		var raw [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &raw); err != nil {
			return nil, fmt.Errorf("geojson.Decode: multipolygon coordinates: %w", err)
		}
		polys := make([]geom.Polygon, 0, len(raw))
		for _, p := range raw {
			poly, err := ringsToPolygon(p)
			if err != nil {
				return nil, err
			}
			polys = append(polys, poly)
		}
		return polys, nil

	default:
		return nil, fmt.Errorf("geojson.Decode: unsupported geometry type %q", g.Type)
	}
}

func ringsToPolygon(rings [][][]float64) (geom.Polygon, error) {
	poly := make(geom.Polygon, len(rings))
	for i, ring := range rings {
		points := make([]geom.Point, len(ring))
		for j, coord := range ring {
			if len(coord) != 2 {
				return nil, fmt.Errorf("geojson.Decode: ring point with %d coordinates", len(coord))
			}
			points[j] = geom.Point{X: coord[0], Y: coord[1]}
		}
		poly[i] = points
	}
	return poly, nil
}
