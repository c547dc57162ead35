// Package osm decodes pruned OpenStreetMap XML extracts into weighted
// points of interest and road/river segments, the way
// cityzones/osmpois.py's extract_nodes/extract_pois does.
package osm

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/riskgrid/riskgrid/internal/geo"
	"github.com/riskgrid/riskgrid/internal/grid"
)

var roadHighways = map[string]bool{
	"motorway":     true,
	"trunk":        true,
	"primary":      true,
	"secondary":    true,
	"tertiary":     true,
	"unclassified": true,
	"residential":  true,
}

type xmlTag struct {
	K string `xml:"k,attr"`
	V string `xml:"v,attr"`
}

type xmlNode struct {
	ID  int64    `xml:"id,attr"`
	Lat float64  `xml:"lat,attr"`
	Lon float64  `xml:"lon,attr"`
	Tag []xmlTag `xml:"tag"`
}

type xmlWayNode struct {
	Ref int64 `xml:"ref,attr"`
}

type xmlWay struct {
	ID  int64        `xml:"id,attr"`
	ND  []xmlWayNode `xml:"nd"`
	Tag []xmlTag     `xml:"tag"`
}

type xmlMember struct {
	Type string `xml:"type,attr"`
	Ref  int64  `xml:"ref,attr"`
}

type xmlRelation struct {
	ID     int64       `xml:"id,attr"`
	Member []xmlMember `xml:"member"`
	Tag    []xmlTag    `xml:"tag"`
}

type xmlOSM struct {
	Nodes     []xmlNode     `xml:"node"`
	Ways      []xmlWay      `xml:"way"`
	Relations []xmlRelation `xml:"relation"`
}

// TypeWeight is the weight assigned to a single tag value, e.g.
// pois_types["amenity"]["hospital"].
type TypeWeight struct {
	Weight float64
}

// Types maps a tag key to the set of values that contribute a PoI, and
// the weight each value contributes.
type Types map[string]map[string]TypeWeight

// Extracted holds everything pulled out of an OSM document.
type Extracted struct {
	PoIs   []grid.PoI
	Roads  []grid.Segment
	Rivers []grid.Segment
}

type node struct {
	lat, lon float64
	tags     map[string]string
}

func point(n node) geo.Point { return geo.Point{Lat: n.lat, Lon: n.lon} }

// Extract decodes an OSM XML document from r, matching nodes/ways/
// relations against types to produce PoIs, and matching way/relation
// highway/water/waterway tags to produce road and river segments.
func Extract(r io.Reader, types Types) (Extracted, error) {
	var doc xmlOSM
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return Extracted{}, fmt.Errorf("osm.Extract: decode: %w", err)
	}

	nodes := make(map[int64]node, len(doc.Nodes))
	for _, n := range doc.Nodes {
		tags := make(map[string]string, len(n.Tag))
		for _, t := range n.Tag {
			tags[t.K] = t.V
		}
		nodes[n.ID] = node{lat: n.Lat, lon: n.Lon, tags: tags}
	}

	var out Extracted

	for _, n := range nodes {
		appendPoIsForTags(&out, n.tags, n.lat, n.lon, types)
	}

	for _, w := range doc.Ways {
		wayNodes := make([]node, 0, len(w.ND))
		for _, nd := range w.ND {
			if n, ok := nodes[nd.Ref]; ok {
				wayNodes = append(wayNodes, n)
			}
		}
		if len(wayNodes) == 0 {
			continue
		}
		tags := make(map[string]string, len(w.Tag))
		for _, t := range w.Tag {
			tags[t.K] = t.V
		}
		first := wayNodes[0]
		appendPoIsForTags(&out, tags, first.lat, first.lon, types)
		appendSegments(&out, wayNodes, tags)
	}

	for _, rel := range doc.Relations {
		var relNodes []node
		for _, m := range rel.Member {
			if m.Type != "way" {
				if m.Type == "node" {
					if n, ok := nodes[m.Ref]; ok {
						relNodes = append(relNodes, n)
					}
				}
				continue
			}
			for _, w := range doc.Ways {
				if w.ID != m.Ref {
					continue
				}
				for _, nd := range w.ND {
					if n, ok := nodes[nd.Ref]; ok {
						relNodes = append(relNodes, n)
					}
				}
			}
		}
		if len(relNodes) == 0 {
			continue
		}
		tags := make(map[string]string, len(rel.Tag))
		for _, t := range rel.Tag {
			tags[t.K] = t.V
		}
		first := relNodes[0]
		appendPoIsForTags(&out, tags, first.lat, first.lon, types)
		appendSegments(&out, relNodes, tags)
	}

	return out, nil
}

func appendPoIsForTags(out *Extracted, tags map[string]string, lat, lon float64, types Types) {
	for k, v := range tags {
		values, ok := types[k]
		if !ok {
			continue
		}
		tw, ok := values[v]
		if !ok {
			continue
		}
		out.PoIs = append(out.PoIs, grid.PoI{Lat: lat, Lon: lon, Weight: tw.Weight})
	}
}

func appendSegments(out *Extracted, nodes []node, tags map[string]string) {
	if len(nodes) < 2 {
		return
	}

	isRoad := roadHighways[tags["highway"]]
	isRiver := tags["water"] == "river" || tags["waterway"] == "river" || tags["water"] == "lake"
	if !isRoad && !isRiver {
		return
	}

	for i := 0; i < len(nodes)-1; i++ {
		seg := grid.Segment{
			A: point(nodes[i]),
			B: point(nodes[i+1]),
		}
		if isRoad {
			out.Roads = append(out.Roads, seg)
		} else {
			out.Rivers = append(out.Rivers, seg)
		}
	}
}
