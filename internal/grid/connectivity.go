package grid

import (
	"github.com/riskgrid/riskgrid/internal/geo"
	"github.com/riskgrid/riskgrid/internal/parallel"
)

// ConnectivityParams holds the per-access-point-type weighting used to
// derive DPConn: sigma(t) = wS*S_t + wT*T_t + wR*R_t - wC*C_t.
type ConnectivityParams struct {
	S, T, R, C float64
}

// ConnectivityWeights are the global weights applied to every type's
// parameters when computing sigma(t).
type ConnectivityWeights struct {
	WS, WT, WR, WC float64
}

func sigma(p ConnectivityParams, w ConnectivityWeights) float64 {
	return w.WS*p.S + w.WT*p.T + w.WR*p.R - w.WC*p.C
}

// ComputeDPConn computes the Dependable-Quality Connectivity score for
// every AoI-inside cell from a set of access points, their per-type
// parameters, and the global weights. dpconn(z) is the sum of sigma(t)
// over every type t whose range covers z, divided by the sum of sigma(t)
// over every observed type. If that total is zero, or no cell is
// covered by any access point, dpconn is left at zero everywhere. A type
// with no entry in params uses the entry under the empty key "", if any.
func (g *Grid) ComputeDPConn(aps []AccessPoint, params map[string]ConnectivityParams, weights ConnectivityWeights, workers int) {
	observedTypes := make(map[string]bool)
	for _, ap := range aps {
		observedTypes[ap.Type] = true
	}

	var total float64
	sigmaByType := make(map[string]float64, len(observedTypes))
	for t := range observedTypes {
		p, ok := params[t]
		if !ok {
			p = params[""]
		}
		s := sigma(p, weights)
		sigmaByType[t] = s
		total += s
	}
	if total == 0 {
		return
	}

	zones := g.ZonesInside
	parallel.Do(workers, len(zones), func(i int) {
		id := zones[i]
		center := g.Center(id)

		covering := make(map[string]bool)
		for _, ap := range aps {
			if covering[ap.Type] {
				continue
			}
			d := geo.Haversine(center, geo.Point{Lat: ap.Lat, Lon: ap.Lon})
			if d <= ap.RangeMeters {
				covering[ap.Type] = true
			}
		}
		if len(covering) == 0 {
			return
		}
		var sum float64
		for t := range covering {
			sum += sigmaByType[t]
		}
		g.SetDPConn(id, sum/total)
	})
}
