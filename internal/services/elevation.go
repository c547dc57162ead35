package services

import "fmt"

const elevationBatchSize = 500

type elevationLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type elevationRequest struct {
	Locations []elevationLocation `json:"locations"`
}

type elevationResult struct {
	Elevation float64 `json:"elevation"`
}

type elevationResponse struct {
	Results []elevationResult `json:"results"`
}

// Elevation looks up the elevation (meters) of each coordinate in
// lats/lons, batching requests to elevationBatchSize locations at a
// time against POST baseURL+"/lookup".
func (c *Client) Elevation(baseURL string, lats, lons []float64) ([]float64, error) {
	if len(lats) != len(lons) {
		return nil, fmt.Errorf("services.Elevation: mismatched lat/lon lengths (%d, %d)", len(lats), len(lons))
	}

	out := make([]float64, 0, len(lats))
	for start := 0; start < len(lats); start += elevationBatchSize {
		end := start + elevationBatchSize
		if end > len(lats) {
			end = len(lats)
		}

		req := elevationRequest{Locations: make([]elevationLocation, end-start)}
		for i := start; i < end; i++ {
			req.Locations[i-start] = elevationLocation{Latitude: lats[i], Longitude: lons[i]}
		}

		var resp elevationResponse
		if err := c.postJSON(baseURL+"/lookup", req, &resp); err != nil {
			return nil, err
		}
		if len(resp.Results) != end-start {
			return nil, fmt.Errorf("services.Elevation: expected %d results, got %d", end-start, len(resp.Results))
		}
		for _, r := range resp.Results {
			out = append(out, r.Elevation)
		}
	}
	return out, nil
}
