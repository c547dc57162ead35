package services

import "fmt"

// AccessPoint mirrors the JSON shape returned by the cell-coverage
// service.
type AccessPoint struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Range float64 `json:"range"`
	Type  string  `json:"type"`
}

// AccessPoints fetches the connectivity access points covering the
// given bbox from GET baseURL+"/cells/{left}/{top}/{right}/{bottom}".
func (c *Client) AccessPoints(baseURL string, left, top, right, bottom float64) ([]AccessPoint, error) {
	url := fmt.Sprintf("%s/cells/%v/%v/%v/%v", baseURL, left, top, right, bottom)
	var out []AccessPoint
	if err := c.getJSON(url, &out); err != nil {
		return nil, err
	}
	return out, nil
}
