package services

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/cenkalti/backoff"

	"github.com/riskgrid/riskgrid/internal/errs"
)

const defaultOverpassEndpoint = "https://overpass-api.de/api/interpreter"

// Overpass is a thin query-building client for the Overpass API, used
// only by the daemon to materialize an OSM XML extract for a bbox
// before invoking the core; the core itself only ever reads a local
// OSM XML file.
type Overpass struct {
	Client   *Client
	Endpoint string
}

// NewOverpass builds an Overpass client against the public endpoint.
// Pass a non-empty endpoint to target a private instance.
func NewOverpass(client *Client, endpoint string) *Overpass {
	if endpoint == "" {
		endpoint = defaultOverpassEndpoint
	}
	return &Overpass{Client: client, Endpoint: endpoint}
}

// FetchBBox builds a query selecting nodes, ways, and relations within
// [left,bottom,right,top] and returns the raw OSM XML response body.
func (o *Overpass) FetchBBox(left, bottom, right, top float64) ([]byte, error) {
	query := fmt.Sprintf(
		`[out:xml][timeout:60];(node(%v,%v,%v,%v);way(%v,%v,%v,%v);relation(%v,%v,%v,%v););out body;>;out skel qt;`,
		bottom, left, top, right, bottom, left, top, right, bottom, left, top, right)

	var body []byte
	op := func() error {
		resp, err := o.Client.HTTP.PostForm(o.Endpoint, url.Values{"data": {query}})
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			return fmt.Errorf("services.Overpass: server error %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("services.Overpass: status %d", resp.StatusCode))
		}
		b, err := readAll(resp.Body)
		if err != nil {
			return err
		}
		body = b
		return nil
	}

	b := o.Client.backoff()
	if err := backoff.Retry(op, b); err != nil {
		return nil, errs.ExternalTimeout("services.Overpass.FetchBBox", err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, fmt.Errorf("services.Overpass.FetchBBox: empty response")
	}
	return body, nil
}
