// Package services implements the HTTP collaborators the engine talks
// to: the cell-coverage access-point service, the elevation lookup
// service, and (for the daemon) the Overpass query service. Every
// client wraps its request in an exponential-backoff retry, matching
// the teacher's own external-fetch pattern in inmaputil/download.go
// generalized with retry since these services are remote and flaky in
// a way a local file read isn't.
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff"

	"github.com/riskgrid/riskgrid/internal/errs"
)

// Client wraps an *http.Client with a retry policy shared by every
// collaborator in this package.
type Client struct {
	HTTP       *http.Client
	MaxElapsed time.Duration
}

// NewClient builds a Client with sane defaults (30s per-request
// timeout via the http.Client, 2 minutes of total retry budget).
func NewClient() *Client {
	return &Client{
		HTTP:       &http.Client{Timeout: 30 * time.Second},
		MaxElapsed: 2 * time.Minute,
	}
}

func (c *Client) backoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.MaxElapsed
	return b
}

// getJSON issues a GET request to url and decodes the JSON response
// body into out, retrying transient failures (connection errors and
// 5xx responses) with exponential backoff.
func (c *Client) getJSON(url string, out interface{}) error {
	op := func() error {
		resp, err := c.HTTP.Get(url)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			return fmt.Errorf("services: %s: server error %d", url, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("services: %s: status %d", url, resp.StatusCode))
		}
		return json.NewDecoder(resp.Body).Decode(out)
	}

	if err := backoff.Retry(op, c.backoff()); err != nil {
		return errs.ExternalTimeout("services.getJSON "+url, err)
	}
	return nil
}

// postJSON issues a POST request with a JSON-encoded body and decodes
// the JSON response into out, with the same retry policy as getJSON.
func (c *Client) postJSON(url string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("services.postJSON: encode request: %w", err)
	}

	op := func() error {
		resp, err := c.HTTP.Post(url, "application/json", bytes.NewReader(payload))
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			return fmt.Errorf("services: %s: server error %d", url, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("services: %s: status %d", url, resp.StatusCode))
		}
		return json.NewDecoder(resp.Body).Decode(out)
	}

	if err := backoff.Retry(op, c.backoff()); err != nil {
		return errs.ExternalTimeout("services.postJSON "+url, err)
	}
	return nil
}

// readAll is a small helper used by the Overpass client, which expects
// a raw XML body rather than JSON.
func readAll(r io.Reader) ([]byte, error) { return io.ReadAll(r) }
