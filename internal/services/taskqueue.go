package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cenkalti/backoff"

	"github.com/riskgrid/riskgrid/internal/errs"
)

// Task is a queued job handed to the daemon: a job descriptor (as raw
// JSON, since the daemon rewrites its input/output paths before
// decoding it into a config.JobDescriptor) plus its AoI GeoJSON,
// mirroring the shape worker.py reads off its /task endpoint.
type Task struct {
	ID      string          `json:"id"`
	Config  json.RawMessage `json:"config"`
	GeoJSON json.RawMessage `json:"geojson"`
}

// TaskResult is posted back after a job completes.
type TaskResult struct {
	ID   string `json:"id"`
	Map  string `json:"map"`
	EDUs string `json:"edus"`
}

// GetTask polls baseURL+"/task" for a queued job. A 204 response means
// no task is available (ok=false, err=nil); any other non-200 status
// is a transient failure retried with backoff.
func (c *Client) GetTask(baseURL string) (task *Task, ok bool, err error) {
	op := func() error {
		resp, getErr := c.HTTP.Get(baseURL + "/task")
		if getErr != nil {
			return getErr
		}
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusNoContent:
			ok = false
			return nil
		case http.StatusOK:
			var t Task
			if decErr := json.NewDecoder(resp.Body).Decode(&t); decErr != nil {
				return backoff.Permanent(decErr)
			}
			task = &t
			ok = true
			return nil
		default:
			return fmt.Errorf("services.GetTask: status %d", resp.StatusCode)
		}
	}

	if retryErr := backoff.Retry(op, c.backoff()); retryErr != nil {
		return nil, false, errs.ExternalTimeout("services.GetTask", retryErr)
	}
	return task, ok, nil
}

// PostResult uploads a completed job's outputs.
func (c *Client) PostResult(baseURL string, result TaskResult) error {
	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("services.PostResult: %w", err)
	}

	op := func() error {
		resp, postErr := c.HTTP.Post(baseURL+"/result", "application/json", bytes.NewReader(body))
		if postErr != nil {
			return postErr
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			return fmt.Errorf("services.PostResult: server error %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusCreated {
			return backoff.Permanent(fmt.Errorf("services.PostResult: status %d", resp.StatusCode))
		}
		return nil
	}

	if err := backoff.Retry(op, c.backoff()); err != nil {
		return errs.ExternalTimeout("services.PostResult", err)
	}
	return nil
}
