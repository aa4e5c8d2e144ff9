// Package engine provides a narrow client for the external AI task engine.
// The engine is an opaque collaborator: it accepts a structured job
// specification and eventually produces a result, a failure, or nothing yet.
// The client holds no per-job or per-caller state; the credential travels
// with each call.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout is the default HTTP request timeout for engine calls.
const DefaultTimeout = 60 * time.Second

// maxResponseBytes bounds how much of an engine response is read.
const maxResponseBytes = 4 << 20 // 4 MiB

// TaskSpec is the structured job specification submitted to the engine.
// OutputSchema is fixed across all submissions; only Input varies.
type TaskSpec struct {
	Input        string          `json:"input"`
	OutputSchema json.RawMessage `json:"output_schema"`
}

// RunResult is the engine's view of a run at poll time. Status is the raw
// upstream status string; Output is the run's output content when present.
type RunResult struct {
	Status string
	Output json.RawMessage
}

// Client is the contract with the task engine: submit a spec, poll a run.
// Implementations must be safe for concurrent use.
type Client interface {
	Submit(ctx context.Context, apiKey string, spec TaskSpec) (string, error)
	Poll(ctx context.Context, apiKey, runID string) (*RunResult, error)
}

// HTTPClient talks to the task engine's REST API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a client for the engine at baseURL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultTimeout},
	}
}

type submitResponse struct {
	RunID string `json:"run_id"`
}

type pollResponse struct {
	Run struct {
		Status string `json:"status"`
	} `json:"run"`
	Output struct {
		Content json.RawMessage `json:"content"`
	} `json:"output"`
}

// Submit creates exactly one task run per call and returns its opaque run id.
// No retries are performed; resubmission creates a new run.
func (c *HTTPClient) Submit(ctx context.Context, apiKey string, spec TaskSpec) (string, error) {
	reqURL := c.baseURL + "/v1/tasks/runs"

	body, err := json.Marshal(spec)
	if err != nil {
		return "", &Error{Op: "submit", URL: reqURL, Message: "failed to encode task spec", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return "", &Error{Op: "submit", URL: reqURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &Error{Op: "submit", URL: reqURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &Error{Op: "submit", URL: reqURL, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ErrSubmissionRejected{StatusCode: resp.StatusCode}
	}

	var payload submitResponse
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return "", &ErrSubmissionRejected{StatusCode: resp.StatusCode}
	}
	if payload.RunID == "" {
		return "", &ErrSubmissionRejected{StatusCode: resp.StatusCode}
	}

	return payload.RunID, nil
}

// Poll queries the engine once for the given run. It performs no internal
// retry loop; polling cadence is the caller's responsibility.
func (c *HTTPClient) Poll(ctx context.Context, apiKey, runID string) (*RunResult, error) {
	reqURL := c.baseURL + "/v1/tasks/runs/" + runID + "/result"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &Error{Op: "poll", URL: reqURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("x-api-key", apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &Error{Op: "poll", URL: reqURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &Error{Op: "poll", URL: reqURL, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, &ErrRunNotFound{RunID: runID}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Op: "poll", URL: reqURL, Message: "unexpected status " + resp.Status}
	}

	var payload pollResponse
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, &Error{Op: "poll", URL: reqURL, Message: "failed to decode response", Cause: err}
	}

	return &RunResult{
		Status: payload.Run.Status,
		Output: payload.Output.Content,
	}, nil
}
