// Package breakdown asks an external generation service to derive a starter
// task set for a newly created goal, and tracks each attempt without ever
// blocking or failing goal creation.
package breakdown

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single breakdown request.
const DefaultTimeout = 30 * time.Second

// GoalPayload carries the goal attributes the generation service needs.
type GoalPayload struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	ImportanceLevel int    `json:"importance_level"`
	EffortEstimated int    `json:"effort_estimated"`
}

// Request is the wire contract with the generation service.
type Request struct {
	GoalID     string      `json:"goalId"`
	Goal       GoalPayload `json:"goal"`
	TargetDate string      `json:"targetDate"` // YYYY-MM-DD
	Language   string      `json:"language"`   // "pt" or "en"
}

// Client posts breakdown requests to the external generation service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Generate asks the service to derive a starter task set for the goal. A 2xx
// response without an "error" field means the request was accepted; the
// service inserts the actual task rows on its own schedule, so acceptance
// does not mean tasks are visible yet.
func (c *Client) Generate(ctx context.Context, req Request) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode breakdown request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate-breakdown", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build breakdown request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("breakdown request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read breakdown response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("breakdown service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	// The body is otherwise opaque, but a present "error" field marks failure
	// even on a 2xx status.
	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &parsed); err == nil && parsed.Error != "" {
		return fmt.Errorf("breakdown service error: %s", parsed.Error)
	}

	return nil
}
