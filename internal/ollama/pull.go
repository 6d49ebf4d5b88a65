package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Pulls sit outside the chat turn path and can download gigabytes; they get
// their own long deadline instead of the client's request timeout.
const pullTimeout = 30 * time.Minute

const pullRetries = 3

// Pull downloads a model, retrying transient failures.
func (c *Client) Pull(ctx context.Context, model string) error {
	url := fmt.Sprintf("%s/api/pull", c.baseURL)

	jsonData, err := json.Marshal(map[string]interface{}{
		"model":  model,
		"stream": false,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	pullClient := &http.Client{Timeout: pullTimeout}

	var lastErr error
	for attempt := 0; attempt < pullRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := pullClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("ollama API error: %d - %s", resp.StatusCode, string(body))
			continue
		}

		var result struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body, &result); err == nil && result.Error != "" {
			return fmt.Errorf("failed to pull %s: %s", model, result.Error)
		}
		return nil
	}

	return fmt.Errorf("failed to pull %s after %d attempts: %w", model, pullRetries, lastErr)
}

// PullResult reports the outcome of a background pull.
type PullResult struct {
	Model string
	Err   error
}

// PullInBackground starts Pull on its own goroutine and delivers the outcome
// on the returned channel. There is a single code path whether or not the
// caller is already inside an event loop.
func (c *Client) PullInBackground(ctx context.Context, model string) <-chan PullResult {
	done := make(chan PullResult, 1)
	go func() {
		done <- PullResult{Model: model, Err: c.Pull(ctx, model)}
	}()
	return done
}
