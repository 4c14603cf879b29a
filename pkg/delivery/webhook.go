package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const webhookTimeout = 10 * time.Second

// HTTPWebhookCaller POSTs JSON payloads to third-party URLs with a bounded
// retry. Responses outside 2xx are treated as failures.
type HTTPWebhookCaller struct {
	client *retryablehttp.Client
}

func NewHTTPWebhookCaller() *HTTPWebhookCaller {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.HTTPClient.Timeout = webhookTimeout
	client.Logger = nil

	return &HTTPWebhookCaller{client: client}
}

func (c *HTTPWebhookCaller) CallWebhook(ctx context.Context, url string, headers map[string]string, payload map[string]any) error {
	if url == "" {
		return fmt.Errorf("webhook url is required")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook call to %s failed: %w", url, err)
	}

	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
