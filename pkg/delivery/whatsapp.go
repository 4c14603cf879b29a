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

const whatsappTimeout = 15 * time.Second

// WhatsAppConfig points the sender at a WhatsApp HTTP gateway.
type WhatsAppConfig struct {
	GatewayURL string
	APIKey     string
}

// GatewayWhatsAppSender delivers messages through a WhatsApp HTTP gateway.
type GatewayWhatsAppSender struct {
	config WhatsAppConfig
	client *retryablehttp.Client
}

func NewGatewayWhatsAppSender(config WhatsAppConfig) *GatewayWhatsAppSender {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.HTTPClient.Timeout = whatsappTimeout
	client.Logger = nil

	return &GatewayWhatsAppSender{config: config, client: client}
}

func (s *GatewayWhatsAppSender) SendWhatsApp(ctx context.Context, to, message string) error {
	if to == "" {
		return fmt.Errorf("whatsapp recipient is required")
	}

	if s.config.GatewayURL == "" {
		return fmt.Errorf("whatsapp gateway is not configured")
	}

	payload, err := json.Marshal(map[string]string{
		"to":      to,
		"message": message,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal whatsapp payload: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, "POST", s.config.GatewayURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build whatsapp request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if s.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp send to %s failed: %w", to, err)
	}

	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("whatsapp gateway returned status %d", resp.StatusCode)
	}

	return nil
}
