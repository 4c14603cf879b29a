// Package webhook implements the SEND_WEBHOOK action.
package webhook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/relaycrm/relay/pkg/services"
	"github.com/relaycrm/relay/pkg/template"
)

type Handler struct {
	url     string
	headers map[string]string
	caller  services.WebhookCaller
}

func NewHandler(config map[string]any, caller services.WebhookCaller) (*Handler, error) {
	url, ok := config["url"].(string)
	if !ok || url == "" {
		return nil, fmt.Errorf("missing or invalid 'url' in configuration")
	}

	headers := make(map[string]string)

	if headersConfig, exists := config["headers"]; exists {
		headersMap, ok := headersConfig.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("invalid 'headers' in configuration")
		}

		for k, v := range headersMap {
			strVal, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("invalid header value for %q", k)
			}

			headers[k] = strVal
		}
	}

	return &Handler{url: url, headers: headers, caller: caller}, nil
}

func (h *Handler) Execute(ctx context.Context, triggerData map[string]any, logger *slog.Logger) (any, error) {
	url, err := template.Render(h.url, triggerData)
	if err != nil {
		return nil, err
	}

	// The webhook body is the trigger payload itself; receivers get the same
	// snapshot the engine evaluated.
	if err := h.caller.CallWebhook(ctx, url, h.headers, triggerData); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Webhook delivered", "url", url)

	return map[string]any{"url": url}, nil
}
