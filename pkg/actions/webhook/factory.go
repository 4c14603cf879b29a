package webhook

import (
	"context"

	"github.com/relaycrm/relay/pkg/models"
	"github.com/relaycrm/relay/pkg/protocol"
	"github.com/relaycrm/relay/pkg/services"
)

type Factory struct {
	caller services.WebhookCaller
}

func NewFactory(caller services.WebhookCaller) *Factory {
	return &Factory{caller: caller}
}

func (f *Factory) Create(_ context.Context, config map[string]any) (protocol.ActionHandler, error) {
	return NewHandler(config, f.caller)
}

func (f *Factory) ID() string {
	return string(models.ActionSendWebhook)
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "Destination URL. Supports templating against trigger data.",
				"examples":    []string{"https://hooks.example.com/crm"},
			},
			"headers": map[string]any{
				"type":        "object",
				"description": "Extra HTTP headers to send",
				"additionalProperties": map[string]any{
					"type": "string",
				},
			},
		},
		"required":             []string{"url"},
		"additionalProperties": false,
	}
}
