package whatsapp

import (
	"context"

	"github.com/relaycrm/relay/pkg/models"
	"github.com/relaycrm/relay/pkg/protocol"
	"github.com/relaycrm/relay/pkg/services"
)

type Factory struct {
	sender services.WhatsAppSender
}

func NewFactory(sender services.WhatsAppSender) *Factory {
	return &Factory{sender: sender}
}

func (f *Factory) Create(_ context.Context, config map[string]any) (protocol.ActionHandler, error) {
	return NewHandler(config, f.sender)
}

func (f *Factory) ID() string {
	return string(models.ActionSendWhatsApp)
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"to": map[string]any{
				"type":        "string",
				"description": "Recipient phone number. Supports templating against trigger data.",
				"examples":    []string{"{{.trigger_data.phone}}"},
			},
			"message": map[string]any{
				"type":        "string",
				"description": "Message text. Supports templating.",
			},
		},
		"required":             []string{"to", "message"},
		"additionalProperties": false,
	}
}
