package email

import (
	"context"

	"github.com/relaycrm/relay/pkg/models"
	"github.com/relaycrm/relay/pkg/protocol"
	"github.com/relaycrm/relay/pkg/services"
)

type Factory struct {
	sender services.EmailSender
}

func NewFactory(sender services.EmailSender) *Factory {
	return &Factory{sender: sender}
}

func (f *Factory) Create(_ context.Context, config map[string]any) (protocol.ActionHandler, error) {
	return NewHandler(config, f.sender)
}

func (f *Factory) ID() string {
	return string(models.ActionSendEmail)
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"to": map[string]any{
				"type":        "string",
				"description": "Recipient address. Supports templating against trigger data.",
				"examples":    []string{"sales@example.com", "{{.trigger_data.email}}"},
			},
			"subject": map[string]any{
				"type":        "string",
				"description": "Email subject. Supports templating.",
			},
			"body": map[string]any{
				"type":        "string",
				"description": "HTML body. Supports templating.",
			},
		},
		"required":             []string{"to"},
		"additionalProperties": false,
	}
}
