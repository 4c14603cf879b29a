package updatefield

import (
	"context"

	"github.com/relaycrm/relay/pkg/models"
	"github.com/relaycrm/relay/pkg/protocol"
	"github.com/relaycrm/relay/pkg/services"
)

type Factory struct {
	entities *services.Entities
}

func NewFactory(entities *services.Entities) *Factory {
	return &Factory{entities: entities}
}

func (f *Factory) Create(_ context.Context, config map[string]any) (protocol.ActionHandler, error) {
	return NewHandler(config, f.entities)
}

func (f *Factory) ID() string {
	return string(models.ActionUpdateField)
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"field": map[string]any{
				"type":        "string",
				"description": "Entity field to set",
			},
			"value": map[string]any{
				"description": "New value. String values support templating against trigger data.",
			},
		},
		"required":             []string{"field", "value"},
		"additionalProperties": false,
	}
}
