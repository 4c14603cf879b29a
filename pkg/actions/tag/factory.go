package tag

import (
	"context"

	"github.com/relaycrm/relay/pkg/models"
	"github.com/relaycrm/relay/pkg/protocol"
	"github.com/relaycrm/relay/pkg/services"
)

type Factory struct {
	remove   bool
	entities *services.Entities
}

// NewAddFactory creates ADD_TAG handlers.
func NewAddFactory(entities *services.Entities) *Factory {
	return &Factory{remove: false, entities: entities}
}

// NewRemoveFactory creates REMOVE_TAG handlers.
func NewRemoveFactory(entities *services.Entities) *Factory {
	return &Factory{remove: true, entities: entities}
}

func (f *Factory) Create(_ context.Context, config map[string]any) (protocol.ActionHandler, error) {
	return NewHandler(config, f.remove, f.entities)
}

func (f *Factory) ID() string {
	if f.remove {
		return string(models.ActionRemoveTag)
	}

	return string(models.ActionAddTag)
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tag": map[string]any{
				"type":        "string",
				"description": "Tag to add to or remove from the triggering entity",
			},
		},
		"required":             []string{"tag"},
		"additionalProperties": false,
	}
}
