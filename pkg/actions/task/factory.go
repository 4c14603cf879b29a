package task

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
	return string(models.ActionCreateTask)
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Task title. Supports templating against trigger data.",
				"examples":    []string{"Follow up with {{.trigger_data.name}}"},
			},
			"description": map[string]any{
				"type":        "string",
				"description": "Task body. Supports templating against trigger data.",
			},
			"assignee_id": map[string]any{
				"type":        "string",
				"description": "User the new task is assigned to",
			},
			"due_in_days": map[string]any{
				"type":        "integer",
				"description": "Days from now until the task is due",
				"minimum":     0,
			},
		},
		"required":             []string{"title"},
		"additionalProperties": false,
	}
}
