// Package updatefield implements the UPDATE_FIELD action.
package updatefield

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/relaycrm/relay/pkg/models"
	"github.com/relaycrm/relay/pkg/services"
	"github.com/relaycrm/relay/pkg/template"
)

type Handler struct {
	field    string
	value    any
	entities *services.Entities
}

func NewHandler(config map[string]any, entities *services.Entities) (*Handler, error) {
	field, ok := config["field"].(string)
	if !ok || field == "" {
		return nil, fmt.Errorf("missing or invalid 'field' in configuration")
	}

	value, ok := config["value"]
	if !ok {
		return nil, fmt.Errorf("missing 'value' in configuration")
	}

	return &Handler{field: field, value: value, entities: entities}, nil
}

func (h *Handler) Execute(ctx context.Context, triggerData map[string]any, logger *slog.Logger) (any, error) {
	entityType, entityID, err := models.EntityRefFromTrigger(triggerData)
	if err != nil {
		return nil, err
	}

	value := h.value
	if strVal, ok := value.(string); ok {
		rendered, err := template.Render(strVal, triggerData)
		if err != nil {
			return nil, err
		}

		value = rendered
	}

	if err := h.entities.UpdateField(ctx, entityType, entityID, h.field, value); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Entity field updated",
		"entity_type", entityType, "entity_id", entityID, "field", h.field)

	return map[string]any{"field": h.field, "value": value}, nil
}
