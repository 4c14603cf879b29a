// Package tag implements the ADD_TAG and REMOVE_TAG actions.
package tag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/relaycrm/relay/pkg/models"
	"github.com/relaycrm/relay/pkg/services"
)

// Handler mutates the entity's tag set. The same handler serves both
// directions; remove selects removal.
type Handler struct {
	tag      string
	remove   bool
	entities *services.Entities
}

func NewHandler(config map[string]any, remove bool, entities *services.Entities) (*Handler, error) {
	tag, ok := config["tag"].(string)
	if !ok || tag == "" {
		return nil, fmt.Errorf("missing or invalid 'tag' in configuration")
	}

	return &Handler{tag: tag, remove: remove, entities: entities}, nil
}

func (h *Handler) Execute(ctx context.Context, triggerData map[string]any, logger *slog.Logger) (any, error) {
	entityType, entityID, err := models.EntityRefFromTrigger(triggerData)
	if err != nil {
		return nil, err
	}

	if h.remove {
		err = h.entities.RemoveTag(ctx, entityType, entityID, h.tag)
	} else {
		err = h.entities.AddTag(ctx, entityType, entityID, h.tag)
	}

	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Entity tags updated",
		"entity_type", entityType, "entity_id", entityID,
		"tag", h.tag, "removed", h.remove)

	return map[string]any{"tag": h.tag, "removed": h.remove}, nil
}
