// Package status implements the CHANGE_STATUS action.
package status

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/relaycrm/relay/pkg/models"
	"github.com/relaycrm/relay/pkg/services"
)

type Handler struct {
	status   string
	entities *services.Entities
}

func NewHandler(config map[string]any, entities *services.Entities) (*Handler, error) {
	status, ok := config["status"].(string)
	if !ok || status == "" {
		return nil, fmt.Errorf("missing or invalid 'status' in configuration")
	}

	return &Handler{status: status, entities: entities}, nil
}

func (h *Handler) Execute(ctx context.Context, triggerData map[string]any, logger *slog.Logger) (any, error) {
	entityType, entityID, err := models.EntityRefFromTrigger(triggerData)
	if err != nil {
		return nil, err
	}

	if err := h.entities.ChangeStatus(ctx, entityType, entityID, h.status); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Entity status changed",
		"entity_type", entityType, "entity_id", entityID, "status", h.status)

	return map[string]any{"status": h.status}, nil
}
