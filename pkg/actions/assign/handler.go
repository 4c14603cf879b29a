// Package assign implements the ASSIGN_TO_USER and ASSIGN_TO_TEAM actions.
package assign

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/relaycrm/relay/pkg/models"
	"github.com/relaycrm/relay/pkg/services"
)

// UserHandler reassigns the triggering entity to a specific user.
type UserHandler struct {
	userID   string
	entities *services.Entities
}

func NewUserHandler(config map[string]any, entities *services.Entities) (*UserHandler, error) {
	userID, ok := config["user_id"].(string)
	if !ok || userID == "" {
		return nil, fmt.Errorf("missing or invalid 'user_id' in configuration")
	}

	return &UserHandler{userID: userID, entities: entities}, nil
}

func (h *UserHandler) Execute(ctx context.Context, triggerData map[string]any, logger *slog.Logger) (any, error) {
	entityType, entityID, err := models.EntityRefFromTrigger(triggerData)
	if err != nil {
		return nil, err
	}

	if err := h.entities.AssignOwner(ctx, entityType, entityID, h.userID); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Entity assigned to user",
		"entity_type", entityType, "entity_id", entityID, "user_id", h.userID)

	return map[string]any{"assigned_to": h.userID}, nil
}

// TeamHandler resolves a team and assigns the entity to one of its members.
type TeamHandler struct {
	teamID   string
	entities *services.Entities
}

func NewTeamHandler(config map[string]any, entities *services.Entities) (*TeamHandler, error) {
	teamID, ok := config["team_id"].(string)
	if !ok || teamID == "" {
		return nil, fmt.Errorf("missing or invalid 'team_id' in configuration")
	}

	return &TeamHandler{teamID: teamID, entities: entities}, nil
}

func (h *TeamHandler) Execute(ctx context.Context, triggerData map[string]any, logger *slog.Logger) (any, error) {
	entityType, entityID, err := models.EntityRefFromTrigger(triggerData)
	if err != nil {
		return nil, err
	}

	memberID, err := h.entities.AssignTeam(ctx, entityType, entityID, h.teamID)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Entity assigned to team member",
		"entity_type", entityType, "entity_id", entityID,
		"team_id", h.teamID, "user_id", memberID)

	return map[string]any{"team_id": h.teamID, "assigned_to": memberID}, nil
}
