package assign

import (
	"context"

	"github.com/relaycrm/relay/pkg/models"
	"github.com/relaycrm/relay/pkg/protocol"
	"github.com/relaycrm/relay/pkg/services"
)

// UserFactory creates ASSIGN_TO_USER handlers.
type UserFactory struct {
	entities *services.Entities
}

func NewUserFactory(entities *services.Entities) *UserFactory {
	return &UserFactory{entities: entities}
}

func (f *UserFactory) Create(_ context.Context, config map[string]any) (protocol.ActionHandler, error) {
	return NewUserHandler(config, f.entities)
}

func (f *UserFactory) ID() string {
	return string(models.ActionAssignToUser)
}

func (f *UserFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"user_id": map[string]any{
				"type":        "string",
				"description": "Directory ID of the user to assign the entity to",
			},
		},
		"required":             []string{"user_id"},
		"additionalProperties": false,
	}
}

// TeamFactory creates ASSIGN_TO_TEAM handlers.
type TeamFactory struct {
	entities *services.Entities
}

func NewTeamFactory(entities *services.Entities) *TeamFactory {
	return &TeamFactory{entities: entities}
}

func (f *TeamFactory) Create(_ context.Context, config map[string]any) (protocol.ActionHandler, error) {
	return NewTeamHandler(config, f.entities)
}

func (f *TeamFactory) ID() string {
	return string(models.ActionAssignToTeam)
}

func (f *TeamFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"team_id": map[string]any{
				"type":        "string",
				"description": "Directory ID of the team whose member receives the entity",
			},
		},
		"required":             []string{"team_id"},
		"additionalProperties": false,
	}
}
