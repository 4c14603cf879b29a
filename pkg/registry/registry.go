// Package registry maps action types to their handler factories. Factories
// are registered once at startup; the executor resolves handlers through the
// registry so adding an action type never touches the dispatch code.
package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/relaycrm/relay/pkg/models"
	"github.com/relaycrm/relay/pkg/protocol"
)

type Registry struct {
	logger    *slog.Logger
	factories map[models.ActionType]protocol.ActionHandlerFactory
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:    logger,
		factories: make(map[models.ActionType]protocol.ActionHandlerFactory),
	}
}

// RegisterAction registers a factory under its own ID, replacing any
// previous registration for that action type.
func (r *Registry) RegisterAction(factory protocol.ActionHandlerFactory) {
	r.factories[models.ActionType(factory.ID())] = factory
}

// CreateHandler builds a handler for the given action type and config.
func (r *Registry) CreateHandler(ctx context.Context, actionType models.ActionType, config map[string]any) (protocol.ActionHandler, error) {
	factory, ok := r.factories[actionType]
	if !ok {
		return nil, fmt.Errorf("unsupported action type %q", actionType)
	}

	return factory.Create(ctx, config)
}

// ActionTypes returns all registered action types.
func (r *Registry) ActionTypes() []models.ActionType {
	types := make([]models.ActionType, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}

	return types
}

// Schema returns the config schema for an action type, if registered.
func (r *Registry) Schema(actionType models.ActionType) (map[string]any, bool) {
	factory, ok := r.factories[actionType]
	if !ok {
		return nil, false
	}

	return factory.Schema(), true
}

// HealthCheck reports whether every known action type has a factory.
func (r *Registry) HealthCheck() (string, bool) {
	if len(r.factories) == 0 {
		return "No action handlers registered", false
	}

	return fmt.Sprintf("%d action handlers registered", len(r.factories)), true
}
