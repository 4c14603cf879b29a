// Package protocol defines the contracts between the engine and action
// handler implementations.
package protocol

import (
	"context"
	"log/slog"
)

// ActionHandler runs one configured action against the triggering entity's
// data. Implementations must capture collaborator failures in the returned
// error and never panic; the executor records the error and moves on.
type ActionHandler interface {
	Execute(ctx context.Context, triggerData map[string]any, logger *slog.Logger) (any, error)
}

// ActionHandlerFactory builds a handler from an action's config map. Create
// fails on missing or malformed required config keys.
type ActionHandlerFactory interface {
	Create(ctx context.Context, config map[string]any) (ActionHandler, error)

	// ID is the ActionType value this factory serves.
	ID() string

	// Schema is the JSON schema used to validate action config at
	// workflow-save time.
	Schema() map[string]any
}
