package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/relaycrm/relay/pkg/models"
	"github.com/relaycrm/relay/pkg/registry"
)

// ActionExecutor runs a workflow's action list through the handler registry.
type ActionExecutor struct {
	registry *registry.Registry
	logger   *slog.Logger
}

func NewActionExecutor(registry *registry.Registry, logger *slog.Logger) *ActionExecutor {
	return &ActionExecutor{
		registry: registry,
		logger:   logger.With("module", "action_executor"),
	}
}

// ExecuteActions attempts every action strictly in list order. Order matters:
// later actions may depend on earlier side effects (status change before the
// notification that mentions it). An individual failure is captured into its
// ActionResult and never aborts the remaining actions.
func (e *ActionExecutor) ExecuteActions(ctx context.Context, actions []models.Action, triggerData map[string]any) []models.ActionResult {
	results := make([]models.ActionResult, 0, len(actions))

	for i, action := range actions {
		logger := e.logger.With(
			"action_index", i,
			"action_type", action.Type,
		)

		results = append(results, e.executeAction(ctx, action, triggerData, logger))
	}

	return results
}

func (e *ActionExecutor) executeAction(ctx context.Context, action models.Action, triggerData map[string]any, logger *slog.Logger) (result models.ActionResult) {
	result = models.ActionResult{Action: action}

	// A handler must not take down the run; a panic becomes a failed result.
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "Action handler panicked", "panic", r)

			result.Success = false
			result.Result = nil
			result.Error = fmt.Sprintf("action handler panicked: %v", r)
		}
	}()

	handler, err := e.registry.CreateHandler(ctx, action.Type, action.Config)
	if err != nil {
		logger.WarnContext(ctx, "Failed to create action handler", "error", err)

		result.Error = err.Error()

		return result
	}

	output, err := handler.Execute(ctx, triggerData, logger)
	if err != nil {
		logger.WarnContext(ctx, "Action failed", "error", err)

		result.Error = err.Error()

		return result
	}

	logger.DebugContext(ctx, "Action completed")

	result.Success = true
	result.Result = output

	return result
}
