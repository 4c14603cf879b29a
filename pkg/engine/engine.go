package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/relaycrm/relay/pkg/models"
	"github.com/relaycrm/relay/pkg/otelhelper"
	"github.com/relaycrm/relay/pkg/persistence"
	"github.com/relaycrm/relay/pkg/registry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Engine is the trigger dispatcher. It fans a domain event out to every
// matching workflow, runs each one independently and records an execution
// row per run. Nothing the engine does is allowed to fail the business
// operation that fired the trigger.
type Engine struct {
	persistence persistence.Persistence
	executor    *ActionExecutor
	logger      *slog.Logger
	tracer      trace.Tracer
}

func NewEngine(p persistence.Persistence, reg *registry.Registry, logger *slog.Logger) *Engine {
	return &Engine{
		persistence: p,
		executor:    NewActionExecutor(reg, logger),
		logger:      logger.With("module", "engine"),
		tracer:      noop.NewTracerProvider().Tracer("engine"),
	}
}

// WithTracer replaces the no-op tracer. Call once during wiring.
func (e *Engine) WithTracer(tracer trace.Tracer) *Engine {
	e.tracer = tracer

	return e
}

// DispatchTrigger runs every active workflow registered for kind against the
// given entity snapshot. Workflows execute concurrently and settle
// independently: one workflow's failure never prevents another from running,
// and the returned slice always carries one outcome per matching workflow.
func (e *Engine) DispatchTrigger(ctx context.Context, kind models.TriggerKind, triggerData map[string]any) []models.ExecutionOutcome {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "engine.dispatch_trigger",
		attribute.String(otelhelper.TriggerKindKey, string(kind)),
	)
	defer span.End()

	logger := e.logger.With("trigger", kind)

	workflows, err := e.persistence.Workflows().ByTrigger(ctx, kind)
	if err != nil {
		// Lookup failure means no workflows ran; report nothing rather than
		// surfacing an error to the triggering operation.
		otelhelper.SetError(span, err)
		logger.ErrorContext(ctx, "Failed to fetch workflows for trigger", "error", err)

		return []models.ExecutionOutcome{}
	}

	if len(workflows) == 0 {
		return []models.ExecutionOutcome{}
	}

	outcomes := make([]models.ExecutionOutcome, len(workflows))

	var wg sync.WaitGroup
	for i, workflow := range workflows {
		wg.Add(1)

		go func(i int, workflowID string) {
			defer wg.Done()

			outcomes[i] = e.runSettled(ctx, workflowID, triggerData)
		}(i, workflow.ID)
	}
	wg.Wait()

	span.SetAttributes(attribute.Int("relay.workflow.count", len(workflows)))

	return outcomes
}

// runSettled wraps ExecuteWorkflow so a panic inside one workflow's pipeline
// settles into a failed outcome instead of tearing down the fan-out.
func (e *Engine) runSettled(ctx context.Context, workflowID string, triggerData map[string]any) (outcome models.ExecutionOutcome) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.ErrorContext(ctx, "Workflow execution panicked",
				"workflow_id", workflowID, "panic", r)

			outcome = models.ExecutionOutcome{
				WorkflowID: workflowID,
				Success:    false,
				Reason:     fmt.Sprintf("workflow execution panicked: %v", r),
			}
		}
	}()

	return e.ExecuteWorkflow(ctx, workflowID, triggerData)
}

// ExecuteWorkflow runs one workflow's full pipeline: lookup, condition
// evaluation, action execution and execution-record bookkeeping. A workflow
// that cannot be found or is inactive is refused without creating an
// execution record; every run past that gate writes exactly one record.
func (e *Engine) ExecuteWorkflow(ctx context.Context, workflowID string, triggerData map[string]any) models.ExecutionOutcome {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "engine.execute_workflow",
		attribute.String(otelhelper.WorkflowIDKey, workflowID),
	)
	defer span.End()

	logger := e.logger.With("workflow_id", workflowID)

	workflow, err := e.persistence.Workflows().ByID(ctx, workflowID)
	if err != nil && !persistence.IsWorkflowNotFound(err) {
		otelhelper.SetError(span, err)
		logger.ErrorContext(ctx, "Workflow lookup failed", "error", err)

		return models.ExecutionOutcome{
			WorkflowID: workflowID,
			Success:    false,
			Reason:     fmt.Sprintf("workflow lookup failed: %v", err),
		}
	}

	if err != nil || workflow == nil || !workflow.Runnable() {
		return models.ExecutionOutcome{
			WorkflowID: workflowID,
			Success:    false,
			Reason:     models.ReasonWorkflowUnavailable,
		}
	}

	execution := &models.Execution{
		ID:          "exec-" + uuid.New().String(),
		WorkflowID:  workflow.ID,
		TriggerData: triggerData,
		Status:      models.ExecutionPending,
		StartedAt:   time.Now().UTC(),
	}

	if err := e.persistence.Executions().Create(ctx, execution); err != nil {
		// Could not open the audit record at all; surface via logs only.
		otelhelper.SetError(span, err)
		logger.ErrorContext(ctx, "Failed to create execution record", "error", err)

		return models.ExecutionOutcome{
			WorkflowID: workflowID,
			Success:    false,
			Reason:     fmt.Sprintf("failed to create execution record: %v", err),
		}
	}

	logger = logger.With("execution_id", execution.ID)
	span.SetAttributes(attribute.String(otelhelper.ExecutionIDKey, execution.ID))

	execution.Status = models.ExecutionRunning
	if err := e.persistence.Executions().Update(ctx, execution); err != nil {
		return e.failExecution(ctx, logger, span, execution, err)
	}

	if !Evaluate(workflow.Conditions, triggerData) {
		logger.InfoContext(ctx, "Conditions not met, skipping workflow")
		execution.Complete(models.ExecutionSkipped, time.Now().UTC())

		if err := e.persistence.Executions().Update(ctx, execution); err != nil {
			logger.ErrorContext(ctx, "Failed to record skipped execution", "error", err)
		}

		// A skip is a clean outcome, not an error.
		return models.ExecutionOutcome{
			WorkflowID:  workflow.ID,
			ExecutionID: execution.ID,
			Success:     true,
			Reason:      models.ReasonConditionsNotMet,
		}
	}

	logger.InfoContext(ctx, "Conditions met, executing actions", "action_count", len(workflow.Actions))

	results := e.executor.ExecuteActions(ctx, workflow.Actions, triggerData)

	// Attempt-all policy: the run is SUCCESS once action execution completed,
	// even if individual actions failed. Partial failure is visible only
	// inside the per-action results.
	execution.ActionResults = results
	execution.Complete(models.ExecutionSuccess, time.Now().UTC())

	if err := e.persistence.Executions().Update(ctx, execution); err != nil {
		return e.failExecution(ctx, logger, span, execution, err)
	}

	logger.InfoContext(ctx, "Workflow execution completed",
		"duration_ms", execution.DurationMS)

	return models.ExecutionOutcome{
		WorkflowID:    workflow.ID,
		ExecutionID:   execution.ID,
		Success:       true,
		ActionResults: results,
	}
}

func (e *Engine) failExecution(ctx context.Context, logger *slog.Logger, span trace.Span, execution *models.Execution, cause error) models.ExecutionOutcome {
	otelhelper.SetError(span, cause)
	logger.ErrorContext(ctx, "Workflow execution failed", "error", cause)

	execution.Error = cause.Error()
	execution.Complete(models.ExecutionFailed, time.Now().UTC())

	if err := e.persistence.Executions().Update(ctx, execution); err != nil {
		logger.ErrorContext(ctx, "Failed to record failed execution", "error", err)
	}

	return models.ExecutionOutcome{
		WorkflowID:  execution.WorkflowID,
		ExecutionID: execution.ID,
		Success:     false,
		Reason:      cause.Error(),
	}
}
