package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/relaycrm/relay/pkg/models"
	"github.com/relaycrm/relay/pkg/persistence"
	"github.com/relaycrm/relay/pkg/registry"
)

// ErrWorkflowNotFound is returned when a workflow is not found.
var ErrWorkflowNotFound = persistence.ErrWorkflowNotFound

// Workflow is the CRUD service for automation rules. Writes are validated
// structurally (validator tags), semantically (trigger kinds, operators,
// value requirements) and per action config (registry schemas) before they
// reach persistence, so the engine only ever loads well-formed rules.
type Workflow struct {
	persistence persistence.Persistence
	registry    *registry.Registry
	validate    *validator.Validate
}

// NewWorkflow creates a new workflow service.
func NewWorkflow(p persistence.Persistence, reg *registry.Registry) *Workflow {
	return &Workflow{
		persistence: p,
		registry:    reg,
		validate:    validator.New(),
	}
}

// HealthCheck checks the health of the persistence layer.
func (w *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	if w.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := w.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// Create validates and stores a new workflow. The caller controls IsActive;
// an empty action list is accepted (the workflow is inert but storable).
func (w *Workflow) Create(ctx context.Context, workflow *models.Workflow) (*models.Workflow, error) {
	if workflow == nil {
		return nil, &ServiceError{Op: "Create", Err: ErrWorkflowNil}
	}

	if err := w.validateWorkflow(workflow); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	workflow.ID = uuid.New().String()
	workflow.CreatedAt = now
	workflow.UpdatedAt = now
	workflow.DeletedAt = nil

	if err := w.persistence.Workflows().Save(ctx, workflow); err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}

	return workflow, nil
}

// Update replaces the rule body of an existing workflow.
func (w *Workflow) Update(ctx context.Context, id string, updated *models.Workflow) (*models.Workflow, error) {
	if updated == nil {
		return nil, &ServiceError{Op: "Update", Err: ErrWorkflowNil}
	}

	existing, err := w.persistence.Workflows().ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := w.validateWorkflow(updated); err != nil {
		return nil, err
	}

	existing.Name = updated.Name
	existing.Description = updated.Description
	existing.IsActive = updated.IsActive
	existing.Trigger = updated.Trigger
	existing.TriggerData = updated.TriggerData
	existing.Conditions = updated.Conditions
	existing.Actions = updated.Actions
	existing.UpdatedAt = time.Now().UTC()

	if err := w.persistence.Workflows().Save(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}

	return existing, nil
}

// ToggleActive flips the workflow's active flag and returns the new state.
func (w *Workflow) ToggleActive(ctx context.Context, id string) (*models.Workflow, error) {
	workflow, err := w.persistence.Workflows().ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	workflow.IsActive = !workflow.IsActive
	workflow.UpdatedAt = time.Now().UTC()

	if err := w.persistence.Workflows().Save(ctx, workflow); err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}

	return workflow, nil
}

// Delete soft-deletes a workflow. The row remains for execution history but
// never matches a trigger again.
func (w *Workflow) Delete(ctx context.Context, id string) error {
	return w.persistence.Workflows().Delete(ctx, id, time.Now().UTC())
}

// FetchByID returns one workflow.
func (w *Workflow) FetchByID(ctx context.Context, id string) (*models.Workflow, error) {
	return w.persistence.Workflows().ByID(ctx, id)
}

// List returns all workflows, soft-deleted ones excluded.
func (w *Workflow) List(ctx context.Context) ([]*models.Workflow, error) {
	workflows, err := w.persistence.Workflows().All(ctx)
	if err != nil {
		return nil, err
	}

	visible := make([]*models.Workflow, 0, len(workflows))
	for _, workflow := range workflows {
		if workflow.DeletedAt == nil {
			visible = append(visible, workflow)
		}
	}

	return visible, nil
}

func (w *Workflow) validateWorkflow(workflow *models.Workflow) error {
	if err := w.validate.Struct(workflow); err != nil {
		return &ServiceError{Op: "validate", Message: err.Error(), Err: ErrInvalidRequest}
	}

	if !workflow.Trigger.Valid() {
		return &ServiceError{
			Op:      "validate",
			Message: fmt.Sprintf("unknown trigger kind %q", workflow.Trigger),
			Err:     ErrInvalidTrigger,
		}
	}

	if workflow.Conditions.Logic != models.LogicAnd && workflow.Conditions.Logic != models.LogicOr {
		return &ServiceError{
			Op:      "validate",
			Message: fmt.Sprintf("unknown condition logic %q", workflow.Conditions.Logic),
			Err:     ErrInvalidRequest,
		}
	}

	for i, condition := range workflow.Conditions.Conditions {
		if !condition.Operator.Valid() {
			return &ServiceError{
				Op:      "validate",
				Message: fmt.Sprintf("condition %d: unknown operator %q", i, condition.Operator),
				Err:     ErrInvalidOperator,
			}
		}

		if condition.Operator.RequiresValue() && condition.Value == nil {
			return &ServiceError{
				Op:      "validate",
				Message: fmt.Sprintf("condition %d: operator %s requires a value", i, condition.Operator),
				Err:     ErrConditionValueNeeded,
			}
		}
	}

	for i, action := range workflow.Actions {
		if err := w.registry.ValidateActionConfig(action); err != nil {
			return &ServiceError{
				Op:      "validate",
				Message: fmt.Sprintf("action %d: %v", i, err),
				Err:     ErrInvalidActionConfig,
			}
		}
	}

	return nil
}
