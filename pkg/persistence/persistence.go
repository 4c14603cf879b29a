// Package persistence provides the data storage abstraction for workflows,
// execution history and the CRM records actions mutate.
package persistence

import (
	"context"
	"time"

	"github.com/relaycrm/relay/pkg/models"
)

// Persistence is the root accessor handed to services and the engine.
type Persistence interface {
	Workflows() WorkflowRepository
	Executions() ExecutionRepository
	Entities() EntityRepository
	Directory() DirectoryRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// WorkflowRepository stores automation rules. Delete is a soft delete:
// the row stays with deleted_at set and stops matching triggers.
type WorkflowRepository interface {
	All(ctx context.Context) ([]*models.Workflow, error)
	ByID(ctx context.Context, id string) (*models.Workflow, error)
	// ByTrigger returns active, non-deleted workflows registered for kind.
	ByTrigger(ctx context.Context, kind models.TriggerKind) ([]*models.Workflow, error)
	Save(ctx context.Context, workflow *models.Workflow) error
	Delete(ctx context.Context, id string, at time.Time) error
}

// ExecutionRepository stores the audit trail. Update is only legal while the
// execution is non-terminal; completed executions are read-only history.
type ExecutionRepository interface {
	Create(ctx context.Context, execution *models.Execution) error
	Update(ctx context.Context, execution *models.Execution) error
	ByID(ctx context.Context, id string) (*models.Execution, error)
	ByWorkflow(ctx context.Context, workflowID string, limit, offset int) ([]*models.Execution, error)
	// PurgeOlderThan removes completed executions whose start time is before
	// cutoff and returns how many rows were removed.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// EntityRepository reads and mutates the CRM records (leads, deals, tasks)
// that action side effects target. Records are loosely typed field maps;
// the owning domain services, not this engine, enforce their schemas.
type EntityRepository interface {
	Get(ctx context.Context, entityType models.EntityType, id string) (map[string]any, error)
	SetField(ctx context.Context, entityType models.EntityType, id, field string, value any) error
	AddTag(ctx context.Context, entityType models.EntityType, id, tag string) error
	RemoveTag(ctx context.Context, entityType models.EntityType, id, tag string) error
	CreateTask(ctx context.Context, task *models.Task) error
}

// DirectoryRepository resolves the user and team IDs referenced by action
// configs.
type DirectoryRepository interface {
	UserByID(ctx context.Context, id string) (*models.User, error)
	TeamByID(ctx context.Context, id string) (*models.Team, error)
}
