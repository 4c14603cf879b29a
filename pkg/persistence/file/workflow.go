package file

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/relaycrm/relay/pkg/models"
	"github.com/relaycrm/relay/pkg/persistence"
)

// WorkflowRepository stores one JSON file per workflow under
// <root>/workflows.
type WorkflowRepository struct {
	dir string
	mu  sync.RWMutex
}

func NewWorkflowRepository(root string) *WorkflowRepository {
	return &WorkflowRepository{dir: filepath.Join(root, "workflows")}
}

func (wr *WorkflowRepository) All(ctx context.Context) ([]*models.Workflow, error) {
	wr.mu.RLock()
	defer wr.mu.RUnlock()

	ids, err := listIDs(wr.dir)
	if err != nil {
		return nil, err
	}

	workflows := make([]*models.Workflow, 0, len(ids))

	for _, id := range ids {
		var workflow models.Workflow
		if err := readJSON(wr.dir, id, &workflow); err != nil {
			return nil, persistence.NewWorkflowError("All", id, err)
		}

		workflows = append(workflows, &workflow)
	}

	return workflows, nil
}

func (wr *WorkflowRepository) ByID(ctx context.Context, id string) (*models.Workflow, error) {
	wr.mu.RLock()
	defer wr.mu.RUnlock()

	var workflow models.Workflow

	err := readJSON(wr.dir, id, &workflow)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewWorkflowError("ByID", id, persistence.ErrWorkflowNotFound)
		}

		return nil, persistence.NewWorkflowError("ByID", id, err)
	}

	return &workflow, nil
}

func (wr *WorkflowRepository) ByTrigger(ctx context.Context, kind models.TriggerKind) ([]*models.Workflow, error) {
	workflows, err := wr.All(ctx)
	if err != nil {
		return nil, err
	}

	matching := make([]*models.Workflow, 0)

	for _, workflow := range workflows {
		if workflow.Trigger == kind && workflow.Runnable() {
			matching = append(matching, workflow)
		}
	}

	return matching, nil
}

func (wr *WorkflowRepository) Save(ctx context.Context, workflow *models.Workflow) error {
	wr.mu.Lock()
	defer wr.mu.Unlock()

	if err := writeJSON(wr.dir, workflow.ID, workflow); err != nil {
		return persistence.NewWorkflowError("Save", workflow.ID, err)
	}

	return nil
}

func (wr *WorkflowRepository) Delete(ctx context.Context, id string, at time.Time) error {
	workflow, err := wr.ByID(ctx, id)
	if err != nil {
		return err
	}

	workflow.DeletedAt = &at
	workflow.IsActive = false

	return wr.Save(ctx, workflow)
}
