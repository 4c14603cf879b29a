package file

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/relaycrm/relay/pkg/models"
	"github.com/relaycrm/relay/pkg/persistence"
)

// ExecutionRepository stores one JSON file per execution under
// <root>/executions.
type ExecutionRepository struct {
	dir string
	mu  sync.RWMutex
}

func NewExecutionRepository(root string) *ExecutionRepository {
	return &ExecutionRepository{dir: filepath.Join(root, "executions")}
}

func (er *ExecutionRepository) Create(ctx context.Context, execution *models.Execution) error {
	er.mu.Lock()
	defer er.mu.Unlock()

	if err := writeJSON(er.dir, execution.ID, execution); err != nil {
		return &persistence.ExecutionError{Op: "Create", ExecutionID: execution.ID, Err: err}
	}

	return nil
}

func (er *ExecutionRepository) Update(ctx context.Context, execution *models.Execution) error {
	er.mu.Lock()
	defer er.mu.Unlock()

	var existing models.Execution

	err := readJSON(er.dir, execution.ID, &existing)
	if err != nil {
		if os.IsNotExist(err) {
			return &persistence.ExecutionError{Op: "Update", ExecutionID: execution.ID, Err: persistence.ErrExecutionNotFound}
		}

		return &persistence.ExecutionError{Op: "Update", ExecutionID: execution.ID, Err: err}
	}

	// Terminal executions are read-only history.
	if existing.Status.Terminal() {
		return &persistence.ExecutionError{Op: "Update", ExecutionID: execution.ID, Err: persistence.ErrExecutionImmutable}
	}

	if err := writeJSON(er.dir, execution.ID, execution); err != nil {
		return &persistence.ExecutionError{Op: "Update", ExecutionID: execution.ID, Err: err}
	}

	return nil
}

func (er *ExecutionRepository) ByID(ctx context.Context, id string) (*models.Execution, error) {
	er.mu.RLock()
	defer er.mu.RUnlock()

	var execution models.Execution

	err := readJSON(er.dir, id, &execution)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &persistence.ExecutionError{Op: "ByID", ExecutionID: id, Err: persistence.ErrExecutionNotFound}
		}

		return nil, &persistence.ExecutionError{Op: "ByID", ExecutionID: id, Err: err}
	}

	return &execution, nil
}

func (er *ExecutionRepository) ByWorkflow(ctx context.Context, workflowID string, limit, offset int) ([]*models.Execution, error) {
	er.mu.RLock()
	defer er.mu.RUnlock()

	ids, err := listIDs(er.dir)
	if err != nil {
		return nil, err
	}

	matching := make([]*models.Execution, 0)

	for _, id := range ids {
		var execution models.Execution
		if err := readJSON(er.dir, id, &execution); err != nil {
			return nil, &persistence.ExecutionError{Op: "ByWorkflow", ExecutionID: id, Err: err}
		}

		if execution.WorkflowID == workflowID {
			matching = append(matching, &execution)
		}
	}

	// Most recent first.
	sort.Slice(matching, func(i, j int) bool {
		return matching[i].StartedAt.After(matching[j].StartedAt)
	})

	if offset >= len(matching) {
		return []*models.Execution{}, nil
	}

	end := offset + limit
	if limit <= 0 || end > len(matching) {
		end = len(matching)
	}

	return matching[offset:end], nil
}

func (er *ExecutionRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	er.mu.Lock()
	defer er.mu.Unlock()

	ids, err := listIDs(er.dir)
	if err != nil {
		return 0, err
	}

	var purged int64

	for _, id := range ids {
		var execution models.Execution
		if err := readJSON(er.dir, id, &execution); err != nil {
			return purged, &persistence.ExecutionError{Op: "PurgeOlderThan", ExecutionID: id, Err: err}
		}

		if !execution.Status.Terminal() || !execution.StartedAt.Before(cutoff) {
			continue
		}

		if err := os.Remove(filepath.Join(er.dir, id+".json")); err != nil {
			return purged, &persistence.ExecutionError{Op: "PurgeOlderThan", ExecutionID: id, Err: err}
		}

		purged++
	}

	return purged, nil
}
