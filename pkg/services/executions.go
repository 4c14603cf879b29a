package services

import (
	"context"
	"time"

	"github.com/relaycrm/relay/pkg/models"
	"github.com/relaycrm/relay/pkg/persistence"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// Executions serves the read-only execution history and the retention
// sweep. The engine is the only writer of execution rows; this service
// never mutates them.
type Executions struct {
	persistence persistence.Persistence
}

func NewExecutions(p persistence.Persistence) *Executions {
	return &Executions{persistence: p}
}

// History returns a page of executions for one workflow, most recent first.
func (e *Executions) History(ctx context.Context, workflowID string, limit, offset int) ([]*models.Execution, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	if offset < 0 {
		offset = 0
	}

	return e.persistence.Executions().ByWorkflow(ctx, workflowID, limit, offset)
}

// FetchByID returns one execution record.
func (e *Executions) FetchByID(ctx context.Context, id string) (*models.Execution, error) {
	return e.persistence.Executions().ByID(ctx, id)
}

// PurgeOlderThan removes completed executions older than the retention
// window and returns how many rows were removed.
func (e *Executions) PurgeOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)

	return e.persistence.Executions().PurgeOlderThan(ctx, cutoff)
}
