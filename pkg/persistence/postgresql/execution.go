package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/relaycrm/relay/pkg/models"
	"github.com/relaycrm/relay/pkg/persistence"
)

// ExecutionRepository handles workflow execution database operations.
type ExecutionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewExecutionRepository creates a new execution repository.
func NewExecutionRepository(db *sql.DB, logger *slog.Logger) *ExecutionRepository {
	return &ExecutionRepository{db: db, logger: logger}
}

const executionColumns = `
			id
		  , workflow_id
		  , trigger_data
		  , status
		  , action_results
		  , error_message
		  , started_at
		  , completed_at
		  , duration_ms
`

// Create inserts a new execution record.
func (r *ExecutionRepository) Create(ctx context.Context, execution *models.Execution) error {
	triggerDataJSON, err := json.Marshal(execution.TriggerData)
	if err != nil {
		return fmt.Errorf("failed to marshal trigger data: %w", err)
	}

	actionResultsJSON, err := json.Marshal(execution.ActionResults)
	if err != nil {
		return fmt.Errorf("failed to marshal action results: %w", err)
	}

	query := `
		INSERT INTO workflow_executions (
			id, workflow_id, trigger_data, status, action_results,
			error_message, started_at, completed_at, duration_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.db.ExecContext(ctx, query,
		execution.ID,
		execution.WorkflowID,
		triggerDataJSON,
		string(execution.Status),
		actionResultsJSON,
		nullableString(execution.Error),
		execution.StartedAt,
		execution.CompletedAt,
		execution.DurationMS,
	)
	if err != nil {
		return &persistence.ExecutionError{Op: "create", ExecutionID: execution.ID, Err: err}
	}

	return nil
}

// Update rewrites a non-terminal execution. Executions that already reached a
// terminal status are immutable history.
func (r *ExecutionRepository) Update(ctx context.Context, execution *models.Execution) error {
	current, err := r.ByID(ctx, execution.ID)
	if err != nil {
		return err
	}

	if current.Status.Terminal() {
		return &persistence.ExecutionError{Op: "update", ExecutionID: execution.ID, Err: persistence.ErrExecutionImmutable}
	}

	actionResultsJSON, err := json.Marshal(execution.ActionResults)
	if err != nil {
		return fmt.Errorf("failed to marshal action results: %w", err)
	}

	query := `
		UPDATE workflow_executions
		SET status = $2, action_results = $3, error_message = $4,
			completed_at = $5, duration_ms = $6
		WHERE id = $1
	`

	_, err = r.db.ExecContext(ctx, query,
		execution.ID,
		string(execution.Status),
		actionResultsJSON,
		nullableString(execution.Error),
		execution.CompletedAt,
		execution.DurationMS,
	)
	if err != nil {
		return &persistence.ExecutionError{Op: "update", ExecutionID: execution.ID, Err: err}
	}

	return nil
}

// ByID returns an execution by its ID.
func (r *ExecutionRepository) ByID(ctx context.Context, id string) (*models.Execution, error) {
	query := `
		SELECT ` + executionColumns + `
		FROM workflow_executions
		WHERE id = $1
	`

	execution, err := scanExecution(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &persistence.ExecutionError{Op: "by_id", ExecutionID: id, Err: persistence.ErrExecutionNotFound}
		}

		return nil, fmt.Errorf("failed to scan execution: %w", err)
	}

	return execution, nil
}

// ByWorkflow returns a workflow's executions, most recent first.
func (r *ExecutionRepository) ByWorkflow(ctx context.Context, workflowID string, limit, offset int) ([]*models.Execution, error) {
	query := `
		SELECT ` + executionColumns + `
		FROM workflow_executions
		WHERE workflow_id = $1
		ORDER BY started_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, workflowID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query executions: %w", err)
	}

	defer func(ctx context.Context, r *ExecutionRepository) {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}(ctx, r)

	executions := make([]*models.Execution, 0)

	for rows.Next() {
		execution, err := scanExecution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}

		executions = append(executions, execution)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating executions: %w", err)
	}

	return executions, nil
}

// PurgeOlderThan removes terminal executions started before cutoff.
func (r *ExecutionRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM workflow_executions
		WHERE started_at < $1
		  AND status IN ('SUCCESS', 'FAILED', 'SKIPPED')
	`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge executions: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged executions: %w", err)
	}

	return removed, nil
}

func scanExecution(row rowScanner) (*models.Execution, error) {
	var (
		execution         models.Execution
		status            string
		triggerDataJSON   []byte
		actionResultsJSON []byte
		errorMessage      sql.NullString
		completedAt       sql.NullTime
		durationMS        sql.NullInt64
	)

	err := row.Scan(
		&execution.ID,
		&execution.WorkflowID,
		&triggerDataJSON,
		&status,
		&actionResultsJSON,
		&errorMessage,
		&execution.StartedAt,
		&completedAt,
		&durationMS,
	)
	if err != nil {
		return nil, err
	}

	execution.Status = models.ExecutionStatus(status)

	if len(triggerDataJSON) > 0 {
		if err := json.Unmarshal(triggerDataJSON, &execution.TriggerData); err != nil {
			return nil, fmt.Errorf("failed to unmarshal trigger data: %w", err)
		}
	}

	if len(actionResultsJSON) > 0 {
		if err := json.Unmarshal(actionResultsJSON, &execution.ActionResults); err != nil {
			return nil, fmt.Errorf("failed to unmarshal action results: %w", err)
		}
	}

	if errorMessage.Valid {
		execution.Error = errorMessage.String
	}

	if completedAt.Valid {
		t := completedAt.Time
		execution.CompletedAt = &t
	}

	if durationMS.Valid {
		execution.DurationMS = durationMS.Int64
	}

	return &execution, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
