package models

import "time"

// ExecutionStatus is the lifecycle state of one workflow run.
type ExecutionStatus string

const (
	ExecutionPending ExecutionStatus = "PENDING"
	ExecutionRunning ExecutionStatus = "RUNNING"
	ExecutionSuccess ExecutionStatus = "SUCCESS"
	ExecutionFailed  ExecutionStatus = "FAILED"
	ExecutionSkipped ExecutionStatus = "SKIPPED"
)

// Terminal reports whether the status is final. Terminal executions are
// read-only history and must never be rewritten.
func (s ExecutionStatus) Terminal() bool {
	return s == ExecutionSuccess || s == ExecutionFailed || s == ExecutionSkipped
}

// Execution is the immutable audit record of one engine run. TriggerData is
// a snapshot of the entity that fired the trigger, not a live reference:
// historical executions outlive edits to the workflow definition.
type Execution struct {
	ID            string          `json:"id"`
	WorkflowID    string          `json:"workflow_id"`
	TriggerData   map[string]any  `json:"trigger_data,omitempty"`
	Status        ExecutionStatus `json:"status"`
	ActionResults []ActionResult  `json:"action_results,omitempty"`
	Error         string          `json:"error,omitempty"`
	StartedAt     time.Time       `json:"started_at"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	DurationMS    int64           `json:"duration_ms,omitempty"`
}

// Complete moves the execution into a terminal status and stamps timing.
func (e *Execution) Complete(status ExecutionStatus, now time.Time) {
	e.Status = status
	e.CompletedAt = &now
	e.DurationMS = now.Sub(e.StartedAt).Milliseconds()
}

// Outcome reasons reported by the dispatcher for runs that never reach the
// action executor.
const (
	ReasonConditionsNotMet    = "Conditions not met"
	ReasonWorkflowUnavailable = "Workflow not found or inactive"
)

// ExecutionOutcome is the per-workflow result returned to dispatch callers.
// Success=false means the engine itself failed or refused the run; a run
// whose conditions did not match is still Success=true with a reason.
type ExecutionOutcome struct {
	WorkflowID    string         `json:"workflow_id"`
	ExecutionID   string         `json:"execution_id,omitempty"`
	Success       bool           `json:"success"`
	Reason        string         `json:"reason,omitempty"`
	ActionResults []ActionResult `json:"action_results,omitempty"`
}
