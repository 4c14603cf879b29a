package engine_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaycrm/relay/pkg/engine"
	"github.com/relaycrm/relay/pkg/models"
	"github.com/relaycrm/relay/pkg/persistence"
	"github.com/relaycrm/relay/pkg/persistence/file"
)

func newTestEngine(t *testing.T, factory *recordingFactory) (*engine.Engine, *file.Persistence) {
	t.Helper()

	persistence := file.NewPersistence(t.TempDir())
	eng := engine.NewEngine(persistence, newTestRegistry(factory), slog.Default())

	return eng, persistence
}

func saveWorkflow(t *testing.T, p *file.Persistence, workflow *models.Workflow) {
	t.Helper()

	now := time.Now().UTC()
	workflow.CreatedAt = now
	workflow.UpdatedAt = now

	require.NoError(t, p.Workflows().Save(context.Background(), workflow))
}

func TestExecuteWorkflow_Success(t *testing.T) {
	t.Parallel()

	factory := &recordingFactory{id: string(models.ActionAddTag)}
	eng, persistence := newTestEngine(t, factory)

	saveWorkflow(t, persistence, &models.Workflow{
		ID:       "wf-1",
		Name:     "Tag hot leads",
		IsActive: true,
		Trigger:  models.TriggerLeadCreated,
		Conditions: models.ConditionGroup{
			Logic: models.LogicAnd,
			Conditions: []models.Condition{
				{Field: "source", Operator: models.OperatorEquals, Value: "website"},
			},
		},
		Actions: []models.Action{
			{Type: models.ActionAddTag, Config: map[string]any{"label": "tagged"}},
		},
	})

	outcome := eng.ExecuteWorkflow(context.Background(), "wf-1", map[string]any{"source": "website"})

	assert.True(t, outcome.Success)
	assert.Empty(t, outcome.Reason)
	require.Len(t, outcome.ActionResults, 1)
	assert.True(t, outcome.ActionResults[0].Success)

	execution, err := persistence.Executions().ByID(context.Background(), outcome.ExecutionID)
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionSuccess, execution.Status)
	assert.NotNil(t, execution.CompletedAt)
	assert.Len(t, execution.ActionResults, 1)
}

func TestExecuteWorkflow_PartialActionFailureIsStillSuccess(t *testing.T) {
	t.Parallel()

	factory := &recordingFactory{id: string(models.ActionAddTag)}
	eng, persistence := newTestEngine(t, factory)

	saveWorkflow(t, persistence, &models.Workflow{
		ID:         "wf-1",
		Name:       "Mixed results",
		IsActive:   true,
		Trigger:    models.TriggerLeadCreated,
		Conditions: models.ConditionGroup{Logic: models.LogicAnd},
		Actions: []models.Action{
			{Type: models.ActionAddTag, Config: map[string]any{"label": "ok"}},
			{Type: models.ActionAddTag, Config: map[string]any{"label": "bad", "fail": true}},
		},
	})

	outcome := eng.ExecuteWorkflow(context.Background(), "wf-1", map[string]any{})

	assert.True(t, outcome.Success)
	require.Len(t, outcome.ActionResults, 2)
	assert.True(t, outcome.ActionResults[0].Success)
	assert.False(t, outcome.ActionResults[1].Success)

	execution, err := persistence.Executions().ByID(context.Background(), outcome.ExecutionID)
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionSuccess, execution.Status)
}

func TestExecuteWorkflow_ConditionsNotMet(t *testing.T) {
	t.Parallel()

	factory := &recordingFactory{id: string(models.ActionAddTag)}
	eng, persistence := newTestEngine(t, factory)

	saveWorkflow(t, persistence, &models.Workflow{
		ID:       "wf-1",
		Name:     "Only qualified",
		IsActive: true,
		Trigger:  models.TriggerLeadCreated,
		Conditions: models.ConditionGroup{
			Logic: models.LogicAnd,
			Conditions: []models.Condition{
				{Field: "status", Operator: models.OperatorEquals, Value: "qualified"},
			},
		},
		Actions: []models.Action{
			{Type: models.ActionAddTag, Config: map[string]any{"label": "never"}},
		},
	})

	outcome := eng.ExecuteWorkflow(context.Background(), "wf-1", map[string]any{"status": "new"})

	assert.True(t, outcome.Success)
	assert.Equal(t, "Conditions not met", outcome.Reason)
	assert.Empty(t, outcome.ActionResults)
	assert.Empty(t, factory.journal)

	execution, err := persistence.Executions().ByID(context.Background(), outcome.ExecutionID)
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionSkipped, execution.Status)
	assert.NotNil(t, execution.CompletedAt)
}

func TestExecuteWorkflow_InactiveWorkflowLeavesNoRecord(t *testing.T) {
	t.Parallel()

	factory := &recordingFactory{id: string(models.ActionAddTag)}
	eng, persistence := newTestEngine(t, factory)

	saveWorkflow(t, persistence, &models.Workflow{
		ID:         "wf-1",
		Name:       "Disabled",
		IsActive:   false,
		Trigger:    models.TriggerLeadCreated,
		Conditions: models.ConditionGroup{Logic: models.LogicAnd},
	})

	outcome := eng.ExecuteWorkflow(context.Background(), "wf-1", map[string]any{})

	assert.False(t, outcome.Success)
	assert.Equal(t, "Workflow not found or inactive", outcome.Reason)
	assert.Empty(t, outcome.ExecutionID)

	executions, err := persistence.Executions().ByWorkflow(context.Background(), "wf-1", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, executions)
}

func TestExecuteWorkflow_UnknownWorkflow(t *testing.T) {
	t.Parallel()

	factory := &recordingFactory{id: string(models.ActionAddTag)}
	eng, _ := newTestEngine(t, factory)

	outcome := eng.ExecuteWorkflow(context.Background(), "missing", map[string]any{})

	assert.False(t, outcome.Success)
	assert.Equal(t, "Workflow not found or inactive", outcome.Reason)
}

type unavailableWorkflows struct {
	persistence.Persistence
	err error
}

func (p unavailableWorkflows) Workflows() persistence.WorkflowRepository {
	return unavailableWorkflowRepo{err: p.err}
}

type unavailableWorkflowRepo struct {
	err error
}

func (r unavailableWorkflowRepo) All(context.Context) ([]*models.Workflow, error) {
	return nil, r.err
}

func (r unavailableWorkflowRepo) ByID(context.Context, string) (*models.Workflow, error) {
	return nil, r.err
}

func (r unavailableWorkflowRepo) ByTrigger(context.Context, models.TriggerKind) ([]*models.Workflow, error) {
	return nil, r.err
}

func (r unavailableWorkflowRepo) Save(context.Context, *models.Workflow) error {
	return r.err
}

func (r unavailableWorkflowRepo) Delete(context.Context, string, time.Time) error {
	return r.err
}

func TestExecuteWorkflow_StorageFailureIsNotNotFound(t *testing.T) {
	t.Parallel()

	factory := &recordingFactory{id: string(models.ActionAddTag)}
	p := unavailableWorkflows{
		Persistence: file.NewPersistence(t.TempDir()),
		err:         errors.New("connection reset"),
	}
	eng := engine.NewEngine(p, newTestRegistry(factory), slog.Default())

	outcome := eng.ExecuteWorkflow(context.Background(), "wf-1", map[string]any{})

	assert.False(t, outcome.Success)
	assert.NotEqual(t, models.ReasonWorkflowUnavailable, outcome.Reason)
	assert.Contains(t, outcome.Reason, "connection reset")
}

func TestDispatchTrigger_FansOutToMatchingWorkflows(t *testing.T) {
	t.Parallel()

	factory := &recordingFactory{id: string(models.ActionAddTag)}
	eng, persistence := newTestEngine(t, factory)

	saveWorkflow(t, persistence, &models.Workflow{
		ID:         "wf-1",
		Name:       "First",
		IsActive:   true,
		Trigger:    models.TriggerLeadCreated,
		Conditions: models.ConditionGroup{Logic: models.LogicAnd},
		Actions: []models.Action{
			{Type: models.ActionAddTag, Config: map[string]any{"label": "one"}},
		},
	})
	saveWorkflow(t, persistence, &models.Workflow{
		ID:         "wf-2",
		Name:       "Second",
		IsActive:   true,
		Trigger:    models.TriggerLeadCreated,
		Conditions: models.ConditionGroup{Logic: models.LogicAnd},
		Actions: []models.Action{
			{Type: models.ActionAddTag, Config: map[string]any{"label": "two"}},
		},
	})
	saveWorkflow(t, persistence, &models.Workflow{
		ID:         "wf-3",
		Name:       "Other trigger",
		IsActive:   true,
		Trigger:    models.TriggerDealStageChanged,
		Conditions: models.ConditionGroup{Logic: models.LogicAnd},
	})

	outcomes := eng.DispatchTrigger(context.Background(), models.TriggerLeadCreated, map[string]any{})

	require.Len(t, outcomes, 2)

	for _, outcome := range outcomes {
		assert.True(t, outcome.Success)
		assert.NotEmpty(t, outcome.ExecutionID)
	}

	assert.ElementsMatch(t, []string{"one", "two"}, factory.journal)
}

func TestDispatchTrigger_OneFailingWorkflowDoesNotStopOthers(t *testing.T) {
	t.Parallel()

	factory := &recordingFactory{id: string(models.ActionAddTag)}
	eng, persistence := newTestEngine(t, factory)

	saveWorkflow(t, persistence, &models.Workflow{
		ID:         "wf-panic",
		Name:       "Panics",
		IsActive:   true,
		Trigger:    models.TriggerLeadCreated,
		Conditions: models.ConditionGroup{Logic: models.LogicAnd},
		Actions: []models.Action{
			{Type: models.ActionAddTag, Config: map[string]any{"label": "explosive", "panic": true}},
		},
	})
	saveWorkflow(t, persistence, &models.Workflow{
		ID:         "wf-ok",
		Name:       "Healthy",
		IsActive:   true,
		Trigger:    models.TriggerLeadCreated,
		Conditions: models.ConditionGroup{Logic: models.LogicAnd},
		Actions: []models.Action{
			{Type: models.ActionAddTag, Config: map[string]any{"label": "steady"}},
		},
	})

	outcomes := eng.DispatchTrigger(context.Background(), models.TriggerLeadCreated, map[string]any{})

	require.Len(t, outcomes, 2)

	byWorkflow := make(map[string]models.ExecutionOutcome, len(outcomes))
	for _, outcome := range outcomes {
		byWorkflow[outcome.WorkflowID] = outcome
	}

	// The panicking handler is contained by the executor, so its workflow
	// still settles as a completed run with a failed action result.
	panicked := byWorkflow["wf-panic"]
	assert.True(t, panicked.Success)
	require.Len(t, panicked.ActionResults, 1)
	assert.False(t, panicked.ActionResults[0].Success)

	healthy := byWorkflow["wf-ok"]
	assert.True(t, healthy.Success)
	require.Len(t, healthy.ActionResults, 1)
	assert.True(t, healthy.ActionResults[0].Success)
}

func TestDispatchTrigger_NoMatchingWorkflows(t *testing.T) {
	t.Parallel()

	factory := &recordingFactory{id: string(models.ActionAddTag)}
	eng, _ := newTestEngine(t, factory)

	outcomes := eng.DispatchTrigger(context.Background(), models.TriggerTaskCompleted, map[string]any{})

	assert.Empty(t, outcomes)
}
