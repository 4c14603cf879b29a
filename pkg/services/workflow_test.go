package services_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaycrm/relay/pkg/actions/tag"
	"github.com/relaycrm/relay/pkg/delivery"
	"github.com/relaycrm/relay/pkg/models"
	"github.com/relaycrm/relay/pkg/persistence"
	"github.com/relaycrm/relay/pkg/persistence/file"
	"github.com/relaycrm/relay/pkg/registry"
	"github.com/relaycrm/relay/pkg/services"
)

func newWorkflowService(t *testing.T) (*services.Workflow, *file.Persistence) {
	t.Helper()

	p := file.NewPersistence(t.TempDir())

	logger := slog.Default()
	entities := services.NewEntities(p, delivery.NewSlogNotifier(logger), logger)

	reg := registry.NewRegistry(logger)
	reg.RegisterAction(tag.NewAddFactory(entities))

	return services.NewWorkflow(p, reg), p
}

func validWorkflow() *models.Workflow {
	return &models.Workflow{
		Name:       "Tag VIP leads",
		IsActive:   true,
		Trigger:    models.TriggerLeadCreated,
		Conditions: models.ConditionGroup{Logic: models.LogicAnd},
		Actions: []models.Action{
			{Type: models.ActionAddTag, Config: map[string]any{"tag": "vip"}},
		},
	}
}

func TestWorkflowService_Create(t *testing.T) {
	t.Parallel()

	service, _ := newWorkflowService(t)

	created, err := service.Create(context.Background(), validWorkflow())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Nil(t, created.DeletedAt)
}

func TestWorkflowService_CreateValidation(t *testing.T) {
	t.Parallel()

	service, _ := newWorkflowService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(w *models.Workflow)
	}{
		{
			name:   "name too short",
			mutate: func(w *models.Workflow) { w.Name = "ab" },
		},
		{
			name:   "unknown trigger kind",
			mutate: func(w *models.Workflow) { w.Trigger = "LEAD_TELEPORTED" },
		},
		{
			name:   "unknown condition logic",
			mutate: func(w *models.Workflow) { w.Conditions.Logic = "XOR" },
		},
		{
			name: "unknown operator",
			mutate: func(w *models.Workflow) {
				w.Conditions.Conditions = []models.Condition{
					{Field: "status", Operator: "MATCHES", Value: "x"},
				}
			},
		},
		{
			name: "operator without required value",
			mutate: func(w *models.Workflow) {
				w.Conditions.Conditions = []models.Condition{
					{Field: "status", Operator: models.OperatorEquals},
				}
			},
		},
		{
			name: "unregistered action type",
			mutate: func(w *models.Workflow) {
				w.Actions = []models.Action{{Type: models.ActionSendEmail, Config: map[string]any{}}}
			},
		},
		{
			name: "action config fails schema",
			mutate: func(w *models.Workflow) {
				w.Actions = []models.Action{{Type: models.ActionAddTag, Config: map[string]any{}}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			workflow := validWorkflow()
			tt.mutate(workflow)

			_, err := service.Create(ctx, workflow)
			require.Error(t, err)
			assert.True(t, services.IsValidationError(err))
		})
	}
}

func TestWorkflowService_IsEmptyNeedsNoValue(t *testing.T) {
	t.Parallel()

	service, _ := newWorkflowService(t)

	workflow := validWorkflow()
	workflow.Conditions.Conditions = []models.Condition{
		{Field: "owner", Operator: models.OperatorIsEmpty},
	}

	_, err := service.Create(context.Background(), workflow)
	require.NoError(t, err)
}

func TestWorkflowService_UpdateAndToggle(t *testing.T) {
	t.Parallel()

	service, _ := newWorkflowService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, validWorkflow())
	require.NoError(t, err)

	update := validWorkflow()
	update.Name = "Renamed workflow"

	updated, err := service.Update(ctx, created.ID, update)
	require.NoError(t, err)
	assert.Equal(t, "Renamed workflow", updated.Name)
	assert.Equal(t, created.ID, updated.ID)

	toggled, err := service.ToggleActive(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	toggled, err = service.ToggleActive(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)
}

func TestWorkflowService_DeleteHidesFromList(t *testing.T) {
	t.Parallel()

	service, _ := newWorkflowService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, validWorkflow())
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, created.ID))

	workflows, err := service.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, workflows)

	// The record itself survives for execution history.
	fetched, err := service.FetchByID(ctx, created.ID)
	require.NoError(t, err)
	assert.NotNil(t, fetched.DeletedAt)
}

func TestWorkflowService_UpdateMissingWorkflow(t *testing.T) {
	t.Parallel()

	service, _ := newWorkflowService(t)

	_, err := service.Update(context.Background(), "missing", validWorkflow())
	assert.True(t, persistence.IsWorkflowNotFound(err))
}
