package task_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaycrm/relay/pkg/actions/task"
	"github.com/relaycrm/relay/pkg/delivery"
	"github.com/relaycrm/relay/pkg/models"
	"github.com/relaycrm/relay/pkg/persistence/file"
	"github.com/relaycrm/relay/pkg/services"
)

func newEntities(t *testing.T) (*services.Entities, *file.Persistence) {
	t.Helper()

	p := file.NewPersistence(t.TempDir())
	logger := slog.Default()

	return services.NewEntities(p, delivery.NewSlogNotifier(logger), logger), p
}

func TestHandler_CreatesTask(t *testing.T) {
	t.Parallel()

	entities, p := newEntities(t)

	handler, err := task.NewHandler(map[string]any{
		"title":       "Call {{.trigger_data.name}}",
		"description": "Created automatically",
		"assignee_id": "user-1",
		"due_in_days": float64(3),
	}, entities)
	require.NoError(t, err)

	result, err := handler.Execute(context.Background(), map[string]any{
		"entity_type": "lead",
		"id":          "lead-1",
		"name":        "Ana",
	}, slog.Default())
	require.NoError(t, err)

	output, ok := result.(map[string]any)
	require.True(t, ok)

	taskID, ok := output["task_id"].(string)
	require.True(t, ok)

	record, err := p.Entities().Get(context.Background(), models.EntityTask, taskID)
	require.NoError(t, err)
	assert.Equal(t, "Call Ana", record["title"])
	assert.Equal(t, "user-1", record["assignee_id"])

	dueAt, ok := record["due_at"].(string)
	require.True(t, ok)

	due, err := time.Parse(time.RFC3339, dueAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, 3), due, time.Minute)
}

func TestHandler_NoDueDate(t *testing.T) {
	t.Parallel()

	entities, p := newEntities(t)

	handler, err := task.NewHandler(map[string]any{"title": "Follow up"}, entities)
	require.NoError(t, err)

	result, err := handler.Execute(context.Background(), map[string]any{
		"entity_type": "lead",
		"id":          "lead-1",
	}, slog.Default())
	require.NoError(t, err)

	output := result.(map[string]any)
	taskID := output["task_id"].(string)

	record, err := p.Entities().Get(context.Background(), models.EntityTask, taskID)
	require.NoError(t, err)
	assert.Nil(t, record["due_at"])
	assert.Equal(t, "open", record["status"])
}

func TestNewHandler_RequiresTitle(t *testing.T) {
	t.Parallel()

	entities, _ := newEntities(t)

	_, err := task.NewHandler(map[string]any{}, entities)
	require.Error(t, err)
}

func TestHandler_BadTemplateFails(t *testing.T) {
	t.Parallel()

	entities, _ := newEntities(t)

	handler, err := task.NewHandler(map[string]any{"title": "Call {{.trigger_data.missing}}"}, entities)
	require.NoError(t, err)

	_, err = handler.Execute(context.Background(), map[string]any{
		"entity_type": "lead",
		"id":          "lead-1",
	}, slog.Default())
	require.Error(t, err)
}
