package registry_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaycrm/relay/pkg/actions/tag"
	"github.com/relaycrm/relay/pkg/delivery"
	"github.com/relaycrm/relay/pkg/models"
	"github.com/relaycrm/relay/pkg/persistence/file"
	"github.com/relaycrm/relay/pkg/registry"
	"github.com/relaycrm/relay/pkg/services"
)

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	logger := slog.Default()
	p := file.NewPersistence(t.TempDir())
	entities := services.NewEntities(p, delivery.NewSlogNotifier(logger), logger)

	r := registry.NewRegistry(logger)
	r.RegisterAction(tag.NewAddFactory(entities))
	r.RegisterAction(tag.NewRemoveFactory(entities))

	return r
}

func TestRegistry_CreateHandler(t *testing.T) {
	t.Parallel()

	r := newRegistry(t)

	handler, err := r.CreateHandler(context.Background(), models.ActionAddTag, map[string]any{"tag": "vip"})
	require.NoError(t, err)
	assert.NotNil(t, handler)
}

func TestRegistry_CreateHandlerUnknownType(t *testing.T) {
	t.Parallel()

	r := newRegistry(t)

	_, err := r.CreateHandler(context.Background(), models.ActionSendEmail, map[string]any{"to": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported action type")
}

func TestRegistry_ActionTypes(t *testing.T) {
	t.Parallel()

	r := newRegistry(t)

	assert.ElementsMatch(t,
		[]models.ActionType{models.ActionAddTag, models.ActionRemoveTag},
		r.ActionTypes())
}

func TestRegistry_Schema(t *testing.T) {
	t.Parallel()

	r := newRegistry(t)

	schema, ok := r.Schema(models.ActionAddTag)
	require.True(t, ok)
	assert.Equal(t, "object", schema["type"])

	_, ok = r.Schema(models.ActionSendWebhook)
	assert.False(t, ok)
}

func TestRegistry_HealthCheck(t *testing.T) {
	t.Parallel()

	empty := registry.NewRegistry(slog.Default())
	message, healthy := empty.HealthCheck()
	assert.False(t, healthy)
	assert.Contains(t, message, "No action handlers")

	message, healthy = newRegistry(t).HealthCheck()
	assert.True(t, healthy)
	assert.Contains(t, message, "2 action handlers")
}

func TestValidateActionConfig(t *testing.T) {
	t.Parallel()

	r := newRegistry(t)

	tests := []struct {
		name    string
		action  models.Action
		wantErr bool
	}{
		{
			name:   "valid config",
			action: models.Action{Type: models.ActionAddTag, Config: map[string]any{"tag": "vip"}},
		},
		{
			name:    "missing required property",
			action:  models.Action{Type: models.ActionAddTag, Config: map[string]any{}},
			wantErr: true,
		},
		{
			name:    "nil config fails required",
			action:  models.Action{Type: models.ActionAddTag},
			wantErr: true,
		},
		{
			name:    "unexpected property",
			action:  models.Action{Type: models.ActionRemoveTag, Config: map[string]any{"tag": "vip", "extra": true}},
			wantErr: true,
		},
		{
			name:    "unregistered type",
			action:  models.Action{Type: models.ActionCreateTask, Config: map[string]any{"title": "call"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := r.ValidateActionConfig(tt.action)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
