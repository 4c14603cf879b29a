package template_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaycrm/relay/pkg/template"
)

func TestRender(t *testing.T) {
	t.Parallel()

	triggerData := map[string]any{
		"name":  "Ana",
		"email": "ana@example.com",
		"deal":  map[string]any{"value": 5000},
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain string passes through",
			input:    "no placeholders here",
			expected: "no placeholders here",
		},
		{
			name:     "simple substitution",
			input:    "Hi {{.trigger_data.name}}",
			expected: "Hi Ana",
		},
		{
			name:     "nested field",
			input:    "Deal worth {{.trigger_data.deal.value}}",
			expected: "Deal worth 5000",
		},
		{
			name:     "upper function",
			input:    "{{upper .trigger_data.name}}",
			expected: "ANA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := template.Render(tt.input, triggerData)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestRender_MissingKeyFails(t *testing.T) {
	t.Parallel()

	_, err := template.Render("Hi {{.trigger_data.nam}}", map[string]any{"name": "Ana"})
	require.Error(t, err)
}

func TestRender_BadTemplateFails(t *testing.T) {
	t.Parallel()

	_, err := template.Render("Hi {{.trigger_data.name", map[string]any{"name": "Ana"})
	require.Error(t, err)
}

func TestRenderAll(t *testing.T) {
	t.Parallel()

	config := map[string]any{
		"subject": "Welcome {{.trigger_data.name}}",
		"retries": 3,
	}

	rendered, err := template.RenderAll(config, map[string]any{"name": "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "Welcome Ana", rendered["subject"])
	assert.Equal(t, 3, rendered["retries"])

	// The original config is untouched.
	assert.Equal(t, "Welcome {{.trigger_data.name}}", config["subject"])
}
