package registry

import (
	"encoding/json"
	"fmt"

	"github.com/relaycrm/relay/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

// ValidateActionConfig checks an action's config against the schema exposed
// by its factory. Unknown action types are rejected here, before the
// workflow is saved, so the executor only ever sees registered types in
// well-formed workflows.
func (r *Registry) ValidateActionConfig(action models.Action) error {
	schema, ok := r.Schema(action.Type)
	if !ok {
		return fmt.Errorf("unsupported action type %q", action.Type)
	}

	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("failed to marshal schema for %q: %w", action.Type, err)
	}

	config := action.Config
	if config == nil {
		config = map[string]any{}
	}

	configJSON, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config for %q: %w", action.Type, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewBytesLoader(configJSON),
	)
	if err != nil {
		return fmt.Errorf("schema validation for %q: %w", action.Type, err)
	}

	if !result.Valid() {
		errs := result.Errors()
		if len(errs) > 0 {
			return fmt.Errorf("invalid config for %q: %s", action.Type, errs[0].String())
		}

		return fmt.Errorf("invalid config for %q", action.Type)
	}

	return nil
}
