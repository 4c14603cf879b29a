// Package template renders action config strings against trigger data, so a
// SEND_EMAIL body can reference the entity that fired the workflow
// ("Hi {{.trigger_data.name}}").
package template

import (
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Render executes a config string as a text/template over the trigger data.
// The payload is exposed under .trigger_data; a missing key renders as an
// error so a typo in a workflow config is visible in the action result
// instead of silently producing "<no value>".
func Render(input string, triggerData map[string]any) (string, error) {
	if !strings.Contains(input, "{{") {
		return input, nil
	}

	tmpl, err := template.
		New("action_config").
		Option("missingkey=error").
		Funcs(template.FuncMap{
			"now": func() string {
				return time.Now().UTC().Format(time.RFC3339)
			},
			"upper": strings.ToUpper,
			"lower": strings.ToLower,
		}).
		Parse(input)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %q: %w", input, err)
	}

	data := map[string]any{
		"trigger_data": triggerData,
	}

	var buf strings.Builder

	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("failed to render template %q: %w", input, err)
	}

	return buf.String(), nil
}

// RenderAll renders every string value of a config map, leaving non-string
// values untouched. The input map is not modified.
func RenderAll(config map[string]any, triggerData map[string]any) (map[string]any, error) {
	rendered := make(map[string]any, len(config))

	for key, value := range config {
		strVal, ok := value.(string)
		if !ok {
			rendered[key] = value

			continue
		}

		out, err := Render(strVal, triggerData)
		if err != nil {
			return nil, fmt.Errorf("config key %q: %w", key, err)
		}

		rendered[key] = out
	}

	return rendered, nil
}
