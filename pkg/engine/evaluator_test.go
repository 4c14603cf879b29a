package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relaycrm/relay/pkg/engine"
	"github.com/relaycrm/relay/pkg/models"
)

func TestEvaluate_AndLogic(t *testing.T) {
	t.Parallel()

	triggerData := map[string]any{
		"status": "qualified",
		"value":  float64(5000),
	}

	tests := []struct {
		name       string
		conditions []models.Condition
		expected   bool
	}{
		{
			name: "all conditions match",
			conditions: []models.Condition{
				{Field: "status", Operator: models.OperatorEquals, Value: "qualified"},
				{Field: "value", Operator: models.OperatorGreaterThan, Value: float64(1000)},
			},
			expected: true,
		},
		{
			name: "one condition fails",
			conditions: []models.Condition{
				{Field: "status", Operator: models.OperatorEquals, Value: "qualified"},
				{Field: "value", Operator: models.OperatorLessThan, Value: float64(1000)},
			},
			expected: false,
		},
		{
			name:       "no conditions is a match",
			conditions: []models.Condition{},
			expected:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			group := models.ConditionGroup{Logic: models.LogicAnd, Conditions: tt.conditions}
			assert.Equal(t, tt.expected, engine.Evaluate(group, triggerData))
		})
	}
}

func TestEvaluate_OrLogic(t *testing.T) {
	t.Parallel()

	triggerData := map[string]any{"status": "new"}

	tests := []struct {
		name       string
		conditions []models.Condition
		expected   bool
	}{
		{
			name: "one of two matches",
			conditions: []models.Condition{
				{Field: "status", Operator: models.OperatorEquals, Value: "qualified"},
				{Field: "status", Operator: models.OperatorEquals, Value: "new"},
			},
			expected: true,
		},
		{
			name: "none match",
			conditions: []models.Condition{
				{Field: "status", Operator: models.OperatorEquals, Value: "qualified"},
				{Field: "status", Operator: models.OperatorEquals, Value: "won"},
			},
			expected: false,
		},
		{
			name:       "no conditions never matches",
			conditions: []models.Condition{},
			expected:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			group := models.ConditionGroup{Logic: models.LogicOr, Conditions: tt.conditions}
			assert.Equal(t, tt.expected, engine.Evaluate(group, triggerData))
		})
	}
}

func TestEvaluate_UnknownLogic(t *testing.T) {
	t.Parallel()

	group := models.ConditionGroup{
		Logic: models.ConditionLogic("XOR"),
		Conditions: []models.Condition{
			{Field: "status", Operator: models.OperatorEquals, Value: "new"},
		},
	}

	assert.False(t, engine.Evaluate(group, map[string]any{"status": "new"}))
}

func TestEvaluateCondition_Equals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		triggerData map[string]any
		condition   models.Condition
		expected    bool
	}{
		{
			name:        "case insensitive string match",
			triggerData: map[string]any{"status": "Qualified"},
			condition:   models.Condition{Field: "status", Operator: models.OperatorEquals, Value: "qualified"},
			expected:    true,
		},
		{
			name:        "numeric match across types",
			triggerData: map[string]any{"count": float64(3)},
			condition:   models.Condition{Field: "count", Operator: models.OperatorEquals, Value: 3},
			expected:    true,
		},
		{
			name:        "mismatch",
			triggerData: map[string]any{"status": "new"},
			condition:   models.Condition{Field: "status", Operator: models.OperatorEquals, Value: "won"},
			expected:    false,
		},
		{
			name:        "missing field never matches",
			triggerData: map[string]any{},
			condition:   models.Condition{Field: "status", Operator: models.OperatorEquals, Value: "new"},
			expected:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, engine.EvaluateCondition(tt.condition, tt.triggerData))
		})
	}
}

func TestEvaluateCondition_NotEquals(t *testing.T) {
	t.Parallel()

	condition := models.Condition{Field: "status", Operator: models.OperatorNotEquals, Value: "won"}

	assert.True(t, engine.EvaluateCondition(condition, map[string]any{"status": "new"}))
	assert.False(t, engine.EvaluateCondition(condition, map[string]any{"status": "won"}))

	// A missing field cannot equal anything.
	assert.True(t, engine.EvaluateCondition(condition, map[string]any{}))
}

func TestEvaluateCondition_ObjectValues(t *testing.T) {
	t.Parallel()

	address := map[string]any{"city": "Lisbon", "country": "PT"}

	tests := []struct {
		name        string
		triggerData map[string]any
		condition   models.Condition
		expected    bool
	}{
		{
			name:        "equal nested objects match",
			triggerData: map[string]any{"address": map[string]any{"city": "Lisbon", "country": "PT"}},
			condition:   models.Condition{Field: "address", Operator: models.OperatorEquals, Value: address},
			expected:    true,
		},
		{
			name:        "different nested objects do not match",
			triggerData: map[string]any{"address": map[string]any{"city": "Porto", "country": "PT"}},
			condition:   models.Condition{Field: "address", Operator: models.OperatorEquals, Value: address},
			expected:    false,
		},
		{
			name:        "not equals on differing objects",
			triggerData: map[string]any{"address": map[string]any{"city": "Porto"}},
			condition:   models.Condition{Field: "address", Operator: models.OperatorNotEquals, Value: address},
			expected:    true,
		},
		{
			name:        "slice against slice",
			triggerData: map[string]any{"stages": []any{"new", "qualified"}},
			condition:   models.Condition{Field: "stages", Operator: models.OperatorEquals, Value: []any{"new", "qualified"}},
			expected:    true,
		},
		{
			name:        "object membership in list field",
			triggerData: map[string]any{"contacts": []any{map[string]any{"email": "ana@example.com"}}},
			condition:   models.Condition{Field: "contacts", Operator: models.OperatorContains, Value: map[string]any{"email": "ana@example.com"}},
			expected:    true,
		},
		{
			name:        "object absent from list field",
			triggerData: map[string]any{"contacts": []any{map[string]any{"email": "ana@example.com"}}},
			condition:   models.Condition{Field: "contacts", Operator: models.OperatorNotContains, Value: map[string]any{"email": "bob@example.com"}},
			expected:    true,
		},
		{
			name:        "object against scalar fails closed",
			triggerData: map[string]any{"address": "Lisbon"},
			condition:   models.Condition{Field: "address", Operator: models.OperatorEquals, Value: address},
			expected:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.NotPanics(t, func() {
				assert.Equal(t, tt.expected, engine.EvaluateCondition(tt.condition, tt.triggerData))
			})
		})
	}
}

func TestEvaluateCondition_Contains(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		triggerData map[string]any
		condition   models.Condition
		expected    bool
	}{
		{
			name:        "substring match",
			triggerData: map[string]any{"notes": "Call back on Monday"},
			condition:   models.Condition{Field: "notes", Operator: models.OperatorContains, Value: "monday"},
			expected:    true,
		},
		{
			name:        "array membership",
			triggerData: map[string]any{"tags": []any{"vip", "inbound"}},
			condition:   models.Condition{Field: "tags", Operator: models.OperatorContains, Value: "vip"},
			expected:    true,
		},
		{
			name:        "array miss",
			triggerData: map[string]any{"tags": []any{"inbound"}},
			condition:   models.Condition{Field: "tags", Operator: models.OperatorContains, Value: "vip"},
			expected:    false,
		},
		{
			name:        "not contains on missing field",
			triggerData: map[string]any{},
			condition:   models.Condition{Field: "tags", Operator: models.OperatorNotContains, Value: "vip"},
			expected:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, engine.EvaluateCondition(tt.condition, tt.triggerData))
		})
	}
}

func TestEvaluateCondition_NumericComparisons(t *testing.T) {
	t.Parallel()

	triggerData := map[string]any{
		"value":  float64(5000),
		"rating": "high",
	}

	tests := []struct {
		name      string
		condition models.Condition
		expected  bool
	}{
		{
			name:      "greater than",
			condition: models.Condition{Field: "value", Operator: models.OperatorGreaterThan, Value: float64(1000)},
			expected:  true,
		},
		{
			name:      "greater or equal at boundary",
			condition: models.Condition{Field: "value", Operator: models.OperatorGreaterThanOrEqual, Value: float64(5000)},
			expected:  true,
		},
		{
			name:      "less than fails",
			condition: models.Condition{Field: "value", Operator: models.OperatorLessThan, Value: float64(5000)},
			expected:  false,
		},
		{
			name:      "less or equal at boundary",
			condition: models.Condition{Field: "value", Operator: models.OperatorLessThanOrEqual, Value: float64(5000)},
			expected:  true,
		},
		{
			name:      "numeric string coerces",
			condition: models.Condition{Field: "value", Operator: models.OperatorGreaterThan, Value: "4999"},
			expected:  true,
		},
		{
			name:      "non numeric operand fails closed",
			condition: models.Condition{Field: "rating", Operator: models.OperatorGreaterThan, Value: float64(1)},
			expected:  false,
		},
		{
			name:      "missing field fails closed",
			condition: models.Condition{Field: "score", Operator: models.OperatorGreaterThan, Value: float64(1)},
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, engine.EvaluateCondition(tt.condition, triggerData))
		})
	}
}

func TestEvaluateCondition_Emptiness(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		data      map[string]any
		condition models.Condition
		expected  bool
	}{
		{
			name:      "missing field is empty",
			data:      map[string]any{},
			condition: models.Condition{Field: "owner", Operator: models.OperatorIsEmpty},
			expected:  true,
		},
		{
			name:      "empty string is empty",
			data:      map[string]any{"owner": ""},
			condition: models.Condition{Field: "owner", Operator: models.OperatorIsEmpty},
			expected:  true,
		},
		{
			name:      "nil is empty",
			data:      map[string]any{"owner": nil},
			condition: models.Condition{Field: "owner", Operator: models.OperatorIsEmpty},
			expected:  true,
		},
		{
			name:      "empty slice is empty",
			data:      map[string]any{"tags": []any{}},
			condition: models.Condition{Field: "tags", Operator: models.OperatorIsEmpty},
			expected:  true,
		},
		{
			name:      "zero is not empty",
			data:      map[string]any{"value": float64(0)},
			condition: models.Condition{Field: "value", Operator: models.OperatorIsNotEmpty},
			expected:  true,
		},
		{
			name:      "populated string is not empty",
			data:      map[string]any{"owner": "user-1"},
			condition: models.Condition{Field: "owner", Operator: models.OperatorIsNotEmpty},
			expected:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, engine.EvaluateCondition(tt.condition, tt.data))
		})
	}
}

func TestEvaluateCondition_UnknownOperator(t *testing.T) {
	t.Parallel()

	condition := models.Condition{Field: "status", Operator: models.ConditionOperator("MATCHES"), Value: "new"}

	assert.False(t, engine.EvaluateCondition(condition, map[string]any{"status": "new"}))
}

func TestResolvePath(t *testing.T) {
	t.Parallel()

	data := map[string]any{
		"id": "lead-1",
		"owner": map[string]any{
			"team": map[string]any{"name": "sales"},
		},
	}

	tests := []struct {
		name     string
		path     string
		expected any
		found    bool
	}{
		{name: "top level", path: "id", expected: "lead-1", found: true},
		{name: "nested", path: "owner.team.name", expected: "sales", found: true},
		{name: "missing leaf", path: "owner.team.size", found: false},
		{name: "path through non-map", path: "id.sub", found: false},
		{name: "missing root", path: "deal.value", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			value, found := engine.ResolvePath(data, tt.path)
			assert.Equal(t, tt.found, found)

			if tt.found {
				assert.Equal(t, tt.expected, value)
			}
		})
	}
}

func TestEvaluateCondition_NestedField(t *testing.T) {
	t.Parallel()

	triggerData := map[string]any{
		"deal": map[string]any{"stage": "negotiation"},
	}

	condition := models.Condition{
		Field:    "deal.stage",
		Operator: models.OperatorEquals,
		Value:    "negotiation",
	}

	assert.True(t, engine.EvaluateCondition(condition, triggerData))
}
