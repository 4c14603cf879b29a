// Package engine implements the automation pipeline: trigger dispatch,
// condition evaluation and ordered action execution.
package engine

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/relaycrm/relay/pkg/models"
)

// Evaluate decides whether a condition group matches the trigger data.
// AND requires every condition to hold and is vacuously true on an empty
// list; OR requires at least one and is vacuously false on an empty list.
// Evaluation is pure and never panics: malformed conditions resolve false.
func Evaluate(group models.ConditionGroup, triggerData map[string]any) bool {
	switch group.Logic {
	case models.LogicAnd:
		for _, condition := range group.Conditions {
			if !EvaluateCondition(condition, triggerData) {
				return false
			}
		}

		return true
	case models.LogicOr:
		for _, condition := range group.Conditions {
			if EvaluateCondition(condition, triggerData) {
				return true
			}
		}

		return false
	default:
		// Unknown combinator: fail closed.
		return false
	}
}

// EvaluateCondition applies a single predicate to the trigger data. A field
// that resolves to nothing, an unknown operator or a value that cannot be
// coerced all evaluate false (true for IS_EMPTY), so a malformed workflow
// can never crash the trigger pipeline.
func EvaluateCondition(condition models.Condition, triggerData map[string]any) bool {
	value, found := ResolvePath(triggerData, condition.Field)

	switch condition.Operator {
	case models.OperatorEquals:
		return found && looseEquals(value, condition.Value)
	case models.OperatorNotEquals:
		return !found || !looseEquals(value, condition.Value)
	case models.OperatorContains:
		return found && contains(value, condition.Value)
	case models.OperatorNotContains:
		return !found || !contains(value, condition.Value)
	case models.OperatorGreaterThan:
		return compareNumeric(value, condition.Value, func(a, b float64) bool { return a > b })
	case models.OperatorLessThan:
		return compareNumeric(value, condition.Value, func(a, b float64) bool { return a < b })
	case models.OperatorGreaterThanOrEqual:
		return compareNumeric(value, condition.Value, func(a, b float64) bool { return a >= b })
	case models.OperatorLessThanOrEqual:
		return compareNumeric(value, condition.Value, func(a, b float64) bool { return a <= b })
	case models.OperatorIsEmpty:
		return isEmpty(value)
	case models.OperatorIsNotEmpty:
		return !isEmpty(value)
	default:
		return false
	}
}

// ResolvePath walks a dotted path ("lead.status") through nested maps.
// Resolution short-circuits as soon as an intermediate key is missing or is
// not a map.
func ResolvePath(data map[string]any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}

	var current any = data

	for part := range strings.SplitSeq(path, ".") {
		currentMap, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		current, ok = currentMap[part]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// looseEquals compares case-insensitively when both sides stringify,
// structurally otherwise. Maps and slices reach here through nested trigger
// fields and object-valued condition values; comparing those with == panics,
// so the fallback is reflect.DeepEqual.
func looseEquals(left, right any) bool {
	leftStr, leftOK := stringify(left)
	rightStr, rightOK := stringify(right)

	if leftOK && rightOK {
		return strings.EqualFold(leftStr, rightStr)
	}

	return reflect.DeepEqual(left, right)
}

func contains(haystack, needle any) bool {
	needleStr, needleOK := stringify(needle)

	switch v := haystack.(type) {
	case string:
		if !needleOK {
			return false
		}

		return strings.Contains(strings.ToLower(v), strings.ToLower(needleStr))
	case []any:
		for _, item := range v {
			if looseEquals(item, needle) {
				return true
			}
		}

		return false
	case []string:
		for _, item := range v {
			if needleOK && strings.EqualFold(item, needleStr) {
				return true
			}
		}

		return false
	default:
		return false
	}
}

func compareNumeric(left, right any, cmp func(a, b float64) bool) bool {
	leftNum, leftOK := toFloat(left)
	rightNum, rightOK := toFloat(right)

	if !leftOK || !rightOK {
		return false
	}

	return cmp(leftNum, rightNum)
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	default:
		return false
	}
}

func stringify(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

func toFloat(value any) (float64, bool) {
	var num float64

	switch v := value.(type) {
	case int:
		num = float64(v)
	case int32:
		num = float64(v)
	case int64:
		num = float64(v)
	case float32:
		num = float64(v)
	case float64:
		num = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}

		num = parsed
	default:
		return 0, false
	}

	if math.IsNaN(num) || math.IsInf(num, 0) {
		return 0, false
	}

	return num, true
}
