package models

// ConditionLogic combines the predicates of a condition group.
type ConditionLogic string

const (
	LogicAnd ConditionLogic = "AND"
	LogicOr  ConditionLogic = "OR"
)

// ConditionOperator is the comparison applied between a resolved field and
// the condition value. Values are storage constants; do not rename.
type ConditionOperator string

const (
	OperatorEquals             ConditionOperator = "EQUALS"
	OperatorNotEquals          ConditionOperator = "NOT_EQUALS"
	OperatorContains           ConditionOperator = "CONTAINS"
	OperatorNotContains        ConditionOperator = "NOT_CONTAINS"
	OperatorGreaterThan        ConditionOperator = "GREATER_THAN"
	OperatorLessThan           ConditionOperator = "LESS_THAN"
	OperatorGreaterThanOrEqual ConditionOperator = "GREATER_THAN_OR_EQUAL"
	OperatorLessThanOrEqual    ConditionOperator = "LESS_THAN_OR_EQUAL"
	OperatorIsEmpty            ConditionOperator = "IS_EMPTY"
	OperatorIsNotEmpty         ConditionOperator = "IS_NOT_EMPTY"
)

// Condition is a single field/operator/value predicate evaluated against
// trigger data. Field is a dotted path into the trigger payload
// (e.g. "lead.status"). Value is unused for IS_EMPTY / IS_NOT_EMPTY.
type Condition struct {
	Field    string            `json:"field"    validate:"required"`
	Operator ConditionOperator `json:"operator" validate:"required"`
	Value    any               `json:"value,omitempty"`
}

// ConditionGroup is a logic operator plus a list of conditions. An empty list
// is vacuously true under AND and false under OR.
type ConditionGroup struct {
	Logic      ConditionLogic `json:"logic"      validate:"required,oneof=AND OR"`
	Conditions []Condition    `json:"conditions"`
}

// RequiresValue reports whether the operator needs a comparison value.
func (o ConditionOperator) RequiresValue() bool {
	return o != OperatorIsEmpty && o != OperatorIsNotEmpty
}

// Valid reports whether o is one of the known operators.
func (o ConditionOperator) Valid() bool {
	switch o {
	case OperatorEquals, OperatorNotEquals, OperatorContains, OperatorNotContains,
		OperatorGreaterThan, OperatorLessThan, OperatorGreaterThanOrEqual,
		OperatorLessThanOrEqual, OperatorIsEmpty, OperatorIsNotEmpty:
		return true
	default:
		return false
	}
}
