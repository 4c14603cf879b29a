// Package services provides the application services around the engine:
// workflow CRUD with validation, execution history and the collaborator
// contracts action handlers depend on.
package services

import (
	"errors"
	"fmt"
)

// Business logic errors. These indicate client errors (4xx responses).
var (
	// Validation errors (400 Bad Request).
	ErrInvalidRequest       = errors.New("invalid request")
	ErrInvalidTrigger       = errors.New("invalid trigger kind")
	ErrInvalidOperator      = errors.New("invalid condition operator")
	ErrConditionValueNeeded = errors.New("condition operator requires a value")
	ErrInvalidActionConfig  = errors.New("invalid action config")
	ErrWorkflowNil          = errors.New("workflow cannot be nil")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error is a validation error that should
// map to HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidTrigger) ||
		errors.Is(err, ErrInvalidOperator) ||
		errors.Is(err, ErrConditionValueNeeded) ||
		errors.Is(err, ErrInvalidActionConfig) ||
		errors.Is(err, ErrWorkflowNil)
}
