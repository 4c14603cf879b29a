// Package models defines the core domain models for CRM automation workflows.
package models

import "time"

// Workflow is a named automation rule: one trigger, one condition group and
// an ordered action list. Soft deleted workflows keep their row with
// DeletedAt set and never match a trigger again.
type Workflow struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"        validate:"required,min=3"`
	Description string         `json:"description,omitempty"`
	IsActive    bool           `json:"is_active"`
	Trigger     TriggerKind    `json:"trigger"     validate:"required"`
	TriggerData map[string]any `json:"trigger_data,omitempty"`
	Conditions  ConditionGroup `json:"conditions"`
	Actions     []Action       `json:"actions"`
	CreatedBy   string         `json:"created_by,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   *time.Time     `json:"deleted_at,omitempty"`
}

// Runnable reports whether the workflow may be picked up by the dispatcher.
func (w *Workflow) Runnable() bool {
	return w.IsActive && w.DeletedAt == nil
}
