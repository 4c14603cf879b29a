// Package web provides HTTP request and response types for the automation API.
package web

import "github.com/relaycrm/relay/pkg/models"

// CreateWorkflowRequest represents the request body for creating a new workflow.
type CreateWorkflowRequest struct {
	Name        string                `json:"name"         validate:"required,min=3"`
	Description string                `json:"description"`
	IsActive    *bool                 `json:"is_active,omitempty"`
	Trigger     models.TriggerKind    `json:"trigger"      validate:"required"`
	TriggerData map[string]any        `json:"trigger_data,omitempty"`
	Conditions  models.ConditionGroup `json:"conditions"`
	Actions     []models.Action       `json:"actions"`
	CreatedBy   string                `json:"created_by,omitempty"`
}

// UpdateWorkflowRequest represents the request body for updating an existing
// workflow. All fields are optional to support partial updates.
type UpdateWorkflowRequest struct {
	Name        *string                `json:"name,omitempty"        validate:"omitempty,min=3"`
	Description *string                `json:"description,omitempty"`
	IsActive    *bool                  `json:"is_active,omitempty"`
	Trigger     *models.TriggerKind    `json:"trigger,omitempty"`
	TriggerData map[string]any         `json:"trigger_data,omitempty"`
	Conditions  *models.ConditionGroup `json:"conditions,omitempty"`
	Actions     []models.Action        `json:"actions,omitempty"`
}

// FireTriggerRequest carries the entity snapshot for a trigger delivery.
type FireTriggerRequest struct {
	TriggerData map[string]any `json:"trigger_data" validate:"required"`
}

// FireTriggerResponse acknowledges an accepted trigger delivery. The engine
// runs asynchronously; EventID lets callers correlate worker logs.
type FireTriggerResponse struct {
	EventID string             `json:"event_id"`
	Kind    models.TriggerKind `json:"kind"`
	Status  string             `json:"status"`
}

// ToWorkflow builds the domain model from a create request.
func (r *CreateWorkflowRequest) ToWorkflow() *models.Workflow {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}

	return &models.Workflow{
		Name:        r.Name,
		Description: r.Description,
		IsActive:    active,
		Trigger:     r.Trigger,
		TriggerData: r.TriggerData,
		Conditions:  r.Conditions,
		Actions:     r.Actions,
		CreatedBy:   r.CreatedBy,
	}
}

// ApplyTo merges the partial update onto an existing workflow.
func (r *UpdateWorkflowRequest) ApplyTo(workflow *models.Workflow) {
	if r.Name != nil {
		workflow.Name = *r.Name
	}

	if r.Description != nil {
		workflow.Description = *r.Description
	}

	if r.IsActive != nil {
		workflow.IsActive = *r.IsActive
	}

	if r.Trigger != nil {
		workflow.Trigger = *r.Trigger
	}

	if r.TriggerData != nil {
		workflow.TriggerData = r.TriggerData
	}

	if r.Conditions != nil {
		workflow.Conditions = *r.Conditions
	}

	if r.Actions != nil {
		workflow.Actions = r.Actions
	}
}
