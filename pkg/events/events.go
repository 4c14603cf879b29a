// Package events defines the event types that carry trigger deliveries and
// execution lifecycle notifications across the bus.
package events

import (
	"time"

	"github.com/relaycrm/relay/pkg/models"
)

type EventType string

// Kafka topics.
const Topic = "relay.automation.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// TriggerFiredEvent carries a domain event from a CRM service to the
	// automation worker. The publisher never waits on the engine.
	TriggerFiredEvent EventType = "automation.trigger.fired"

	// Execution lifecycle events, emitted after the engine settles.
	ExecutionCompletedEvent EventType = "automation.execution.completed"
	ExecutionFailedEvent    EventType = "automation.execution.failed"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// TriggerFired is published by CRM domain services when an entity changes.
// ID doubles as the idempotency key for duplicate-delivery suppression.
type TriggerFired struct {
	BaseEvent

	Kind        models.TriggerKind `json:"kind"`
	TriggerData map[string]any     `json:"trigger_data,omitempty"`
}

func (t TriggerFired) GetType() EventType {
	return TriggerFiredEvent
}

type ExecutionCompleted struct {
	BaseEvent

	WorkflowID  string                 `json:"workflow_id"`
	ExecutionID string                 `json:"execution_id"`
	Status      models.ExecutionStatus `json:"status"`
	Duration    time.Duration          `json:"duration"`
}

func (e ExecutionCompleted) GetType() EventType {
	return ExecutionCompletedEvent
}

type ExecutionFailed struct {
	BaseEvent

	WorkflowID  string `json:"workflow_id"`
	ExecutionID string `json:"execution_id,omitempty"`
	Error       string `json:"error"`
}

func (e ExecutionFailed) GetType() EventType {
	return ExecutionFailedEvent
}
