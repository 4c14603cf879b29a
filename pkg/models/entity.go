package models

import (
	"fmt"
	"strconv"
	"time"
)

// EntityType identifies which CRM record a trigger payload describes. The
// dispatcher's callers put it in trigger data under the "entity_type" key.
type EntityType string

const (
	EntityLead EntityType = "lead"
	EntityDeal EntityType = "deal"
	EntityTask EntityType = "task"
)

// Trigger data keys the engine and action handlers read. Callers fill these
// in alongside the entity snapshot.
const (
	KeyEntityType = "entity_type"
	KeyEntityID   = "id"
)

// EntityRefFromTrigger extracts the target entity reference from a trigger
// payload. The entity ID may arrive as a string or a JSON number.
func EntityRefFromTrigger(triggerData map[string]any) (EntityType, string, error) {
	rawType, ok := triggerData[KeyEntityType].(string)
	if !ok || rawType == "" {
		return "", "", fmt.Errorf("trigger data has no %q key", KeyEntityType)
	}

	var id string

	switch v := triggerData[KeyEntityID].(type) {
	case string:
		id = v
	case float64:
		id = strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		id = strconv.Itoa(v)
	case int64:
		id = strconv.FormatInt(v, 10)
	}

	if id == "" {
		return "", "", fmt.Errorf("trigger data has no %q key", KeyEntityID)
	}

	return EntityType(rawType), id, nil
}

// User is the minimal directory record actions need to resolve assignment
// and notification targets.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Team groups users for ASSIGN_TO_TEAM resolution.
type Team struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// Task is the record CREATE_TASK inserts, linked back to the entity that
// fired the trigger.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"       validate:"required"`
	Description string     `json:"description,omitempty"`
	AssigneeID  string     `json:"assignee_id,omitempty"`
	EntityType  EntityType `json:"entity_type,omitempty"`
	EntityID    string     `json:"entity_id,omitempty"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}
