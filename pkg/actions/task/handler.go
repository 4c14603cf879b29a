// Package task implements the CREATE_TASK action.
package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/relaycrm/relay/pkg/models"
	"github.com/relaycrm/relay/pkg/services"
	"github.com/relaycrm/relay/pkg/template"
)

type Handler struct {
	title       string
	description string
	assigneeID  string
	dueInDays   int
	entities    *services.Entities
}

func NewHandler(config map[string]any, entities *services.Entities) (*Handler, error) {
	title, ok := config["title"].(string)
	if !ok || title == "" {
		return nil, fmt.Errorf("missing or invalid 'title' in configuration")
	}

	description, _ := config["description"].(string)
	assigneeID, _ := config["assignee_id"].(string)

	dueInDays := 0
	if raw, ok := config["due_in_days"].(float64); ok {
		dueInDays = int(raw)
	}

	return &Handler{
		title:       title,
		description: description,
		assigneeID:  assigneeID,
		dueInDays:   dueInDays,
		entities:    entities,
	}, nil
}

func (h *Handler) Execute(ctx context.Context, triggerData map[string]any, logger *slog.Logger) (any, error) {
	entityType, entityID, err := models.EntityRefFromTrigger(triggerData)
	if err != nil {
		return nil, err
	}

	title, err := template.Render(h.title, triggerData)
	if err != nil {
		return nil, err
	}

	description, err := template.Render(h.description, triggerData)
	if err != nil {
		return nil, err
	}

	newTask := &models.Task{
		Title:       title,
		Description: description,
		AssigneeID:  h.assigneeID,
		EntityType:  entityType,
		EntityID:    entityID,
	}

	if h.dueInDays > 0 {
		due := time.Now().UTC().AddDate(0, 0, h.dueInDays)
		newTask.DueAt = &due
	}

	created, err := h.entities.CreateTask(ctx, newTask)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Task created",
		"task_id", created.ID, "entity_type", entityType, "entity_id", entityID)

	return map[string]any{"task_id": created.ID}, nil
}
