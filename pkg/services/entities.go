package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/relaycrm/relay/pkg/models"
	"github.com/relaycrm/relay/pkg/persistence"
)

// OwnerField is the entity field assignment actions mutate.
const OwnerField = "assigned_to"

// StatusField is the entity field CHANGE_STATUS mutates.
const StatusField = "status"

// Entities is the domain-service collaborator behind assignment, status,
// tag, field and task actions. It owns the small invariants the engine
// relies on (assignment targets must exist, tasks get IDs and timestamps);
// everything else about CRM records stays with their own services.
type Entities struct {
	persistence persistence.Persistence
	notifier    Notifier
	logger      *slog.Logger
}

func NewEntities(p persistence.Persistence, notifier Notifier, logger *slog.Logger) *Entities {
	return &Entities{
		persistence: p,
		notifier:    notifier,
		logger:      logger.With("module", "entities"),
	}
}

// AssignOwner reassigns the entity to a user and notifies them. The user
// must exist in the directory.
func (s *Entities) AssignOwner(ctx context.Context, entityType models.EntityType, entityID, userID string) error {
	user, err := s.persistence.Directory().UserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to resolve assignee %s: %w", userID, err)
	}

	if err := s.persistence.Entities().SetField(ctx, entityType, entityID, OwnerField, user.ID); err != nil {
		return fmt.Errorf("failed to assign %s %s: %w", entityType, entityID, err)
	}

	notification := Notification{
		UserID:  user.ID,
		Type:    "assignment",
		Title:   fmt.Sprintf("New %s assigned", entityType),
		Message: fmt.Sprintf("%s %s was assigned to you", entityType, entityID),
		Metadata: map[string]any{
			"entity_type": entityType,
			"entity_id":   entityID,
		},
	}

	// Notification failure is not an assignment failure.
	if err := s.notifier.SendNotification(ctx, notification); err != nil {
		s.logger.WarnContext(ctx, "Failed to notify assignee",
			"user_id", user.ID, "error", err)
	}

	return nil
}

// AssignTeam resolves the team and assigns the entity to its first member.
// Returns the chosen member's ID.
func (s *Entities) AssignTeam(ctx context.Context, entityType models.EntityType, entityID, teamID string) (string, error) {
	team, err := s.persistence.Directory().TeamByID(ctx, teamID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve team %s: %w", teamID, err)
	}

	if len(team.Members) == 0 {
		return "", fmt.Errorf("team %s has no members", teamID)
	}

	memberID := team.Members[0]
	if err := s.AssignOwner(ctx, entityType, entityID, memberID); err != nil {
		return "", err
	}

	return memberID, nil
}

// ChangeStatus mutates the entity's status field.
func (s *Entities) ChangeStatus(ctx context.Context, entityType models.EntityType, entityID, status string) error {
	return s.persistence.Entities().SetField(ctx, entityType, entityID, StatusField, status)
}

// UpdateField performs a generic single-field mutation.
func (s *Entities) UpdateField(ctx context.Context, entityType models.EntityType, entityID, field string, value any) error {
	if field == "" {
		return fmt.Errorf("field name is required")
	}

	return s.persistence.Entities().SetField(ctx, entityType, entityID, field, value)
}

// AddTag adds a tag to the entity's tag set; adding an existing tag is a
// no-op.
func (s *Entities) AddTag(ctx context.Context, entityType models.EntityType, entityID, tag string) error {
	return s.persistence.Entities().AddTag(ctx, entityType, entityID, tag)
}

// RemoveTag removes a tag from the entity's tag set.
func (s *Entities) RemoveTag(ctx context.Context, entityType models.EntityType, entityID, tag string) error {
	return s.persistence.Entities().RemoveTag(ctx, entityType, entityID, tag)
}

// CreateTask inserts a new task linked to the triggering entity and stamps
// identity and timing.
func (s *Entities) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	if task.Title == "" {
		return nil, fmt.Errorf("task title is required")
	}

	task.ID = uuid.New().String()
	task.CreatedAt = time.Now().UTC()

	if task.Status == "" {
		task.Status = "open"
	}

	if err := s.persistence.Entities().CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// Snapshot fetches the entity's current field map.
func (s *Entities) Snapshot(ctx context.Context, entityType models.EntityType, entityID string) (map[string]any, error) {
	return s.persistence.Entities().Get(ctx, entityType, entityID)
}
