package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/relaycrm/relay/pkg/models"
	"github.com/relaycrm/relay/pkg/persistence"
)

// EntityRepository handles CRM record database operations. Record fields
// live in one JSONB document per row so workflow actions can touch any
// field without a schema migration.
type EntityRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewEntityRepository creates a new entity repository.
func NewEntityRepository(db *sql.DB, logger *slog.Logger) *EntityRepository {
	return &EntityRepository{db: db, logger: logger}
}

// Get returns the record's field map.
func (r *EntityRepository) Get(ctx context.Context, entityType models.EntityType, id string) (map[string]any, error) {
	query := `SELECT fields FROM entities WHERE entity_type = $1 AND id = $2`

	var fieldsJSON []byte

	err := r.db.QueryRowContext(ctx, query, string(entityType), id).Scan(&fieldsJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s %s: %w", entityType, id, persistence.ErrEntityNotFound)
		}

		return nil, fmt.Errorf("failed to query entity: %w", err)
	}

	fields := map[string]any{}
	if err := json.Unmarshal(fieldsJSON, &fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entity fields: %w", err)
	}

	return fields, nil
}

// SetField writes one field on the record's JSONB document.
func (r *EntityRepository) SetField(ctx context.Context, entityType models.EntityType, id, field string, value any) error {
	valueJSON, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal field value: %w", err)
	}

	query := `
		UPDATE entities
		SET fields = jsonb_set(fields, ARRAY[$3], $4::jsonb, true), updated_at = NOW()
		WHERE entity_type = $1 AND id = $2
	`

	return r.mutate(ctx, entityType, id, query, string(entityType), id, field, valueJSON)
}

// AddTag appends a tag to the record's tags array if it is not already there.
func (r *EntityRepository) AddTag(ctx context.Context, entityType models.EntityType, id, tag string) error {
	tagJSON, err := json.Marshal(tag)
	if err != nil {
		return fmt.Errorf("failed to marshal tag: %w", err)
	}

	query := `
		UPDATE entities
		SET fields = jsonb_set(
				fields,
				'{tags}',
				COALESCE(fields->'tags', '[]'::jsonb) || $3::jsonb,
				true
			),
			updated_at = NOW()
		WHERE entity_type = $1 AND id = $2
		  AND NOT COALESCE(fields->'tags', '[]'::jsonb) @> $4::jsonb
	`

	tagElementJSON := "[" + string(tagJSON) + "]"

	result, err := r.db.ExecContext(ctx, query, string(entityType), id, tagElementJSON, tagElementJSON)
	if err != nil {
		return fmt.Errorf("failed to add tag: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to add tag: %w", err)
	}

	// Zero rows means either the record is missing or the tag already exists.
	// Only the former is an error.
	if affected == 0 {
		if _, err := r.Get(ctx, entityType, id); err != nil {
			return err
		}
	}

	return nil
}

// RemoveTag drops a tag from the record's tags array.
func (r *EntityRepository) RemoveTag(ctx context.Context, entityType models.EntityType, id, tag string) error {
	query := `
		UPDATE entities
		SET fields = jsonb_set(
				fields,
				'{tags}',
				COALESCE(fields->'tags', '[]'::jsonb) - $3,
				true
			),
			updated_at = NOW()
		WHERE entity_type = $1 AND id = $2
	`

	return r.mutate(ctx, entityType, id, query, string(entityType), id, tag)
}

// CreateTask inserts a follow-up task.
func (r *EntityRepository) CreateTask(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (
			id, title, description, assignee_id, entity_type, entity_id,
			due_at, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		nullableString(task.AssigneeID),
		nullableString(string(task.EntityType)),
		nullableString(task.EntityID),
		task.DueAt,
		task.Status,
		task.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

func (r *EntityRepository) mutate(ctx context.Context, entityType models.EntityType, id, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update entity: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update entity: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("%s %s: %w", entityType, id, persistence.ErrEntityNotFound)
	}

	return nil
}

// DirectoryRepository resolves users and teams.
type DirectoryRepository struct {
	db *sql.DB
}

// NewDirectoryRepository creates a new directory repository.
func NewDirectoryRepository(db *sql.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

// UserByID returns a user by ID.
func (r *DirectoryRepository) UserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT id, name, email FROM users WHERE id = $1`

	var user models.User

	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Name, &user.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, persistence.ErrUserNotFound)
		}

		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

// TeamByID returns a team by ID.
func (r *DirectoryRepository) TeamByID(ctx context.Context, id string) (*models.Team, error) {
	query := `SELECT id, name, members FROM teams WHERE id = $1`

	var (
		team        models.Team
		membersJSON []byte
	)

	err := r.db.QueryRowContext(ctx, query, id).Scan(&team.ID, &team.Name, &membersJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("team %s: %w", id, persistence.ErrTeamNotFound)
		}

		return nil, fmt.Errorf("failed to query team: %w", err)
	}

	if len(membersJSON) > 0 {
		if err := json.Unmarshal(membersJSON, &team.Members); err != nil {
			return nil, fmt.Errorf("failed to unmarshal team members: %w", err)
		}
	}

	return &team, nil
}
