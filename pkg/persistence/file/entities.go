package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/relaycrm/relay/pkg/models"
	"github.com/relaycrm/relay/pkg/persistence"
)

const tagsField = "tags"

// EntityRepository stores CRM records as loosely typed field maps under
// <root>/entities/<type>.
type EntityRepository struct {
	root string
	mu   sync.Mutex
}

func NewEntityRepository(root string) *EntityRepository {
	return &EntityRepository{root: filepath.Join(root, "entities")}
}

func (er *EntityRepository) dir(entityType models.EntityType) string {
	return filepath.Join(er.root, string(entityType))
}

func (er *EntityRepository) Get(ctx context.Context, entityType models.EntityType, id string) (map[string]any, error) {
	er.mu.Lock()
	defer er.mu.Unlock()

	return er.get(entityType, id)
}

func (er *EntityRepository) get(entityType models.EntityType, id string) (map[string]any, error) {
	record := map[string]any{}

	err := readJSON(er.dir(entityType), id, &record)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s %s: %w", entityType, id, persistence.ErrEntityNotFound)
		}

		return nil, err
	}

	return record, nil
}

func (er *EntityRepository) SetField(ctx context.Context, entityType models.EntityType, id, field string, value any) error {
	er.mu.Lock()
	defer er.mu.Unlock()

	record, err := er.get(entityType, id)
	if err != nil {
		return err
	}

	record[field] = value

	return writeJSON(er.dir(entityType), id, record)
}

func (er *EntityRepository) AddTag(ctx context.Context, entityType models.EntityType, id, tag string) error {
	er.mu.Lock()
	defer er.mu.Unlock()

	record, err := er.get(entityType, id)
	if err != nil {
		return err
	}

	tags := readTags(record)
	for _, existing := range tags {
		if existing == tag {
			return nil
		}
	}

	record[tagsField] = append(tags, tag)

	return writeJSON(er.dir(entityType), id, record)
}

func (er *EntityRepository) RemoveTag(ctx context.Context, entityType models.EntityType, id, tag string) error {
	er.mu.Lock()
	defer er.mu.Unlock()

	record, err := er.get(entityType, id)
	if err != nil {
		return err
	}

	tags := readTags(record)
	kept := make([]string, 0, len(tags))

	for _, existing := range tags {
		if existing != tag {
			kept = append(kept, existing)
		}
	}

	record[tagsField] = kept

	return writeJSON(er.dir(entityType), id, record)
}

func (er *EntityRepository) CreateTask(ctx context.Context, task *models.Task) error {
	er.mu.Lock()
	defer er.mu.Unlock()

	return writeJSON(er.dir(models.EntityTask), task.ID, task)
}

// SeedEntity writes a raw record. Intended for tests and local fixtures.
func (er *EntityRepository) SeedEntity(entityType models.EntityType, id string, record map[string]any) error {
	er.mu.Lock()
	defer er.mu.Unlock()

	return writeJSON(er.dir(entityType), id, record)
}

func readTags(record map[string]any) []string {
	switch v := record[tagsField].(type) {
	case []string:
		return v
	case []any:
		tags := make([]string, 0, len(v))

		for _, item := range v {
			if s, ok := item.(string); ok {
				tags = append(tags, s)
			}
		}

		return tags
	default:
		return []string{}
	}
}

// DirectoryRepository stores users and teams under <root>/users and
// <root>/teams.
type DirectoryRepository struct {
	usersDir string
	teamsDir string
	mu       sync.RWMutex
}

func NewDirectoryRepository(root string) *DirectoryRepository {
	return &DirectoryRepository{
		usersDir: filepath.Join(root, "users"),
		teamsDir: filepath.Join(root, "teams"),
	}
}

func (dr *DirectoryRepository) UserByID(ctx context.Context, id string) (*models.User, error) {
	dr.mu.RLock()
	defer dr.mu.RUnlock()

	var user models.User

	err := readJSON(dr.usersDir, id, &user)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("user %s: %w", id, persistence.ErrUserNotFound)
		}

		return nil, err
	}

	return &user, nil
}

func (dr *DirectoryRepository) TeamByID(ctx context.Context, id string) (*models.Team, error) {
	dr.mu.RLock()
	defer dr.mu.RUnlock()

	var team models.Team

	err := readJSON(dr.teamsDir, id, &team)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("team %s: %w", id, persistence.ErrTeamNotFound)
		}

		return nil, err
	}

	return &team, nil
}

// SeedUser writes a user record. Intended for tests and local fixtures.
func (dr *DirectoryRepository) SeedUser(user *models.User) error {
	dr.mu.Lock()
	defer dr.mu.Unlock()

	return writeJSON(dr.usersDir, user.ID, user)
}

// SeedTeam writes a team record. Intended for tests and local fixtures.
func (dr *DirectoryRepository) SeedTeam(team *models.Team) error {
	dr.mu.Lock()
	defer dr.mu.Unlock()

	return writeJSON(dr.teamsDir, team.ID, team)
}
