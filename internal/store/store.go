package store

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// maxRecentProjects caps the recently-accessed list.
const maxRecentProjects = 10

// Store wraps the sqlite database behind the persistence contract.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the database at path and brings the
// schema up to date.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening store at %s: %w", path, err)
	}
	if err := migrate(db); err != nil {
		return nil, err
	}
	return &Store{
		db:     db,
		logger: slog.Default().With("component", "store"),
	}, nil
}

// OpenInMemory opens a throwaway store for tests. The DSN names the
// database uniquely with shared cache, so every pooled connection sees
// the same tables while separate stores stay isolated.
func OpenInMemory() (*Store, error) {
	return Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
}

// SaveProject upserts the project row by id.
func (s *Store) SaveProject(id, name string) error {
	var existing Project
	err := s.db.Where("id = ?", id).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.db.Create(&Project{ID: id, Name: name}).Error
	case err != nil:
		return fmt.Errorf("looking up project %s: %w", id, err)
	default:
		existing.Name = name
		return s.db.Save(&existing).Error
	}
}

// GetProject loads a project row by id.
func (s *Store) GetProject(id string) (*Project, error) {
	var p Project
	if err := s.db.Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// TouchRecentProject moves a project to the head of the
// recently-accessed list, evicting beyond the cap.
func (s *Store) TouchRecentProject(projectID, name string) error {
	rec := RecentProject{ProjectID: projectID, Name: name, AccessedAt: time.Now()}
	if err := s.db.Save(&rec).Error; err != nil {
		return fmt.Errorf("touching recent project: %w", err)
	}

	var count int64
	if err := s.db.Model(&RecentProject{}).Count(&count).Error; err != nil {
		return err
	}
	if count <= maxRecentProjects {
		return nil
	}

	var stale []RecentProject
	if err := s.db.Order("accessed_at asc").Limit(int(count) - maxRecentProjects).Find(&stale).Error; err != nil {
		return err
	}
	for _, r := range stale {
		if err := s.db.Delete(&r).Error; err != nil {
			return err
		}
	}
	return nil
}

// RecentProjects returns the list newest-first.
func (s *Store) RecentProjects() ([]RecentProject, error) {
	var out []RecentProject
	err := s.db.Order("accessed_at desc").Find(&out).Error
	return out, err
}

// PutSetting stores one key-value setting.
func (s *Store) PutSetting(key, value string) error {
	return s.db.Save(&Setting{Key: key, Value: value}).Error
}

// GetSetting returns the value for key, or "" when unset.
func (s *Store) GetSetting(key string) (string, error) {
	var setting Setting
	err := s.db.Where("key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}
