package store

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

// schemaVersion is one named, immutable snapshot in the additive
// migration chain. Each version's tables are a strict superset of the
// previous one's, so existing data survives every upgrade; later
// versions only add tables or re-declare indexes.
type schemaVersion struct {
	name  string
	apply func(db *gorm.DB) error
}

var schemaVersions = []schemaVersion{
	{
		// Initial layout: projects, settings, recent-project list.
		name: "v1-projects",
		apply: func(db *gorm.DB) error {
			return db.AutoMigrate(&Project{}, &Setting{}, &RecentProject{})
		},
	},
	{
		// Generated artifacts and task status tables.
		name: "v2-artifacts",
		apply: func(db *gorm.DB) error {
			return db.AutoMigrate(&GeneratedFile{}, &TaskStatus{})
		},
	},
	{
		// Compound keys for (project, task, path) and (project, task)
		// lookups. AutoMigrate re-declares the indexes from the model
		// tags on stores created before they existed.
		name: "v3-artifact-keys",
		apply: func(db *gorm.DB) error {
			m := db.Migrator()
			for model, index := range map[any]string{
				&GeneratedFile{}: "idx_file_key",
				&TaskStatus{}:    "idx_task_key",
			} {
				if !m.HasIndex(model, index) {
					if err := m.CreateIndex(model, index); err != nil {
						return err
					}
				}
			}
			return nil
		},
	},
}

// migrate applies the version chain in order. Versions are never
// mutated or reordered; a new layout means a new entry at the end.
func migrate(db *gorm.DB) error {
	logger := slog.Default().With("component", "store")
	for _, v := range schemaVersions {
		if err := v.apply(db); err != nil {
			return fmt.Errorf("applying schema %s: %w", v.name, err)
		}
		logger.Debug("schema version applied", "version", v.name)
	}
	return nil
}
