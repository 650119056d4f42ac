package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// SaveGeneratedFile upserts one file by its (project, task, path) key.
// An existing row keeps its identity and creation time; content,
// language and status are refreshed along with the update timestamp.
// Note the lookup-then-write pair is not atomic against a concurrent
// writer on the same key; the store assumes a single local writer.
func (s *Store) SaveGeneratedFile(f GeneratedFile) error {
	var existing GeneratedFile
	err := s.db.Where("project_id = ? AND task_id = ? AND path = ?",
		f.ProjectID, f.TaskID, f.Path).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if f.Status == "" {
			f.Status = FilePending
		}
		return s.db.Create(&f).Error
	case err != nil:
		return fmt.Errorf("looking up generated file: %w", err)
	default:
		existing.Content = f.Content
		existing.Language = f.Language
		if f.Status != "" {
			existing.Status = f.Status
		}
		return s.db.Save(&existing).Error
	}
}

// SaveGeneratedFiles inserts a batch directly, skipping the per-row
// lookup. The caller guarantees the batch targets fresh keys, which
// holds when a task's old files are cleared before regeneration.
func (s *Store) SaveGeneratedFiles(files []GeneratedFile) error {
	if len(files) == 0 {
		return nil
	}
	for i := range files {
		if files[i].Status == "" {
			files[i].Status = FilePending
		}
	}
	if err := s.db.Create(&files).Error; err != nil {
		return fmt.Errorf("bulk inserting %d files: %w", len(files), err)
	}
	s.logger.Debug("bulk insert", "files", len(files), "project", files[0].ProjectID)
	return nil
}

// FilesForTask returns every file under (project, task).
func (s *Store) FilesForTask(projectID, taskID string) ([]GeneratedFile, error) {
	var out []GeneratedFile
	err := s.db.Where("project_id = ? AND task_id = ?", projectID, taskID).
		Order("path asc").Find(&out).Error
	return out, err
}

// FilesForProject returns every file for a project.
func (s *Store) FilesForProject(projectID string) ([]GeneratedFile, error) {
	var out []GeneratedFile
	err := s.db.Where("project_id = ?", projectID).Order("task_id asc, path asc").Find(&out).Error
	return out, err
}

// ApproveTaskFiles sets every file under (project, task) to approved,
// regardless of prior status. This is a coarse bulk action, not a
// state-machine step.
func (s *Store) ApproveTaskFiles(projectID, taskID string) error {
	return s.db.Model(&GeneratedFile{}).
		Where("project_id = ? AND task_id = ?", projectID, taskID).
		Update("status", FileApproved).Error
}

// MarkFilesCommitted promotes a task's approved files to committed.
// Files still pending or rejected are left alone, so nothing skips
// review by riding along with a commit.
func (s *Store) MarkFilesCommitted(projectID, taskID string) error {
	return s.db.Model(&GeneratedFile{}).
		Where("project_id = ? AND task_id = ? AND status = ?", projectID, taskID, FileApproved).
		Update("status", FileCommitted).Error
}

// RejectFile marks one file rejected by key.
func (s *Store) RejectFile(projectID, taskID, path string) error {
	return s.db.Model(&GeneratedFile{}).
		Where("project_id = ? AND task_id = ? AND path = ?", projectID, taskID, path).
		Update("status", FileRejected).Error
}

// DeleteTaskFiles removes every file under (project, task), used
// before regenerating a task so the bulk insert targets fresh keys.
func (s *Store) DeleteTaskFiles(projectID, taskID string) error {
	return s.db.Where("project_id = ? AND task_id = ?", projectID, taskID).
		Delete(&GeneratedFile{}).Error
}
