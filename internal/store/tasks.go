package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// UpsertTaskStatus writes the status for (project, task), updating the
// existing row in place when one exists.
func (s *Store) UpsertTaskStatus(projectID, taskID string, status TaskState, errorMsg string) error {
	var existing TaskStatus
	err := s.db.Where("project_id = ? AND task_id = ?", projectID, taskID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.db.Create(&TaskStatus{
			ProjectID: projectID,
			TaskID:    taskID,
			Status:    status,
			ErrorMsg:  errorMsg,
		}).Error
	case err != nil:
		return fmt.Errorf("looking up task status: %w", err)
	default:
		existing.Status = status
		existing.ErrorMsg = errorMsg
		return s.db.Save(&existing).Error
	}
}

// TaskStatusFor returns the record for (project, task), or nil when
// the task has never been written.
func (s *Store) TaskStatusFor(projectID, taskID string) (*TaskStatus, error) {
	var st TaskStatus
	err := s.db.Where("project_id = ? AND task_id = ?", projectID, taskID).First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// TaskStatusesForProject returns all task records for a project.
func (s *Store) TaskStatusesForProject(projectID string) ([]TaskStatus, error) {
	var out []TaskStatus
	err := s.db.Where("project_id = ?", projectID).Order("task_id asc").Find(&out).Error
	return out, err
}
