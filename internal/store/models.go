// Package store is the artifact persistence layer: generated files and
// per-task status tracked in a local sqlite database with upsert-safe,
// idempotent write semantics.
package store

import "time"

// FileStatus is the lifecycle state of one generated file.
type FileStatus string

const (
	FilePending   FileStatus = "pending"
	FileApproved  FileStatus = "approved"
	FileRejected  FileStatus = "rejected"
	FileCommitted FileStatus = "committed"
)

// TaskState is the lifecycle state of one generation task.
type TaskState string

const (
	TaskPending        TaskState = "pending"
	TaskGenerating     TaskState = "generating"
	TaskGenerated      TaskState = "generated"
	TaskApproved       TaskState = "approved"
	TaskCommitted      TaskState = "committed"
	TaskError          TaskState = "error"
	TaskSkipped        TaskState = "skipped"
	TaskManualPending  TaskState = "manual-pending"
	TaskManualComplete TaskState = "manual-complete"
)

// Project is the root row every artifact hangs off.
type Project struct {
	ID        string `gorm:"primaryKey;size:64"`
	Name      string `gorm:"size:255;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Setting is one key-value application setting.
type Setting struct {
	Key       string `gorm:"primaryKey;size:128"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

// RecentProject records project access order, capped at the ten most
// recent rows.
type RecentProject struct {
	ProjectID  string    `gorm:"primaryKey;size:64"`
	Name       string    `gorm:"size:255"`
	AccessedAt time.Time `gorm:"index:idx_recent_accessed"`
}

// GeneratedFile is one produced artifact. At most one live row exists
// per (project, task, path); regeneration updates in place.
type GeneratedFile struct {
	ID        uint       `gorm:"primaryKey"`
	ProjectID string     `gorm:"size:64;not null;index:idx_file_key,unique,priority:1;index:idx_file_task,priority:1;index:idx_file_status,priority:1"`
	TaskID    string     `gorm:"size:64;not null;index:idx_file_key,unique,priority:2;index:idx_file_task,priority:2"`
	Path      string     `gorm:"size:512;not null;index:idx_file_key,unique,priority:3"`
	Content   string     `gorm:"type:text"`
	Language  string     `gorm:"size:32"`
	Status    FileStatus `gorm:"size:32;not null;default:pending;index:idx_file_status,priority:2"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskStatus is the per-task completion record, one row per
// (project, task).
type TaskStatus struct {
	ID        uint      `gorm:"primaryKey"`
	ProjectID string    `gorm:"size:64;not null;index:idx_task_key,unique,priority:1"`
	TaskID    string    `gorm:"size:64;not null;index:idx_task_key,unique,priority:2"`
	Status    TaskState `gorm:"size:32;not null;default:pending"`
	ErrorMsg  string    `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
