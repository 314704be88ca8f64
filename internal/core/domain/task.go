package domain

import (
	"fmt"
	"time"
)

// TaskStatus represents the current state of a queued export task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// ExportTask is a deferred export job produced by the external scheduler and
// consumed exactly once by the queue worker. The wire shape is the flat
// record {sync_id, entity_type_id, entity_id}; the remaining fields are
// queue bookkeeping.
type ExportTask struct {
	// ID is the unique identifier for this task
	ID string `json:"id"`

	// SyncID names the sync definition governing the export
	SyncID string `json:"sync_id"`

	// EntityTypeID is the local entity type of the export target
	EntityTypeID string `json:"entity_type_id"`

	// EntityID is the local storage id of the export target
	EntityID string `json:"entity_id"`

	// Status is the current state of the task
	Status TaskStatus `json:"status"`

	// Attempts is how many times this task has been attempted
	Attempts int `json:"attempts"`

	// MaxAttempts is the maximum retry count before giving up
	MaxAttempts int `json:"max_attempts"`

	// Error contains the last error message if failed
	Error string `json:"error,omitempty"`

	// CreatedAt is when the task was enqueued
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the task was last modified
	UpdatedAt time.Time `json:"updated_at"`

	// StartedAt is when processing began (nil if not started)
	StartedAt *time.Time `json:"started_at,omitempty"`

	// CompletedAt is when processing finished (nil if not complete)
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// ScheduledFor is when the task should be processed (for delayed retries)
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewExportTask creates a pending export task with default bookkeeping.
func NewExportTask(syncID, entityTypeID, entityID string) *ExportTask {
	now := time.Now()
	return &ExportTask{
		ID:           GenerateID(),
		SyncID:       syncID,
		EntityTypeID: entityTypeID,
		EntityID:     entityID,
		Status:       TaskStatusPending,
		MaxAttempts:  3,
		CreatedAt:    now,
		UpdatedAt:    now,
		ScheduledFor: now,
	}
}

// Validate enforces the wire shape: all three identity fields must be
// non-empty. Malformed items are a caller-fixable validation error; the
// re-queue/drop decision belongs to the external scheduler.
func (t *ExportTask) Validate() error {
	if t.SyncID == "" {
		return fmt.Errorf("export task missing sync_id: %w", ErrValidation)
	}
	if t.EntityTypeID == "" {
		return fmt.Errorf("export task missing entity_type_id: %w", ErrValidation)
	}
	if t.EntityID == "" {
		return fmt.Errorf("export task missing entity_id: %w", ErrValidation)
	}
	return nil
}

// CanRetry returns true if the task can be retried
func (t *ExportTask) CanRetry() bool {
	return t.Attempts < t.MaxAttempts
}

// IsReady returns true if the task is ready to be processed
func (t *ExportTask) IsReady() bool {
	return t.Status == TaskStatusPending && time.Now().After(t.ScheduledFor)
}

// MarkProcessing updates the task to processing state
func (t *ExportTask) MarkProcessing() {
	now := time.Now()
	t.Status = TaskStatusProcessing
	t.StartedAt = &now
	t.UpdatedAt = now
	t.Attempts++
}

// MarkCompleted updates the task to completed state
func (t *ExportTask) MarkCompleted() {
	now := time.Now()
	t.Status = TaskStatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
	t.Error = ""
}

// MarkFailed updates the task to failed state
func (t *ExportTask) MarkFailed(err string) {
	now := time.Now()
	t.Status = TaskStatusFailed
	t.UpdatedAt = now
	t.Error = err
}

// Retry resets the task for retry with exponential backoff
func (t *ExportTask) Retry(err string) {
	now := time.Now()
	t.Status = TaskStatusPending
	t.UpdatedAt = now
	t.Error = err

	// Exponential backoff: 1s, 2s, 4s, 8s, etc., capped at 5 minutes
	backoff := time.Duration(1<<t.Attempts) * time.Second
	if backoff > 5*time.Minute {
		backoff = 5 * time.Minute
	}
	t.ScheduledFor = now.Add(backoff)
}
