package driven

import (
	"context"

	"github.com/meridian-labs/entsync-core/internal/core/domain"
)

// ExportQueue handles queuing of deferred export tasks.
// Implementations can use Redis (preferred); the external scheduler enqueues
// and the worker consumes each task exactly once.
type ExportQueue interface {
	// Enqueue adds a task to the queue for processing.
	Enqueue(ctx context.Context, task *domain.ExportTask) error

	// Dequeue retrieves the next available task for processing, blocking
	// until one is available or the context is cancelled.
	Dequeue(ctx context.Context) (*domain.ExportTask, error)

	// DequeueWithTimeout retrieves the next available task, waiting up to
	// timeout seconds. Returns nil, nil when the timeout elapses idle.
	DequeueWithTimeout(ctx context.Context, timeout int) (*domain.ExportTask, error)

	// Ack acknowledges successful completion of a task.
	Ack(ctx context.Context, taskID string) error

	// Nack indicates task processing failed. The task is re-queued with
	// backoff while retries remain, then moved to failed state.
	Nack(ctx context.Context, taskID string, reason string) error

	// GetTask retrieves a task by ID (for status checking).
	GetTask(ctx context.Context, taskID string) (*domain.ExportTask, error)

	// Stats returns queue statistics.
	Stats(ctx context.Context) (*QueueStats, error)

	// Ping checks if the queue backend is healthy.
	Ping(ctx context.Context) error

	// Close cleans up resources.
	Close() error
}

// QueueStats contains queue statistics
type QueueStats struct {
	// PendingCount is the number of tasks waiting to be processed
	PendingCount int64 `json:"pending_count"`

	// ProcessingCount is the number of tasks currently being processed
	ProcessingCount int64 `json:"processing_count"`

	// CompletedCount is the number of successfully completed tasks
	CompletedCount int64 `json:"completed_count"`

	// FailedCount is the number of tasks that failed after all retries
	FailedCount int64 `json:"failed_count"`
}
