package mocks

import (
	"context"
	"sync"

	"github.com/meridian-labs/entsync-core/internal/core/domain"
	"github.com/meridian-labs/entsync-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ExportQueue = (*MockExportQueue)(nil)

// MockExportQueue is an in-memory FIFO ExportQueue for testing.
type MockExportQueue struct {
	mu      sync.Mutex
	pending []*domain.ExportTask
	tasks   map[string]*domain.ExportTask
	acks    []string
	nacks   []string
}

// NewMockExportQueue creates a new MockExportQueue
func NewMockExportQueue() *MockExportQueue {
	return &MockExportQueue{
		tasks: make(map[string]*domain.ExportTask),
	}
}

func (m *MockExportQueue) Enqueue(ctx context.Context, task *domain.ExportTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, task)
	m.tasks[task.ID] = task
	return nil
}

func (m *MockExportQueue) Dequeue(ctx context.Context) (*domain.ExportTask, error) {
	return m.DequeueWithTimeout(ctx, 0)
}

func (m *MockExportQueue) DequeueWithTimeout(ctx context.Context, timeout int) (*domain.ExportTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.pending) == 0 {
		return nil, nil
	}
	task := m.pending[0]
	m.pending = m.pending[1:]
	task.MarkProcessing()
	return task, nil
}

func (m *MockExportQueue) Ack(ctx context.Context, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acks = append(m.acks, taskID)
	if task, ok := m.tasks[taskID]; ok {
		task.MarkCompleted()
	}
	return nil
}

func (m *MockExportQueue) Nack(ctx context.Context, taskID string, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nacks = append(m.nacks, taskID)
	if task, ok := m.tasks[taskID]; ok {
		if task.CanRetry() {
			task.Retry(reason)
		} else {
			task.MarkFailed(reason)
		}
	}
	return nil
}

func (m *MockExportQueue) GetTask(ctx context.Context, taskID string) (*domain.ExportTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[taskID]
	if !ok {
		return nil, nil
	}
	return task, nil
}

func (m *MockExportQueue) Stats(ctx context.Context) (*driven.QueueStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &driven.QueueStats{PendingCount: int64(len(m.pending))}
	for _, task := range m.tasks {
		switch task.Status {
		case domain.TaskStatusCompleted:
			stats.CompletedCount++
		case domain.TaskStatusFailed:
			stats.FailedCount++
		case domain.TaskStatusProcessing:
			stats.ProcessingCount++
		}
	}
	return stats, nil
}

func (m *MockExportQueue) Ping(ctx context.Context) error { return nil }

func (m *MockExportQueue) Close() error { return nil }

// Helper methods for testing

func (m *MockExportQueue) Acks() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.acks...)
}

func (m *MockExportQueue) Nacks() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.nacks...)
}
