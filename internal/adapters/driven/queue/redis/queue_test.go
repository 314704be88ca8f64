package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/meridian-labs/entsync-core/internal/core/domain"
)

func setupTestQueue(t *testing.T) (*Queue, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	q, err := NewQueue(client, "test-worker")
	if err != nil {
		t.Fatalf("NewQueue() error = %v", err)
	}
	return q, mr
}

func TestQueue_EnqueueDequeueAck(t *testing.T) {
	q, _ := setupTestQueue(t)
	ctx := context.Background()

	task := domain.NewExportTask("users", "user", "42")
	if err := q.Enqueue(ctx, task); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	got, err := q.DequeueWithTimeout(ctx, 1)
	if err != nil {
		t.Fatalf("DequeueWithTimeout() error = %v", err)
	}
	if got == nil {
		t.Fatal("DequeueWithTimeout() = nil, want the enqueued task")
	}
	if got.ID != task.ID || got.SyncID != "users" || got.EntityTypeID != "user" || got.EntityID != "42" {
		t.Errorf("dequeued task = %+v, want the enqueued identity fields", got)
	}
	if got.Status != domain.TaskStatusProcessing {
		t.Errorf("dequeued status = %q, want processing", got.Status)
	}
	if got.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", got.Attempts)
	}

	if err := q.Ack(ctx, got.ID); err != nil {
		t.Fatalf("Ack() error = %v", err)
	}

	stored, err := q.GetTask(ctx, got.ID)
	if err != nil {
		t.Fatalf("GetTask() error = %v", err)
	}
	if stored.Status != domain.TaskStatusCompleted {
		t.Errorf("acked status = %q, want completed", stored.Status)
	}
}

func TestQueue_DequeueEmpty(t *testing.T) {
	q, _ := setupTestQueue(t)

	got, err := q.DequeueWithTimeout(context.Background(), 1)
	if err != nil {
		t.Fatalf("DequeueWithTimeout() error = %v", err)
	}
	if got != nil {
		t.Errorf("DequeueWithTimeout() = %+v, want nil on empty queue", got)
	}
}

func TestQueue_NackSchedulesRetry(t *testing.T) {
	q, _ := setupTestQueue(t)
	ctx := context.Background()

	task := domain.NewExportTask("users", "user", "42")
	if err := q.Enqueue(ctx, task); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	got, err := q.DequeueWithTimeout(ctx, 1)
	if err != nil || got == nil {
		t.Fatalf("DequeueWithTimeout() = %v, %v", got, err)
	}

	if err := q.Nack(ctx, got.ID, "remote rejected"); err != nil {
		t.Fatalf("Nack() error = %v", err)
	}

	stored, err := q.GetTask(ctx, got.ID)
	if err != nil {
		t.Fatalf("GetTask() error = %v", err)
	}
	if stored.Status != domain.TaskStatusPending {
		t.Errorf("nacked status = %q, want pending for retry", stored.Status)
	}
	if stored.Error != "remote rejected" {
		t.Errorf("nacked error = %q, want the nack reason", stored.Error)
	}

	// Backoff keeps the retry out of the stream until it is due.
	next, err := q.DequeueWithTimeout(ctx, 1)
	if err != nil {
		t.Fatalf("DequeueWithTimeout() error = %v", err)
	}
	if next != nil {
		t.Errorf("DequeueWithTimeout() = %+v, want nil before the backoff elapses", next)
	}
}

func TestQueue_NackExhaustedRetriesFails(t *testing.T) {
	q, _ := setupTestQueue(t)
	ctx := context.Background()

	task := domain.NewExportTask("users", "user", "42")
	task.MaxAttempts = 1
	if err := q.Enqueue(ctx, task); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	got, err := q.DequeueWithTimeout(ctx, 1)
	if err != nil || got == nil {
		t.Fatalf("DequeueWithTimeout() = %v, %v", got, err)
	}

	if err := q.Nack(ctx, got.ID, "remote rejected"); err != nil {
		t.Fatalf("Nack() error = %v", err)
	}

	stored, err := q.GetTask(ctx, got.ID)
	if err != nil {
		t.Fatalf("GetTask() error = %v", err)
	}
	if stored.Status != domain.TaskStatusFailed {
		t.Errorf("status = %q, want failed after max attempts", stored.Status)
	}
}

func TestQueue_DelayedTaskPromotedWhenDue(t *testing.T) {
	q, _ := setupTestQueue(t)
	ctx := context.Background()

	task := domain.NewExportTask("users", "user", "42")
	task.ScheduledFor = time.Now().Add(time.Second)
	if err := q.Enqueue(ctx, task); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	got, err := q.DequeueWithTimeout(ctx, 1)
	if err != nil {
		t.Fatalf("DequeueWithTimeout() error = %v", err)
	}
	if got != nil {
		t.Fatalf("DequeueWithTimeout() returned a task before its schedule")
	}

	// Once past the schedule, the promoter moves it into the stream.
	time.Sleep(1100 * time.Millisecond)
	got, err = q.DequeueWithTimeout(ctx, 1)
	if err != nil {
		t.Fatalf("DequeueWithTimeout() error = %v", err)
	}
	if got == nil {
		t.Fatal("DequeueWithTimeout() = nil, want the promoted task")
	}
}

func TestQueue_Stats(t *testing.T) {
	q, _ := setupTestQueue(t)
	ctx := context.Background()

	for _, id := range []string{"1", "2"} {
		if err := q.Enqueue(ctx, domain.NewExportTask("users", "user", id)); err != nil {
			t.Fatalf("Enqueue() error = %v", err)
		}
	}

	stats, err := q.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.PendingCount != 2 {
		t.Errorf("pending = %d, want 2", stats.PendingCount)
	}

	got, err := q.DequeueWithTimeout(ctx, 1)
	if err != nil || got == nil {
		t.Fatalf("DequeueWithTimeout() = %v, %v", got, err)
	}
	if err := q.Ack(ctx, got.ID); err != nil {
		t.Fatalf("Ack() error = %v", err)
	}

	stats, err = q.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.CompletedCount != 1 {
		t.Errorf("completed = %d, want 1", stats.CompletedCount)
	}
}

func TestQueue_Ping(t *testing.T) {
	q, _ := setupTestQueue(t)
	if err := q.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}
