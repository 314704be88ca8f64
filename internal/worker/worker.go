package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/meridian-labs/entsync-core/internal/core/domain"
	"github.com/meridian-labs/entsync-core/internal/core/ports/driven"
	"github.com/meridian-labs/entsync-core/internal/core/ports/driving"
)

// Worker consumes deferred export tasks from the queue. Each task moves
// through validate, load and execute, and failures are dispatched to the
// error policy configured on the sync's export operation.
type Worker struct {
	queue       driven.ExportQueue
	operations  driving.Operations
	entityStore driven.EntityStore
	configStore driven.SyncConfigStore
	logger      *slog.Logger

	// Configuration
	concurrency    int
	dequeueTimeout int // seconds

	// Internal state
	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// WorkerConfig holds configuration for the worker.
type WorkerConfig struct {
	Queue          driven.ExportQueue
	Operations     driving.Operations
	EntityStore    driven.EntityStore
	ConfigStore    driven.SyncConfigStore
	Logger         *slog.Logger
	Concurrency    int // Number of concurrent task processors
	DequeueTimeout int // Seconds to wait for a task before checking again
}

// NewWorker creates a new export worker.
func NewWorker(cfg WorkerConfig) *Worker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	dequeueTimeout := cfg.DequeueTimeout
	if dequeueTimeout <= 0 {
		dequeueTimeout = 5
	}

	return &Worker{
		queue:          cfg.Queue,
		operations:     cfg.Operations,
		entityStore:    cfg.EntityStore,
		configStore:    cfg.ConfigStore,
		logger:         logger,
		concurrency:    concurrency,
		dequeueTimeout: dequeueTimeout,
	}
}

// Start begins the worker loop.
// It runs until Stop is called or context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	w.logger.Info("worker starting",
		"concurrency", w.concurrency,
		"dequeue_timeout", w.dequeueTimeout,
	)

	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			w.processLoop(ctx, workerID)
		}(i)
	}

	go func() {
		wg.Wait()
		close(w.doneCh)
	}()

	return nil
}

// Stop gracefully stops the worker.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	close(w.stopCh)
	w.mu.Unlock()

	<-w.doneCh

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	w.logger.Info("worker stopped")
}

// Wait blocks until the worker stops.
func (w *Worker) Wait() {
	<-w.doneCh
}

// processLoop is the main processing loop for a worker goroutine.
func (w *Worker) processLoop(ctx context.Context, workerID int) {
	logger := w.logger.With("worker_id", workerID)
	logger.Info("worker goroutine started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("worker context cancelled")
			return
		case <-w.stopCh:
			logger.Info("worker stop signal received")
			return
		default:
		}

		task, err := w.queue.DequeueWithTimeout(ctx, w.dequeueTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			logger.Error("failed to dequeue task", "error", err)
			time.Sleep(time.Second) // Back off on error
			continue
		}

		if task == nil {
			continue
		}

		w.processTask(ctx, task, logger)
	}
}

// processTask runs one export task through validate, load and execute, and
// applies the sync's error policy when any of those fail.
func (w *Worker) processTask(ctx context.Context, task *domain.ExportTask, logger *slog.Logger) {
	logger = logger.With("task_id", task.ID)

	if err := task.Validate(); err != nil {
		logger.Error("invalid export task", "error", err)
		w.nack(ctx, task, err, logger)
		return
	}

	// Entity absence is an execution error, fed into the same policy
	// dispatch as an export failure.
	execErr := w.export(ctx, task)
	if execErr == nil {
		w.ack(ctx, task, logger)
		return
	}

	w.dispatchFailure(ctx, task, execErr, logger)
}

// export loads the target entity and executes the export operation.
func (w *Worker) export(ctx context.Context, task *domain.ExportTask) error {
	local, err := w.entityStore.Load(ctx, task.EntityTypeID, task.EntityID)
	if err != nil {
		return err
	}
	return w.operations.ExportLocalEntity(ctx, task.SyncID, local, nil)
}

// dispatchFailure applies the error policy configured on the sync's export
// operation. throw re-queues the failure without logging, log_and_skip logs
// once and completes the task, log_and_throw logs then re-queues, and skip
// completes the task silently.
func (w *Worker) dispatchFailure(ctx context.Context, task *domain.ExportTask, execErr error, logger *slog.Logger) {
	policy, err := w.errorPolicy(ctx, task)
	if err != nil {
		logger.Error("failed to resolve queue error policy", "error", err, "sync_id", task.SyncID)
		w.nack(ctx, task, execErr, logger)
		return
	}

	switch policy {
	case domain.PolicyThrow:
		w.nack(ctx, task, execErr, logger)

	case domain.PolicyLogAndSkip:
		w.logFailure(task, execErr, logger)
		w.ack(ctx, task, logger)

	case domain.PolicyLogAndThrow:
		w.logFailure(task, execErr, logger)
		w.nack(ctx, task, execErr, logger)

	case domain.PolicySkip:
		w.ack(ctx, task, logger)
	}
}

// errorPolicy reads the export operation's queue error policy for the task's
// sync. A missing operation config falls back to the default policy.
func (w *Worker) errorPolicy(ctx context.Context, task *domain.ExportTask) (domain.QueueErrorPolicy, error) {
	sync, err := w.configStore.Get(ctx, task.SyncID)
	if err != nil {
		return "", err
	}
	opCfg := sync.Operation(domain.OperationExportEntity)
	if opCfg == nil {
		return domain.PolicyThrow, nil
	}
	return opCfg.ErrorPolicy()
}

func (w *Worker) logFailure(task *domain.ExportTask, execErr error, logger *slog.Logger) {
	logger.Error("export task failed",
		"error", execErr,
		"sync_id", task.SyncID,
		"entity_type", task.EntityTypeID,
		"entity_id", task.EntityID,
	)
}

func (w *Worker) ack(ctx context.Context, task *domain.ExportTask, logger *slog.Logger) {
	if err := w.queue.Ack(ctx, task.ID); err != nil {
		logger.Error("failed to ack task", "ack_error", err)
	}
}

func (w *Worker) nack(ctx context.Context, task *domain.ExportTask, reason error, logger *slog.Logger) {
	if err := w.queue.Nack(ctx, task.ID, reason.Error()); err != nil {
		logger.Error("failed to nack task", "nack_error", err)
	}
}

// Health returns health status of the worker.
type Health struct {
	Running     bool   `json:"running"`
	QueueHealth bool   `json:"queue_health"`
	Error       string `json:"error,omitempty"`
}

// Health returns the health status of the worker.
func (w *Worker) Health(ctx context.Context) Health {
	w.mu.RLock()
	running := w.running
	w.mu.RUnlock()

	health := Health{
		Running: running,
	}

	if err := w.queue.Ping(ctx); err != nil {
		health.QueueHealth = false
		health.Error = err.Error()
	} else {
		health.QueueHealth = true
	}

	return health
}
