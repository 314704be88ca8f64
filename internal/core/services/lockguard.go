package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/meridian-labs/entsync-core/internal/core/domain"
	"github.com/meridian-labs/entsync-core/internal/core/ports/driven"
	"github.com/meridian-labs/entsync-core/internal/hooks"
)

const syncLockPrefix = "sync:"

// SyncLockGuard serializes operations per sync and operation across
// instances. It acquires a distributed lock at pre-initiate and cancels the
// operation when another instance holds it; the lock is released at
// post-terminate, which the lifecycle guarantees runs whenever initiate
// fired. A cancelled operation never reaches post-terminate, so there is
// never a dangling lock.
//
// The lock is keyed by sync and operation rather than sync alone: a list
// import runs a nested entity import lifecycle per item, and a sync-wide
// lock would deadlock against itself.
type SyncLockGuard struct {
	lock   driven.DistributedLock
	ttl    time.Duration
	logger *slog.Logger
}

// NewSyncLockGuard creates a new sync lock guard.
func NewSyncLockGuard(lock driven.DistributedLock, ttl time.Duration, logger *slog.Logger) *SyncLockGuard {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SyncLockGuard{
		lock:   lock,
		ttl:    ttl,
		logger: logger,
	}
}

// Register subscribes the guard to the lifecycle extension points.
func (g *SyncLockGuard) Register(dispatcher *hooks.Dispatcher) {
	dispatcher.OnPreInitiate(g.PreInitiate)
	dispatcher.OnPostTerminate(g.PostTerminate)
}

// LockName returns the lock key guarding one sync operation.
func LockName(syncID string, operation domain.OperationID) string {
	return syncLockPrefix + syncID + ":" + string(operation)
}

// PreInitiate acquires the per-operation lock, cancelling the operation when
// the lock is held elsewhere.
func (g *SyncLockGuard) PreInitiate(ctx context.Context, event *domain.PreInitiateEvent) {
	acquired, err := g.lock.Acquire(ctx, LockName(event.Sync.ID, event.Operation), g.ttl)
	if err != nil {
		g.logger.Error("failed to acquire sync lock, cancelling operation",
			"sync_id", event.Sync.ID,
			"operation", event.Operation,
			"error", err,
		)
		event.Cancel()
		return
	}
	if !acquired {
		g.logger.Warn("sync operation already in progress, cancelling",
			"sync_id", event.Sync.ID,
			"operation", event.Operation,
			"error", domain.ErrSyncInProgress,
		)
		event.Cancel()
	}
}

// PostTerminate releases the per-operation lock.
func (g *SyncLockGuard) PostTerminate(ctx context.Context, event *domain.TerminateEvent) {
	if err := g.lock.Release(ctx, LockName(event.Sync.ID, event.Operation)); err != nil {
		g.logger.Warn("failed to release sync lock",
			"sync_id", event.Sync.ID,
			"error", err,
		)
	}
}
