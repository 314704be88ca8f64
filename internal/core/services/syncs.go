package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/meridian-labs/entsync-core/internal/core/domain"
	"github.com/meridian-labs/entsync-core/internal/core/ports/driven"
	"github.com/meridian-labs/entsync-core/internal/core/ports/driving"
)

// Verify interface compliance
var _ driving.SyncRepository = (*SyncService)(nil)

// SyncService retrieves sync definitions from the configuration store and
// filters them by status, local entity type, and per-operation enablement.
type SyncService struct {
	store  driven.SyncConfigStore
	logger *slog.Logger
}

// NewSyncService creates a new sync service.
func NewSyncService(store driven.SyncConfigStore, logger *slog.Logger) *SyncService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncService{
		store:  store,
		logger: logger,
	}
}

// GetSync retrieves one sync definition by id.
func (s *SyncService) GetSync(ctx context.Context, id string) (*domain.SyncDefinition, error) {
	sync, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get sync %q: %w", id, err)
	}
	return sync, nil
}

// GetSyncs retrieves all stored definitions satisfying the filter, keyed by
// id. Filter dimensions combine conjunctively; a nil filter keeps everything.
func (s *SyncService) GetSyncs(ctx context.Context, filter *domain.SyncFilter) (map[string]*domain.SyncDefinition, error) {
	ids, err := s.store.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list syncs: %w", err)
	}

	syncs := make(map[string]*domain.SyncDefinition)
	for _, id := range ids {
		sync, err := s.store.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get sync %q: %w", id, err)
		}
		if filter.Matches(sync) {
			syncs[id] = sync
		}
	}

	return syncs, nil
}
