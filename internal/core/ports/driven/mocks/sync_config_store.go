package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/meridian-labs/entsync-core/internal/core/domain"
	"github.com/meridian-labs/entsync-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SyncConfigStore = (*MockSyncConfigStore)(nil)

// MockSyncConfigStore is an in-memory SyncConfigStore for testing.
type MockSyncConfigStore struct {
	mu    sync.RWMutex
	syncs map[string]*domain.SyncDefinition
}

// NewMockSyncConfigStore creates a new MockSyncConfigStore
func NewMockSyncConfigStore() *MockSyncConfigStore {
	return &MockSyncConfigStore{
		syncs: make(map[string]*domain.SyncDefinition),
	}
}

func (m *MockSyncConfigStore) Get(ctx context.Context, id string) (*domain.SyncDefinition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sync, ok := m.syncs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return sync, nil
}

func (m *MockSyncConfigStore) List(ctx context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []string
	for id := range m.syncs {
		if strings.HasPrefix(id, prefix) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Helper methods for testing

// Put stores a definition under its own id.
func (m *MockSyncConfigStore) Put(sync *domain.SyncDefinition) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncs[sync.ID] = sync
}

func (m *MockSyncConfigStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncs = make(map[string]*domain.SyncDefinition)
}
