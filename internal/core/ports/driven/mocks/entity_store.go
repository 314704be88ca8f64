package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/meridian-labs/entsync-core/internal/core/domain"
)

// MockEntityStore is an in-memory EntityStore for testing.
type MockEntityStore struct {
	mu       sync.RWMutex
	entities map[string]*domain.Entity // keyed by typeID/id

	creates int
	saves   int

	// Overridable behaviors
	LoadFn func(ctx context.Context, typeID, id string) (*domain.Entity, error)
	SaveFn func(ctx context.Context, entity *domain.Entity) error
}

// NewMockEntityStore creates a new MockEntityStore
func NewMockEntityStore() *MockEntityStore {
	return &MockEntityStore{
		entities: make(map[string]*domain.Entity),
	}
}

func key(typeID, id string) string {
	return typeID + "/" + id
}

func (m *MockEntityStore) Load(ctx context.Context, typeID, id string) (*domain.Entity, error) {
	if m.LoadFn != nil {
		return m.LoadFn(ctx, typeID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entities[key(typeID, id)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (m *MockEntityStore) LoadByField(ctx context.Context, typeID, field string, value any) (*domain.Entity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	want := fmt.Sprintf("%v", value)
	for _, e := range m.entities {
		if e.TypeID != typeID {
			continue
		}
		if got, ok := e.StringField(field); ok && got == want {
			return e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockEntityStore) Create(ctx context.Context, typeID, bundle string) (*domain.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	return &domain.Entity{
		ID:     domain.GenerateID(),
		TypeID: typeID,
		Bundle: bundle,
		Fields: make(map[string]any),
	}, nil
}

func (m *MockEntityStore) Save(ctx context.Context, entity *domain.Entity) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, entity)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.entities[key(entity.TypeID, entity.ID)] = entity
	return nil
}

// Helper methods for testing

// Put seeds an entity directly, bypassing the save counter.
func (m *MockEntityStore) Put(entity *domain.Entity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entities[key(entity.TypeID, entity.ID)] = entity
}

func (m *MockEntityStore) Creates() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.creates
}

func (m *MockEntityStore) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

func (m *MockEntityStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entities)
}
