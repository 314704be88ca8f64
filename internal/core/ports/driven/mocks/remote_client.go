package mocks

import (
	"context"
	"sync"

	"github.com/meridian-labs/entsync-core/internal/core/domain"
	"github.com/meridian-labs/entsync-core/internal/core/ports/driven"
)

// Verify interface compliance
var (
	_ driven.RemoteClient  = (*MockRemoteClient)(nil)
	_ driven.ClientFactory = (*MockClientFactory)(nil)
)

// MockRemoteClient is a configurable RemoteClient for testing.
type MockRemoteClient struct {
	mu sync.Mutex

	// Overridable behaviors
	ImportEntityFn func(ctx context.Context, id string) (domain.RemoteEntity, error)
	ImportListFn   func(ctx context.Context, filters domain.ListFilters, options map[string]string) (domain.RemoteStream, error)
	CreateEntityFn func(ctx context.Context, payload domain.RemoteEntity) (domain.RemoteEntity, error)
	UpdateEntityFn func(ctx context.Context, id string, payload domain.RemoteEntity) (domain.RemoteEntity, error)

	creates int
	updates int
}

// NewMockRemoteClient creates a new MockRemoteClient
func NewMockRemoteClient() *MockRemoteClient {
	return &MockRemoteClient{}
}

func (m *MockRemoteClient) ImportEntity(ctx context.Context, id string) (domain.RemoteEntity, error) {
	if m.ImportEntityFn != nil {
		return m.ImportEntityFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *MockRemoteClient) ImportList(ctx context.Context, filters domain.ListFilters, options map[string]string) (domain.RemoteStream, error) {
	if m.ImportListFn != nil {
		return m.ImportListFn(ctx, filters, options)
	}
	return domain.FlatStream(), nil
}

func (m *MockRemoteClient) CreateEntity(ctx context.Context, payload domain.RemoteEntity) (domain.RemoteEntity, error) {
	m.mu.Lock()
	m.creates++
	m.mu.Unlock()
	if m.CreateEntityFn != nil {
		return m.CreateEntityFn(ctx, payload)
	}
	return payload, nil
}

func (m *MockRemoteClient) UpdateEntity(ctx context.Context, id string, payload domain.RemoteEntity) (domain.RemoteEntity, error) {
	m.mu.Lock()
	m.updates++
	m.mu.Unlock()
	if m.UpdateEntityFn != nil {
		return m.UpdateEntityFn(ctx, id, payload)
	}
	return payload, nil
}

// Helper methods for testing

func (m *MockRemoteClient) Creates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creates
}

func (m *MockRemoteClient) Updates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updates
}

// MockClientFactory returns the same client for every sync.
type MockClientFactory struct {
	Client_   *MockRemoteClient
	ClientErr error
}

// NewMockClientFactory creates a factory around a fresh MockRemoteClient
func NewMockClientFactory() *MockClientFactory {
	return &MockClientFactory{Client_: NewMockRemoteClient()}
}

func (m *MockClientFactory) Client(ctx context.Context, sync *domain.SyncDefinition, cfg *domain.ClientConfig) (driven.RemoteClient, error) {
	if m.ClientErr != nil {
		return nil, m.ClientErr
	}
	return m.Client_, nil
}
