package mocks

import (
	"context"
	"sync"

	"github.com/meridian-labs/entsync-core/internal/core/domain"
	"github.com/meridian-labs/entsync-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.FieldManager = (*MockFieldManager)(nil)

// MockFieldManager copies the remote id and changed fields verbatim and
// counts invocations. Tests override the Fn hooks for richer behavior.
type MockFieldManager struct {
	mu      sync.Mutex
	imports int
	exports int

	// Overridable behaviors
	ImportFn func(ctx context.Context, remote domain.RemoteEntity, local *domain.Entity, sync *domain.SyncDefinition) error
	ExportFn func(ctx context.Context, local *domain.Entity, sync *domain.SyncDefinition) (domain.RemoteEntity, error)
}

// NewMockFieldManager creates a new MockFieldManager
func NewMockFieldManager() *MockFieldManager {
	return &MockFieldManager{}
}

func (m *MockFieldManager) Import(ctx context.Context, remote domain.RemoteEntity, local *domain.Entity, sync *domain.SyncDefinition) error {
	m.mu.Lock()
	m.imports++
	m.mu.Unlock()
	if m.ImportFn != nil {
		return m.ImportFn(ctx, remote, local, sync)
	}
	if id, ok := remote.StringField(sync.Remote.IDField); ok {
		local.SetField(sync.Local.RemoteIDField, id)
	}
	return nil
}

func (m *MockFieldManager) Export(ctx context.Context, local *domain.Entity, sync *domain.SyncDefinition) (domain.RemoteEntity, error) {
	m.mu.Lock()
	m.exports++
	m.mu.Unlock()
	if m.ExportFn != nil {
		return m.ExportFn(ctx, local, sync)
	}
	payload := domain.RemoteEntity{}
	if id, ok := local.StringField(sync.Local.RemoteIDField); ok {
		payload[sync.Remote.IDField] = id
	}
	return payload, nil
}

func (m *MockFieldManager) SetRemoteIDField(ctx context.Context, response domain.RemoteEntity, local *domain.Entity, sync *domain.SyncDefinition, overwrite bool) error {
	id, ok := response.StringField(sync.Remote.IDField)
	if !ok {
		return nil
	}
	if _, set := local.StringField(sync.Local.RemoteIDField); set && !overwrite {
		return nil
	}
	local.SetField(sync.Local.RemoteIDField, id)
	return nil
}

func (m *MockFieldManager) SetRemoteChangedField(ctx context.Context, response domain.RemoteEntity, local *domain.Entity, sync *domain.SyncDefinition) error {
	if sync.Remote.ChangedField == "" {
		return nil
	}
	if v, ok := response.Field(sync.Remote.ChangedField); ok {
		local.SetField(sync.Remote.ChangedField, v)
	}
	return nil
}

// Helper methods for testing

func (m *MockFieldManager) Imports() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.imports
}

func (m *MockFieldManager) Exports() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exports
}
