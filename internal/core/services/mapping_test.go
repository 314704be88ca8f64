package services

import (
	"context"
	"errors"
	"testing"

	"github.com/meridian-labs/entsync-core/internal/core/domain"
	"github.com/meridian-labs/entsync-core/internal/core/ports/driven/mocks"
	"github.com/meridian-labs/entsync-core/internal/hooks"
)

func mappingSync() *domain.SyncDefinition {
	return &domain.SyncDefinition{
		ID:      "users",
		Enabled: true,
		Local:   domain.LocalEntityDef{TypeID: "user", Bundle: "user", RemoteIDField: "remote_id"},
		Remote:  domain.RemoteResourceDef{IDField: "id"},
	}
}

func TestMappingResolver_ResolveRemoteCreatesWhenAbsent(t *testing.T) {
	resolver := NewMappingResolver(mocks.NewMockEntityStore(), hooks.NewDispatcher(), nil)

	mapping, err := resolver.ResolveRemote(context.Background(), mappingSync(), domain.RemoteEntity{"id": "r1"})
	if err != nil {
		t.Fatalf("ResolveRemote() error = %v", err)
	}
	if mapping.Action != domain.ActionCreate {
		t.Errorf("ResolveRemote() action = %q, want create", mapping.Action)
	}
	if mapping.EntityID != "r1" || mapping.EntityTypeID != "user" {
		t.Errorf("ResolveRemote() mapping = %+v", mapping)
	}
}

func TestMappingResolver_ResolveRemoteUpdatesWhenPresent(t *testing.T) {
	store := mocks.NewMockEntityStore()
	store.Put(&domain.Entity{
		ID:     "42",
		TypeID: "user",
		Fields: map[string]any{"remote_id": "r1"},
	})
	resolver := NewMappingResolver(store, hooks.NewDispatcher(), nil)

	mapping, err := resolver.ResolveRemote(context.Background(), mappingSync(), domain.RemoteEntity{"id": "r1"})
	if err != nil {
		t.Fatalf("ResolveRemote() error = %v", err)
	}
	if mapping.Action != domain.ActionUpdate {
		t.Errorf("ResolveRemote() action = %q, want update", mapping.Action)
	}
	if mapping.ID != "42" {
		t.Errorf("ResolveRemote() id = %q, want 42", mapping.ID)
	}
}

func TestMappingResolver_ResolveRemoteSkipsWithoutID(t *testing.T) {
	resolver := NewMappingResolver(mocks.NewMockEntityStore(), hooks.NewDispatcher(), nil)

	mapping, err := resolver.ResolveRemote(context.Background(), mappingSync(), domain.RemoteEntity{"name": "no id here"})
	if err != nil {
		t.Fatalf("ResolveRemote() error = %v", err)
	}
	if mapping.Action != domain.ActionSkip {
		t.Errorf("ResolveRemote() action = %q, want skip", mapping.Action)
	}
}

func TestMappingResolver_HookOverridesRemoteMapping(t *testing.T) {
	dispatcher := hooks.NewDispatcher()
	dispatcher.OnRemoteMapping(func(ctx context.Context, event *domain.RemoteMappingEvent) {
		event.Mapping.Action = domain.ActionSkip
	})
	resolver := NewMappingResolver(mocks.NewMockEntityStore(), dispatcher, nil)

	mapping, err := resolver.ResolveRemote(context.Background(), mappingSync(), domain.RemoteEntity{"id": "r1"})
	if err != nil {
		t.Fatalf("ResolveRemote() error = %v", err)
	}
	if mapping.Action != domain.ActionSkip {
		t.Errorf("ResolveRemote() action = %q, want skip from hook override", mapping.Action)
	}
}

func TestMappingResolver_InvalidHookActionIsConfigurationError(t *testing.T) {
	dispatcher := hooks.NewDispatcher()
	dispatcher.OnRemoteMapping(func(ctx context.Context, event *domain.RemoteMappingEvent) {
		event.Mapping.Action = "replicate"
	})
	resolver := NewMappingResolver(mocks.NewMockEntityStore(), dispatcher, nil)

	_, err := resolver.ResolveRemote(context.Background(), mappingSync(), domain.RemoteEntity{"id": "r1"})
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Errorf("ResolveRemote() error = %v, want ErrConfiguration", err)
	}
}

func TestMappingResolver_ResolveLocal(t *testing.T) {
	resolver := NewMappingResolver(mocks.NewMockEntityStore(), hooks.NewDispatcher(), nil)

	withRemote := &domain.Entity{ID: "1", TypeID: "user", Fields: map[string]any{"remote_id": "r9"}}
	mapping, err := resolver.ResolveLocal(context.Background(), mappingSync(), withRemote)
	if err != nil {
		t.Fatalf("ResolveLocal() error = %v", err)
	}
	if mapping.Action != domain.ActionUpdate || mapping.EntityID != "r9" {
		t.Errorf("ResolveLocal() = %+v, want update of r9", mapping)
	}

	withoutRemote := &domain.Entity{ID: "2", TypeID: "user"}
	mapping, err = resolver.ResolveLocal(context.Background(), mappingSync(), withoutRemote)
	if err != nil {
		t.Fatalf("ResolveLocal() error = %v", err)
	}
	if mapping.Action != domain.ActionCreate {
		t.Errorf("ResolveLocal() action = %q, want create", mapping.Action)
	}
}

func TestMappingResolver_HookOverridesLocalMapping(t *testing.T) {
	dispatcher := hooks.NewDispatcher()
	dispatcher.OnLocalMapping(func(ctx context.Context, event *domain.LocalMappingEvent) {
		event.Mapping.Action = domain.ActionUpdate
		event.Mapping.EntityID = "redirected"
	})
	resolver := NewMappingResolver(mocks.NewMockEntityStore(), dispatcher, nil)

	mapping, err := resolver.ResolveLocal(context.Background(), mappingSync(), &domain.Entity{ID: "1", TypeID: "user"})
	if err != nil {
		t.Fatalf("ResolveLocal() error = %v", err)
	}
	if mapping.EntityID != "redirected" {
		t.Errorf("ResolveLocal() entity id = %q, want hook override", mapping.EntityID)
	}
}
