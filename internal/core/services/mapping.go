package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/meridian-labs/entsync-core/internal/core/domain"
	"github.com/meridian-labs/entsync-core/internal/core/ports/driven"
)

// MappingResolver decides which local/remote counterpart an entity pairs
// with and what to do about it. It seeds a default mapping, lets hook
// subscribers override it, and validates whatever the last subscriber left
// in place.
type MappingResolver struct {
	entityStore driven.EntityStore
	hooks       driven.HookDispatcher
	logger      *slog.Logger
}

// NewMappingResolver creates a new mapping resolver.
func NewMappingResolver(entityStore driven.EntityStore, hooks driven.HookDispatcher, logger *slog.Logger) *MappingResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &MappingResolver{
		entityStore: entityStore,
		hooks:       hooks,
		logger:      logger,
	}
}

// ResolveRemote maps a remote entity to its local counterpart. The default
// resolution looks up the local entity whose remote id field matches the
// remote entity's id; found means update, absent means create. A remote
// entity without an id maps to skip.
func (r *MappingResolver) ResolveRemote(ctx context.Context, sync *domain.SyncDefinition, remote domain.RemoteEntity) (*domain.EntityMapping, error) {
	mapping, err := r.defaultRemoteMapping(ctx, sync, remote)
	if err != nil {
		return nil, err
	}

	event := &domain.RemoteMappingEvent{
		Sync:    sync,
		Remote:  remote,
		Mapping: mapping,
	}
	r.hooks.RemoteMapping(ctx, event)

	if err := event.Mapping.Action.Validate(); err != nil {
		return nil, err
	}
	return event.Mapping, nil
}

func (r *MappingResolver) defaultRemoteMapping(ctx context.Context, sync *domain.SyncDefinition, remote domain.RemoteEntity) (*domain.EntityMapping, error) {
	remoteID, ok := remote.StringField(sync.Remote.IDField)
	if !ok || remoteID == "" {
		r.logger.Debug("remote entity has no id, skipping",
			"sync_id", sync.ID,
			"id_field", sync.Remote.IDField,
		)
		return domain.SkipMapping(sync), nil
	}

	local, err := r.entityStore.LoadByField(ctx, sync.Local.TypeID, sync.Local.RemoteIDField, remoteID)
	switch {
	case err == nil:
		return &domain.EntityMapping{
			Action:       domain.ActionUpdate,
			EntityTypeID: sync.Local.TypeID,
			EntityBundle: sync.Local.Bundle,
			ID:           local.ID,
			EntityID:     remoteID,
		}, nil
	case errors.Is(err, domain.ErrNotFound):
		return &domain.EntityMapping{
			Action:       domain.ActionCreate,
			EntityTypeID: sync.Local.TypeID,
			EntityBundle: sync.Local.Bundle,
			EntityID:     remoteID,
		}, nil
	default:
		return nil, fmt.Errorf("failed to resolve remote mapping: %w", err)
	}
}

// ResolveLocal maps a local entity to its remote counterpart. The default
// resolution reads the local entity's remote id field; set means update,
// unset means create.
func (r *MappingResolver) ResolveLocal(ctx context.Context, sync *domain.SyncDefinition, local *domain.Entity) (*domain.EntityMapping, error) {
	mapping := &domain.EntityMapping{
		EntityTypeID: sync.Local.TypeID,
		EntityBundle: sync.Local.Bundle,
		ID:           local.ID,
	}
	if remoteID, ok := local.StringField(sync.Local.RemoteIDField); ok && remoteID != "" {
		mapping.Action = domain.ActionUpdate
		mapping.EntityID = remoteID
	} else {
		mapping.Action = domain.ActionCreate
	}

	event := &domain.LocalMappingEvent{
		Sync:    sync,
		Local:   local,
		Mapping: mapping,
	}
	r.hooks.LocalMapping(ctx, event)

	if err := event.Mapping.Action.Validate(); err != nil {
		return nil, err
	}
	return event.Mapping, nil
}
