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
var _ driving.Operations = (*OperationRunner)(nil)

// OperationRunner drives every import/export operation through the five
// phase lifecycle:
//  1. Pre-Initiate - any subscriber may cancel; cancellation short-circuits
//     everything, including post-terminate
//  2. Initiate - execution is committed
//  3. Execute - the operation-specific body
//  4. Terminate - logical completion, carrying the outcome
//  5. Post-Terminate - always runs once initiate has fired, even when
//     execute failed
//
// Execute failures are handled per operation kind: list and remote entity
// imports log and swallow, local entity imports propagate after
// post-terminate, and exports propagate to the queue worker's error policy.
type OperationRunner struct {
	configStore   driven.SyncConfigStore
	entityStore   driven.EntityStore
	clientFactory driven.ClientFactory
	fieldManager  driven.FieldManager
	hooks         driven.HookDispatcher
	resolver      *MappingResolver
	logger        *slog.Logger
}

// OperationRunnerConfig holds dependencies for OperationRunner.
type OperationRunnerConfig struct {
	ConfigStore   driven.SyncConfigStore
	EntityStore   driven.EntityStore
	ClientFactory driven.ClientFactory
	FieldManager  driven.FieldManager
	Hooks         driven.HookDispatcher
	Resolver      *MappingResolver
	Logger        *slog.Logger
}

// NewOperationRunner creates a new operation runner.
func NewOperationRunner(cfg OperationRunnerConfig) *OperationRunner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &OperationRunner{
		configStore:   cfg.ConfigStore,
		entityStore:   cfg.EntityStore,
		clientFactory: cfg.ClientFactory,
		fieldManager:  cfg.FieldManager,
		hooks:         cfg.Hooks,
		resolver:      cfg.Resolver,
		logger:        logger,
	}
}

// run executes one operation under the lifecycle protocol. It returns the
// execute error verbatim; callers decide whether to propagate or swallow.
func (r *OperationRunner) run(
	ctx context.Context,
	sync *domain.SyncDefinition,
	operation domain.OperationID,
	opts *domain.Options,
	execute func(ctx context.Context, octx domain.OperationContext) error,
) error {
	octx := domain.NewOperationContext(opts.SeedContext())
	event := domain.OperationEvent{
		Sync:      sync,
		Operation: operation,
		Context:   octx,
	}

	pre := &domain.PreInitiateEvent{OperationEvent: event}
	r.hooks.PreInitiate(ctx, pre)
	if pre.Cancelled() {
		r.logger.Info("operation cancelled at pre-initiate",
			"sync_id", sync.ID,
			"operation", operation,
		)
		return nil
	}

	r.hooks.Initiate(ctx, &event)

	var execErr error
	defer func() {
		term := &domain.TerminateEvent{OperationEvent: event, Err: execErr}
		r.hooks.Terminate(ctx, term)
		r.hooks.PostTerminate(ctx, term)
	}()

	execErr = execute(ctx, octx)
	return execErr
}

// client selects the remote client for this invocation. An explicit config
// wins over the caller's override, which wins over the sync's own selection.
func (r *OperationRunner) client(ctx context.Context, sync *domain.SyncDefinition, explicit, override *domain.ClientConfig) (driven.RemoteClient, error) {
	cfg := explicit
	if cfg == nil {
		cfg = override
	}
	client, err := r.clientFactory.Client(ctx, sync, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get remote client: %w", err)
	}
	return client, nil
}

func clientOptions(sync *domain.SyncDefinition, override *domain.ClientConfig) map[string]string {
	if override != nil {
		return override.Options
	}
	if sync.Remote.Client != nil {
		return sync.Remote.Client.Options
	}
	return nil
}

// ImportRemoteList imports a filtered list of remote entities. Per-item
// failures are logged and do not abort the batch; execute failures are
// logged and swallowed.
func (r *OperationRunner) ImportRemoteList(ctx context.Context, syncID string, filters domain.ListFilters, opts *domain.Options) error {
	sync, err := r.configStore.Get(ctx, syncID)
	if err != nil {
		return fmt.Errorf("failed to get sync %q: %w", syncID, err)
	}
	if !sync.OperationEnabled(domain.OperationImportList) {
		r.logger.Error("operation not enabled, skipping",
			"sync_id", syncID,
			"operation", domain.OperationImportList,
		)
		return nil
	}

	err = r.run(ctx, sync, domain.OperationImportList, opts, func(ctx context.Context, octx domain.OperationContext) error {
		return r.executeImportList(ctx, sync, filters, opts)
	})
	if err != nil {
		r.logger.Error("list import failed",
			"sync_id", syncID,
			"error", err,
		)
	}
	return nil
}

func (r *OperationRunner) executeImportList(ctx context.Context, sync *domain.SyncDefinition, filters domain.ListFilters, opts *domain.Options) error {
	client, err := r.client(ctx, sync, nil, opts.ClientOverride())
	if err != nil {
		return err
	}

	if filters == nil {
		filters = domain.ListFilters{}
	}
	filtersEvent := &domain.ListFiltersEvent{Sync: sync, Filters: filters}
	r.hooks.ListFilters(ctx, filtersEvent)

	stream, err := client.ImportList(ctx, filtersEvent.Filters, clientOptions(sync, opts.ClientOverride()))
	if err != nil {
		return fmt.Errorf("failed to fetch remote list: %w", err)
	}

	// Each item runs the full import_entity lifecycle in its own error
	// boundary so one bad item never aborts the batch.
	processed, err := applyStream(ctx, stream, opts.EffectiveLimit(), func(ctx context.Context, item any) error {
		if err := r.importRemote(ctx, sync, item, opts); err != nil {
			r.logger.Error("failed to import list item",
				"sync_id", sync.ID,
				"remote_id", remoteIDOf(sync, item),
				"error", err,
			)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("list import aborted after %d items: %w", processed, err)
	}

	r.logger.Info("list import completed",
		"sync_id", sync.ID,
		"processed", processed,
	)
	return nil
}

// remoteIDOf extracts the remote id for logging, if the item resolves to one.
func remoteIDOf(sync *domain.SyncDefinition, item any) string {
	remote, err := domain.NewRemoteEntity(item)
	if err != nil {
		return ""
	}
	id, _ := remote.StringField(sync.Remote.IDField)
	return id
}

// ImportRemoteEntityByID fetches one remote entity by id and imports it.
// Execute failures are logged and swallowed.
func (r *OperationRunner) ImportRemoteEntityByID(ctx context.Context, syncID, remoteID string, opts *domain.Options) error {
	sync, err := r.configStore.Get(ctx, syncID)
	if err != nil {
		return fmt.Errorf("failed to get sync %q: %w", syncID, err)
	}
	if !sync.OperationEnabled(domain.OperationImportEntity) {
		r.logger.Error("operation not enabled, skipping",
			"sync_id", syncID,
			"operation", domain.OperationImportEntity,
		)
		return nil
	}

	err = r.run(ctx, sync, domain.OperationImportEntity, opts, func(ctx context.Context, octx domain.OperationContext) error {
		client, err := r.client(ctx, sync, nil, opts.ClientOverride())
		if err != nil {
			return err
		}
		payload, err := client.ImportEntity(ctx, remoteID)
		if err != nil {
			return fmt.Errorf("failed to fetch remote entity %q: %w", remoteID, err)
		}
		return r.executeImportEntity(ctx, sync, payload, opts, octx)
	})
	if err != nil {
		r.logger.Error("entity import failed",
			"sync_id", syncID,
			"remote_id", remoteID,
			"error", err,
		)
	}
	return nil
}

// ImportRemoteEntity imports an already-fetched remote payload. Execute
// failures are logged and swallowed.
func (r *OperationRunner) ImportRemoteEntity(ctx context.Context, syncID string, payload any, opts *domain.Options) error {
	sync, err := r.configStore.Get(ctx, syncID)
	if err != nil {
		return fmt.Errorf("failed to get sync %q: %w", syncID, err)
	}
	if !sync.OperationEnabled(domain.OperationImportEntity) {
		r.logger.Error("operation not enabled, skipping",
			"sync_id", syncID,
			"operation", domain.OperationImportEntity,
		)
		return nil
	}

	if err := r.importRemote(ctx, sync, payload, opts); err != nil {
		r.logger.Error("entity import failed",
			"sync_id", syncID,
			"remote_id", remoteIDOf(sync, payload),
			"error", err,
		)
	}
	return nil
}

// importRemote runs the import_entity lifecycle for one remote payload and
// returns the execute error verbatim.
func (r *OperationRunner) importRemote(ctx context.Context, sync *domain.SyncDefinition, payload any, opts *domain.Options) error {
	return r.run(ctx, sync, domain.OperationImportEntity, opts, func(ctx context.Context, octx domain.OperationContext) error {
		return r.executeImportEntity(ctx, sync, payload, opts, octx)
	})
}

func (r *OperationRunner) executeImportEntity(ctx context.Context, sync *domain.SyncDefinition, payload any, opts *domain.Options, octx domain.OperationContext) error {
	remote, err := domain.NewRemoteEntity(payload)
	if err != nil {
		return err
	}
	octx.SetRemoteEntity(remote)

	mapping, err := r.resolver.ResolveRemote(ctx, sync, remote)
	if err != nil {
		return err
	}

	switch mapping.Action {
	case domain.ActionSkip:
		r.logger.Debug("mapping resolved to skip",
			"sync_id", sync.ID,
			"remote_id", mapping.EntityID,
		)
		return nil

	case domain.ActionCreate:
		opCfg := sync.Operation(domain.OperationImportEntity)
		if opCfg == nil || !opCfg.CreateEntities {
			r.logger.Debug("entity creation disabled, skipping",
				"sync_id", sync.ID,
				"remote_id", mapping.EntityID,
			)
			return nil
		}
		local, err := r.entityStore.Create(ctx, mapping.EntityTypeID, mapping.EntityBundle)
		if err != nil {
			return fmt.Errorf("failed to create local entity: %w", err)
		}
		return r.saveImported(ctx, sync, remote, local, octx, true)

	case domain.ActionUpdate:
		local, err := r.entityStore.Load(ctx, mapping.EntityTypeID, mapping.ID)
		if err != nil {
			// An update mapping referencing a missing entity is internally
			// inconsistent and fails before any field copying happens.
			return fmt.Errorf("update mapping references local entity %s/%s: %w", mapping.EntityTypeID, mapping.ID, err)
		}
		return r.saveImported(ctx, sync, remote, local, octx, false)

	default:
		return fmt.Errorf("unsupported mapping action %q: %w", mapping.Action, domain.ErrConfiguration)
	}
}

// saveImported copies the remote fields onto the local entity and persists it.
func (r *OperationRunner) saveImported(ctx context.Context, sync *domain.SyncDefinition, remote domain.RemoteEntity, local *domain.Entity, octx domain.OperationContext, created bool) error {
	if err := r.fieldManager.Import(ctx, remote, local, sync); err != nil {
		return fmt.Errorf("failed to import fields: %w", err)
	}
	if err := r.fieldManager.SetRemoteIDField(ctx, remote, local, sync, created); err != nil {
		return fmt.Errorf("failed to set remote id field: %w", err)
	}
	if err := r.fieldManager.SetRemoteChangedField(ctx, remote, local, sync); err != nil {
		return fmt.Errorf("failed to set remote changed field: %w", err)
	}
	if err := r.entityStore.Save(ctx, local); err != nil {
		return fmt.Errorf("failed to save local entity: %w", err)
	}
	octx.SetLocalEntity(local)

	r.logger.Info("remote entity imported",
		"sync_id", sync.ID,
		"entity_type", local.TypeID,
		"entity_id", local.ID,
		"created", created,
	)
	return nil
}

// ImportLocalEntity re-imports the remote counterpart of a local entity.
// Execute failures propagate to the caller after post-terminate has run.
func (r *OperationRunner) ImportLocalEntity(ctx context.Context, syncID string, local *domain.Entity, opts *domain.Options) error {
	sync, err := r.configStore.Get(ctx, syncID)
	if err != nil {
		return fmt.Errorf("failed to get sync %q: %w", syncID, err)
	}
	if !sync.OperationEnabled(domain.OperationImportEntity) {
		r.logger.Error("operation not enabled, skipping",
			"sync_id", syncID,
			"operation", domain.OperationImportEntity,
		)
		return nil
	}

	return r.run(ctx, sync, domain.OperationImportEntity, opts, func(ctx context.Context, octx domain.OperationContext) error {
		octx.SetLocalEntity(local)

		remoteID, ok := local.StringField(sync.Local.RemoteIDField)
		if !ok || remoteID == "" {
			return fmt.Errorf("local entity %s/%s has no remote id: %w", local.TypeID, local.ID, domain.ErrValidation)
		}

		client, err := r.client(ctx, sync, nil, opts.ClientOverride())
		if err != nil {
			return err
		}
		payload, err := client.ImportEntity(ctx, remoteID)
		if err != nil {
			return fmt.Errorf("failed to fetch remote entity %q: %w", remoteID, err)
		}
		remote, err := domain.NewRemoteEntity(payload)
		if err != nil {
			return err
		}
		octx.SetRemoteEntity(remote)

		return r.saveImported(ctx, sync, remote, local, octx, false)
	})
}

// ExportLocalEntity exports a local entity to the remote resource. Execute
// failures propagate; the queue worker applies the sync's error policy.
func (r *OperationRunner) ExportLocalEntity(ctx context.Context, syncID string, local *domain.Entity, opts *domain.Options) error {
	sync, err := r.configStore.Get(ctx, syncID)
	if err != nil {
		return fmt.Errorf("failed to get sync %q: %w", syncID, err)
	}
	if !sync.OperationEnabled(domain.OperationExportEntity) {
		return fmt.Errorf("export not enabled on sync %q: %w", syncID, domain.ErrOperationDisabled)
	}

	return r.run(ctx, sync, domain.OperationExportEntity, opts, func(ctx context.Context, octx domain.OperationContext) error {
		return r.executeExport(ctx, sync, local, opts, octx)
	})
}

func (r *OperationRunner) executeExport(ctx context.Context, sync *domain.SyncDefinition, local *domain.Entity, opts *domain.Options, octx domain.OperationContext) error {
	octx.SetLocalEntity(local)

	mapping, err := r.resolver.ResolveLocal(ctx, sync, local)
	if err != nil {
		return err
	}

	switch mapping.Action {
	case domain.ActionSkip:
		r.logger.Debug("mapping resolved to skip",
			"sync_id", sync.ID,
			"entity_id", local.ID,
		)
		return nil

	case domain.ActionCreate:
		opCfg := sync.Operation(domain.OperationExportEntity)
		if opCfg == nil || !opCfg.CreateEntities {
			r.logger.Debug("remote creation disabled, skipping",
				"sync_id", sync.ID,
				"entity_id", local.ID,
			)
			return nil
		}
		client, err := r.client(ctx, sync, mapping.Client, opts.ClientOverride())
		if err != nil {
			return err
		}
		payload, err := r.fieldManager.Export(ctx, local, sync)
		if err != nil {
			return fmt.Errorf("failed to export fields: %w", err)
		}
		response, err := client.CreateEntity(ctx, payload)
		if err != nil {
			return fmt.Errorf("failed to create remote entity: %w", err)
		}
		return r.savePushed(ctx, sync, response, local, octx, true)

	case domain.ActionUpdate:
		client, err := r.client(ctx, sync, mapping.Client, opts.ClientOverride())
		if err != nil {
			return err
		}
		payload, err := r.fieldManager.Export(ctx, local, sync)
		if err != nil {
			return fmt.Errorf("failed to export fields: %w", err)
		}
		response, err := client.UpdateEntity(ctx, mapping.EntityID, payload)
		if err != nil {
			return fmt.Errorf("failed to update remote entity %q: %w", mapping.EntityID, err)
		}
		return r.savePushed(ctx, sync, response, local, octx, false)

	default:
		return fmt.Errorf("unsupported mapping action %q: %w", mapping.Action, domain.ErrConfiguration)
	}
}

// savePushed records the remote response markers on the local entity and
// persists it.
func (r *OperationRunner) savePushed(ctx context.Context, sync *domain.SyncDefinition, response domain.RemoteEntity, local *domain.Entity, octx domain.OperationContext, created bool) error {
	octx[domain.ContextResponse] = response

	if err := r.fieldManager.SetRemoteIDField(ctx, response, local, sync, false); err != nil {
		return fmt.Errorf("failed to set remote id field: %w", err)
	}
	if err := r.fieldManager.SetRemoteChangedField(ctx, response, local, sync); err != nil {
		return fmt.Errorf("failed to set remote changed field: %w", err)
	}
	if err := r.entityStore.Save(ctx, local); err != nil {
		return fmt.Errorf("failed to save local entity: %w", err)
	}

	r.logger.Info("local entity exported",
		"sync_id", sync.ID,
		"entity_type", local.TypeID,
		"entity_id", local.ID,
		"created", created,
	)
	return nil
}
