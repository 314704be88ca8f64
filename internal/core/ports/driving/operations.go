package driving

import (
	"context"

	"github.com/meridian-labs/entsync-core/internal/core/domain"
)

// Operations is the public entry point surface of the synchronization
// pipeline, invoked by the HTTP API, the CLI and the queue worker.
type Operations interface {
	// ImportRemoteList imports a filtered list of remote entities.
	ImportRemoteList(ctx context.Context, syncID string, filters domain.ListFilters, opts *domain.Options) error

	// ImportRemoteEntityByID fetches one remote entity by id and imports it.
	ImportRemoteEntityByID(ctx context.Context, syncID, remoteID string, opts *domain.Options) error

	// ImportRemoteEntity imports an already-fetched remote payload.
	ImportRemoteEntity(ctx context.Context, syncID string, payload any, opts *domain.Options) error

	// ImportLocalEntity re-imports the remote counterpart of a local entity.
	ImportLocalEntity(ctx context.Context, syncID string, local *domain.Entity, opts *domain.Options) error

	// ExportLocalEntity exports a local entity to the remote resource.
	ExportLocalEntity(ctx context.Context, syncID string, local *domain.Entity, opts *domain.Options) error
}

// SyncRepository retrieves stored sync definitions, optionally filtered.
type SyncRepository interface {
	// GetSync retrieves one definition by id.
	GetSync(ctx context.Context, id string) (*domain.SyncDefinition, error)

	// GetSyncs retrieves all definitions satisfying the filter, keyed by id.
	GetSyncs(ctx context.Context, filter *domain.SyncFilter) (map[string]*domain.SyncDefinition, error)
}
