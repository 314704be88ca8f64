package driven

import (
	"context"

	"github.com/meridian-labs/entsync-core/internal/core/domain"
)

// RemoteClient fetches and pushes entities on the remote resource a sync
// pairs with. Fetch results are lazy, forward-only streams; absence is
// reported as domain.ErrNotFound.
type RemoteClient interface {
	// ImportEntity fetches a single remote entity by its remote id.
	ImportEntity(ctx context.Context, id string) (domain.RemoteEntity, error)

	// ImportList fetches a filtered list of remote entities. The returned
	// stream may be flat or paged; it is consumed exactly once.
	ImportList(ctx context.Context, filters domain.ListFilters, options map[string]string) (domain.RemoteStream, error)

	// CreateEntity pushes a new remote entity and returns the remote
	// response representation.
	CreateEntity(ctx context.Context, payload domain.RemoteEntity) (domain.RemoteEntity, error)

	// UpdateEntity pushes changes to an existing remote entity and returns
	// the remote response representation.
	UpdateEntity(ctx context.Context, id string, payload domain.RemoteEntity) (domain.RemoteEntity, error)
}

// ClientFactory selects the remote client for a sync. An explicit client
// config (from the sync definition, a resolved mapping, or caller options)
// overrides the default selection.
type ClientFactory interface {
	// Client returns the remote client serving the sync. cfg may be nil,
	// in which case the sync's own client selection applies.
	Client(ctx context.Context, sync *domain.SyncDefinition, cfg *domain.ClientConfig) (RemoteClient, error)
}
