package driven

import (
	"context"

	"github.com/meridian-labs/entsync-core/internal/core/domain"
)

// SyncConfigStore is the external configuration backend holding sync
// definitions. Definitions are created and updated outside this core and
// read-only here.
type SyncConfigStore interface {
	// Get retrieves a sync definition by id.
	Get(ctx context.Context, id string) (*domain.SyncDefinition, error)

	// List enumerates the ids of all stored definitions whose id starts
	// with the given prefix. An empty prefix lists everything.
	List(ctx context.Context, prefix string) ([]string, error)
}
