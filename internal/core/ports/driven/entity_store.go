package driven

import (
	"context"

	"github.com/meridian-labs/entsync-core/internal/core/domain"
)

// EntityStore is the external storage layer for local entities. The core
// never touches storage internals; absence is reported as domain.ErrNotFound
// and storage failures as domain.ErrStorage.
type EntityStore interface {
	// Load retrieves an entity by type and storage id.
	Load(ctx context.Context, typeID, id string) (*domain.Entity, error)

	// LoadByField retrieves the entity whose named field equals the given
	// value. Used by default mapping resolution to locate the counterpart
	// of a remote entity.
	LoadByField(ctx context.Context, typeID, field string, value any) (*domain.Entity, error)

	// Create instantiates a new, unsaved entity of the given type and bundle.
	Create(ctx context.Context, typeID, bundle string) (*domain.Entity, error)

	// Save persists the entity, creating or updating as needed.
	Save(ctx context.Context, entity *domain.Entity) error
}
