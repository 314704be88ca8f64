package driven

import (
	"context"

	"github.com/meridian-labs/entsync-core/internal/core/domain"
)

// FieldManager copies field values between a remote representation and a
// local entity according to the sync's field mapping configuration. The
// mapping rules themselves are external to this core.
type FieldManager interface {
	// Import copies mapped fields from the remote entity onto the local one.
	Import(ctx context.Context, remote domain.RemoteEntity, local *domain.Entity, sync *domain.SyncDefinition) error

	// Export builds the remote representation of the local entity.
	Export(ctx context.Context, local *domain.Entity, sync *domain.SyncDefinition) (domain.RemoteEntity, error)

	// SetRemoteIDField stores the remote id from a push response on the
	// local entity. With overwrite false an already-set id is kept.
	SetRemoteIDField(ctx context.Context, response domain.RemoteEntity, local *domain.Entity, sync *domain.SyncDefinition, overwrite bool) error

	// SetRemoteChangedField stores the remote changed marker from a push
	// response on the local entity.
	SetRemoteChangedField(ctx context.Context, response domain.RemoteEntity, local *domain.Entity, sync *domain.SyncDefinition) error
}
