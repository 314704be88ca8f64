package domain

import "fmt"

// OperationID identifies one of the synchronization operations a sync
// definition can enable.
type OperationID string

const (
	// OperationImportList imports a filtered list of remote entities
	OperationImportList OperationID = "import_list"
	// OperationImportEntity imports a single remote entity (by id or payload)
	OperationImportEntity OperationID = "import_entity"
	// OperationExportEntity exports a local entity to the remote resource
	OperationExportEntity OperationID = "export_entity"
)

// QueueErrorPolicy names the strategy applied when a queued export fails.
type QueueErrorPolicy string

const (
	// PolicyThrow propagates the failure to the queue infrastructure, no logging.
	// This is the default when no policy is configured.
	PolicyThrow QueueErrorPolicy = "throw"
	// PolicyLogAndSkip logs a structured error and treats the item as done
	PolicyLogAndSkip QueueErrorPolicy = "log_and_skip"
	// PolicyLogAndThrow logs a structured error, then propagates the failure
	PolicyLogAndThrow QueueErrorPolicy = "log_and_throw"
	// PolicySkip swallows the failure silently
	PolicySkip QueueErrorPolicy = "skip"
)

// LocalEntityDef describes the local side of a sync pairing.
type LocalEntityDef struct {
	// TypeID is the local entity type identifier
	TypeID string `json:"type_id"`

	// Bundle optionally narrows the type to a bundle
	Bundle string `json:"bundle,omitempty"`

	// RemoteIDField is the local field holding the counterpart's remote id.
	// Default mapping resolution matches this field against the remote
	// resource's id field.
	RemoteIDField string `json:"remote_id_field"`
}

// RemoteResourceDef describes the remote side of a sync pairing.
type RemoteResourceDef struct {
	// IDField is the remote entity field carrying its identity
	IDField string `json:"id_field"`

	// ChangedField optionally names the remote field carrying the last
	// modification marker
	ChangedField string `json:"changed_field,omitempty"`

	// Client optionally selects a non-default remote client
	Client *ClientConfig `json:"client,omitempty"`
}

// ClientConfig selects and parameterizes a remote client.
type ClientConfig struct {
	Name    string            `json:"name"`
	Options map[string]string `json:"options,omitempty"`
}

// OperationConfig holds the per-operation settings of a sync definition.
type OperationConfig struct {
	// Enabled gates the operation independently of the sync's own status
	Enabled bool `json:"status"`

	// CreateEntities allows mapping resolution to produce new entities.
	// When false, create mappings are silently skipped.
	CreateEntities bool `json:"create_entities,omitempty"`

	// QueueErrorHandling names the error policy for queued exports.
	// Empty means PolicyThrow.
	QueueErrorHandling QueueErrorPolicy `json:"queue_error_handling,omitempty"`
}

// ErrorPolicy resolves the configured queue error policy. An empty value
// defaults to PolicyThrow; anything outside the closed set is a
// configuration error.
func (c *OperationConfig) ErrorPolicy() (QueueErrorPolicy, error) {
	switch c.QueueErrorHandling {
	case "":
		return PolicyThrow, nil
	case PolicyThrow, PolicyLogAndSkip, PolicyLogAndThrow, PolicySkip:
		return c.QueueErrorHandling, nil
	default:
		return "", fmt.Errorf("unknown queue error policy %q: %w", c.QueueErrorHandling, ErrConfiguration)
	}
}

// SyncDefinition is a named, read-only configuration pairing a local entity
// type with a remote resource and the operations enabled between them.
type SyncDefinition struct {
	// ID is the unique name of this sync
	ID string `json:"id"`

	// Enabled is the sync-wide status flag
	Enabled bool `json:"status"`

	// Local describes the local entity side
	Local LocalEntityDef `json:"local_entity"`

	// Remote describes the remote resource side
	Remote RemoteResourceDef `json:"remote_resource"`

	// Operations holds per-operation settings keyed by operation id
	Operations map[OperationID]*OperationConfig `json:"operations"`
}

// Operation returns the settings for the given operation id, or nil when the
// sync does not define it.
func (s *SyncDefinition) Operation(id OperationID) *OperationConfig {
	if s.Operations == nil {
		return nil
	}
	return s.Operations[id]
}

// OperationEnabled reports whether the sync as a whole and the given
// operation are both enabled.
func (s *SyncDefinition) OperationEnabled(id OperationID) bool {
	if !s.Enabled {
		return false
	}
	op := s.Operation(id)
	return op != nil && op.Enabled
}

// OperationFilter narrows sync lookup to definitions carrying an operation.
type OperationFilter struct {
	// ID is the operation that must be defined
	ID OperationID

	// Enabled additionally requires the operation's own status flag to match
	Enabled *bool
}

// SyncFilter selects sync definitions. Fields combine conjunctively; a nil
// or zero field means no constraint on that dimension.
type SyncFilter struct {
	// Enabled matches the sync-wide status flag
	Enabled *bool

	// LocalTypeID matches the local entity descriptor's type id
	LocalTypeID string

	// Operation matches definitions carrying the given operation
	Operation *OperationFilter
}

// Matches reports whether the definition satisfies every given constraint.
func (f *SyncFilter) Matches(sync *SyncDefinition) bool {
	if f == nil {
		return true
	}
	if f.Enabled != nil && sync.Enabled != *f.Enabled {
		return false
	}
	if f.LocalTypeID != "" && sync.Local.TypeID != f.LocalTypeID {
		return false
	}
	if f.Operation != nil {
		op := sync.Operation(f.Operation.ID)
		if op == nil {
			return false
		}
		if f.Operation.Enabled != nil && op.Enabled != *f.Operation.Enabled {
			return false
		}
	}
	return true
}
