package domain

import "fmt"

// MappingAction is the resolved decision for one local/remote pair.
type MappingAction string

const (
	// ActionCreate produces a new counterpart entity
	ActionCreate MappingAction = "create"
	// ActionUpdate updates an existing counterpart entity
	ActionUpdate MappingAction = "update"
	// ActionSkip leaves the pair untouched, no side effects
	ActionSkip MappingAction = "skip"
)

// Validate rejects actions outside the closed set. Anything else is a
// configuration or extension defect, never a runtime surprise.
func (a MappingAction) Validate() error {
	switch a {
	case ActionCreate, ActionUpdate, ActionSkip:
		return nil
	default:
		return fmt.Errorf("unsupported mapping action %q: %w", a, ErrConfiguration)
	}
}

// EntityMapping is the transient result of mapping resolution: which
// counterpart an entity pairs with and what to do about it. Produced fresh
// per resolved pair, never persisted.
type EntityMapping struct {
	// Action is one of create, update, skip
	Action MappingAction `json:"action"`

	// EntityTypeID is the counterpart's entity type
	EntityTypeID string `json:"entity_type_id"`

	// EntityBundle optionally narrows the counterpart's type
	EntityBundle string `json:"entity_bundle,omitempty"`

	// ID is the local storage id, set when Action is update on import
	ID string `json:"id,omitempty"`

	// EntityID is the remote id, set when importing or exporting by id
	EntityID string `json:"entity_id,omitempty"`

	// Client optionally overrides the remote client used for this pair
	Client *ClientConfig `json:"client,omitempty"`
}

// SkipMapping returns a mapping that leaves the pair untouched.
func SkipMapping(sync *SyncDefinition) *EntityMapping {
	return &EntityMapping{
		Action:       ActionSkip,
		EntityTypeID: sync.Local.TypeID,
		EntityBundle: sync.Local.Bundle,
	}
}
