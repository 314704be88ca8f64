package fieldmap

import (
	"context"

	"github.com/meridian-labs/entsync-core/internal/core/domain"
	"github.com/meridian-labs/entsync-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.FieldManager = (*Manager)(nil)

// Mapping declares per-sync field copy rules. Keys are source field names,
// values are destination field names. An empty rule set falls back to
// copying every field under its own name.
type Mapping struct {
	// Import maps remote field names to local field names
	Import map[string]string `json:"import,omitempty"`

	// Export maps local field names to remote field names
	Export map[string]string `json:"export,omitempty"`
}

// Manager implements FieldManager with declarative field copy rules keyed by
// sync id. Syncs without rules get name-for-name copies; the remote id and
// changed markers are always handled through the dedicated setters, never the
// bulk copy.
type Manager struct {
	mappings map[string]Mapping
}

// NewManager creates a field manager over the given per-sync mappings.
// mappings may be nil, in which case every sync uses name-for-name copies.
func NewManager(mappings map[string]Mapping) *Manager {
	return &Manager{mappings: mappings}
}

// Import copies mapped fields from the remote entity onto the local one.
func (m *Manager) Import(ctx context.Context, remote domain.RemoteEntity, local *domain.Entity, sync *domain.SyncDefinition) error {
	rules := m.mappings[sync.ID].Import
	if len(rules) > 0 {
		for from, to := range rules {
			if v, ok := remote.Field(from); ok {
				local.SetField(to, v)
			}
		}
		return nil
	}

	for name, value := range remote {
		if name == sync.Remote.IDField || name == sync.Remote.ChangedField {
			continue
		}
		local.SetField(name, value)
	}
	return nil
}

// Export builds the remote representation of the local entity.
func (m *Manager) Export(ctx context.Context, local *domain.Entity, sync *domain.SyncDefinition) (domain.RemoteEntity, error) {
	payload := domain.RemoteEntity{}

	rules := m.mappings[sync.ID].Export
	if len(rules) > 0 {
		for from, to := range rules {
			if v, ok := local.Field(from); ok {
				payload[to] = v
			}
		}
		return payload, nil
	}

	for name, value := range local.Fields {
		if name == sync.Local.RemoteIDField {
			continue
		}
		payload[name] = value
	}
	return payload, nil
}

// SetRemoteIDField stores the remote id from a push response on the local
// entity. With overwrite false an already-set id is kept.
func (m *Manager) SetRemoteIDField(ctx context.Context, response domain.RemoteEntity, local *domain.Entity, sync *domain.SyncDefinition, overwrite bool) error {
	id, ok := response.StringField(sync.Remote.IDField)
	if !ok {
		return nil
	}
	if _, set := local.StringField(sync.Local.RemoteIDField); set && !overwrite {
		return nil
	}
	local.SetField(sync.Local.RemoteIDField, id)
	return nil
}

// SetRemoteChangedField stores the remote changed marker from a push
// response on the local entity.
func (m *Manager) SetRemoteChangedField(ctx context.Context, response domain.RemoteEntity, local *domain.Entity, sync *domain.SyncDefinition) error {
	if sync.Remote.ChangedField == "" {
		return nil
	}
	if v, ok := response.Field(sync.Remote.ChangedField); ok {
		local.SetField(sync.Remote.ChangedField, v)
	}
	return nil
}
