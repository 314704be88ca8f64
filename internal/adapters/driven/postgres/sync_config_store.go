package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/meridian-labs/entsync-core/internal/core/domain"
	"github.com/meridian-labs/entsync-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SyncConfigStore = (*SyncConfigStore)(nil)

// SyncConfigStore implements driven.SyncConfigStore using PostgreSQL.
// Definitions are stored with their descriptors as JSONB so configuration
// shape changes need no migrations.
type SyncConfigStore struct {
	db *DB
}

// NewSyncConfigStore creates a new SyncConfigStore
func NewSyncConfigStore(db *DB) *SyncConfigStore {
	return &SyncConfigStore{db: db}
}

// Get retrieves a sync definition by id
func (s *SyncConfigStore) Get(ctx context.Context, id string) (*domain.SyncDefinition, error) {
	query := `
		SELECT id, enabled, local_entity, remote_resource, operations
		FROM sync_definitions
		WHERE id = $1
	`

	var sync domain.SyncDefinition
	var localJSON, remoteJSON, operationsJSON []byte

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&sync.ID,
		&sync.Enabled,
		&localJSON,
		&remoteJSON,
		&operationsJSON,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query sync definition: %w", err)
	}

	if err := json.Unmarshal(localJSON, &sync.Local); err != nil {
		return nil, fmt.Errorf("failed to decode local entity descriptor: %w", err)
	}
	if err := json.Unmarshal(remoteJSON, &sync.Remote); err != nil {
		return nil, fmt.Errorf("failed to decode remote resource descriptor: %w", err)
	}
	if err := json.Unmarshal(operationsJSON, &sync.Operations); err != nil {
		return nil, fmt.Errorf("failed to decode operations: %w", err)
	}

	return &sync, nil
}

// List enumerates the ids of stored definitions with the given id prefix
func (s *SyncConfigStore) List(ctx context.Context, prefix string) ([]string, error) {
	query := `
		SELECT id
		FROM sync_definitions
		WHERE id LIKE $1
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to list sync definitions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

// Save creates or updates a sync definition. The core reads definitions
// only; Save exists for seeding and external management tooling.
func (s *SyncConfigStore) Save(ctx context.Context, sync *domain.SyncDefinition) error {
	localJSON, err := json.Marshal(sync.Local)
	if err != nil {
		return err
	}
	remoteJSON, err := json.Marshal(sync.Remote)
	if err != nil {
		return err
	}
	operationsJSON, err := json.Marshal(sync.Operations)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO sync_definitions (id, enabled, local_entity, remote_resource, operations, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (id) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			local_entity = EXCLUDED.local_entity,
			remote_resource = EXCLUDED.remote_resource,
			operations = EXCLUDED.operations,
			updated_at = EXCLUDED.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		sync.ID,
		sync.Enabled,
		localJSON,
		remoteJSON,
		operationsJSON,
		time.Now(),
	)
	return err
}

// Delete removes a sync definition
func (s *SyncConfigStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sync_definitions WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}
