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
var _ driven.EntityStore = (*EntityStore)(nil)

// EntityStore implements driven.EntityStore using PostgreSQL. Entities are
// open field maps, stored as JSONB so any configuration-driven field name
// works without migrations.
type EntityStore struct {
	db *DB
}

// NewEntityStore creates a new EntityStore
func NewEntityStore(db *DB) *EntityStore {
	return &EntityStore{db: db}
}

// Load retrieves an entity by type and storage id
func (s *EntityStore) Load(ctx context.Context, typeID, id string) (*domain.Entity, error) {
	query := `
		SELECT type_id, id, bundle, fields
		FROM entities
		WHERE type_id = $1 AND id = $2
	`

	return s.scanEntity(s.db.QueryRowContext(ctx, query, typeID, id))
}

// LoadByField retrieves the entity whose named field equals the given value
func (s *EntityStore) LoadByField(ctx context.Context, typeID, field string, value any) (*domain.Entity, error) {
	query := `
		SELECT type_id, id, bundle, fields
		FROM entities
		WHERE type_id = $1 AND fields->>$2 = $3
		LIMIT 1
	`

	return s.scanEntity(s.db.QueryRowContext(ctx, query, typeID, field, fmt.Sprintf("%v", value)))
}

func (s *EntityStore) scanEntity(row *sql.Row) (*domain.Entity, error) {
	var entity domain.Entity
	var fieldsJSON []byte

	err := row.Scan(
		&entity.TypeID,
		&entity.ID,
		&entity.Bundle,
		&fieldsJSON,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load entity: %w: %v", domain.ErrStorage, err)
	}

	if err := json.Unmarshal(fieldsJSON, &entity.Fields); err != nil {
		return nil, fmt.Errorf("failed to decode entity fields: %w: %v", domain.ErrStorage, err)
	}

	return &entity, nil
}

// Create instantiates a new, unsaved entity of the given type and bundle
func (s *EntityStore) Create(ctx context.Context, typeID, bundle string) (*domain.Entity, error) {
	return &domain.Entity{
		ID:     domain.GenerateID(),
		TypeID: typeID,
		Bundle: bundle,
		Fields: make(map[string]any),
	}, nil
}

// Save persists the entity, creating or updating as needed
func (s *EntityStore) Save(ctx context.Context, entity *domain.Entity) error {
	fieldsJSON, err := json.Marshal(entity.Fields)
	if err != nil {
		return fmt.Errorf("failed to encode entity fields: %w: %v", domain.ErrStorage, err)
	}

	query := `
		INSERT INTO entities (type_id, id, bundle, fields, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (type_id, id) DO UPDATE SET
			bundle = EXCLUDED.bundle,
			fields = EXCLUDED.fields,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := s.db.ExecContext(ctx, query,
		entity.TypeID,
		entity.ID,
		entity.Bundle,
		fieldsJSON,
		time.Now(),
	); err != nil {
		return fmt.Errorf("failed to save entity %s/%s: %w: %v", entity.TypeID, entity.ID, domain.ErrStorage, err)
	}

	return nil
}
