package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tradepost/marketsync/internal/server/storage"
)

// CreateEntity inserts a new entity row.
func (s *Storage) CreateEntity(ctx context.Context, collection, id string, data []byte) (*storage.StoredEntity, error) {
	existing, err := s.GetEntity(ctx, collection, id)
	if err != nil && !errors.Is(err, storage.ErrEntityNotFound) {
		return nil, fmt.Errorf("failed to check existing entity: %w", err)
	}
	if existing != nil {
		return nil, storage.ErrEntityExists
	}

	now := time.Now()
	query := `
		INSERT INTO entities (collection, id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query, collection, id, string(data), now.Unix(), now.Unix()); err != nil {
		return nil, fmt.Errorf("failed to insert entity: %w", err)
	}

	return &storage.StoredEntity{
		CreatedAt:  now,
		UpdatedAt:  now,
		Collection: collection,
		ID:         id,
		Data:       data,
	}, nil
}

// UpdateEntity replaces an entity's payload wholesale.
func (s *Storage) UpdateEntity(ctx context.Context, collection, id string, data []byte) (*storage.StoredEntity, error) {
	now := time.Now()
	query := `
		UPDATE entities
		SET data = ?, updated_at = ?
		WHERE collection = ? AND id = ?
	`
	result, err := s.db.ExecContext(ctx, query, string(data), now.Unix(), collection, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update entity: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return nil, storage.ErrEntityNotFound
	}

	return s.GetEntity(ctx, collection, id)
}

// DeleteEntity removes an entity row.
func (s *Storage) DeleteEntity(ctx context.Context, collection, id string) error {
	query := `DELETE FROM entities WHERE collection = ? AND id = ?`
	result, err := s.db.ExecContext(ctx, query, collection, id)
	if err != nil {
		return fmt.Errorf("failed to delete entity: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return storage.ErrEntityNotFound
	}
	return nil
}

// GetEntity reads one entity row.
func (s *Storage) GetEntity(ctx context.Context, collection, id string) (*storage.StoredEntity, error) {
	query := `
		SELECT collection, id, data, created_at, updated_at
		FROM entities
		WHERE collection = ? AND id = ?
	`
	row := s.db.QueryRowContext(ctx, query, collection, id)

	entity, err := scanEntity(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to get entity: %w", err)
	}
	return entity, nil
}

// ListEntities reads a collection in insertion order. Each filter pair
// must match a top-level field of the stored JSON payload.
func (s *Storage) ListEntities(ctx context.Context, collection string, filter map[string]string) ([]*storage.StoredEntity, error) {
	query := `
		SELECT collection, id, data, created_at, updated_at
		FROM entities
		WHERE collection = ?
	`
	args := []any{collection}
	for key, value := range filter {
		query += ` AND json_extract(data, ?) = ?`
		args = append(args, "$."+key, value)
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	defer rows.Close()

	var entities []*storage.StoredEntity
	for rows.Next() {
		entity, err := scanEntity(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		entities = append(entities, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entities: %w", err)
	}

	return entities, nil
}

// scanEntity decodes one row from either QueryRow or Rows.
func scanEntity(scan func(dest ...any) error) (*storage.StoredEntity, error) {
	var (
		entity    storage.StoredEntity
		data      string
		createdAt int64
		updatedAt int64
	)
	if err := scan(&entity.Collection, &entity.ID, &data, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	entity.Data = []byte(data)
	entity.CreatedAt = time.Unix(createdAt, 0)
	entity.UpdatedAt = time.Unix(updatedAt, 0)
	return &entity, nil
}
