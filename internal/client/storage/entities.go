package storage

import (
	"context"
	"encoding/json"
	"time"
)

//go:generate moq -out entities_mock.go . EntityCache

// CachedEntity is the last-known snapshot of one remote entity, stored
// under its (collection, id) key. Snapshots are replaced wholesale, never
// partially updated. Deleted marks an optimistic offline delete: the row
// stays in place until the backend confirms the delete during replay.
type CachedEntity struct {
	CachedAt   time.Time       `json:"cached_at"`
	Collection string          `json:"collection"`
	ID         string          `json:"id"`
	Data       json.RawMessage `json:"data"`
	Deleted    bool            `json:"deleted,omitempty"`
}

// EntityCache defines the persistent per-collection snapshot store.
type EntityCache interface {
	// StoreEntity upserts a snapshot by the payload's identity field and
	// returns the stored envelope. An existing tombstone is overwritten.
	StoreEntity(ctx context.Context, collection string, data json.RawMessage) (*CachedEntity, error)

	// GetEntity returns the snapshot for (collection, id).
	// Returns ErrEntityNotFound if absent or tombstoned.
	GetEntity(ctx context.Context, collection, id string) (*CachedEntity, error)

	// GetAllEntities returns every live snapshot in a collection in the
	// underlying store's iteration order. Tombstoned rows are skipped.
	GetAllEntities(ctx context.Context, collection string) ([]*CachedEntity, error)

	// MarkDeleted tombstones a snapshot ahead of remote confirmation.
	// Returns ErrEntityNotFound if the snapshot does not exist.
	MarkDeleted(ctx context.Context, collection, id string) error

	// RemoveEntity physically removes a snapshot. Callers must only do this
	// after the backend confirmed the corresponding delete.
	RemoveEntity(ctx context.Context, collection, id string) error

	// ClearCollection removes every row of one collection.
	ClearCollection(ctx context.Context, collection string) error
}
