package storage

import (
	"context"
	"errors"
	"time"
)

// Common server storage errors
var (
	// ErrEntityNotFound indicates that no entity exists for the key
	ErrEntityNotFound = errors.New("entity not found")

	// ErrEntityExists indicates a create for an already-taken key
	ErrEntityExists = errors.New("entity already exists")
)

// StoredEntity is one row of the backend's entity table.
type StoredEntity struct {
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Collection string
	ID         string
	Data       []byte
}

// EntityStorage defines the backend's per-collection entity store.
type EntityStorage interface {
	// CreateEntity inserts a new entity. Returns ErrEntityExists if the
	// (collection, id) key is taken.
	CreateEntity(ctx context.Context, collection, id string, data []byte) (*StoredEntity, error)

	// UpdateEntity replaces an entity wholesale.
	// Returns ErrEntityNotFound if absent.
	UpdateEntity(ctx context.Context, collection, id string, data []byte) (*StoredEntity, error)

	// DeleteEntity removes an entity. Returns ErrEntityNotFound if absent.
	DeleteEntity(ctx context.Context, collection, id string) error

	// GetEntity reads one entity. Returns ErrEntityNotFound if absent.
	GetEntity(ctx context.Context, collection, id string) (*StoredEntity, error)

	// ListEntities reads a collection; filter matches top-level JSON
	// fields of the stored payload (e.g. {"listing_id": "l-1"}).
	ListEntities(ctx context.Context, collection string, filter map[string]string) ([]*StoredEntity, error)
}
