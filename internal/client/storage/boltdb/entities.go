package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/tradepost/marketsync/internal/client/storage"
	"github.com/tradepost/marketsync/internal/models"
)

// putEntity marshals and stores one snapshot within tx. Shared by the
// cache upsert and the atomic offline write.
func putEntity(tx *bbolt.Tx, entity *storage.CachedEntity) error {
	bucket, err := collectionBucket(tx, entity.Collection)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	if err := bucket.Put([]byte(entity.ID), raw); err != nil {
		return fmt.Errorf("failed to save entity: %w", err)
	}
	return nil
}

// StoreEntity upserts a snapshot by the payload's identity field.
// The snapshot is replaced wholesale; an existing tombstone is overwritten.
func (s *Storage) StoreEntity(ctx context.Context, collection string, data json.RawMessage) (*storage.CachedEntity, error) {
	id, err := models.EntityID(data)
	if err != nil {
		return nil, err
	}

	entity := &storage.CachedEntity{
		CachedAt:   time.Now(),
		Collection: collection,
		ID:         id,
		Data:       data,
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return putEntity(tx, entity)
	})
	if err != nil {
		return nil, err
	}

	return entity, nil
}

// GetEntity returns the snapshot for (collection, id).
// Tombstoned rows read as not found.
func (s *Storage) GetEntity(ctx context.Context, collection, id string) (*storage.CachedEntity, error) {
	var entity *storage.CachedEntity

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := collectionBucket(tx, collection)
		if err != nil {
			return err
		}

		raw := bucket.Get([]byte(id))
		if raw == nil {
			return storage.ErrEntityNotFound
		}

		entity = &storage.CachedEntity{}
		if err := json.Unmarshal(raw, entity); err != nil {
			return fmt.Errorf("failed to unmarshal entity: %w", err)
		}

		if entity.Deleted {
			return storage.ErrEntityNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entity, nil
}

// GetAllEntities returns every live snapshot in a collection in bucket
// iteration order. Tombstoned rows are skipped.
func (s *Storage) GetAllEntities(ctx context.Context, collection string) ([]*storage.CachedEntity, error) {
	var entities []*storage.CachedEntity

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := collectionBucket(tx, collection)
		if err != nil {
			return err
		}

		return bucket.ForEach(func(k, v []byte) error {
			entity := &storage.CachedEntity{}
			if err := json.Unmarshal(v, entity); err != nil {
				return fmt.Errorf("failed to unmarshal entity: %w", err)
			}
			if entity.Deleted {
				return nil
			}
			entities = append(entities, entity)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return entities, nil
}

// markDeleted tombstones one snapshot within tx.
func markDeleted(tx *bbolt.Tx, collection, id string) error {
	bucket, err := collectionBucket(tx, collection)
	if err != nil {
		return err
	}

	raw := bucket.Get([]byte(id))
	if raw == nil {
		return storage.ErrEntityNotFound
	}

	entity := &storage.CachedEntity{}
	if err := json.Unmarshal(raw, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}

	entity.Deleted = true
	entity.CachedAt = time.Now()

	updated, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}
	if err := bucket.Put([]byte(id), updated); err != nil {
		return fmt.Errorf("failed to update entity: %w", err)
	}
	return nil
}

// MarkDeleted tombstones a snapshot ahead of remote confirmation. The row
// is physically removed only once the backend confirms the delete.
func (s *Storage) MarkDeleted(ctx context.Context, collection, id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return markDeleted(tx, collection, id)
	})
}

// RemoveEntity physically removes a snapshot after a confirmed remote
// delete.
func (s *Storage) RemoveEntity(ctx context.Context, collection, id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := collectionBucket(tx, collection)
		if err != nil {
			return err
		}
		if err := bucket.Delete([]byte(id)); err != nil {
			return fmt.Errorf("failed to delete entity: %w", err)
		}
		return nil
	})
}

// ClearCollection removes every row of one collection, used for full
// resets after a server-side reload.
func (s *Storage) ClearCollection(ctx context.Context, collection string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := collectionBucket(tx, collection); err != nil {
			return err
		}
		// Drop and recreate the bucket; deleting keys mid-iteration is
		// not allowed by bbolt.
		if err := tx.DeleteBucket([]byte(collection)); err != nil {
			return fmt.Errorf("failed to clear collection: %w", err)
		}
		if _, err := tx.CreateBucket([]byte(collection)); err != nil {
			return fmt.Errorf("failed to recreate collection: %w", err)
		}
		return nil
	})
}
