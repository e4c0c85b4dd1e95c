package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/tradepost/marketsync/internal/client/storage"
	"github.com/tradepost/marketsync/internal/models"
)

// newOperation builds and persists a queue record within tx. The bucket's
// monotonic sequence breaks CreatedAt ties between records created within
// the same clock tick.
func newOperation(tx *bbolt.Tx, opType models.OperationType, entityType, entityID string, payload json.RawMessage) (*models.PendingOperation, error) {
	bucket := tx.Bucket(bucketPendingOps)
	if bucket == nil {
		return nil, fmt.Errorf("pendingOperations bucket not found")
	}

	seq, err := bucket.NextSequence()
	if err != nil {
		return nil, fmt.Errorf("failed to assign sequence: %w", err)
	}

	op := &models.PendingOperation{
		CreatedAt:  time.Now(),
		ID:         uuid.New().String(),
		Type:       opType,
		EntityType: entityType,
		EntityID:   entityID,
		Payload:    payload,
		Seq:        seq,
	}

	raw, err := json.Marshal(op)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal operation: %w", err)
	}
	if err := bucket.Put([]byte(op.ID), raw); err != nil {
		return nil, fmt.Errorf("failed to save operation: %w", err)
	}

	return op, nil
}

// Enqueue assigns identity, timestamp and sequence number to a new record
// and persists it.
func (s *Storage) Enqueue(ctx context.Context, opType models.OperationType, entityType, entityID string, payload json.RawMessage) (*models.PendingOperation, error) {
	var op *models.PendingOperation

	err := s.db.Update(func(tx *bbolt.Tx) error {
		var err error
		op, err = newOperation(tx, opType, entityType, entityID, payload)
		return err
	})
	if err != nil {
		return nil, err
	}

	return op, nil
}

// ListPending returns all records ordered by (CreatedAt, Seq) ascending.
func (s *Storage) ListPending(ctx context.Context) ([]*models.PendingOperation, error) {
	var ops []*models.PendingOperation

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketPendingOps)
		if bucket == nil {
			return fmt.Errorf("pendingOperations bucket not found")
		}

		return bucket.ForEach(func(k, v []byte) error {
			op := &models.PendingOperation{}
			if err := json.Unmarshal(v, op); err != nil {
				return fmt.Errorf("failed to unmarshal operation: %w", err)
			}
			ops = append(ops, op)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(ops, func(i, j int) bool {
		if !ops[i].CreatedAt.Equal(ops[j].CreatedAt) {
			return ops[i].CreatedAt.Before(ops[j].CreatedAt)
		}
		return ops[i].Seq < ops[j].Seq
	})

	return ops, nil
}

// Remove deletes one record after a confirmed remote success.
func (s *Storage) Remove(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketPendingOps)
		if bucket == nil {
			return fmt.Errorf("pendingOperations bucket not found")
		}
		if bucket.Get([]byte(id)) == nil {
			return storage.ErrOperationNotFound
		}
		if err := bucket.Delete([]byte(id)); err != nil {
			return fmt.Errorf("failed to delete operation: %w", err)
		}
		return nil
	})
}

// Update persists a mutated record, used to bump RetryCount after a
// failed replay attempt.
func (s *Storage) Update(ctx context.Context, op *models.PendingOperation) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketPendingOps)
		if bucket == nil {
			return fmt.Errorf("pendingOperations bucket not found")
		}
		if bucket.Get([]byte(op.ID)) == nil {
			return storage.ErrOperationNotFound
		}

		raw, err := json.Marshal(op)
		if err != nil {
			return fmt.Errorf("failed to marshal operation: %w", err)
		}
		if err := bucket.Put([]byte(op.ID), raw); err != nil {
			return fmt.Errorf("failed to update operation: %w", err)
		}
		return nil
	})
}

// Count returns the number of pending records.
func (s *Storage) Count(ctx context.Context) (int, error) {
	var count int

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketPendingOps)
		if bucket == nil {
			return fmt.Errorf("pendingOperations bucket not found")
		}
		count = bucket.Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

// SaveOfflineWrite applies one offline mutation atomically: the optimistic
// cache write and the queue append either both commit or neither does.
func (s *Storage) SaveOfflineWrite(ctx context.Context, write storage.OfflineWrite) (*models.PendingOperation, error) {
	var op *models.PendingOperation

	err := s.db.Update(func(tx *bbolt.Tx) error {
		switch write.Type {
		case models.OperationCreate, models.OperationUpdate:
			entity := &storage.CachedEntity{
				CachedAt:   time.Now(),
				Collection: write.Collection,
				ID:         write.EntityID,
				Data:       write.Payload,
			}
			if err := putEntity(tx, entity); err != nil {
				return err
			}
		case models.OperationDelete:
			if err := markDeleted(tx, write.Collection, write.EntityID); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported offline operation type %q", write.Type)
		}

		var err error
		op, err = newOperation(tx, write.Type, write.Collection, write.EntityID, write.Payload)
		return err
	})
	if err != nil {
		return nil, err
	}

	return op, nil
}
