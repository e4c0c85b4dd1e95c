package storage

import (
	"context"
	"encoding/json"

	"github.com/tradepost/marketsync/internal/models"
)

//go:generate moq -out queue_mock.go . MutationQueue

// MutationQueue is the durable, ordered log of mutations that could not be
// sent to the backend. Records survive process restarts and are removed
// only after a confirmed remote success.
type MutationQueue interface {
	// Enqueue assigns identity, timestamp and sequence number to a new
	// record, persists it and returns the full record.
	Enqueue(ctx context.Context, opType models.OperationType, entityType, entityID string, payload json.RawMessage) (*models.PendingOperation, error)

	// ListPending returns all records ordered by (CreatedAt, Seq) ascending.
	ListPending(ctx context.Context) ([]*models.PendingOperation, error)

	// Remove deletes one record after a confirmed remote success.
	// Returns ErrOperationNotFound if the record does not exist.
	Remove(ctx context.Context, id string) error

	// Update persists a mutated record, used to bump RetryCount after a
	// failed replay attempt.
	Update(ctx context.Context, op *models.PendingOperation) error

	// Count returns the number of pending records.
	Count(ctx context.Context) (int, error)
}

// OfflineWrite describes one offline mutation: the queue record to append
// and the optimistic cache write that accompanies it.
type OfflineWrite struct {
	Type       models.OperationType
	Collection string
	EntityID   string
	Payload    json.RawMessage
}

// OfflineStore applies an offline mutation atomically: the optimistic
// cache write (snapshot upsert for create/update, tombstone for delete)
// and the queue append happen in a single storage transaction, so the
// cache and the queue can never diverge.
type OfflineStore interface {
	SaveOfflineWrite(ctx context.Context, write OfflineWrite) (*models.PendingOperation, error)
}
