package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	httpClient "github.com/tradepost/marketsync/internal/client/api"
	"github.com/tradepost/marketsync/internal/client/storage"
	"github.com/tradepost/marketsync/internal/models"
)

//go:generate moq -out engine_mock.go . Engine

// Engine replays the mutation queue against the backend.
type Engine interface {
	// Drain runs one drain cycle: pending operations are replayed oldest
	// first, successful records are removed, the first failure stops the
	// cycle with its retry count bumped.
	Drain(ctx context.Context) (*DrainResult, error)

	// PendingCount returns the number of operations awaiting replay.
	PendingCount(ctx context.Context) (int, error)
}

var (
	// ErrOffline is returned when a drain is requested without connectivity.
	ErrOffline = errors.New("cannot drain queue while offline")

	// ErrDrainInProgress is returned on a re-entrant drain trigger.
	ErrDrainInProgress = errors.New("drain already in progress")
)

// ConnectivitySource is the slice of the connectivity monitor the engine
// consults before starting a cycle.
type ConnectivitySource interface {
	IsOnline() bool
}

// DrainResult summarizes one drain cycle.
type DrainResult struct {
	Applied   int // operations confirmed and removed from the queue
	Failed    int // 0 or 1; the cycle stops at the first failure
	Remaining int // operations still queued after the cycle
}

type engine struct {
	remote httpClient.RemoteClient
	queue  storage.MutationQueue
	cache  storage.EntityCache
	conn   ConnectivitySource
	logger *slog.Logger

	draining atomic.Bool
}

// NewEngine creates a sync engine over the given queue, cache and backend.
func NewEngine(remote httpClient.RemoteClient, queue storage.MutationQueue, cache storage.EntityCache, conn ConnectivitySource, logger *slog.Logger) Engine {
	return &engine{
		remote: remote,
		queue:  queue,
		cache:  cache,
		conn:   conn,
		logger: logger,
	}
}

// Drain runs one drain cycle.
//
// Strict FIFO: operation k+1 is never attempted before operation k's
// outcome is known, and the first failure aborts the remainder of the
// cycle. A single permanently failing operation therefore blocks all
// later work until resolved; that is deliberate, see DESIGN.md.
func (e *engine) Drain(ctx context.Context) (*DrainResult, error) {
	if !e.conn.IsOnline() {
		return nil, ErrOffline
	}
	if !e.draining.CompareAndSwap(false, true) {
		return nil, ErrDrainInProgress
	}
	defer e.draining.Store(false)

	ops, err := e.queue.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending operations: %w", err)
	}

	e.logger.Info("starting drain cycle", "pending", len(ops))

	result := &DrainResult{}
	for _, op := range ops {
		if err := e.apply(ctx, op); err != nil {
			op.RetryCount++
			e.logger.Warn("replay failed, stopping drain cycle",
				"operation_id", op.ID,
				"type", op.Type,
				"entity_type", op.EntityType,
				"entity_id", op.EntityID,
				"retry_count", op.RetryCount,
				"error", err)

			if updErr := e.queue.Update(ctx, op); updErr != nil {
				return nil, fmt.Errorf("failed to record retry for operation %s: %w", op.ID, updErr)
			}
			result.Failed = 1
			break
		}

		if err := e.queue.Remove(ctx, op.ID); err != nil {
			return nil, fmt.Errorf("failed to remove applied operation %s: %w", op.ID, err)
		}
		result.Applied++
	}

	remaining, err := e.queue.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count remaining operations: %w", err)
	}
	result.Remaining = remaining

	e.logger.Info("drain cycle finished",
		"applied", result.Applied,
		"failed", result.Failed,
		"remaining", result.Remaining)

	return result, nil
}

// PendingCount returns the number of operations awaiting replay.
func (e *engine) PendingCount(ctx context.Context) (int, error) {
	return e.queue.Count(ctx)
}

// apply replays one operation against the backend and reconciles the
// cache with the confirmed result.
func (e *engine) apply(ctx context.Context, op *models.PendingOperation) error {
	switch op.Type {
	case models.OperationCreate:
		entity, err := e.remote.Create(ctx, op.EntityType, op.Payload)
		if err != nil {
			return err
		}
		e.reconcile(ctx, op.EntityType, entity.Data)
		return nil

	case models.OperationUpdate:
		entity, err := e.remote.Update(ctx, op.EntityType, op.EntityID, op.Payload)
		if err != nil {
			return err
		}
		e.reconcile(ctx, op.EntityType, entity.Data)
		return nil

	case models.OperationDelete:
		err := e.remote.Delete(ctx, op.EntityType, op.EntityID)
		if err != nil && !isNotFound(err) {
			return err
		}
		// Confirmed (or already gone) remotely: drop the tombstone.
		if rmErr := e.cache.RemoveEntity(ctx, op.EntityType, op.EntityID); rmErr != nil {
			e.logger.Warn("failed to remove cached entity after confirmed delete",
				"collection", op.EntityType, "entity_id", op.EntityID, "error", rmErr)
		}
		return nil

	case models.OperationBatch:
		return e.applyBatch(ctx, op)

	default:
		return fmt.Errorf("unsupported operation type %q", op.Type)
	}
}

// applyBatch replays a batch's items in order, fail-fast like the outer
// queue loop. A failing item fails the whole batch record; already applied
// items are idempotent upserts on the backend, so a retried batch is safe.
func (e *engine) applyBatch(ctx context.Context, op *models.PendingOperation) error {
	var batch models.BatchPayload
	if err := json.Unmarshal(op.Payload, &batch); err != nil {
		return fmt.Errorf("failed to decode batch payload: %w", err)
	}

	for i, item := range batch.Items {
		sub := &models.PendingOperation{
			ID:         op.ID,
			Type:       item.Type,
			EntityType: item.EntityType,
			EntityID:   item.EntityID,
			Payload:    item.Payload,
		}
		if sub.Type == models.OperationBatch {
			return fmt.Errorf("batch item %d: nested batches are not supported", i)
		}
		if err := e.apply(ctx, sub); err != nil {
			return fmt.Errorf("batch item %d (%s %s/%s): %w", i, item.Type, item.EntityType, item.EntityID, err)
		}
	}
	return nil
}

// reconcile stores the backend's confirmed snapshot. A cache failure here
// is logged, not retried: the remote mutation already succeeded and the
// snapshot will be refreshed by the next read.
func (e *engine) reconcile(ctx context.Context, collection string, data json.RawMessage) {
	if len(data) == 0 {
		return
	}
	if _, err := e.cache.StoreEntity(ctx, collection, data); err != nil {
		e.logger.Warn("failed to reconcile cache after replay", "collection", collection, "error", err)
	}
}

// isNotFound reports whether the backend said the entity no longer exists.
func isNotFound(err error) bool {
	var svcErr *models.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Kind == models.ErrKindNotFound
	}
	return false
}
