package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	httpClient "github.com/tradepost/marketsync/internal/client/api"
	"github.com/tradepost/marketsync/internal/client/connectivity"
	"github.com/tradepost/marketsync/internal/client/storage"
	syncengine "github.com/tradepost/marketsync/internal/client/sync"
	"github.com/tradepost/marketsync/internal/models"
)

// Orchestrator is the façade every domain operation goes through. It
// decides, per call, whether to attempt the network path or fall back to
// the cache/queue path, and owns the wiring between the connectivity
// monitor and the sync engine. Domain services depend on it and never on
// the cache or queue directly.
type Orchestrator struct {
	monitor *connectivity.Monitor
	cache   storage.EntityCache
	queue   storage.MutationQueue
	offline storage.OfflineStore
	engine  syncengine.Engine
	logger  *slog.Logger

	initOnce sync.Once
}

// New creates an orchestrator over the injected collaborators.
func New(monitor *connectivity.Monitor, cache storage.EntityCache, queue storage.MutationQueue, offline storage.OfflineStore, engine syncengine.Engine, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		monitor: monitor,
		cache:   cache,
		queue:   queue,
		offline: offline,
		engine:  engine,
		logger:  logger,
	}
}

// Initialize starts the connectivity monitor and wires the automatic
// drain on every offline-to-online transition. Idempotent; safe to call
// redundantly from multiple call sites.
func (o *Orchestrator) Initialize(ctx context.Context) {
	o.initOnce.Do(func() {
		// Subscribe before the first probe so the initial transition to
		// online already triggers a drain.
		o.monitor.Subscribe(func(online bool) {
			if !online {
				return
			}
			go o.autoDrain(context.WithoutCancel(ctx))
		})
		o.monitor.Initialize(ctx)
	})
}

func (o *Orchestrator) autoDrain(ctx context.Context) {
	result, err := o.engine.Drain(ctx)
	if err != nil {
		if errors.Is(err, syncengine.ErrDrainInProgress) || errors.Is(err, syncengine.ErrOffline) {
			o.logger.Debug("automatic drain skipped", "reason", err)
			return
		}
		o.logger.Error("automatic drain failed", "error", err)
		return
	}
	o.logger.Info("automatic drain completed",
		"applied", result.Applied, "failed", result.Failed, "remaining", result.Remaining)
}

// IsOnline exposes the current connectivity verdict.
func (o *Orchestrator) IsOnline() bool {
	return o.monitor.IsOnline()
}

// PendingOperationCount reports the queue depth for status surfaces.
func (o *Orchestrator) PendingOperationCount(ctx context.Context) (int, error) {
	return o.queue.Count(ctx)
}

// Sync triggers a manual drain cycle (app resume, explicit user action).
func (o *Orchestrator) Sync(ctx context.Context) (*syncengine.DrainResult, error) {
	return o.engine.Drain(ctx)
}

// SavePendingOperation appends a bare queue record without touching the
// cache (used for batch payloads whose cache effects were already
// written) and answers with a pending-sync success.
func (o *Orchestrator) SavePendingOperation(ctx context.Context, opType models.OperationType, entityType, entityID string, payload json.RawMessage) *models.Response[*models.PendingOperation] {
	op, err := o.queue.Enqueue(ctx, opType, entityType, entityID, payload)
	if err != nil {
		o.logger.Error("failed to enqueue pending operation", "type", opType, "entity_type", entityType, "error", err)
		return models.Fail[*models.PendingOperation](models.ErrKindStorage, err.Error())
	}
	return models.OkPending(op)
}

// SaveOfflineWrite records one offline mutation: the optimistic cache
// write and the queue append commit in a single storage transaction.
func (o *Orchestrator) SaveOfflineWrite(ctx context.Context, write storage.OfflineWrite) (*models.PendingOperation, error) {
	return o.offline.SaveOfflineWrite(ctx, write)
}

// Cache exposes read access to the entity cache for offline read paths.
func (o *Orchestrator) Cache() storage.EntityCache {
	return o.cache
}

// Execute routes one domain operation. When online it awaits the online
// path; a thrown error or failure response logs and falls through to the
// offline path (a transport-level error additionally flips the passive
// connectivity signal). When offline from the start the offline path runs
// directly. Offline-path errors surface as STORAGE_ERROR unless typed.
func Execute[T any](ctx context.Context, o *Orchestrator, online, offline func(context.Context) (*models.Response[T], error)) *models.Response[T] {
	if o.monitor.IsOnline() {
		resp, err := online(ctx)
		switch {
		case err == nil && resp != nil && resp.Success:
			return resp
		case err != nil:
			o.logger.Warn("online path failed, using offline fallback", "error", err)
			if httpClient.IsNetworkError(err) {
				o.monitor.SetOnline(false)
			}
		default:
			o.logger.Warn("online path returned failure, using offline fallback", "kind", resp.Err.Kind, "message", resp.Err.Message)
		}
	}

	resp, err := offline(ctx)
	if err != nil {
		o.logger.Error("offline path failed", "error", err)
		var svcErr *models.ServiceError
		if errors.As(err, &svcErr) {
			return models.FailErr[T](svcErr)
		}
		return models.Fail[T](models.ErrKindStorage, err.Error())
	}
	return resp
}
