package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	httpClient "github.com/tradepost/marketsync/internal/client/api"
	"github.com/tradepost/marketsync/internal/client/service"
	"github.com/tradepost/marketsync/internal/client/storage"
	"github.com/tradepost/marketsync/internal/models"
)

// SlotService manages listing slots. Every operation goes through the
// orchestrator: the online path talks to the backend and refreshes the
// cache, the offline path serves reads from the cache and records
// mutations optimistically.
type SlotService struct {
	orch   *service.Orchestrator
	remote httpClient.RemoteClient
	logger *slog.Logger
}

// NewSlotService creates a slot service over the orchestrator.
func NewSlotService(orch *service.Orchestrator, remote httpClient.RemoteClient, logger *slog.Logger) *SlotService {
	return &SlotService{
		orch:   orch,
		remote: remote,
		logger: logger,
	}
}

// Get returns one slot, from the backend when reachable, otherwise from
// the local cache.
func (s *SlotService) Get(ctx context.Context, id string) *models.Response[*models.Slot] {
	return service.Execute(ctx, s.orch,
		func(ctx context.Context) (*models.Response[*models.Slot], error) {
			entity, err := s.remote.Get(ctx, models.CollectionSlots, id)
			if err != nil {
				return nil, err
			}
			s.refreshCache(ctx, entity.Data)

			slot, err := decodeSlot(entity.Data)
			if err != nil {
				return nil, err
			}
			return models.Ok(slot), nil
		},
		func(ctx context.Context) (*models.Response[*models.Slot], error) {
			cached, err := s.orch.Cache().GetEntity(ctx, models.CollectionSlots, id)
			if err != nil {
				if errors.Is(err, storage.ErrEntityNotFound) {
					return models.Fail[*models.Slot](models.ErrKindNotFound, fmt.Sprintf("slot %s not found in local cache", id)), nil
				}
				return nil, err
			}
			slot, err := decodeSlot(cached.Data)
			if err != nil {
				return nil, err
			}
			return models.Ok(slot), nil
		})
}

// List returns the slots of one listing, or every slot when listingID is
// empty. Offline, the listing filter is applied over the cache.
func (s *SlotService) List(ctx context.Context, listingID string) *models.Response[[]*models.Slot] {
	return service.Execute(ctx, s.orch,
		func(ctx context.Context) (*models.Response[[]*models.Slot], error) {
			filter := url.Values{}
			if listingID != "" {
				filter.Set("listing_id", listingID)
			}
			entities, err := s.remote.List(ctx, models.CollectionSlots, filter)
			if err != nil {
				return nil, err
			}

			slots := make([]*models.Slot, 0, len(entities))
			for _, entity := range entities {
				s.refreshCache(ctx, entity.Data)
				slot, err := decodeSlot(entity.Data)
				if err != nil {
					s.logger.Warn("skipping undecodable slot", "error", err)
					continue
				}
				slots = append(slots, slot)
			}
			return models.Ok(slots), nil
		},
		func(ctx context.Context) (*models.Response[[]*models.Slot], error) {
			cached, err := s.orch.Cache().GetAllEntities(ctx, models.CollectionSlots)
			if err != nil {
				return nil, err
			}

			slots := make([]*models.Slot, 0, len(cached))
			for _, entity := range cached {
				slot, err := decodeSlot(entity.Data)
				if err != nil {
					s.logger.Warn("skipping undecodable cached slot", "id", entity.ID, "error", err)
					continue
				}
				if listingID != "" && slot.ListingID != listingID {
					continue
				}
				slots = append(slots, slot)
			}
			return models.Ok(slots), nil
		})
}

// Update replaces a slot wholesale. Offline, the cache is rewritten
// optimistically and the mutation queued for replay.
func (s *SlotService) Update(ctx context.Context, slot *models.Slot) *models.Response[*models.Slot] {
	if slot == nil || slot.ID == "" {
		return models.Fail[*models.Slot](models.ErrKindValidation, "slot id is required")
	}

	slot.UpdatedAt = time.Now()
	payload, err := json.Marshal(slot)
	if err != nil {
		return models.Fail[*models.Slot](models.ErrKindValidation, fmt.Sprintf("failed to encode slot: %v", err))
	}

	return service.Execute(ctx, s.orch,
		func(ctx context.Context) (*models.Response[*models.Slot], error) {
			entity, err := s.remote.Update(ctx, models.CollectionSlots, slot.ID, payload)
			if err != nil {
				return nil, err
			}
			s.refreshCache(ctx, entity.Data)

			updated, err := decodeSlot(entity.Data)
			if err != nil {
				return nil, err
			}
			return models.Ok(updated), nil
		},
		func(ctx context.Context) (*models.Response[*models.Slot], error) {
			_, err := s.orch.SaveOfflineWrite(ctx, storage.OfflineWrite{
				Type:       models.OperationUpdate,
				Collection: models.CollectionSlots,
				EntityID:   slot.ID,
				Payload:    payload,
			})
			if err != nil {
				return nil, err
			}
			return models.OkPending(slot), nil
		})
}

// Reserve moves an available slot to reserved.
func (s *SlotService) Reserve(ctx context.Context, id string) *models.Response[*models.Slot] {
	return s.transition(ctx, id, models.SlotStatusAvailable, models.SlotStatusReserved)
}

// Release moves a reserved slot back to available.
func (s *SlotService) Release(ctx context.Context, id string) *models.Response[*models.Slot] {
	return s.transition(ctx, id, models.SlotStatusReserved, models.SlotStatusAvailable)
}

// transition validates the current status against from and writes to.
func (s *SlotService) transition(ctx context.Context, id string, from, to models.SlotStatus) *models.Response[*models.Slot] {
	resp := s.Get(ctx, id)
	if !resp.Success {
		return resp
	}

	slot := resp.Data
	if slot.Status != from {
		return models.Fail[*models.Slot](models.ErrKindValidation,
			fmt.Sprintf("slot %s is %s, expected %s", id, slot.Status, from))
	}

	slot.Status = to
	return s.Update(ctx, slot)
}

// refreshCache stores a confirmed backend snapshot; failures are logged,
// the next successful read repairs the cache.
func (s *SlotService) refreshCache(ctx context.Context, data json.RawMessage) {
	if _, err := s.orch.Cache().StoreEntity(ctx, models.CollectionSlots, data); err != nil {
		s.logger.Warn("failed to cache slot snapshot", "error", err)
	}
}

func decodeSlot(data json.RawMessage) (*models.Slot, error) {
	slot := &models.Slot{}
	if err := json.Unmarshal(data, slot); err != nil {
		return nil, fmt.Errorf("failed to decode slot: %w", err)
	}
	return slot, nil
}
