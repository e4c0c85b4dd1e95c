package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	httpClient "github.com/tradepost/marketsync/internal/client/api"
	"github.com/tradepost/marketsync/internal/client/service"
	"github.com/tradepost/marketsync/internal/client/storage"
	"github.com/tradepost/marketsync/internal/models"
)

// ProductService manages product listings through the orchestrator.
type ProductService struct {
	orch   *service.Orchestrator
	remote httpClient.RemoteClient
	logger *slog.Logger
}

// NewProductService creates a product service over the orchestrator.
func NewProductService(orch *service.Orchestrator, remote httpClient.RemoteClient, logger *slog.Logger) *ProductService {
	return &ProductService{
		orch:   orch,
		remote: remote,
		logger: logger,
	}
}

// Create stores a new product. The id is generated client-side so the
// offline path can cache the product under its final identity.
func (p *ProductService) Create(ctx context.Context, product *models.Product) *models.Response[*models.Product] {
	if product == nil || product.Title == "" {
		return models.Fail[*models.Product](models.ErrKindValidation, "product title is required")
	}
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	payload, err := json.Marshal(product)
	if err != nil {
		return models.Fail[*models.Product](models.ErrKindValidation, fmt.Sprintf("failed to encode product: %v", err))
	}

	return service.Execute(ctx, p.orch,
		func(ctx context.Context) (*models.Response[*models.Product], error) {
			entity, err := p.remote.Create(ctx, models.CollectionProducts, payload)
			if err != nil {
				return nil, err
			}
			p.refreshCache(ctx, entity.Data)

			created, err := decodeProduct(entity.Data)
			if err != nil {
				return nil, err
			}
			return models.Ok(created), nil
		},
		func(ctx context.Context) (*models.Response[*models.Product], error) {
			_, err := p.orch.SaveOfflineWrite(ctx, storage.OfflineWrite{
				Type:       models.OperationCreate,
				Collection: models.CollectionProducts,
				EntityID:   product.ID,
				Payload:    payload,
			})
			if err != nil {
				return nil, err
			}
			return models.OkPending(product), nil
		})
}

// Get returns one product, from the backend when reachable, otherwise
// from the local cache.
func (p *ProductService) Get(ctx context.Context, id string) *models.Response[*models.Product] {
	return service.Execute(ctx, p.orch,
		func(ctx context.Context) (*models.Response[*models.Product], error) {
			entity, err := p.remote.Get(ctx, models.CollectionProducts, id)
			if err != nil {
				return nil, err
			}
			p.refreshCache(ctx, entity.Data)

			product, err := decodeProduct(entity.Data)
			if err != nil {
				return nil, err
			}
			return models.Ok(product), nil
		},
		func(ctx context.Context) (*models.Response[*models.Product], error) {
			cached, err := p.orch.Cache().GetEntity(ctx, models.CollectionProducts, id)
			if err != nil {
				if errors.Is(err, storage.ErrEntityNotFound) {
					return models.Fail[*models.Product](models.ErrKindNotFound, fmt.Sprintf("product %s not found in local cache", id)), nil
				}
				return nil, err
			}
			product, err := decodeProduct(cached.Data)
			if err != nil {
				return nil, err
			}
			return models.Ok(product), nil
		})
}

// List returns products, optionally filtered by category.
func (p *ProductService) List(ctx context.Context, category string) *models.Response[[]*models.Product] {
	return service.Execute(ctx, p.orch,
		func(ctx context.Context) (*models.Response[[]*models.Product], error) {
			filter := url.Values{}
			if category != "" {
				filter.Set("category", category)
			}
			entities, err := p.remote.List(ctx, models.CollectionProducts, filter)
			if err != nil {
				return nil, err
			}

			products := make([]*models.Product, 0, len(entities))
			for _, entity := range entities {
				p.refreshCache(ctx, entity.Data)
				product, err := decodeProduct(entity.Data)
				if err != nil {
					p.logger.Warn("skipping undecodable product", "error", err)
					continue
				}
				products = append(products, product)
			}
			return models.Ok(products), nil
		},
		func(ctx context.Context) (*models.Response[[]*models.Product], error) {
			cached, err := p.orch.Cache().GetAllEntities(ctx, models.CollectionProducts)
			if err != nil {
				return nil, err
			}

			products := make([]*models.Product, 0, len(cached))
			for _, entity := range cached {
				product, err := decodeProduct(entity.Data)
				if err != nil {
					p.logger.Warn("skipping undecodable cached product", "id", entity.ID, "error", err)
					continue
				}
				if category != "" && product.Category != category {
					continue
				}
				products = append(products, product)
			}
			return models.Ok(products), nil
		})
}

// Update replaces a product wholesale.
func (p *ProductService) Update(ctx context.Context, product *models.Product) *models.Response[*models.Product] {
	if product == nil || product.ID == "" {
		return models.Fail[*models.Product](models.ErrKindValidation, "product id is required")
	}

	product.UpdatedAt = time.Now()
	payload, err := json.Marshal(product)
	if err != nil {
		return models.Fail[*models.Product](models.ErrKindValidation, fmt.Sprintf("failed to encode product: %v", err))
	}

	return service.Execute(ctx, p.orch,
		func(ctx context.Context) (*models.Response[*models.Product], error) {
			entity, err := p.remote.Update(ctx, models.CollectionProducts, product.ID, payload)
			if err != nil {
				return nil, err
			}
			p.refreshCache(ctx, entity.Data)

			updated, err := decodeProduct(entity.Data)
			if err != nil {
				return nil, err
			}
			return models.Ok(updated), nil
		},
		func(ctx context.Context) (*models.Response[*models.Product], error) {
			_, err := p.orch.SaveOfflineWrite(ctx, storage.OfflineWrite{
				Type:       models.OperationUpdate,
				Collection: models.CollectionProducts,
				EntityID:   product.ID,
				Payload:    payload,
			})
			if err != nil {
				return nil, err
			}
			return models.OkPending(product), nil
		})
}

// Delete removes a product. Online, the cache row goes away with the
// confirmed delete; offline, the row is tombstoned until replay confirms.
func (p *ProductService) Delete(ctx context.Context, id string) *models.Response[bool] {
	if id == "" {
		return models.Fail[bool](models.ErrKindValidation, "product id is required")
	}

	return service.Execute(ctx, p.orch,
		func(ctx context.Context) (*models.Response[bool], error) {
			if err := p.remote.Delete(ctx, models.CollectionProducts, id); err != nil {
				return nil, err
			}
			if err := p.orch.Cache().RemoveEntity(ctx, models.CollectionProducts, id); err != nil {
				p.logger.Warn("failed to remove cached product after delete", "id", id, "error", err)
			}
			return models.Ok(true), nil
		},
		func(ctx context.Context) (*models.Response[bool], error) {
			_, err := p.orch.SaveOfflineWrite(ctx, storage.OfflineWrite{
				Type:       models.OperationDelete,
				Collection: models.CollectionProducts,
				EntityID:   id,
			})
			if err != nil {
				if errors.Is(err, storage.ErrEntityNotFound) {
					return models.Fail[bool](models.ErrKindNotFound, fmt.Sprintf("product %s not found in local cache", id)), nil
				}
				return nil, err
			}
			return models.OkPending(true), nil
		})
}

func (p *ProductService) refreshCache(ctx context.Context, data json.RawMessage) {
	if _, err := p.orch.Cache().StoreEntity(ctx, models.CollectionProducts, data); err != nil {
		p.logger.Warn("failed to cache product snapshot", "error", err)
	}
}

func decodeProduct(data json.RawMessage) (*models.Product, error) {
	product := &models.Product{}
	if err := json.Unmarshal(data, product); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}
	return product, nil
}
