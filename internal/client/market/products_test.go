package market

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradepost/marketsync/internal/client/storage"
	"github.com/tradepost/marketsync/internal/models"
	"github.com/tradepost/marketsync/pkg/api"
)

func (f *fixture) cacheProduct(t *testing.T, raw string) {
	t.Helper()
	_, err := f.store.StoreEntity(context.Background(), models.CollectionProducts, json.RawMessage(raw))
	require.NoError(t, err)
}

func TestProductCreate_Online(t *testing.T) {
	f := newFixture(t)
	f.monitor.SetOnline(true)
	ctx := context.Background()

	products := f.products(t)

	resp := products.Create(ctx, &models.Product{Title: "Lamp", PriceCents: 1500, Currency: "USD"})
	require.True(t, resp.Success)
	assert.False(t, resp.PendingSync)
	assert.NotEmpty(t, resp.Data.ID)

	require.Len(t, f.remote.CreateCalls(), 1)

	// Echoed snapshot cached under the client-generated id
	cached, err := f.store.GetEntity(ctx, models.CollectionProducts, resp.Data.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.Data.ID, cached.ID)
}

func TestProductCreate_OfflineQueues(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	products := f.products(t)

	resp := products.Create(ctx, &models.Product{Title: "Lamp", PriceCents: 1500, Currency: "USD"})
	require.True(t, resp.Success)
	assert.True(t, resp.PendingSync)
	assert.Empty(t, f.remote.CreateCalls())

	// Cache and queue were written together
	_, err := f.store.GetEntity(ctx, models.CollectionProducts, resp.Data.ID)
	require.NoError(t, err)

	ops, err := f.store.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, models.OperationCreate, ops[0].Type)
	assert.Equal(t, resp.Data.ID, ops[0].EntityID)
}

func TestProductCreate_RequiresTitle(t *testing.T) {
	f := newFixture(t)

	resp := f.products(t).Create(context.Background(), &models.Product{})
	require.False(t, resp.Success)
	assert.Equal(t, models.ErrKindValidation, resp.Err.Kind)
}

func TestProductList_OfflineFiltersByCategory(t *testing.T) {
	f := newFixture(t)
	f.cacheProduct(t, `{"id":"p-1","title":"Lamp","category":"home"}`)
	f.cacheProduct(t, `{"id":"p-2","title":"Bike","category":"sport"}`)

	resp := f.products(t).List(context.Background(), "home")
	require.True(t, resp.Success)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "p-1", resp.Data[0].ID)
}

func TestProductDelete_OnlineRemovesCacheRow(t *testing.T) {
	f := newFixture(t)
	f.monitor.SetOnline(true)
	ctx := context.Background()

	f.cacheProduct(t, `{"id":"p-1","title":"Lamp"}`)

	resp := f.products(t).Delete(ctx, "p-1")
	require.True(t, resp.Success)
	assert.True(t, resp.Data)
	assert.False(t, resp.PendingSync)

	_, err := f.store.GetEntity(ctx, models.CollectionProducts, "p-1")
	assert.ErrorIs(t, err, storage.ErrEntityNotFound)
}

func TestProductDelete_OfflineTombstonesUntilConfirmed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.cacheProduct(t, `{"id":"p-1","title":"Lamp"}`)

	resp := f.products(t).Delete(ctx, "p-1")
	require.True(t, resp.Success)
	assert.True(t, resp.PendingSync)

	// Reads no longer see the product, but the tombstone still exists
	// pending remote confirmation
	_, err := f.store.GetEntity(ctx, models.CollectionProducts, "p-1")
	assert.ErrorIs(t, err, storage.ErrEntityNotFound)

	ops, err := f.store.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, models.OperationDelete, ops[0].Type)

	// Replay confirms the delete and drops the tombstone
	f.monitor.SetOnline(true)
	_, err = f.orch.Sync(ctx)
	require.NoError(t, err)
	require.Len(t, f.remote.DeleteCalls(), 1)

	count, err := f.orch.PendingOperationCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestProductDelete_OfflineMissing(t *testing.T) {
	f := newFixture(t)

	resp := f.products(t).Delete(context.Background(), "missing")
	require.False(t, resp.Success)
	assert.Equal(t, models.ErrKindNotFound, resp.Err.Kind)
}

func TestProductGet_OnlineFallsBackToCacheOnNetworkError(t *testing.T) {
	f := newFixture(t)
	f.monitor.SetOnline(true)
	ctx := context.Background()

	f.cacheProduct(t, `{"id":"p-1","title":"Lamp"}`)
	f.remote.GetFunc = func(ctx context.Context, collection, id string) (*api.Entity, error) {
		return nil, &models.ServiceError{Kind: models.ErrKindNetwork, Message: "timeout"}
	}

	resp := f.products(t).Get(ctx, "p-1")
	require.True(t, resp.Success)
	assert.Equal(t, "Lamp", resp.Data.Title)
	assert.False(t, f.monitor.IsOnline())
}

func TestProductUpdate_Offline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.cacheProduct(t, `{"id":"p-1","title":"Lamp","price_cents":1500}`)

	resp := f.products(t).Update(ctx, &models.Product{ID: "p-1", Title: "Lamp v2", PriceCents: 1800})
	require.True(t, resp.Success)
	assert.True(t, resp.PendingSync)

	cached, err := f.store.GetEntity(ctx, models.CollectionProducts, "p-1")
	require.NoError(t, err)

	var got models.Product
	require.NoError(t, json.Unmarshal(cached.Data, &got))
	assert.Equal(t, "Lamp v2", got.Title)
	assert.Equal(t, int64(1800), got.PriceCents)
}
