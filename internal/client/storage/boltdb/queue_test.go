package boltdb

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradepost/marketsync/internal/client/storage"
	"github.com/tradepost/marketsync/internal/models"
)

func TestEnqueue_AssignsIdentity(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	op, err := store.Enqueue(ctx, models.OperationUpdate, models.CollectionSlots, "slot-7",
		json.RawMessage(`{"id":"slot-7","status":"reserved"}`))
	require.NoError(t, err)

	assert.NotEmpty(t, op.ID)
	assert.False(t, op.CreatedAt.IsZero())
	assert.NotZero(t, op.Seq)
	assert.Equal(t, models.OperationUpdate, op.Type)
	assert.Equal(t, models.CollectionSlots, op.EntityType)
	assert.Equal(t, "slot-7", op.EntityID)
}

func TestListPending_FIFOOrder(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	// Enqueued within the same clock tick, ordering falls back to Seq
	var ids []string
	for _, entityID := range []string{"a", "b", "c", "d"} {
		op, err := store.Enqueue(ctx, models.OperationCreate, models.CollectionProducts, entityID, nil)
		require.NoError(t, err)
		ids = append(ids, op.ID)
	}

	ops, err := store.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 4)

	for i, op := range ops {
		assert.Equal(t, ids[i], op.ID)
	}
}

func TestQueue_SurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "testdb.db")
	ctx := context.Background()

	store, err := New(ctx, dbPath)
	require.NoError(t, err)

	op, err := store.Enqueue(ctx, models.OperationDelete, models.CollectionProducts, "p-1", nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = New(ctx, dbPath)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, store.Close())
	}()

	ops, err := store.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, op.ID, ops[0].ID)
	assert.Equal(t, models.OperationDelete, ops[0].Type)
}

func TestRemove(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	op, err := store.Enqueue(ctx, models.OperationCreate, models.CollectionProducts, "p-1", nil)
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, op.ID))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	err = store.Remove(ctx, op.ID)
	assert.ErrorIs(t, err, storage.ErrOperationNotFound)
}

func TestUpdate_BumpsRetryCount(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	op, err := store.Enqueue(ctx, models.OperationUpdate, models.CollectionSlots, "slot-7", nil)
	require.NoError(t, err)

	op.RetryCount = 3
	require.NoError(t, store.Update(ctx, op))

	ops, err := store.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, 3, ops[0].RetryCount)
}

func TestUpdate_Missing(t *testing.T) {
	store := newTestStorage(t)

	err := store.Update(context.Background(), &models.PendingOperation{ID: "missing"})
	assert.ErrorIs(t, err, storage.ErrOperationNotFound)
}

func TestCount(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	for range 3 {
		_, err := store.Enqueue(ctx, models.OperationCreate, models.CollectionProducts, "p", nil)
		require.NoError(t, err)
	}

	count, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestSaveOfflineWrite_Update(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	payload := json.RawMessage(`{"id":"slot-7","status":"reserved"}`)
	op, err := store.SaveOfflineWrite(ctx, storage.OfflineWrite{
		Type:       models.OperationUpdate,
		Collection: models.CollectionSlots,
		EntityID:   "slot-7",
		Payload:    payload,
	})
	require.NoError(t, err)
	assert.Equal(t, models.OperationUpdate, op.Type)

	// Cache write and queue append committed together
	entity, err := store.GetEntity(ctx, models.CollectionSlots, "slot-7")
	require.NoError(t, err)
	assert.JSONEq(t, string(payload), string(entity.Data))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSaveOfflineWrite_Delete(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.StoreEntity(ctx, models.CollectionProducts,
		json.RawMessage(`{"id":"p-1","title":"Lamp"}`))
	require.NoError(t, err)

	_, err = store.SaveOfflineWrite(ctx, storage.OfflineWrite{
		Type:       models.OperationDelete,
		Collection: models.CollectionProducts,
		EntityID:   "p-1",
	})
	require.NoError(t, err)

	_, err = store.GetEntity(ctx, models.CollectionProducts, "p-1")
	assert.ErrorIs(t, err, storage.ErrEntityNotFound)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSaveOfflineWrite_DeleteMissingIsAtomic(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	// Tombstoning an absent entity fails, so no queue record may appear
	_, err := store.SaveOfflineWrite(ctx, storage.OfflineWrite{
		Type:       models.OperationDelete,
		Collection: models.CollectionProducts,
		EntityID:   "missing",
	})
	assert.ErrorIs(t, err, storage.ErrEntityNotFound)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSaveOfflineWrite_UnsupportedType(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.SaveOfflineWrite(context.Background(), storage.OfflineWrite{
		Type:       models.OperationBatch,
		Collection: models.CollectionSlots,
		EntityID:   "slot-7",
	})
	assert.Error(t, err)
}
