package boltdb

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/tradepost/marketsync/internal/models"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "testdb.db")
	store, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestNew_Success(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "testdb.db")

	ctx := context.Background()
	store, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer func() {
		require.NoError(t, store.Close())
	}()

	info, err := os.Stat(dbPath)
	require.NoError(t, err)
	assert.False(t, info.IsDir())

	// All schema buckets exist after migration
	err = store.db.View(func(tx *bbolt.Tx) error {
		buckets := [][]byte{
			bucketMeta,
			bucketPendingOps,
			[]byte(models.CollectionSlots),
			[]byte(models.CollectionProducts),
		}
		for _, b := range buckets {
			if tx.Bucket(b) == nil {
				return os.ErrNotExist
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestNew_InvalidPath(t *testing.T) {
	ctx := context.Background()
	invalidPath := string([]byte{0})
	store, err := New(ctx, invalidPath)
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "testdb.db")

	ctx := context.Background()
	store, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NotNil(t, store)

	err = store.Close()
	assert.NoError(t, err)
	assert.Nil(t, store.db)

	// Second Close is a no-op
	err = store.Close()
	assert.NoError(t, err)
}

func TestMigrate_StampsSchemaVersion(t *testing.T) {
	store := newTestStorage(t)

	err := store.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucketMeta).Get(keySchemaVersion)
		require.Len(t, raw, 8)
		assert.Equal(t, uint64(schemaVersion), binary.BigEndian.Uint64(raw))
		return nil
	})
	require.NoError(t, err)
}

func TestMigrate_ReopenIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "testdb.db")
	ctx := context.Background()

	store, err := New(ctx, dbPath)
	require.NoError(t, err)

	_, err = store.StoreEntity(ctx, models.CollectionSlots, []byte(`{"id":"slot-1"}`))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening an up-to-date store must not touch existing data
	store, err = New(ctx, dbPath)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, store.Close())
	}()

	entity, err := store.GetEntity(ctx, models.CollectionSlots, "slot-1")
	require.NoError(t, err)
	assert.Equal(t, "slot-1", entity.ID)
}

func TestMigrate_RejectsNewerSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "testdb.db")
	ctx := context.Background()

	store, err := New(ctx, dbPath)
	require.NoError(t, err)

	err = store.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMeta).Put(keySchemaVersion, encodeVersion(schemaVersion+1))
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = New(ctx, dbPath)
	assert.Error(t, err)
	assert.Nil(t, store)
}
