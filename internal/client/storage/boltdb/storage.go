package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/tradepost/marketsync/internal/client/storage"
	"github.com/tradepost/marketsync/internal/models"
)

var (
	// BoltDB bucket names
	bucketMeta       = []byte("meta")
	bucketPendingOps = []byte("pendingOperations")

	keySchemaVersion = []byte("schema_version")
)

// schemaVersion is the current local store schema. Structural changes
// (new collection buckets) are applied as explicit upgrade steps gated on
// the stored version, never silently.
const schemaVersion = 2

// schemaUpgrades[i] upgrades the store from version i to version i+1.
var schemaUpgrades = []func(tx *bbolt.Tx) error{
	// v0 -> v1: reserved buckets
	func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketMeta, bucketPendingOps} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	},
	// v1 -> v2: tracked entity collections
	func(tx *bbolt.Tx) error {
		for _, name := range []string{models.CollectionSlots, models.CollectionProducts} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	},
}

// Storage represents BoltDB storage implementation for the client.
// It backs both the entity cache and the mutation queue, partitioned by
// bucket, so an offline mutation can touch both in one transaction.
type Storage struct {
	db *bbolt.DB
}

// New creates a new BoltDB storage instance and runs any pending schema
// upgrades. dbPath is the path to the BoltDB database file.
func New(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// migrate applies schema upgrades from the stored version up to
// schemaVersion in a single transaction.
func (s *Storage) migrate() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		current := readSchemaVersion(tx)
		if current > schemaVersion {
			return fmt.Errorf("store schema version %d is newer than supported %d", current, schemaVersion)
		}

		for v := current; v < schemaVersion; v++ {
			if err := schemaUpgrades[v](tx); err != nil {
				return fmt.Errorf("schema upgrade %d -> %d failed: %w", v, v+1, err)
			}
		}

		meta := tx.Bucket(bucketMeta)
		if meta == nil {
			return fmt.Errorf("meta bucket not found after migration")
		}
		return meta.Put(keySchemaVersion, encodeVersion(schemaVersion))
	})
}

// readSchemaVersion returns 0 for a brand-new store.
func readSchemaVersion(tx *bbolt.Tx) uint64 {
	meta := tx.Bucket(bucketMeta)
	if meta == nil {
		return 0
	}
	raw := meta.Get(keySchemaVersion)
	if len(raw) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(raw)
}

func encodeVersion(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

// collectionBucket resolves the bucket for a tracked collection within tx.
func collectionBucket(tx *bbolt.Tx, collection string) (*bbolt.Bucket, error) {
	bucket := tx.Bucket([]byte(collection))
	if bucket == nil {
		return nil, fmt.Errorf("collection %q: %w", collection, storage.ErrUnknownCollection)
	}
	return bucket, nil
}
