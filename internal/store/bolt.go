package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketCache = []byte("cache")

// BoltKV implements KV on top of BoltDB with a single bucket.
type BoltKV struct {
	db *bolt.DB
}

// OpenBoltKV opens (or creates) the cache database under dir.
func OpenBoltKV(dir string) (*BoltKV, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "aria.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketCache)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltKV{db: db}, nil
}

func (s *BoltKV) Close() error {
	return s.db.Close()
}

func (s *BoltKV) Get(key string) ([]byte, bool) {
	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCache)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	return data, data != nil
}

func (s *BoltKV) Set(key string, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCache)
		return b.Put([]byte(key), value)
	})
}

func (s *BoltKV) Delete(key string) {
	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCache)
		if b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

func (s *BoltKV) Keys() []string {
	var keys []string
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCache)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			keys = append(keys, string(k))
		}
		return nil
	})
	return keys
}
