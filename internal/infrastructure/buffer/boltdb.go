package buffer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var indexBucket = []byte("buffer_index")

// Store persists buffered writes in BoltDB. Items are ordered by priority then age;
// a second bucket maps item ids to their ordering key.
type Store struct {
	db     *bolt.DB
	bucket []byte
	now    func() time.Time
}

// Open initializes the BoltDB file and ensures both buckets exist.
func Open(path string, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = "buffer"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(indexBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		bucket: []byte(bucket),
		now:    time.Now,
	}, nil
}

// Enqueue stores an item. An item with the same id replaces the earlier one.
func (s *Store) Enqueue(item Item) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	item.normalize(s.now())
	key := []byte(buildKey(item))

	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		items, index := tx.Bucket(s.bucket), tx.Bucket(indexBucket)
		if previous := index.Get([]byte(item.ID)); previous != nil {
			if err := items.Delete(previous); err != nil {
				return err
			}
		}
		if err := items.Put(key, payload); err != nil {
			return err
		}
		return index.Put([]byte(item.ID), key)
	})
}

// GetBatch returns up to limit items in replay order without removing them.
func (s *Store) GetBatch(limit int) ([]Item, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	if limit <= 0 {
		limit = 50
	}

	var items []Item
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.First(); k != nil && len(items) < limit; k, v = c.Next() {
			var item Item
			if err := json.Unmarshal(v, &item); err != nil {
				continue
			}
			item.bucketKey = append([]byte(nil), k...)
			items = append(items, item)
		}
		return nil
	})
	return items, err
}

// Remove deletes the item with the given id.
func (s *Store) Remove(id string) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return remove(tx, s.bucket, []byte(id))
	})
}

// Requeue moves an item to the back of its priority lane.
func (s *Store) Requeue(item Item) error {
	item.bucketKey = nil
	item.Timestamp = s.now()
	return s.Enqueue(item)
}

// Size returns the number of buffered items.
func (s *Store) Size() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(s.bucket).Stats().KeyN
		return nil
	})
	return count, err
}

// Cleanup removes items queued before olderThan and reports how many were dropped.
func (s *Store) Cleanup(olderThan time.Time) (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var removed int
	err := s.db.Update(func(tx *bolt.Tx) error {
		var stale [][]byte
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var item Item
			if err := json.Unmarshal(v, &item); err != nil {
				continue
			}
			if item.Timestamp.Before(olderThan) {
				stale = append(stale, []byte(item.ID))
			}
		}
		for _, id := range stale {
			if err := remove(tx, s.bucket, id); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	return removed, err
}

// Ping reports whether the buffer file is open.
func (s *Store) Ping() error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(s.bucket) == nil {
			return errors.New("buffer bucket missing")
		}
		return nil
	})
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Stats exposes Bolt statistics for the health endpoint.
func (s *Store) Stats() bolt.Stats {
	if s == nil || s.db == nil {
		return bolt.Stats{}
	}
	return s.db.Stats()
}

func remove(tx *bolt.Tx, bucket, id []byte) error {
	index := tx.Bucket(indexBucket)
	key := index.Get(id)
	if key == nil {
		return nil
	}
	if err := tx.Bucket(bucket).Delete(key); err != nil {
		return err
	}
	return index.Delete(id)
}

func buildKey(item Item) string {
	return fmt.Sprintf("%d_%020d_%s", item.Priority, item.Timestamp.UnixNano(), item.ID)
}
