// Package store persists fetched job results in a local bbolt database so
// repeated result views and citation lookups do not refetch from the server.
package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketResults = []byte("results")

	ErrResultNotFound = errors.New("result not found")
)

// ResultCache stores raw result payloads keyed by job id. Payloads are
// immutable once a job completes, so entries are only ever written once
// unless explicitly invalidated.
type ResultCache struct {
	db *bolt.DB
	mu sync.Mutex
}

func OpenResultCache(path string) (*ResultCache, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("result cache path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := initResultSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &ResultCache{db: db}, nil
}

func initResultSchema(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketResults)
		return err
	})
}

// Get returns the cached payload for a job, copying it out of the
// transaction so callers may hold it freely.
func (c *ResultCache) Get(ctx context.Context, jobID string) ([]byte, bool, error) {
	var out []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketResults)
		if b == nil {
			return nil
		}
		raw := b.Get([]byte(jobID))
		if len(raw) == 0 {
			return nil
		}
		out = append([]byte(nil), raw...)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, out != nil, nil
}

func (c *ResultCache) Put(ctx context.Context, jobID string, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.TrimSpace(jobID) == "" {
		return errors.New("job id is required")
	}
	if len(payload) == 0 {
		return errors.New("payload is required")
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketResults)
		if b == nil {
			return errors.New("results bucket missing")
		}
		return b.Put([]byte(jobID), payload)
	})
}

func (c *ResultCache) Delete(ctx context.Context, jobID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketResults)
		if b == nil {
			return errors.New("results bucket missing")
		}
		key := []byte(jobID)
		if b.Get(key) == nil {
			return ErrResultNotFound
		}
		return b.Delete(key)
	})
}

func (c *ResultCache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}
