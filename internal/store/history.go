// Package store persists run history and generated artifacts.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"legacy-modernizer/internal/model"
)

var ErrNotFound = errors.New("not found")

var bucketRuns = []byte("runs")

// History keeps every batch run keyed by its ULID, so key order is time order.
type History struct {
	db *bolt.DB
}

func OpenHistory(path string) (*History, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRuns)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &History{db: db}, nil
}

func (h *History) Close() error {
	return h.db.Close()
}

func (h *History) Save(p *model.Portfolio) error {
	if p.RunID == "" {
		return fmt.Errorf("portfolio has no run id")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode run %s: %w", p.RunID, err)
	}
	return h.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRuns).Put([]byte(p.RunID), data)
	})
}

func (h *History) Get(runID string) (*model.Portfolio, error) {
	var p model.Portfolio
	err := h.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketRuns).Get([]byte(runID))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns up to limit runs, newest first. A limit <= 0 returns all.
func (h *History) List(limit int) ([]*model.Portfolio, error) {
	var runs []*model.Portfolio
	err := h.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketRuns).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(runs) >= limit {
				break
			}
			var p model.Portfolio
			if err := json.Unmarshal(v, &p); err != nil {
				return fmt.Errorf("decode run %s: %w", k, err)
			}
			runs = append(runs, &p)
		}
		return nil
	})
	return runs, err
}
