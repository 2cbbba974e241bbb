// Recstack - Hybrid Recommendation Engine
// Copyright 2026 Recstack Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recstack/engine

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/recstack/engine/internal/recommend"
)

// Key prefixes for BadgerDB storage
const (
	ratingKeyPrefix = "rating:"
	itemKeyPrefix   = "item:"
)

// Badger is a persistent rating and catalog store backed by BadgerDB.
// Ratings are keyed "rating:<user_id>:<item_id>" and catalog items
// "item:<item_id>"; values are JSON documents.
type Badger struct {
	db *badger.DB
}

var (
	_ recommend.RatingSource  = (*Badger)(nil)
	_ recommend.CatalogSource = (*Badger)(nil)
)

// OpenBadger opens (creating if necessary) a Badger store at path.
func OpenBadger(path string) (*Badger, error) {
	opts := badger.DefaultOptions(path)
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store at %s: %w", path, err)
	}
	return &Badger{db: db}, nil
}

// OpenBadgerInMemory opens a Badger store that keeps all data in memory.
// Intended for tests and ephemeral deployments.
func OpenBadgerInMemory() (*Badger, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory badger store: %w", err)
	}
	return &Badger{db: db}, nil
}

// Close flushes and closes the underlying database.
func (b *Badger) Close() error {
	return b.db.Close()
}

// ratingKeyFor builds the storage key for one (user, item) rating.
func ratingKeyFor(userID, itemID string) []byte {
	return []byte(ratingKeyPrefix + userID + ":" + itemID)
}

// PutRating inserts or updates a rating. On update the original created_at
// is preserved and updated_at is refreshed.
func (b *Badger) PutRating(_ context.Context, r recommend.Rating) error {
	if r.UserID == "" || r.ItemID == "" {
		return fmt.Errorf("store: rating requires user_id and item_id")
	}
	if r.Score < 1 || r.Score > recommend.MaxScore {
		return fmt.Errorf("store: rating score %d outside [1, %d]", r.Score, recommend.MaxScore)
	}

	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = now
	}

	key := ratingKeyFor(r.UserID, r.ItemID)

	return b.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		switch {
		case err == nil:
			// Upsert: keep the original creation time.
			var existing recommend.Rating
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &existing)
			}); err != nil {
				return fmt.Errorf("read existing rating: %w", err)
			}
			r.CreatedAt = existing.CreatedAt
			r.UpdatedAt = now
		case err != badger.ErrKeyNotFound:
			return fmt.Errorf("get rating: %w", err)
		}

		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal rating: %w", err)
		}
		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set rating: %w", err)
		}
		return nil
	})
}

// PutItem inserts or replaces a catalog item.
func (b *Badger) PutItem(_ context.Context, item recommend.CatalogItem) error {
	if item.ID == "" {
		return fmt.Errorf("store: catalog item requires an id")
	}
	if !item.Type.Valid() {
		return fmt.Errorf("store: unknown item type %q", item.Type)
	}

	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal catalog item: %w", err)
	}

	return b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(itemKeyPrefix+item.ID), data); err != nil {
			return fmt.Errorf("set catalog item: %w", err)
		}
		return nil
	})
}

// DeleteItem removes a catalog item. Deleting an unknown item is a no-op.
func (b *Badger) DeleteItem(_ context.Context, itemID string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(itemKeyPrefix + itemID)); err != nil && err != badger.ErrKeyNotFound {
			return fmt.Errorf("delete catalog item: %w", err)
		}
		return nil
	})
}

// FetchRatings returns the ratings matching the filter. Filtering by user
// narrows the key scan; other filters apply during iteration.
func (b *Badger) FetchRatings(_ context.Context, f recommend.RatingFilter) ([]recommend.Rating, error) {
	prefix := []byte(ratingKeyPrefix)
	if f.UserID != "" {
		prefix = []byte(ratingKeyPrefix + f.UserID + ":")
	}

	var out []recommend.Rating
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var r recommend.Rating
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			}); err != nil {
				return fmt.Errorf("read rating: %w", err)
			}
			if f.Matches(r) {
				out = append(out, r)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if out == nil {
		out = []recommend.Rating{}
	}
	return out, nil
}

// FetchCatalog returns the catalog items matching the filter, in key order.
func (b *Badger) FetchCatalog(_ context.Context, f recommend.CatalogFilter) ([]recommend.CatalogItem, error) {
	prefix := []byte(itemKeyPrefix)

	var out []recommend.CatalogItem
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var item recommend.CatalogItem
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &item)
			}); err != nil {
				return fmt.Errorf("read catalog item: %w", err)
			}
			if f.Matches(item) {
				out = append(out, item)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if out == nil {
		out = []recommend.CatalogItem{}
	}
	return out, nil
}
