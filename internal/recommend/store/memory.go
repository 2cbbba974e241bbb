// Recstack - Hybrid Recommendation Engine
// Copyright 2026 Recstack Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recstack/engine

package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/recstack/engine/internal/recommend"
)

// Memory is an in-process rating and catalog store. All methods are safe for
// concurrent use; fetches return copies, so callers can never observe later
// mutations through a returned slice.
type Memory struct {
	mu      sync.RWMutex
	ratings map[ratingKey]recommend.Rating
	items   map[string]recommend.CatalogItem
}

var (
	_ recommend.RatingSource  = (*Memory)(nil)
	_ recommend.CatalogSource = (*Memory)(nil)
)

// ratingKey identifies the unique rating per (user, item) pair.
type ratingKey struct {
	userID string
	itemID string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		ratings: make(map[ratingKey]recommend.Rating),
		items:   make(map[string]recommend.CatalogItem),
	}
}

// PutRating inserts or updates a rating. On update the original created_at
// is preserved and updated_at is refreshed; on insert both are set to now
// when unset.
func (m *Memory) PutRating(_ context.Context, r recommend.Rating) error {
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

	key := ratingKey{userID: r.UserID, itemID: r.ItemID}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.ratings[key]; ok {
		r.CreatedAt = existing.CreatedAt
		r.UpdatedAt = now
	}
	m.ratings[key] = r

	return nil
}

// PutItem inserts or replaces a catalog item.
func (m *Memory) PutItem(_ context.Context, item recommend.CatalogItem) error {
	if item.ID == "" {
		return fmt.Errorf("store: catalog item requires an id")
	}
	if !item.Type.Valid() {
		return fmt.Errorf("store: unknown item type %q", item.Type)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item

	return nil
}

// DeleteItem removes a catalog item. Deleting an unknown item is a no-op;
// ratings referencing the item remain and are ignored by the engine.
func (m *Memory) DeleteItem(_ context.Context, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, itemID)
	return nil
}

// FetchRatings returns the ratings matching the filter, ordered by user then
// item for determinism.
func (m *Memory) FetchRatings(_ context.Context, f recommend.RatingFilter) ([]recommend.Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]recommend.Rating, 0, len(m.ratings))
	for _, r := range m.ratings {
		if f.Matches(r) {
			out = append(out, r)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].ItemID < out[j].ItemID
	})

	return out, nil
}

// FetchCatalog returns the catalog items matching the filter, ordered by ID.
func (m *Memory) FetchCatalog(_ context.Context, f recommend.CatalogFilter) ([]recommend.CatalogItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]recommend.CatalogItem, 0, len(m.items))
	for _, item := range m.items {
		if f.Matches(item) {
			out = append(out, item)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}
