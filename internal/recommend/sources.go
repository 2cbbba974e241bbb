// Recstack - Hybrid Recommendation Engine
// Copyright 2026 Recstack Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recstack/engine

package recommend

import (
	"context"
	"strings"
)

// Note: the source interfaces live here, not in the store package, so the
// engine and algorithm packages can consume corpus feeds without importing
// any concrete storage implementation.

// RatingFilter narrows a rating fetch. Zero-value fields match everything.
type RatingFilter struct {
	// UserID restricts to one user's ratings.
	UserID string

	// ItemID restricts to one item's ratings.
	ItemID string
}

// Matches reports whether the rating satisfies the filter.
func (f RatingFilter) Matches(r Rating) bool {
	if f.UserID != "" && r.UserID != f.UserID {
		return false
	}
	if f.ItemID != "" && r.ItemID != f.ItemID {
		return false
	}
	return true
}

// CatalogFilter narrows a catalog fetch. Zero-value fields match everything.
type CatalogFilter struct {
	// Type restricts to one item type.
	Type ItemType

	// Genre restricts to items carrying the genre (case-insensitive).
	Genre string

	// Category restricts to products in the category (case-insensitive).
	Category string
}

// Matches reports whether the catalog item satisfies the filter.
func (f CatalogFilter) Matches(item CatalogItem) bool {
	if f.Type != "" && item.Type != f.Type {
		return false
	}
	if f.Category != "" && !strings.EqualFold(item.Category, f.Category) {
		return false
	}
	if f.Genre != "" {
		found := false
		for _, g := range item.Genres {
			if strings.EqualFold(g, f.Genre) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// RatingSource supplies rating corpus snapshots. Owned by the rating store
// collaborator; the engine only reads.
type RatingSource interface {
	// FetchRatings returns the rating records matching the filter.
	FetchRatings(ctx context.Context, f RatingFilter) ([]Rating, error)
}

// CatalogSource supplies catalog snapshots. Owned by the catalog store
// collaborator; the engine only reads.
type CatalogSource interface {
	// FetchCatalog returns the catalog items matching the filter.
	FetchCatalog(ctx context.Context, f CatalogFilter) ([]CatalogItem, error)
}
