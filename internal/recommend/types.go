// Recstack - Hybrid Recommendation Engine
// Copyright 2026 Recstack Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recstack/engine

package recommend

import (
	"time"
)

// ItemType classifies catalog items.
type ItemType string

const (
	// ItemTypeMovie is a film catalog entry.
	ItemTypeMovie ItemType = "movie"
	// ItemTypeProduct is a retail product catalog entry.
	ItemTypeProduct ItemType = "product"
	// ItemTypeBook is a book catalog entry.
	ItemTypeBook ItemType = "book"
)

// Valid reports whether the item type is one of the known variants.
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeMovie, ItemTypeProduct, ItemTypeBook:
		return true
	default:
		return false
	}
}

// MaxScore is the upper bound of the rating scale, used to normalize
// personalized scores into [0, 1].
const MaxScore = 5

// Rating is a single user-item rating record. Exactly one record exists per
// (user_id, item_id) pair; stores upsert on conflict. The engine only ever
// reads snapshots of these records and never mutates them.
type Rating struct {
	// UserID identifies the rating user.
	UserID string `json:"user_id"`

	// ItemID identifies the rated catalog item.
	ItemID string `json:"item_id"`

	// Score is the integer rating in [1, 5].
	Score int `json:"score"`

	// CreatedAt is when the rating was first recorded.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the rating was last changed.
	UpdatedAt time.Time `json:"updated_at"`
}

// CatalogItem is an item as seen by the engine: immutable metadata supplied
// by the catalog collaborator. Type-specific attributes (director, brand,
// author, ...) live in Attributes and are deliberately excluded from content
// similarity, which operates only on the type-agnostic genres/tags subset.
type CatalogItem struct {
	// ID is the unique catalog identifier.
	ID string `json:"id"`

	// Type is the item variant (movie, product, book).
	Type ItemType `json:"item_type"`

	// Title is the display title or product name.
	Title string `json:"title"`

	// Genres is the set of genre labels.
	Genres []string `json:"genres"`

	// Tags is the set of free-form tags.
	Tags []string `json:"tags"`

	// Category is the product category (products only).
	Category string `json:"category,omitempty"`

	// Attributes holds type-specific metadata: director/cast/release_date
	// for movies, brand/price/specs for products, author/isbn/pages for
	// books.
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Source identifies which strategy produced a candidate score.
type Source string

const (
	// SourceCollaborative marks scores from user-similarity filtering.
	SourceCollaborative Source = "collaborative"
	// SourceContent marks scores from attribute-similarity filtering.
	SourceContent Source = "content"
	// SourcePopular marks scores from all-time popularity ranking.
	SourcePopular Source = "popular"
	// SourceTrending marks scores from windowed popularity ranking.
	SourceTrending Source = "trending"
	// SourceHybrid marks fused collaborative+content scores.
	SourceHybrid Source = "hybrid"
)

// ScoredCandidate is a ranked recommendation produced by a strategy.
type ScoredCandidate struct {
	// ItemID identifies the recommended catalog item.
	ItemID string `json:"item_id"`

	// Score is the strategy's raw score. Personalized strategies emit
	// scores in [0, 1]; popularity/trending emit average ratings on the
	// 1-5 scale. Scores are always finite.
	Score float64 `json:"score"`

	// Source is the strategy that produced the score.
	Source Source `json:"source"`

	// RatingCount is the number of ratings backing the score
	// (popularity/trending only).
	RatingCount int `json:"rating_count,omitempty"`

	// Support is the accumulated neighbor similarity mass backing the
	// score (collaborative only). Used as a tie-breaker.
	Support float64 `json:"support,omitempty"`

	// Scores is the per-source breakdown for hybrid candidates.
	Scores map[Source]float64 `json:"scores,omitempty"`
}

// Method selects the personalized recommendation strategy.
type Method string

const (
	// MethodHybrid fuses collaborative and content scores.
	MethodHybrid Method = "hybrid"
	// MethodCollaborative uses user-similarity filtering only.
	MethodCollaborative Method = "collaborative"
	// MethodContent uses attribute-similarity filtering only.
	MethodContent Method = "content"
)
