// Recstack - Hybrid Recommendation Engine
// Copyright 2026 Recstack Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recstack/engine

package algorithms

import (
	"context"
	"sort"
	"time"

	"github.com/recstack/engine/internal/recommend"
)

// Popularity implements aggregate, rating-history-only ranking independent
// of any single user. It serves as the universal fallback when personalized
// signal is absent.
//
// The popularity score of an item is its all-time average rating; the
// trending score is its average rating within a trailing time window, so an
// item with no recent activity is excluded from trending no matter how
// popular it is historically.
type Popularity struct {
	cfg recommend.PopularityConfig
}

// NewPopularity creates a popularity ranker, applying defaults for zero
// config fields.
func NewPopularity(cfg recommend.PopularityConfig) *Popularity {
	if cfg.MinRatings == 0 {
		cfg.MinRatings = 1
	}
	if cfg.TrendingWindowDays <= 0 {
		cfg.TrendingWindowDays = 7
	}
	return &Popularity{cfg: cfg}
}

// itemAggregate accumulates the rating sum and count for one item.
type itemAggregate struct {
	sum   float64
	count int
}

// Rank orders the supplied catalog items by all-time average rating.
// Items with fewer than min_ratings ratings are discarded; an item with
// zero ratings therefore never appears. An empty catalog yields an empty
// list, not an error.
func (p *Popularity) Rank(ctx context.Context, items []recommend.CatalogItem, ratings []recommend.Rating, limit int) ([]recommend.ScoredCandidate, error) {
	return p.rank(ctx, items, ratings, time.Time{}, recommend.SourcePopular, limit)
}

// Trending orders the supplied catalog items by average rating over the
// trailing window ending at now. Ratings created before the cutoff are
// ignored entirely.
func (p *Popularity) Trending(ctx context.Context, items []recommend.CatalogItem, ratings []recommend.Rating, now time.Time, limit int) ([]recommend.ScoredCandidate, error) {
	cutoff := now.AddDate(0, 0, -p.cfg.TrendingWindowDays)
	return p.rank(ctx, items, ratings, cutoff, recommend.SourceTrending, limit)
}

// rank aggregates ratings per catalog item, optionally restricted to those
// created at or after cutoff, and sorts by average rating.
func (p *Popularity) rank(ctx context.Context, items []recommend.CatalogItem, ratings []recommend.Rating, cutoff time.Time, source recommend.Source, limit int) ([]recommend.ScoredCandidate, error) {
	if len(items) == 0 {
		return []recommend.ScoredCandidate{}, nil
	}

	inCatalog := make(map[string]struct{}, len(items))
	for _, item := range items {
		inCatalog[item.ID] = struct{}{}
	}

	aggregates := make(map[string]*itemAggregate)
	for _, r := range ratings {
		if contextCancelled(ctx) {
			return nil, ctx.Err()
		}
		if _, ok := inCatalog[r.ItemID]; !ok {
			continue
		}
		if !cutoff.IsZero() && r.CreatedAt.Before(cutoff) {
			continue
		}
		agg, ok := aggregates[r.ItemID]
		if !ok {
			agg = &itemAggregate{}
			aggregates[r.ItemID] = agg
		}
		agg.sum += float64(r.Score)
		agg.count++
	}

	minRatings := p.cfg.MinRatings
	if minRatings < 1 {
		minRatings = 1
	}

	candidates := make([]recommend.ScoredCandidate, 0, len(aggregates))
	for itemID, agg := range aggregates {
		if agg.count < minRatings {
			continue
		}
		candidates = append(candidates, recommend.ScoredCandidate{
			ItemID:      itemID,
			Score:       agg.sum / float64(agg.count),
			Source:      source,
			RatingCount: agg.count,
		})
	}

	// Ties break toward the better-attested item, then item ID.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		if candidates[i].RatingCount != candidates[j].RatingCount {
			return candidates[i].RatingCount > candidates[j].RatingCount
		}
		return candidates[i].ItemID < candidates[j].ItemID
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return candidates, nil
}
