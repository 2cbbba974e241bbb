// Recstack - Hybrid Recommendation Engine
// Copyright 2026 Recstack Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recstack/engine

package algorithms

import (
	"context"
	"fmt"
	"sort"

	"github.com/recstack/engine/internal/recommend"
	"github.com/recstack/engine/internal/recommend/similarity"
)

// ContentBased implements content-based filtering over item metadata.
// Items the user rated highly become seeds; every unrated catalog item is
// scored by its best feature similarity to any seed. Best-match semantics
// (maximum over seeds, not average) let a single strong topical match
// surface an item even when it is dissimilar to the other seeds.
type ContentBased struct {
	cfg recommend.ContentConfig
}

// NewContentBased creates a content filter, applying defaults for zero
// config fields.
func NewContentBased(cfg recommend.ContentConfig) *ContentBased {
	if cfg.MinSimilarity == 0 {
		cfg.MinSimilarity = 0.3
	}
	if cfg.LikeThreshold == 0 {
		cfg.LikeThreshold = 4
	}
	return &ContentBased{cfg: cfg}
}

// Recommend scores unrated catalog items for userID against the user's seed
// items. Returns ErrNoSignal when the user has no liked items to seed from;
// returns an empty list when no candidate clears the threshold.
func (c *ContentBased) Recommend(ctx context.Context, userID string, ratings []recommend.Rating, catalog []recommend.CatalogItem, limit int) ([]recommend.ScoredCandidate, error) {
	rated := make(map[string]int)
	for _, r := range ratings {
		if r.UserID == userID {
			rated[r.ItemID] = r.Score
		}
	}

	// Seed vectors come from liked items that are still in the catalog.
	seeds := make([]similarity.Vector, 0)
	for _, item := range catalog {
		if score, ok := rated[item.ID]; ok && score >= c.cfg.LikeThreshold {
			seeds = append(seeds, Features(item))
		}
	}
	if len(seeds) == 0 {
		return nil, fmt.Errorf("content: user %q has no liked items: %w", userID, recommend.ErrNoSignal)
	}

	candidates := make([]recommend.ScoredCandidate, 0)
	for _, item := range catalog {
		if contextCancelled(ctx) {
			return nil, ctx.Err()
		}
		if _, ok := rated[item.ID]; ok {
			continue
		}

		best := bestSeedSimilarity(Features(item), seeds)
		if best < c.cfg.MinSimilarity {
			continue
		}
		candidates = append(candidates, recommend.ScoredCandidate{
			ItemID: item.ID,
			Score:  best,
			Source: recommend.SourceContent,
		})
	}

	sortByScoreThenID(candidates)

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return candidates, nil
}

// SimilarItems ranks catalog items of the same type by feature similarity
// to the anchor item. An unknown anchor yields an empty list.
func (c *ContentBased) SimilarItems(ctx context.Context, itemID string, catalog []recommend.CatalogItem, limit int) ([]recommend.ScoredCandidate, error) {
	var anchor *recommend.CatalogItem
	for i := range catalog {
		if catalog[i].ID == itemID {
			anchor = &catalog[i]
			break
		}
	}
	if anchor == nil {
		return []recommend.ScoredCandidate{}, nil
	}

	anchorFeatures := Features(*anchor)

	candidates := make([]recommend.ScoredCandidate, 0)
	for _, item := range catalog {
		if contextCancelled(ctx) {
			return nil, ctx.Err()
		}
		if item.ID == itemID || item.Type != anchor.Type {
			continue
		}

		sim := similarity.Cosine(anchorFeatures, Features(item))
		if sim < c.cfg.MinSimilarity {
			continue
		}
		candidates = append(candidates, recommend.ScoredCandidate{
			ItemID: item.ID,
			Score:  sim,
			Source: recommend.SourceContent,
		})
	}

	sortByScoreThenID(candidates)

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return candidates, nil
}

// bestSeedSimilarity returns the maximum similarity of the candidate vector
// across all seed vectors.
func bestSeedSimilarity(candidate similarity.Vector, seeds []similarity.Vector) float64 {
	var best float64
	for _, seed := range seeds {
		if sim := similarity.Cosine(candidate, seed); sim > best {
			best = sim
		}
	}
	return best
}

// sortByScoreThenID orders candidates by score descending, item ID
// ascending for determinism.
func sortByScoreThenID(candidates []recommend.ScoredCandidate) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].ItemID < candidates[j].ItemID
	})
}
