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

// Collaborative implements user-based collaborative filtering.
// It projects the preferences of users with correlated rating behavior onto
// the target user.
//
// For a target user u and candidate item i:
//
//	score(u, i) = sum_{v in N(u)} sim(u, v) * r(v, i) / sum_{v in N(u)} sim(u, v)
//
// where N(u) is the set of neighbors above the similarity threshold who
// rated item i. The similarity-weighted average neighbor rating is then
// normalized to [0, 1] by the maximum rating.
type Collaborative struct {
	cfg recommend.CollaborativeConfig
}

// NewCollaborative creates a collaborative filter, applying defaults for
// zero config fields.
func NewCollaborative(cfg recommend.CollaborativeConfig) *Collaborative {
	if cfg.MinSimilarity == 0 {
		cfg.MinSimilarity = 0.3
	}
	if cfg.MaxNeighbors < 0 {
		cfg.MaxNeighbors = 0
	}
	return &Collaborative{cfg: cfg}
}

// neighbor is a similar user and their similarity to the target.
type neighbor struct {
	userID     string
	similarity float64
}

// Recommend scores catalog items for userID from the rating snapshot.
// Items the target has already rated are never emitted, nor are items
// absent from the catalog. Returns ErrNoSignal when the target has no
// ratings; returns an empty list when no neighbor clears the threshold.
func (c *Collaborative) Recommend(ctx context.Context, userID string, ratings []recommend.Rating, catalog map[string]recommend.CatalogItem, limit int) ([]recommend.ScoredCandidate, error) {
	vectors := UserVectors(ratings)

	target := vectors[userID]
	if len(target) == 0 {
		return nil, fmt.Errorf("collaborative: user %q has no ratings: %w", userID, recommend.ErrNoSignal)
	}

	neighbors, err := c.findNeighbors(ctx, userID, target, vectors)
	if err != nil {
		return nil, err
	}
	if len(neighbors) == 0 {
		return []recommend.ScoredCandidate{}, nil
	}

	// Project neighbor preferences onto items the target has not rated.
	scores := make(map[string]float64)
	weightSums := make(map[string]float64)

	for _, n := range neighbors {
		if contextCancelled(ctx) {
			return nil, ctx.Err()
		}
		for itemID, rating := range vectors[n.userID] {
			if _, rated := target[itemID]; rated {
				continue
			}
			if _, inCatalog := catalog[itemID]; !inCatalog {
				continue
			}
			scores[itemID] += n.similarity * rating
			weightSums[itemID] += n.similarity
		}
	}

	candidates := make([]recommend.ScoredCandidate, 0, len(scores))
	for itemID, score := range scores {
		weightSum := weightSums[itemID]
		if weightSum <= 0 {
			continue
		}
		candidates = append(candidates, recommend.ScoredCandidate{
			ItemID:  itemID,
			Score:   score / weightSum / recommend.MaxScore,
			Source:  recommend.SourceCollaborative,
			Support: weightSum,
		})
	}

	// Ties break toward more corroborating neighbors, then item ID for
	// determinism.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		if candidates[i].Support != candidates[j].Support {
			return candidates[i].Support > candidates[j].Support
		}
		return candidates[i].ItemID < candidates[j].ItemID
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return candidates, nil
}

// findNeighbors returns all users whose similarity to the target clears the
// threshold, capped at MaxNeighbors most similar when configured.
func (c *Collaborative) findNeighbors(ctx context.Context, userID string, target similarity.Vector, vectors map[string]similarity.Vector) ([]neighbor, error) {
	neighbors := make([]neighbor, 0)

	for otherID, other := range vectors {
		if otherID == userID {
			continue
		}
		if contextCancelled(ctx) {
			return nil, ctx.Err()
		}

		if c.cfg.MinCommonItems > 0 && commonKeys(target, other) < c.cfg.MinCommonItems {
			continue
		}

		sim := similarity.Cosine(target, other)
		if sim < c.cfg.MinSimilarity {
			continue
		}
		neighbors = append(neighbors, neighbor{userID: otherID, similarity: sim})
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].similarity != neighbors[j].similarity {
			return neighbors[i].similarity > neighbors[j].similarity
		}
		return neighbors[i].userID < neighbors[j].userID
	})

	if c.cfg.MaxNeighbors > 0 && len(neighbors) > c.cfg.MaxNeighbors {
		neighbors = neighbors[:c.cfg.MaxNeighbors]
	}

	return neighbors, nil
}

// commonKeys counts keys present in both vectors.
func commonKeys(a, b similarity.Vector) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}
