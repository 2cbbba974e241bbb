// Recstack - Hybrid Recommendation Engine
// Copyright 2026 Recstack Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recstack/engine

package algorithms

import (
	"strings"

	"github.com/recstack/engine/internal/recommend"
	"github.com/recstack/engine/internal/recommend/similarity"
)

// Features builds the sparse feature vector for a catalog item from its
// genres and tags, one token per entry at equal weight. Tokens are prefixed
// by field so a genre and a tag with the same label stay distinct features.
//
// Type-specific attributes (director, brand, author, ...) are deliberately
// excluded: similarity operates on the type-agnostic subset, so no per-type
// branching is needed anywhere in the content filter.
func Features(item recommend.CatalogItem) similarity.Vector {
	v := make(similarity.Vector, len(item.Genres)+len(item.Tags))
	for _, g := range item.Genres {
		v["genre:"+strings.ToLower(g)] = 1.0
	}
	for _, t := range item.Tags {
		v["tag:"+strings.ToLower(t)] = 1.0
	}
	return v
}

// UserVector builds the sparse rating vector (item_id -> score) for one
// user from a rating snapshot. Ratings of other users are skipped.
func UserVector(userID string, ratings []recommend.Rating) similarity.Vector {
	v := make(similarity.Vector)
	for _, r := range ratings {
		if r.UserID == userID {
			v[r.ItemID] = float64(r.Score)
		}
	}
	return v
}

// UserVectors builds rating vectors for every user in a rating snapshot.
func UserVectors(ratings []recommend.Rating) map[string]similarity.Vector {
	vectors := make(map[string]similarity.Vector)
	for _, r := range ratings {
		v, ok := vectors[r.UserID]
		if !ok {
			v = make(similarity.Vector)
			vectors[r.UserID] = v
		}
		v[r.ItemID] = float64(r.Score)
	}
	return vectors
}
