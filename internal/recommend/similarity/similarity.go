// Recstack - Hybrid Recommendation Engine
// Copyright 2026 Recstack Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recstack/engine

// Package similarity provides the sparse vector-similarity kernel shared by
// the collaborative and content filtering strategies. The only difference
// between the two callers is what gets fed in: user rating vectors
// (item_id -> score) or item feature vectors (token -> weight).
//
// All functions are total: empty or disjoint vectors yield 0, never an error
// and never NaN. Complexity of a single comparison is O(min(|A|, |B|)) via a
// hash join over the smaller vector's keys; bounding the number of pairs
// compared is the caller's responsibility.
package similarity

import (
	"math"
)

// Vector is a sparse numeric vector keyed by item ID or feature token.
type Vector map[string]float64

// Cosine computes the cosine similarity of two sparse vectors:
//
//	sim(A, B) = sum_{k in A∩B} A[k]*B[k] / (|A| * |B|)
//
// For non-negative weights the result is in [0, 1]; for signed weights it is
// in [-1, 1]. Empty vectors and empty intersections yield 0.
func Cosine(a, b Vector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	// Hash-join over the smaller vector.
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot float64
	matched := false
	for k, av := range a {
		if bv, ok := b[k]; ok {
			dot += av * bv
			matched = true
		}
	}
	if !matched {
		return 0
	}

	na := Norm(a)
	nb := Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}

	return dot / (na * nb)
}

// Norm returns the Euclidean norm of a sparse vector.
func Norm(v Vector) float64 {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}
