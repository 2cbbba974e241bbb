// Recstack - Hybrid Recommendation Engine
// Copyright 2026 Recstack Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recstack/engine

// Package algorithms implements the recommendation strategies.
//
//   - Collaborative: user-similarity filtering over rating vectors
//   - ContentBased: attribute-similarity filtering over feature vectors
//   - Popularity: all-time and time-windowed aggregate ranking
//
// # Statelessness
//
// Strategies hold configuration only. Every call recomputes from the corpus
// snapshot it is handed, so a single strategy value is safe for concurrent
// use across requests without locking. Candidate emission always requires
// catalog membership: an item missing from the supplied catalog never
// appears in any output.
package algorithms

import (
	"context"
)

// contextCancelled checks the context at loop boundaries. Partial results
// are discarded on cancellation; nothing is mutated in place.
func contextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
