// Recstack - Hybrid Recommendation Engine
// Copyright 2026 Recstack Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recstack/engine

// Package recommend defines the domain model, configuration, error taxonomy,
// and corpus source interfaces for the hybrid recommendation engine.
//
// The engine turns a sparse rating corpus and an item catalog into ranked
// suggestions through four strategies: user-similarity collaborative
// filtering, attribute-similarity content filtering, weighted hybrid fusion
// of the two, and time-windowed popularity/trending ranking.
//
// # Package Layout
//
//   - recommend: types, config, errors, source interfaces (this package)
//   - recommend/similarity: the shared sparse cosine kernel
//   - recommend/algorithms: the filtering and ranking strategies
//   - recommend/engine: the facade composing strategies over corpus feeds
//   - recommend/store: in-memory and Badger-backed corpus sources
//
// # Concurrency
//
// All computation is pure and re-derived per request from corpus snapshots.
// There is no engine-owned mutable state, no cross-request caching, and no
// internal locking; requests parallelize freely. Every loop is bounded by
// corpus size and honors context cancellation at iteration boundaries.
//
// # Errors
//
// ErrNoSignal marks users without enough history for personalized scores;
// callers fall back to popularity ranking. WeightsError marks hybrid weights
// that do not sum to 1.0 and is surfaced to the caller, never retried. An
// empty catalog or empty candidate set yields an empty result, not an error.
package recommend
