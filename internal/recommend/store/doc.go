// Recstack - Hybrid Recommendation Engine
// Copyright 2026 Recstack Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recstack/engine

// Package store provides rating and catalog stores implementing the
// recommend.RatingSource and recommend.CatalogSource interfaces.
//
// Two implementations exist:
//
//   - Memory: a mutex-guarded in-process store, suitable for tests and for
//     embedding the engine with an externally managed corpus.
//   - Badger: a persistent embedded store on BadgerDB, suitable for
//     single-node deployments that must survive restarts. It also runs fully
//     in memory via OpenInMemory for tests.
//
// Both stores upsert ratings on the (user_id, item_id) pair: re-rating an
// item overwrites the score and updated_at while preserving created_at, so
// trending windows reflect first exposure, not edits.
package store
