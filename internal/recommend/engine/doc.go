// Recstack - Hybrid Recommendation Engine
// Copyright 2026 Recstack Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recstack/engine

// Package engine composes the recommendation strategies behind a single
// facade.
//
// An Engine owns no data. Every operation fetches a fresh corpus snapshot
// from the configured rating and catalog sources, runs the relevant
// strategies on it, and discards it. Requests are therefore independent and
// safe to run concurrently; consistency between operations is whatever the
// backing sources provide.
//
// Personalized operations (Collaborative, ContentBased, Hybrid) return
// recommend.ErrNoSignal when the user has no usable history, so callers can
// fall back to Popular or Trending. Hybrid additionally validates the fusion
// weights on every call and rejects drifted configuration with
// *recommend.WeightsError before touching any data.
package engine
