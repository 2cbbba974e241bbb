// Recstack - Hybrid Recommendation Engine
// Copyright 2026 Recstack Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recstack/engine

package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/recstack/engine/internal/recommend"
)

// fusedScore accumulates per-source scores for one candidate during fusion.
type fusedScore struct {
	collaborative float64
	content       float64
	hasCollab     bool
	hasContent    bool
}

// Hybrid recommends items for userID by fusing collaborative and content
// scores:
//
//	fused = w_c * collaborative + w_n * content
//
// A candidate surfaced by only one source keeps that source's score
// unrenormalized by the missing weight, so single-source candidates are not
// penalized for absence of the other signal. Both filters run over a pool of
// overfetch_factor * limit candidates before fusion re-ranks and truncates.
//
// Returns *recommend.WeightsError when the configured weights do not sum to
// 1.0, and recommend.ErrNoSignal only when both sources report no signal.
func (e *Engine) Hybrid(ctx context.Context, userID string, limit int) (results []recommend.ScoredCandidate, err error) {
	start := e.now()
	logger := e.requestLogger(ctx, "hybrid")
	defer func() { e.observe(logger, "hybrid", start, results, err) }()

	if err = recommend.ValidateWeights(e.cfg.Hybrid.CollaborativeWeight, e.cfg.Hybrid.ContentWeight); err != nil {
		return nil, err
	}

	limit = e.clampLimit(limit)
	pool := limit * e.cfg.Hybrid.OverfetchFactor

	ratings, catalog, err := e.fetchCorpus(ctx)
	if err != nil {
		return nil, err
	}

	collabResults, collabErr := e.collaborative.Recommend(ctx, userID, ratings, catalogByID(catalog), pool)
	if collabErr != nil && !recommend.IsNoSignal(collabErr) {
		return nil, collabErr
	}
	contentResults, contentErr := e.content.Recommend(ctx, userID, ratings, catalog, pool)
	if contentErr != nil && !recommend.IsNoSignal(contentErr) {
		return nil, contentErr
	}

	if collabErr != nil && contentErr != nil {
		return nil, fmt.Errorf("hybrid: user %q has no usable history: %w", userID, recommend.ErrNoSignal)
	}
	if collabErr != nil {
		logger.Debug().Str("fallback", "content_only").Msg("no collaborative signal")
	}
	if contentErr != nil {
		logger.Debug().Str("fallback", "collaborative_only").Msg("no content signal")
	}

	results = e.fuse(collabResults, contentResults, limit)
	return results, nil
}

// fuse merges the two candidate pools into a single hybrid ranking.
func (e *Engine) fuse(collabResults, contentResults []recommend.ScoredCandidate, limit int) []recommend.ScoredCandidate {
	pool := make(map[string]*fusedScore, len(collabResults)+len(contentResults))
	for _, c := range collabResults {
		pool[c.ItemID] = &fusedScore{collaborative: c.Score, hasCollab: true}
	}
	for _, c := range contentResults {
		f, ok := pool[c.ItemID]
		if !ok {
			f = &fusedScore{}
			pool[c.ItemID] = f
		}
		f.content = c.Score
		f.hasContent = true
	}

	wc := e.cfg.Hybrid.CollaborativeWeight
	wn := e.cfg.Hybrid.ContentWeight

	fused := make([]recommend.ScoredCandidate, 0, len(pool))
	for itemID, f := range pool {
		var score float64
		switch {
		case f.hasCollab && f.hasContent:
			score = wc*f.collaborative + wn*f.content
		case f.hasCollab:
			score = f.collaborative
		default:
			score = f.content
		}

		breakdown := make(map[recommend.Source]float64, 2)
		if f.hasCollab {
			breakdown[recommend.SourceCollaborative] = f.collaborative
		}
		if f.hasContent {
			breakdown[recommend.SourceContent] = f.content
		}

		fused = append(fused, recommend.ScoredCandidate{
			ItemID: itemID,
			Score:  score,
			Source: recommend.SourceHybrid,
			Scores: breakdown,
		})
	}

	sort.Slice(fused, func(i, j int) bool {
		if fused[i].Score != fused[j].Score {
			return fused[i].Score > fused[j].Score
		}
		return fused[i].ItemID < fused[j].ItemID
	})

	if limit > 0 && len(fused) > limit {
		fused = fused[:limit]
	}

	return fused
}

// Personalized dispatches to the strategy selected by method. An empty
// method defaults to hybrid.
func (e *Engine) Personalized(ctx context.Context, userID string, method recommend.Method, limit int) ([]recommend.ScoredCandidate, error) {
	switch method {
	case recommend.MethodHybrid, "":
		return e.Hybrid(ctx, userID, limit)
	case recommend.MethodCollaborative:
		return e.Collaborative(ctx, userID, limit)
	case recommend.MethodContent:
		return e.ContentBased(ctx, userID, limit)
	default:
		return nil, fmt.Errorf("unknown recommendation method %q", method)
	}
}
