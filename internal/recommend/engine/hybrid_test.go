// Recstack - Hybrid Recommendation Engine
// Copyright 2026 Recstack Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recstack/engine

package engine

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/recstack/engine/internal/recommend"
)

const epsilon = 1e-9

// hybridCorpus gives u1 both collaborative signal (via the like-minded u2)
// and content signal (via the liked sci-fi seed).
func hybridCorpus() ([]recommend.Rating, []recommend.CatalogItem) {
	ratings := []recommend.Rating{
		rated("u1", "A", 5, time.Hour),
		rated("u1", "B", 4, time.Hour),
		rated("u2", "A", 5, time.Hour),
		rated("u2", "B", 5, time.Hour),
		rated("u2", "C", 4, time.Hour),
	}
	items := []recommend.CatalogItem{
		movie("A", "sci-fi", "action"),
		movie("B", "drama"),
		movie("C", "sci-fi", "action"),
		movie("D", "sci-fi", "thriller"),
	}
	return ratings, items
}

func TestEngine_Hybrid_FusesBothSources(t *testing.T) {
	ratings, items := hybridCorpus()
	e := newTestEngine(t, nil, ratings, items)

	got, err := e.Hybrid(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("Hybrid() error = %v", err)
	}
	if len(got) == 0 {
		t.Fatal("Hybrid() returned no candidates")
	}

	byID := make(map[string]recommend.ScoredCandidate, len(got))
	for _, cand := range got {
		if cand.Source != recommend.SourceHybrid {
			t.Errorf("Source = %q, want %q", cand.Source, recommend.SourceHybrid)
		}
		byID[cand.ItemID] = cand
	}

	// C is surfaced by both filters: collaborative projects u2's 4-star
	// rating (4/5), content matches it exactly to the liked seed A (1.0).
	c, ok := byID["C"]
	if !ok {
		t.Fatal("Hybrid() did not surface item C")
	}
	wantFused := 0.6*0.8 + 0.4*1.0
	if math.Abs(c.Score-wantFused) > epsilon {
		t.Errorf("Score(C) = %v, want %v", c.Score, wantFused)
	}
	if math.Abs(c.Scores[recommend.SourceCollaborative]-0.8) > epsilon {
		t.Errorf("Scores[collaborative] = %v, want 0.8", c.Scores[recommend.SourceCollaborative])
	}
	if math.Abs(c.Scores[recommend.SourceContent]-1.0) > epsilon {
		t.Errorf("Scores[content] = %v, want 1.0", c.Scores[recommend.SourceContent])
	}
}

func TestEngine_Hybrid_SingleSourceKeepsRawScore(t *testing.T) {
	ratings, items := hybridCorpus()
	e := newTestEngine(t, nil, ratings, items)

	got, err := e.Hybrid(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("Hybrid() error = %v", err)
	}

	// D is content-only: no neighbor rated it. Its fused score is the raw
	// content similarity, not content_weight * similarity.
	for _, cand := range got {
		if cand.ItemID != "D" {
			continue
		}
		contentScore, ok := cand.Scores[recommend.SourceContent]
		if !ok {
			t.Fatal("candidate D lacks a content score")
		}
		if _, ok := cand.Scores[recommend.SourceCollaborative]; ok {
			t.Fatal("candidate D unexpectedly has a collaborative score")
		}
		if math.Abs(cand.Score-contentScore) > epsilon {
			t.Errorf("Score(D) = %v, want raw content score %v", cand.Score, contentScore)
		}
		return
	}
	t.Fatal("Hybrid() did not surface content-only item D")
}

func TestEngine_Hybrid_InvalidWeights(t *testing.T) {
	ratings, items := hybridCorpus()
	e := newTestEngine(t, nil, ratings, items)

	// Drift the weights after construction; every call must re-validate.
	e.cfg.Hybrid.CollaborativeWeight = 0.7
	e.cfg.Hybrid.ContentWeight = 0.5

	_, err := e.Hybrid(context.Background(), "u1", 10)
	var weightsErr *recommend.WeightsError
	if !errors.As(err, &weightsErr) {
		t.Fatalf("Hybrid() error = %v, want *WeightsError", err)
	}
	if weightsErr.Collaborative != 0.7 || weightsErr.Content != 0.5 {
		t.Errorf("WeightsError = %v/%v, want 0.7/0.5", weightsErr.Collaborative, weightsErr.Content)
	}
}

func TestEngine_Hybrid_NoSignalOnlyWhenBothSilent(t *testing.T) {
	// u1 liked X, so content has signal, but no other user exists for
	// collaborative filtering. Hybrid degrades to content-only.
	ratings := []recommend.Rating{
		rated("u1", "X", 5, time.Hour),
	}
	items := []recommend.CatalogItem{
		movie("X", "sci-fi"),
		movie("Y", "sci-fi"),
	}

	e := newTestEngine(t, nil, ratings, items)

	got, err := e.Hybrid(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("Hybrid() error = %v", err)
	}
	if len(got) != 1 || got[0].ItemID != "Y" {
		t.Fatalf("Hybrid() = %v, want single candidate Y", got)
	}
	if math.Abs(got[0].Score-1.0) > epsilon {
		t.Errorf("Score(Y) = %v, want raw content score 1.0", got[0].Score)
	}

	// An unknown user has neither signal.
	_, err = e.Hybrid(context.Background(), "stranger", 10)
	if !recommend.IsNoSignal(err) {
		t.Errorf("Hybrid(stranger) error = %v, want ErrNoSignal", err)
	}
}

func TestEngine_Hybrid_RespectsLimit(t *testing.T) {
	ratings, items := hybridCorpus()
	e := newTestEngine(t, nil, ratings, items)

	got, err := e.Hybrid(context.Background(), "u1", 1)
	if err != nil {
		t.Fatalf("Hybrid() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Hybrid() returned %d candidates, want 1", len(got))
	}
	// The strongest fused candidate survives truncation.
	if got[0].ItemID != "C" {
		t.Errorf("ItemID = %q, want %q", got[0].ItemID, "C")
	}
}

func TestEngine_Personalized(t *testing.T) {
	ratings, items := hybridCorpus()
	e := newTestEngine(t, nil, ratings, items)

	tests := []struct {
		name    string
		method  recommend.Method
		wantSrc recommend.Source
		wantErr bool
	}{
		{name: "hybrid", method: recommend.MethodHybrid, wantSrc: recommend.SourceHybrid},
		{name: "empty defaults to hybrid", method: "", wantSrc: recommend.SourceHybrid},
		{name: "collaborative", method: recommend.MethodCollaborative, wantSrc: recommend.SourceCollaborative},
		{name: "content", method: recommend.MethodContent, wantSrc: recommend.SourceContent},
		{name: "unknown", method: "pagerank", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Personalized(context.Background(), "u1", tt.method, 10)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Personalized() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Personalized() error = %v", err)
			}
			if len(got) == 0 {
				t.Fatal("Personalized() returned no candidates")
			}
			if got[0].Source != tt.wantSrc {
				t.Errorf("Source = %q, want %q", got[0].Source, tt.wantSrc)
			}
		})
	}
}
