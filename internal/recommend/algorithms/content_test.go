// Recstack - Hybrid Recommendation Engine
// Copyright 2026 Recstack Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recstack/engine

package algorithms

import (
	"context"
	"math"
	"testing"

	"github.com/recstack/engine/internal/recommend"
)

func genreMovie(id string, genres ...string) recommend.CatalogItem {
	return recommend.CatalogItem{ID: id, Type: recommend.ItemTypeMovie, Title: id, Genres: genres}
}

func TestNewContentBased(t *testing.T) {
	c := NewContentBased(recommend.ContentConfig{})
	if c.cfg.MinSimilarity != 0.3 {
		t.Errorf("MinSimilarity = %v, want 0.3", c.cfg.MinSimilarity)
	}
	if c.cfg.LikeThreshold != 4 {
		t.Errorf("LikeThreshold = %v, want 4", c.cfg.LikeThreshold)
	}
}

func TestContentBased_Recommend(t *testing.T) {
	catalog := []recommend.CatalogItem{
		genreMovie("X", "sci-fi", "action"),
		genreMovie("Y", "sci-fi", "drama"),
		genreMovie("Z", "romance", "comedy"),
	}
	ratings := []recommend.Rating{
		{UserID: "u1", ItemID: "X", Score: 5},
	}

	c := NewContentBased(recommend.ContentConfig{MinSimilarity: 0.3, LikeThreshold: 4})

	got, err := c.Recommend(context.Background(), "u1", ratings, catalog, 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	// Y shares one genre of two with the seed; Z shares none and is cut.
	if len(got) != 1 {
		t.Fatalf("Recommend() returned %d candidates, want 1", len(got))
	}
	if got[0].ItemID != "Y" {
		t.Errorf("ItemID = %q, want %q", got[0].ItemID, "Y")
	}
	if math.Abs(got[0].Score-0.5) > epsilon {
		t.Errorf("Score = %v, want 0.5", got[0].Score)
	}
	if got[0].Source != recommend.SourceContent {
		t.Errorf("Source = %q, want %q", got[0].Source, recommend.SourceContent)
	}
}

func TestContentBased_Recommend_LowRatingsAreNotSeeds(t *testing.T) {
	catalog := []recommend.CatalogItem{
		genreMovie("X", "sci-fi"),
		genreMovie("Y", "sci-fi"),
	}
	ratings := []recommend.Rating{
		{UserID: "u1", ItemID: "X", Score: 3},
	}

	c := NewContentBased(recommend.ContentConfig{MinSimilarity: 0.3, LikeThreshold: 4})

	_, err := c.Recommend(context.Background(), "u1", ratings, catalog, 10)
	if !recommend.IsNoSignal(err) {
		t.Errorf("Recommend() error = %v, want ErrNoSignal", err)
	}
}

func TestContentBased_Recommend_NoRatings(t *testing.T) {
	catalog := []recommend.CatalogItem{genreMovie("X", "sci-fi")}

	c := NewContentBased(recommend.ContentConfig{})

	_, err := c.Recommend(context.Background(), "u1", nil, catalog, 10)
	if !recommend.IsNoSignal(err) {
		t.Errorf("Recommend() error = %v, want ErrNoSignal", err)
	}
}

func TestContentBased_Recommend_BestMatchOverSeeds(t *testing.T) {
	// The candidate is identical to one seed and disjoint from the other;
	// best-match semantics must score it 1.0, not the average 0.5.
	catalog := []recommend.CatalogItem{
		genreMovie("seed1", "sci-fi", "action"),
		genreMovie("seed2", "romance"),
		genreMovie("cand", "sci-fi", "action"),
	}
	ratings := []recommend.Rating{
		{UserID: "u1", ItemID: "seed1", Score: 5},
		{UserID: "u1", ItemID: "seed2", Score: 5},
	}

	c := NewContentBased(recommend.ContentConfig{MinSimilarity: 0.3, LikeThreshold: 4})

	got, err := c.Recommend(context.Background(), "u1", ratings, catalog, 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Recommend() returned %d candidates, want 1", len(got))
	}
	if math.Abs(got[0].Score-1.0) > epsilon {
		t.Errorf("Score = %v, want 1.0", got[0].Score)
	}
}

func TestContentBased_Recommend_ThresholdCut(t *testing.T) {
	// One shared feature out of many keeps similarity below the threshold.
	catalog := []recommend.CatalogItem{
		genreMovie("seed", "a", "b", "c", "d", "e", "f", "g", "h"),
		genreMovie("cand", "a", "q", "r", "s", "t", "u", "v", "w"),
	}
	ratings := []recommend.Rating{
		{UserID: "u1", ItemID: "seed", Score: 5},
	}

	c := NewContentBased(recommend.ContentConfig{MinSimilarity: 0.3, LikeThreshold: 4})

	got, err := c.Recommend(context.Background(), "u1", ratings, catalog, 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Recommend() returned %d candidates, want 0", len(got))
	}
}

func TestContentBased_SimilarItems(t *testing.T) {
	catalog := []recommend.CatalogItem{
		genreMovie("X", "sci-fi", "action"),
		genreMovie("Y", "sci-fi", "action"),
		genreMovie("Z", "sci-fi", "drama"),
		{ID: "P", Type: recommend.ItemTypeProduct, Title: "P", Genres: []string{"sci-fi", "action"}},
	}

	c := NewContentBased(recommend.ContentConfig{MinSimilarity: 0.3})

	got, err := c.SimilarItems(context.Background(), "X", catalog, 10)
	if err != nil {
		t.Fatalf("SimilarItems() error = %v", err)
	}

	// Y is an exact feature match, Z a partial one; P matches but is a
	// different item type and never mixes in.
	if len(got) != 2 {
		t.Fatalf("SimilarItems() returned %d candidates, want 2", len(got))
	}
	if got[0].ItemID != "Y" || got[1].ItemID != "Z" {
		t.Errorf("got order [%s %s], want [Y Z]", got[0].ItemID, got[1].ItemID)
	}
	if math.Abs(got[0].Score-1.0) > epsilon {
		t.Errorf("Score(Y) = %v, want 1.0", got[0].Score)
	}
}

func TestContentBased_SimilarItems_UnknownAnchor(t *testing.T) {
	catalog := []recommend.CatalogItem{genreMovie("X", "sci-fi")}

	c := NewContentBased(recommend.ContentConfig{})

	got, err := c.SimilarItems(context.Background(), "missing", catalog, 10)
	if err != nil {
		t.Fatalf("SimilarItems() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("SimilarItems() returned %d candidates, want 0", len(got))
	}
}
