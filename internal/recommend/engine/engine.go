// Recstack - Hybrid Recommendation Engine
// Copyright 2026 Recstack Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recstack/engine

package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/recstack/engine/internal/logging"
	"github.com/recstack/engine/internal/metrics"
	"github.com/recstack/engine/internal/recommend"
	"github.com/recstack/engine/internal/recommend/algorithms"
)

// Engine is the stateless facade over all recommendation strategies.
// It holds configuration and data-source handles only; corpora are fetched
// per request and never cached, so concurrent use needs no locking.
type Engine struct {
	cfg    *recommend.Config
	logger zerolog.Logger

	ratings recommend.RatingSource
	catalog recommend.CatalogSource

	collaborative *algorithms.Collaborative
	content       *algorithms.ContentBased
	popularity    *algorithms.Popularity

	// now is injectable for deterministic trending tests.
	now func() time.Time
}

// New creates an Engine. A nil cfg uses DefaultConfig; the configuration is
// cloned and validated, so later mutation of the caller's copy has no effect.
func New(cfg *recommend.Config, ratings recommend.RatingSource, catalog recommend.CatalogSource, logger zerolog.Logger) (*Engine, error) {
	if ratings == nil {
		return nil, errors.New("engine: rating source is required")
	}
	if catalog == nil {
		return nil, errors.New("engine: catalog source is required")
	}

	if cfg == nil {
		cfg = recommend.DefaultConfig()
	} else {
		cfg = cfg.Clone()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		cfg:           cfg,
		logger:        logger.With().Str("component", "recommend-engine").Logger(),
		ratings:       ratings,
		catalog:       catalog,
		collaborative: algorithms.NewCollaborative(cfg.Collaborative),
		content:       algorithms.NewContentBased(cfg.Content),
		popularity:    algorithms.NewPopularity(cfg.Popularity),
		now:           time.Now,
	}, nil
}

// Config returns a copy of the engine's effective configuration.
func (e *Engine) Config() recommend.Config {
	return *e.cfg
}

// clampLimit resolves a requested result count against the configured limits:
// non-positive values take the default, oversized values are capped.
func (e *Engine) clampLimit(limit int) int {
	if limit <= 0 {
		return e.cfg.Limits.DefaultLimit
	}
	if limit > e.cfg.Limits.MaxLimit {
		return e.cfg.Limits.MaxLimit
	}
	return limit
}

// requestLogger returns a per-request logger carrying a fresh request ID and
// any correlation ID found on the context.
func (e *Engine) requestLogger(ctx context.Context, operation string) zerolog.Logger {
	logCtx := e.logger.With().
		Str("request_id", uuid.NewString()).
		Str("operation", operation)
	if id := logging.CorrelationID(ctx); id != "" {
		logCtx = logCtx.Str("correlation_id", id)
	}
	return logCtx.Logger()
}

// outcomeLabel maps an operation result to a metrics outcome label.
func outcomeLabel(err error) string {
	var weightsErr *recommend.WeightsError
	switch {
	case err == nil:
		return "ok"
	case recommend.IsNoSignal(err):
		return "no_signal"
	case errors.As(err, &weightsErr):
		return "invalid_weights"
	default:
		return "error"
	}
}

// observe records metrics and a completion log line for one request.
func (e *Engine) observe(logger zerolog.Logger, operation string, start time.Time, results []recommend.ScoredCandidate, err error) {
	outcome := outcomeLabel(err)
	metrics.ObserveRequest(operation, outcome, start, len(results))
	if outcome == "no_signal" {
		metrics.NoSignalTotal.WithLabelValues(operation).Inc()
	}

	event := logger.Debug()
	if outcome == "error" {
		event = logger.Error().Err(err)
	}
	event.
		Str("outcome", outcome).
		Int("results", len(results)).
		Dur("duration", time.Since(start)).
		Msg("request completed")
}

// fetchCorpus fetches a full rating and catalog snapshot for personalized
// strategies.
func (e *Engine) fetchCorpus(ctx context.Context) ([]recommend.Rating, []recommend.CatalogItem, error) {
	ratings, err := e.ratings.FetchRatings(ctx, recommend.RatingFilter{})
	if err != nil {
		return nil, nil, fmt.Errorf("fetch ratings: %w", err)
	}
	catalog, err := e.catalog.FetchCatalog(ctx, recommend.CatalogFilter{})
	if err != nil {
		return nil, nil, fmt.Errorf("fetch catalog: %w", err)
	}

	metrics.CorpusRatings.Set(float64(len(ratings)))
	metrics.CorpusItems.Set(float64(len(catalog)))

	return ratings, catalog, nil
}

// catalogByID indexes a catalog snapshot by item ID.
func catalogByID(items []recommend.CatalogItem) map[string]recommend.CatalogItem {
	index := make(map[string]recommend.CatalogItem, len(items))
	for _, item := range items {
		index[item.ID] = item
	}
	return index
}

// Collaborative recommends items for userID using user-similarity filtering
// only. Returns recommend.ErrNoSignal when the user has no ratings.
func (e *Engine) Collaborative(ctx context.Context, userID string, limit int) (results []recommend.ScoredCandidate, err error) {
	start := e.now()
	logger := e.requestLogger(ctx, "collaborative")
	defer func() { e.observe(logger, "collaborative", start, results, err) }()

	limit = e.clampLimit(limit)

	ratings, catalog, err := e.fetchCorpus(ctx)
	if err != nil {
		return nil, err
	}

	results, err = e.collaborative.Recommend(ctx, userID, ratings, catalogByID(catalog), limit)
	return results, err
}

// ContentBased recommends items for userID using attribute-similarity
// filtering only. Returns recommend.ErrNoSignal when the user has no liked
// items to seed from.
func (e *Engine) ContentBased(ctx context.Context, userID string, limit int) (results []recommend.ScoredCandidate, err error) {
	start := e.now()
	logger := e.requestLogger(ctx, "content")
	defer func() { e.observe(logger, "content", start, results, err) }()

	limit = e.clampLimit(limit)

	ratings, catalog, err := e.fetchCorpus(ctx)
	if err != nil {
		return nil, err
	}

	results, err = e.content.Recommend(ctx, userID, ratings, catalog, limit)
	return results, err
}

// Popular ranks catalog items matching the filter by all-time average
// rating. An empty matching catalog yields an empty list.
func (e *Engine) Popular(ctx context.Context, filter recommend.CatalogFilter, limit int) (results []recommend.ScoredCandidate, err error) {
	start := e.now()
	logger := e.requestLogger(ctx, "popular")
	defer func() { e.observe(logger, "popular", start, results, err) }()

	limit = e.clampLimit(limit)

	items, ratings, err := e.fetchScoped(ctx, filter)
	if err != nil {
		return nil, err
	}

	results, err = e.popularity.Rank(ctx, items, ratings, limit)
	return results, err
}

// Trending ranks catalog items matching the filter by average rating over
// the trailing trending window.
func (e *Engine) Trending(ctx context.Context, filter recommend.CatalogFilter, limit int) (results []recommend.ScoredCandidate, err error) {
	start := e.now()
	logger := e.requestLogger(ctx, "trending")
	defer func() { e.observe(logger, "trending", start, results, err) }()

	limit = e.clampLimit(limit)

	items, ratings, err := e.fetchScoped(ctx, filter)
	if err != nil {
		return nil, err
	}

	results, err = e.popularity.Trending(ctx, items, ratings, e.now(), limit)
	return results, err
}

// fetchScoped fetches the catalog items matching the filter plus the full
// rating snapshot needed to rank them.
func (e *Engine) fetchScoped(ctx context.Context, filter recommend.CatalogFilter) ([]recommend.CatalogItem, []recommend.Rating, error) {
	items, err := e.catalog.FetchCatalog(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch catalog: %w", err)
	}
	ratings, err := e.ratings.FetchRatings(ctx, recommend.RatingFilter{})
	if err != nil {
		return nil, nil, fmt.Errorf("fetch ratings: %w", err)
	}
	return items, ratings, nil
}

// SimilarItems ranks items of the same type as itemID by feature similarity.
// An unknown item yields an empty list, not an error.
func (e *Engine) SimilarItems(ctx context.Context, itemID string, limit int) (results []recommend.ScoredCandidate, err error) {
	start := e.now()
	logger := e.requestLogger(ctx, "similar_items")
	defer func() { e.observe(logger, "similar_items", start, results, err) }()

	limit = e.clampLimit(limit)

	catalog, err := e.catalog.FetchCatalog(ctx, recommend.CatalogFilter{})
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}

	results, err = e.content.SimilarItems(ctx, itemID, catalog, limit)
	return results, err
}

// PopularByGroup ranks the most popular items of the given type per group.
// Products group by category; movies and books group by genre (an item with
// several genres appears in each). Group keys are the labels as stored in
// the catalog.
func (e *Engine) PopularByGroup(ctx context.Context, itemType recommend.ItemType, limitPerGroup int) (map[string][]recommend.ScoredCandidate, error) {
	start := e.now()
	logger := e.requestLogger(ctx, "popular_by_group")

	limitPerGroup = e.clampLimit(limitPerGroup)

	items, err := e.catalog.FetchCatalog(ctx, recommend.CatalogFilter{Type: itemType})
	if err != nil {
		e.observe(logger, "popular_by_group", start, nil, err)
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	ratings, err := e.ratings.FetchRatings(ctx, recommend.RatingFilter{})
	if err != nil {
		e.observe(logger, "popular_by_group", start, nil, err)
		return nil, fmt.Errorf("fetch ratings: %w", err)
	}

	groups := make(map[string][]recommend.CatalogItem)
	for _, item := range items {
		for _, key := range groupKeys(item) {
			groups[key] = append(groups[key], item)
		}
	}

	ranked := make(map[string][]recommend.ScoredCandidate, len(groups))
	total := 0
	for key, members := range groups {
		list, err := e.popularity.Rank(ctx, members, ratings, limitPerGroup)
		if err != nil {
			e.observe(logger, "popular_by_group", start, nil, err)
			return nil, err
		}
		if len(list) > 0 {
			ranked[key] = list
			total += len(list)
		}
	}

	metrics.ObserveRequest("popular_by_group", "ok", start, total)
	logger.Debug().
		Str("outcome", "ok").
		Int("groups", len(ranked)).
		Int("results", total).
		Dur("duration", time.Since(start)).
		Msg("request completed")

	return ranked, nil
}

// groupKeys returns the grouping labels for one catalog item.
func groupKeys(item recommend.CatalogItem) []string {
	if item.Type == recommend.ItemTypeProduct {
		if item.Category == "" {
			return nil
		}
		return []string{item.Category}
	}
	return item.Genres
}
