// Recstack - Hybrid Recommendation Engine
// Copyright 2026 Recstack Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recstack/engine

package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// correlationIDKey is the context key for correlation IDs.
type correlationIDKey struct{}

// WithCorrelationID returns a context carrying the correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationID returns the correlation ID from the context, or "".
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}

// Ctx returns the global logger enriched with the context's correlation ID,
// when one is present.
func Ctx(ctx context.Context) zerolog.Logger {
	logger := Logger()
	if id := CorrelationID(ctx); id != "" {
		logger = logger.With().Str("correlation_id", id).Logger()
	}
	return logger
}
