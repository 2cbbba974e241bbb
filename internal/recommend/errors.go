// Recstack - Hybrid Recommendation Engine
// Copyright 2026 Recstack Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recstack/engine

package recommend

import (
	"errors"
	"fmt"
)

// ErrNoSignal indicates a user has insufficient rating history to compute
// personalized scores. It is recoverable: callers are expected to fall back
// to popularity ranking. It is never raised for an empty candidate set - an
// empty recommendation list is a valid outcome, not an error.
var ErrNoSignal = errors.New("no personalized signal for user")

// WeightsError indicates hybrid fusion weights that do not sum to 1.0
// within tolerance. It is a caller error and is never retried internally.
type WeightsError struct {
	Collaborative float64
	Content       float64
}

// Error implements the error interface.
func (e *WeightsError) Error() string {
	return fmt.Sprintf("invalid hybrid weights: collaborative=%g + content=%g must sum to 1.0",
		e.Collaborative, e.Content)
}

// IsNoSignal reports whether err is (or wraps) ErrNoSignal.
func IsNoSignal(err error) bool {
	return errors.Is(err, ErrNoSignal)
}
