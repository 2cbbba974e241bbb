// Recstack - Hybrid Recommendation Engine
// Copyright 2026 Recstack Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recstack/engine

package recommend

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestIsNoSignal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "direct", err: ErrNoSignal, want: true},
		{name: "wrapped", err: fmt.Errorf("collaborative: %w", ErrNoSignal), want: true},
		{name: "unrelated", err: errors.New("boom"), want: false},
		{name: "weights error", err: &WeightsError{Collaborative: 0.7, Content: 0.5}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNoSignal(tt.err); got != tt.want {
				t.Errorf("IsNoSignal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeightsError_Message(t *testing.T) {
	err := &WeightsError{Collaborative: 0.7, Content: 0.5}

	msg := err.Error()
	if !strings.Contains(msg, "0.7") || !strings.Contains(msg, "0.5") {
		t.Errorf("Error() = %q, want both weight values present", msg)
	}
}
