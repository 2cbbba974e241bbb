// Recstack - Hybrid Recommendation Engine
// Copyright 2026 Recstack Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recstack/engine

package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestInit_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Info().Msg("filtered out")
	Warn().Msg("kept")

	out := buf.String()
	if strings.Contains(out, "filtered out") {
		t.Error("info message logged at warn level")
	}
	if !strings.Contains(out, "kept") {
		t.Error("warn message missing from output")
	}
}

func TestInit_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "nonsense", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Debug().Msg("debug suppressed")
	Info().Msg("info visible")

	out := buf.String()
	if strings.Contains(out, "debug suppressed") {
		t.Error("debug message logged at default info level")
	}
	if !strings.Contains(out, "info visible") {
		t.Error("info message missing from output")
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	l := Component("engine")
	l.Info().Msg("tagged")

	if !strings.Contains(buf.String(), `"component":"engine"`) {
		t.Errorf("output %q missing component field", buf.String())
	}
}
