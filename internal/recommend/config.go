// Recstack - Hybrid Recommendation Engine
// Copyright 2026 Recstack Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recstack/engine

package recommend

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// WeightTolerance is the floating tolerance within which the hybrid weights
// must sum to 1.0.
const WeightTolerance = 1e-6

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Collaborative contains parameters for user-similarity filtering.
	Collaborative CollaborativeConfig `json:"collaborative" koanf:"collaborative"`

	// Content contains parameters for attribute-similarity filtering.
	Content ContentConfig `json:"content" koanf:"content"`

	// Popularity contains parameters for popularity/trending ranking.
	Popularity PopularityConfig `json:"popularity" koanf:"popularity"`

	// Hybrid contains parameters for score fusion.
	Hybrid HybridConfig `json:"hybrid" koanf:"hybrid"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits" koanf:"limits"`
}

// CollaborativeConfig contains parameters for the collaborative filter.
type CollaborativeConfig struct {
	// MinSimilarity is the minimum user-user similarity for a neighbor
	// to contribute. Default: 0.3.
	MinSimilarity float64 `json:"min_similarity" koanf:"min_similarity" validate:"gte=-1,lte=1"`

	// MaxNeighbors caps how many of the most similar users contribute
	// to the projection. 0 disables the cap. Default: 50.
	MaxNeighbors int `json:"max_neighbors" koanf:"max_neighbors" validate:"gte=0"`

	// MinCommonItems is the minimum number of co-rated items required
	// before a user-user similarity is trusted. 0 disables the check.
	// Default: 0.
	MinCommonItems int `json:"min_common_items" koanf:"min_common_items" validate:"gte=0"`
}

// ContentConfig contains parameters for the content filter.
type ContentConfig struct {
	// MinSimilarity is the minimum candidate-to-seed similarity.
	// Default: 0.3.
	MinSimilarity float64 `json:"min_similarity" koanf:"min_similarity" validate:"gte=-1,lte=1"`

	// LikeThreshold is the minimum rating for an item to count as a
	// seed. Default: 4.
	LikeThreshold int `json:"like_threshold" koanf:"like_threshold" validate:"gte=1,lte=5"`
}

// PopularityConfig contains parameters for popularity/trending ranking.
type PopularityConfig struct {
	// MinRatings is the minimum rating count for an item to be ranked.
	// Default: 1.
	MinRatings int `json:"min_ratings" koanf:"min_ratings" validate:"gte=0"`

	// TrendingWindowDays is the trailing window for trending ranking.
	// Default: 7.
	TrendingWindowDays int `json:"trending_window_days" koanf:"trending_window_days" validate:"gte=1"`
}

// HybridConfig contains parameters for collaborative/content fusion.
type HybridConfig struct {
	// CollaborativeWeight is the fusion weight of the collaborative
	// score. Default: 0.6.
	CollaborativeWeight float64 `json:"collaborative_weight" koanf:"collaborative_weight" validate:"gte=0,lte=1"`

	// ContentWeight is the fusion weight of the content score.
	// Default: 0.4.
	ContentWeight float64 `json:"content_weight" koanf:"content_weight" validate:"gte=0,lte=1"`

	// OverfetchFactor multiplies the requested limit when running the
	// underlying filters, so fusion re-ranks a fair candidate pool.
	// Default: 3.
	OverfetchFactor int `json:"overfetch_factor" koanf:"overfetch_factor" validate:"gte=1"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultLimit is the result count used when a request passes 0.
	// Default: 10.
	DefaultLimit int `json:"default_limit" koanf:"default_limit" validate:"gte=1"`

	// MaxLimit is the maximum allowed result count. Default: 100.
	MaxLimit int `json:"max_limit" koanf:"max_limit" validate:"gte=1"`
}

// DefaultConfig returns a Config with the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Collaborative: CollaborativeConfig{
			MinSimilarity:  0.3,
			MaxNeighbors:   50,
			MinCommonItems: 0,
		},
		Content: ContentConfig{
			MinSimilarity: 0.3,
			LikeThreshold: 4,
		},
		Popularity: PopularityConfig{
			MinRatings:         1,
			TrendingWindowDays: 7,
		},
		Hybrid: HybridConfig{
			CollaborativeWeight: 0.6,
			ContentWeight:       0.4,
			OverfetchFactor:     3,
		},
		Limits: LimitsConfig{
			DefaultLimit: 10,
			MaxLimit:     100,
		},
	}
}

var structValidator = validator.New()

// Validate checks the configuration for errors. Hybrid weights not summing
// to 1.0 within WeightTolerance surface as a *WeightsError so callers can
// distinguish them from structural errors.
func (c *Config) Validate() error {
	if err := structValidator.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := ValidateWeights(c.Hybrid.CollaborativeWeight, c.Hybrid.ContentWeight); err != nil {
		return err
	}

	if c.Limits.MaxLimit < c.Limits.DefaultLimit {
		return fmt.Errorf("limits.max_limit must be >= limits.default_limit, got %d < %d",
			c.Limits.MaxLimit, c.Limits.DefaultLimit)
	}

	return nil
}

// ValidateWeights checks that two fusion weights sum to 1.0 within
// WeightTolerance.
func ValidateWeights(collaborative, content float64) error {
	if math.Abs(collaborative+content-1.0) > WeightTolerance {
		return &WeightsError{Collaborative: collaborative, Content: content}
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types.
	cp := *c
	return &cp
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "RECSTACK_CONFIG"

// envPrefix namespaces the engine's environment overrides.
const envPrefix = "RECSTACK_"

// LoadConfig loads configuration with layered sources:
//  1. Defaults: DefaultConfig values
//  2. Config file: optional YAML file (path argument, or RECSTACK_CONFIG)
//  3. Environment variables: RECSTACK_* overrides (highest priority)
//
// Examples of environment mapping:
//
//	RECSTACK_HYBRID_CONTENT_WEIGHT    -> hybrid.content_weight
//	RECSTACK_POPULARITY_MIN_RATINGS   -> popularity.min_ratings
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		path = os.Getenv(ConfigPathEnvVar)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// envTransform maps RECSTACK_SECTION_FIELD_NAME to section.field_name.
// Only the first underscore separates the section; the rest stay joined
// since all field keys use snake_case.
func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.Replace(s, "_", ".", 1)
}
