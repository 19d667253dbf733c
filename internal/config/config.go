// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Cinescope server.
type Config struct {
	TMDB      TMDBConfig      `koanf:"tmdb"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Recommend RecommendConfig `koanf:"recommend"`
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// TMDBConfig configures the external movie source client.
type TMDBConfig struct {
	// BaseURL is the API root, e.g. https://api.themoviedb.org/3.
	BaseURL string `koanf:"base_url"`

	// ImageBaseURL is the prefix for poster/backdrop relative paths.
	ImageBaseURL string `koanf:"image_base_url"`

	// APIKey is the bearer token for the source API. Required.
	APIKey string `koanf:"api_key"`

	// Language is the preferred result language, e.g. en-US.
	Language string `koanf:"language"`

	// Timeout bounds each individual HTTP request.
	Timeout time.Duration `koanf:"timeout"`

	// MaxRetries bounds automatic retries on transient statuses.
	MaxRetries int `koanf:"max_retries"`

	// RetryBaseDelay is the first backoff delay; it doubles per attempt.
	RetryBaseDelay time.Duration `koanf:"retry_base_delay"`

	// PageInterval is the minimum spacing between page fetches, respecting
	// upstream rate limits.
	PageInterval time.Duration `koanf:"page_interval"`
}

// CatalogConfig configures corpus building and cache freshness.
type CatalogConfig struct {
	// Pages is the number of popular-movie pages fetched per build.
	Pages int `koanf:"pages"`

	// RefreshTTL is how long a corpus snapshot stays fresh before a lazy
	// rebuild is triggered.
	RefreshTTL time.Duration `koanf:"refresh_ttl"`

	// DetailTTL is the memoization TTL for detail records.
	DetailTTL time.Duration `koanf:"detail_ttl"`

	// CacheTTL is the default TTL for all other memoized computations.
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// RecommendConfig configures the recommendation orchestrator and the
// heuristic scorers.
type RecommendConfig struct {
	// NeighborPool is how many nearest neighbors are considered.
	NeighborPool int `koanf:"neighbor_pool"`

	// MaxResults stops enrichment once this many candidates survive.
	MaxResults int `koanf:"max_results"`

	// MaxVocabulary caps the TF-IDF vocabulary size.
	MaxVocabulary int `koanf:"max_vocabulary"`

	// BasePrice is the baseline ticket price for dynamic pricing.
	BasePrice float64 `koanf:"base_price"`

	// MoodTopN truncates mood-filter results.
	MoodTopN int `koanf:"mood_top_n"`

	// ConsensusTopN truncates group-consensus results.
	ConsensusTopN int `koanf:"consensus_top_n"`

	// MaxProfileTags caps the preferred-tag set kept per user.
	MaxProfileTags int `koanf:"max_profile_tags"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	// CORSOrigins lists allowed origins for the browser client.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitReqs and RateLimitWindow bound per-IP request rates.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	return c.validateServer()
}

func (c *Config) validateTMDB() error {
	if c.TMDB.APIKey == "" {
		return fmt.Errorf("tmdb.api_key is required (set TMDB_API_KEY)")
	}
	if c.TMDB.BaseURL == "" {
		return fmt.Errorf("tmdb.base_url must not be empty")
	}
	if c.TMDB.Timeout <= 0 {
		return fmt.Errorf("tmdb.timeout must be positive, got %s", c.TMDB.Timeout)
	}
	if c.TMDB.MaxRetries < 0 {
		return fmt.Errorf("tmdb.max_retries must not be negative, got %d", c.TMDB.MaxRetries)
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.Pages < 1 {
		return fmt.Errorf("catalog.pages must be at least 1, got %d", c.Catalog.Pages)
	}
	if c.Catalog.RefreshTTL <= 0 {
		return fmt.Errorf("catalog.refresh_ttl must be positive, got %s", c.Catalog.RefreshTTL)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.NeighborPool < 1 {
		return fmt.Errorf("recommend.neighbor_pool must be at least 1, got %d", c.Recommend.NeighborPool)
	}
	if c.Recommend.MaxResults < 1 {
		return fmt.Errorf("recommend.max_results must be at least 1, got %d", c.Recommend.MaxResults)
	}
	if c.Recommend.MaxResults > c.Recommend.NeighborPool {
		return fmt.Errorf("recommend.max_results (%d) must not exceed recommend.neighbor_pool (%d)",
			c.Recommend.MaxResults, c.Recommend.NeighborPool)
	}
	if c.Recommend.BasePrice <= 0 {
		return fmt.Errorf("recommend.base_price must be positive, got %g", c.Recommend.BasePrice)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	return nil
}
