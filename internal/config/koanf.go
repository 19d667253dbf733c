// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinescope/config.yaml",
	"/etc/cinescope/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all sensible defaults. Defaults are
// applied first, then overridden by the config file and environment.
func defaultConfig() *Config {
	return &Config{
		TMDB: TMDBConfig{
			BaseURL:        "https://api.themoviedb.org/3",
			ImageBaseURL:   "https://image.tmdb.org/t/p/w500",
			APIKey:         "",
			Language:       "en-US",
			Timeout:        10 * time.Second,
			MaxRetries:     3,
			RetryBaseDelay: 500 * time.Millisecond,
			PageInterval:   250 * time.Millisecond,
		},
		Catalog: CatalogConfig{
			Pages:      3,
			RefreshTTL: 30 * time.Minute,
			DetailTTL:  time.Hour,
			CacheTTL:   10 * time.Minute,
		},
		Recommend: RecommendConfig{
			NeighborPool:   15,
			MaxResults:     8,
			MaxVocabulary:  5000,
			BasePrice:      12.99,
			MoodTopN:       5,
			ConsensusTopN:  5,
			MaxProfileTags: 10,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         30 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load reads configuration using Koanf v2 with layered sources:
//
//  1. Defaults: built-in sensible defaults
//  2. Config file: optional YAML file (if one exists)
//  3. Environment variables: override any setting
//
// Precedence is ENV > file > defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: optional config file
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority).
	// TMDB_API_KEY -> tmdb.api_key, SERVER_PORT -> server.port, etc.
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the first file found, or "" if none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are config paths parsed as comma-separated slices when
// they arrive from the environment as plain strings.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Environment variables come in as strings, but the
// config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config paths.
//
// Examples:
//   - TMDB_API_KEY       -> tmdb.api_key
//   - TMDB_BASE_URL      -> tmdb.base_url
//   - CATALOG_PAGES      -> catalog.pages
//   - SERVER_PORT        -> server.port
//   - LOG_LEVEL          -> logging.level
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	// Short aliases kept for operator convenience.
	aliases := map[string]string{
		"tmdb_api_key":         "tmdb.api_key",
		"tmdb_base_url":        "tmdb.base_url",
		"tmdb_image_base_url":  "tmdb.image_base_url",
		"tmdb_language":        "tmdb.language",
		"tmdb_timeout":         "tmdb.timeout",
		"tmdb_max_retries":     "tmdb.max_retries",
		"tmdb_page_interval":   "tmdb.page_interval",
		"log_level":            "logging.level",
		"log_format":           "logging.format",
		"log_caller":           "logging.caller",
		"http_port":            "server.port",
		"http_host":            "server.host",
		"cors_origins":         "server.cors_origins",
		"catalog_pages":        "catalog.pages",
		"catalog_refresh_ttl":  "catalog.refresh_ttl",
		"recommend_base_price": "recommend.base_price",
	}
	if mapped, ok := aliases[key]; ok {
		return mapped
	}

	// Generic mapping: SECTION_FIELD_NAME -> section.field_name for known
	// sections; everything else is ignored to avoid polluting the config
	// with unrelated environment variables.
	for _, section := range []string{"tmdb", "catalog", "recommend", "server", "logging"} {
		prefix := section + "_"
		if strings.HasPrefix(key, prefix) {
			return section + "." + strings.TrimPrefix(key, prefix)
		}
	}

	return ""
}
