// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

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

	"github.com/fmorozzo/cratedigger/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cratedigger/config.yaml",
	"/etc/cratedigger/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all defaults applied. The recommend
// section carries the server scoring profile.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8086,
			Timeout:           30 * time.Second,
			ShutdownTimeout:   15 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Database: DatabaseConfig{
			Path:      "/data/cratedigger.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		API: APIConfig{
			DefaultPageSize: 50,
			MaxPageSize:     500,
		},
		Discogs: DiscogsConfig{
			Enabled:  false,
			URL:      "https://api.discogs.com",
			Token:    "",
			Username: "",
			Timeout:  30 * time.Second,
		},
		Rekordbox: RekordboxConfig{
			Enabled:     false,
			LibraryPath: "",
		},
		Enrichment: EnrichmentConfig{
			Enabled:   true,
			Interval:  10 * time.Minute,
			BatchSize: 200,
		},
		Recommend: *recommend.DefaultConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. Environment variables (highest priority)
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Env var names map onto koanf paths: HTTP_PORT -> server.port.
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
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

// findConfigFile searches the env override, then the default paths.
// Returns the first existing file, or empty string.
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

// sliceConfigPaths lists config paths parsed as comma-separated slices
// when supplied through environment variables.
var sliceConfigPaths = []string{
	"server.cors_origins",
	"recommend.affinity.genre_stoplist",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars come in as strings, but the config expects
// slices; YAML values are already slices and pass through.
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
			p = strings.TrimSpace(p)
			if p != "" {
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

// envTransformFunc maps flat environment variable names onto nested koanf
// config paths. Unmapped variables return empty string and are skipped, so
// random process environment cannot pollute the configuration.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - DUCKDB_PATH -> database.path
//   - DISCOGS_TOKEN -> discogs.token
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"http_host":             "server.host",
		"http_port":             "server.port",
		"http_timeout":          "server.timeout",
		"http_shutdown_timeout": "server.shutdown_timeout",
		"cors_origins":          "server.cors_origins",
		"rate_limit_requests":   "server.rate_limit_reqs",
		"rate_limit_window":     "server.rate_limit_window",
		"disable_rate_limit":    "server.rate_limit_disabled",

		// Database mappings
		"duckdb_path":       "database.path",
		"duckdb_max_memory": "database.max_memory",
		"duckdb_threads":    "database.threads",

		// API mappings
		"api_default_page_size": "api.default_page_size",
		"api_max_page_size":     "api.max_page_size",

		// Discogs mappings
		"discogs_enabled":  "discogs.enabled",
		"discogs_url":      "discogs.url",
		"discogs_token":    "discogs.token",
		"discogs_username": "discogs.username",
		"discogs_timeout":  "discogs.timeout",

		// Rekordbox mappings
		"rekordbox_enabled":      "rekordbox.enabled",
		"rekordbox_library_path": "rekordbox.library_path",

		// Enrichment mappings
		"enrichment_enabled":    "enrichment.enabled",
		"enrichment_interval":   "enrichment.interval",
		"enrichment_batch_size": "enrichment.batch_size",

		// Recommendation scoring mappings
		"recommend_bpm_tight_pct":           "recommend.bpm.tight_pct",
		"recommend_bpm_mid_pct":             "recommend.bpm.mid_pct",
		"recommend_bpm_wide_pct":            "recommend.bpm.wide_pct",
		"recommend_bpm_tight_score":         "recommend.bpm.tight_score",
		"recommend_bpm_mid_score":           "recommend.bpm.mid_score",
		"recommend_bpm_wide_score":          "recommend.bpm.wide_score",
		"recommend_key_match_bonus":         "recommend.key.match_bonus",
		"recommend_label_bonus":             "recommend.affinity.label_bonus",
		"recommend_label_artist_stack":      "recommend.affinity.label_artist_stack_bonus",
		"recommend_artist_bonus":            "recommend.affinity.artist_bonus",
		"recommend_genre_tag_bonus":         "recommend.affinity.genre_tag_bonus",
		"recommend_genre_stoplist":          "recommend.affinity.genre_stoplist",
		"recommend_year_exact_bonus":        "recommend.affinity.year_exact_bonus",
		"recommend_year_near_bonus":         "recommend.affinity.year_near_bonus",
		"recommend_year_window":             "recommend.affinity.year_window",
		"recommend_transition_bonus":        "recommend.priority.transition_bonus",
		"recommend_same_label_bonus":        "recommend.priority.same_label_bonus",
		"recommend_same_artist_bonus":       "recommend.priority.same_artist_bonus",
		"recommend_drop_failed_transitions": "recommend.priority.drop_failed_transitions",
		"recommend_max_candidates":          "recommend.limits.max_candidates",
		"recommend_default_k":               "recommend.limits.default_k",
		"recommend_max_k":                   "recommend.limits.max_k",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unmapped keys are skipped.
	return ""
}
