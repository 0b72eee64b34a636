// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/fmorozzo/cratedigger/internal/recommend"
)

// Config is the complete server configuration.
type Config struct {
	// Server contains HTTP server settings.
	Server ServerConfig `koanf:"server"`

	// Database contains DuckDB settings.
	Database DatabaseConfig `koanf:"database"`

	// API contains pagination and response settings.
	API APIConfig `koanf:"api"`

	// Discogs contains the Discogs import and enrichment settings.
	Discogs DiscogsConfig `koanf:"discogs"`

	// Rekordbox contains the Rekordbox library import settings.
	Rekordbox RekordboxConfig `koanf:"rekordbox"`

	// Enrichment contains the background metadata enrichment settings.
	Enrichment EnrichmentConfig `koanf:"enrichment"`

	// Recommend contains the recommendation scoring profile. Field names
	// follow the recommend package's koanf tags.
	Recommend recommend.Config `koanf:"recommend"`

	// Logging contains log output settings.
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the listen address.
	Host string `koanf:"host"`

	// Port is the listen port.
	Port int `koanf:"port"`

	// Timeout is the per-request read/write timeout.
	Timeout time.Duration `koanf:"timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// CORSOrigins lists allowed CORS origins.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitReqs is the request budget per RateLimitWindow per client.
	RateLimitReqs int `koanf:"rate_limit_reqs"`

	// RateLimitWindow is the rate limit window.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// RateLimitDisabled turns rate limiting off entirely.
	RateLimitDisabled bool `koanf:"rate_limit_disabled"`
}

// DatabaseConfig contains DuckDB settings.
type DatabaseConfig struct {
	// Path is the DuckDB database file. Empty selects in-memory.
	Path string `koanf:"path"`

	// MaxMemory is DuckDB's memory limit (e.g. "1GB").
	MaxMemory string `koanf:"max_memory"`

	// Threads is DuckDB's thread count. Zero lets DuckDB decide.
	Threads int `koanf:"threads"`
}

// APIConfig contains pagination settings.
type APIConfig struct {
	// DefaultPageSize is used when a request sets no page size.
	DefaultPageSize int `koanf:"default_page_size"`

	// MaxPageSize bounds requested page sizes.
	MaxPageSize int `koanf:"max_page_size"`
}

// DiscogsConfig contains Discogs import and enrichment settings.
type DiscogsConfig struct {
	// Enabled turns the Discogs integration on.
	Enabled bool `koanf:"enabled"`

	// URL is the Discogs API base URL.
	URL string `koanf:"url"`

	// Token is the personal access token.
	Token string `koanf:"token"`

	// Username is the collection owner on Discogs.
	Username string `koanf:"username"`

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `koanf:"timeout"`
}

// RekordboxConfig contains Rekordbox library import settings.
type RekordboxConfig struct {
	// Enabled turns the Rekordbox integration on.
	Enabled bool `koanf:"enabled"`

	// LibraryPath is the exported Rekordbox collection XML file.
	LibraryPath string `koanf:"library_path"`
}

// EnrichmentConfig contains background metadata enrichment settings.
type EnrichmentConfig struct {
	// Enabled turns the enrichment worker on.
	Enabled bool `koanf:"enabled"`

	// Interval is the worker's scan interval.
	Interval time.Duration `koanf:"interval"`

	// BatchSize caps the tracks touched per scan.
	BatchSize int `koanf:"batch_size"`
}

// LoggingConfig contains log output settings.
type LoggingConfig struct {
	// Level is the minimum level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	Format string `koanf:"format"`

	// Caller adds file:line to log entries.
	Caller bool `koanf:"caller"`
}

// Validate checks the configuration for consistency. Called by
// LoadWithKoanf; exported so tests and embedders can validate hand-built
// configurations.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive, got %s", c.Server.ShutdownTimeout)
	}
	if !c.Server.RateLimitDisabled {
		if c.Server.RateLimitReqs < 1 {
			return fmt.Errorf("server.rate_limit_reqs must be positive, got %d", c.Server.RateLimitReqs)
		}
		if c.Server.RateLimitWindow <= 0 {
			return fmt.Errorf("server.rate_limit_window must be positive, got %s", c.Server.RateLimitWindow)
		}
	}

	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("api.default_page_size must be positive, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api.max_page_size must be >= api.default_page_size, got %d < %d",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}

	if c.Discogs.Enabled {
		if c.Discogs.Token == "" {
			return fmt.Errorf("discogs.token is required when discogs.enabled is true")
		}
		if c.Discogs.Username == "" {
			return fmt.Errorf("discogs.username is required when discogs.enabled is true")
		}
		if _, err := url.ParseRequestURI(c.Discogs.URL); err != nil {
			return fmt.Errorf("discogs.url is not a valid URL: %w", err)
		}
		if c.Discogs.Timeout <= 0 {
			return fmt.Errorf("discogs.timeout must be positive, got %s", c.Discogs.Timeout)
		}
	}

	if c.Rekordbox.Enabled && c.Rekordbox.LibraryPath == "" {
		return fmt.Errorf("rekordbox.library_path is required when rekordbox.enabled is true")
	}

	if c.Enrichment.Enabled {
		if c.Enrichment.Interval <= 0 {
			return fmt.Errorf("enrichment.interval must be positive, got %s", c.Enrichment.Interval)
		}
		if c.Enrichment.BatchSize < 1 {
			return fmt.Errorf("enrichment.batch_size must be positive, got %d", c.Enrichment.BatchSize)
		}
	}

	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}

	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of trace/debug/info/warn/error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	return nil
}
