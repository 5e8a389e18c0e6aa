// Meeplegraph - Board Game Collection Similarity and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplegraph

// Package config loads and validates Meeplegraph configuration.
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority
// wins): environment variables, optional YAML config file, built-in defaults.
package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/meeplegraph/internal/similarity"
)

// Config is the root configuration for all Meeplegraph components.
type Config struct {
	BGG     BGGConfig     `koanf:"bgg"`
	Engine  EngineConfig  `koanf:"engine"`
	Server  ServerConfig  `koanf:"server"`
	Refresh RefreshConfig `koanf:"refresh"`
	Output  OutputConfig  `koanf:"output"`
	Logging LoggingConfig `koanf:"logging"`
}

// BGGConfig configures the BoardGameGeek XML API client.
type BGGConfig struct {
	// BaseURL is the XML API 2 root.
	// Default: https://boardgamegeek.com/xmlapi2
	BaseURL string `koanf:"base_url"`

	// Username is the BGG user whose owned collection is fetched.
	Username string `koanf:"username"`

	// BatchSize is how many game IDs are requested per thing call.
	// Default: 20.
	BatchSize int `koanf:"batch_size"`

	// MaxRetries is the retry budget for collection and thing requests.
	// BGG answers 202 while it builds a collection export, so retries are
	// part of normal operation, not just failure handling.
	// Default: 3.
	MaxRetries int `koanf:"max_retries"`

	// SearchMaxRetries is the retry budget for the search endpoint, which
	// is slower and flakier than the rest of the API.
	// Default: 5.
	SearchMaxRetries int `koanf:"search_max_retries"`

	// RetryBaseDelay is the initial backoff delay; it doubles per attempt.
	// Default: 1.5s.
	RetryBaseDelay time.Duration `koanf:"retry_base_delay"`

	// RequestTimeout is the per-request HTTP timeout.
	// Default: 60s.
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// RateLimit is the sustained request rate against BGG in requests
	// per second.
	// Default: 2.
	RateLimit float64 `koanf:"rate_limit"`

	// BatchPause is the idle time between thing batches.
	// Default: 500ms.
	BatchPause time.Duration `koanf:"batch_pause"`
}

// EngineConfig configures the similarity engine.
type EngineConfig struct {
	// EdgeThreshold is the minimum pairwise score for a graph edge.
	// Default: 0.35.
	EdgeThreshold float64 `koanf:"edge_threshold"`

	// TopK is the number of recommendations kept per owned game.
	// Default: 5.
	TopK int `koanf:"top_k"`

	// Weights are the five similarity component weights.
	Weights similarity.Weights `koanf:"weights"`
}

// Similarity converts the section into the engine's own config type.
func (e EngineConfig) Similarity() similarity.Config {
	return similarity.Config{
		Weights:       e.Weights,
		EdgeThreshold: e.EdgeThreshold,
		TopK:          e.TopK,
	}
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Host string `koanf:"host"`

	// Port 6337 spells MEEP on a phone keypad.
	Port int `koanf:"port"`

	// Timeout applies to reads, writes, and graceful shutdown.
	Timeout time.Duration `koanf:"timeout"`

	// CORSOrigins lists allowed origins for the front-end.
	// Default: ["*"].
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitReqs / RateLimitWindow bound request rates per client IP.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RefreshConfig configures the background collection refresh service.
type RefreshConfig struct {
	// Enabled controls whether the server periodically re-fetches the
	// collection and recomputes the graph.
	// Default: true.
	Enabled bool `koanf:"enabled"`

	// Interval is the time between refreshes.
	// Default: 24h.
	Interval time.Duration `koanf:"interval"`
}

// OutputConfig configures the generate CLI's file output.
type OutputConfig struct {
	// Dir is the directory nodes.json / edges.json are written to.
	// Default: data.
	Dir string `koanf:"dir"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for errors. Username is deliberately not
// required here: the server can start without one and return empty datasets,
// while the generate CLI enforces it via flag handling.
func (c *Config) Validate() error {
	if c.BGG.BaseURL == "" {
		return fmt.Errorf("bgg.base_url must not be empty")
	}
	if c.BGG.BatchSize < 1 {
		return fmt.Errorf("bgg.batch_size must be positive, got %d", c.BGG.BatchSize)
	}
	if c.BGG.MaxRetries < 1 {
		return fmt.Errorf("bgg.max_retries must be positive, got %d", c.BGG.MaxRetries)
	}
	if c.BGG.SearchMaxRetries < 1 {
		return fmt.Errorf("bgg.search_max_retries must be positive, got %d", c.BGG.SearchMaxRetries)
	}
	if c.BGG.RetryBaseDelay <= 0 {
		return fmt.Errorf("bgg.retry_base_delay must be positive, got %v", c.BGG.RetryBaseDelay)
	}
	if c.BGG.RequestTimeout <= 0 {
		return fmt.Errorf("bgg.request_timeout must be positive, got %v", c.BGG.RequestTimeout)
	}
	if c.BGG.RateLimit <= 0 {
		return fmt.Errorf("bgg.rate_limit must be positive, got %f", c.BGG.RateLimit)
	}

	if err := c.Engine.Similarity().Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %v", c.Server.Timeout)
	}
	if c.Server.RateLimitReqs < 1 {
		return fmt.Errorf("server.rate_limit_reqs must be positive, got %d", c.Server.RateLimitReqs)
	}
	if c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("server.rate_limit_window must be positive, got %v", c.Server.RateLimitWindow)
	}

	if c.Refresh.Enabled && c.Refresh.Interval < time.Minute {
		return fmt.Errorf("refresh.interval must be at least 1m, got %v", c.Refresh.Interval)
	}

	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir must not be empty")
	}

	return nil
}
