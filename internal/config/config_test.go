// Meeplegraph - Board Game Collection Similarity and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplegraph
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
	if cfg.BGG.BaseURL != "https://boardgamegeek.com/xmlapi2" {
		t.Errorf("unexpected default base URL: %s", cfg.BGG.BaseURL)
	}
	if cfg.BGG.BatchSize != 20 {
		t.Errorf("default batch size = %d, want 20", cfg.BGG.BatchSize)
	}
	if cfg.Engine.EdgeThreshold != 0.35 {
		t.Errorf("default edge threshold = %f, want 0.35", cfg.Engine.EdgeThreshold)
	}
	if cfg.Engine.TopK != 5 {
		t.Errorf("default top_k = %d, want 5", cfg.Engine.TopK)
	}
	if cfg.Server.Port != 6337 {
		t.Errorf("default port = %d, want 6337", cfg.Server.Port)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BGG_USERNAME", "meeplequeen")
	t.Setenv("EDGE_THRESHOLD", "0.5")
	t.Setenv("WEIGHT_MECHANICS", "0.6")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BGG.Username != "meeplequeen" {
		t.Errorf("username = %q, want meeplequeen", cfg.BGG.Username)
	}
	if cfg.Engine.EdgeThreshold != 0.5 {
		t.Errorf("edge threshold = %f, want 0.5", cfg.Engine.EdgeThreshold)
	}
	if cfg.Engine.Weights.Mechanics != 0.6 {
		t.Errorf("mechanics weight = %f, want 0.6", cfg.Engine.Weights.Mechanics)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Logging.Level)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Server.CORSOrigins) != len(want) {
		t.Fatalf("cors origins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
	for i := range want {
		if cfg.Server.CORSOrigins[i] != want[i] {
			t.Errorf("cors origins[%d] = %q, want %q", i, cfg.Server.CORSOrigins[i], want[i])
		}
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
bgg:
  username: filesideuser
engine:
  edge_threshold: 0.42
server:
  port: 9000
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BGG.Username != "filesideuser" {
		t.Errorf("username = %q, want filesideuser", cfg.BGG.Username)
	}
	if cfg.Engine.EdgeThreshold != 0.42 {
		t.Errorf("edge threshold = %f, want 0.42", cfg.Engine.EdgeThreshold)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}
	// Untouched values keep their defaults.
	if cfg.BGG.BatchSize != 20 {
		t.Errorf("batch size = %d, want default 20", cfg.BGG.BatchSize)
	}
}

func TestEnvOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "9001")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9001 {
		t.Errorf("port = %d, want env override 9001", cfg.Server.Port)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base URL", func(c *Config) { c.BGG.BaseURL = "" }},
		{"zero batch size", func(c *Config) { c.BGG.BatchSize = 0 }},
		{"zero retries", func(c *Config) { c.BGG.MaxRetries = 0 }},
		{"negative rate limit", func(c *Config) { c.BGG.RateLimit = -1 }},
		{"negative threshold", func(c *Config) { c.Engine.EdgeThreshold = -0.1 }},
		{"threshold above one", func(c *Config) { c.Engine.EdgeThreshold = 1.5 }},
		{"zero top k", func(c *Config) { c.Engine.TopK = 0 }},
		{"negative weight", func(c *Config) { c.Engine.Weights.Mechanics = -0.4 }},
		{"all-zero weights", func(c *Config) {
			c.Engine.Weights.Mechanics = 0
			c.Engine.Weights.Categories = 0
			c.Engine.Weights.Numeric = 0
			c.Engine.Weights.Designers = 0
			c.Engine.Weights.Publishers = 0
		}},
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"zero server timeout", func(c *Config) { c.Server.Timeout = 0 }},
		{"refresh interval too short", func(c *Config) { c.Refresh.Interval = time.Second }},
		{"empty output dir", func(c *Config) { c.Output.Dir = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestEngineConfigSimilarityBridge(t *testing.T) {
	cfg := defaultConfig()
	sim := cfg.Engine.Similarity()
	if sim.EdgeThreshold != cfg.Engine.EdgeThreshold {
		t.Errorf("EdgeThreshold = %f, want %f", sim.EdgeThreshold, cfg.Engine.EdgeThreshold)
	}
	if sim.TopK != cfg.Engine.TopK {
		t.Errorf("TopK = %d, want %d", sim.TopK, cfg.Engine.TopK)
	}
	if sim.Weights != cfg.Engine.Weights {
		t.Errorf("Weights = %+v, want %+v", sim.Weights, cfg.Engine.Weights)
	}
}

func TestAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 6337}
	if got := s.Addr(); got != "127.0.0.1:6337" {
		t.Errorf("Addr() = %q, want 127.0.0.1:6337", got)
	}
}
