// Meeplegraph - Board Game Collection Similarity and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplegraph

// Package main is the entry point for the Meeplegraph server.
//
// Meeplegraph fetches a BoardGameGeek user's owned collection, computes
// pairwise similarity between games, and serves the resulting graph plus
// on-demand recommendations over a REST API.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered loading (env > config file > defaults)
//  2. BGG client: rate-limited XML API client behind a circuit breaker
//  3. Dataset snapshot: in-memory holder for the latest computed graph
//  4. Supervisor tree: refresh service (data layer) and HTTP server (api layer)
//
// # Configuration
//
// Key environment variables:
//   - BGG_USERNAME: the collection to fetch; without it the server starts
//     but serves 503 until a username is configured
//   - EDGE_THRESHOLD: minimum pairwise score for a graph edge (default 0.35)
//   - HTTP_PORT: listen port (default 6337)
//   - REFRESH_INTERVAL: how often the collection is re-fetched (default 24h)
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server drains
// in-flight requests within the configured timeout and the refresh service
// stops at its next checkpoint.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/tomtom215/meeplegraph/internal/api"
	"github.com/tomtom215/meeplegraph/internal/bgg"
	"github.com/tomtom215/meeplegraph/internal/config"
	"github.com/tomtom215/meeplegraph/internal/graph"
	"github.com/tomtom215/meeplegraph/internal/logging"
	"github.com/tomtom215/meeplegraph/internal/metrics"
	"github.com/tomtom215/meeplegraph/internal/supervisor"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	logging.Info().
		Str("version", version).
		Str("username", cfg.BGG.Username).
		Float64("edge_threshold", cfg.Engine.EdgeThreshold).
		Str("addr", cfg.Server.Addr()).
		Msg("Starting Meeplegraph")

	if cfg.BGG.Username == "" {
		logging.Warn().Msg("BGG_USERNAME is not set; the API will serve 503 until a dataset exists")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := bgg.NewCircuitBreakerClient(&cfg.BGG)
	snapshot := graph.NewSnapshot()
	builder := graph.NewBuilder(client, cfg.Engine.Similarity())

	var refresh *graph.RefreshService
	if cfg.Refresh.Enabled {
		refresh = graph.NewRefreshService(builder, snapshot, cfg.BGG.Username, cfg.Refresh.Interval)
	} else {
		logging.Info().Msg("Background refresh disabled (REFRESH_ENABLED=false)")
	}

	handler := api.NewHandler(snapshot, builder, refresh, version)
	router := api.NewRouter(cfg.Server, handler)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if refresh != nil {
		tree.AddDataService(refresh)
	}
	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.Server.Addr(), cfg.Server.Timeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Meeplegraph stopped gracefully")
}
