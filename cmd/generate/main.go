// Meeplegraph - Board Game Collection Similarity and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplegraph

// Package main is the Meeplegraph dataset generator: a one-shot CLI that
// fetches a BGG collection, computes the similarity graph, and writes
// nodes.json and edges.json for static hosting. With -query it also writes
// recommendations.json.
//
// Usage:
//
//	meeplegraph-generate -username meeplequeen
//	meeplegraph-generate -username meeplequeen -edge-threshold 0.4 -out-dir public/data
//	meeplegraph-generate -username meeplequeen -query "deckbuilder" -top-k 10
//
// Flags override the corresponding config file and environment settings.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/meeplegraph/internal/bgg"
	"github.com/tomtom215/meeplegraph/internal/config"
	"github.com/tomtom215/meeplegraph/internal/graph"
	"github.com/tomtom215/meeplegraph/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading configuration: %v\n", err)
		return 1
	}

	username := flag.String("username", cfg.BGG.Username, "BGG username whose owned collection is fetched")
	threshold := flag.Float64("edge-threshold", cfg.Engine.EdgeThreshold, "minimum pairwise similarity for a graph edge")
	outDir := flag.String("out-dir", cfg.Output.Dir, "directory nodes.json and edges.json are written to")
	query := flag.String("query", "", "optional search query; when set, recommendations.json is also written")
	topK := flag.Int("top-k", cfg.Engine.TopK, "recommendations kept per owned game (with -query)")
	flag.Parse()

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	if *username == "" {
		fmt.Fprintln(os.Stderr, "a BGG username is required: pass -username or set BGG_USERNAME")
		flag.Usage()
		return 1
	}

	engineCfg := cfg.Engine.Similarity()
	engineCfg.EdgeThreshold = *threshold

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := bgg.NewCircuitBreakerClient(&cfg.BGG)
	builder := graph.NewBuilder(client, engineCfg)

	dataset, games, err := builder.Build(ctx, *username)
	if err != nil {
		logging.Error().Err(err).Str("username", *username).Msg("Building dataset failed")
		return 1
	}

	writer, err := graph.NewWriter(*outDir)
	if err != nil {
		logging.Error().Err(err).Str("dir", *outDir).Msg("Creating output directory failed")
		return 1
	}
	if err := writer.WriteDataset(dataset); err != nil {
		logging.Error().Err(err).Msg("Writing dataset failed")
		return 1
	}

	if *query != "" {
		recs, err := builder.Recommend(ctx, games, *query, *topK)
		if err != nil {
			logging.Error().Err(err).Str("query", *query).Msg("Computing recommendations failed")
			return 1
		}
		if err := writer.WriteRecommendations(recs); err != nil {
			logging.Error().Err(err).Msg("Writing recommendations failed")
			return 1
		}
	}

	logging.Info().
		Str("username", *username).
		Int("nodes", len(dataset.Nodes)).
		Int("edges", len(dataset.Edges)).
		Str("out_dir", *outDir).
		Msg("Dataset generated")
	return 0
}
