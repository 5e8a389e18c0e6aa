// Meeplegraph - Board Game Collection Similarity and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplegraph

// Package graph assembles similarity datasets: it pulls a collection through
// the BGG client, runs the similarity engine, and produces the node/edge
// structure the API serves and the generator writes to disk.
package graph

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/meeplegraph/internal/bgg"
	"github.com/tomtom215/meeplegraph/internal/logging"
	"github.com/tomtom215/meeplegraph/internal/metrics"
	"github.com/tomtom215/meeplegraph/internal/models"
	"github.com/tomtom215/meeplegraph/internal/similarity"
)

// Builder turns a BGG username into a computed similarity dataset.
type Builder struct {
	client bgg.ClientInterface
	cfg    similarity.Config
}

// NewBuilder creates a dataset builder.
func NewBuilder(client bgg.ClientInterface, cfg similarity.Config) *Builder {
	return &Builder{client: client, cfg: cfg}
}

// Build fetches the user's owned collection, loads full game details, and
// computes the similarity graph. Nodes are ordered by game ID so repeated
// builds of the same collection produce identical output.
func (b *Builder) Build(ctx context.Context, username string) (*models.Dataset, map[string]*models.Game, error) {
	games, err := b.FetchGames(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	return b.Compute(username, games), games, nil
}

// FetchGames retrieves the owned collection's full game records without
// computing edges. The recommender works directly on game records, not on
// the rendered dataset.
func (b *Builder) FetchGames(ctx context.Context, username string) (map[string]*models.Game, error) {
	collection, err := b.client.GetCollection(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("fetching collection: %w", err)
	}
	if len(collection) == 0 {
		return nil, fmt.Errorf("no owned games found for %q; the collection may be private or empty", username)
	}

	ids := make([]string, 0, len(collection))
	for _, item := range collection {
		ids = append(ids, item.ID)
	}

	games, err := b.client.GetThings(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetching game details: %w", err)
	}

	// The thing endpoint occasionally omits a name; the collection entry is
	// the fallback.
	for _, item := range collection {
		if g, ok := games[item.ID]; ok && g.Name == "" {
			g.Name = item.Name
		}
	}
	return games, nil
}

// Compute runs the similarity engine over fetched games and renders the
// dataset.
func (b *Builder) Compute(username string, games map[string]*models.Game) *models.Dataset {
	start := time.Now()
	edges := similarity.BuildEdges(games, b.cfg.EdgeThreshold, b.cfg.Weights)
	metrics.RecordEngineCompute("edges", len(games), time.Since(start))
	metrics.EngineEdgesProduced.Observe(float64(len(edges)))

	dataset := &models.Dataset{
		Username:    username,
		Nodes:       nodesFromGames(games),
		Edges:       edges,
		GeneratedAt: time.Now().UTC(),
	}

	logging.Info().
		Str("username", username).
		Int("nodes", len(dataset.Nodes)).
		Int("edges", len(dataset.Edges)).
		Float64("threshold", b.cfg.EdgeThreshold).
		Msg("Built similarity dataset")
	return dataset
}

// Recommend searches BGG for candidate games matching query and scores them
// against the owned games, returning the top matches per owned game.
func (b *Builder) Recommend(ctx context.Context, owned map[string]*models.Game, query string, topK int) (map[string][]models.Recommendation, error) {
	if topK <= 0 {
		topK = b.cfg.TopK
	}

	results, err := b.client.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("searching candidates: %w", err)
	}

	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	candidates, err := b.client.GetThings(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetching candidate details: %w", err)
	}

	start := time.Now()
	recs := similarity.Recommend(owned, candidates, topK, b.cfg.Weights)
	metrics.RecordEngineCompute("recommend", len(owned)+len(candidates), time.Since(start))

	logging.Info().
		Str("query", query).
		Int("owned", len(owned)).
		Int("candidates", len(candidates)).
		Int("top_k", topK).
		Msg("Computed recommendations")
	return recs, nil
}

// nodesFromGames renders games as front-end nodes, ordered by game ID.
func nodesFromGames(games map[string]*models.Game) []models.Node {
	ids := make([]string, 0, len(games))
	for id := range games {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	nodes := make([]models.Node, 0, len(ids))
	for _, id := range ids {
		g := games[id]
		nodes = append(nodes, models.Node{
			ID:            g.ID,
			Label:         g.Name,
			Name:          g.Name,
			Mechanics:     linkNames(g.Mechanics),
			Categories:    linkNames(g.Categories),
			AverageWeight: g.AverageWeight,
			AverageRating: g.AverageRating,
			PlayingTime:   g.PlayingTime,
			MinPlayers:    g.MinPlayers,
			MaxPlayers:    g.MaxPlayers,
			BGGURL:        g.URL(),
		})
	}
	return nodes
}

func linkNames(links []models.Link) []string {
	names := make([]string, 0, len(links))
	for _, l := range links {
		names = append(names, l.Name)
	}
	return names
}
