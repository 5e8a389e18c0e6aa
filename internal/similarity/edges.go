// Meeplegraph - Board Game Collection Similarity and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplegraph

package similarity

import (
	"sort"

	"github.com/tomtom215/meeplegraph/internal/models"
)

// BuildEdges computes the similarity graph over a set of games.
//
// Features are normalized once over the whole set, then every unordered pair
// is scored exactly once. Pairs at or above the threshold become edges,
// returned sorted by descending score. Game IDs are enumerated in ascending
// order and the sort is stable, so identical input always yields identical
// output regardless of map iteration order.
//
// Cost is O(n²) pairwise comparisons; callers bound n before invoking.
func BuildEdges(games map[string]*models.Game, threshold float64, w Weights) []models.Edge {
	ids := make([]string, 0, len(games))
	for id := range games {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	vectors := NormalizeFeatures(games)

	var edges []models.Edge
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := ids[i], ids[j]
			score := Score(games[a], games[b], vectors[a], vectors[b], w)
			if score >= threshold {
				edges = append(edges, models.Edge{Source: a, Target: b, Weight: score})
			}
		}
	}

	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].Weight > edges[j].Weight
	})
	return edges
}
