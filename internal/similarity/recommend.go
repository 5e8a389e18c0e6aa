// Meeplegraph - Board Game Collection Similarity and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplegraph

package similarity

import (
	"sort"

	"github.com/tomtom215/meeplegraph/internal/models"
)

// Recommend ranks candidate games against every owned game and keeps the
// top-k per owned game.
//
// Features are normalized over the union of both sets, so numeric similarity
// is computed on a shared scale rather than per-set scales. Candidates are
// expected to be pre-filtered against the owned set upstream, but any overlap
// is skipped again here: a game never appears in its own recommendations.
//
// Every owned game ID is present as a key in the result, with an empty slice
// when no eligible candidate exists. Empty candidate input yields an empty
// map, which callers interpret as "insufficient data" rather than an error.
func Recommend(owned, candidates map[string]*models.Game, topK int, w Weights) map[string][]models.Recommendation {
	if len(candidates) == 0 {
		return map[string][]models.Recommendation{}
	}
	if topK < 1 {
		topK = DefaultConfig().TopK
	}

	// Shared normalization scale across both sets. Owned entries win on ID
	// collision, matching the skip below.
	union := make(map[string]*models.Game, len(owned)+len(candidates))
	for id, g := range candidates {
		union[id] = g
	}
	for id, g := range owned {
		union[id] = g
	}
	vectors := NormalizeFeatures(union)

	candidateIDs := make([]string, 0, len(candidates))
	for id := range candidates {
		if _, isOwned := owned[id]; isOwned {
			continue
		}
		candidateIDs = append(candidateIDs, id)
	}
	sort.Strings(candidateIDs)

	recs := make(map[string][]models.Recommendation, len(owned))
	for ownedID, ownedGame := range owned {
		scored := make([]models.Recommendation, 0, len(candidateIDs))
		for _, candID := range candidateIDs {
			cand := candidates[candID]
			score := Score(ownedGame, cand, vectors[ownedID], vectors[candID], w)
			scored = append(scored, models.Recommendation{
				ID:     candID,
				Name:   cand.Name,
				Score:  score,
				BGGURL: cand.URL(),
			})
		}

		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].Score > scored[j].Score
		})
		if len(scored) > topK {
			scored = scored[:topK]
		}
		recs[ownedID] = scored
	}
	return recs
}
