// Meeplegraph - Board Game Collection Similarity and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplegraph

package similarity

import (
	"math"

	"github.com/tomtom215/meeplegraph/internal/models"
)

// FeatureCount is the fixed length of every numeric feature vector.
const FeatureCount = 7

// Feature order is fixed: rating, weight, playing time, min players,
// max players, min age, publication year. Normalization statistics are
// computed per index across the comparison set.
const (
	featRating = iota
	featWeight
	featPlayingTime
	featMinPlayers
	featMaxPlayers
	featMinAge
	featYear
)

// rawFeatures extracts the raw numeric vector for a game. Fields the parse
// boundary could not populate are already zero, which is exactly the
// zero-fill policy the normalizer expects.
func rawFeatures(g *models.Game) [FeatureCount]float64 {
	return [FeatureCount]float64{
		featRating:      g.AverageRating,
		featWeight:      g.AverageWeight,
		featPlayingTime: float64(g.PlayingTime),
		featMinPlayers:  float64(g.MinPlayers),
		featMaxPlayers:  float64(g.MaxPlayers),
		featMinAge:      float64(g.MinAge),
		featYear:        float64(g.YearPublished),
	}
}

// NormalizeFeatures computes a z-score normalized numeric vector for every
// game in the set.
//
// Mean and population standard deviation are computed per feature across the
// given set only, so vectors are comparable exclusively within the set they
// were normalized against. Callers must re-run this whenever the comparison
// set changes (owned-only vs. owned+candidates).
//
// A zero standard deviation (all values identical, or a single game) is
// substituted with 1.0, which maps every value of that feature to 0.
//
// Every game ID present in the input has a vector in the output. Values are
// unclamped and may fall outside [-1, 1].
func NormalizeFeatures(games map[string]*models.Game) map[string][]float64 {
	raw := make(map[string][FeatureCount]float64, len(games))
	for id, g := range games {
		raw[id] = rawFeatures(g)
	}

	var mean, std [FeatureCount]float64
	n := float64(len(raw))
	if n > 0 {
		for _, v := range raw {
			for i := 0; i < FeatureCount; i++ {
				mean[i] += v[i]
			}
		}
		for i := 0; i < FeatureCount; i++ {
			mean[i] /= n
		}
		for _, v := range raw {
			for i := 0; i < FeatureCount; i++ {
				d := v[i] - mean[i]
				std[i] += d * d
			}
		}
		for i := 0; i < FeatureCount; i++ {
			std[i] = math.Sqrt(std[i] / n)
		}
	}
	for i := 0; i < FeatureCount; i++ {
		if std[i] == 0 {
			std[i] = 1.0
		}
	}

	vectors := make(map[string][]float64, len(raw))
	for id, v := range raw {
		vec := make([]float64, FeatureCount)
		for i := 0; i < FeatureCount; i++ {
			vec[i] = (v[i] - mean[i]) / std[i]
		}
		vectors[id] = vec
	}
	return vectors
}
