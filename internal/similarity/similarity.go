// Meeplegraph - Board Game Collection Similarity and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplegraph

package similarity

import (
	"math"
	"strings"

	"github.com/tomtom215/meeplegraph/internal/models"
)

// nameSet builds a case-insensitive set from the names of a link list.
// Blank names are excluded; surrounding whitespace is ignored.
func nameSet(links []models.Link) map[string]struct{} {
	set := make(map[string]struct{}, len(links))
	for _, l := range links {
		name := strings.ToLower(strings.TrimSpace(l.Name))
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	return set
}

// jaccard computes the Jaccard similarity of two sets:
// |intersection| / |union|. Two empty sets are maximally similar (1.0);
// exactly one empty set scores 0.0.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// cosine computes the cosine similarity of two vectors, clamped to [0, 1].
//
// Z-scored vectors can point in opposite directions, which would yield a
// negative raw cosine; clamping keeps the blended score inside its documented
// [0, 1] bound. Mismatched lengths and zero-magnitude vectors score 0.0.
func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0.0
	}
	if sim > 1 {
		return 1.0
	}
	return sim
}

// Score computes the weighted pairwise similarity of two games given their
// precomputed normalized numeric vectors.
//
// The result is the weighted mean of five components — mechanic, category,
// designer and publisher set overlap plus numeric cosine — and always falls
// in [0, 1] for validated weights. Score is pure: no side effects, no
// failure modes.
func Score(a, b *models.Game, vecA, vecB []float64, w Weights) float64 {
	total := w.Sum()
	if total <= 0 {
		return 0.0
	}

	score := w.Mechanics * jaccard(nameSet(a.Mechanics), nameSet(b.Mechanics))
	score += w.Categories * jaccard(nameSet(a.Categories), nameSet(b.Categories))
	score += w.Numeric * cosine(vecA, vecB)
	score += w.Designers * jaccard(nameSet(a.Designers), nameSet(b.Designers))
	score += w.Publishers * jaccard(nameSet(a.Publishers), nameSet(b.Publishers))

	return score / total
}
