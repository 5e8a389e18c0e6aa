// Meeplegraph - Board Game Collection Similarity and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplegraph

package similarity

import (
	"math"
	"testing"

	"github.com/tomtom215/meeplegraph/internal/models"
)

func links(names ...string) []models.Link {
	out := make([]models.Link, 0, len(names))
	for i, n := range names {
		out = append(out, models.Link{ID: string(rune('a' + i)), Name: n})
	}
	return out
}

func set(names ...string) map[string]struct{} {
	return nameSet(links(names...))
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b map[string]struct{}
		want float64
	}{
		{name: "both empty", a: set(), b: set(), want: 1.0},
		{name: "one empty", a: set(), b: set("x"), want: 0.0},
		{name: "other empty", a: set("x"), b: set(), want: 0.0},
		{name: "partial overlap", a: set("a", "b"), b: set("b", "c"), want: 1.0 / 3.0},
		{name: "identical", a: set("a", "b"), b: set("a", "b"), want: 1.0},
		{name: "disjoint", a: set("a"), b: set("b"), want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := jaccard(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("jaccard() = %f, want %f", got, tt.want)
			}
			// Jaccard is symmetric.
			if rev := jaccard(tt.b, tt.a); rev != got {
				t.Errorf("jaccard not symmetric: %f vs %f", got, rev)
			}
		})
	}
}

func TestNameSet(t *testing.T) {
	got := nameSet([]models.Link{
		{ID: "1", Name: "Worker Placement"},
		{ID: "2", Name: "  worker placement  "},
		{ID: "3", Name: ""},
		{ID: "4", Name: "   "},
	})
	if len(got) != 1 {
		t.Fatalf("nameSet() kept %d entries, want 1 (case-folded, blanks dropped)", len(got))
	}
	if _, ok := got["worker placement"]; !ok {
		t.Errorf("nameSet() missing lowercased entry")
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{name: "identical non-zero", a: []float64{1, 2, 3}, b: []float64{1, 2, 3}, want: 1.0},
		{name: "zero vector", a: []float64{1, 2, 3}, b: []float64{0, 0, 0}, want: 0.0},
		{name: "both zero", a: []float64{0, 0}, b: []float64{0, 0}, want: 0.0},
		{name: "length mismatch", a: []float64{1, 2}, b: []float64{1, 2, 3}, want: 0.0},
		{name: "empty", a: nil, b: nil, want: 0.0},
		{name: "orthogonal", a: []float64{1, 0}, b: []float64{0, 1}, want: 0.0},
		{name: "opposite clamps to zero", a: []float64{1, 1}, b: []float64{-1, -1}, want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosine(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("cosine() = %f, want %f", got, tt.want)
			}
			if rev := cosine(tt.b, tt.a); rev != got {
				t.Errorf("cosine not symmetric: %f vs %f", got, rev)
			}
		})
	}
}

func TestCosineBounds(t *testing.T) {
	// Arbitrary vectors, including negative components typical of z-scored
	// data, must stay inside [0, 1].
	vectors := [][]float64{
		{-1.3, 0.2, 2.2, 0, -0.5, 1, 1},
		{0.4, -2.1, 0.3, 0.9, 0, -1, 0.1},
		{1, 1, 1, 1, 1, 1, 1},
	}
	for i, a := range vectors {
		for j, b := range vectors {
			got := cosine(a, b)
			if got < 0 || got > 1 {
				t.Errorf("cosine(v%d, v%d) = %f, want within [0, 1]", i, j, got)
			}
		}
	}
}

func TestScoreEmptyNumericHistory(t *testing.T) {
	// Two records with no numeric data at all: the numeric component must
	// contribute zero and the blended score must stay within [0, 1].
	games := map[string]*models.Game{
		"1": {ID: "1", Name: "A"},
		"2": {ID: "2", Name: "B"},
	}
	vectors := NormalizeFeatures(games)

	got := Score(games["1"], games["2"], vectors["1"], vectors["2"], DefaultWeights())
	if got < 0 || got > 1 {
		t.Fatalf("Score() = %f, want within [0, 1]", got)
	}

	// All four attribute sets are empty (Jaccard 1.0 each) and the numeric
	// vectors are all-zero (cosine 0.0), so the expected score is the
	// non-numeric weight share: 0.80 with default weights.
	want := (0.40 + 0.25 + 0.10 + 0.05) / 1.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Score() = %f, want %f", got, want)
	}
}

func TestScoreSymmetric(t *testing.T) {
	games := map[string]*models.Game{
		"1": {ID: "1", Mechanics: links("Deck Building", "Drafting"), PlayingTime: 45, AverageWeight: 2.2},
		"2": {ID: "2", Mechanics: links("Drafting", "Set Collection"), PlayingTime: 90, AverageWeight: 3.1},
	}
	vectors := NormalizeFeatures(games)
	w := DefaultWeights()

	ab := Score(games["1"], games["2"], vectors["1"], vectors["2"], w)
	ba := Score(games["2"], games["1"], vectors["2"], vectors["1"], w)
	if ab != ba {
		t.Errorf("Score not symmetric: %f vs %f", ab, ba)
	}
}

func TestScoreZeroWeightSum(t *testing.T) {
	a := &models.Game{ID: "1", Mechanics: links("x")}
	b := &models.Game{ID: "2", Mechanics: links("x")}
	if got := Score(a, b, nil, nil, Weights{}); got != 0 {
		t.Errorf("Score() with zero weights = %f, want 0", got)
	}
}
