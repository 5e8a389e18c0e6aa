// Meeplegraph - Board Game Collection Similarity and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplegraph

// Package similarity implements the content-based scoring engine at the heart
// of Meeplegraph.
//
// The engine is pure, deterministic, and I/O free. Given a set of normalized
// game records it produces either:
//
//   - an undirected similarity graph over the set (BuildEdges), or
//   - per-owned-game top-k rankings of an external candidate set (Recommend).
//
// Both paths share the same pairwise score:
//
//	score(a, b) = ( w_mech * jaccard(mechanics_a, mechanics_b) +
//	                w_cat  * jaccard(categories_a, categories_b) +
//	                w_num  * cosine(vec_a, vec_b) +
//	                w_des  * jaccard(designers_a, designers_b) +
//	                w_pub  * jaccard(publishers_a, publishers_b) ) / sum(w)
//
// where vec_a and vec_b are seven-dimensional z-score normalized numeric
// feature vectors. Normalization statistics are always computed over the
// exact set of games being compared, so the owned-only graph and the
// owned+candidates recommendation pass each get their own scale.
//
// Every component is bounded to [0,1] (cosine is clamped), weights are
// non-negative, and the weighted mean divides by the weight sum, so the final
// score is always in [0,1].
//
// The engine never returns errors: missing or malformed numeric attributes
// degrade to zero before normalization, and empty attribute sets are handled
// by the Jaccard edge rules (both empty scores 1.0, exactly one empty scores
// 0.0). The only caller-visible "failure" is an empty result.
package similarity
