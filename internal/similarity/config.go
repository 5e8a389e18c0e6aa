// Meeplegraph - Board Game Collection Similarity and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplegraph

package similarity

import "fmt"

// Weights defines the relative contribution of each similarity component.
// Weights are divided by their sum at scoring time, so they don't need to
// sum to 1.0 — only to something positive.
type Weights struct {
	// Mechanics is the weight of mechanic-set overlap.
	// Default: 0.40.
	Mechanics float64 `json:"mechanics" koanf:"mechanics"`

	// Categories is the weight of category-set overlap.
	// Default: 0.25.
	Categories float64 `json:"categories" koanf:"categories"`

	// Numeric is the weight of cosine similarity over the z-scored
	// numeric feature vectors.
	// Default: 0.20.
	Numeric float64 `json:"numeric" koanf:"numeric"`

	// Designers is the weight of designer-set overlap.
	// Default: 0.10.
	Designers float64 `json:"designers" koanf:"designers"`

	// Publishers is the weight of publisher-set overlap.
	// Default: 0.05.
	Publishers float64 `json:"publishers" koanf:"publishers"`
}

// DefaultWeights returns the production default component weights.
func DefaultWeights() Weights {
	return Weights{
		Mechanics:  0.40,
		Categories: 0.25,
		Numeric:    0.20,
		Designers:  0.10,
		Publishers: 0.05,
	}
}

// Sum returns the total of all component weights.
func (w Weights) Sum() float64 {
	return w.Mechanics + w.Categories + w.Numeric + w.Designers + w.Publishers
}

// Validate checks that every weight is non-negative and that at least one is
// positive. A zero sum would make the weighted mean undefined.
func (w Weights) Validate() error {
	if w.Mechanics < 0 {
		return fmt.Errorf("weights.mechanics must be non-negative, got %f", w.Mechanics)
	}
	if w.Categories < 0 {
		return fmt.Errorf("weights.categories must be non-negative, got %f", w.Categories)
	}
	if w.Numeric < 0 {
		return fmt.Errorf("weights.numeric must be non-negative, got %f", w.Numeric)
	}
	if w.Designers < 0 {
		return fmt.Errorf("weights.designers must be non-negative, got %f", w.Designers)
	}
	if w.Publishers < 0 {
		return fmt.Errorf("weights.publishers must be non-negative, got %f", w.Publishers)
	}
	if w.Sum() <= 0 {
		return fmt.Errorf("weights must sum to a positive value, got %f", w.Sum())
	}
	return nil
}

// Config contains all configuration for the similarity engine.
type Config struct {
	// Weights defines the component weights of the pairwise score.
	Weights Weights `json:"weights" koanf:"weights"`

	// EdgeThreshold is the minimum score for two games to be connected in
	// the output graph. Must be in [0, 1].
	// Default: 0.35.
	EdgeThreshold float64 `json:"edge_threshold" koanf:"edge_threshold"`

	// TopK is the number of candidates retained per owned game by the
	// cross-set recommender.
	// Default: 5.
	TopK int `json:"top_k" koanf:"top_k"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() Config {
	return Config{
		Weights:       DefaultWeights(),
		EdgeThreshold: 0.35,
		TopK:          5,
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.EdgeThreshold < 0 || c.EdgeThreshold > 1 {
		return fmt.Errorf("edge_threshold must be in [0, 1], got %f", c.EdgeThreshold)
	}
	if c.TopK < 1 {
		return fmt.Errorf("top_k must be positive, got %d", c.TopK)
	}
	return nil
}
