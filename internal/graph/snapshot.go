// Meeplegraph - Board Game Collection Similarity and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplegraph

package graph

import (
	"sync"

	"github.com/tomtom215/meeplegraph/internal/metrics"
	"github.com/tomtom215/meeplegraph/internal/models"
)

// Snapshot holds the most recently computed dataset for lock-free-ish reads
// by API handlers while the refresh service replaces it in the background.
//
// Readers receive the stored pointers; datasets are treated as immutable
// after Store. The refresh service always builds a fresh dataset rather than
// mutating the current one.
type Snapshot struct {
	mu      sync.RWMutex
	dataset *models.Dataset
	games   map[string]*models.Game
}

// NewSnapshot creates an empty snapshot. Current returns nil until the first
// Store, which handlers surface as 503 Service Unavailable.
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Store atomically replaces the current dataset and its game records.
func (s *Snapshot) Store(dataset *models.Dataset, games map[string]*models.Game) {
	s.mu.Lock()
	s.dataset = dataset
	s.games = games
	s.mu.Unlock()

	if dataset != nil {
		metrics.UpdateDatasetGauges(len(dataset.Nodes), len(dataset.Edges))
	}
}

// Current returns the latest dataset, or nil if none has been computed yet.
func (s *Snapshot) Current() *models.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// Games returns the game records backing the current dataset, or nil.
func (s *Snapshot) Games() map[string]*models.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.games
}

// Ready reports whether a dataset is available to serve.
func (s *Snapshot) Ready() bool {
	return s.Current() != nil
}
