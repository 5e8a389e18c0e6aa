// Meeplegraph - Board Game Collection Similarity and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplegraph

package graph

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/tomtom215/meeplegraph/internal/logging"
	"github.com/tomtom215/meeplegraph/internal/models"
)

// Writer persists computed datasets as the JSON files the static front-end
// loads: nodes.json and edges.json, plus recommendations.json when the
// generator is asked for recommendations.
type Writer struct {
	dir string
}

// NewWriter creates a writer targeting dir, creating it if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	return &Writer{dir: dir}, nil
}

// WriteDataset writes nodes.json and edges.json.
func (w *Writer) WriteDataset(dataset *models.Dataset) error {
	if err := w.writeJSON("nodes.json", dataset.Nodes); err != nil {
		return err
	}
	return w.writeJSON("edges.json", dataset.Edges)
}

// WriteRecommendations writes recommendations.json.
func (w *Writer) WriteRecommendations(recs map[string][]models.Recommendation) error {
	return w.writeJSON("recommendations.json", recs)
}

// writeJSON marshals v with two-space indentation and writes it atomically:
// a half-written file must never replace a good one mid-serve.
func (w *Writer) writeJSON(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", name, err)
	}

	path := filepath.Join(w.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("renaming %s: %w", tmp, err)
	}

	logging.Info().Str("path", path).Int("bytes", len(data)).Msg("Wrote JSON file")
	return nil
}
