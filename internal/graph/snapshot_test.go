// Meeplegraph - Board Game Collection Similarity and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplegraph

package graph

import (
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/meeplegraph/internal/models"
)

func TestSnapshotEmptyUntilStore(t *testing.T) {
	s := NewSnapshot()
	if s.Ready() {
		t.Error("Ready() = true before any Store")
	}
	if s.Current() != nil {
		t.Error("Current() != nil before any Store")
	}
	if s.Games() != nil {
		t.Error("Games() != nil before any Store")
	}
}

func TestSnapshotStoreAndRead(t *testing.T) {
	s := NewSnapshot()
	ds := &models.Dataset{
		Username:    "meeplequeen",
		Nodes:       []models.Node{{ID: "1"}},
		GeneratedAt: time.Now(),
	}
	games := map[string]*models.Game{"1": {ID: "1"}}

	s.Store(ds, games)

	if !s.Ready() {
		t.Error("Ready() = false after Store")
	}
	if got := s.Current(); got != ds {
		t.Errorf("Current() = %p, want stored dataset %p", got, ds)
	}
	if got := s.Games(); got["1"] == nil {
		t.Errorf("Games() = %v", got)
	}
}

func TestSnapshotReplacement(t *testing.T) {
	s := NewSnapshot()
	first := &models.Dataset{Username: "a"}
	second := &models.Dataset{Username: "b"}

	s.Store(first, nil)
	s.Store(second, nil)

	if got := s.Current(); got.Username != "b" {
		t.Errorf("Current().Username = %q, want b", got.Username)
	}
}

func TestSnapshotConcurrentAccess(t *testing.T) {
	s := NewSnapshot()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Store(&models.Dataset{Username: "u"}, nil)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = s.Current()
				_ = s.Ready()
			}
		}()
	}
	wg.Wait()
}
