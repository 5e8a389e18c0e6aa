// Meeplegraph - Board Game Collection Similarity and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplegraph

package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/meeplegraph/internal/logging"
	"github.com/tomtom215/meeplegraph/internal/metrics"
)

// RefreshService periodically rebuilds the similarity dataset and publishes
// it to the snapshot. It implements suture.Service; the supervisor restarts
// it if Serve returns unexpectedly.
//
// A manual refresh can be requested through Trigger (wired to the API's
// POST /api/v1/refresh). Triggers arriving while a refresh is already running
// coalesce into the pending one.
type RefreshService struct {
	builder  *Builder
	snapshot *Snapshot
	username string
	interval time.Duration
	trigger  chan struct{}
}

// NewRefreshService creates a refresh service for the given user.
func NewRefreshService(builder *Builder, snapshot *Snapshot, username string, interval time.Duration) *RefreshService {
	return &RefreshService{
		builder:  builder,
		snapshot: snapshot,
		username: username,
		interval: interval,
		trigger:  make(chan struct{}, 1),
	}
}

// Trigger requests an immediate refresh. Returns false when a refresh is
// already pending.
func (s *RefreshService) Trigger() bool {
	select {
	case s.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Serve implements suture.Service. It refreshes once on startup, then on
// every interval tick or manual trigger until the context is canceled.
func (s *RefreshService) Serve(ctx context.Context) error {
	if s.username == "" {
		// Nothing to refresh without a configured user. Block until shutdown
		// rather than restart-looping.
		logging.Warn().Msg("Refresh service idle: no BGG username configured")
		<-ctx.Done()
		return ctx.Err()
	}

	if err := s.refresh(ctx); err != nil {
		logging.Error().Err(err).Msg("Initial dataset refresh failed")
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.refresh(ctx); err != nil {
				logging.Error().Err(err).Msg("Scheduled dataset refresh failed")
			}
		case <-s.trigger:
			if err := s.refresh(ctx); err != nil {
				logging.Error().Err(err).Msg("Manual dataset refresh failed")
			}
		}
	}
}

// refresh rebuilds the dataset and swaps it into the snapshot. The previous
// dataset keeps serving until the new one is fully built.
func (s *RefreshService) refresh(ctx context.Context) error {
	start := time.Now()

	games, err := s.builder.FetchGames(ctx, s.username)
	if err != nil {
		metrics.RecordRefresh(time.Since(start), "collection", err)
		return fmt.Errorf("refresh: %w", err)
	}

	dataset := s.builder.Compute(s.username, games)
	s.snapshot.Store(dataset, games)
	metrics.RecordRefresh(time.Since(start), "", nil)

	logging.Info().
		Str("username", s.username).
		Dur("took", time.Since(start)).
		Msg("Dataset refreshed")
	return nil
}

func (s *RefreshService) String() string {
	return "dataset-refresh"
}
