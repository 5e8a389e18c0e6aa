// Meeplegraph - Board Game Collection Similarity and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplegraph

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/meeplegraph/internal/graph"
	"github.com/tomtom215/meeplegraph/internal/logging"
)

// Handler serves the API endpoints from the in-memory dataset snapshot.
type Handler struct {
	snapshot *graph.Snapshot
	builder  *graph.Builder
	refresh  *graph.RefreshService
	resp     *ResponseWriter
	version  string
}

// NewHandler creates an API handler. refresh may be nil when the background
// refresh service is disabled; POST /refresh then reports 503.
func NewHandler(snapshot *graph.Snapshot, builder *graph.Builder, refresh *graph.RefreshService, version string) *Handler {
	return &Handler{
		snapshot: snapshot,
		builder:  builder,
		refresh:  refresh,
		resp:     NewResponseWriter(),
		version:  version,
	}
}

// HealthStatus is the payload for the health endpoint.
type HealthStatus struct {
	Status       string     `json:"status"`
	Version      string     `json:"version"`
	DatasetReady bool       `json:"dataset_ready"`
	GeneratedAt  *time.Time `json:"generated_at,omitempty"`
}

// Health reports overall service health including dataset readiness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:       "ok",
		Version:      h.version,
		DatasetReady: h.snapshot.Ready(),
	}
	if ds := h.snapshot.Current(); ds != nil {
		status.GeneratedAt = &ds.GeneratedAt
	}
	h.resp.Success(w, r, status)
}

// HealthLive is the liveness probe: the process is up and serving.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.resp.Success(w, r, map[string]string{"status": "alive"})
}

// HealthReady is the readiness probe: a dataset is available to serve.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !h.snapshot.Ready() {
		h.resp.ServiceUnavailable(w, r, "dataset not yet computed")
		return
	}
	h.resp.Success(w, r, map[string]string{"status": "ready"})
}

// Graph returns the full dataset: nodes, edges, and generation metadata.
func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	ds := h.snapshot.Current()
	if ds == nil {
		h.resp.ServiceUnavailable(w, r, "dataset not yet computed")
		return
	}
	h.resp.Success(w, r, ds)
}

// GraphNodes returns only the node list.
func (h *Handler) GraphNodes(w http.ResponseWriter, r *http.Request) {
	ds := h.snapshot.Current()
	if ds == nil {
		h.resp.ServiceUnavailable(w, r, "dataset not yet computed")
		return
	}
	h.resp.Success(w, r, ds.Nodes)
}

// GraphEdges returns only the edge list.
func (h *Handler) GraphEdges(w http.ResponseWriter, r *http.Request) {
	ds := h.snapshot.Current()
	if ds == nil {
		h.resp.ServiceUnavailable(w, r, "dataset not yet computed")
		return
	}
	h.resp.Success(w, r, ds.Edges)
}

// RecommendationsResponse is the payload for the recommendations endpoint.
type RecommendationsResponse struct {
	Query           string      `json:"query"`
	TopK            int         `json:"top_k"`
	Recommendations interface{} `json:"recommendations"`
}

// Recommendations searches BGG for the query, scores the candidates against
// the owned collection, and returns the top matches per owned game.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	req, details := parseRecommendationsRequest(r)
	if details != nil {
		h.resp.ValidationError(w, r, "invalid query parameters", details)
		return
	}

	owned := h.snapshot.Games()
	if owned == nil {
		h.resp.ServiceUnavailable(w, r, "dataset not yet computed")
		return
	}

	recs, err := h.builder.Recommend(r.Context(), owned, req.Query, req.TopK)
	if err != nil {
		logging.Error().Err(err).Str("query", req.Query).Msg("Recommendation request failed")
		h.resp.ExternalServiceError(w, r, "fetching candidates from BoardGameGeek failed")
		return
	}

	h.resp.Success(w, r, RecommendationsResponse{
		Query:           req.Query,
		TopK:            req.TopK,
		Recommendations: recs,
	})
}

// Refresh queues a background dataset refresh. Returns 202 whether the
// trigger was queued or coalesced into an already-pending one.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.refresh == nil {
		h.resp.ServiceUnavailable(w, r, "background refresh is disabled")
		return
	}

	queued := h.refresh.Trigger()
	if !queued {
		logging.Debug().Msg("Refresh trigger coalesced into pending refresh")
	}
	h.resp.Accepted(w, r, map[string]interface{}{
		"queued":    queued,
		"coalesced": !queued,
	})
}
