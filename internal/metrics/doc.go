// Meeplegraph - Board Game Collection Similarity and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplegraph

/*
Package metrics provides Prometheus metrics collection and export.

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:6337/metrics

# Available Metrics

BGG Client:
  - bgg_request_duration_seconds: Upstream request latency (histogram)
    Labels: endpoint (collection, thing, search)
  - bgg_request_errors_total: Failed upstream requests (counter)
    Labels: endpoint, error_type
  - bgg_retries_total: Retries by reason (counter)
    Labels: endpoint, reason (accepted, server_error, rate_limited, network)
  - bgg_accepted_responses_total: HTTP 202 queue responses (counter)
  - bgg_games_fetched_total: Game detail records fetched (counter)
  - bgg_thing_batch_size: IDs per thing batch (histogram)

Circuit Breaker:
  - circuit_breaker_state: Current state (gauge)
    Labels: name. Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Requests by result (counter)
    Labels: name, result (success, failure, rejected)
  - circuit_breaker_state_transitions_total: Transitions (counter)
    Labels: name, from_state, to_state

Similarity Engine:
  - engine_compute_duration_seconds: Compute latency (histogram)
    Labels: operation (edges, recommend)
  - engine_edges_produced: Edges per graph build (histogram)
  - engine_games_scored: Games per computation (histogram)

API:
  - api_requests_total, api_request_duration_seconds, api_active_requests

Refresh:
  - refresh_duration_seconds, refresh_errors_total,
    refresh_last_success_timestamp, dataset_nodes, dataset_edges

All recording functions are thread-safe; the Prometheus client library
handles synchronization internally. Error labels are truncated at 50
characters to keep cardinality bounded.

Example PromQL:

	# p95 API latency
	histogram_quantile(0.95, rate(api_request_duration_seconds_bucket[5m]))

	# BGG retry rate by reason
	rate(bgg_retries_total[5m])

	# Alert when the breaker opens
	circuit_breaker_state > 0
*/
package metrics
