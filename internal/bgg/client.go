// Meeplegraph - Board Game Collection Similarity and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplegraph

package bgg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/meeplegraph/internal/config"
	"github.com/tomtom215/meeplegraph/internal/logging"
	"github.com/tomtom215/meeplegraph/internal/metrics"
	"github.com/tomtom215/meeplegraph/internal/models"
)

// SearchLimit caps the number of results returned per search query.
const SearchLimit = 25

// maxErrorBodySize limits the amount of response body read for error
// reporting to prevent unbounded allocation on large error pages.
const maxErrorBodySize = 64 * 1024 // 64KB

// ClientInterface defines the BGG XML API operations used by Meeplegraph.
//
// It is implemented by Client for production use and by mock implementations
// for testing. All methods accept a context for cancellation and are safe for
// concurrent use.
type ClientInterface interface {
	// GetCollection fetches a user's owned collection, excluding expansions.
	GetCollection(ctx context.Context, username string) ([]models.CollectionItem, error)

	// GetThings fetches full details for the given game IDs, in batches.
	GetThings(ctx context.Context, ids []string) (map[string]*models.Game, error)

	// Search finds games by name (non-exact match).
	Search(ctx context.Context, query string) ([]models.SearchResult, error)
}

// Client handles communication with the BGG XML API 2.
//
// BGG is a shared community resource with strict informal rate limits, so the
// client is deliberately polite: a token-bucket limiter paces all requests,
// thing lookups are batched, and batches are separated by a pause.
//
// BGG answers HTTP 202 while it builds a collection export in the background.
// A 202 is not a failure; the client retries with exponential backoff until
// the export is ready or the retry budget runs out.
//
// Thread Safety: safe for concurrent use. Each request creates its own HTTP
// request; the rate limiter serializes upstream pressure.
type Client struct {
	baseURL          string
	client           *http.Client
	limiter          *rate.Limiter
	batchSize        int
	maxRetries       int
	searchMaxRetries int
	retryBaseDelay   time.Duration
	batchPause       time.Duration
}

// NewClient creates a BGG API client from configuration.
func NewClient(cfg *config.BGGConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		limiter:          rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		batchSize:        cfg.BatchSize,
		maxRetries:       cfg.MaxRetries,
		searchMaxRetries: cfg.SearchMaxRetries,
		retryBaseDelay:   cfg.RetryBaseDelay,
		batchPause:       cfg.BatchPause,
	}
}

// requestWithRetry performs a GET with rate limiting and retry handling.
//
// Retryable conditions: HTTP 202 (export queued), HTTP 429 (respecting
// Retry-After), 5xx server errors, and network failures. Backoff starts at
// retryBaseDelay and doubles per attempt. The context cancels backoff waits.
func (c *Client) requestWithRetry(ctx context.Context, endpoint string, params url.Values, maxRetries int) ([]byte, error) {
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))

		start := time.Now()
		body, retryable, err := c.doRequest(ctx, reqURL)
		metrics.RecordBGGRequest(endpoint, time.Since(start), err)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable || attempt == maxRetries-1 {
			break
		}

		reason := "network"
		var se *statusError
		if errors.As(err, &se) {
			switch {
			case se.code == http.StatusAccepted:
				reason = "accepted"
			case se.code == http.StatusTooManyRequests:
				reason = "rate_limited"
				if se.retryAfter > 0 {
					delay = se.retryAfter
				}
			default:
				reason = "server_error"
			}
		}
		metrics.RecordBGGRetry(endpoint, reason)
		logging.Warn().
			Str("endpoint", endpoint).
			Str("reason", reason).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("BGG request retrying")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("bgg %s request failed after %d attempts: %w", endpoint, maxRetries, lastErr)
}

// statusError is a non-200 response. 202, 429, and 5xx are retryable.
type statusError struct {
	code       int
	retryAfter time.Duration
}

func (e *statusError) Error() string {
	return fmt.Sprintf("bgg returned status %d", e.code)
}

// doRequest performs one HTTP GET. The second return reports whether the
// failure is worth retrying.
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		// Network errors and timeouts are transient against BGG.
		return nil, true, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, true, fmt.Errorf("failed to read response body: %w", err)
		}
		return body, false, nil

	case resp.StatusCode == http.StatusAccepted,
		resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode >= 500:
		se := &statusError{code: resp.StatusCode}
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if d, err := time.ParseDuration(retryAfter + "s"); err == nil {
				se.retryAfter = d
			}
		}
		return nil, true, se

	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, false, fmt.Errorf("bgg request failed with status %d: %s", resp.StatusCode, string(body))
	}
}

// GetCollection fetches a user's owned board game collection.
//
// Expansions are excluded and stats are requested so the collection endpoint
// can later be cross-checked against thing details. BGG builds collection
// exports asynchronously; first calls for a user commonly return 202 and
// succeed on retry.
func (c *Client) GetCollection(ctx context.Context, username string) ([]models.CollectionItem, error) {
	if username == "" {
		return nil, fmt.Errorf("username must not be empty")
	}

	params := url.Values{}
	params.Set("username", username)
	params.Set("own", "1")
	params.Set("excludesubtype", "boardgameexpansion")
	params.Set("stats", "1")

	body, err := c.requestWithRetry(ctx, "collection", params, c.maxRetries)
	if err != nil {
		return nil, err
	}

	collection, err := parseCollection(body)
	if err != nil {
		return nil, err
	}

	logging.Info().
		Str("username", username).
		Int("games", len(collection)).
		Msg("Fetched owned collection")
	return collection, nil
}

// GetThings fetches detailed records for the given game IDs, in batches of
// the configured size with a pause between batches. A failed batch fails the
// whole call; partial datasets would silently skew similarity scores.
func (c *Client) GetThings(ctx context.Context, ids []string) (map[string]*models.Game, error) {
	if len(ids) == 0 {
		return map[string]*models.Game{}, nil
	}

	games := make(map[string]*models.Game, len(ids))
	for start := 0; start < len(ids); start += c.batchSize {
		end := min(start+c.batchSize, len(ids))
		batch := ids[start:end]
		metrics.BGGBatchSize.Observe(float64(len(batch)))

		params := url.Values{}
		params.Set("id", strings.Join(batch, ","))
		params.Set("stats", "1")

		body, err := c.requestWithRetry(ctx, "thing", params, c.maxRetries)
		if err != nil {
			return nil, fmt.Errorf("thing batch starting at %d: %w", start, err)
		}

		parsed, err := parseThings(body)
		if err != nil {
			return nil, fmt.Errorf("thing batch starting at %d: %w", start, err)
		}
		for id, g := range parsed {
			games[id] = g
		}
		metrics.BGGGamesFetched.Add(float64(len(parsed)))

		// Pause between batches to be polite to BGG.
		if end < len(ids) {
			select {
			case <-time.After(c.batchPause):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	logging.Info().
		Int("requested", len(ids)).
		Int("fetched", len(games)).
		Msg("Fetched game details")
	return games, nil
}

// Search finds games by name. The search endpoint is the slowest and flakiest
// part of the API, so it gets its own, larger retry budget.
func (c *Client) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("type", "boardgame")
	params.Set("exact", "0")

	body, err := c.requestWithRetry(ctx, "search", params, c.searchMaxRetries)
	if err != nil {
		return nil, err
	}

	results, err := parseSearch(body, SearchLimit)
	if err != nil {
		return nil, err
	}

	logging.Debug().
		Str("query", query).
		Int("results", len(results)).
		Msg("BGG search completed")
	return results, nil
}
