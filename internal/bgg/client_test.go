// Meeplegraph - Board Game Collection Similarity and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplegraph

package bgg

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/meeplegraph/internal/config"
)

// testConfig returns a client config pointed at a test server with fast
// retries so tests stay quick.
func testConfig(baseURL string) *config.BGGConfig {
	return &config.BGGConfig{
		BaseURL:          baseURL,
		BatchSize:        20,
		MaxRetries:       3,
		SearchMaxRetries: 5,
		RetryBaseDelay:   time.Millisecond,
		RequestTimeout:   5 * time.Second,
		RateLimit:        1000,
		BatchPause:       time.Millisecond,
	}
}

const collectionBody = `<items totalitems="1">
  <item objecttype="thing" objectid="13">
    <name sortindex="1">Catan</name>
    <yearpublished>1995</yearpublished>
  </item>
</items>`

func TestGetCollectionRetriesOn202(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collection" {
			t.Errorf("path = %q, want /collection", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("own") != "1" || q.Get("excludesubtype") != "boardgameexpansion" || q.Get("stats") != "1" {
			t.Errorf("unexpected query params: %v", q)
		}
		// BGG queues the export on the first request
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusAccepted)
			return
		}
		_, _ = w.Write([]byte(collectionBody))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	items, err := client.GetCollection(context.Background(), "meeplequeen")
	if err != nil {
		t.Fatalf("GetCollection() error = %v", err)
	}
	if len(items) != 1 || items[0].ID != "13" {
		t.Errorf("items = %+v", items)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server calls = %d, want 3 (two 202s then success)", got)
	}
}

func TestGetCollectionExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	if _, err := client.GetCollection(context.Background(), "meeplequeen"); err == nil {
		t.Error("GetCollection() = nil error, want exhausted retries")
	}
}

func TestGetCollectionEmptyUsername(t *testing.T) {
	client := NewClient(testConfig("http://unused"))
	if _, err := client.GetCollection(context.Background(), ""); err == nil {
		t.Error("GetCollection(\"\") = nil error")
	}
}

func TestGetCollectionSurfacesBGGError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<errors><error><message>Invalid username specified</message></error></errors>`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, err := client.GetCollection(context.Background(), "no-such-user")
	if err == nil || !strings.Contains(err.Error(), "Invalid username") {
		t.Errorf("error = %v, want upstream message", err)
	}
}

func TestGetThingsBatches(t *testing.T) {
	var batches []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/thing" {
			t.Errorf("path = %q, want /thing", r.URL.Path)
		}
		ids := r.URL.Query().Get("id")
		batches = append(batches, ids)

		var sb strings.Builder
		sb.WriteString("<items>")
		for _, id := range strings.Split(ids, ",") {
			sb.WriteString(`<item type="boardgame" id="` + id + `"><name type="primary" value="G` + id + `"/></item>`)
		}
		sb.WriteString("</items>")
		_, _ = w.Write([]byte(sb.String()))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.BatchSize = 2
	client := NewClient(cfg)

	ids := []string{"1", "2", "3", "4", "5"}
	games, err := client.GetThings(context.Background(), ids)
	if err != nil {
		t.Fatalf("GetThings() error = %v", err)
	}
	if len(games) != 5 {
		t.Errorf("got %d games, want 5", len(games))
	}
	wantBatches := []string{"1,2", "3,4", "5"}
	if len(batches) != len(wantBatches) {
		t.Fatalf("batches = %v, want %v", batches, wantBatches)
	}
	for i, want := range wantBatches {
		if batches[i] != want {
			t.Errorf("batch[%d] = %q, want %q", i, batches[i], want)
		}
	}
	if games["3"].Name != "G3" {
		t.Errorf("game 3 = %+v", games["3"])
	}
}

func TestGetThingsEmptyIDs(t *testing.T) {
	client := NewClient(testConfig("http://unused"))
	games, err := client.GetThings(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetThings(nil) error = %v", err)
	}
	if len(games) != 0 {
		t.Errorf("games = %v, want empty map", games)
	}
}

func TestGetThingsFailedBatchFailsCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	if _, err := client.GetThings(context.Background(), []string{"1"}); err == nil {
		t.Error("GetThings() = nil error, want failure after retries")
	}
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %q, want /search", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("query") != "catan" || q.Get("type") != "boardgame" || q.Get("exact") != "0" {
			t.Errorf("unexpected query params: %v", q)
		}
		_, _ = w.Write([]byte(`<items total="1">
		  <item type="boardgame" id="13"><name type="primary" value="Catan"/><yearpublished value="1995"/></item>
		</items>`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	results, err := client.Search(context.Background(), "catan")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].Name != "Catan" {
		t.Errorf("results = %+v", results)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	client := NewClient(testConfig("http://unused"))
	if _, err := client.Search(context.Background(), ""); err == nil {
		t.Error("Search(\"\") = nil error")
	}
}

func TestRetryRespectsRetryAfterHeader(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(collectionBody))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	if _, err := client.GetCollection(context.Background(), "meeplequeen"); err != nil {
		t.Fatalf("GetCollection() error = %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server calls = %d, want 2", got)
	}
}

func TestRequestCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted) // would retry forever
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(testConfig(srv.URL))
	if _, err := client.GetCollection(ctx, "meeplequeen"); err == nil {
		t.Error("GetCollection() = nil error with cancelled context")
	}
}
