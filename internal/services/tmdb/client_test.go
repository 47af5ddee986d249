package tmdb_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"cleanmedia/internal/services/tmdb"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := tmdb.New("", "https://example.com", "en-US"); err == nil {
		t.Fatal("expected error when api key missing")
	}
}

func TestSearchMovieSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("api_key") != "key" || r.URL.Query().Get("query") != "Example" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":1,"title":"Example","release_date":"1999-03-31"}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "en-US", tmdb.WithMinInterval(0))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	resp, err := client.SearchMovie(context.Background(), "Example")
	if err != nil {
		t.Fatalf("SearchMovie returned error: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Year() != "1999" {
		t.Fatalf("unexpected response: %#v", resp)
	}
}

func TestSearchMovieHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "", tmdb.WithMinInterval(0))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.SearchMovie(context.Background(), "fail"); err == nil {
		t.Fatal("expected error when TMDB returns non-200")
	}
}

func TestLookupYearMemoizesIncludingMisses(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("query") == "Nothing Here" {
			_, _ = w.Write([]byte(`{"page":1,"results":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":2,"title":"Heat","release_date":""},{"id":3,"title":"Heat","release_date":"1995-12-15"}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "", tmdb.WithMinInterval(0))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		title, year, ok := client.LookupYear(ctx, "heat")
		if !ok || title != "Heat" || year != "1995" {
			t.Fatalf("LookupYear = %q %q %v", title, year, ok)
		}
		if _, _, ok := client.LookupYear(ctx, "Nothing Here"); ok {
			t.Fatal("expected miss")
		}
	}
	if _, _, ok := client.LookupYear(ctx, "HEAT"); !ok {
		t.Fatal("cache should be case-insensitive")
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 requests, got %d", got)
	}
}

func TestLookupYearFailureDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("bad", server.URL, "", tmdb.WithMinInterval(0))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, ok := client.LookupYear(context.Background(), "Alien"); ok {
		t.Fatal("expected failed lookup to report not found")
	}
}

func TestRateLimiterSpacesRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	t.Cleanup(server.Close)

	interval := 40 * time.Millisecond
	client, err := tmdb.New("key", server.URL, "", tmdb.WithMinInterval(interval))
	if err != nil {
		t.Fatal(err)
	}
	start := time.Now()
	for _, q := range []string{"a", "b", "c"} {
		if _, err := client.SearchMovie(context.Background(), q); err != nil {
			t.Fatal(err)
		}
	}
	if elapsed := time.Since(start); elapsed < 2*interval {
		t.Fatalf("three requests finished in %v, expected at least %v", elapsed, 2*interval)
	}
}

func TestNoop(t *testing.T) {
	if _, _, ok := (tmdb.Noop{}).LookupYear(context.Background(), "Heat"); ok {
		t.Fatal("noop must never match")
	}
}
