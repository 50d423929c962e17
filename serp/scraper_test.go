package serp

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/content-audit/backend/stats"
)

func newSearchServer(t *testing.T, searchCalls *atomic.Int32) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		searchCalls.Add(1)

		resultCount := 3
		if r.URL.Query().Get("q") == "thin" {
			resultCount = 2
		}

		var body strings.Builder
		body.WriteString("<html><body>")
		for i := 1; i <= resultCount; i++ {
			fmt.Fprintf(&body, `<div class="g"><a href="%s/page/%d"><h3>Result %d</h3></a><div class="VwiC3b">Snippet %d</div></div>`,
				server.URL, i, i, i)
		}
		body.WriteString("</body></html>")

		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(body.String()))
	})

	mux.HandleFunc("/page/", func(w http.ResponseWriter, r *http.Request) {
		var n int
		fmt.Sscanf(r.URL.Path, "/page/%d", &n)

		filler := strings.Repeat("alpha ", 50*n)
		page := fmt.Sprintf(`<html><body>
			<script>ignored()</script>
			<nav>Menu</nav>
			<h2>Section</h2><h2>Other</h2>
			<main>%sResearch shows 45%% gains for example compared to rivals • • • •</main>
			<footer>Footer</footer>
		</body></html>`, filler)

		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(page))
	})

	return server
}

func TestFetchAggregatesPages(t *testing.T) {
	var searchCalls atomic.Int32
	server := newSearchServer(t, &searchCalls)

	storage, err := stats.NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create stats storage: %v", err)
	}
	defer storage.Shutdown()

	s := New(storage)
	s.SetSearchBaseURL(server.URL + "/search")

	data, sample := s.Fetch(context.Background(), "golang hosting", 10)

	if data == nil {
		t.Fatal("Expected aggregate, got nil")
	}
	if sample != 3 {
		t.Errorf("Expected 3 usable pages, got %d", sample)
	}

	// Page word counts are 63, 113 and 163
	if data.AvgWordCount != 113 {
		t.Errorf("Expected avg word count 113, got %d", data.AvgWordCount)
	}
	if data.AvgTopics != 2 {
		t.Errorf("Expected avg topics 2, got %d", data.AvgTopics)
	}
	if data.Patterns.HasStats != 100 || data.Patterns.HasExamples != 100 ||
		data.Patterns.HasComparisons != 100 || data.Patterns.HasLists != 100 {
		t.Errorf("Expected all pattern rates at 100, got %+v", data.Patterns)
	}
	if data.Patterns.AvgStats != 1 {
		t.Errorf("Expected avg stats 1, got %d", data.Patterns.AvgStats)
	}
}

func TestFetchUsesCache(t *testing.T) {
	var searchCalls atomic.Int32
	server := newSearchServer(t, &searchCalls)

	storage, err := stats.NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create stats storage: %v", err)
	}
	defer storage.Shutdown()

	s := New(storage)
	s.SetSearchBaseURL(server.URL + "/search")

	first, firstSample := s.Fetch(context.Background(), "golang hosting", 10)
	second, secondSample := s.Fetch(context.Background(), "golang hosting", 10)

	if searchCalls.Load() != 1 {
		t.Errorf("Expected 1 search request, got %d", searchCalls.Load())
	}
	if first != second || firstSample != secondSample {
		t.Error("Expected cached aggregate on second fetch")
	}
	if s.CacheSize() != 1 {
		t.Errorf("Expected 1 cached entry, got %d", s.CacheSize())
	}

	monthly := storage.GetCurrentStats()
	if monthly.SERPCacheMisses != 1 || monthly.SERPCacheHits != 1 {
		t.Errorf("Expected 1 miss and 1 hit, got %+v", monthly)
	}
}

func TestFetchCacheExpiry(t *testing.T) {
	var searchCalls atomic.Int32
	server := newSearchServer(t, &searchCalls)

	s := New(nil)
	s.SetSearchBaseURL(server.URL + "/search")
	s.SetCacheTTL(-time.Second)

	s.Fetch(context.Background(), "golang hosting", 10)
	s.Fetch(context.Background(), "golang hosting", 10)

	if searchCalls.Load() != 2 {
		t.Errorf("Expected expired cache to refetch, got %d search requests", searchCalls.Load())
	}
}

func TestFetchThinResults(t *testing.T) {
	var searchCalls atomic.Int32
	server := newSearchServer(t, &searchCalls)

	s := New(nil)
	s.SetSearchBaseURL(server.URL + "/search")

	data, sample := s.Fetch(context.Background(), "thin", 10)

	if data != nil {
		t.Errorf("Expected nil aggregate for thin results, got %+v", data)
	}
	if sample != 2 {
		t.Errorf("Expected 2 results found, got %d", sample)
	}
	if s.CacheSize() != 0 {
		t.Error("Thin results must not be cached")
	}
}

func TestFetchSearchUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusTooManyRequests)
	}))
	defer server.Close()

	s := New(nil)
	s.SetSearchBaseURL(server.URL)

	// A blocked results page parses to zero organic results
	data, sample := s.Fetch(context.Background(), "golang hosting", 10)
	if data != nil || sample != 0 {
		t.Errorf("Expected nil aggregate, got %+v (%d)", data, sample)
	}
}

func TestReducePagesEmpty(t *testing.T) {
	data := reducePages(nil)

	if data.AvgWordCount != 2500 || data.AvgTopics != 8 {
		t.Errorf("Expected benchmark averages, got %+v", data)
	}
	if data.Patterns.HasStats != 0 || data.Patterns.AvgStats != 5 {
		t.Errorf("Expected zero rates with default avg stats, got %+v", data.Patterns)
	}
}

func TestCacheKeyNormalizesCase(t *testing.T) {
	if cacheKey("Golang Hosting") != cacheKey("golang hosting") {
		t.Error("Cache key should be case-insensitive")
	}
	if cacheKey("golang") == cacheKey("rust") {
		t.Error("Different keywords must not collide")
	}
}
