package improver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/content-audit/backend/analyzer"
	"github.com/content-audit/backend/config"
	"github.com/content-audit/backend/stats"
)

func chatServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Messages)

		fmt.Fprintf(w, `{"choices":[{"message":{"content":%q}}]}`, reply)
	}))
	t.Cleanup(server.Close)

	return server
}

func testConfig(endpoint, key string) *config.Config {
	return &config.Config{
		AIEndpoint:  endpoint,
		AIAPIKey:    key,
		AIModel:     "gpt-4",
		AIModelFast: "gpt-3.5-turbo",
	}
}

func TestRewriteForSEO(t *testing.T) {
	server := chatServer(t, "Optimized content here.")
	im := New(testConfig(server.URL, "test-key"), nil)

	result := im.RewriteForSEO(context.Background(), "Original content.", "laptop")

	assert.True(t, result.Success)
	assert.Equal(t, "Optimized content here.", result.ImprovedContent)
	assert.Contains(t, result.ChangesMade[0], "laptop")
}

func TestNotConfigured(t *testing.T) {
	im := New(testConfig("http://unused.invalid", ""), nil)

	result := im.GenerateFixes(context.Background(), "Some text.", &analyzer.OverallReport{})
	assert.False(t, result.Success)
	assert.Equal(t, "OpenAI API key not configured", result.Error)

	assert.False(t, im.HumanizeContent(context.Background(), "Some text.").Success)
	assert.Empty(t, im.SuggestSubtopics(context.Background(), "laptop", nil))
	assert.Equal(t, "unchanged", im.RewriteParagraph(context.Background(), "unchanged", "readability"))

	_, err := im.FixMetaDescription(context.Background(), "Title", "Text", "laptop")
	assert.Error(t, err)
}

func TestServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	im := New(testConfig(server.URL, "test-key"), nil)

	result := im.HumanizeContent(context.Background(), "Some text.")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "AI service error")

	// Paragraph rewrites fall back to the original on failure
	assert.Equal(t, "original paragraph", im.RewriteParagraph(context.Background(), "original paragraph", "engagement"))
}

func TestFixMetaDescriptionTrimsQuotes(t *testing.T) {
	server := chatServer(t, `"A compelling 150 character description."`)
	im := New(testConfig(server.URL, "test-key"), nil)

	meta, err := im.FixMetaDescription(context.Background(), "Title", "Text body.", "laptop")
	require.NoError(t, err)
	assert.Equal(t, "A compelling 150 character description.", meta)
}

func TestSuggestSubtopics(t *testing.T) {
	server := chatServer(t, "1. Battery life tests\n2. Price comparisons\n\n3. User reviews")
	im := New(testConfig(server.URL, "test-key"), nil)

	serpData := &analyzer.SERPData{Patterns: analyzer.PatternStats{HasStats: 75, HasExamples: 70, HasComparisons: 60}}
	subtopics := im.SuggestSubtopics(context.Background(), "laptop", serpData)

	assert.Equal(t, []string{"1. Battery life tests", "2. Price comparisons", "3. User reviews"}, subtopics)
}

func TestGenerateFixesPrompt(t *testing.T) {
	report := &analyzer.OverallReport{
		Scores: analyzer.Scores{
			SEO:             &analyzer.Report{Score: 60, Issues: []string{"seo issue one", "seo issue two", "seo issue three"}},
			Humanization:    &analyzer.Report{Score: 50, Issues: []string{"human issue"}},
			Differentiation: &analyzer.Report{Score: 80, Issues: []string{"diff issue"}},
		},
	}

	prompt := buildImprovementPrompt("The content body.", report)

	assert.Contains(t, prompt, "SEO: seo issue one")
	assert.Contains(t, prompt, "SEO: seo issue two")
	assert.NotContains(t, prompt, "seo issue three")
	assert.Contains(t, prompt, "Humanization: human issue")
	assert.Contains(t, prompt, "Uniqueness: diff issue")
	assert.Contains(t, prompt, "The content body.")
}

func TestSummarizeChanges(t *testing.T) {
	report := &analyzer.OverallReport{
		Scores: analyzer.Scores{
			SEO:             &analyzer.Report{Score: 60},
			Humanization:    &analyzer.Report{Score: 90},
			Differentiation: &analyzer.Report{Score: 50},
		},
	}

	changes := summarizeChanges(report)
	assert.Equal(t, []string{
		"Improved keyword usage and readability",
		"Added unique perspective and examples",
	}, changes)

	healthy := &analyzer.OverallReport{
		Scores: analyzer.Scores{
			SEO:             &analyzer.Report{Score: 90},
			Humanization:    &analyzer.Report{Score: 90},
			Differentiation: &analyzer.Report{Score: 90},
		},
	}
	assert.Equal(t, []string{"General content improvements"}, summarizeChanges(healthy))
}

func TestStatsRecording(t *testing.T) {
	server := chatServer(t, "Improved.")

	storage, err := stats.NewStorage(t.TempDir())
	require.NoError(t, err)
	defer storage.Shutdown()

	im := New(testConfig(server.URL, "test-key"), storage)

	im.ImproveReadability(context.Background(), "Some text.")

	failing := New(testConfig("http://127.0.0.1:1", "test-key"), storage)
	failing.ImproveReadability(context.Background(), "Some text.")

	monthly := storage.GetCurrentStats()
	assert.Equal(t, 2, monthly.ImproverCalls)
	assert.Equal(t, 1, monthly.ImproverFailures)
}
