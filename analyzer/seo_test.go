package analyzer

import (
	"strings"
	"testing"
)

func buildText(sentences ...string) string {
	return strings.Join(sentences, " ")
}

func repeatSentence(sentence string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = sentence
	}
	return out
}

func TestSEOShortContent(t *testing.T) {
	// 25 sentences of 10 words each: 250 words total
	text := buildText(repeatSentence("The quick brown fox jumps over the lazy dog today.", 25)...)

	a := NewSEOAnalyzer()
	report := a.Analyze(text, nil, "", "")

	// Both content-length passes plus missing headers and meta description
	if report.Score != 30 {
		t.Errorf("Expected score 30, got %d", report.Score)
	}

	wantIssues := []string{
		"Content is too short (250 words). Aim for 800-2000 words",
		"No header structure detected",
		"No meta description detected",
		"Content too short: 250 words",
	}
	for _, want := range wantIssues {
		found := false
		for _, issue := range report.Issues {
			if issue == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Missing expected issue %q in %v", want, report.Issues)
		}
	}

	if len(report.Recommendations) != 3 {
		t.Errorf("Expected recommendations capped at 3, got %d", len(report.Recommendations))
	}
}

func TestSEOWellOptimizedContent(t *testing.T) {
	// 90 sentences of 10 words, 9 of them mentioning the keyword: 1.0% density
	sentences := []string{}
	for i := 0; i < 90; i++ {
		if i%10 == 0 {
			sentences = append(sentences, "The new laptop works very well for busy students today.")
		} else {
			sentences = append(sentences, "The quick brown fox jumps over the lazy dog today.")
		}
	}
	text := buildText(sentences...)

	headers := []Header{
		{Level: "h1", Text: "Best Laptop Guide"},
		{Level: "h2", Text: "Performance"},
		{Level: "h3", Text: "Battery Life"},
	}
	meta := strings.Repeat("Solid laptop advice. ", 7) // 147 characters

	a := NewSEOAnalyzer()
	report := a.Analyze(text, headers, meta, "laptop")

	if report.Score != 100 {
		t.Errorf("Expected score 100, got %d (issues: %v)", report.Score, report.Issues)
	}
	if len(report.Issues) != 0 {
		t.Errorf("Expected no issues, got %v", report.Issues)
	}

	points, ok := report.Details["good_points"].([]string)
	if !ok || len(points) == 0 {
		t.Error("Expected good points for well-optimized content")
	}

	kw, ok := report.Details["keyword_density"].(KeywordDensity)
	if !ok {
		t.Fatal("Missing keyword_density detail")
	}
	if kw.Count != 9 {
		t.Errorf("Expected 9 keyword occurrences, got %d", kw.Count)
	}
}

func TestSEOScoreBounds(t *testing.T) {
	// Every deduction at once must still floor at 0
	a := NewSEOAnalyzer()
	report := a.Analyze("Tiny.", nil, "", "missing")

	if report.Score < 0 || report.Score > 100 {
		t.Errorf("Score %d out of [0,100]", report.Score)
	}
}

func TestAnalyzeKeywordDensity(t *testing.T) {
	a := NewSEOAnalyzer()

	t.Run("SubstringMatches", func(t *testing.T) {
		// Partial matches inside longer words count
		kw := a.analyzeKeywordDensity("laptop laptops lapdog", "laptop")
		if kw.Count != 2 {
			t.Errorf("Expected count 2, got %d", kw.Count)
		}
		if kw.TotalWords != 3 {
			t.Errorf("Expected 3 total words, got %d", kw.TotalWords)
		}
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		kw := a.analyzeKeywordDensity("Laptop LAPTOP laptop", "laptop")
		if kw.Count != 3 {
			t.Errorf("Expected count 3, got %d", kw.Count)
		}
	})

	t.Run("MultiWordKeyword", func(t *testing.T) {
		kw := a.analyzeKeywordDensity("best laptop for students and more words here too now", "best laptop")
		// density = count * keywordWords / totalWords * 100
		if kw.Count != 1 {
			t.Errorf("Expected count 1, got %d", kw.Count)
		}
		if kw.Density != 20.0 {
			t.Errorf("Expected density 20.0, got %f", kw.Density)
		}
	})
}

func TestAnalyzeHeaders(t *testing.T) {
	a := NewSEOAnalyzer()

	headers := []Header{
		{Level: "h1", Text: "Laptop Buying Guide"},
		{Level: "h2", Text: "What to Look For"},
	}

	h := a.analyzeHeaders(headers, "laptop")
	if !h.HasH1 || !h.HasH2 || h.HasH3 {
		t.Errorf("Unexpected header flags: %+v", h)
	}
	if !h.HasHierarchy {
		t.Error("Expected hierarchy with H1 and H2 present")
	}
	if !h.KeywordInHeaders {
		t.Error("Expected keyword to be found in headers")
	}

	h = a.analyzeHeaders([]Header{{Level: "h2", Text: "Section"}}, "")
	if h.HasH1 || h.HasHierarchy {
		t.Errorf("Unexpected flags without H1: %+v", h)
	}
}

func TestCountParagraphs(t *testing.T) {
	text := "First paragraph here.\n\nSecond paragraph.\n\n\n\nThird one."
	if got := countParagraphs(text); got != 3 {
		t.Errorf("Expected 3 paragraphs, got %d", got)
	}
}
