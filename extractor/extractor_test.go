package extractor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const testPage = `<!DOCTYPE html>
<html>
<head>
	<title>Laptop Battery Guide</title>
	<meta name="description" content="Real-world laptop battery testing results.">
	<script>var tracked = true;</script>
</head>
<body>
	<nav>Home | About | Contact</nav>
	<main>
		<h1>Laptop Battery Guide</h1>
		<p>We tested twelve laptops over three months.</p>
		<h2>Methodology</h2>
		<p>Each machine looped video until it died.</p>
	</main>
	<aside>Related posts</aside>
	<footer>Copyright notice</footer>
</body>
</html>`

func TestExtractURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(testPage))
	}))
	defer server.Close()

	e := New()
	content, err := e.ExtractURL(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("ExtractURL failed: %v", err)
	}

	if content.Title != "Laptop Battery Guide" {
		t.Errorf("Wrong title: %q", content.Title)
	}
	if content.MetaDescription != "Real-world laptop battery testing results." {
		t.Errorf("Wrong meta description: %q", content.MetaDescription)
	}
	if content.SourceType != "url" {
		t.Errorf("Wrong source type: %q", content.SourceType)
	}
	if content.URL != server.URL {
		t.Errorf("Wrong URL: %q", content.URL)
	}

	if len(content.Headers) != 2 {
		t.Fatalf("Expected 2 headers, got %v", content.Headers)
	}
	if content.Headers[0].Level != "h1" || content.Headers[0].Text != "Laptop Battery Guide" {
		t.Errorf("Unexpected first header: %+v", content.Headers[0])
	}
	if content.Headers[1].Level != "h2" || content.Headers[1].Text != "Methodology" {
		t.Errorf("Unexpected second header: %+v", content.Headers[1])
	}

	if !strings.Contains(content.Text, "We tested twelve laptops") {
		t.Errorf("Main content missing from text: %q", content.Text)
	}
	for _, boilerplate := range []string{"Home | About", "Related posts", "Copyright notice", "var tracked"} {
		if strings.Contains(content.Text, boilerplate) {
			t.Errorf("Boilerplate %q leaked into text", boilerplate)
		}
	}
}

func TestExtractURLErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	e := New()
	if _, err := e.ExtractURL(context.Background(), server.URL); err == nil {
		t.Error("Expected error for 404 response")
	}
}

func TestExtractText(t *testing.T) {
	e := New()
	content := e.ExtractText("  Plain pasted content here.  ")

	if content.Text != "Plain pasted content here." {
		t.Errorf("Expected trimmed text, got %q", content.Text)
	}
	if content.SourceType != "text" {
		t.Errorf("Wrong source type: %q", content.SourceType)
	}
	if len(content.Headers) != 0 {
		t.Errorf("Expected no headers, got %v", content.Headers)
	}
}

func TestExtractAutoDetect(t *testing.T) {
	e := New()

	content, err := e.Extract(context.Background(), "just some pasted text, not a URL")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if content.SourceType != "text" {
		t.Errorf("Expected text mode, got %q", content.SourceType)
	}
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"https://example.com/page", true},
		{"http://example.com", true},
		{"  https://example.com  ", true},
		{"example.com", false},
		{"plain text", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isURL(tt.input); got != tt.want {
			t.Errorf("isURL(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
