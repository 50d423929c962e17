package extractor

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/content-audit/backend/analyzer"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

var whitespacePattern = regexp.MustCompile(`\s+`)

// Content is the normalized extraction result handed to the analyzers.
type Content struct {
	Text            string            `json:"text"`
	URL             string            `json:"url,omitempty"`
	Title           string            `json:"title"`
	Headers         []analyzer.Header `json:"headers"`
	MetaDescription string            `json:"meta_description"`
	SourceType      string            `json:"source_type"`
}

// Extractor turns a URL or raw text into analyzable content.
type Extractor struct {
	client *http.Client
}

func New() *Extractor {
	return &Extractor{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Extract auto-detects whether the input is a URL and routes accordingly.
func (e *Extractor) Extract(ctx context.Context, input string) (*Content, error) {
	if isURL(input) {
		return e.ExtractURL(ctx, strings.TrimSpace(input))
	}
	return e.ExtractText(input), nil
}

// ExtractURL fetches a page and pulls out its text, title, headings and
// meta description. Boilerplate elements are stripped before text
// extraction; headings are collected h1-h6 in document order.
func (e *Extractor) ExtractURL(ctx context.Context, pageURL string) (*Content, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to extract content from URL: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to extract content from URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("failed to extract content from URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to extract content from URL: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	metaDescription, _ := doc.Find("meta[name='description']").Attr("content")
	metaDescription = strings.TrimSpace(metaDescription)

	headers := collectHeaders(doc)

	doc.Find("script, style, nav, footer, aside").Remove()

	// Prefer the main content region when the page marks one up
	main := doc.Find("main").First()
	if main.Length() == 0 {
		main = doc.Find("article").First()
	}
	if main.Length() == 0 {
		main = doc.Find("body").First()
	}

	text := main.Text()
	if main.Length() == 0 {
		text = doc.Text()
	}
	text = strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))

	return &Content{
		Text:            text,
		URL:             pageURL,
		Title:           title,
		Headers:         headers,
		MetaDescription: metaDescription,
		SourceType:      "url",
	}, nil
}

// ExtractText wraps raw text input with empty metadata.
func (e *Extractor) ExtractText(text string) *Content {
	return &Content{
		Text:            strings.TrimSpace(text),
		Title:           "",
		Headers:         []analyzer.Header{},
		MetaDescription: "",
		SourceType:      "text",
	}
}

func collectHeaders(doc *goquery.Document) []analyzer.Header {
	headers := []analyzer.Header{}
	for _, level := range []string{"h1", "h2", "h3", "h4", "h5", "h6"} {
		doc.Find(level).Each(func(_ int, s *goquery.Selection) {
			headers = append(headers, analyzer.Header{
				Level: level,
				Text:  strings.TrimSpace(s.Text()),
			})
		})
	}
	return headers
}

func isURL(input string) bool {
	parsed, err := url.Parse(strings.TrimSpace(input))
	if err != nil {
		return false
	}
	return parsed.Scheme != "" && parsed.Host != ""
}
