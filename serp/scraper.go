package serp

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/content-audit/backend/analyzer"
	"github.com/content-audit/backend/stats"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Competitor-page pattern detection.
var (
	statsDetectPattern = regexp.MustCompile(`\d+%|\d+\s*(percent|million|billion|thousand)`)
	statsCountPattern  = regexp.MustCompile(`\d+%|\d+\s*(percent|million|billion)`)
	examplesPattern    = regexp.MustCompile(`(for example|case study|real-world|instance)`)
	comparisonsPattern = regexp.MustCompile(`(comparison|versus|vs\.|compared to)`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
)

// SearchResult is one organic result from the results page.
type SearchResult struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

type cacheEntry struct {
	data      *analyzer.SERPData
	sample    int
	timestamp time.Time
}

// Scraper builds competitor aggregates for a keyword by scraping organic
// results and reducing the top pages. It satisfies analyzer.CompetitorSource.
// Aggregates are cached per keyword so repeated analyses of the same
// keyword don't refetch the same ten pages.
type Scraper struct {
	client        *http.Client
	searchBaseURL string
	cache         map[string]cacheEntry
	cacheMutex    sync.RWMutex
	cacheTTL      time.Duration
	concurrency   int
	stats         *stats.Storage
}

// New creates a scraper. statsStorage may be nil when cache accounting
// isn't wanted.
func New(statsStorage *stats.Storage) *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		searchBaseURL: "https://www.google.com/search",
		cache:         make(map[string]cacheEntry),
		cacheTTL:      30 * time.Minute,
		concurrency:   5,
		stats:         statsStorage,
	}
}

// SetSearchBaseURL overrides the results-page endpoint, mainly for tests.
func (s *Scraper) SetSearchBaseURL(base string) {
	s.searchBaseURL = base
}

// SetCacheTTL overrides how long keyword aggregates stay cached.
func (s *Scraper) SetCacheTTL(ttl time.Duration) {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()
	s.cacheTTL = ttl
}

func cacheKey(keyword string) string {
	hash := md5.Sum([]byte(strings.ToLower(keyword)))
	return hex.EncodeToString(hash[:])
}

// Fetch returns the competitor aggregate for a keyword plus the number of
// usable pages behind it. A nil aggregate or a small sample tells the
// caller to fall back to benchmark data; Fetch itself never errors.
func (s *Scraper) Fetch(ctx context.Context, keyword string, n int) (*analyzer.SERPData, int) {
	key := cacheKey(keyword)

	s.cacheMutex.RLock()
	if entry, found := s.cache[key]; found && time.Since(entry.timestamp) < s.cacheTTL {
		s.cacheMutex.RUnlock()
		if s.stats != nil {
			s.stats.RecordSERPCache(true)
		}
		return entry.data, entry.sample
	}
	s.cacheMutex.RUnlock()

	if s.stats != nil {
		s.stats.RecordSERPCache(false)
	}

	results, err := s.scrapeSearchResults(ctx, keyword, n)
	if err != nil {
		log.Printf("SERP scrape failed for %q: %v", keyword, err)
		return nil, 0
	}
	if len(results) < 3 {
		return nil, len(results)
	}

	data, sample := s.aggregatePages(ctx, results)

	s.cacheMutex.Lock()
	s.cache[key] = cacheEntry{data: data, sample: sample, timestamp: time.Now()}
	s.cacheMutex.Unlock()

	return data, sample
}

// scrapeSearchResults pulls organic result URLs from the results page.
func (s *Scraper) scrapeSearchResults(ctx context.Context, keyword string, n int) ([]SearchResult, error) {
	query := url.Values{}
	query.Set("q", keyword)
	query.Set("num", strconv.Itoa(n))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.searchBaseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	results := []SearchResult{}
	doc.Find("div.g").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, exists := sel.Find("a").First().Attr("href")
		if !exists || !strings.HasPrefix(href, "http") {
			return true
		}

		results = append(results, SearchResult{
			URL:     href,
			Title:   strings.TrimSpace(sel.Find("h3").First().Text()),
			Snippet: strings.TrimSpace(sel.Find("div.VwiC3b").First().Text()),
		})
		return len(results) < n
	})

	return results, nil
}

type pageContent struct {
	wordCount   int
	headerCount int
	text        string
}

// aggregatePages fetches each result page with bounded concurrency and
// reduces them to the competitor aggregate. Pages that fail to fetch are
// skipped; the returned sample size counts only usable pages.
func (s *Scraper) aggregatePages(ctx context.Context, results []SearchResult) (*analyzer.SERPData, int) {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		pages     []pageContent
		semaphore = make(chan struct{}, s.concurrency)
	)

	for _, result := range results {
		select {
		case <-ctx.Done():
			// Caller gave up; aggregate whatever we already have
			goto aggregate
		default:
		}

		wg.Add(1)
		go func(pageURL string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			content, err := s.fetchPageContent(ctx, pageURL)
			if err != nil || content.wordCount == 0 {
				return
			}

			mu.Lock()
			pages = append(pages, content)
			mu.Unlock()
		}(result.URL)
	}

aggregate:
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	return reducePages(pages), len(pages)
}

func (s *Scraper) fetchPageContent(ctx context.Context, pageURL string) (pageContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return pageContent{}, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return pageContent{}, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return pageContent{}, err
	}

	doc.Find("script, style, nav, footer, aside").Remove()

	main := doc.Find("main").First()
	if main.Length() == 0 {
		main = doc.Find("article").First()
	}
	if main.Length() == 0 {
		main = doc.Find("body").First()
	}

	text := strings.TrimSpace(whitespacePattern.ReplaceAllString(main.Text(), " "))
	headerCount := doc.Find("h1, h2, h3").Length()

	return pageContent{
		wordCount:   len(strings.Fields(text)),
		headerCount: headerCount,
		text:        text,
	}, nil
}

// reducePages averages the fetched pages into one aggregate. With no usable
// pages the averages fall back to the benchmark constants and all pattern
// rates read zero.
func reducePages(pages []pageContent) *analyzer.SERPData {
	var (
		wordTotal   int
		topicTotal  int
		hasStats    int
		hasExamples int
		hasComps    int
		hasLists    int
		totalStats  int
	)

	for _, page := range pages {
		wordTotal += page.wordCount
		topicTotal += page.headerCount

		text := strings.ToLower(page.text)
		if statsDetectPattern.MatchString(text) {
			hasStats++
			totalStats += len(statsCountPattern.FindAllString(text, -1))
		}
		if examplesPattern.MatchString(text) {
			hasExamples++
		}
		if comparisonsPattern.MatchString(text) {
			hasComps++
		}
		if strings.Count(page.text, "•") > 3 || strings.Count(page.text, "\n-") > 3 {
			hasLists++
		}
	}

	valid := len(pages)
	if valid == 0 {
		valid = 1
	}

	data := &analyzer.SERPData{
		AvgWordCount: 2500,
		AvgTopics:    8,
		Patterns: analyzer.PatternStats{
			HasStats:       hasStats * 100 / valid,
			HasExamples:    hasExamples * 100 / valid,
			HasComparisons: hasComps * 100 / valid,
			HasLists:       hasLists * 100 / valid,
			AvgStats:       5,
		},
	}
	if len(pages) > 0 {
		data.AvgWordCount = wordTotal / valid
		data.AvgTopics = topicTotal / valid
	}
	if hasStats > 0 {
		data.Patterns.AvgStats = totalStats / valid
	}

	return data
}

// CacheSize reports how many keyword aggregates are currently cached.
func (s *Scraper) CacheSize() int {
	s.cacheMutex.RLock()
	defer s.cacheMutex.RUnlock()
	return len(s.cache)
}

// ClearCache drops all cached aggregates.
func (s *Scraper) ClearCache() {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()
	s.cache = make(map[string]cacheEntry)
}
