package analyzer

import (
	"fmt"
	"math"
	"strings"
)

// SEOAnalyzer scores content against on-page SEO fundamentals: length,
// keyword usage, readability, header structure and meta description.
type SEOAnalyzer struct{}

func NewSEOAnalyzer() *SEOAnalyzer {
	return &SEOAnalyzer{}
}

// Analyze runs all SEO deductions. Each check is independent; every
// applicable penalty stacks.
func (a *SEOAnalyzer) Analyze(text string, headers []Header, metaDescription, targetKeyword string) *Report {
	report := newReport()

	// Content metrics
	wordCount := countWords(text)
	readingTime := int(math.Ceil(float64(wordCount) / 200)) // 200 words per minute
	report.Details["content_metrics"] = map[string]interface{}{
		"word_count":           wordCount,
		"reading_time_minutes": readingTime,
		"character_count":      len(text),
		"paragraph_count":      countParagraphs(text),
	}

	switch {
	case wordCount < 300:
		report.Score -= 20
		report.Issues = append(report.Issues, fmt.Sprintf("Content is too short (%d words). Aim for 800-2000 words", wordCount))
		report.Recommendations = append(report.Recommendations, "Expand content with more details, examples, and value")
	case wordCount < 600:
		report.Score -= 10
		report.Issues = append(report.Issues, fmt.Sprintf("Content is short (%d words). Consider adding more depth", wordCount))
		report.Recommendations = append(report.Recommendations, "Add more comprehensive information (aim for 1000+ words)")
	case wordCount > 3000:
		report.Issues = append(report.Issues, fmt.Sprintf("Very long content (%d words) - ensure it stays engaging", wordCount))
		report.Recommendations = append(report.Recommendations, "Consider breaking into multiple articles or adding clear navigation")
	}

	// Keyword density
	if targetKeyword != "" {
		kw := a.analyzeKeywordDensity(text, targetKeyword)
		report.Details["keyword_density"] = kw

		switch {
		case kw.Density < 0.5:
			report.Score -= 15
			report.Issues = append(report.Issues, fmt.Sprintf("Keyword \"%s\" appears only %d times (%.1f%% density)", targetKeyword, kw.Count, kw.Density))
			report.Recommendations = append(report.Recommendations, "Increase keyword to 5-7 mentions (1.5% density)")
		case kw.Density > 3:
			report.Score -= 10
			report.Issues = append(report.Issues, fmt.Sprintf("Keyword density too high: %.1f%% - may look spammy", kw.Density))
			report.Recommendations = append(report.Recommendations, "Reduce keyword usage to maintain natural flow (aim for 1-2% density)")
		default:
			report.addGoodPoint(fmt.Sprintf("Good keyword density: %.1f%%", kw.Density))
		}
	}

	// Readability
	flesch := fleschReadingEase(text)
	report.Details["readability"] = map[string]interface{}{
		"flesch_reading_ease":  flesch,
		"flesch_kincaid_grade": fleschKincaidGrade(text),
		"reading_level":        readingLevel(flesch),
	}

	switch {
	case flesch < 30:
		report.Score -= 15
		report.Issues = append(report.Issues, fmt.Sprintf("Content is very difficult to read (Flesch score: %.1f)", flesch))
		report.Recommendations = append(report.Recommendations, "Simplify sentences and use shorter words to improve readability")
	case flesch < 50:
		report.Score -= 8
		report.Issues = append(report.Issues, fmt.Sprintf("Content is somewhat difficult to read (Flesch score: %.1f)", flesch))
		report.Recommendations = append(report.Recommendations, "Consider breaking complex sentences into simpler ones")
	default:
		report.addGoodPoint(fmt.Sprintf("Good readability (Flesch score: %.1f)", flesch))
	}

	// Header structure
	if len(headers) > 0 {
		h := a.analyzeHeaders(headers, targetKeyword)
		report.Details["headers"] = h

		if !h.HasH1 {
			report.Score -= 20
			report.Issues = append(report.Issues, "No H1 header found")
			report.Recommendations = append(report.Recommendations, "Add a clear H1 header as the main title")
		}

		if !h.HasHierarchy {
			report.Score -= 10
			report.Issues = append(report.Issues, "Header hierarchy is incomplete (missing H2 or H3)")
			report.Recommendations = append(report.Recommendations, "Use proper header hierarchy: H1 → H2 → H3")
		} else {
			report.addGoodPoint("Header structure present (H1, H2, H3)")
		}

		if targetKeyword != "" && !h.KeywordInHeaders {
			report.Score -= 10
			report.Issues = append(report.Issues, fmt.Sprintf("Target keyword '%s' not found in any headers", targetKeyword))
			report.Recommendations = append(report.Recommendations, fmt.Sprintf("Include '%s' in at least one header", targetKeyword))
		}
	} else {
		report.Score -= 15
		report.Issues = append(report.Issues, "No header structure detected")
		report.Recommendations = append(report.Recommendations, "Add clear headers (H1, H2, H3) to organize content")
	}

	// Meta description
	switch {
	case metaDescription == "":
		report.Score -= 15
		report.Issues = append(report.Issues, "No meta description detected")
		report.Recommendations = append(report.Recommendations, "Add meta description (150-160 characters)")
	case len(metaDescription) < 120:
		report.Score -= 8
		report.Issues = append(report.Issues, fmt.Sprintf("Meta description too short: %d characters", len(metaDescription)))
		report.Recommendations = append(report.Recommendations, "Expand meta description to 150-160 characters")
	case len(metaDescription) > 160:
		report.Score -= 5
		report.Issues = append(report.Issues, fmt.Sprintf("Meta description too long: %d characters", len(metaDescription)))
		report.Recommendations = append(report.Recommendations, "Shorten meta description to 150-160 characters")
	default:
		report.addGoodPoint(fmt.Sprintf("Good meta description length: %d characters", len(metaDescription)))
	}

	// Second content-length pass. This intentionally stacks with the first
	// word-count deduction above; see DESIGN.md before changing it.
	report.Details["word_count"] = wordCount
	switch {
	case wordCount < 300:
		report.Score -= 20
		report.Issues = append(report.Issues, fmt.Sprintf("Content too short: %d words", wordCount))
		report.Recommendations = append(report.Recommendations, "Expand content to at least 1,000 words for better SEO")
	case wordCount < 800:
		report.Score -= 10
		report.Issues = append(report.Issues, fmt.Sprintf("Content length moderate: %d words", wordCount))
		report.Recommendations = append(report.Recommendations, "Consider expanding to 1,500-2,500 words for competitive keywords")
	}

	report.finalize()
	return report
}

// KeywordDensity reports target-keyword usage within the content.
type KeywordDensity struct {
	Count      int     `json:"count"`
	Density    float64 `json:"density"`
	TotalWords int     `json:"total_words"`
}

// analyzeKeywordDensity counts case-insensitive substring occurrences of the
// keyword phrase. Partial matches inside longer words count too; that is the
// documented behavior, not an accident.
func (a *SEOAnalyzer) analyzeKeywordDensity(text, keyword string) KeywordDensity {
	count := strings.Count(strings.ToLower(text), strings.ToLower(keyword))
	totalWords := countWords(text)
	keywordWords := countWords(keyword)

	density := 0.0
	if totalWords > 0 {
		density = float64(count*keywordWords) / float64(totalWords) * 100
	}

	return KeywordDensity{
		Count:      count,
		Density:    density,
		TotalWords: totalWords,
	}
}

// HeaderStructure summarizes the supplied heading hierarchy.
type HeaderStructure struct {
	HasH1            bool `json:"has_h1"`
	HasH2            bool `json:"has_h2"`
	HasH3            bool `json:"has_h3"`
	HasHierarchy     bool `json:"has_hierarchy"`
	TotalHeaders     int  `json:"total_headers"`
	KeywordInHeaders bool `json:"keyword_in_headers"`
}

func (a *SEOAnalyzer) analyzeHeaders(headers []Header, targetKeyword string) HeaderStructure {
	h := HeaderStructure{TotalHeaders: len(headers)}

	keywordLower := strings.ToLower(targetKeyword)
	for _, header := range headers {
		switch header.Level {
		case "h1":
			h.HasH1 = true
		case "h2":
			h.HasH2 = true
		case "h3":
			h.HasH3 = true
		}
		if targetKeyword != "" && strings.Contains(strings.ToLower(header.Text), keywordLower) {
			h.KeywordInHeaders = true
		}
	}

	h.HasHierarchy = h.HasH1 && h.HasH2
	return h
}

func countParagraphs(text string) int {
	count := 0
	for _, p := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(p) != "" {
			count++
		}
	}
	return count
}
