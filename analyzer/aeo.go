package analyzer

import (
	"fmt"
	"regexp"
	"strings"
)

var aeoComparisonPattern = regexp.MustCompile(`(compared to|versus|vs\.|difference between|similar to)`)

// AEOAnalyzer scores how well content is structured for answer engines:
// citations, FAQ/list/how-to markers, definitions and quotable answers.
type AEOAnalyzer struct{}

func NewAEOAnalyzer() *AEOAnalyzer {
	return &AEOAnalyzer{}
}

func (a *AEOAnalyzer) Analyze(text string, headers []Header) *Report {
	report := newReport()

	// Citations and sources
	citations := detectCitations(text)
	report.Details["citations"] = citations

	switch {
	case citations.Count == 0:
		report.Score -= 25
		report.Issues = append(report.Issues, "No citations or sources found")
		report.Recommendations = append(report.Recommendations, "Add 3-5 authoritative sources with links")
	case citations.Count < 3:
		report.Score -= 15
		report.Issues = append(report.Issues, fmt.Sprintf("Only %d citation(s) found", citations.Count))
		report.Recommendations = append(report.Recommendations, "Add more authoritative sources (aim for 3-5)")
	default:
		report.Details["good_points"] = []string{fmt.Sprintf("%d citations with sources", citations.Count)}
	}

	// Structured content
	structured := analyzeStructuredContent(text)
	report.Details["structured_content"] = structured

	if !structured.HasFAQPattern {
		report.Score -= 15
		report.Issues = append(report.Issues, "No FAQ section detected")
		report.Recommendations = append(report.Recommendations, "Add FAQ section with schema markup (great for featured snippets)")
	}

	if !structured.HasLists {
		report.Score -= 10
		report.Issues = append(report.Issues, "No bulleted or numbered lists found")
		report.Recommendations = append(report.Recommendations, "Use lists for better scannability and AI parsing")
	}

	if !structured.HasHowToPattern {
		report.Score -= 10
		report.Issues = append(report.Issues, "No step-by-step instructions detected")
		report.Recommendations = append(report.Recommendations, "Add clear step-by-step format (enhances AI understanding)")
	}

	// AI-friendly patterns
	aiPatterns := analyzeAIPatterns(text)
	report.Details["ai_patterns"] = aiPatterns

	if aiPatterns.DefinitionCount < 2 {
		report.Score -= 10
		report.Issues = append(report.Issues, "Few clear definitions found")
		report.Recommendations = append(report.Recommendations, "Define key terms clearly (helps AI understand context)")
	}

	if !aiPatterns.HasSummary {
		report.Score -= 10
		report.Issues = append(report.Issues, "No summary or conclusion section")
		report.Recommendations = append(report.Recommendations, "Add a clear summary or key takeaways section")
	}

	// Answer-style content
	answerStyle := analyzeAnswerStyle(text)
	report.Details["answer_style"] = answerStyle

	if answerStyle.DirectAnswers < 3 {
		report.Score -= 10
		report.Issues = append(report.Issues, "Content lacks direct, quotable answers")
		report.Recommendations = append(report.Recommendations, "Include direct answers to common questions")
	}

	report.finalize()
	return report
}

// Citations counts URLs and source-attribution phrases.
type Citations struct {
	Count          int `json:"count"`
	URLs           int `json:"urls"`
	SourceMentions int `json:"source_mentions"`
}

func detectCitations(text string) Citations {
	urls := len(urlPattern.FindAllString(text, -1))
	mentions := len(sourceMentionPattern.FindAllString(text, -1))

	return Citations{
		Count:          urls + mentions,
		URLs:           urls,
		SourceMentions: mentions,
	}
}

// StructuredContent flags FAQ, list and how-to markers.
type StructuredContent struct {
	HasFAQPattern   bool `json:"has_faq_pattern"`
	HasLists        bool `json:"has_lists"`
	HasHowToPattern bool `json:"has_how_to_pattern"`
}

func analyzeStructuredContent(text string) StructuredContent {
	textLower := strings.ToLower(text)

	hasLists := strings.Count(text, "•") > 2 ||
		strings.Count(text, "\n- ") > 2 ||
		strings.Count(text, "\n1.") > 1 ||
		strings.Count(text, "\n2.") > 1

	return StructuredContent{
		HasFAQPattern:   faqPattern.MatchString(textLower),
		HasLists:        hasLists,
		HasHowToPattern: howToPattern.MatchString(textLower),
	}
}

// AIPatterns flags definitional, summary and comparison phrasing.
type AIPatterns struct {
	DefinitionCount int  `json:"definition_count"`
	HasSummary      bool `json:"has_summary"`
	HasComparisons  bool `json:"has_comparisons"`
}

func analyzeAIPatterns(text string) AIPatterns {
	textLower := strings.ToLower(text)

	return AIPatterns{
		DefinitionCount: len(definitionPattern.FindAllString(textLower, -1)),
		HasSummary:      summaryPattern.MatchString(textLower),
		HasComparisons:  aeoComparisonPattern.MatchString(textLower),
	}
}

// AnswerStyle counts sentences that open like direct answers.
type AnswerStyle struct {
	DirectAnswers  int `json:"direct_answers"`
	TotalSentences int `json:"total_sentences"`
}

func analyzeAnswerStyle(text string) AnswerStyle {
	sentences := splitSentences(text)

	directAnswers := 0
	for _, sentence := range sentences {
		clean := strings.ToLower(strings.TrimSpace(sentence))
		for _, pattern := range directAnswerPatterns {
			if pattern.MatchString(clean) {
				directAnswers++
				break
			}
		}
	}

	return AnswerStyle{
		DirectAnswers:  directAnswers,
		TotalSentences: len(sentences),
	}
}
