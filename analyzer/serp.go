package analyzer

import (
	"context"
	"fmt"
	"strings"
)

// CompetitorSource supplies aggregated statistics about the top-ranking
// pages for a keyword. Implementations may hit the network; the analyzer
// treats an empty or thin sample as a recoverable condition, never an error.
type CompetitorSource interface {
	// Fetch returns the aggregate built from up to n organic results and the
	// number of pages that were actually usable.
	Fetch(ctx context.Context, keyword string, n int) (*SERPData, int)
}

// SERPAnalyzer compares content against live competitor aggregates and
// predicts a ranking position.
type SERPAnalyzer struct {
	source CompetitorSource
}

func NewSERPAnalyzer(source CompetitorSource) *SERPAnalyzer {
	return &SERPAnalyzer{source: source}
}

// Analyze runs the SERP comparison without caller-provided cancellation.
func (a *SERPAnalyzer) Analyze(text, targetKeyword string, headers []Header) *Report {
	report, _ := a.AnalyzeWithContext(context.Background(), text, targetKeyword, headers)
	return report
}

// AnalyzeWithContext runs the SERP comparison and also returns the
// competitor aggregate it used, so downstream analyzers can share it.
// Without a target keyword it short-circuits to a fixed neutral report and
// never touches the network.
func (a *SERPAnalyzer) AnalyzeWithContext(ctx context.Context, text, targetKeyword string, headers []Header) (*Report, *SERPData) {
	report := newReport()

	if targetKeyword == "" {
		report.Score = 50
		report.Issues = append(report.Issues, "No target keyword provided")
		report.Recommendations = append(report.Recommendations, "Specify a target keyword for SERP analysis")
		report.Details["serp_data"] = nil
		return report, nil
	}

	// Competitor aggregate, falling back to benchmark data on a thin sample
	var serpData *SERPData
	resultsFound := 0
	if a.source != nil {
		serpData, resultsFound = a.source.Fetch(ctx, targetKeyword, 10)
	}
	report.Details["target_keyword"] = targetKeyword
	report.Details["serp_results_found"] = resultsFound

	if serpData == nil || resultsFound < 3 {
		serpData = fallbackSERPData()
		report.Details["note"] = "Using industry benchmark data (SERP scraping unavailable)"
	}
	report.Details["serp_data"] = serpData

	// Word count comparison
	userWordCount := countWords(text)
	wordCountRatio := 0.0
	if serpData.AvgWordCount > 0 {
		wordCountRatio = float64(userWordCount) / float64(serpData.AvgWordCount)
	}
	report.Details["word_count_comparison"] = map[string]interface{}{
		"user":     userWordCount,
		"serp_avg": serpData.AvgWordCount,
		"ratio":    wordCountRatio,
	}

	report.Details["serp_summary"] = []string{
		fmt.Sprintf("Avg word count: %d words (Your content: %d words)", serpData.AvgWordCount, userWordCount),
		fmt.Sprintf("Avg topic coverage: %d subtopics (Your content: %d subtopics)", serpData.AvgTopics, len(headers)),
		fmt.Sprintf("Top rankers include: case studies (%d%%), data/stats (%d%%), comparisons (%d%%)",
			serpData.Patterns.HasExamples, serpData.Patterns.HasStats, serpData.Patterns.HasComparisons),
	}

	switch {
	case wordCountRatio < 0.6:
		report.Score -= 25
		report.Issues = append(report.Issues, fmt.Sprintf("Content %d%% shorter than SERP average", int((1-wordCountRatio)*100)))
		report.Recommendations = append(report.Recommendations, fmt.Sprintf("Expand to %d+ words covering missing subtopics", int(float64(serpData.AvgWordCount)*0.9)))
	case wordCountRatio < 0.8:
		report.Score -= 15
		report.Issues = append(report.Issues, fmt.Sprintf("Content slightly shorter than SERP leaders (%d vs %d avg)", userWordCount, serpData.AvgWordCount))
		report.Recommendations = append(report.Recommendations, fmt.Sprintf("Add %d more words of valuable content", serpData.AvgWordCount-userWordCount))
	}

	// Topic coverage
	userTopicCount := len(headers)
	report.Details["topic_coverage"] = map[string]interface{}{
		"user":     userTopicCount,
		"serp_avg": serpData.AvgTopics,
	}

	missingTopics := suggestMissingTopics(targetKeyword, userTopicCount, serpData.AvgTopics)
	if float64(userTopicCount) < float64(serpData.AvgTopics)*0.6 {
		report.Score -= 20
		missing := serpData.AvgTopics - userTopicCount
		report.Issues = append(report.Issues, fmt.Sprintf("Missing %d key subtopics that top rankers cover:", missing))
		if len(missingTopics) > 0 {
			report.Issues = append(report.Issues, "→ "+strings.Join(missingTopics, ", "))
		}
		covering := "competitive topics"
		if len(missingTopics) > 0 {
			covering = strings.Join(missingTopics[:minInt(2, len(missingTopics))], ", ")
		}
		report.Recommendations = append(report.Recommendations, fmt.Sprintf("Add %d+ subtopics covering %s", missing, covering))
	}

	// Content elements
	elements := analyzeContentElements(text)
	report.Details["content_elements"] = elements

	if !elements.HasComparison && serpData.Patterns.HasComparisons > 70 {
		report.Score -= 15
		report.Issues = append(report.Issues, fmt.Sprintf("No product comparisons (%d%% of top 10 have them)", serpData.Patterns.HasComparisons))
		report.Recommendations = append(report.Recommendations, "Add 2-3 product comparisons with real examples")
	}

	if elements.StatsCount == 0 && serpData.Patterns.HasStats > 60 {
		report.Score -= 15
		report.Issues = append(report.Issues, fmt.Sprintf("Only %d data point (top rankers avg %d stats)", elements.StatsCount, serpData.Patterns.AvgStats))
		report.Recommendations = append(report.Recommendations, fmt.Sprintf("Include %d-7 data points/statistics", serpData.Patterns.AvgStats))
	} else if elements.StatsCount < 3 {
		report.Score -= 10
		report.Issues = append(report.Issues, fmt.Sprintf("Only %d data points found", elements.StatsCount))
	}

	if elements.ExamplesCount == 0 && serpData.Patterns.HasExamples > 70 {
		report.Score -= 10
		report.Issues = append(report.Issues, "No concrete examples or case studies found")
		report.Recommendations = append(report.Recommendations, "Add 2-3 real-world examples or case studies")
	}

	// Competitor fingerprint
	fingerprint := []string{}
	if serpData.Patterns.HasComparisons > 70 {
		fingerprint = append(fingerprint, fmt.Sprintf("• %d%% include comparison tables", serpData.Patterns.HasComparisons))
		if !elements.HasComparison {
			report.Recommendations = append(report.Recommendations, "Add product/option comparison table")
		}
	}
	if serpData.Patterns.HasStats > 60 {
		fingerprint = append(fingerprint, fmt.Sprintf("• %d%% include data/statistics", serpData.Patterns.HasStats))
	}
	if serpData.Patterns.HasExamples > 70 {
		fingerprint = append(fingerprint, fmt.Sprintf("• %d%% use case studies", serpData.Patterns.HasExamples))
	}
	if serpData.Patterns.HasLists > 80 {
		fingerprint = append(fingerprint, fmt.Sprintf("• %d%% use bullet points/lists", serpData.Patterns.HasLists))
	}
	report.Details["competitor_fingerprint"] = fingerprint

	// Ranking prediction, from the running (pre-floor) score
	prediction := predictRanking(report.Score, wordCountRatio, userTopicCount, serpData.AvgTopics)
	report.Details["ranking_prediction"] = prediction

	if prediction.CurrentPosition > 10 {
		report.Issues = append(report.Issues, fmt.Sprintf("Predicted Performance: Page %d (positions %d-%d)",
			prediction.CurrentPage, prediction.CurrentPosition, prediction.CurrentPosition+5))
	}

	if report.Score < 80 {
		improvedScore := report.Score + 30
		if improvedScore > 95 {
			improvedScore = 95
		}
		improved := predictRanking(improvedScore, 0.95, serpData.AvgTopics, serpData.AvgTopics)
		prediction.WithImprovements = improved
		report.Recommendations = append(report.Recommendations, fmt.Sprintf("With improvements: Predicted Page %d potential (positions %d-%d)",
			improved.CurrentPage, improved.CurrentPosition, improved.CurrentPosition+3))
	}

	report.finalize()
	return report, serpData
}

// fallbackSERPData returns the fixed benchmark aggregate used when fewer
// than 3 competitor pages could be fetched.
func fallbackSERPData() *SERPData {
	return &SERPData{
		AvgWordCount: 2500,
		AvgTopics:    8,
		Patterns: PatternStats{
			HasStats:       75,
			HasExamples:    70,
			HasComparisons: 60,
			HasLists:       85,
			AvgStats:       6,
		},
	}
}

// ContentElements records which competitive content elements the user's
// text already has.
type ContentElements struct {
	StatsCount    int  `json:"stats_count"`
	ExamplesCount int  `json:"examples_count"`
	HasComparison bool `json:"has_comparison"`
	HasLists      bool `json:"has_lists"`
}

func analyzeContentElements(text string) ContentElements {
	textLower := strings.ToLower(text)

	return ContentElements{
		StatsCount:    len(userStatsPattern.FindAllString(text, -1)),
		ExamplesCount: len(userExamplesPattern.FindAllString(textLower, -1)),
		HasComparison: userComparisonPattern.MatchString(textLower),
		HasLists: strings.Count(text, "•") > 2 ||
			strings.Count(text, "\n-") > 2 ||
			strings.Contains(text, "1."),
	}
}

// suggestMissingTopics proposes subtopics for the keyword's category,
// truncated to the coverage gap. Unknown categories get generic topics.
func suggestMissingTopics(keyword string, userCount, avgCount int) []string {
	keywordLower := strings.ToLower(keyword)

	for _, category := range topicSuggestions {
		if strings.Contains(keywordLower, category.name) {
			gap := avgCount - userCount
			if gap <= 0 {
				return []string{}
			}
			if gap > len(category.topics) {
				gap = len(category.topics)
			}
			return category.topics[:gap]
		}
	}

	return genericTopics
}

// predictRanking maps a score and word-count ratio onto an estimated organic
// position. Thin topic coverage pushes the estimate down five places.
func predictRanking(score int, wordRatio float64, userTopics, avgTopics int) *RankPrediction {
	var position int
	switch {
	case score >= 85 && wordRatio >= 0.9:
		position = 3
	case score >= 75 && wordRatio >= 0.8:
		position = 6
	case score >= 65:
		position = 10
	case score >= 55:
		position = 15
	case score >= 45:
		position = 22
	default:
		position = 35
	}

	if float64(userTopics) < float64(avgTopics)*0.7 {
		position += 5
	}

	return &RankPrediction{
		CurrentPosition: position,
		CurrentPage:     (position-1)/10 + 1,
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
