package analyzer

import (
	"context"
	"fmt"
	"math"
)

// Aggregator runs the five analyzers against one input and merges their
// reports into a single overall result. Analyzers are independent; only the
// competitor aggregate is shared between the SERP and differentiation passes.
type Aggregator struct {
	seo             *SEOAnalyzer
	serp            *SERPAnalyzer
	aeo             *AEOAnalyzer
	humanization    *HumanizationAnalyzer
	differentiation *DifferentiationAnalyzer
}

// NewAggregator wires the analyzer set around a competitor source. A nil
// source is valid; the SERP analyzer then always uses benchmark data.
func NewAggregator(source CompetitorSource) *Aggregator {
	return &Aggregator{
		seo:             NewSEOAnalyzer(),
		serp:            NewSERPAnalyzer(source),
		aeo:             NewAEOAnalyzer(),
		humanization:    NewHumanizationAnalyzer(),
		differentiation: NewDifferentiationAnalyzer(),
	}
}

// Analyze runs a full analysis without caller-provided cancellation.
func (g *Aggregator) Analyze(input Input) *OverallReport {
	return g.AnalyzeWithContext(context.Background(), input)
}

// AnalyzeWithContext runs all five analyzers and aggregates their reports.
// The context only bounds the SERP analyzer's competitor fetch; everything
// else is pure computation.
func (g *Aggregator) AnalyzeWithContext(ctx context.Context, input Input) *OverallReport {
	seoReport := g.seo.Analyze(input.Text, input.Headers, input.MetaDescription, input.TargetKeyword)
	serpReport, serpData := g.serp.AnalyzeWithContext(ctx, input.Text, input.TargetKeyword, input.Headers)
	aeoReport := g.aeo.Analyze(input.Text, input.Headers)
	humanizationReport := g.humanization.Analyze(input.Text)
	differentiationReport := g.differentiation.Analyze(input.Text, serpData)

	scores := Scores{
		SEO:             seoReport,
		SERP:            serpReport,
		AEO:             aeoReport,
		Humanization:    humanizationReport,
		Differentiation: differentiationReport,
	}

	overallScore := round1(float64(seoReport.Score+serpReport.Score+aeoReport.Score+
		humanizationReport.Score+differentiationReport.Score) / 5)

	sourceType := input.SourceType
	if sourceType == "" {
		sourceType = "text"
	}

	return &OverallReport{
		OverallScore: overallScore,
		OriginalText: truncateRunes(input.Text, 5000),
		ContentInfo: ContentInfo{
			WordCount:     countWords(input.Text),
			SourceType:    sourceType,
			URL:           input.URL,
			Title:         input.Title,
			TargetKeyword: input.TargetKeyword,
		},
		Scores:             scores,
		RankPrediction:     buildRankOutlook(serpReport, overallScore),
		TopRecommendations: topRecommendations(seoReport, serpReport, aeoReport, humanizationReport, differentiationReport),
	}
}

// buildRankOutlook derives the before/after estimate from the SERP report
// and the overall score. Without a keyword the SERP report carries no
// prediction and the current rank defaults to 20.
func buildRankOutlook(serpReport *Report, overallScore float64) RankOutlook {
	currentRank := 20
	if prediction, ok := serpReport.Details["ranking_prediction"].(*RankPrediction); ok && prediction != nil {
		currentRank = prediction.CurrentPosition
	}

	factor := 0.6
	if overallScore < 70 {
		factor = 0.4
	}
	improvedRank := int(math.Round(float64(currentRank) * factor))
	if improvedRank < 3 {
		improvedRank = 3
	}

	return RankOutlook{
		CurrentEstimatedRank:  currentRank,
		ImprovedEstimatedRank: improvedRank,
		Improvement:           currentRank - improvedRank,
		Message:               fmt.Sprintf("Fix these issues to potentially move from Rank %d → Rank %d", currentRank, improvedRank),
	}
}

// topRecommendations takes the first two recommendations from each analyzer
// in fixed priority order, deduplicates exact strings, and keeps the top 5.
func topRecommendations(reports ...*Report) []string {
	merged := []string{}
	seen := make(map[string]struct{})

	for _, report := range reports {
		recs := report.Recommendations
		if len(recs) > 2 {
			recs = recs[:2]
		}
		for _, rec := range recs {
			if _, dup := seen[rec]; dup {
				continue
			}
			seen[rec] = struct{}{}
			merged = append(merged, rec)
		}
	}

	if len(merged) > 5 {
		merged = merged[:5]
	}
	return merged
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
