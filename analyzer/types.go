package analyzer

// Header is a single document heading, normalized at the extraction boundary.
// Level is one of "h1".."h6".
type Header struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// Input carries everything the analyzers need for one analysis pass.
type Input struct {
	Text            string   `json:"text"`
	Headers         []Header `json:"headers"`
	MetaDescription string   `json:"meta_description"`
	TargetKeyword   string   `json:"target_keyword"`
	SourceType      string   `json:"source_type"` // "url" or "text"
	URL             string   `json:"url,omitempty"`
	Title           string   `json:"title,omitempty"`
}

// Report is the shared result contract of every analyzer. Score starts at
// 100 and loses fixed penalties per detected deficiency, floored at 0.
// Issues and Recommendations keep detection order.
type Report struct {
	Score           int                    `json:"score"`
	Issues          []string               `json:"issues"`
	Recommendations []string               `json:"recommendations"`
	Details         map[string]interface{} `json:"details"`
}

func newReport() *Report {
	return &Report{
		Score:           100,
		Issues:          []string{},
		Recommendations: []string{},
		Details:         make(map[string]interface{}),
	}
}

// addGoodPoint records a positive finding. Good points never affect the score.
func (r *Report) addGoodPoint(point string) {
	points, _ := r.Details["good_points"].([]string)
	r.Details["good_points"] = append(points, point)
}

// finalize floors the score at 0 and caps recommendations at the top 3.
func (r *Report) finalize() {
	if r.Score < 0 {
		r.Score = 0
	}
	if len(r.Recommendations) > 3 {
		r.Recommendations = r.Recommendations[:3]
	}
}

// PatternStats holds competitor content-pattern prevalences as percentages.
type PatternStats struct {
	HasStats       int `json:"has_stats"`
	HasExamples    int `json:"has_examples"`
	HasComparisons int `json:"has_comparisons"`
	HasLists       int `json:"has_lists"`
	AvgStats       int `json:"avg_stats"`
}

// SERPData is the competitor aggregate consumed by the SERP and
// differentiation analyzers.
type SERPData struct {
	AvgWordCount int          `json:"avg_word_count"`
	AvgTopics    int          `json:"avg_topics"`
	Patterns     PatternStats `json:"patterns"`
}

// RankPrediction estimates where content would land in organic results.
type RankPrediction struct {
	CurrentPosition  int             `json:"current_position"`
	CurrentPage      int             `json:"current_page"`
	WithImprovements *RankPrediction `json:"with_improvements,omitempty"`
}

// RankOutlook is the before/after estimate attached to the overall report.
type RankOutlook struct {
	CurrentEstimatedRank  int    `json:"current_estimated_rank"`
	ImprovedEstimatedRank int    `json:"improved_estimated_rank"`
	Improvement           int    `json:"improvement"`
	Message               string `json:"message"`
}

// Scores groups the five analyzer reports by name.
type Scores struct {
	SEO             *Report `json:"seo"`
	SERP            *Report `json:"serp"`
	AEO             *Report `json:"aeo"`
	Humanization    *Report `json:"humanization"`
	Differentiation *Report `json:"differentiation"`
}

// ContentInfo summarizes the analyzed input for the client.
type ContentInfo struct {
	WordCount     int    `json:"word_count"`
	SourceType    string `json:"source_type"`
	URL           string `json:"url,omitempty"`
	Title         string `json:"title"`
	TargetKeyword string `json:"target_keyword"`
}

// OverallReport is the aggregated response of a full analysis.
type OverallReport struct {
	OverallScore       float64     `json:"overall_score"`
	OriginalText       string      `json:"original_text"`
	ContentInfo        ContentInfo `json:"content_info"`
	Scores             Scores      `json:"scores"`
	RankPrediction     RankOutlook `json:"rank_prediction"`
	TopRecommendations []string    `json:"top_recommendations"`
}
