package analyzer

import (
	"fmt"
	"strings"
)

// DifferentiationAnalyzer scores how distinct content is from what already
// ranks: simulated overlap, unique elements, structure and voice. The
// overlap estimate is a heuristic simulation, not a real content comparison.
type DifferentiationAnalyzer struct{}

func NewDifferentiationAnalyzer() *DifferentiationAnalyzer {
	return &DifferentiationAnalyzer{}
}

// Analyze runs in one of two modes: a basic uniqueness check when no
// competitor aggregate is available, or the full comparison when it is.
func (a *DifferentiationAnalyzer) Analyze(text string, serpData *SERPData) *Report {
	report := newReport()

	if serpData == nil {
		uniqueness := analyzeBasicUniqueness(text)
		report.Details["uniqueness"] = uniqueness

		if !uniqueness.HasUniqueExamples {
			report.Score -= 20
			report.Issues = append(report.Issues, "No unique examples or data points detected")
			report.Recommendations = append(report.Recommendations, "Add original data points or product comparisons")
		}

		if !uniqueness.HasUniqueAngle {
			report.Score -= 15
			report.Issues = append(report.Issues, "Content follows generic structure")
			report.Recommendations = append(report.Recommendations, "Use unique angle (e.g., 'student perspective' vs generic advice)")
		}

		report.finalize()
		return report
	}

	// Simulated content overlap
	overlap := simulateContentOverlap(text)
	report.Details["content_overlap"] = overlap

	switch {
	case overlap.OverlapPercentage > 70:
		report.Score -= 30
		report.Issues = append(report.Issues, fmt.Sprintf("%d%% content overlap with top 3 SERP results", overlap.OverlapPercentage))
		report.Issues = append(report.Issues, "No unique examples or data")
		report.Recommendations = append(report.Recommendations, "Add original data points or product comparisons")
	case overlap.OverlapPercentage > 50:
		report.Score -= 20
		report.Issues = append(report.Issues, fmt.Sprintf("%d%% content overlap with competitors", overlap.OverlapPercentage))
		report.Recommendations = append(report.Recommendations, "Inject more unique perspective or original research")
	}

	// Unique elements
	unique := detectUniqueElements(text)
	report.Details["unique_elements"] = unique

	if unique.PersonalExamples == 0 {
		report.Score -= 15
		report.Issues = append(report.Issues, "No unique examples or data")
		report.Recommendations = append(report.Recommendations, "Add original data points or product comparisons")
	}

	if unique.OriginalData == 0 {
		report.Score -= 10
		// Skip the issue text when the personal-examples finding already
		// covers the same ground
		if unique.PersonalExamples > 0 {
			report.Issues = append(report.Issues, "No original data or research")
			report.Recommendations = append(report.Recommendations, "Include original data, surveys, or experiments")
		}
	}

	// Structural distinctiveness
	structure := analyzeStructureDifference(text)
	report.Details["structure"] = structure

	if !structure.HasUniqueStructure {
		report.Score -= 15
		report.Issues = append(report.Issues, "Same structure as competitors (all follow identical outline)")
		report.Recommendations = append(report.Recommendations, "Use unique angle (e.g., 'student perspective' vs generic advice)")
	}

	// Voice and tone
	voice := analyzeVoiceDifferentiation(text)
	report.Details["voice"] = voice

	if !voice.HasDistinctVoice {
		report.Score -= 10
		report.Issues = append(report.Issues, "Generic voice and tone")
		report.Recommendations = append(report.Recommendations, "Develop stronger brand voice (casual, technical, playful, etc.)")
	}

	report.finalize()
	return report
}

// BasicUniqueness is the reduced check used without competitor data.
type BasicUniqueness struct {
	HasUniqueExamples bool `json:"has_unique_examples"`
	HasUniqueAngle    bool `json:"has_unique_angle"`
}

func analyzeBasicUniqueness(text string) BasicUniqueness {
	textLower := strings.ToLower(text)

	result := BasicUniqueness{}
	for _, indicator := range personalIndicators {
		if strings.Contains(textLower, indicator) {
			result.HasUniqueExamples = true
			break
		}
	}
	for _, indicator := range perspectiveIndicators {
		if strings.Contains(textLower, indicator) {
			result.HasUniqueAngle = true
			break
		}
	}
	return result
}

// ContentOverlap estimates how interchangeable the content is with what
// already ranks, from generic-boilerplate density.
type ContentOverlap struct {
	OverlapPercentage   int `json:"overlap_percentage"`
	GenericPhrasesFound int `json:"generic_phrases_found"`
}

func simulateContentOverlap(text string) ContentOverlap {
	textLower := strings.ToLower(text)

	genericCount := 0
	for _, phrase := range genericBoilerplate {
		if strings.Contains(textLower, phrase) {
			genericCount++
		}
	}

	// Denominator counts raw terminal-punctuation splits, fragments included
	sentenceCount := rawSentenceCount(text)

	overlap := 70
	if sentenceCount > 0 {
		overlap = genericCount * 100 / sentenceCount
		if overlap > 90 {
			overlap = 90
		}
	}

	if countWords(text) < 500 {
		overlap += 10
	}
	if overlap > 95 {
		overlap = 95
	}

	return ContentOverlap{OverlapPercentage: overlap, GenericPhrasesFound: genericCount}
}

// UniqueElements counts differentiating content signals.
type UniqueElements struct {
	PersonalExamples  int  `json:"personal_examples"`
	OriginalData      int  `json:"original_data"`
	UniqueComparisons int  `json:"unique_comparisons"`
	HasVisuals        bool `json:"has_visuals"`
}

func detectUniqueElements(text string) UniqueElements {
	textLower := strings.ToLower(text)

	return UniqueElements{
		PersonalExamples:  len(personalExamplePattern.FindAllString(textLower, -1)),
		OriginalData:      len(originalDataPattern.FindAllString(textLower, -1)),
		UniqueComparisons: len(uniqueComparisonRegex.FindAllString(textLower, -1)),
		HasVisuals:        visualContentPattern.MatchString(textLower),
	}
}

// StructureDifference flags a generic opening without any distinctive
// formatting to offset it.
type StructureDifference struct {
	HasUniqueStructure bool `json:"has_unique_structure"`
	HasGenericOpening  bool `json:"has_generic_opening"`
}

func analyzeStructureDifference(text string) StructureDifference {
	first100 := text
	if runes := []rune(text); len(runes) > 100 {
		first100 = string(runes[:100])
	}
	first100 = strings.ToLower(first100)

	hasGenericStart := false
	for _, opening := range genericOpenings {
		if strings.Contains(first100, opening) {
			hasGenericStart = true
			break
		}
	}

	hasUniqueFormat := strings.Contains(text, "---") ||
		strings.Contains(text, "💡") ||
		strings.Contains(text, "→") ||
		strings.Count(text, "**") > 4 ||
		strings.Count(text, "`") > 4

	return StructureDifference{
		HasUniqueStructure: !hasGenericStart || hasUniqueFormat,
		HasGenericOpening:  hasGenericStart,
	}
}

// VoiceProfile classifies the dominant writing voice by marker counts.
type VoiceProfile struct {
	HasDistinctVoice bool   `json:"has_distinct_voice"`
	DominantVoice    string `json:"dominant_voice"`
	CasualScore      int    `json:"casual_score"`
	TechnicalScore   int    `json:"technical_score"`
}

func analyzeVoiceDifferentiation(text string) VoiceProfile {
	textLower := strings.ToLower(text)

	countMarkers := func(markers []string, source string) int {
		total := 0
		for _, m := range markers {
			total += strings.Count(source, m)
		}
		return total
	}

	casual := countMarkers(casualVoiceMarkers, textLower)
	technical := countMarkers(technicalVoiceMarkers, textLower)
	playful := countMarkers(playfulVoiceMarkers, text)
	story := countMarkers(storyVoiceMarkers, textLower)

	dominant := "generic"
	switch {
	case casual > 3:
		dominant = "casual"
	case technical > 3:
		dominant = "technical"
	case playful > 2:
		dominant = "playful"
	case story > 2:
		dominant = "story-driven"
	}

	return VoiceProfile{
		HasDistinctVoice: casual+technical+playful+story > 5,
		DominantVoice:    dominant,
		CasualScore:      casual,
		TechnicalScore:   technical,
	}
}
