package analyzer

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// HumanizationAnalyzer scores how human the writing sounds versus typical
// AI-generated style, and emits a per-sentence AI-likelihood heatmap.
type HumanizationAnalyzer struct{}

func NewHumanizationAnalyzer() *HumanizationAnalyzer {
	return &HumanizationAnalyzer{}
}

func (a *HumanizationAnalyzer) Analyze(text string) *Report {
	report := newReport()

	sentences := splitSentences(text)
	if len(sentences) < 3 {
		report.Score = 50
		report.Issues = append(report.Issues, "Content too short for humanization analysis")
		report.Recommendations = append(report.Recommendations, "Add more content")
		return report
	}

	// Sentence starter variety
	starters := analyzeSentenceStarters(sentences)
	report.Details["sentence_starters"] = starters

	switch {
	case starters.RepetitionRate > 40:
		report.Score -= 20
		report.Issues = append(report.Issues, fmt.Sprintf("%d%% sentences start same way (\"%s\"...)", starters.RepetitionRate, starters.MostCommon))
		report.Recommendations = append(report.Recommendations, "Vary sentence starters and lengths")
	case starters.RepetitionRate > 25:
		report.Score -= 10
		report.Issues = append(report.Issues, fmt.Sprintf("%d%% sentences have repetitive starts", starters.RepetitionRate))
		report.Recommendations = append(report.Recommendations, "Mix up sentence beginnings more")
	}

	// Sentence length variation
	lengths := analyzeSentenceLengths(sentences)
	report.Details["sentence_lengths"] = lengths

	switch {
	case lengths.StdDev < 3:
		report.Score -= 20
		report.Issues = append(report.Issues, fmt.Sprintf("Low sentence length variation (avg %.0f words, std dev %.1f)", lengths.Avg, lengths.StdDev))
		report.Recommendations = append(report.Recommendations, "Vary sentence lengths - mix short punchy sentences with longer detailed ones")
	case lengths.StdDev < 5:
		report.Score -= 10
		report.Issues = append(report.Issues, fmt.Sprintf("Moderate sentence length variation (avg %.0f words, std dev %.1f)", lengths.Avg, lengths.StdDev))
	}

	// AI pattern composite
	aiPatterns := detectWritingPatterns(text, sentences)
	report.Details["ai_patterns"] = aiPatterns

	switch {
	case aiPatterns.AIScore > 60:
		report.Score -= 25
		report.Issues = append(report.Issues, fmt.Sprintf("High AI pattern score: %d%%", aiPatterns.AIScore))
		report.Issues = append(report.Issues, "Detected: "+strings.Join(aiPatterns.DetectedPatterns, ", "))
		report.Recommendations = append(report.Recommendations, "Rewrite to sound more conversational and less formulaic")
	case aiPatterns.AIScore > 40:
		report.Score -= 15
		report.Issues = append(report.Issues, fmt.Sprintf("Moderate AI patterns detected: %d%%", aiPatterns.AIScore))
	}

	// Transition overuse
	transitions := analyzeTransitions(text)
	report.Details["transitions"] = transitions

	if transitions.OveruseRate > 30 {
		report.Score -= 10
		report.Issues = append(report.Issues, "Overuse of transition words (very AI-like)")
		report.Recommendations = append(report.Recommendations, "Reduce formulaic transitions like 'moreover', 'furthermore', 'additionally'")
	}

	// Natural flow
	flow := analyzeNaturalFlow(text)
	report.Details["natural_flow"] = flow

	if !flow.HasContractions {
		report.Score -= 10
		report.Issues = append(report.Issues, "No contractions used (sounds stiff)")
		report.Recommendations = append(report.Recommendations, "Use contractions (don't, can't, it's) for natural tone")
	}

	if !flow.HasQuestions {
		report.Score -= 5
		report.Issues = append(report.Issues, "No questions to engage reader")
		report.Recommendations = append(report.Recommendations, "Add rhetorical questions to engage readers")
	}

	// Heatmap is diagnostic only; it never feeds back into the score.
	report.Details["heatmap"] = generateHeatmap(sentences)

	report.finalize()
	return report
}

// StarterCount is one (first word, occurrences) pair.
type StarterCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// SentenceStarters summarizes how sentences begin.
type SentenceStarters struct {
	TotalSentences int            `json:"total_sentences"`
	UniqueStarters int            `json:"unique_starters"`
	RepetitionRate int            `json:"repetition_rate"`
	MostCommon     string         `json:"most_common"`
	TopStarters    []StarterCount `json:"top_starters"`
}

func analyzeSentenceStarters(sentences []string) SentenceStarters {
	counts := make(map[string]int)
	order := []string{}

	for _, sentence := range sentences {
		words := strings.Fields(sentence)
		if len(words) == 0 {
			continue
		}
		starter := strings.ToLower(words[0])
		if _, seen := counts[starter]; !seen {
			order = append(order, starter)
		}
		counts[starter]++
	}

	// Stable sort keeps first-seen order among ties
	ranked := make([]StarterCount, 0, len(order))
	for _, w := range order {
		ranked = append(ranked, StarterCount{Word: w, Count: counts[w]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	total := 0
	for _, sc := range ranked {
		total += sc.Count
	}

	repetitionRate := 0
	mostCommon := "same way"
	if len(ranked) > 0 && total > 0 {
		repetitionRate = ranked[0].Count * 100 / total
		mostCommon = ranked[0].Word
	}

	top := ranked
	if len(top) > 3 {
		top = top[:3]
	}

	return SentenceStarters{
		TotalSentences: total,
		UniqueStarters: len(ranked),
		RepetitionRate: repetitionRate,
		MostCommon:     mostCommon,
		TopStarters:    top,
	}
}

// SentenceLengths summarizes sentence-length distribution in words.
type SentenceLengths struct {
	Avg       float64 `json:"avg"`
	StdDev    float64 `json:"std_dev"`
	MinLength int     `json:"min_length"`
	MaxLength int     `json:"max_length"`
}

func analyzeSentenceLengths(sentences []string) SentenceLengths {
	if len(sentences) == 0 {
		return SentenceLengths{}
	}

	lengths := make([]int, len(sentences))
	sum := 0
	minLen, maxLen := -1, 0
	for i, s := range sentences {
		n := len(strings.Fields(s))
		lengths[i] = n
		sum += n
		if minLen == -1 || n < minLen {
			minLen = n
		}
		if n > maxLen {
			maxLen = n
		}
	}

	avg := float64(sum) / float64(len(lengths))

	stdDev := 0.0
	if len(lengths) > 1 {
		variance := 0.0
		for _, n := range lengths {
			variance += (float64(n) - avg) * (float64(n) - avg)
		}
		variance /= float64(len(lengths))
		stdDev = math.Sqrt(variance)
	}

	return SentenceLengths{
		Avg:       round1(avg),
		StdDev:    round1(stdDev),
		MinLength: minLen,
		MaxLength: maxLen,
	}
}

// WritingPatterns is the AI-style composite: marker families summed into a
// 0-100 score.
type WritingPatterns struct {
	AIScore          int      `json:"ai_score"`
	DetectedPatterns []string `json:"detected_patterns"`
}

func detectWritingPatterns(text string, sentences []string) WritingPatterns {
	textLower := strings.ToLower(text)
	score := 0
	detected := []string{}

	if strings.Contains(textLower, "delve") {
		score += 15
		detected = append(detected, "uses 'delve' (rare in human writing)")
	}

	formulaicCount := 0
	for _, phrase := range formulaicPhrases {
		if strings.Contains(textLower, phrase) {
			formulaicCount++
		}
	}
	if formulaicCount > 2 {
		score += 20
		detected = append(detected, fmt.Sprintf("%d formulaic phrases", formulaicCount))
	}

	wordCount := countWords(text)
	if wordCount > 0 {
		adverbCount := len(adverbPattern.FindAllString(textLower, -1))
		if float64(adverbCount)/float64(wordCount)*100 > 2 {
			score += 15
			detected = append(detected, "excessive adverbs")
		}
	}

	// Grammar that is too clean for a human
	hasFragments := sentenceFragmentRegexp.MatchString(text)
	hasInformal := informalWordPattern.MatchString(textLower)
	if !hasFragments && !hasInformal && len(sentences) > 10 {
		score += 10
		detected = append(detected, "overly perfect grammar")
	}

	// Structural uniformity in the first 10 sentences
	sample := sentences
	if len(sample) > 10 {
		sample = sample[:10]
	}
	signatures := make([]string, 0, len(sample))
	unique := make(map[string]struct{})
	for _, s := range sample {
		words := strings.Fields(s)
		if len(words) == 0 {
			continue
		}
		sig := fmt.Sprintf("%s_%d", strings.ToLower(words[0]), len(words)/5)
		signatures = append(signatures, sig)
		unique[sig] = struct{}{}
	}
	if float64(len(unique)) < float64(len(signatures))*0.6 {
		score += 15
		detected = append(detected, "repetitive sentence structure")
	}

	if score > 100 {
		score = 100
	}
	if len(detected) == 0 {
		detected = []string{"none detected"}
	}

	return WritingPatterns{AIScore: score, DetectedPatterns: detected}
}

// Transitions reports formal connective usage relative to sentence count.
type Transitions struct {
	TransitionCount int `json:"transition_count"`
	OveruseRate     int `json:"overuse_rate"`
}

func analyzeTransitions(text string) Transitions {
	textLower := strings.ToLower(text)

	count := 0
	for _, word := range aiTransitionWords {
		count += strings.Count(textLower, word)
	}

	rate := 0
	if n := len(splitSentences(text)); n > 0 {
		rate = count * 100 / n
	}

	return Transitions{TransitionCount: count, OveruseRate: rate}
}

// NaturalFlow flags conversational markers.
type NaturalFlow struct {
	HasContractions bool `json:"has_contractions"`
	HasQuestions    bool `json:"has_questions"`
	QuestionCount   int  `json:"question_count"`
	HasFirstPerson  bool `json:"has_first_person"`
}

func analyzeNaturalFlow(text string) NaturalFlow {
	textLower := strings.ToLower(text)

	hasContractions := false
	for _, c := range contractions {
		if strings.Contains(textLower, c) {
			hasContractions = true
			break
		}
	}

	return NaturalFlow{
		HasContractions: hasContractions,
		HasQuestions:    strings.Contains(text, "?"),
		QuestionCount:   strings.Count(text, "?"),
		HasFirstPerson:  firstPersonPattern.MatchString(textLower),
	}
}

// SentenceScore is one heatmap entry: 0 reads human, 100 reads AI.
type SentenceScore struct {
	Sentence string `json:"sentence"`
	Score    int    `json:"score"`
	Index    int    `json:"index"`
}

func generateHeatmap(sentences []string) []SentenceScore {
	heatmap := make([]SentenceScore, 0, len(sentences))

	for i, sentence := range sentences {
		score := 0
		sentenceLower := strings.ToLower(sentence)

		if strings.Contains(sentenceLower, "delve") {
			score += 30
		}

		for _, phrase := range heatmapFormulaic {
			if strings.Contains(sentenceLower, phrase) {
				score += 25
				break
			}
		}

		if heatmapTransitionPattern.MatchString(sentenceLower) {
			score += 20
		}

		// The 15-20 word range is where generated prose tends to settle
		if n := len(strings.Fields(sentence)); n >= 15 && n <= 20 {
			score += 10
		}

		if score > 100 {
			score = 100
		}

		display := sentence
		if runes := []rune(sentence); len(runes) > 100 {
			display = string(runes[:100]) + "..."
		}

		heatmap = append(heatmap, SentenceScore{Sentence: display, Score: score, Index: i})
	}

	return heatmap
}
