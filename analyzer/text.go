package analyzer

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

var sentenceSplitPattern = regexp.MustCompile(`[.!?]+`)

// countWords returns the whitespace-delimited word count.
func countWords(text string) int {
	return len(strings.Fields(text))
}

// splitSentences splits text on terminal punctuation and keeps only
// sentences longer than 10 characters after trimming.
func splitSentences(text string) []string {
	parts := sentenceSplitPattern.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) > 10 {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// rawSentenceCount counts split pieces without any length filtering,
// including empty trailing fragments.
func rawSentenceCount(text string) int {
	return len(sentenceSplitPattern.Split(text, -1))
}

// countSyllables estimates syllables in a single word by counting vowel
// groups, dropping a trailing silent e, with a minimum of one.
func countSyllables(word string) int {
	word = strings.ToLower(strings.TrimFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r)
	}))
	if word == "" {
		return 0
	}

	const vowels = "aeiouy"
	count := 0
	prevVowel := false
	for _, r := range word {
		isVowel := strings.ContainsRune(vowels, r)
		if isVowel && !prevVowel {
			count++
		}
		prevVowel = isVowel
	}

	if strings.HasSuffix(word, "e") && count > 1 {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}

func totalSyllables(words []string) int {
	total := 0
	for _, w := range words {
		total += countSyllables(w)
	}
	return total
}

// fleschReadingEase computes the standard Flesch score (0-100, higher is
// easier). Zero sentences or words short-circuits to 0 rather than dividing.
func fleschReadingEase(text string) float64 {
	sentences := splitSentences(text)
	words := strings.Fields(text)
	if len(sentences) == 0 || len(words) == 0 {
		return 0
	}

	wordsPerSentence := float64(len(words)) / float64(len(sentences))
	syllablesPerWord := float64(totalSyllables(words)) / float64(len(words))

	score := 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord
	return math.Max(0, math.Min(100, score))
}

// fleschKincaidGrade computes the Flesch-Kincaid grade-level estimate.
func fleschKincaidGrade(text string) float64 {
	sentences := splitSentences(text)
	words := strings.Fields(text)
	if len(sentences) == 0 || len(words) == 0 {
		return 0
	}

	wordsPerSentence := float64(len(words)) / float64(len(sentences))
	syllablesPerWord := float64(totalSyllables(words)) / float64(len(words))

	grade := 0.39*wordsPerSentence + 11.8*syllablesPerWord - 15.59
	return math.Max(0, grade)
}

// readingLevel maps a Flesch score to its qualitative tier.
func readingLevel(flesch float64) string {
	switch {
	case flesch >= 90:
		return "Very Easy (5th grade)"
	case flesch >= 80:
		return "Easy (6th grade)"
	case flesch >= 70:
		return "Fairly Easy (7th grade)"
	case flesch >= 60:
		return "Standard (8th-9th grade)"
	case flesch >= 50:
		return "Fairly Difficult (10th-12th grade)"
	case flesch >= 30:
		return "Difficult (College)"
	default:
		return "Very Difficult (College graduate)"
	}
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
