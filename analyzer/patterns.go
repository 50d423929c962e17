package analyzer

import "regexp"

// Shared pattern vocabularies. These are immutable constant tables referenced
// by several analyzers; nothing mutates them at runtime.

// Citation detection (AEO).
var (
	urlPattern           = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)
	sourceMentionPattern = regexp.MustCompile(`(?i)(according to|source:|via|study by|research by|data from|reported by)`)
)

// Structured-content markers (AEO). Applied to lowercased text.
var (
	faqPattern        = regexp.MustCompile(`(frequently asked questions|faq|q:|question:|q\d+:)`)
	howToPattern      = regexp.MustCompile(`(step \d+|first,|second,|third,|finally,|\d+\.\s+\w+)`)
	definitionPattern = regexp.MustCompile(`(is defined as|refers to|means that|is a|are \w+ that)`)
	summaryPattern    = regexp.MustCompile(`(in summary|in conclusion|to summarize|key takeaways|bottom line)`)
)

// Direct-answer sentence lead-ins (AEO). Matched against trimmed, lowercased
// sentences.
var directAnswerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(yes|no),`),
	regexp.MustCompile(`^the (best|main|primary|key)`),
	regexp.MustCompile(`^\w+ (is|are|can|will|should)`),
	regexp.MustCompile(`^you (can|should|need|must)`),
}

// Content-element detection (SERP).
var (
	userStatsPattern      = regexp.MustCompile(`\d+%|\d+\s*(percent|million|billion|thousand|users|customers)`)
	userExamplesPattern   = regexp.MustCompile(`(for example|case study|real-world|instance|specifically)`)
	userComparisonPattern = regexp.MustCompile(`(comparison|versus|vs\.|compared to|alternative)`)
)

// Subtopic suggestions by keyword category (SERP). Substring match on the
// target keyword, first category wins; genericTopics is the fallback when no
// category matches. Ordered slice so repeated runs pick the same category.
type topicCategory struct {
	name   string
	topics []string
}

var topicSuggestions = []topicCategory{
	{"laptop", []string{"Price comparisons", "Battery life tests", "Performance benchmarks", "User reviews"}},
	{"phone", []string{"Camera comparisons", "Battery tests", "Price analysis", "User ratings"}},
	{"software", []string{"Feature comparison", "Pricing tiers", "User testimonials", "Integration guides"}},
	{"service", []string{"Pricing breakdown", "Customer reviews", "Alternatives comparison", "Setup guide"}},
	{"product", []string{"Specs comparison", "Price analysis", "Customer feedback", "Best use cases"}},
	{"guide", []string{"Step-by-step tutorial", "Common mistakes", "Expert tips", "FAQ section"}},
	{"review", []string{"Pros and cons", "Alternatives", "Pricing", "User feedback"}},
}

var genericTopics = []string{"Detailed comparisons", "User testimonials", "Expert analysis", "Pricing breakdown"}

// AI-style markers (humanization).
var (
	formulaicPhrases = []string{
		"it is important to note",
		"it is worth noting",
		"in today's world",
		"in today's digital age",
		"in conclusion",
		"to sum up",
		"as we've seen",
	}
	adverbPattern          = regexp.MustCompile(`\b(very|really|quite|extremely|incredibly|absolutely|definitely)\b`)
	sentenceFragmentRegexp = regexp.MustCompile(`\b(but|and|so)\s+[A-Z]`)
	informalWordPattern    = regexp.MustCompile(`\b(gonna|wanna|gotta|yeah|nah)\b`)

	aiTransitionWords = []string{
		"moreover", "furthermore", "additionally", "consequently",
		"nevertheless", "nonetheless", "thus", "hence", "therefore",
	}

	contractions = []string{
		"don't", "can't", "won't", "isn't", "aren't",
		"hasn't", "haven't", "it's", "that's", "what's",
	}

	firstPersonPattern = regexp.MustCompile(`\b(i|we|my|our|me|us)\b`)
)

// Per-sentence heatmap markers (humanization).
var (
	heatmapFormulaic = []string{
		"it is important to note", "it is worth noting", "in today's",
		"as we've seen", "to sum up",
	}
	heatmapTransitionPattern = regexp.MustCompile(`\b(moreover|furthermore|additionally|consequently|nevertheless)\b`)
)

// Uniqueness and voice markers (differentiation).
var (
	genericBoilerplate = []string{
		"it is important", "you need to", "there are many", "this is a",
		"can help you", "one of the", "make sure", "keep in mind",
		"in this article", "we will discuss", "you should", "it can be",
	}

	personalIndicators = []string{
		"in my experience", "i found", "we discovered", "our research",
		"we tested", "my team", "our analysis", "we analyzed",
	}

	perspectiveIndicators = []string{
		"student", "beginner", "expert", "professional", "small business",
		"enterprise", "startup", "freelancer", "mom", "dad", "senior",
	}

	personalExamplePattern = regexp.MustCompile(`(in my|i found|we tested|our research|we analyzed|my experience|our study)`)
	originalDataPattern    = regexp.MustCompile(`(our data shows|we found that|our analysis reveals|survey of \d+)`)
	uniqueComparisonRegex  = regexp.MustCompile(`(we compared|we tested|we evaluated|our comparison|our review)`)
	visualContentPattern   = regexp.MustCompile(`(see chart|see graph|image below|screenshot|diagram|infographic)`)

	genericOpenings = []string{
		"in this article", "in this guide", "in this post",
		"what is", "introduction", "overview",
	}

	casualVoiceMarkers    = []string{"you'll", "let's", "here's", "that's", "don't"}
	technicalVoiceMarkers = []string{"algorithm", "optimize", "metric", "parameter", "implementation"}
	playfulVoiceMarkers   = []string{"🎯", "🚀", "💪", "✨", "!!"}
	storyVoiceMarkers     = []string{"once", "imagine", "picture this", "story", "journey"}
)
