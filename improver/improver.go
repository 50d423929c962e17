package improver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/content-audit/backend/analyzer"
	"github.com/content-audit/backend/config"
	"github.com/content-audit/backend/stats"
)

// Result is the outcome of one improvement request. A failed call carries
// the error text instead of content so handlers can pass it straight through.
type Result struct {
	Success         bool     `json:"success"`
	ImprovedContent string   `json:"improved_content,omitempty"`
	ChangesMade     []string `json:"changes_made,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// Improver rewrites content through an OpenAI-compatible chat endpoint.
// Without an API key every method fails cleanly instead of erroring out.
type Improver struct {
	endpoint  string
	apiKey    string
	model     string
	fastModel string
	client    *http.Client
	stats     *stats.Storage
}

// New creates an improver from the app config. statsStorage may be nil.
func New(cfg *config.Config, statsStorage *stats.Storage) *Improver {
	return &Improver{
		endpoint:  cfg.AIEndpoint,
		apiKey:    cfg.AIAPIKey,
		model:     cfg.AIModel,
		fastModel: cfg.AIModelFast,
		client:    &http.Client{Timeout: 30 * time.Second},
		stats:     statsStorage,
	}
}

// Configured reports whether an API key is present.
func (im *Improver) Configured() bool {
	return im.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// chat performs one completion call and returns the assistant's text.
func (im *Improver) chat(ctx context.Context, model, system, user string, temperature float64, maxTokens int) (string, error) {
	if im.apiKey == "" {
		return "", fmt.Errorf("OpenAI API key not configured")
	}

	messages := []chatMessage{}
	if system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: user})

	reqJSON, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, im.endpoint, bytes.NewReader(reqJSON))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+im.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := im.client.Do(req)
	if err != nil {
		im.recordCall(true)
		return "", fmt.Errorf("AI request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		im.recordCall(true)
		if resp.StatusCode == http.StatusUnauthorized {
			return "", fmt.Errorf("AI authentication failed: check OPENAI_API_KEY (status %d)", resp.StatusCode)
		}
		return "", fmt.Errorf("AI service error: %s", resp.Status)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	// Cap the response body at 1MB
	limitedReader := io.LimitReader(resp.Body, 1024*1024)
	if err := json.NewDecoder(limitedReader).Decode(&result); err != nil {
		im.recordCall(true)
		return "", fmt.Errorf("failed to decode AI response: %w", err)
	}

	if len(result.Choices) == 0 {
		im.recordCall(true)
		return "", fmt.Errorf("AI returned no choices")
	}

	im.recordCall(false)
	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

func (im *Improver) recordCall(failed bool) {
	if im.stats != nil {
		im.stats.RecordImproverCall(failed)
	}
}

// GenerateFixes rewrites content guided by the top issues from a full
// analysis.
func (im *Improver) GenerateFixes(ctx context.Context, text string, report *analyzer.OverallReport) Result {
	if !im.Configured() {
		return Result{Success: false, Error: "OpenAI API key not configured"}
	}

	prompt := buildImprovementPrompt(text, report)

	improved, err := im.chat(ctx, im.model,
		"You are an expert SEO and content strategist. Improve content based on specific feedback.",
		prompt, 0.7, 2000)
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}

	return Result{
		Success:         true,
		ImprovedContent: improved,
		ChangesMade:     summarizeChanges(report),
	}
}

// RewriteForSEO rewrites content optimized for one target keyword.
func (im *Improver) RewriteForSEO(ctx context.Context, text, targetKeyword string) Result {
	if !im.Configured() {
		return Result{Success: false, Error: "OpenAI API key not configured"}
	}

	prompt := fmt.Sprintf(`Rewrite this content to be SEO-optimized for the keyword: "%s"

Requirements:
- Include the target keyword naturally 3-5 times
- Use semantic keywords and related terms
- Improve heading structure with keywords
- Add relevant examples and data
- Maintain readability and natural flow

Original Content:
%s

SEO-Optimized Version:`, targetKeyword, clip(text, 2000))

	improved, err := im.chat(ctx, im.model,
		"You are an expert SEO content writer. Optimize content for search engines while keeping it natural and engaging.",
		prompt, 0.7, 2500)
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}

	return Result{
		Success:         true,
		ImprovedContent: improved,
		ChangesMade: []string{
			fmt.Sprintf("Optimized for target keyword: %s", targetKeyword),
			"Improved keyword density and placement",
			"Enhanced heading structure",
			"Added semantic keywords",
		},
	}
}

// HumanizeContent rewrites content to sound natural and conversational.
func (im *Improver) HumanizeContent(ctx context.Context, text string) Result {
	if !im.Configured() {
		return Result{Success: false, Error: "OpenAI API key not configured"}
	}

	prompt := fmt.Sprintf(`Rewrite this content to sound more human, natural, and conversational.

Requirements:
- Vary sentence structure and length
- Use contractions naturally (e.g., "you're" instead of "you are")
- Add personality and warmth
- Remove robotic or AI-like patterns
- Include transitional phrases
- Make it engaging and relatable

Original Content:
%s

Humanized Version:`, clip(text, 2000))

	improved, err := im.chat(ctx, im.model,
		"You are an expert content writer who excels at making text sound natural and human. Avoid AI-like patterns.",
		prompt, 0.8, 2500)
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}

	return Result{
		Success:         true,
		ImprovedContent: improved,
		ChangesMade: []string{
			"Added natural conversational tone",
			"Varied sentence structure",
			"Removed AI-like patterns",
			"Increased readability and warmth",
		},
	}
}

// ImproveReadability simplifies content toward an 8th-grade reading level.
func (im *Improver) ImproveReadability(ctx context.Context, text string) Result {
	if !im.Configured() {
		return Result{Success: false, Error: "OpenAI API key not configured"}
	}

	prompt := fmt.Sprintf(`Rewrite this content to be easier to read and understand.

Requirements:
- Use simpler words (8th-grade reading level)
- Shorter sentences (15-20 words average)
- Clear and direct language
- Break complex ideas into smaller parts
- Use bullet points where appropriate
- Add examples to clarify concepts

Original Content:
%s

Simplified Version:`, clip(text, 2000))

	improved, err := im.chat(ctx, im.model,
		"You are an expert at simplifying complex content. Make text clear, concise, and easy to understand.",
		prompt, 0.6, 2500)
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}

	return Result{
		Success:         true,
		ImprovedContent: improved,
		ChangesMade: []string{
			"Simplified language and vocabulary",
			"Shortened sentences",
			"Improved clarity and flow",
			"Added helpful examples",
		},
	}
}

// BoostEngagement rewrites content to be more compelling.
func (im *Improver) BoostEngagement(ctx context.Context, text string) Result {
	if !im.Configured() {
		return Result{Success: false, Error: "OpenAI API key not configured"}
	}

	prompt := fmt.Sprintf(`Rewrite this content to be more engaging, compelling, and captivating.

Requirements:
- Start with a strong hook
- Use power words and emotional triggers
- Add questions to engage readers
- Include storytelling elements
- Create urgency or curiosity
- Use active voice
- Add specific examples and data points

Original Content:
%s

Engaging Version:`, clip(text, 2000))

	improved, err := im.chat(ctx, im.model,
		"You are an expert copywriter who creates compelling, engaging content that captures attention and drives action.",
		prompt, 0.8, 2500)
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}

	return Result{
		Success:         true,
		ImprovedContent: improved,
		ChangesMade: []string{
			"Added engaging hooks and questions",
			"Incorporated storytelling elements",
			"Used power words and emotional triggers",
			"Improved overall compelling nature",
		},
	}
}

// FixMetaDescription generates an optimized meta description.
func (im *Improver) FixMetaDescription(ctx context.Context, title, text, targetKeyword string) (string, error) {
	prompt := fmt.Sprintf(`Write a compelling meta description (150-160 characters) for this content:

Title: %s
Target Keyword: %s
Content Preview: %s

Requirements:
- Exactly 150-160 characters
- Include target keyword naturally
- Compelling and click-worthy
- Accurate summary of content`, title, targetKeyword, clip(text, 500))

	description, err := im.chat(ctx, im.fastModel, "", prompt, 0.7, 100)
	if err != nil {
		return "", err
	}

	return strings.Trim(description, `"`), nil
}

// RewriteParagraph rewrites one paragraph to fix a named issue type.
// On any failure the original paragraph comes back unchanged.
func (im *Improver) RewriteParagraph(ctx context.Context, paragraph, issueType string) string {
	if !im.Configured() {
		return paragraph
	}

	instructions := map[string]string{
		"humanization": "Make this sound more natural and conversational. Vary sentence structure and length. Remove AI-like patterns.",
		"readability":  "Simplify this paragraph. Use shorter sentences and simpler words. Improve readability.",
		"keyword":      "Rewrite this to naturally include the target keyword 2-3 times without keyword stuffing.",
		"engagement":   "Make this more engaging. Add a question or hook. Make it more compelling.",
	}

	instruction, known := instructions[issueType]
	if !known {
		instruction = "Improve this paragraph"
	}

	prompt := fmt.Sprintf(`%s

Original: %s

Rewritten (same meaning, improved style):`, instruction, paragraph)

	rewritten, err := im.chat(ctx, im.fastModel, "", prompt, 0.7, 300)
	if err != nil {
		return paragraph
	}
	return rewritten
}

// SuggestSubtopics proposes subtopics top-ranking content should cover,
// informed by the competitor aggregate when available.
func (im *Improver) SuggestSubtopics(ctx context.Context, keyword string, serpData *analyzer.SERPData) []string {
	if !im.Configured() {
		return []string{}
	}

	competitorInfo := ""
	if serpData != nil {
		competitorInfo = fmt.Sprintf(`
Competitor patterns:
- %d%% include statistics
- %d%% use case studies
- %d%% have comparisons
`, serpData.Patterns.HasStats, serpData.Patterns.HasExamples, serpData.Patterns.HasComparisons)
	}

	prompt := fmt.Sprintf(`For the keyword "%s", suggest 5-7 subtopics that top-ranking content should cover.

%s

Return as a numbered list of subtopics, each 3-6 words.`, keyword, competitorInfo)

	response, err := im.chat(ctx, im.fastModel, "", prompt, 0.7, 200)
	if err != nil {
		return []string{}
	}

	subtopics := []string{}
	for _, line := range strings.Split(response, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			subtopics = append(subtopics, trimmed)
		}
	}
	return subtopics
}

// buildImprovementPrompt folds the top issues from each analyzer into one
// rewrite instruction.
func buildImprovementPrompt(text string, report *analyzer.OverallReport) string {
	issues := []string{}

	appendIssues := func(label string, r *analyzer.Report, limit int) {
		if r == nil {
			return
		}
		found := r.Issues
		if len(found) > limit {
			found = found[:limit]
		}
		for _, issue := range found {
			issues = append(issues, fmt.Sprintf("%s: %s", label, issue))
		}
	}

	appendIssues("SEO", report.Scores.SEO, 2)
	appendIssues("Humanization", report.Scores.Humanization, 2)
	appendIssues("Uniqueness", report.Scores.Differentiation, 1)

	if len(issues) > 5 {
		issues = issues[:5]
	}

	var bullets strings.Builder
	for _, issue := range issues {
		fmt.Fprintf(&bullets, "- %s\n", issue)
	}

	return fmt.Sprintf(`Improve this content based on these specific issues:

%s
Original Content:
%s

Please rewrite focusing on fixing these issues while maintaining the core message. Make it more engaging, SEO-friendly, and unique.`, bullets.String(), clip(text, 1500))
}

// summarizeChanges describes the expected fixes from the analyzer scores.
func summarizeChanges(report *analyzer.OverallReport) []string {
	changes := []string{}

	if report.Scores.SEO != nil && report.Scores.SEO.Score < 75 {
		changes = append(changes, "Improved keyword usage and readability")
	}
	if report.Scores.Humanization != nil && report.Scores.Humanization.Score < 70 {
		changes = append(changes, "Made content sound more natural and conversational")
	}
	if report.Scores.Differentiation != nil && report.Scores.Differentiation.Score < 70 {
		changes = append(changes, "Added unique perspective and examples")
	}

	if len(changes) == 0 {
		changes = []string{"General content improvements"}
	}
	return changes
}

func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
