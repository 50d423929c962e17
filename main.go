package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/content-audit/backend/analyzer"
	"github.com/content-audit/backend/config"
	"github.com/content-audit/backend/extractor"
	"github.com/content-audit/backend/improver"
	"github.com/content-audit/backend/logging"
	"github.com/content-audit/backend/middleware"
	"github.com/content-audit/backend/serp"
	"github.com/content-audit/backend/stats"
)

var (
	cfg             *config.Config
	aggregator      *analyzer.Aggregator
	contentExtract  *extractor.Extractor
	contentImprover *improver.Improver
	serpScraper     *serp.Scraper
	statsStorage    *stats.Storage
	usageStats      *logging.Statistics
)

func setupGinMode() {
	mode := cfg.GinMode
	if mode == "" {
		// Default to release mode if not specified
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
}

func main() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	setupGinMode()

	// Initialize services
	statsStorage, err = stats.NewStorage(cfg.DataDir)
	if err != nil {
		log.Fatal("Failed to initialize stats storage:", err)
	}
	defer statsStorage.Shutdown()

	serpScraper = serp.New(statsStorage)
	serpScraper.SetSearchBaseURL(cfg.SearchBaseURL)

	aggregator = analyzer.NewAggregator(serpScraper)
	contentExtract = extractor.New()
	contentImprover = improver.New(cfg, statsStorage)

	if !contentImprover.Configured() {
		log.Println("OPENAI_API_KEY not set, improvement endpoints will return errors")
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerIP, cfg.RateLimitBurst)

	// Initialize statistics
	usageStats = logging.Initialize()

	// Initialize Gin router
	r := gin.Default()

	// Add middlewares
	r.Use(middleware.ErrorHandler())
	if cfg.RateLimitEnabled {
		r.Use(rateLimiter.RateLimit())
	}

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Visitor and timing tracking
	r.Use(func(c *gin.Context) {
		start := time.Now()

		// Get the real IP address
		ip := c.ClientIP()

		// Track unique visitor
		usageStats.TrackVisitor(ip)

		c.Next()

		// Only track analysis requests
		if c.Request.URL.Path == "/api/analyze" && c.Request.Method == "POST" {
			analysisTime := float64(time.Since(start).Milliseconds())
			usageStats.TrackAnalysis(c.GetString("target_keyword"), analysisTime, c.Writer.Status() >= 400)
		}
	})

	// API routes
	api := r.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})

		api.POST("/analyze", analyzeContent)
		api.POST("/improve", improveContent)
		api.POST("/subtopics", suggestSubtopics)

		// Statistics endpoint
		api.GET("/statistics", func(c *gin.Context) {
			response := usageStats.GetStatistics()
			response["monthly"] = statsStorage.GetCurrentStats()
			c.JSON(http.StatusOK, response)
		})
	}

	log.Printf("Server starting on http://localhost:%s\n", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func analyzeContent(c *gin.Context) {
	var request struct {
		Input         string `json:"input"`
		TargetKeyword string `json:"target_keyword"`
		IsURL         bool   `json:"is_url"`
	}

	if err := c.ShouldBindJSON(&request); err != nil || request.Input == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No input provided"})
		return
	}

	c.Set("target_keyword", request.TargetKeyword)

	var (
		content *extractor.Content
		err     error
	)
	if request.IsURL {
		content, err = contentExtract.ExtractURL(c.Request.Context(), request.Input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to fetch URL: " + err.Error()})
			return
		}
	} else {
		content, err = contentExtract.Extract(c.Request.Context(), request.Input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to fetch URL: " + err.Error()})
			return
		}
	}

	if content.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not extract text from input"})
		return
	}

	report := aggregator.AnalyzeWithContext(c.Request.Context(), analyzer.Input{
		Text:            content.Text,
		Headers:         content.Headers,
		MetaDescription: content.MetaDescription,
		TargetKeyword:   request.TargetKeyword,
		SourceType:      content.SourceType,
		URL:             content.URL,
		Title:           content.Title,
	})

	statsStorage.RecordAnalysis()

	c.JSON(http.StatusOK, report)
}

func improveContent(c *gin.Context) {
	var request struct {
		Text            string                  `json:"text"`
		Analysis        *analyzer.OverallReport `json:"analysis"`
		ImprovementType string                  `json:"improvement_type"`
		TargetKeyword   string                  `json:"target_keyword"`
		Title           string                  `json:"title"`
		Paragraph       string                  `json:"paragraph"`
		IssueType       string                  `json:"issue_type"`
	}

	if err := c.ShouldBindJSON(&request); err != nil || request.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No text provided"})
		return
	}

	ctx := c.Request.Context()

	switch request.ImprovementType {
	case "meta":
		improved, err := contentImprover.FixMetaDescription(ctx, request.Title, request.Text, request.TargetKeyword)
		if err != nil {
			c.JSON(http.StatusOK, improver.Result{Success: false, Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"improved_meta": improved,
			"changes_made":  []string{"Generated SEO-optimized meta description"},
		})

	case "seo":
		c.JSON(http.StatusOK, contentImprover.RewriteForSEO(ctx, request.Text, request.TargetKeyword))

	case "humanize":
		c.JSON(http.StatusOK, contentImprover.HumanizeContent(ctx, request.Text))

	case "readability":
		c.JSON(http.StatusOK, contentImprover.ImproveReadability(ctx, request.Text))

	case "engagement":
		c.JSON(http.StatusOK, contentImprover.BoostEngagement(ctx, request.Text))

	case "paragraph":
		paragraph := request.Paragraph
		if paragraph == "" {
			paragraph = request.Text
			if runes := []rune(paragraph); len(runes) > 500 {
				paragraph = string(runes[:500])
			}
		}
		issueType := request.IssueType
		if issueType == "" {
			issueType = "humanization"
		}
		c.JSON(http.StatusOK, gin.H{
			"success":            true,
			"improved_paragraph": contentImprover.RewriteParagraph(ctx, paragraph, issueType),
		})

	default:
		// Full content improvement
		if request.Analysis == nil {
			request.Analysis = &analyzer.OverallReport{}
		}
		c.JSON(http.StatusOK, contentImprover.GenerateFixes(ctx, request.Text, request.Analysis))
	}
}

func suggestSubtopics(c *gin.Context) {
	var request struct {
		Keyword  string             `json:"keyword"`
		SERPData *analyzer.SERPData `json:"serp_data"`
	}

	if err := c.ShouldBindJSON(&request); err != nil || request.Keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No keyword provided"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"subtopics": contentImprover.SuggestSubtopics(c.Request.Context(), request.Keyword, request.SERPData),
	})
}
