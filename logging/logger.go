package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Environment variable name for controlling statistics visibility
const ENV_DEV_MODE = "DEV_MODE"

// Statistics represents the collected usage statistics
type Statistics struct {
	UniqueVisitors      map[string]time.Time `json:"uniqueVisitors"`      // IP -> Last Visit Time
	AnalysisRequests    int                  `json:"analysisRequests"`    // Total number of analysis requests
	ErrorCount          int                  `json:"errorCount"`          // Number of errors
	PopularKeywords     map[string]int       `json:"popularKeywords"`     // Target keyword -> Count
	AverageAnalysisTime float64              `json:"averageAnalysisTime"` // Average analysis time in milliseconds
	TotalAnalysisTime   float64              `json:"-"`                   // Used to calculate average
	RequestCount        int                  `json:"-"`                   // Used to calculate average
	LastPersisted       time.Time            `json:"lastPersisted"`       // Last time stats were saved
	mutex               sync.RWMutex
}

var (
	stats *Statistics
	once  sync.Once
)

// Initialize creates or loads the statistics
func Initialize() *Statistics {
	once.Do(func() {
		stats = &Statistics{
			UniqueVisitors:  make(map[string]time.Time),
			PopularKeywords: make(map[string]int),
			LastPersisted:   time.Now(),
		}

		// Try to load existing statistics
		if err := stats.Load(); err != nil {
			fmt.Printf("Could not load existing statistics: %v\n", err)
		}
	})
	return stats
}

// TrackVisitor records a unique visitor
func (s *Statistics) TrackVisitor(ip string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.UniqueVisitors[ip] = time.Now()
}

// TrackAnalysis records an analysis request
func (s *Statistics) TrackAnalysis(targetKeyword string, analysisTime float64, hasError bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.AnalysisRequests++

	keyword := strings.TrimSpace(strings.ToLower(targetKeyword))
	if keyword != "" {
		s.PopularKeywords[keyword]++
	}

	if hasError {
		s.ErrorCount++
	}

	// Update average analysis time
	s.TotalAnalysisTime += analysisTime
	s.RequestCount++
	s.AverageAnalysisTime = s.TotalAnalysisTime / float64(s.RequestCount)
}

// GetUniqueVisitorsCount returns the number of unique visitors in the last 24 hours
func (s *Statistics) GetUniqueVisitorsCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.uniqueVisitorsLocked()
}

func (s *Statistics) uniqueVisitorsLocked() int {
	count := 0
	cutoff := time.Now().Add(-24 * time.Hour)

	for _, lastVisit := range s.UniqueVisitors {
		if lastVisit.After(cutoff) {
			count++
		}
	}

	return count
}

// GetPopularKeywords returns the top N most analyzed keywords
func (s *Statistics) GetPopularKeywords(n int) map[string]int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.popularKeywordsLocked(n)
}

func (s *Statistics) popularKeywordsLocked(n int) map[string]int {
	type keywordCount struct {
		keyword string
		count   int
	}

	ranked := make([]keywordCount, 0, len(s.PopularKeywords))
	for keyword, freq := range s.PopularKeywords {
		ranked = append(ranked, keywordCount{keyword, freq})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].keyword < ranked[j].keyword
	})

	result := make(map[string]int)
	for i, kc := range ranked {
		if i >= n {
			break
		}
		result[kc.keyword] = kc.count
	}

	return result
}

// GetErrorRate returns the error rate as a percentage
func (s *Statistics) GetErrorRate() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.errorRateLocked()
}

func (s *Statistics) errorRateLocked() float64 {
	if s.AnalysisRequests == 0 {
		return 0
	}

	return (float64(s.ErrorCount) / float64(s.AnalysisRequests)) * 100
}

// Save persists the statistics to a file
func (s *Statistics) Save() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.LastPersisted = time.Now()

	file, err := os.Create("statistics.json")
	if err != nil {
		return fmt.Errorf("could not create statistics file: %v", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	if err := encoder.Encode(s); err != nil {
		return fmt.Errorf("could not encode statistics: %v", err)
	}

	return nil
}

// Load reads the statistics from a file
func (s *Statistics) Load() error {
	file, err := os.Open("statistics.json")
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Not an error if file doesn't exist yet
		}
		return fmt.Errorf("could not open statistics file: %v", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(s); err != nil {
		return fmt.Errorf("could not decode statistics: %v", err)
	}

	return nil
}

// GetStatistics returns a copy of the current statistics, but only in development mode
func (s *Statistics) GetStatistics() map[string]interface{} {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	// In production, return limited statistics without sensitive data
	if os.Getenv(ENV_DEV_MODE) != "true" {
		return map[string]interface{}{
			"uniqueVisitors24h":   s.uniqueVisitorsLocked(),
			"totalRequests":       s.AnalysisRequests,
			"errorRate":           s.errorRateLocked(),
			"averageAnalysisTime": s.AverageAnalysisTime,
		}
	}

	// In development mode, return full statistics
	return map[string]interface{}{
		"uniqueVisitors24h":   s.uniqueVisitorsLocked(),
		"totalRequests":       s.AnalysisRequests,
		"errorRate":           s.errorRateLocked(),
		"averageAnalysisTime": s.AverageAnalysisTime,
		"popularKeywords":     s.popularKeywordsLocked(5), // Top 5 keywords only shown in dev mode
	}
}
