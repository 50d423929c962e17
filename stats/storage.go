package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// MonthlyStats holds the counters for one calendar month.
type MonthlyStats struct {
	AnalysesRun      int       `json:"analyses_run"`
	SERPCacheHits    int       `json:"serp_cache_hits"`
	SERPCacheMisses  int       `json:"serp_cache_misses"`
	ImproverCalls    int       `json:"improver_calls"`
	ImproverFailures int       `json:"improver_failures"`
	LastUpdated      time.Time `json:"last_updated"`
}

// Storage persists usage counters to disk, bucketed by month.
type Storage struct {
	mutex       sync.RWMutex
	stats       map[string]*MonthlyStats // key: "YYYY-MM"
	filePath    string
	lastWrite   time.Time
	writeBuffer chan struct{}
	done        chan struct{}
}

// NewStorage creates a storage instance backed by dataDir/stats.json and
// starts its background writer.
func NewStorage(dataDir string) (*Storage, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Storage{
		stats:       make(map[string]*MonthlyStats),
		filePath:    filepath.Join(dataDir, "stats.json"),
		writeBuffer: make(chan struct{}, 1),
		done:        make(chan struct{}),
	}

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	go s.backgroundWriter()

	return s, nil
}

func (s *Storage) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	return json.Unmarshal(data, &s.stats)
}

func (s *Storage) save() error {
	s.mutex.RLock()
	data, err := json.Marshal(s.stats)
	s.mutex.RUnlock()

	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	// Write-then-rename keeps the file intact if we die mid-write
	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tempFile, s.filePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

func (s *Storage) backgroundWriter() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.writeBuffer:
			s.save()
		case <-ticker.C:
			s.save()
		case <-s.done:
			return
		}
	}
}

func currentMonth() string {
	return time.Now().Format("2006-01")
}

func (s *Storage) requestWrite() {
	select {
	case s.writeBuffer <- struct{}{}:
	default:
		// Write already pending
	}
}

func (s *Storage) update(apply func(*MonthlyStats)) {
	month := currentMonth()

	s.mutex.Lock()
	monthly, exists := s.stats[month]
	if !exists {
		monthly = &MonthlyStats{}
		s.stats[month] = monthly
	}
	apply(monthly)
	monthly.LastUpdated = time.Now()
	writeDue := time.Since(s.lastWrite) > time.Minute
	if writeDue {
		s.lastWrite = time.Now()
	}
	s.mutex.Unlock()

	if writeDue {
		s.requestWrite()
	}
}

// RecordAnalysis counts one full content analysis.
func (s *Storage) RecordAnalysis() {
	s.update(func(m *MonthlyStats) { m.AnalysesRun++ })
}

// RecordSERPCache counts one competitor-aggregate cache lookup.
func (s *Storage) RecordSERPCache(hit bool) {
	s.update(func(m *MonthlyStats) {
		if hit {
			m.SERPCacheHits++
		} else {
			m.SERPCacheMisses++
		}
	})
}

// RecordImproverCall counts one language-model invocation.
func (s *Storage) RecordImproverCall(failed bool) {
	s.update(func(m *MonthlyStats) {
		m.ImproverCalls++
		if failed {
			m.ImproverFailures++
		}
	})
}

// GetCurrentStats returns the counters for the current month.
func (s *Storage) GetCurrentStats() MonthlyStats {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if monthly, exists := s.stats[currentMonth()]; exists {
		return *monthly
	}
	return MonthlyStats{}
}

// GetMonthlyStats returns the counters for a specific "YYYY-MM" month.
func (s *Storage) GetMonthlyStats(yearMonth string) (MonthlyStats, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if monthly, exists := s.stats[yearMonth]; exists {
		return *monthly, true
	}
	return MonthlyStats{}, false
}

// GetAllMonths returns every month with recorded counters, newest first.
func (s *Storage) GetAllMonths() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	months := make([]string, 0, len(s.stats))
	for month := range s.stats {
		months = append(months, month)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))

	return months
}

// Cleanup drops every month except the current and previous one.
func (s *Storage) Cleanup() {
	now := time.Now()
	keep := map[string]bool{
		now.Format("2006-01"):                   true,
		now.AddDate(0, -1, 0).Format("2006-01"): true,
	}

	s.mutex.Lock()
	for key := range s.stats {
		if !keep[key] {
			delete(s.stats, key)
		}
	}
	s.mutex.Unlock()

	s.requestWrite()
}

// Shutdown stops the background writer and flushes counters to disk.
func (s *Storage) Shutdown() error {
	close(s.done)
	return s.save()
}
