package service

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/creative-studio/internal/types"
)

// slowGeneration marks calls worth flagging in the stats
const slowGeneration = 30 * time.Second

// GenerationMonitor tracks per-tool latency and success rates in memory
type GenerationMonitor struct {
	mu         sync.RWMutex
	tools      map[types.ToolID]*toolSamples
	maxSamples int
}

type toolSamples struct {
	durations []time.Duration
	total     int64
	failures  int64
	slow      int64
}

// NewGenerationMonitor creates a monitor keeping the last 1000 samples per tool
func NewGenerationMonitor() *GenerationMonitor {
	return &GenerationMonitor{
		tools:      make(map[types.ToolID]*toolSamples),
		maxSamples: 1000,
	}
}

// Record records one generation attempt
func (m *GenerationMonitor) Record(tool types.ToolID, duration time.Duration, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.tools[tool]
	if !ok {
		s = &toolSamples{durations: make([]time.Duration, 0, 64)}
		m.tools[tool] = s
	}

	s.total++
	if !success {
		s.failures++
	}
	if duration > slowGeneration {
		s.slow++
	}

	s.durations = append(s.durations, duration)
	if len(s.durations) > m.maxSamples {
		s.durations = s.durations[len(s.durations)-m.maxSamples:]
	}
}

// GenerationStats summarizes one tool's recent generations
type GenerationStats struct {
	Total       int64   `json:"total"`
	Failures    int64   `json:"failures"`
	Slow        int64   `json:"slow"`
	SuccessRate float64 `json:"successRate"` // Percentage
	AvgMs       float64 `json:"avgMs"`
	P95Ms       float64 `json:"p95Ms"`
	P99Ms       float64 `json:"p99Ms"`
}

// GetStats returns the current statistics keyed by tool
func (m *GenerationMonitor) GetStats() map[types.ToolID]*GenerationStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[types.ToolID]*GenerationStats, len(m.tools))
	for tool, s := range m.tools {
		stats := &GenerationStats{
			Total:    s.total,
			Failures: s.failures,
			Slow:     s.slow,
		}
		if s.total > 0 {
			stats.SuccessRate = float64(s.total-s.failures) / float64(s.total) * 100
		}

		if len(s.durations) > 0 {
			sorted := make([]time.Duration, len(s.durations))
			copy(sorted, s.durations)
			sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

			var total time.Duration
			for _, d := range sorted {
				total += d
			}
			stats.AvgMs = float64(total.Milliseconds()) / float64(len(sorted))
			stats.P95Ms = float64(sorted[percentileIndex(len(sorted), 0.95)].Milliseconds())
			stats.P99Ms = float64(sorted[percentileIndex(len(sorted), 0.99)].Milliseconds())
		}
		out[tool] = stats
	}
	return out
}

func percentileIndex(n int, p float64) int {
	i := int(float64(n) * p)
	if i >= n {
		i = n - 1
	}
	return i
}

// Reset drops all samples
func (m *GenerationMonitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tools = make(map[types.ToolID]*toolSamples)
}

// HealthCheck contains the result of CheckHealth
type HealthCheck struct {
	Passed bool     `json:"passed"`
	Issues []string `json:"issues"`
}

// CheckHealth flags tools whose success rate fell below 50% over at least 10 calls
func (m *GenerationMonitor) CheckHealth() *HealthCheck {
	check := &HealthCheck{Passed: true, Issues: make([]string, 0)}

	stats := m.GetStats()
	tools := make([]string, 0, len(stats))
	for tool := range stats {
		tools = append(tools, string(tool))
	}
	sort.Strings(tools)

	for _, tool := range tools {
		s := stats[types.ToolID(tool)]
		if s.Total >= 10 && s.SuccessRate < 50 {
			check.Passed = false
			check.Issues = append(check.Issues,
				fmt.Sprintf("%s success rate (%.2f%%) is below 50%%", tool, s.SuccessRate))
		}
	}
	return check
}
