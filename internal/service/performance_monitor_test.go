package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creative-studio/internal/types"
)

func TestGenerationMonitor_Record(t *testing.T) {
	m := NewGenerationMonitor()

	m.Record(types.ToolPixelGen, 100*time.Millisecond, true)
	m.Record(types.ToolPixelGen, 200*time.Millisecond, true)
	m.Record(types.ToolPixelGen, 300*time.Millisecond, false)
	m.Record(types.ToolCopyPro, 40*time.Second, true)

	stats := m.GetStats()
	require.Contains(t, stats, types.ToolPixelGen)

	pixel := stats[types.ToolPixelGen]
	assert.Equal(t, int64(3), pixel.Total)
	assert.Equal(t, int64(1), pixel.Failures)
	assert.InDelta(t, 66.67, pixel.SuccessRate, 0.01)
	assert.Equal(t, 200.0, pixel.AvgMs)
	assert.Equal(t, 300.0, pixel.P99Ms)

	assert.Equal(t, int64(1), stats[types.ToolCopyPro].Slow)
}

func TestGenerationMonitor_KeepsBoundedSamples(t *testing.T) {
	m := NewGenerationMonitor()
	m.maxSamples = 10

	for i := 0; i < 25; i++ {
		m.Record(types.ToolLogoForge, time.Duration(i)*time.Millisecond, true)
	}

	assert.Len(t, m.tools[types.ToolLogoForge].durations, 10)
	assert.Equal(t, int64(25), m.GetStats()[types.ToolLogoForge].Total)
}

func TestGenerationMonitor_CheckHealth(t *testing.T) {
	m := NewGenerationMonitor()
	for i := 0; i < 10; i++ {
		m.Record(types.ToolSiteArchitect, time.Millisecond, i < 2)
		m.Record(types.ToolCopyPro, time.Millisecond, true)
	}

	check := m.CheckHealth()
	assert.False(t, check.Passed)
	require.Len(t, check.Issues, 1)
	assert.Contains(t, check.Issues[0], "site_architect")

	m.Reset()
	assert.True(t, m.CheckHealth().Passed)
	assert.Empty(t, m.GetStats())
}
