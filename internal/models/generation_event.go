package models

import (
	"time"

	"github.com/creative-studio/internal/types"
)

// GenerationEvent is one row of the usage log
type GenerationEvent struct {
	EventID    string
	UserID     string
	Tool       types.ToolID
	Action     string
	Success    bool
	DurationMs int64
	Error      string
	CreatedAt  time.Time
}

// ToolUsage aggregates a user's events for one tool
type ToolUsage struct {
	Tool      types.ToolID `json:"tool"`
	Total     uint64       `json:"total"`
	Succeeded uint64       `json:"succeeded"`
	Failed    uint64       `json:"failed"`
	AvgMs     float64      `json:"avgDurationMs"`
}
