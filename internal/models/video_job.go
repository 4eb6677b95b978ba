package models

import (
	"time"

	"github.com/creative-studio/internal/types"
)

// VideoJob tracks one long-running video generation
type VideoJob struct {
	ID        string               `json:"id"`
	UserID    string               `json:"userId"`
	Prompt    string               `json:"prompt"`
	Status    types.VideoJobStatus `json:"status"`
	Operation string               `json:"operation,omitempty"`
	VideoURI  string               `json:"videoUri,omitempty"`
	Error     string               `json:"error,omitempty"`
	// GuardToken is the Motion Ads panel lease held until the job ends
	GuardToken string    `json:"guardToken,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
