package models

import (
	"time"

	"github.com/creative-studio/internal/types"
)

// Artifact is one generated result shown in a panel
type Artifact struct {
	ID      string             `json:"id"`
	Tool    types.ToolID       `json:"tool"`
	Kind    types.ArtifactKind `json:"kind"`
	Content string             `json:"content"`
	// Media is the data URL of an image paired with text content
	Media     string    `json:"media,omitempty"`
	Prompt    string    `json:"prompt,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
