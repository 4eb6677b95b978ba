// Package types provides common type definitions for the creative studio.
package types

// ToolID identifies a tool panel
type ToolID string

const (
	ToolDashboard     ToolID = "dashboard"
	ToolLogoForge     ToolID = "logo_forge"
	ToolEventHorizon  ToolID = "event_horizon"
	ToolSiteArchitect ToolID = "site_architect"
	ToolCopyPro       ToolID = "copy_pro"
	ToolSocialViral   ToolID = "social_viral"
	ToolPixelGen      ToolID = "pixel_gen"
	ToolMotionAds     ToolID = "motion_ads"
)

// ArtifactKind describes what an artifact's content holds
type ArtifactKind string

const (
	// KindText is plain text
	KindText ArtifactKind = "text"
	// KindMarkdown is markdown-formatted copy
	KindMarkdown ArtifactKind = "markdown"
	// KindImage is a base64 data URL
	KindImage ArtifactKind = "image"
	// KindSVG is SVG markup
	KindSVG ArtifactKind = "svg"
	// KindHTML is a full HTML document
	KindHTML ArtifactKind = "html"
	// KindVideo is a provider video URI
	KindVideo ArtifactKind = "video"
)

// UserTier selects the request rate limit
type UserTier string

const (
	TierFree UserTier = "free"
	TierPro  UserTier = "pro"
)

// VideoJobStatus represents the lifecycle of a video job
type VideoJobStatus string

const (
	VideoStatusQueued    VideoJobStatus = "queued"
	VideoStatusRunning   VideoJobStatus = "running"
	VideoStatusCompleted VideoJobStatus = "completed"
	VideoStatusFailed    VideoJobStatus = "failed"
)

// Terminal reports whether no further transitions happen
func (s VideoJobStatus) Terminal() bool {
	return s == VideoStatusCompleted || s == VideoStatusFailed
}

// SupportedAspectRatios lists the ratios the image engine accepts
var SupportedAspectRatios = []string{"1:1", "3:4", "9:16", "16:9"}

// IsSupportedAspectRatio reports whether ratio is one of SupportedAspectRatios
func IsSupportedAspectRatio(ratio string) bool {
	for _, r := range SupportedAspectRatios {
		if r == ratio {
			return true
		}
	}
	return false
}

// ServiceError represents a structured error response
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}
