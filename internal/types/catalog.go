package types

import (
	"fmt"
	"strings"
)

// AppName is the product name used in document titles
const AppName = "HQAIM Apps"

// DefaultCreditCost is the per-generation cost shown next to each tool
const DefaultCreditCost = 5

// ToolDefinition describes one entry of the sidebar
type ToolDefinition struct {
	ID           ToolID `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	CreditCost   int64  `json:"creditCost"`
	KeepsHistory bool   `json:"keepsHistory"`
}

var tools = []ToolDefinition{
	{ID: ToolPixelGen, Name: "Pixel Gen", Description: "Photorealistic AI Image Generator & Art Studio.", CreditCost: DefaultCreditCost, KeepsHistory: true},
	{ID: ToolLogoForge, Name: "Logo Forge", Description: "Professional AI Logo Generator & Brand Identity Kit.", CreditCost: DefaultCreditCost, KeepsHistory: true},
	{ID: ToolSiteArchitect, Name: "Site Architect", Description: "Instant AI Website Builder & Landing Page Generator.", CreditCost: DefaultCreditCost},
	{ID: ToolCopyPro, Name: "Copy Pro", Description: "AI Copywriter for High-Converting Ads & Email Marketing.", CreditCost: DefaultCreditCost},
	{ID: ToolSocialViral, Name: "Social Viral", Description: "Viral Content Generator for Instagram, LinkedIn & X.", CreditCost: DefaultCreditCost},
	{ID: ToolEventHorizon, Name: "Event Horizon", Description: "AI Flyer Maker & Event Banner Designer for Print/Web.", CreditCost: DefaultCreditCost},
	{ID: ToolMotionAds, Name: "Motion Ads", Description: "Cinematic AI Video Ads from a single prompt.", CreditCost: DefaultCreditCost},
}

// Tools returns the sidebar entries in display order
func Tools() []ToolDefinition {
	out := make([]ToolDefinition, len(tools))
	copy(out, tools)
	return out
}

// LookupTool returns the definition for id
func LookupTool(id ToolID) (ToolDefinition, bool) {
	for _, t := range tools {
		if t.ID == id {
			return t, true
		}
	}
	return ToolDefinition{}, false
}

// IsKnownTool reports whether id is the dashboard or a catalog tool
func IsKnownTool(id ToolID) bool {
	if id == ToolDashboard {
		return true
	}
	_, ok := LookupTool(id)
	return ok
}

// KeepsHistory reports whether the panel keeps an artifact history
func KeepsHistory(id ToolID) bool {
	def, ok := LookupTool(id)
	return ok && def.KeepsHistory
}

// Title returns the document title shown while id is the active panel
func Title(id ToolID) (string, error) {
	if id == ToolDashboard {
		return AppName + " | Generative AI Dashboard", nil
	}
	def, ok := LookupTool(id)
	if !ok {
		return "", fmt.Errorf("unknown tool: %s", id)
	}
	tagline, _, _ := strings.Cut(def.Description, ".")
	return fmt.Sprintf("%s - %s | %s", def.Name, tagline, AppName), nil
}
