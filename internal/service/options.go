package service

import (
	"strings"

	"github.com/creative-studio/internal/errors"
)

// Option is one selectable choice of a panel form
type Option struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Prompt string `json:"prompt,omitempty"`
	Aspect string `json:"aspect,omitempty"`
}

// PixelStyles lists the Pixel Gen art styles
var PixelStyles = []string{
	"Photorealistic",
	"Cyberpunk 2077",
	"Studio Ghibli Anime",
	"3D Render (Octane)",
	"Oil Painting",
	"Cinematic Lighting",
	"Vector Art",
	"Analog Film",
	"Synthwave",
	"Architectural",
}

// FlyerVibes lists the Event Horizon visual themes
var FlyerVibes = []Option{
	{ID: "neon", Label: "Neon Cyberpunk", Prompt: "futuristic, neon lights, dark background, glitch effect, high contrast"},
	{ID: "luxury", Label: "Luxury Gala", Prompt: "gold and black, elegant serif fonts, marble texture, minimalist"},
	{ID: "corporate", Label: "Tech Summit", Prompt: "clean white and blue, geometric shapes, sans-serif, professional"},
	{ID: "festival", Label: "Music Festival", Prompt: "vibrant colors, psychedelic patterns, bold grunge typography, energetic"},
	{ID: "wedding", Label: "Modern Wedding", Prompt: "soft pastels, floral accents, script typography, airy and light"},
}

// FlyerFormats lists the Event Horizon canvas formats
var FlyerFormats = []Option{
	{ID: "flyer", Label: "Flyer (Portrait)", Aspect: "3:4"},
	{ID: "story", Label: "Story (9:16)", Aspect: "9:16"},
	{ID: "post", Label: "Social (1:1)", Aspect: "1:1"},
	{ID: "banner", Label: "Banner (16:9)", Aspect: "16:9"},
}

// SocialPlatforms lists the Social Viral target platforms
var SocialPlatforms = []Option{
	{ID: "Instagram", Label: "Instagram"},
	{ID: "LinkedIn", Label: "LinkedIn"},
	{ID: "Twitter", Label: "X / Twitter"},
}

// TrendNiches lists the Social Viral trend niches
var TrendNiches = []Option{
	{ID: "ai-tools", Label: "AI Tools"},
	{ID: "wealth-mindset", Label: "Wealth Mindset"},
	{ID: "biohacking", Label: "Biohacking"},
	{ID: "solopreneur", Label: "Solopreneur"},
	{ID: "minimalism", Label: "Digital Nomad"},
	{ID: "coding", Label: "No-Code Dev"},
}

// VisualStyles lists the Social Viral image styles
var VisualStyles = []Option{
	{ID: "cinematic", Label: "Cinematic Portrait", Prompt: "Cinematic photography, 85mm lens, f/1.8, bokeh, dramatic lighting, high detail, 4k"},
	{ID: "3d-render", Label: "3D Glossy Render", Prompt: "3D Blender render, isometric, glossy materials, vibrant studio lighting, octane render, abstract shapes"},
	{ID: "neon-cyber", Label: "Neon Cyberpunk", Prompt: "Cyberpunk aesthetic, neon pink and blue lights, dark background, futuristic city vibes, glitch effect"},
	{ID: "minimal", Label: "Swiss Minimalist", Prompt: "Swiss minimalist design, plenty of whitespace, bold typography elements, geometric shapes, pastel colors"},
}

// SocialVibes lists the Social Viral post vibes
var SocialVibes = []Option{
	{ID: "Controversial", Label: "Controversial"},
	{ID: "Value-Packed", Label: "Value Stack"},
	{ID: "Storytelling", Label: "Vulnerable Story"},
	{ID: "Meme", Label: "Relatable / Meme"},
	{ID: "Contrarian", Label: "Contrarian Take"},
}

// Options groups every form choice list for clients
type Options struct {
	PixelStyles     []string `json:"pixelStyles"`
	FlyerVibes      []Option `json:"flyerVibes"`
	FlyerFormats    []Option `json:"flyerFormats"`
	SocialPlatforms []Option `json:"socialPlatforms"`
	TrendNiches     []Option `json:"trendNiches"`
	VisualStyles    []Option `json:"visualStyles"`
	SocialVibes     []Option `json:"socialVibes"`
}

// AllOptions returns the form choice lists
func AllOptions() *Options {
	return &Options{
		PixelStyles:     PixelStyles,
		FlyerVibes:      FlyerVibes,
		FlyerFormats:    FlyerFormats,
		SocialPlatforms: SocialPlatforms,
		TrendNiches:     TrendNiches,
		VisualStyles:    VisualStyles,
		SocialVibes:     SocialVibes,
	}
}

func findOption(options []Option, id string) (Option, bool) {
	for _, o := range options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// requireFields returns a validation error naming the first blank field
func requireFields(fields ...string) error {
	for i := 0; i+1 < len(fields); i += 2 {
		if isBlank(fields[i+1]) {
			return errors.NewRequiredFieldError(fields[i])
		}
	}
	return nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
