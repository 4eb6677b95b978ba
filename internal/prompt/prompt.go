// Package prompt assembles the natural-language instructions sent to the
// generative content service. Builders are pure: the same input always
// yields the same text.
package prompt

import (
	"fmt"
	"strings"
)

// LogoBrief describes a vector logo request
type LogoBrief struct {
	BrandName string
	Industry  string
	Style     string
	Palette   string
	LogoType  string
}

// Logo builds the SVG logo instruction
func Logo(b LogoBrief) string {
	return fmt.Sprintf(`Act as a senior brand identity designer.

TASK: Design a professional vector logo (SVG) for this client.

CLIENT BRIEF:
- Brand name: "%s"
- Industry: "%s"
- Design style: "%s"
- Logo type: "%s" (abstract mark, wordmark, pictorial or emblem)
- Color palette: "%s"

DESIGN RULES:
1. Use a 500x500 viewBox and center the main element.
2. Build from <path>, <circle> and <rect> with clean, geometric coordinates.
3. Use <defs> with <linearGradient> and layered opacity when the style calls for depth.
4. Text, if any, uses system sans-serif fonts or custom geometric letter paths.
5. No background rectangle; the logo stays transparent.

OUTPUT:
- Only valid SVG XML, starting with <svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 500 500"> and ending with </svg>.
- No markdown fences and no explanations.`,
		b.BrandName, b.Industry, b.Style, b.LogoType, b.Palette)
}

// LogoConcept builds the raster logo concept instruction
func LogoConcept(brandName, style, description string) string {
	return fmt.Sprintf(`Professional logo design for the brand "%s".
Style: %s.
Description: %s.

Requirements:
- High contrast, vector-like finish.
- Centered composition.
- Plain white background, or dark if the style is neon.
- Portfolio quality, 4k.
- Minimal text artifacts.`, brandName, style, description)
}

// EnhanceImage asks the text model to upgrade a raw image prompt
func EnhanceImage(raw string) string {
	return fmt.Sprintf(`You are an expert AI art curator and prompt engineer.
TASK: Rewrite the user prompt below as a detailed, professional image generation prompt.

USER PROMPT: "%s"

REQUIREMENTS:
1. Add lighting details (volumetric, cinematic, studio).
2. Add camera and lens details (85mm, f/1.8, wide angle).
3. Add style and texture details (octane render, hyper-realistic, 8k).
4. Keep the core subject clear.
5. Output ONLY the enhanced prompt, with no intro or outro.`, raw)
}

// PixelImage engineers the final Pixel Gen prompt
func PixelImage(raw, style, ratio string) string {
	return fmt.Sprintf("%s. Art Style: %s. Aspect Ratio: %s. High quality, detailed, 8k resolution.", raw, style, ratio)
}

// DocumentType selects the HTML generation brief
type DocumentType string

const (
	DocumentWebsite DocumentType = "website"
	DocumentFlyer   DocumentType = "flyer"
)

// SiteFeatures toggles optional sections of the HTML brief
type SiteFeatures struct {
	ThreeJS    bool
	Animations bool
	Structure  string
}

// Placeholders seeds the placeholder image URLs in the HTML brief
type Placeholders struct {
	PhotoSeed  int
	AvatarSeed int
}

// HTMLDocument builds the single-file HTML instruction for sites and flyers
func HTMLDocument(docType DocumentType, name, description, theme string, features SiteFeatures, seeds Placeholders) string {
	structure := features.Structure
	if structure == "" {
		structure = "Modern Landing Page"
	}

	var stack strings.Builder
	if features.ThreeJS {
		fmt.Fprintf(&stack, `
- THREE.JS: load Three.js from https://cdnjs.cloudflare.com/ajax/libs/three.js/r128/three.min.js.
- 3D HERO: render a rotating geometry (icosahedron, torus knot or particles) matching the theme "%s" inside a container with id="canvas-container".
- Handle window resize.
- Put 3D scripts at the end of <body>.`, theme)
	}
	if features.Animations {
		stack.WriteString(`
- GSAP: load GSAP from https://cdnjs.cloudflare.com/ajax/libs/gsap/3.12.2/gsap.min.js together with ScrollTrigger.
- Animate sections as they scroll into view (fade-up, slide-in).`)
	}

	return fmt.Sprintf(`Act as an award-winning creative developer.
Task: Build a SINGLE-FILE HTML solution for a %s.

Project: "%s"
Description: "%s"
Theme: "%s"
Structure: "%s"

REQUIREMENTS:
1. Structure: <!DOCTYPE html> <html lang="en"> <head> ... </head> <body class="..."> ... </body> </html>
2. CSS: Tailwind via CDN: <script src="https://cdn.tailwindcss.com"></script>
3. DESIGN:
   - Glassmorphism (backdrop-blur, translucent panels) when it fits the theme.
   - Modern typography (Inter, Space Grotesk) and high contrast.
   - The <body> tag MUST carry a background color class so the page is never transparent.
4. IMAGERY:
   - Photos: "https://picsum.photos/seed/%d/800/600"
   - Avatars: "https://i.pravatar.cc/150?img=%d"%s
5. OUTPUT:
   - Only the raw HTML code.
   - No markdown fences and no conversational filler.`,
		docType, name, description, theme, structure, seeds.PhotoSeed, seeds.AvatarSeed, stack.String())
}

// RefineHTML asks the model to apply an edit instruction to existing markup
func RefineHTML(currentHTML, instruction string) string {
	return fmt.Sprintf(`You are an expert frontend developer.
TASK: Modify the HTML below strictly according to the user's request.

USER REQUEST: "%s"

CONTEXT:
- The page uses Tailwind CSS.
- Keep existing functionality (Three.js, GSAP) unless asked to remove it.
- Use Tailwind classes for color changes (bg-red-500, text-blue-200).

CURRENT HTML:
%s

OUTPUT RULES:
1. Return the COMPLETE, VALID, UPDATED HTML.
2. Do not truncate.
3. Output only raw HTML.`, instruction, currentHTML)
}

// CopyBrief describes a Copy Pro request
type CopyBrief struct {
	Format    string
	Topic     string
	Tone      string
	Framework string
	Audience  string
}

// Copy builds the copywriting instruction
func Copy(b CopyBrief) string {
	return fmt.Sprintf(`Act as a world-class copywriter.

Task: Write "%s" content.
Topic: "%s"
Target audience: "%s"
Tone: "%s"
Marketing framework: follow the "%s" method (for AIDA: Attention, Interest, Desire, Action).

Formatting:
- Markdown.
- Bold for emphasis.
- Emojis where they help.
- Short, punchy paragraphs.`, b.Format, b.Topic, b.Audience, b.Tone, b.Framework)
}

// ViralHooks asks for four hooks as a bare JSON array
func ViralHooks(niche, platform string) string {
	return fmt.Sprintf(`You are a viral social media strategist.
Generate 4 scroll-stopping hooks for the niche "%s" on %s.

Criteria:
1. Psychological triggers: FOMO, contrarian views, curiosity gaps.
2. Short, punchy sentences.
3. Return ONLY a JSON array of strings, e.g. ["Stop doing X", "I tried Y so you don't have to", "The secret to Z"].
No markdown fences, just the raw array.`, niche, platform)
}

// SocialBrief describes a Social Viral post request
type SocialBrief struct {
	Topic       string
	Niche       string
	Platform    string
	Vibe        string
	VisualStyle string
}

var platformRules = map[string]string{
	"Instagram": "- Structure: hook (line 1), value or story (body), call to action (end). Use 5-10 relevant hashtags.",
	"LinkedIn":  `- One sentence per line. Focus on a lesson learned or professional insight. End with "Thoughts?".`,
	"Twitter":   `- Stay under 280 characters OR write the first tweet of a thread (e.g. "1/5"). Punchy, short sentences.`,
}

// SocialPost builds the platform-specific post instruction
func SocialPost(b SocialBrief) string {
	return fmt.Sprintf(`Create a VIRAL %s post about: "%s".
Context: the niche is %s.
Vibe: %s.

RULES FOR %s:
%s

TONE: high energy, authoritative, yet relatable.
Format the post in Markdown.`, b.Platform, b.Topic, b.Niche, b.Vibe, strings.ToUpper(b.Platform), platformRules[b.Platform])
}

// SocialVisual builds the image prompt accompanying a post
func SocialVisual(b SocialBrief) string {
	composition := "Square 1:1, focused subject"
	if b.Platform == "Twitter" {
		composition = "Wide 16:9, cinematic"
	}
	return fmt.Sprintf(`Editorial-quality social media visual for the topic "%s".
Style: %s.
Composition: %s.
Vibe: %s.
NO TEXT IN IMAGE.`, b.Topic, b.VisualStyle, composition, b.Vibe)
}

// FlyerBrief describes an Event Horizon request
type FlyerBrief struct {
	Title       string
	Date        string
	Location    string
	RSVP        string
	Details     string
	VibeLabel   string
	VibeStyle   string
	FormatLabel string
	IncludeQR   bool
}

// FlyerBackground builds the text-free background image prompt
func FlyerBackground(b FlyerBrief) string {
	return fmt.Sprintf(`Artistic background texture for an event flyer.
Theme: %s.
Style: %s.
No text, no words, abstract or scenic only. High resolution, 4k.`, b.VibeLabel, b.VibeStyle)
}

// FlyerDescription flattens the event details into the HTML brief description
func FlyerDescription(b FlyerBrief) string {
	desc := fmt.Sprintf("Event: %s. Date: %s. Location: %s. RSVP: %s. Details: %s. Vibe: %s. Format: %s.",
		b.Title, b.Date, b.Location, b.RSVP, b.Details, b.VibeLabel, b.FormatLabel)
	if b.IncludeQR {
		desc += " Include a placeholder QR code section."
	}
	return desc
}

// VideoAd wraps a Motion Ads scene description
func VideoAd(scene string) string {
	return strings.TrimSpace(scene)
}
