package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogo_IncludesBrief(t *testing.T) {
	got := Logo(LogoBrief{BrandName: "Orbiter", Industry: "AI", Style: "Tech Minimal", Palette: "Professional Palette", LogoType: "Emblem"})

	for _, want := range []string{`"Orbiter"`, `"AI"`, `"Tech Minimal"`, `"Emblem"`, `"Professional Palette"`, "500x500"} {
		assert.Contains(t, got, want)
	}
}

func TestHTMLDocument_FeatureSections(t *testing.T) {
	plain := HTMLDocument(DocumentWebsite, "Orbiter", "A SaaS", "Modern Tech", SiteFeatures{}, Placeholders{PhotoSeed: 7, AvatarSeed: 3})
	assert.NotContains(t, plain, "three.min.js")
	assert.NotContains(t, plain, "gsap.min.js")
	assert.Contains(t, plain, `Structure: "Modern Landing Page"`)
	assert.Contains(t, plain, "picsum.photos/seed/7/800/600")
	assert.Contains(t, plain, "pravatar.cc/150?img=3")

	rich := HTMLDocument(DocumentFlyer, "Gala", "Night", "Luxury", SiteFeatures{ThreeJS: true, Animations: true, Structure: "Split Screen"}, Placeholders{})
	assert.Contains(t, rich, "three.min.js")
	assert.Contains(t, rich, `theme "Luxury"`)
	assert.Contains(t, rich, "gsap.min.js")
	assert.Contains(t, rich, "for a flyer")
	assert.Contains(t, rich, `Structure: "Split Screen"`)
}

func TestRefineHTML_EmbedsMarkupAndInstruction(t *testing.T) {
	got := RefineHTML("<html><body>hi</body></html>", "make it red")
	assert.Contains(t, got, `"make it red"`)
	assert.Contains(t, got, "<html><body>hi</body></html>")
}

func TestSocialPost_PlatformRules(t *testing.T) {
	li := SocialPost(SocialBrief{Topic: "focus", Niche: "AI Tools", Platform: "LinkedIn", Vibe: "Storytelling"})
	assert.Contains(t, li, "RULES FOR LINKEDIN")
	assert.Contains(t, li, "Thoughts?")

	tw := SocialVisual(SocialBrief{Topic: "focus", Platform: "Twitter"})
	assert.Contains(t, tw, "16:9")
	ig := SocialVisual(SocialBrief{Topic: "focus", Platform: "Instagram"})
	assert.Contains(t, ig, "1:1")
}

func TestFlyerDescription(t *testing.T) {
	b := FlyerBrief{Title: "Neon Nights", Date: "Fri 9pm", Location: "Berlin", RSVP: "rsvp@x.io", Details: "DJ set", VibeLabel: "Neon Cyberpunk", FormatLabel: "Flyer (Portrait)"}

	without := FlyerDescription(b)
	assert.True(t, strings.HasPrefix(without, "Event: Neon Nights. Date: Fri 9pm. Location: Berlin."))
	assert.NotContains(t, without, "QR")

	b.IncludeQR = true
	assert.Contains(t, FlyerDescription(b), "placeholder QR code")
}

func TestPixelImage(t *testing.T) {
	assert.Equal(t, "a fox. Art Style: Oil Painting. Aspect Ratio: 9:16. High quality, detailed, 8k resolution.",
		PixelImage("a fox", "Oil Painting", "9:16"))
}
