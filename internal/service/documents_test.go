package service

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creative-studio/internal/errors"
	"github.com/creative-studio/internal/prompt"
	"github.com/creative-studio/internal/types"
	"github.com/creative-studio/internal/visualedit"
)

const sampleDoc = `<!DOCTYPE html><html lang="en"><head><title>Nimbus</title></head><body class="bg-slate-900"><h1>Nimbus</h1><p>Cloud for everyone</p></body></html>`

func fixedSeeds() prompt.Placeholders {
	return prompt.Placeholders{PhotoSeed: 42, AvatarSeed: 7}
}

func TestSite_GenerateExtractsHTML(t *testing.T) {
	f := newFixture(t)
	f.gen.TextFunc = func(ctx context.Context, prompt, model string) (string, error) {
		return "Sure!\n```html\n" + sampleDoc + "\n```\nEnjoy.", nil
	}
	site := NewSiteService(f.studio)
	site.seeds = fixedSeeds

	artifact, err := site.Generate(context.Background(), &SiteInput{UserID: testUserID, Name: "Nimbus", Description: "Cloud storage"})
	require.NoError(t, err)
	assert.Equal(t, sampleDoc, artifact.Content)
	assert.Equal(t, types.KindHTML, artifact.Kind)

	sent := f.gen.CallsTo("GenerateText")[0].Prompt
	assert.Contains(t, sent, "picsum.photos/seed/42/")
	assert.Contains(t, sent, "img=7")
	assert.Contains(t, sent, "Modern Tech")
	assert.Contains(t, sent, "GSAP", "animations default on")
	assert.NotContains(t, sent, "THREE.JS", "three.js defaults off")
}

func TestSite_GenerateRequiresNameAndDescription(t *testing.T) {
	f := newFixture(t)
	site := NewSiteService(f.studio)

	_, err := site.Generate(context.Background(), &SiteInput{UserID: testUserID, Name: "Nimbus"})
	require.Error(t, err)
	assert.Equal(t, "description", errors.Categorize(err).Details["field"])
}

func TestSite_RefineUsesCurrentOutputWithoutEditorMarkup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	site := NewSiteService(f.studio)

	f.gen.TextFunc = func(ctx context.Context, prompt, model string) (string, error) {
		return sampleDoc, nil
	}
	_, err := site.Generate(ctx, &SiteInput{UserID: testUserID, Name: "Nimbus", Description: "Cloud storage"})
	require.NoError(t, err)

	_, err = site.SetVisualEdit(ctx, &VisualEditInput{UserID: testUserID, Enabled: true})
	require.NoError(t, err)

	refined := strings.Replace(sampleDoc, "bg-slate-900", "bg-red-500", 1)
	f.gen.TextFunc = func(ctx context.Context, prompt, model string) (string, error) {
		return refined, nil
	}
	artifact, err := site.Refine(ctx, &RefineInput{UserID: testUserID, Instruction: "make it red"})
	require.NoError(t, err)
	assert.Equal(t, refined, artifact.Content)

	sent := f.gen.CallsTo("GenerateText")[1].Prompt
	assert.Contains(t, sent, "make it red")
	assert.NotContains(t, sent, visualedit.StyleID)
	assert.NotContains(t, sent, "contenteditable")
}

func TestSite_RefineWithoutDocument(t *testing.T) {
	f := newFixture(t)

	_, err := NewSiteService(f.studio).Refine(context.Background(), &RefineInput{UserID: testUserID, Instruction: "make it red"})
	require.Error(t, err)
	assert.Equal(t, "html", errors.Categorize(err).Details["field"])
	assert.Empty(t, f.gen.Calls())
}

func TestSite_VisualEditRoundTripKeepsTextEdits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	site := NewSiteService(f.studio)

	enabled, err := site.SetVisualEdit(ctx, &VisualEditInput{UserID: testUserID, Enabled: true, HTML: sampleDoc})
	require.NoError(t, err)
	assert.True(t, visualedit.IsEnabled(enabled.Content))
	assert.Contains(t, enabled.Content, `contenteditable="true"`)

	edited := strings.Replace(enabled.Content, "Cloud for everyone", "Cloud for teams", 1)
	disabled, err := site.SetVisualEdit(ctx, &VisualEditInput{UserID: testUserID, Enabled: false, HTML: edited})
	require.NoError(t, err)
	assert.False(t, visualedit.IsEnabled(disabled.Content))
	assert.NotContains(t, disabled.Content, "contenteditable")
	assert.Contains(t, disabled.Content, "Cloud for teams")

	current, err := f.outputs.GetCurrent(ctx, testUserID, types.ToolSiteArchitect)
	require.NoError(t, err)
	assert.Equal(t, disabled.Content, current.Content)
	assert.Equal(t, enabled.ID, current.ID)
}

func TestFlyer_GeneratesInParallelAndInjectsBackground(t *testing.T) {
	f := newFixture(t)
	f.gen.TextFunc = func(ctx context.Context, prompt, model string) (string, error) {
		return sampleDoc, nil
	}
	f.gen.ImageFunc = func(ctx context.Context, prompt, ratio string) (string, error) {
		return "data:image/png;base64,BG", nil
	}
	flyer := NewFlyerService(f.studio)
	flyer.seeds = fixedSeeds

	artifact, err := flyer.Generate(context.Background(), &FlyerInput{
		UserID:   testUserID,
		Title:    "Launch Night",
		Date:     "Oct 1",
		Location: "Berlin",
		Format:   "story",
	})
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,BG", artifact.Media)
	assert.Contains(t, artifact.Content, "background-image: url('data:image/png;base64,BG')")
	assert.Less(t, strings.Index(artifact.Content, "backdrop-overlay"), strings.Index(artifact.Content, "</head>"))

	image := f.gen.CallsTo("GenerateImage")[0]
	assert.Equal(t, "9:16", image.Arg)
	assert.Contains(t, image.Prompt, "Neon Cyberpunk")

	text := f.gen.CallsTo("GenerateText")[0].Prompt
	assert.Contains(t, text, "Story (9:16)")
	assert.Contains(t, text, "Include a placeholder QR code section.")
	assert.Contains(t, text, "for a flyer")
}

func TestFlyer_FailureOfEitherCallFailsTheAction(t *testing.T) {
	f := newFixture(t)
	f.gen.ImageFunc = func(ctx context.Context, prompt, ratio string) (string, error) {
		return "", stderrors.New("no image")
	}

	_, err := NewFlyerService(f.studio).Generate(context.Background(), &FlyerInput{UserID: testUserID, Title: "Launch Night"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeGenerationFailed, errors.Categorize(err).Code)

	_, err = f.outputs.GetCurrent(context.Background(), testUserID, types.ToolEventHorizon)
	assert.Error(t, err)
}

func TestFlyer_Validation(t *testing.T) {
	f := newFixture(t)
	flyer := NewFlyerService(f.studio)
	ctx := context.Background()

	_, err := flyer.Generate(ctx, &FlyerInput{UserID: testUserID})
	assert.Equal(t, "title", errors.Categorize(err).Details["field"])

	_, err = flyer.Generate(ctx, &FlyerInput{UserID: testUserID, Title: "x", Vibe: "grunge"})
	assert.Equal(t, "vibe", errors.Categorize(err).Details["field"])
}

func TestWithBackground(t *testing.T) {
	doc := "<html><head></head><body></body></html>"

	out := WithBackground(doc, "data:x")
	assert.True(t, strings.HasPrefix(out, "<html><head><style>"))
	assert.Equal(t, 1, strings.Count(out, "</head>"))

	assert.Equal(t, doc, WithBackground(doc, ""))
	assert.True(t, strings.HasPrefix(WithBackground("<p>hi</p>", "data:x"), "<style>"))
}

func TestSocial_HooksResolveNicheLabel(t *testing.T) {
	f := newFixture(t)
	f.gen.TextFunc = func(ctx context.Context, prompt, model string) (string, error) {
		return "```json\n[\"Stop doing X\", \"Try Y\"]\n```", nil
	}

	hooks, err := NewSocialService(f.studio).Hooks(context.Background(), &HooksInput{UserID: testUserID, Niche: "minimalism"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Stop doing X", "Try Y"}, hooks)

	sent := f.gen.CallsTo("GenerateText")[0].Prompt
	assert.Contains(t, sent, `"Digital Nomad"`)
	assert.Contains(t, sent, "Instagram")
}

func TestSocial_HooksFallback(t *testing.T) {
	f := newFixture(t)
	f.gen.TextFunc = func(ctx context.Context, prompt, model string) (string, error) {
		return "", stderrors.New("overloaded")
	}

	hooks, err := NewSocialService(f.studio).Hooks(context.Background(), &HooksInput{UserID: testUserID, Niche: "ai-tools", Platform: "LinkedIn"})
	require.NoError(t, err)
	require.Len(t, hooks, 4)
	assert.Equal(t, "The #1 Mistake people make in AI Tools", hooks[0])
}

func TestSocial_PostTwitterUsesWideImage(t *testing.T) {
	f := newFixture(t)
	f.gen.TextFunc = func(ctx context.Context, prompt, model string) (string, error) {
		return "1/5 Stop scrolling.", nil
	}

	artifact, err := NewSocialService(f.studio).Post(context.Background(), &PostInput{
		UserID:      testUserID,
		Topic:       "morning routines",
		Platform:    "Twitter",
		VisualStyle: "minimal",
	})
	require.NoError(t, err)
	assert.Equal(t, "1/5 Stop scrolling.", artifact.Content)
	assert.True(t, strings.HasPrefix(artifact.Media, "data:image/png;base64,"))

	image := f.gen.CallsTo("GenerateImage")[0]
	assert.Equal(t, "16:9", image.Arg)
	assert.Contains(t, image.Prompt, "Swiss minimalist design")

	text := f.gen.CallsTo("GenerateText")[0].Prompt
	assert.Contains(t, text, "RULES FOR TWITTER")
	assert.Contains(t, text, "niche is General")
	assert.Contains(t, text, "Value-Packed")
}

func TestSocial_PostDefaults(t *testing.T) {
	f := newFixture(t)

	_, err := NewSocialService(f.studio).Post(context.Background(), &PostInput{UserID: testUserID, Topic: "focus", Niche: "coding"})
	require.NoError(t, err)

	assert.Equal(t, "1:1", f.gen.CallsTo("GenerateImage")[0].Arg)
	assert.Contains(t, f.gen.CallsTo("GenerateImage")[0].Prompt, "Cinematic photography")
	assert.Contains(t, f.gen.CallsTo("GenerateText")[0].Prompt, "niche is No-Code Dev")

	_, err = NewSocialService(f.studio).Post(context.Background(), &PostInput{UserID: testUserID, Topic: "focus", Platform: "MySpace"})
	assert.Equal(t, errors.CodeInvalidInput, errors.Categorize(err).Code)
}
