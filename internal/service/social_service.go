package service

import (
	"context"

	"github.com/creative-studio/internal/errors"
	"github.com/creative-studio/internal/extract"
	"github.com/creative-studio/internal/models"
	"github.com/creative-studio/internal/prompt"
	"github.com/creative-studio/internal/types"
)

const (
	defaultPlatform   = "Instagram"
	defaultSocialVibe = "Value-Packed"
	defaultNicheLabel = "General"
)

// SocialService implements Social Viral
type SocialService struct {
	studio *Studio
}

// NewSocialService creates a new social service
func NewSocialService(studio *Studio) *SocialService {
	return &SocialService{studio: studio}
}

// HooksInput asks for trend hooks in a niche
type HooksInput struct {
	UserID   string `json:"-"`
	Niche    string `json:"niche"`
	Platform string `json:"platform"`
}

// Hooks returns up to four hooks for the niche. Generation failures yield
// the templated fallback hooks.
func (s *SocialService) Hooks(ctx context.Context, input *HooksInput) ([]string, error) {
	if err := requireFields("niche", input.Niche); err != nil {
		return nil, err
	}
	platform, err := resolvePlatform(input.Platform)
	if err != nil {
		return nil, err
	}
	label := nicheLabel(input.Niche)

	raw, err := s.studio.assist(ctx, input.UserID, types.ToolSocialViral, "hooks", "", func(ctx context.Context) (string, error) {
		return s.studio.generator.GenerateText(ctx, prompt.ViralHooks(label, platform), "")
	})
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return extract.FallbackHooks(label), nil
	}
	return extract.Hooks(raw, label), nil
}

// PostInput is the Social Viral post form
type PostInput struct {
	UserID      string `json:"-"`
	Topic       string `json:"topic"`
	Niche       string `json:"niche"`
	Platform    string `json:"platform"`
	Vibe        string `json:"vibe"`
	VisualStyle string `json:"visualStyle"`
}

// Post writes the post copy and its visual in parallel. The artifact holds
// the markdown copy as content and the image as media.
func (s *SocialService) Post(ctx context.Context, input *PostInput) (*models.Artifact, error) {
	if err := requireFields("topic", input.Topic); err != nil {
		return nil, err
	}
	platform, err := resolvePlatform(input.Platform)
	if err != nil {
		return nil, err
	}

	brief := prompt.SocialBrief{
		Topic:       input.Topic,
		Niche:       defaultNicheLabel,
		Platform:    platform,
		Vibe:        orDefault(input.Vibe, defaultSocialVibe),
		VisualStyle: visualStylePrompt(input.VisualStyle),
	}
	if !isBlank(input.Niche) {
		brief.Niche = nicheLabel(input.Niche)
	}

	ratio := "1:1"
	if platform == "Twitter" {
		ratio = "16:9"
	}

	return s.studio.run(ctx, action{
		userID: input.UserID,
		tool:   types.ToolSocialViral,
		name:   "post",
		produce: func(ctx context.Context) (*models.Artifact, error) {
			var text, image string
			err := parallel(ctx,
				func(ctx context.Context) error {
					var err error
					text, err = s.studio.generator.GenerateText(ctx, prompt.SocialPost(brief), "")
					return err
				},
				func(ctx context.Context) error {
					var err error
					image, err = s.studio.generator.GenerateImage(ctx, prompt.SocialVisual(brief), ratio)
					return err
				},
			)
			if err != nil {
				return nil, err
			}
			return &models.Artifact{Kind: types.KindMarkdown, Content: text, Media: image, Prompt: input.Topic}, nil
		},
	})
}

func resolvePlatform(platform string) (string, error) {
	platform = orDefault(platform, defaultPlatform)
	if _, ok := findOption(SocialPlatforms, platform); !ok {
		return "", errors.NewInvalidInputError("platform", "must be Instagram, LinkedIn or Twitter")
	}
	return platform, nil
}

// nicheLabel maps a trend niche id to its label; free-form niches pass through
func nicheLabel(niche string) string {
	if o, ok := findOption(TrendNiches, niche); ok {
		return o.Label
	}
	return niche
}

// visualStylePrompt maps a style id to its prompt; free-form styles pass through
func visualStylePrompt(style string) string {
	if isBlank(style) {
		return VisualStyles[0].Prompt
	}
	if o, ok := findOption(VisualStyles, style); ok {
		return o.Prompt
	}
	return style
}
