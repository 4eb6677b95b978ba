package service

import (
	"context"

	"github.com/creative-studio/internal/errors"
	"github.com/creative-studio/internal/models"
	"github.com/creative-studio/internal/prompt"
	"github.com/creative-studio/internal/types"
)

// PixelService implements Pixel Gen
type PixelService struct {
	studio *Studio
}

// NewPixelService creates a new pixel service
func NewPixelService(studio *Studio) *PixelService {
	return &PixelService{studio: studio}
}

// PixelInput is the Pixel Gen form
type PixelInput struct {
	UserID      string `json:"-"`
	Prompt      string `json:"prompt"`
	Style       string `json:"style"`
	AspectRatio string `json:"aspectRatio"`
}

// Generate renders the prompt in the chosen style and aspect ratio
func (s *PixelService) Generate(ctx context.Context, input *PixelInput) (*models.Artifact, error) {
	if err := requireFields("prompt", input.Prompt); err != nil {
		return nil, err
	}
	style := orDefault(input.Style, PixelStyles[0])
	ratio := orDefault(input.AspectRatio, "1:1")
	if !types.IsSupportedAspectRatio(ratio) {
		return nil, errors.NewInvalidInputError("aspectRatio", "unsupported aspect ratio")
	}

	return s.studio.run(ctx, action{
		userID: input.UserID,
		tool:   types.ToolPixelGen,
		name:   "generate",
		produce: func(ctx context.Context) (*models.Artifact, error) {
			image, err := s.studio.generator.GenerateImage(ctx, prompt.PixelImage(input.Prompt, style, ratio), ratio)
			if err != nil {
				return nil, err
			}
			return &models.Artifact{Kind: types.KindImage, Content: image, Prompt: input.Prompt}, nil
		},
	})
}

// EnhancePrompt expands a short idea into a detailed prompt, falling back to the raw text
func (s *PixelService) EnhancePrompt(ctx context.Context, userID, raw string) (string, error) {
	if err := requireFields("prompt", raw); err != nil {
		return "", err
	}
	return s.studio.assist(ctx, userID, types.ToolPixelGen, "enhance", raw, func(ctx context.Context) (string, error) {
		return s.studio.generator.GenerateText(ctx, prompt.EnhanceImage(raw), "")
	})
}
