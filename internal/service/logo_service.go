package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/creative-studio/internal/errors"
	"github.com/creative-studio/internal/extract"
	"github.com/creative-studio/internal/models"
	"github.com/creative-studio/internal/prompt"
	"github.com/creative-studio/internal/types"
)

// LogoMode selects vector SVG or raster concept output
type LogoMode string

const (
	LogoModeVector  LogoMode = "vector"
	LogoModeConcept LogoMode = "concept"
)

// Logo form defaults
const (
	defaultIndustry  = "General"
	defaultPalette   = "Professional Palette"
	defaultLogoType  = "Abstract Mark"
	defaultLogoStyle = "Tech Minimal"
)

// LogoService implements Logo Forge
type LogoService struct {
	studio *Studio
}

// NewLogoService creates a new logo service
func NewLogoService(studio *Studio) *LogoService {
	return &LogoService{studio: studio}
}

// LogoInput is the Logo Forge form
type LogoInput struct {
	UserID        string   `json:"-"`
	Mode          LogoMode `json:"mode"`
	BrandName     string   `json:"brandName"`
	Industry      string   `json:"industry"`
	Style         string   `json:"style"`
	Palette       string   `json:"palette"`
	LogoType      string   `json:"logoType"`
	ConceptPrompt string   `json:"conceptPrompt"`
}

func (in *LogoInput) applyDefaults() {
	if in.Mode == "" {
		in.Mode = LogoModeVector
	}
	in.Industry = orDefault(in.Industry, defaultIndustry)
	in.Palette = orDefault(in.Palette, defaultPalette)
	in.LogoType = orDefault(in.LogoType, defaultLogoType)
	in.Style = orDefault(in.Style, defaultLogoStyle)
}

// Generate produces an SVG logo (vector) or a raster logo image (concept)
func (s *LogoService) Generate(ctx context.Context, input *LogoInput) (*models.Artifact, error) {
	input.applyDefaults()

	switch input.Mode {
	case LogoModeVector:
		if err := requireFields("brandName", input.BrandName); err != nil {
			return nil, err
		}
		return s.studio.run(ctx, action{
			userID:  input.UserID,
			tool:    types.ToolLogoForge,
			name:    "generate_vector",
			produce: s.vector(input),
		})

	case LogoModeConcept:
		if isBlank(input.ConceptPrompt) && isBlank(input.BrandName) {
			return nil, errors.NewRequiredFieldError("conceptPrompt")
		}
		return s.studio.run(ctx, action{
			userID:  input.UserID,
			tool:    types.ToolLogoForge,
			name:    "generate_concept",
			produce: s.concept(input),
		})

	default:
		return nil, errors.NewInvalidInputError("mode", "must be vector or concept")
	}
}

func (s *LogoService) vector(input *LogoInput) func(ctx context.Context) (*models.Artifact, error) {
	return func(ctx context.Context) (*models.Artifact, error) {
		reply, err := s.studio.generator.GenerateText(ctx, prompt.Logo(prompt.LogoBrief{
			BrandName: input.BrandName,
			Industry:  input.Industry,
			Style:     input.Style,
			Palette:   input.Palette,
			LogoType:  input.LogoType,
		}), "")
		if err != nil {
			return nil, err
		}

		svg, err := extract.SVG(reply)
		if err != nil {
			if stderrors.Is(err, extract.ErrInvalidSVG) {
				return nil, errors.NewInvalidMarkupError(types.ToolLogoForge, err)
			}
			return nil, err
		}
		return &models.Artifact{Kind: types.KindSVG, Content: svg, Prompt: input.BrandName}, nil
	}
}

func (s *LogoService) concept(input *LogoInput) func(ctx context.Context) (*models.Artifact, error) {
	return func(ctx context.Context) (*models.Artifact, error) {
		description := input.ConceptPrompt
		if isBlank(description) {
			description = fmt.Sprintf("Logo for %s, %s style, %s", input.BrandName, input.Style, input.Industry)
		}

		image, err := s.studio.generator.GenerateImage(ctx, prompt.LogoConcept(input.BrandName, input.Style, description), "1:1")
		if err != nil {
			return nil, err
		}
		return &models.Artifact{Kind: types.KindImage, Content: image, Prompt: description}, nil
	}
}

// EnhancePrompt rewrites the concept description into a detailed image
// prompt. The unenhanced text is returned when enhancement fails.
func (s *LogoService) EnhancePrompt(ctx context.Context, input *LogoInput) (string, error) {
	if isBlank(input.ConceptPrompt) && isBlank(input.BrandName) {
		return "", errors.NewRequiredFieldError("conceptPrompt")
	}
	input.applyDefaults()

	base := input.ConceptPrompt
	if isBlank(base) {
		base = fmt.Sprintf("Logo for %s in %s industry. Style: %s", input.BrandName, input.Industry, input.Style)
	}

	return s.studio.assist(ctx, input.UserID, types.ToolLogoForge, "enhance", base, func(ctx context.Context) (string, error) {
		return s.studio.generator.GenerateText(ctx, prompt.EnhanceImage(base), "")
	})
}
