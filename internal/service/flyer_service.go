package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/creative-studio/internal/errors"
	"github.com/creative-studio/internal/models"
	"github.com/creative-studio/internal/prompt"
	"github.com/creative-studio/internal/types"
)

const backgroundTemplate = `<style> body { background-image: url('%s'); background-size: cover; background-position: center; background-repeat: no-repeat; } .backdrop-overlay { background: rgba(0,0,0,0.4); position: absolute; inset: 0; z-index: -1; } </style><div class="backdrop-overlay"></div>`

// FlyerService implements Event Horizon
type FlyerService struct {
	studio *Studio
	seeds  func() prompt.Placeholders
}

// NewFlyerService creates a new flyer service
func NewFlyerService(studio *Studio) *FlyerService {
	return &FlyerService{studio: studio, seeds: randomPlaceholders}
}

// FlyerInput is the Event Horizon form
type FlyerInput struct {
	UserID      string `json:"-"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	RSVP        string `json:"rsvp"`
	Description string `json:"description"`
	Vibe        string `json:"vibe"`
	Format      string `json:"format"`
	IncludeQR   *bool  `json:"includeQr"`
}

// Generate renders the background image and the flyer HTML in parallel and
// composes them. The artifact content is the composed preview; Media holds
// the bare background.
func (s *FlyerService) Generate(ctx context.Context, input *FlyerInput) (*models.Artifact, error) {
	if err := requireFields("title", input.Title); err != nil {
		return nil, err
	}

	vibe, ok := findOption(FlyerVibes, orDefault(input.Vibe, FlyerVibes[0].ID))
	if !ok {
		return nil, errors.NewInvalidInputError("vibe", "unknown vibe")
	}
	format, ok := findOption(FlyerFormats, orDefault(input.Format, FlyerFormats[0].ID))
	if !ok {
		return nil, errors.NewInvalidInputError("format", "unknown format")
	}

	brief := prompt.FlyerBrief{
		Title:       input.Title,
		Date:        input.Date,
		Location:    input.Location,
		RSVP:        input.RSVP,
		Details:     input.Description,
		VibeLabel:   vibe.Label,
		VibeStyle:   vibe.Prompt,
		FormatLabel: format.Label,
		IncludeQR:   boolOr(input.IncludeQR, true),
	}
	instruction := prompt.HTMLDocument(
		prompt.DocumentFlyer,
		input.Title,
		prompt.FlyerDescription(brief),
		vibe.Label,
		prompt.SiteFeatures{},
		s.seeds(),
	)

	return s.studio.run(ctx, action{
		userID: input.UserID,
		tool:   types.ToolEventHorizon,
		name:   "generate",
		produce: func(ctx context.Context) (*models.Artifact, error) {
			var background, doc string
			err := parallel(ctx,
				func(ctx context.Context) error {
					var err error
					background, err = s.studio.generator.GenerateImage(ctx, prompt.FlyerBackground(brief), format.Aspect)
					return err
				},
				func(ctx context.Context) error {
					var err error
					doc, err = s.studio.generateHTML(ctx, types.ToolEventHorizon, instruction)
					return err
				},
			)
			if err != nil {
				return nil, err
			}
			return &models.Artifact{
				Kind:    types.KindHTML,
				Content: WithBackground(doc, background),
				Media:   background,
				Prompt:  input.Title,
			}, nil
		},
	})
}

// WithBackground injects the background style before the first </head>.
// Documents without a head get the style prepended.
func WithBackground(doc, backgroundURL string) string {
	if backgroundURL == "" {
		return doc
	}
	injection := fmt.Sprintf(backgroundTemplate, backgroundURL)
	if !strings.Contains(doc, "</head>") {
		return injection + doc
	}
	return strings.Replace(doc, "</head>", injection+"</head>", 1)
}
