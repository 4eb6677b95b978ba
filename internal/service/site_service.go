package service

import (
	"context"
	stderrors "errors"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/creative-studio/internal/errors"
	"github.com/creative-studio/internal/extract"
	"github.com/creative-studio/internal/models"
	"github.com/creative-studio/internal/prompt"
	"github.com/creative-studio/internal/storage"
	"github.com/creative-studio/internal/types"
	"github.com/creative-studio/internal/visualedit"
)

// Site Architect form defaults
const (
	defaultSiteTheme     = "Modern Tech"
	defaultSiteStructure = "Modern Landing Page"
)

// SiteService implements Site Architect
type SiteService struct {
	studio *Studio
	seeds  func() prompt.Placeholders
}

// NewSiteService creates a new site service
func NewSiteService(studio *Studio) *SiteService {
	return &SiteService{studio: studio, seeds: randomPlaceholders}
}

func randomPlaceholders() prompt.Placeholders {
	return prompt.Placeholders{PhotoSeed: rand.IntN(1000), AvatarSeed: rand.IntN(70)}
}

// SiteInput is the Site Architect form
type SiteInput struct {
	UserID      string `json:"-"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Theme       string `json:"theme"`
	Structure   string `json:"structure"`
	ThreeJS     *bool  `json:"threeJs"`
	Animations  *bool  `json:"animations"`
}

// Generate builds a single-file HTML site
func (s *SiteService) Generate(ctx context.Context, input *SiteInput) (*models.Artifact, error) {
	if err := requireFields("name", input.Name, "description", input.Description); err != nil {
		return nil, err
	}

	instruction := prompt.HTMLDocument(
		prompt.DocumentWebsite,
		input.Name,
		input.Description,
		orDefault(input.Theme, defaultSiteTheme),
		prompt.SiteFeatures{
			ThreeJS:    boolOr(input.ThreeJS, false),
			Animations: boolOr(input.Animations, true),
			Structure:  orDefault(input.Structure, defaultSiteStructure),
		},
		s.seeds(),
	)

	return s.studio.run(ctx, action{
		userID: input.UserID,
		tool:   types.ToolSiteArchitect,
		name:   "generate",
		produce: func(ctx context.Context) (*models.Artifact, error) {
			doc, err := s.studio.generateHTML(ctx, types.ToolSiteArchitect, instruction)
			if err != nil {
				return nil, err
			}
			return &models.Artifact{Kind: types.KindHTML, Content: doc, Prompt: input.Description}, nil
		},
	})
}

// RefineInput is a natural-language edit of the current site
type RefineInput struct {
	UserID      string `json:"-"`
	Instruction string `json:"instruction"`
	HTML        string `json:"html"`
}

// Refine applies the instruction to the given HTML, or the current output when HTML is empty
func (s *SiteService) Refine(ctx context.Context, input *RefineInput) (*models.Artifact, error) {
	if err := requireFields("instruction", input.Instruction); err != nil {
		return nil, err
	}

	doc := input.HTML
	if isBlank(doc) {
		current, err := s.current(ctx, input.UserID)
		if err != nil {
			return nil, err
		}
		doc = current.Content
	}

	// editor markers must not leak into the model's input
	clean, err := visualedit.Disable(doc)
	if err != nil {
		return nil, errors.NewInvalidInputError("html", "could not be parsed")
	}

	return s.studio.run(ctx, action{
		userID: input.UserID,
		tool:   types.ToolSiteArchitect,
		name:   "refine",
		produce: func(ctx context.Context) (*models.Artifact, error) {
			refined, err := s.studio.generateHTML(ctx, types.ToolSiteArchitect, prompt.RefineHTML(clean, input.Instruction))
			if err != nil {
				return nil, err
			}
			return &models.Artifact{Kind: types.KindHTML, Content: refined, Prompt: input.Instruction}, nil
		},
	})
}

// VisualEditInput toggles in-preview editing
type VisualEditInput struct {
	UserID  string `json:"-"`
	Enabled bool   `json:"enabled"`
	HTML    string `json:"html"`
}

// SetVisualEdit enables or disables visual edit mode on the site. When
// disabling, HTML carries the edited preview markup; the current output
// is used when it is empty. The result becomes the current output.
func (s *SiteService) SetVisualEdit(ctx context.Context, input *VisualEditInput) (*models.Artifact, error) {
	if err := s.studio.ensureUser(ctx, input.UserID); err != nil {
		return nil, err
	}

	current, err := s.current(ctx, input.UserID)
	if err != nil {
		if isBlank(input.HTML) || !errors.IsUserError(err) {
			return nil, err
		}
		current = nil
	}

	doc := input.HTML
	if isBlank(doc) {
		doc = current.Content
	}

	transform := visualedit.Disable
	if input.Enabled {
		transform = visualedit.Enable
	}
	out, err := transform(doc)
	if err != nil {
		return nil, errors.NewInvalidInputError("html", "could not be parsed")
	}

	artifact := &models.Artifact{
		ID:        uuid.New().String(),
		Tool:      types.ToolSiteArchitect,
		Kind:      types.KindHTML,
		Content:   out,
		CreatedAt: s.studio.now().UTC(),
	}
	if current != nil {
		artifact.ID = current.ID
		artifact.Prompt = current.Prompt
		artifact.CreatedAt = current.CreatedAt
	}
	if err := s.studio.outputs.SetCurrent(ctx, input.UserID, artifact); err != nil {
		return nil, errors.NewCacheError("store current output", err)
	}
	return artifact, nil
}

func (s *SiteService) current(ctx context.Context, userID string) (*models.Artifact, error) {
	current, err := s.studio.outputs.GetCurrent(ctx, userID, types.ToolSiteArchitect)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return nil, errors.NewRequiredFieldError("html")
		}
		return nil, errors.NewCacheError("get current output", err)
	}
	return current, nil
}

// generateHTML asks the text model for a document and extracts the HTML from its reply
func (s *Studio) generateHTML(ctx context.Context, tool types.ToolID, instruction string) (string, error) {
	reply, err := s.generator.GenerateText(ctx, instruction, "")
	if err != nil {
		return "", err
	}
	doc := extract.HTML(reply)
	if isBlank(doc) {
		return "", errors.NewInvalidMarkupError(tool, stderrors.New("empty HTML document"))
	}
	return doc, nil
}
