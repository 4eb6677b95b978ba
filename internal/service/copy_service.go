package service

import (
	"context"
	"strings"

	"github.com/creative-studio/internal/models"
	"github.com/creative-studio/internal/prompt"
	"github.com/creative-studio/internal/types"
)

// Copy Pro form defaults
const (
	defaultCopyFormat    = "Facebook Ad"
	defaultCopyTone      = "Persuasive"
	defaultCopyFramework = "AIDA (Attention-Interest-Desire-Action)"
	defaultAudience      = "General Public"
)

// CopyService implements Copy Pro
type CopyService struct {
	studio *Studio
}

// NewCopyService creates a new copy service
func NewCopyService(studio *Studio) *CopyService {
	return &CopyService{studio: studio}
}

// CopyInput is the Copy Pro form
type CopyInput struct {
	UserID    string `json:"-"`
	Format    string `json:"format"`
	Topic     string `json:"topic"`
	Tone      string `json:"tone"`
	Framework string `json:"framework"`
	Audience  string `json:"audience"`
}

// Generate writes markdown copy for the topic
func (s *CopyService) Generate(ctx context.Context, input *CopyInput) (*models.Artifact, error) {
	if err := requireFields("topic", input.Topic); err != nil {
		return nil, err
	}

	brief := prompt.CopyBrief{
		Format:    orDefault(input.Format, defaultCopyFormat),
		Topic:     input.Topic,
		Tone:      orDefault(input.Tone, defaultCopyTone),
		Framework: frameworkName(orDefault(input.Framework, defaultCopyFramework)),
		Audience:  orDefault(input.Audience, defaultAudience),
	}

	return s.studio.run(ctx, action{
		userID: input.UserID,
		tool:   types.ToolCopyPro,
		name:   "generate",
		produce: func(ctx context.Context) (*models.Artifact, error) {
			text, err := s.studio.generator.GenerateText(ctx, prompt.Copy(brief), "")
			if err != nil {
				return nil, err
			}
			return &models.Artifact{Kind: types.KindMarkdown, Content: text, Prompt: input.Topic}, nil
		},
	})
}

// frameworkName returns the short name of a framework label, e.g. "AIDA"
func frameworkName(label string) string {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return label
	}
	return fields[0]
}
