package service

import (
	"context"

	"github.com/creative-studio/internal/errors"
	"github.com/creative-studio/internal/models"
)

// UsageService reads the generation event log
type UsageService struct {
	studio *Studio
	reader UsageReader
}

// NewUsageService creates a usage service. A nil reader means analytics are disabled.
func NewUsageService(studio *Studio, reader UsageReader) *UsageService {
	return &UsageService{studio: studio, reader: reader}
}

// UsageSummary is a user's per-tool generation counts
type UsageSummary struct {
	UserID string              `json:"userId"`
	Tools  []*models.ToolUsage `json:"tools"`
}

// ForUser returns the user's usage summary
func (s *UsageService) ForUser(ctx context.Context, userID string) (*UsageSummary, error) {
	if s.reader == nil {
		return nil, errors.NewAnalyticsDisabledError()
	}
	if err := s.studio.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	usage, err := s.reader.UsageByUser(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("query usage", err)
	}
	if usage == nil {
		usage = []*models.ToolUsage{}
	}
	return &UsageSummary{UserID: userID, Tools: usage}, nil
}
