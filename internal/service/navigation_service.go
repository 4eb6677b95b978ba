package service

import (
	"context"

	"github.com/creative-studio/internal/errors"
	"github.com/creative-studio/internal/types"
)

// Navigation is the active panel and its document title
type Navigation struct {
	Tool  types.ToolID `json:"tool"`
	Title string       `json:"title"`
}

// NavigationService switches the active panel
type NavigationService struct {
	studio   *Studio
	sessions SessionStore
}

// NewNavigationService creates a new navigation service
func NewNavigationService(studio *Studio, sessions SessionStore) *NavigationService {
	return &NavigationService{studio: studio, sessions: sessions}
}

// Select makes tool the user's active panel
func (s *NavigationService) Select(ctx context.Context, userID string, tool types.ToolID) (*Navigation, error) {
	if !types.IsKnownTool(tool) {
		return nil, errors.NewUnknownToolError(string(tool))
	}
	if err := s.studio.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.sessions.SetActiveTool(ctx, userID, tool); err != nil {
		return nil, errors.NewCacheError("set active tool", err)
	}
	return navigation(tool)
}

// Active returns the user's active panel, the dashboard when none was selected
func (s *NavigationService) Active(ctx context.Context, userID string) (*Navigation, error) {
	if err := s.studio.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	tool, err := s.sessions.GetActiveTool(ctx, userID)
	if err != nil {
		return nil, errors.NewCacheError("get active tool", err)
	}
	if !types.IsKnownTool(tool) {
		tool = types.ToolDashboard
	}
	return navigation(tool)
}

func navigation(tool types.ToolID) (*Navigation, error) {
	title, err := types.Title(tool)
	if err != nil {
		return nil, errors.NewUnknownToolError(string(tool))
	}
	return &Navigation{Tool: tool, Title: title}, nil
}
