package service

import (
	"context"
	stderrors "errors"

	"github.com/creative-studio/internal/errors"
	"github.com/creative-studio/internal/models"
	"github.com/creative-studio/internal/storage"
	"github.com/creative-studio/internal/types"
)

// HistoryService exposes panel histories and current outputs
type HistoryService struct {
	studio *Studio
}

// NewHistoryService creates a new history service
func NewHistoryService(studio *Studio) *HistoryService {
	return &HistoryService{studio: studio}
}

// List returns the panel's history, most recent first. Panels without a
// history return an empty list.
func (s *HistoryService) List(ctx context.Context, userID string, tool types.ToolID) ([]*models.Artifact, error) {
	if err := s.check(ctx, userID, tool); err != nil {
		return nil, err
	}
	if !types.KeepsHistory(tool) {
		return []*models.Artifact{}, nil
	}

	items, err := s.studio.history.List(ctx, userID, tool)
	if err != nil {
		return nil, errors.NewCacheError("list history", err)
	}
	if items == nil {
		items = []*models.Artifact{}
	}
	return items, nil
}

// Clear empties the panel's history
func (s *HistoryService) Clear(ctx context.Context, userID string, tool types.ToolID) error {
	if err := s.check(ctx, userID, tool); err != nil {
		return err
	}
	if err := s.studio.history.Clear(ctx, userID, tool); err != nil {
		return errors.NewCacheError("clear history", err)
	}
	return nil
}

// Current returns the panel's current output, or nil when it has none
func (s *HistoryService) Current(ctx context.Context, userID string, tool types.ToolID) (*models.Artifact, error) {
	if err := s.check(ctx, userID, tool); err != nil {
		return nil, err
	}
	artifact, err := s.studio.outputs.GetCurrent(ctx, userID, tool)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, errors.NewCacheError("get current output", err)
	}
	return artifact, nil
}

func (s *HistoryService) check(ctx context.Context, userID string, tool types.ToolID) error {
	if _, ok := types.LookupTool(tool); !ok {
		return errors.NewUnknownToolError(string(tool))
	}
	return s.studio.ensureUser(ctx, userID)
}
