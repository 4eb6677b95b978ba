package service

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creative-studio/internal/errors"
	"github.com/creative-studio/internal/models"
	"github.com/creative-studio/internal/types"
)

func TestHistory_ListCurrentClear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	history := NewHistoryService(f.studio)

	current, err := history.Current(ctx, testUserID, types.ToolLogoForge)
	require.NoError(t, err)
	assert.Nil(t, current)

	logo := NewLogoService(f.studio)
	_, err = logo.Generate(ctx, &LogoInput{UserID: testUserID, Mode: LogoModeConcept, ConceptPrompt: "a fox"})
	require.NoError(t, err)
	_, err = logo.Generate(ctx, &LogoInput{UserID: testUserID, Mode: LogoModeConcept, ConceptPrompt: "an owl"})
	require.NoError(t, err)

	items, err := history.List(ctx, testUserID, types.ToolLogoForge)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "an owl", items[0].Prompt)

	current, err = history.Current(ctx, testUserID, types.ToolLogoForge)
	require.NoError(t, err)
	assert.Equal(t, items[0].ID, current.ID)

	require.NoError(t, history.Clear(ctx, testUserID, types.ToolLogoForge))
	items, err = history.List(ctx, testUserID, types.ToolLogoForge)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestHistory_PanelWithoutHistoryIsEmpty(t *testing.T) {
	f := newFixture(t)

	items, err := NewHistoryService(f.studio).List(context.Background(), testUserID, types.ToolCopyPro)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestHistory_UnknownTool(t *testing.T) {
	f := newFixture(t)

	_, err := NewHistoryService(f.studio).List(context.Background(), testUserID, types.ToolDashboard)
	assert.Equal(t, errors.CodeUnknownTool, errors.Categorize(err).Code)
}

type stubUsage struct {
	usage []*models.ToolUsage
	err   error
}

func (s *stubUsage) UsageByUser(ctx context.Context, userID string) ([]*models.ToolUsage, error) {
	return s.usage, s.err
}

func TestUsage_DisabledWithoutReader(t *testing.T) {
	f := newFixture(t)

	_, err := NewUsageService(f.studio, nil).ForUser(context.Background(), testUserID)
	assert.Equal(t, errors.CodeAnalyticsDisabled, errors.Categorize(err).Code)
}

func TestUsage_ForUser(t *testing.T) {
	f := newFixture(t)
	reader := &stubUsage{usage: []*models.ToolUsage{{Tool: types.ToolPixelGen, Total: 3, Succeeded: 2, Failed: 1}}}

	summary, err := NewUsageService(f.studio, reader).ForUser(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Equal(t, testUserID, summary.UserID)
	require.Len(t, summary.Tools, 1)
	assert.Equal(t, uint64(3), summary.Tools[0].Total)

	reader.err = stderrors.New("clickhouse down")
	_, err = NewUsageService(f.studio, reader).ForUser(context.Background(), testUserID)
	assert.Equal(t, errors.CodeDatabaseError, errors.Categorize(err).Code)
}
