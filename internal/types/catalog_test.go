package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		tool ToolID
		want string
	}{
		{ToolDashboard, "HQAIM Apps | Generative AI Dashboard"},
		{ToolPixelGen, "Pixel Gen - Photorealistic AI Image Generator & Art Studio | HQAIM Apps"},
		{ToolEventHorizon, "Event Horizon - AI Flyer Maker & Event Banner Designer for Print/Web | HQAIM Apps"},
	}

	for _, tt := range tests {
		t.Run(string(tt.tool), func(t *testing.T) {
			got, err := Title(tt.tool)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTitle_UnknownTool(t *testing.T) {
	_, err := Title("word_smith")
	assert.Error(t, err)
}

func TestTools_ReturnsCopy(t *testing.T) {
	list := Tools()
	list[0].Name = "mutated"

	def, ok := LookupTool(list[0].ID)
	require.True(t, ok)
	assert.NotEqual(t, "mutated", def.Name)
}

func TestKeepsHistory(t *testing.T) {
	assert.True(t, KeepsHistory(ToolLogoForge))
	assert.True(t, KeepsHistory(ToolPixelGen))
	assert.False(t, KeepsHistory(ToolCopyPro))
	assert.False(t, KeepsHistory(ToolDashboard))
}

func TestIsKnownTool(t *testing.T) {
	assert.True(t, IsKnownTool(ToolDashboard))
	assert.True(t, IsKnownTool(ToolMotionAds))
	assert.False(t, IsKnownTool("unknown"))
}

func TestIsSupportedAspectRatio(t *testing.T) {
	assert.True(t, IsSupportedAspectRatio("16:9"))
	assert.False(t, IsSupportedAspectRatio("4:3"))
}
