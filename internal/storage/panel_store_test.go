package storage_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creative-studio/internal/models"
	"github.com/creative-studio/internal/storage"
	"github.com/creative-studio/internal/storage/storagetest"
	"github.com/creative-studio/internal/types"
)

func TestPanelGuard_ExclusiveUntilReleased(t *testing.T) {
	cache, _ := storagetest.NewRedis(t)
	guard := storage.NewPanelGuard(cache)
	ctx := context.Background()

	lease, ok, err := guard.Acquire(ctx, "usr_1", types.ToolPixelGen, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = guard.Acquire(ctx, "usr_1", types.ToolPixelGen, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second acquire must fail while held")

	_, ok, err = guard.Acquire(ctx, "usr_1", types.ToolCopyPro, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "other panels are independent")

	busy, err := guard.Busy(ctx, "usr_1", types.ToolPixelGen)
	require.NoError(t, err)
	assert.True(t, busy)

	require.NoError(t, guard.Release(ctx, lease))
	_, ok, err = guard.Acquire(ctx, "usr_1", types.ToolPixelGen, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPanelGuard_ExpiredLeaseDoesNotReleaseNewHolder(t *testing.T) {
	cache, mr := storagetest.NewRedis(t)
	guard := storage.NewPanelGuard(cache)
	ctx := context.Background()

	stale, ok, err := guard.Acquire(ctx, "usr_1", types.ToolLogoForge, time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)

	_, ok, err = guard.Acquire(ctx, "usr_1", types.ToolLogoForge, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, guard.Release(ctx, stale))
	busy, err := guard.Busy(ctx, "usr_1", types.ToolLogoForge)
	require.NoError(t, err)
	assert.True(t, busy)
}

func TestPanelGuard_ExtendKeepsOnlyOwnLease(t *testing.T) {
	cache, mr := storagetest.NewRedis(t)
	guard := storage.NewPanelGuard(cache)
	ctx := context.Background()

	lease, ok, err := guard.Acquire(ctx, "usr_1", types.ToolMotionAds, time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = guard.Extend(ctx, lease, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(30 * time.Second)
	busy, err := guard.Busy(ctx, "usr_1", types.ToolMotionAds)
	require.NoError(t, err)
	assert.True(t, busy)

	mr.FastForward(31 * time.Second)
	ok, err = guard.Extend(ctx, lease, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "expired lease must not come back")

	_, ok, err = guard.Acquire(ctx, "usr_1", types.ToolMotionAds, time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = guard.Extend(ctx, lease, time.Hour)
	require.NoError(t, err)
	assert.False(t, ok, "must not extend the new holder's lease")

	mr.FastForward(2 * time.Second)
	_, ok, err = guard.Acquire(ctx, "usr_1", types.ToolMotionAds, time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHistoryStore_PrependTrimsAndOrders(t *testing.T) {
	cache, mr := storagetest.NewRedis(t)
	history := storage.NewHistoryStore(cache, 3, time.Hour)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, history.Prepend(ctx, "usr_1", &models.Artifact{
			ID:      fmt.Sprintf("a%d", i),
			Tool:    types.ToolLogoForge,
			Kind:    types.KindSVG,
			Content: "<svg/>",
		}))
	}

	items, err := history.List(ctx, "usr_1", types.ToolLogoForge)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"a5", "a4", "a3"}, []string{items[0].ID, items[1].ID, items[2].ID})

	assert.True(t, mr.TTL("studio:history:usr_1:logo_forge") > 0)

	require.NoError(t, history.Clear(ctx, "usr_1", types.ToolLogoForge))
	items, err = history.List(ctx, "usr_1", types.ToolLogoForge)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestOutputStore_CurrentReplaces(t *testing.T) {
	cache, _ := storagetest.NewRedis(t)
	outputs := storage.NewOutputStore(cache, time.Hour)
	ctx := context.Background()

	_, err := outputs.GetCurrent(ctx, "usr_1", types.ToolCopyPro)
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	require.NoError(t, outputs.SetCurrent(ctx, "usr_1", &models.Artifact{ID: "one", Tool: types.ToolCopyPro, Content: "first"}))
	require.NoError(t, outputs.SetCurrent(ctx, "usr_1", &models.Artifact{ID: "two", Tool: types.ToolCopyPro, Content: "second"}))

	got, err := outputs.GetCurrent(ctx, "usr_1", types.ToolCopyPro)
	require.NoError(t, err)
	assert.Equal(t, "two", got.ID)
	assert.Equal(t, "second", got.Content)
}

func TestSessionStore_DefaultsToDashboard(t *testing.T) {
	cache, _ := storagetest.NewRedis(t)
	sessions := storage.NewSessionStore(cache, time.Hour)
	ctx := context.Background()

	tool, err := sessions.GetActiveTool(ctx, "usr_1")
	require.NoError(t, err)
	assert.Equal(t, types.ToolDashboard, tool)

	require.NoError(t, sessions.SetActiveTool(ctx, "usr_1", types.ToolSocialViral))
	tool, err = sessions.GetActiveTool(ctx, "usr_1")
	require.NoError(t, err)
	assert.Equal(t, types.ToolSocialViral, tool)
}

func TestVideoJobStore_QueueIsFIFO(t *testing.T) {
	cache, _ := storagetest.NewRedis(t)
	jobs := storage.NewVideoJobStore(cache, time.Hour)
	ctx := context.Background()

	job := &models.VideoJob{ID: "vid_1", UserID: "usr_1", Prompt: "a car", Status: types.VideoStatusQueued}
	require.NoError(t, jobs.Save(ctx, job))
	require.NoError(t, jobs.Enqueue(ctx, "vid_1"))
	require.NoError(t, jobs.Enqueue(ctx, "vid_2"))

	n, err := jobs.QueueLength(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	id, ok, err := jobs.Dequeue(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "vid_1", id)

	got, err := jobs.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "a car", got.Prompt)

	_, err = jobs.Get(ctx, "vid_missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, _, _ = jobs.Dequeue(ctx)
	_, ok, err = jobs.Dequeue(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
