package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creative-studio/internal/errors"
	"github.com/creative-studio/internal/models"
	"github.com/creative-studio/internal/storage"
	"github.com/creative-studio/internal/types"
)

func newMotion(f *fixture) (*MotionService, *storage.VideoJobStore) {
	jobs := storage.NewVideoJobStore(f.cache, time.Hour)
	return NewMotionService(f.studio, jobs, 10*time.Minute), jobs
}

func TestMotion_SubmitQueuesAndHoldsPanel(t *testing.T) {
	f := newFixture(t)
	motion, jobs := newMotion(f)
	ctx := context.Background()

	job, err := motion.Submit(ctx, &VideoInput{UserID: testUserID, Prompt: "  a neon car chase  "})
	require.NoError(t, err)
	assert.Equal(t, types.VideoStatusQueued, job.Status)
	assert.Equal(t, "a neon car chase", job.Prompt)
	assert.NotEmpty(t, job.GuardToken)

	n, err := jobs.QueueLength(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = motion.Submit(ctx, &VideoInput{UserID: testUserID, Prompt: "another"})
	assert.Equal(t, errors.CodePanelBusy, errors.Categorize(err).Code)

	// the worker ends the lease with the stored token
	require.NoError(t, f.guard.Release(ctx, f.guard.LeaseFor(testUserID, types.ToolMotionAds, job.GuardToken)))
	_, err = motion.Submit(ctx, &VideoInput{UserID: testUserID, Prompt: "another"})
	assert.NoError(t, err)
}

func TestMotion_SubmitValidation(t *testing.T) {
	f := newFixture(t)
	motion, _ := newMotion(f)

	_, err := motion.Submit(context.Background(), &VideoInput{UserID: testUserID, Prompt: " "})
	assert.Equal(t, errors.CodeInvalidInput, errors.Categorize(err).Code)

	_, err = motion.Submit(context.Background(), &VideoInput{UserID: "usr_other", Prompt: "a car"})
	assert.Equal(t, errors.CodeUserNotFound, errors.Categorize(err).Code)
}

func TestMotion_GetIsScopedToOwner(t *testing.T) {
	f := newFixture(t)
	motion, jobs := newMotion(f)
	ctx := context.Background()

	require.NoError(t, jobs.Save(ctx, &models.VideoJob{ID: "vid_1", UserID: "usr_someone", Status: types.VideoStatusQueued}))

	_, err := motion.Get(ctx, testUserID, "vid_1")
	assert.Equal(t, errors.CodeVideoJobNotFound, errors.Categorize(err).Code)

	_, err = motion.Get(ctx, testUserID, "vid_missing")
	assert.Equal(t, errors.CodeVideoJobNotFound, errors.Categorize(err).Code)
}

func TestMotion_DownloadRequiresCompletedJob(t *testing.T) {
	f := newFixture(t)
	motion, jobs := newMotion(f)
	ctx := context.Background()

	require.NoError(t, jobs.Save(ctx, &models.VideoJob{ID: "vid_1", UserID: testUserID, Status: types.VideoStatusRunning}))
	_, err := motion.Download(ctx, testUserID, "vid_1")
	assert.Equal(t, errors.CodeVideoNotReady, errors.Categorize(err).Code)

	require.NoError(t, jobs.Save(ctx, &models.VideoJob{
		ID:       "vid_1",
		UserID:   testUserID,
		Status:   types.VideoStatusCompleted,
		VideoURI: "https://example.invalid/v.mp4",
	}))
	content, err := motion.Download(ctx, testUserID, "vid_1")
	require.NoError(t, err)
	defer content.Body.Close()

	body, err := io.ReadAll(content.Body)
	require.NoError(t, err)
	assert.Equal(t, "video-bytes", string(body))
	assert.Equal(t, "https://example.invalid/v.mp4", f.gen.CallsTo("DownloadVideo")[0].Arg)
}
