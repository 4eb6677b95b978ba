package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creative-studio/internal/adapter"
	"github.com/creative-studio/internal/errors"
	"github.com/creative-studio/internal/types"
)

func TestRun_UnknownUser(t *testing.T) {
	f := newFixture(t)
	pixel := NewPixelService(f.studio)

	_, err := pixel.Generate(context.Background(), &PixelInput{UserID: "usr_missing", Prompt: "a fox"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeUserNotFound, errors.Categorize(err).Code)
	assert.Empty(t, f.gen.Calls())
}

func TestRun_RejectsWhilePanelBusy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pixel := NewPixelService(f.studio)

	lease, ok, err := f.guard.Acquire(ctx, testUserID, types.ToolPixelGen, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = pixel.Generate(ctx, &PixelInput{UserID: testUserID, Prompt: "a fox"})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, errors.GetHTTPStatusCode(err))
	assert.Equal(t, errors.CodePanelBusy, errors.Categorize(err).Code)
	assert.Empty(t, f.gen.Calls())

	require.NoError(t, f.guard.Release(ctx, lease))
	_, err = pixel.Generate(ctx, &PixelInput{UserID: testUserID, Prompt: "a fox"})
	assert.NoError(t, err)
}

func TestRun_SecondRequestWhileInFlight(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	copySvc := NewCopyService(f.studio)

	started := make(chan struct{})
	unblock := make(chan struct{})
	f.gen.TextFunc = func(ctx context.Context, prompt, model string) (string, error) {
		close(started)
		<-unblock
		return "**copy**", nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := copySvc.Generate(ctx, &CopyInput{UserID: testUserID, Topic: "shoes"})
		done <- err
	}()
	<-started

	_, err := copySvc.Generate(ctx, &CopyInput{UserID: testUserID, Topic: "shoes"})
	assert.Equal(t, errors.CodePanelBusy, errors.Categorize(err).Code)

	// other panels stay usable
	_, err = NewPixelService(f.studio).Generate(ctx, &PixelInput{UserID: testUserID, Prompt: "a fox"})
	assert.NoError(t, err)

	close(unblock)
	require.NoError(t, <-done)

	busy, err := f.guard.Busy(ctx, testUserID, types.ToolCopyPro)
	require.NoError(t, err)
	assert.False(t, busy)
}

func TestRun_GuardOutlivesGuardTTL(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	copySvc := NewCopyService(f.studio)

	started := make(chan struct{})
	unblock := make(chan struct{})
	f.gen.TextFunc = func(ctx context.Context, prompt, model string) (string, error) {
		close(started)
		<-unblock
		return "**copy**", nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := copySvc.Generate(ctx, &CopyInput{UserID: testUserID, Topic: "shoes"})
		done <- err
	}()
	<-started

	f.mr.FastForward(time.Minute + time.Second)

	_, err := copySvc.Generate(ctx, &CopyInput{UserID: testUserID, Topic: "shoes"})
	assert.Equal(t, errors.CodePanelBusy, errors.Categorize(err).Code)

	close(unblock)
	require.NoError(t, <-done)
}

func TestRun_GenerationDeadlineIsGuardTTL(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	studio := NewStudio(StudioDeps{
		Users:     f.users,
		Guard:     f.guard,
		Outputs:   f.outputs,
		History:   f.history,
		Generator: f.gen,
		GuardTTL:  20 * time.Millisecond,
	})
	f.gen.TextFunc = func(ctx context.Context, prompt, model string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}

	_, err := NewCopyService(studio).Generate(ctx, &CopyInput{UserID: testUserID, Topic: "shoes"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, errors.CodeGenerationFailed, errors.Categorize(err).Code)

	busy, err := f.guard.Busy(ctx, testUserID, types.ToolCopyPro)
	require.NoError(t, err)
	assert.False(t, busy)
}

func TestRun_SuccessStoresOutputAndHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pixel := NewPixelService(f.studio)

	for i := 1; i <= 2; i++ {
		n := i
		f.gen.ImageFunc = func(ctx context.Context, prompt, ratio string) (string, error) {
			return fmt.Sprintf("data:image/png;base64,%d", n), nil
		}
		_, err := pixel.Generate(ctx, &PixelInput{UserID: testUserID, Prompt: fmt.Sprintf("idea %d", n)})
		require.NoError(t, err)
	}

	current, err := f.outputs.GetCurrent(ctx, testUserID, types.ToolPixelGen)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,2", current.Content)
	assert.Equal(t, types.KindImage, current.Kind)
	assert.NotEmpty(t, current.ID)

	items, err := f.history.List(ctx, testUserID, types.ToolPixelGen)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "idea 2", items[0].Prompt)
	assert.Equal(t, "idea 1", items[1].Prompt)

	events := f.events.all()
	require.Len(t, events, 2)
	assert.True(t, events[0].Success)
	assert.Equal(t, types.ToolPixelGen, events[0].Tool)
}

func TestRun_PanelsWithoutHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := NewCopyService(f.studio).Generate(ctx, &CopyInput{UserID: testUserID, Topic: "shoes"})
	require.NoError(t, err)

	items, err := f.history.List(ctx, testUserID, types.ToolCopyPro)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRun_FailureLeavesStateUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pixel := NewPixelService(f.studio)

	first, err := pixel.Generate(ctx, &PixelInput{UserID: testUserID, Prompt: "first"})
	require.NoError(t, err)

	f.gen.ImageFunc = func(ctx context.Context, prompt, ratio string) (string, error) {
		return "", stderrors.New("quota exceeded")
	}
	_, err = pixel.Generate(ctx, &PixelInput{UserID: testUserID, Prompt: "second"})
	require.Error(t, err)
	catErr := errors.Categorize(err)
	assert.Equal(t, errors.CodeGenerationFailed, catErr.Code)
	assert.Equal(t, http.StatusBadGateway, catErr.StatusCode)

	current, err := f.outputs.GetCurrent(ctx, testUserID, types.ToolPixelGen)
	require.NoError(t, err)
	assert.Equal(t, first.ID, current.ID)

	items, err := f.history.List(ctx, testUserID, types.ToolPixelGen)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	events := f.events.all()
	require.Len(t, events, 2)
	assert.False(t, events[1].Success)
	assert.Equal(t, errors.CodeGenerationFailed, events[1].Error)

	busy, err := f.guard.Busy(ctx, testUserID, types.ToolPixelGen)
	require.NoError(t, err)
	assert.False(t, busy, "guard is released after a failure")

	stats := f.studio.Monitor().GetStats()[types.ToolPixelGen]
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Failures)
}

func TestRun_ProviderUnavailable(t *testing.T) {
	f := newFixture(t)
	f.studio.generator = adapter.Unavailable{}

	_, err := NewCopyService(f.studio).Generate(context.Background(), &CopyInput{UserID: testUserID, Topic: "shoes"})
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, errors.GetHTTPStatusCode(err))
	assert.Equal(t, errors.CodeProviderUnavailable, errors.Categorize(err).Code)
}

func TestParallel_FirstFailureCancelsSibling(t *testing.T) {
	boom := stderrors.New("boom")
	cancelled := make(chan struct{})

	err := parallel(context.Background(),
		func(ctx context.Context) error {
			return boom
		},
		func(ctx context.Context) error {
			<-ctx.Done()
			close(cancelled)
			return ctx.Err()
		},
	)

	assert.ErrorIs(t, err, boom)
	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("sibling was not cancelled")
	}
}
