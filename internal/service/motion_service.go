package service

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"github.com/creative-studio/internal/adapter"
	"github.com/creative-studio/internal/errors"
	"github.com/creative-studio/internal/logging"
	"github.com/creative-studio/internal/models"
	"github.com/creative-studio/internal/prompt"
	"github.com/creative-studio/internal/storage"
	"github.com/creative-studio/internal/types"
)

// VideoJobIDPrefix prefixes every video job id
const VideoJobIDPrefix = "vid_"

// MotionService implements Motion Ads. Rendering happens in the video worker.
type MotionService struct {
	studio   *Studio
	jobs     VideoJobStore
	guardTTL time.Duration
}

// NewMotionService creates a new motion service. guardTTL bounds how long a
// queued job keeps the panel busy; the worker restarts the lease at pickup.
func NewMotionService(studio *Studio, jobs VideoJobStore, guardTTL time.Duration) *MotionService {
	return &MotionService{studio: studio, jobs: jobs, guardTTL: guardTTL}
}

// VideoInput is the Motion Ads form
type VideoInput struct {
	UserID string `json:"-"`
	Prompt string `json:"prompt"`
}

// Submit queues a video job. The panel stays busy until the worker finishes it.
func (s *MotionService) Submit(ctx context.Context, input *VideoInput) (*models.VideoJob, error) {
	scene := prompt.VideoAd(input.Prompt)
	if err := requireFields("prompt", scene); err != nil {
		return nil, err
	}
	if err := s.studio.ensureUser(ctx, input.UserID); err != nil {
		return nil, err
	}

	lease, err := s.studio.acquire(ctx, input.UserID, types.ToolMotionAds, s.guardTTL)
	if err != nil {
		return nil, err
	}

	now := s.studio.now().UTC()
	job := &models.VideoJob{
		ID:         VideoJobIDPrefix + uuid.New().String(),
		UserID:     input.UserID,
		Prompt:     scene,
		Status:     types.VideoStatusQueued,
		GuardToken: lease.Token,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.jobs.Save(ctx, job); err != nil {
		s.studio.release(ctx, lease)
		return nil, errors.NewCacheError("save video job", err)
	}
	if err := s.jobs.Enqueue(ctx, job.ID); err != nil {
		s.studio.release(ctx, lease)
		return nil, errors.NewCacheError("enqueue video job", err)
	}

	logging.FromContext(ctx).WithFields(map[string]interface{}{
		"userId": input.UserID,
		"jobId":  job.ID,
	}).Info("Video job queued")
	return job, nil
}

// Get returns the user's video job
func (s *MotionService) Get(ctx context.Context, userID, jobID string) (*models.VideoJob, error) {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return nil, errors.NewVideoJobNotFoundError(jobID)
		}
		return nil, errors.NewCacheError("get video job", err)
	}
	if job.UserID != userID {
		return nil, errors.NewVideoJobNotFoundError(jobID)
	}
	return job, nil
}

// Download streams the finished video. The caller closes the body.
func (s *MotionService) Download(ctx context.Context, userID, jobID string) (*adapter.VideoContent, error) {
	job, err := s.Get(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != types.VideoStatusCompleted || job.VideoURI == "" {
		return nil, errors.NewVideoNotReadyError(jobID, job.Status)
	}

	content, err := s.studio.generator.DownloadVideo(ctx, job.VideoURI)
	if err != nil {
		return nil, generationError(types.ToolMotionAds, err)
	}
	return content, nil
}
