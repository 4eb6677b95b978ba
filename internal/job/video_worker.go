// Package job runs the Motion Ads video pipeline: a pool of workers that
// drains the Redis video queue, renders each job through the generator and
// publishes the result as the panel's current output.
package job

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/creative-studio/internal/adapter"
	"github.com/creative-studio/internal/errors"
	"github.com/creative-studio/internal/logging"
	"github.com/creative-studio/internal/models"
	"github.com/creative-studio/internal/retry"
	"github.com/creative-studio/internal/storage"
	"github.com/creative-studio/internal/types"
)

const (
	eventWriteTimeout = 5 * time.Second
	progressRetention = time.Hour

	// guardGrace keeps the lease past the render timeout while the result is stored
	guardGrace = 30 * time.Second
)

// JobStore persists and queues video jobs
type JobStore interface {
	Save(ctx context.Context, job *models.VideoJob) error
	Get(ctx context.Context, id string) (*models.VideoJob, error)
	Enqueue(ctx context.Context, id string) error
	Dequeue(ctx context.Context) (string, bool, error)
}

// PanelGuard holds and ends the Motion Ads lease taken at submission
type PanelGuard interface {
	LeaseFor(userID string, tool types.ToolID, token string) *storage.Lease
	Extend(ctx context.Context, lease *storage.Lease, ttl time.Duration) (bool, error)
	Release(ctx context.Context, lease *storage.Lease) error
}

// OutputStore keeps a panel's current artifact
type OutputStore interface {
	SetCurrent(ctx context.Context, userID string, artifact *models.Artifact) error
}

// EventRecorder writes generation events to the usage log
type EventRecorder interface {
	Record(ctx context.Context, events ...*models.GenerationEvent) error
}

// Monitor aggregates generation latency and outcomes
type Monitor interface {
	Record(tool types.ToolID, elapsed time.Duration, success bool)
}

// VideoWorkerConfig holds worker pool settings
type VideoWorkerConfig struct {
	Workers         int
	PollInterval    time.Duration // between provider status checks
	Timeout         time.Duration // per job, from start to finished video
	DequeueInterval time.Duration // between queue scans
	Retry           *retry.Config // for transient poll errors
}

// Validate checks the configuration
func (c *VideoWorkerConfig) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.Timeout < c.PollInterval {
		return fmt.Errorf("timeout must be at least the poll interval")
	}
	return nil
}

// VideoWorkerDeps are the collaborators of a VideoWorker. Events and Monitor may be nil.
type VideoWorkerDeps struct {
	Jobs      JobStore
	Guard     PanelGuard
	Outputs   OutputStore
	Events    EventRecorder
	Monitor   Monitor
	Generator adapter.Generator
}

// JobProgress tracks a job handled by this worker
type JobProgress struct {
	JobID       string               `json:"jobId"`
	UserID      string               `json:"userId"`
	Status      types.VideoJobStatus `json:"status"`
	Polls       int                  `json:"polls"`
	StartedAt   time.Time            `json:"startedAt"`
	LastUpdated time.Time            `json:"lastUpdated"`
}

// VideoWorker drains the video queue with a bounded pool
type VideoWorker struct {
	mu sync.Mutex

	deps  VideoWorkerDeps
	cfg   VideoWorkerConfig
	retry *retry.Config

	workerSem     chan struct{}
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	running       bool
	progressTrack map[string]*JobProgress

	now func() time.Time
}

// NewVideoWorker creates a new video worker
func NewVideoWorker(deps VideoWorkerDeps, cfg VideoWorkerConfig) (*VideoWorker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid video worker config: %w", err)
	}
	if deps.Jobs == nil || deps.Guard == nil || deps.Outputs == nil || deps.Generator == nil {
		return nil, fmt.Errorf("video worker requires jobs, guard, outputs and generator")
	}

	if cfg.DequeueInterval <= 0 {
		cfg.DequeueInterval = time.Second
	}

	policy := retry.DefaultConfig()
	if cfg.Retry != nil {
		copied := *cfg.Retry
		policy = &copied
	}
	policy.Retryable = retryablePoll

	return &VideoWorker{
		deps:          deps,
		cfg:           cfg,
		retry:         policy,
		workerSem:     make(chan struct{}, cfg.Workers),
		progressTrack: make(map[string]*JobProgress),
		now:           time.Now,
	}, nil
}

// retryablePoll reports whether a poll failure may clear up on its own
func retryablePoll(err error) bool {
	switch {
	case stderrors.Is(err, adapter.ErrOperationNotFound),
		stderrors.Is(err, adapter.ErrMissingAPIKey),
		stderrors.Is(err, context.Canceled),
		stderrors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}

// Start begins draining the queue. Jobs run on a context derived from ctx.
func (w *VideoWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("video worker already started")
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true

	w.wg.Add(1)
	go w.processJobs(runCtx)

	logging.FromContext(ctx).WithFields(map[string]interface{}{
		"workers":      w.cfg.Workers,
		"pollInterval": w.cfg.PollInterval.String(),
		"timeout":      w.cfg.Timeout.String(),
	}).Info("Video worker started")
	return nil
}

// Stop cancels in-flight jobs and waits for them to hand back their state
func (w *VideoWorker) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return fmt.Errorf("video worker already stopped")
	}
	w.cancel()
	w.running = false
	w.mu.Unlock()

	w.wg.Wait()
	return nil
}

// processJobs is the main worker loop
func (w *VideoWorker) processJobs(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.cfg.DequeueInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processNextJobs(ctx)
			w.CleanupProgress(w.now().Add(-progressRetention))
		}
	}
}

// processNextJobs starts as many queued jobs as there are free workers
func (w *VideoWorker) processNextJobs(ctx context.Context) {
	for {
		select {
		case w.workerSem <- struct{}{}:
		default:
			return // all workers busy
		}

		id, ok, err := w.deps.Jobs.Dequeue(ctx)
		if err != nil || !ok {
			<-w.workerSem
			if err != nil && ctx.Err() == nil {
				logging.FromContext(ctx).WithError(err).Warn("Failed to dequeue video job")
			}
			return
		}

		w.wg.Add(1)
		go func(id string) {
			defer w.wg.Done()
			defer func() { <-w.workerSem }()

			if err := w.Process(ctx, id); err != nil {
				logging.FromContext(ctx).WithError(err).WithField("jobId", id).Error("Video job failed to process")
			}
		}(id)
	}
}

// Process renders one job to completion. It returns an error only when the
// job could not be read; render failures are recorded on the job itself.
func (w *VideoWorker) Process(ctx context.Context, id string) error {
	logger := logging.FromContext(ctx).WithField("jobId", id)

	job, err := w.deps.Jobs.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			logger.Warn("Video job expired before processing")
			return nil
		}
		if ctx.Err() != nil {
			if err := w.deps.Jobs.Enqueue(context.WithoutCancel(ctx), id); err != nil {
				logger.WithError(err).Error("Failed to requeue video job")
			}
		}
		return fmt.Errorf("failed to load video job: %w", err)
	}
	if job.Status.Terminal() {
		return nil
	}

	started := w.now()
	job.Status = types.VideoStatusRunning
	job.UpdatedAt = started.UTC()
	w.track(job, false)

	if err := w.deps.Jobs.Save(ctx, job); err != nil {
		w.finish(ctx, job, started, "", fmt.Errorf("failed to mark job running: %w", err))
		return nil
	}

	w.holdGuard(ctx, job)
	logger.WithField("userId", job.UserID).Info("Rendering video")

	renderCtx, cancel := context.WithTimeout(ctx, w.cfg.Timeout)
	defer cancel()

	uri, err := w.render(renderCtx, job)
	if err != nil && ctx.Err() != nil {
		w.handBack(ctx, job)
		return nil
	}
	if err != nil && stderrors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("video generation timed out after %s: %w", w.cfg.Timeout, err)
	}

	w.finish(ctx, job, started, uri, err)
	return nil
}

// render starts the provider operation, unless an earlier run already did,
// and polls it until it finishes
func (w *VideoWorker) render(ctx context.Context, job *models.VideoJob) (string, error) {
	if job.Operation == "" {
		operation, err := w.deps.Generator.StartVideo(ctx, job.Prompt)
		if err != nil {
			return "", err
		}
		job.Operation = operation
		job.UpdatedAt = w.now().UTC()
		if err := w.deps.Jobs.Save(ctx, job); err != nil {
			return "", fmt.Errorf("failed to save video operation: %w", err)
		}
	}

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}

		var status *adapter.VideoStatus
		err := retry.Do(ctx, w.retry, func(ctx context.Context, attempt int) error {
			s, err := w.deps.Generator.PollVideo(ctx, job.Operation)
			if err != nil {
				return err
			}
			status = s
			return nil
		})
		if err != nil {
			return "", err
		}
		w.track(job, true)

		if !status.Done {
			continue
		}
		if status.Error != "" {
			return "", fmt.Errorf("video operation failed: %s", status.Error)
		}
		if status.URI == "" {
			return "", adapter.ErrNoVideo
		}
		return status.URI, nil
	}
}

// finish records the outcome, publishes the video and frees the panel
func (w *VideoWorker) finish(ctx context.Context, job *models.VideoJob, started time.Time, uri string, renderErr error) {
	bg := context.WithoutCancel(ctx)
	logger := logging.FromContext(ctx).WithFields(map[string]interface{}{
		"jobId":  job.ID,
		"userId": job.UserID,
	})
	elapsed := w.now().Sub(started)

	if renderErr == nil {
		job.Status = types.VideoStatusCompleted
		job.VideoURI = uri
		job.Error = ""
	} else {
		job.Status = types.VideoStatusFailed
		job.Error = renderErr.Error()
	}
	job.UpdatedAt = w.now().UTC()

	if err := w.deps.Jobs.Save(bg, job); err != nil {
		logger.WithError(err).Error("Failed to save finished video job")
	}

	if renderErr == nil {
		artifact := &models.Artifact{
			ID:        job.ID,
			Tool:      types.ToolMotionAds,
			Kind:      types.KindVideo,
			Content:   uri,
			Prompt:    job.Prompt,
			CreatedAt: job.UpdatedAt,
		}
		if err := w.deps.Outputs.SetCurrent(bg, job.UserID, artifact); err != nil {
			logger.WithError(err).Error("Failed to publish video output")
		}
	}

	w.releaseGuard(bg, job)
	w.track(job, false)
	w.observe(bg, job, elapsed, renderErr)

	if renderErr != nil {
		logger.WithError(renderErr).WithField("durationMs", elapsed.Milliseconds()).Warn("Video job failed")
		return
	}
	logger.WithField("durationMs", elapsed.Milliseconds()).Info("Video job completed")
}

// handBack returns an interrupted job to the queue. The operation name is
// kept so the next worker resumes polling instead of starting over.
func (w *VideoWorker) handBack(ctx context.Context, job *models.VideoJob) {
	bg := context.WithoutCancel(ctx)
	logger := logging.FromContext(ctx).WithField("jobId", job.ID)

	job.Status = types.VideoStatusQueued
	job.UpdatedAt = w.now().UTC()
	if err := w.deps.Jobs.Save(bg, job); err != nil {
		logger.WithError(err).Error("Failed to save interrupted video job")
		return
	}
	if err := w.deps.Jobs.Enqueue(bg, job.ID); err != nil {
		logger.WithError(err).Error("Failed to requeue interrupted video job")
		return
	}
	w.track(job, false)
	logger.Info("Video job requeued on shutdown")
}

// holdGuard restarts the Motion Ads lease for the render, since the job may
// have waited in the queue for most of the TTL it was submitted with
func (w *VideoWorker) holdGuard(ctx context.Context, job *models.VideoJob) {
	if job.GuardToken == "" {
		return
	}
	lease := w.deps.Guard.LeaseFor(job.UserID, types.ToolMotionAds, job.GuardToken)
	ok, err := w.deps.Guard.Extend(ctx, lease, w.cfg.Timeout+guardGrace)
	if err != nil {
		logging.FromContext(ctx).WithError(err).WithField("jobId", job.ID).Warn("Failed to extend panel guard")
		return
	}
	if !ok {
		logging.FromContext(ctx).WithField("jobId", job.ID).Warn("Panel guard expired while the job was queued")
	}
}

func (w *VideoWorker) releaseGuard(ctx context.Context, job *models.VideoJob) {
	if job.GuardToken == "" {
		return
	}
	lease := w.deps.Guard.LeaseFor(job.UserID, types.ToolMotionAds, job.GuardToken)
	if err := w.deps.Guard.Release(ctx, lease); err != nil {
		logging.FromContext(ctx).WithError(err).WithField("jobId", job.ID).Warn("Failed to release Motion Ads panel")
	}
}

func (w *VideoWorker) observe(ctx context.Context, job *models.VideoJob, elapsed time.Duration, renderErr error) {
	if w.deps.Monitor != nil {
		w.deps.Monitor.Record(types.ToolMotionAds, elapsed, renderErr == nil)
	}
	if w.deps.Events == nil {
		return
	}

	event := &models.GenerationEvent{
		EventID:    job.ID,
		UserID:     job.UserID,
		Tool:       types.ToolMotionAds,
		Action:     "generate_video",
		Success:    renderErr == nil,
		DurationMs: elapsed.Milliseconds(),
		CreatedAt:  w.now().UTC(),
	}
	if renderErr != nil {
		event.Error = failureCode(renderErr)
	}

	writeCtx, cancel := context.WithTimeout(ctx, eventWriteTimeout)
	defer cancel()
	if err := w.deps.Events.Record(writeCtx, event); err != nil {
		logging.FromContext(ctx).WithError(err).Warn("Failed to record generation event")
	}
}

// failureCode is the usage-log code for a failed render
func failureCode(err error) string {
	if stderrors.Is(err, adapter.ErrProviderUnavailable) || stderrors.Is(err, adapter.ErrMissingAPIKey) {
		return errors.CodeProviderUnavailable
	}
	return errors.CodeGenerationFailed
}

func (w *VideoWorker) track(job *models.VideoJob, polled bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.progressTrack[job.ID]
	if !ok {
		p = &JobProgress{JobID: job.ID, UserID: job.UserID, StartedAt: w.now()}
		w.progressTrack[job.ID] = p
	}
	p.Status = job.Status
	p.LastUpdated = w.now()
	if polled {
		p.Polls++
	}
}

// GetProgress returns the progress of a job this worker has handled
func (w *VideoWorker) GetProgress(jobID string) (*JobProgress, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.progressTrack[jobID]
	if !ok {
		return nil, false
	}
	copied := *p
	return &copied, true
}

// ActiveJobs returns the number of jobs currently being rendered
func (w *VideoWorker) ActiveJobs() int {
	return len(w.workerSem)
}

// CleanupProgress drops progress entries for jobs that finished before cutoff
func (w *VideoWorker) CleanupProgress(cutoff time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	removed := 0
	for id, p := range w.progressTrack {
		if p.Status.Terminal() && p.LastUpdated.Before(cutoff) {
			delete(w.progressTrack, id)
			removed++
		}
	}
	return removed
}
