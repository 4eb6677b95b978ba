// Package service implements the tool panels on top of the generator and the panel stores.
package service

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/creative-studio/internal/adapter"
	"github.com/creative-studio/internal/errors"
	"github.com/creative-studio/internal/logging"
	"github.com/creative-studio/internal/models"
	"github.com/creative-studio/internal/storage"
	"github.com/creative-studio/internal/types"
)

// providerName labels provider errors and events
const providerName = "genai"

const eventWriteTimeout = 5 * time.Second

// leaseGrace keeps a panel guard alive past its generation deadline long
// enough to store the result
const leaseGrace = 30 * time.Second

// Studio holds the state every panel shares and runs generations for them
type Studio struct {
	users     UserRepository
	guard     PanelGuard
	outputs   OutputStore
	history   HistoryStore
	events    EventRecorder
	generator adapter.Generator
	monitor   *GenerationMonitor
	guardTTL  time.Duration
	now       func() time.Time
}

// StudioDeps lists Studio's collaborators. Events may be nil.
type StudioDeps struct {
	Users     UserRepository
	Guard     PanelGuard
	Outputs   OutputStore
	History   HistoryStore
	Events    EventRecorder
	Generator adapter.Generator
	Monitor   *GenerationMonitor
	GuardTTL  time.Duration
}

// NewStudio creates the shared studio
func NewStudio(deps StudioDeps) *Studio {
	monitor := deps.Monitor
	if monitor == nil {
		monitor = NewGenerationMonitor()
	}
	ttl := deps.GuardTTL
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &Studio{
		users:     deps.Users,
		guard:     deps.Guard,
		outputs:   deps.Outputs,
		history:   deps.History,
		events:    deps.Events,
		generator: deps.Generator,
		monitor:   monitor,
		guardTTL:  ttl,
		now:       time.Now,
	}
}

// Monitor returns the generation monitor
func (s *Studio) Monitor() *GenerationMonitor {
	return s.monitor
}

// action is one guarded generation for a panel
type action struct {
	userID  string
	tool    types.ToolID
	name    string
	produce func(ctx context.Context) (*models.Artifact, error)
}

// run executes a under the panel guard and stores the artifact it produces.
// A failed generation leaves the panel's output and history untouched.
func (s *Studio) run(ctx context.Context, a action) (*models.Artifact, error) {
	logger := logging.FromContext(ctx).WithFields(map[string]interface{}{
		"userId": a.userID,
		"tool":   a.tool,
		"action": a.name,
	})

	if err := s.ensureUser(ctx, a.userID); err != nil {
		return nil, err
	}

	lease, err := s.acquire(ctx, a.userID, a.tool, s.guardTTL+leaseGrace)
	if err != nil {
		return nil, err
	}
	defer s.release(ctx, lease)

	// The generation may not outlive the guard
	produceCtx, cancel := context.WithTimeout(ctx, s.guardTTL)
	start := s.now()
	artifact, err := a.produce(produceCtx)
	elapsed := s.now().Sub(start)
	cancel()
	if err != nil {
		catErr := generationError(a.tool, err)
		logger.WithError(err).WithField("code", catErr.Code).Warn("Generation failed")
		s.observe(ctx, a.userID, a.tool, a.name, elapsed, catErr)
		return nil, catErr
	}

	artifact.ID = uuid.New().String()
	artifact.Tool = a.tool
	artifact.CreatedAt = s.now().UTC()

	if err := s.outputs.SetCurrent(ctx, a.userID, artifact); err != nil {
		return nil, errors.NewCacheError("store current output", err)
	}
	if types.KeepsHistory(a.tool) {
		if err := s.history.Prepend(ctx, a.userID, artifact); err != nil {
			return nil, errors.NewCacheError("prepend history", err)
		}
	}

	s.observe(ctx, a.userID, a.tool, a.name, elapsed, nil)
	logger.WithField("durationMs", elapsed.Milliseconds()).Info("Generation completed")
	return artifact, nil
}

// assist runs an unguarded helper generation such as prompt enhancement.
// Failures are logged and answered with fallback.
func (s *Studio) assist(ctx context.Context, userID string, tool types.ToolID, name string, fallback string, fn func(ctx context.Context) (string, error)) (string, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return "", err
	}

	start := s.now()
	out, err := fn(ctx)
	elapsed := s.now().Sub(start)
	if err != nil {
		logging.FromContext(ctx).WithError(err).WithFields(map[string]interface{}{
			"userId": userID,
			"tool":   tool,
			"action": name,
		}).Warn("Assist generation failed, using fallback")
		s.observe(ctx, userID, tool, name, elapsed, generationError(tool, err))
		return fallback, nil
	}

	s.observe(ctx, userID, tool, name, elapsed, nil)
	return out, nil
}

func (s *Studio) ensureUser(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.NewRequiredFieldError("userId")
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return errors.NewUserNotFoundError(userID)
		}
		return errors.NewDatabaseError("get user", err)
	}
	return nil
}

func (s *Studio) acquire(ctx context.Context, userID string, tool types.ToolID, ttl time.Duration) (*storage.Lease, error) {
	lease, ok, err := s.guard.Acquire(ctx, userID, tool, ttl)
	if err != nil {
		return nil, errors.NewCacheError("acquire panel guard", err)
	}
	if !ok {
		return nil, errors.NewPanelBusyError(tool)
	}
	return lease, nil
}

// release frees the guard even when ctx is already cancelled
func (s *Studio) release(ctx context.Context, lease *storage.Lease) {
	if err := s.guard.Release(context.WithoutCancel(ctx), lease); err != nil {
		logging.FromContext(ctx).WithError(err).Warn("Failed to release panel guard")
	}
}

// observe feeds the monitor and, when configured, the usage log
func (s *Studio) observe(ctx context.Context, userID string, tool types.ToolID, name string, elapsed time.Duration, failure *errors.CategorizedError) {
	s.monitor.Record(tool, elapsed, failure == nil)

	if s.events == nil {
		return
	}

	event := &models.GenerationEvent{
		EventID:    uuid.New().String(),
		UserID:     userID,
		Tool:       tool,
		Action:     name,
		Success:    failure == nil,
		DurationMs: elapsed.Milliseconds(),
		CreatedAt:  s.now().UTC(),
	}
	if failure != nil {
		event.Error = failure.Code
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventWriteTimeout)
	defer cancel()
	if err := s.events.Record(writeCtx, event); err != nil {
		logging.FromContext(ctx).WithError(err).Warn("Failed to record generation event")
	}
}

// generationError maps a failed generation onto the API error surface
func generationError(tool types.ToolID, err error) *errors.CategorizedError {
	var catErr *errors.CategorizedError
	if stderrors.As(err, &catErr) {
		return catErr
	}
	if stderrors.Is(err, adapter.ErrProviderUnavailable) || stderrors.Is(err, adapter.ErrMissingAPIKey) {
		return errors.NewProviderUnavailableError(providerName, err)
	}
	return errors.NewGenerationError(tool, err)
}

// parallel runs fns concurrently. The first failure cancels the rest.
func parallel(ctx context.Context, fns ...func(ctx context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, fn := range fns {
		g.Go(func() error { return fn(gctx) })
	}
	return g.Wait()
}

// orDefault returns value, or def when value is blank
func orDefault(value, def string) string {
	if isBlank(value) {
		return def
	}
	return value
}
