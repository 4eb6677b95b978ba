package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/creative-studio/internal/adapter"
	"github.com/creative-studio/internal/logging"
)

// DefaultMaxWait is the default time to wait for budget.
const DefaultMaxWait = 30 * time.Second

// ErrMaxWaitExceeded is returned when budget does not free up within MaxWait.
var ErrMaxWaitExceeded = errors.New("maximum wait time exceeded waiting for generation budget")

// BudgetedGenerator wraps a Generator so every call spends budget first.
// Calls that cannot get budget in time fail as provider unavailable.
type BudgetedGenerator struct {
	underlying   adapter.Generator
	tracker      *BudgetTracker
	costRegistry *CostRegistry
	priority     Priority
	maxWait      time.Duration
}

// BudgetedGeneratorConfig holds configuration for the budgeted generator.
type BudgetedGeneratorConfig struct {
	// Generator is the generator to wrap. Required.
	Generator adapter.Generator

	// Tracker is the shared budget. Required.
	Tracker *BudgetTracker

	// CostRegistry prices each method. Required.
	CostRegistry *CostRegistry

	// Priority is PriorityHigh for API servers and PriorityLow for the video worker.
	Priority Priority

	// MaxWait bounds the wait for budget. Default: 30s.
	MaxWait time.Duration
}

// Validate checks if the configuration is valid.
func (c *BudgetedGeneratorConfig) Validate() error {
	if c.Generator == nil {
		return errors.New("underlying generator is required")
	}
	if c.Tracker == nil {
		return errors.New("budget tracker is required")
	}
	if c.CostRegistry == nil {
		return errors.New("cost registry is required")
	}
	return nil
}

// NewBudgetedGenerator creates a budgeted generator.
func NewBudgetedGenerator(cfg *BudgetedGeneratorConfig) (*BudgetedGenerator, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	maxWait := cfg.MaxWait
	if maxWait == 0 {
		maxWait = DefaultMaxWait
	}

	return &BudgetedGenerator{
		underlying:   cfg.Generator,
		tracker:      cfg.Tracker,
		costRegistry: cfg.CostRegistry,
		priority:     cfg.Priority,
		maxWait:      maxWait,
	}, nil
}

// waitForBudget blocks until method's cost is spent, ctx ends or maxWait passes.
func (g *BudgetedGenerator) waitForBudget(ctx context.Context, method string) error {
	units := g.costRegistry.GetCost(method)
	if units <= 0 {
		return nil
	}

	logger := logging.FromContext(ctx).WithFields(map[string]interface{}{
		"method":   method,
		"priority": g.priority.String(),
		"units":    units,
	})
	start := time.Now()
	deadline := start.Add(g.maxWait)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		allowed, wait := g.tracker.TryConsume(ctx, units, g.priority)
		if allowed {
			if err := g.tracker.RecordMethodUsage(ctx, method, units); err != nil {
				logger.WithError(err).Debug("Failed to record method budget usage")
			}
			return nil
		}

		if time.Now().Add(wait).After(deadline) {
			logger.WithField("waited", time.Since(start).String()).Warn("Generation budget exhausted")
			return fmt.Errorf("%w: %w", adapter.ErrProviderUnavailable, ErrMaxWaitExceeded)
		}

		logger.WithField("wait", wait.String()).Info("Waiting for generation budget")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// GenerateText implements adapter.Generator
func (g *BudgetedGenerator) GenerateText(ctx context.Context, prompt, model string) (string, error) {
	if err := g.waitForBudget(ctx, MethodGenerateText); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}
	return g.underlying.GenerateText(ctx, prompt, model)
}

// GenerateImage implements adapter.Generator
func (g *BudgetedGenerator) GenerateImage(ctx context.Context, prompt, aspectRatio string) (string, error) {
	if err := g.waitForBudget(ctx, MethodGenerateImage); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}
	return g.underlying.GenerateImage(ctx, prompt, aspectRatio)
}

// StartVideo implements adapter.Generator
func (g *BudgetedGenerator) StartVideo(ctx context.Context, prompt string) (string, error) {
	if err := g.waitForBudget(ctx, MethodStartVideo); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}
	return g.underlying.StartVideo(ctx, prompt)
}

// PollVideo implements adapter.Generator
func (g *BudgetedGenerator) PollVideo(ctx context.Context, operation string) (*adapter.VideoStatus, error) {
	if err := g.waitForBudget(ctx, MethodPollVideo); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	return g.underlying.PollVideo(ctx, operation)
}

// DownloadVideo implements adapter.Generator
func (g *BudgetedGenerator) DownloadVideo(ctx context.Context, uri string) (*adapter.VideoContent, error) {
	if err := g.waitForBudget(ctx, MethodDownloadVideo); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	return g.underlying.DownloadVideo(ctx, uri)
}

// GetPriority returns the priority level of this generator.
func (g *BudgetedGenerator) GetPriority() Priority {
	return g.priority
}

// Underlying returns the wrapped generator.
func (g *BudgetedGenerator) Underlying() adapter.Generator {
	return g.underlying
}
