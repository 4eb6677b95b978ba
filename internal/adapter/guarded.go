package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/creative-studio/internal/circuitbreaker"
	"github.com/creative-studio/internal/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Spans go to whatever provider is registered with otel.SetTracerProvider
var tracer = otel.Tracer("github.com/creative-studio/internal/adapter")

const (
	capabilityText  = "text"
	capabilityImage = "image"
	capabilityVideo = "video"
)

// GuardedGenerator puts a circuit breaker per capability in front of a Generator
type GuardedGenerator struct {
	next     Generator
	breakers *circuitbreaker.Set
}

// NewGuardedGenerator wraps next. A nil cfg uses circuitbreaker.DefaultConfig("genai").
func NewGuardedGenerator(next Generator, cfg *circuitbreaker.Config) *GuardedGenerator {
	if cfg == nil {
		cfg = circuitbreaker.DefaultConfig("genai")
	}
	tmpl := *cfg
	if tmpl.IsFailure == nil {
		tmpl.IsFailure = countsAgainstProvider
	}
	return &GuardedGenerator{next: next, breakers: circuitbreaker.NewSet(&tmpl)}
}

// Stats returns breaker statistics keyed by capability
func (g *GuardedGenerator) Stats() map[string]*circuitbreaker.Stats {
	return g.breakers.Stats()
}

func (g *GuardedGenerator) call(ctx context.Context, capability, op string, fn func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, "genai."+capability, trace.WithAttributes(
		attribute.String("gen_ai.capability", capability),
		attribute.String("gen_ai.operation.name", op),
	))
	defer span.End()

	start := time.Now()
	err := g.breakers.Get(capability).Execute(ctx, fn)

	if errors.Is(err, circuitbreaker.ErrCircuitOpen) || errors.Is(err, circuitbreaker.ErrTooManyRequests) {
		span.SetAttributes(attribute.Bool("gen_ai.breaker_open", true))
		span.SetStatus(codes.Error, "provider unavailable")
		return fmt.Errorf("%s: %w: %v", op, ErrProviderUnavailable, err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logging.FromContext(ctx).WithFields(map[string]interface{}{
			"capability": capability,
			"operation":  op,
			"duration":   time.Since(start).String(),
		}).WithError(err).Warn("Generative call failed")
	}
	return err
}

// GenerateText implements Generator
func (g *GuardedGenerator) GenerateText(ctx context.Context, prompt, model string) (string, error) {
	var out string
	err := g.call(ctx, capabilityText, "generate text", func(ctx context.Context) error {
		var err error
		out, err = g.next.GenerateText(ctx, prompt, model)
		return err
	})
	return out, err
}

// GenerateImage implements Generator
func (g *GuardedGenerator) GenerateImage(ctx context.Context, prompt, aspectRatio string) (string, error) {
	var out string
	err := g.call(ctx, capabilityImage, "generate image", func(ctx context.Context) error {
		var err error
		out, err = g.next.GenerateImage(ctx, prompt, aspectRatio)
		return err
	})
	return out, err
}

// StartVideo implements Generator
func (g *GuardedGenerator) StartVideo(ctx context.Context, prompt string) (string, error) {
	var out string
	err := g.call(ctx, capabilityVideo, "start video", func(ctx context.Context) error {
		var err error
		out, err = g.next.StartVideo(ctx, prompt)
		return err
	})
	return out, err
}

// PollVideo implements Generator
func (g *GuardedGenerator) PollVideo(ctx context.Context, operation string) (*VideoStatus, error) {
	var out *VideoStatus
	err := g.call(ctx, capabilityVideo, "poll video", func(ctx context.Context) error {
		var err error
		out, err = g.next.PollVideo(ctx, operation)
		return err
	})
	return out, err
}

// DownloadVideo implements Generator. Downloads bypass the breaker: a
// finished video is fetched from storage, not the model endpoint.
func (g *GuardedGenerator) DownloadVideo(ctx context.Context, uri string) (*VideoContent, error) {
	return g.next.DownloadVideo(ctx, uri)
}

// countsAgainstProvider skips replies that were well-formed but unusable
func countsAgainstProvider(err error) bool {
	return !errors.Is(err, ErrNoImage) && !errors.Is(err, ErrProviderUnavailable)
}
