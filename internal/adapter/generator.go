// Package adapter talks to the generative content service.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Generator is the generative content service as the studio sees it
type Generator interface {
	// GenerateText returns the model's reply. An empty model selects the default text model.
	GenerateText(ctx context.Context, prompt, model string) (string, error)

	// GenerateImage returns a data:<mime>;base64,... URL for the first image in the reply
	GenerateImage(ctx context.Context, prompt, aspectRatio string) (string, error)

	// StartVideo starts a long-running video operation and returns its name
	StartVideo(ctx context.Context, prompt string) (string, error)

	// PollVideo reports the state of a video operation
	PollVideo(ctx context.Context, operation string) (*VideoStatus, error)

	// DownloadVideo streams the bytes behind a finished video URI
	DownloadVideo(ctx context.Context, uri string) (*VideoContent, error)
}

// VideoStatus is one observation of a video operation
type VideoStatus struct {
	Done  bool
	URI   string
	Error string
}

// VideoContent is a downloadable video stream; the caller closes Body
type VideoContent struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// NoResponseText is returned when the text model replies with nothing
const NoResponseText = "No response generated."

var (
	// ErrMissingAPIKey indicates the client was built without credentials
	ErrMissingAPIKey = errors.New("generative API key is not configured")

	// ErrProviderUnavailable indicates the provider is not accepting calls
	ErrProviderUnavailable = errors.New("generative provider unavailable")

	// ErrNoImage indicates the image reply held no inline image data
	ErrNoImage = errors.New("no image generated")

	// ErrNoVideo indicates a finished operation without a video
	ErrNoVideo = errors.New("video generation failed or returned no URI")

	// ErrOperationNotFound indicates the provider does not know the operation
	ErrOperationNotFound = errors.New("video operation not found")
)

// AdapterError wraps provider errors with the failing operation
type AdapterError struct {
	Op    string
	Model string
	Err   error
}

// Error implements the error interface
func (e *AdapterError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("genai %s (%s): %v", e.Op, e.Model, e.Err)
	}
	return fmt.Sprintf("genai %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *AdapterError) Unwrap() error {
	return e.Err
}

// Unavailable is a Generator for deployments without credentials. Every
// call fails with ErrProviderUnavailable.
type Unavailable struct{}

func (Unavailable) GenerateText(context.Context, string, string) (string, error) {
	return "", ErrProviderUnavailable
}

func (Unavailable) GenerateImage(context.Context, string, string) (string, error) {
	return "", ErrProviderUnavailable
}

func (Unavailable) StartVideo(context.Context, string) (string, error) {
	return "", ErrProviderUnavailable
}

func (Unavailable) PollVideo(context.Context, string) (*VideoStatus, error) {
	return nil, ErrProviderUnavailable
}

func (Unavailable) DownloadVideo(context.Context, string) (*VideoContent, error) {
	return nil, ErrProviderUnavailable
}
