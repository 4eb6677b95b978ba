package adapter

import (
	"context"
	"io"
	"strings"
	"sync"
)

// FakeGenerator is an in-memory Generator for tests and local runs. Zero
// value replies with canned content; set the Func fields to script it.
type FakeGenerator struct {
	TextFunc     func(ctx context.Context, prompt, model string) (string, error)
	ImageFunc    func(ctx context.Context, prompt, aspectRatio string) (string, error)
	StartFunc    func(ctx context.Context, prompt string) (string, error)
	PollFunc     func(ctx context.Context, operation string) (*VideoStatus, error)
	DownloadFunc func(ctx context.Context, uri string) (*VideoContent, error)

	mu    sync.Mutex
	calls []FakeCall
}

// FakeCall records one call made to a FakeGenerator
type FakeCall struct {
	Method string
	Prompt string
	Arg    string
}

func (f *FakeGenerator) record(method, prompt, arg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, FakeCall{Method: method, Prompt: prompt, Arg: arg})
}

// Calls returns the calls made so far
func (f *FakeGenerator) Calls() []FakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]FakeCall, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsTo returns the calls made to method
func (f *FakeGenerator) CallsTo(method string) []FakeCall {
	var out []FakeCall
	for _, c := range f.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// GenerateText implements Generator
func (f *FakeGenerator) GenerateText(ctx context.Context, prompt, model string) (string, error) {
	f.record("GenerateText", prompt, model)
	if f.TextFunc != nil {
		return f.TextFunc(ctx, prompt, model)
	}
	return "generated text", nil
}

// GenerateImage implements Generator
func (f *FakeGenerator) GenerateImage(ctx context.Context, prompt, aspectRatio string) (string, error) {
	f.record("GenerateImage", prompt, aspectRatio)
	if f.ImageFunc != nil {
		return f.ImageFunc(ctx, prompt, aspectRatio)
	}
	return DataURL("image/png", []byte("png")), nil
}

// StartVideo implements Generator
func (f *FakeGenerator) StartVideo(ctx context.Context, prompt string) (string, error) {
	f.record("StartVideo", prompt, "")
	if f.StartFunc != nil {
		return f.StartFunc(ctx, prompt)
	}
	return "operations/fake", nil
}

// PollVideo implements Generator
func (f *FakeGenerator) PollVideo(ctx context.Context, operation string) (*VideoStatus, error) {
	f.record("PollVideo", "", operation)
	if f.PollFunc != nil {
		return f.PollFunc(ctx, operation)
	}
	return &VideoStatus{Done: true, URI: "https://example.invalid/video.mp4"}, nil
}

// DownloadVideo implements Generator
func (f *FakeGenerator) DownloadVideo(ctx context.Context, uri string) (*VideoContent, error) {
	f.record("DownloadVideo", "", uri)
	if f.DownloadFunc != nil {
		return f.DownloadFunc(ctx, uri)
	}
	body := "video-bytes"
	return &VideoContent{
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentType:   "video/mp4",
		ContentLength: int64(len(body)),
	}, nil
}
