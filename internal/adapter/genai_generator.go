package adapter

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/creative-studio/internal/config"
	"github.com/creative-studio/internal/logging"
)

const (
	defaultImageMIME = "image/png"
	apiKeyHeader     = "x-goog-api-key"

	videoCount       = 1
	videoResolution  = "720p"
	videoAspectRatio = "16:9"
)

// GenAIGenerator implements Generator on the Gemini API
type GenAIGenerator struct {
	client      *genai.Client
	apiKey      string
	textModel   string
	imageModel  string
	videoModel  string
	temperature float32
	httpClient  *http.Client
}

// NewGenAIGenerator creates a Gemini-backed generator. It fails with
// ErrMissingAPIKey when cfg carries no key.
func NewGenAIGenerator(ctx context.Context, cfg config.GenAIConfig) (*GenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIGenerator{
		client:      client,
		apiKey:      cfg.APIKey,
		textModel:   cfg.TextModel,
		imageModel:  cfg.ImageModel,
		videoModel:  cfg.VideoModel,
		temperature: float32(cfg.Temperature),
		httpClient:  &http.Client{Timeout: 5 * time.Minute},
	}, nil
}

// GenerateText implements Generator
func (g *GenAIGenerator) GenerateText(ctx context.Context, prompt, model string) (string, error) {
	if model == "" {
		model = g.textModel
	}

	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	})
	if err != nil {
		return "", &AdapterError{Op: "generate text", Model: model, Err: err}
	}

	text := resp.Text()
	if text == "" {
		logging.FromContext(ctx).WithField("model", model).Warn("Text model returned an empty reply")
		return NoResponseText, nil
	}
	return text, nil
}

// GenerateImage implements Generator. The aspect ratio travels in the prompt text.
func (g *GenAIGenerator) GenerateImage(ctx context.Context, prompt, aspectRatio string) (string, error) {
	if aspectRatio != "" && !strings.Contains(prompt, aspectRatio) {
		prompt = fmt.Sprintf("%s\nAspect ratio: %s.", prompt, aspectRatio)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.imageModel, genai.Text(prompt), nil)
	if err != nil {
		return "", &AdapterError{Op: "generate image", Model: g.imageModel, Err: err}
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			return DataURL(part.InlineData.MIMEType, part.InlineData.Data), nil
		}
	}
	return "", &AdapterError{Op: "generate image", Model: g.imageModel, Err: ErrNoImage}
}

// StartVideo implements Generator
func (g *GenAIGenerator) StartVideo(ctx context.Context, prompt string) (string, error) {
	op, err := g.client.Models.GenerateVideos(ctx, g.videoModel, prompt, nil, &genai.GenerateVideosConfig{
		NumberOfVideos: videoCount,
		Resolution:     videoResolution,
		AspectRatio:    videoAspectRatio,
	})
	if err != nil {
		return "", &AdapterError{Op: "start video", Model: g.videoModel, Err: err}
	}
	if op == nil || op.Name == "" {
		return "", &AdapterError{Op: "start video", Model: g.videoModel, Err: ErrOperationNotFound}
	}
	return op.Name, nil
}

// PollVideo implements Generator
func (g *GenAIGenerator) PollVideo(ctx context.Context, operation string) (*VideoStatus, error) {
	op, err := g.client.Operations.GetVideosOperation(ctx, &genai.GenerateVideosOperation{Name: operation}, nil)
	if err != nil {
		return nil, &AdapterError{Op: "poll video", Err: err}
	}

	status := &VideoStatus{Done: op.Done}
	if !op.Done {
		return status, nil
	}
	if len(op.Error) > 0 {
		status.Error = fmt.Sprintf("%v", op.Error["message"])
		return status, nil
	}
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 ||
		op.Response.GeneratedVideos[0].Video == nil || op.Response.GeneratedVideos[0].Video.URI == "" {
		status.Error = ErrNoVideo.Error()
		return status, nil
	}
	status.URI = op.Response.GeneratedVideos[0].Video.URI
	return status, nil
}

// DownloadVideo implements Generator. The API key is sent as a header and
// never appended to the URI.
func (g *GenAIGenerator) DownloadVideo(ctx context.Context, uri string) (*VideoContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, &AdapterError{Op: "download video", Err: err}
	}
	req.Header.Set(apiKeyHeader, g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, &AdapterError{Op: "download video", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &AdapterError{Op: "download video", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "video/mp4"
	}
	return &VideoContent{Body: resp.Body, ContentType: contentType, ContentLength: resp.ContentLength}, nil
}

// DataURL encodes raw image bytes as a base64 data URL
func DataURL(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = defaultImageMIME
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
