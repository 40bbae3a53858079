package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/snapnote/internal/domain"
	"github.com/kailas-cloud/snapnote/internal/metrics"
)

// DefaultOCRPrompt asks a vision model for a plain transcription.
const DefaultOCRPrompt = `Transcribe all text visible in this image exactly as written.
Keep line breaks. Reply with the text only, no commentary. If there is no text, reply with nothing.`

// VisionOCR extracts text from images with a multimodal chat model.
type VisionOCR struct {
	client    *openai.Client
	apiKey    string
	model     string
	prompt    string
	maxTokens int
	provider  string
	logger    *zap.Logger
}

// NewVisionOCR creates a vision-model text extractor.
func NewVisionOCR(cfg *Config) *VisionOCR {
	prompt := cfg.Prompt
	if prompt == "" {
		prompt = DefaultOCRPrompt
	}
	return &VisionOCR{
		client:    newClient(cfg),
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		prompt:    prompt,
		maxTokens: cfg.MaxTokens,
		provider:  cfg.Provider,
		logger:    loggerOrNop(cfg.Logger),
	}
}

// ExtractText implements domain.TextExtractor.
func (v *VisionOCR) ExtractText(ctx context.Context, image []byte) (string, error) {
	if v.apiKey == "" {
		metrics.ObserveUpstream(metrics.StageOCR, v.provider, 0, "config_missing")
		return "", domain.NewMissingConfig(v.provider + " api_key")
	}

	req := openai.ChatCompletionRequest{
		Model: v.model,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: v.prompt},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    dataURL(image),
						Detail: openai.ImageURLDetailHigh,
					},
				},
			},
		}},
		MaxTokens: v.maxTokens,
	}

	start := time.Now()
	resp, err := v.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.ObserveUpstream(metrics.StageOCR, v.provider, duration, errorType(err))
		return "", parseAPIError("ocr", err, domain.ErrOCRProvider)
	}
	if len(resp.Choices) == 0 {
		metrics.ObserveUpstream(metrics.StageOCR, v.provider, duration, "empty_response")
		return "", fmt.Errorf("empty completion response: %w", domain.ErrOCRProvider)
	}

	metrics.ObserveUpstream(metrics.StageOCR, v.provider, duration, "")
	metrics.ObserveTokens(v.provider, v.model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	v.logger.Debug("ocr text received",
		zap.Int("image_bytes", len(image)),
		zap.Int("text_len", len(text)),
		zap.Duration("duration", duration),
	)
	return text, nil
}

// HealthCheck verifies API availability via ListModels.
func (v *VisionOCR) HealthCheck(ctx context.Context) error {
	return listModels(ctx, v.client, v.apiKey, v.provider)
}

// dataURL encodes image bytes as a base64 data URL, sniffing the media type.
func dataURL(image []byte) string {
	mediaType := http.DetectContentType(image)
	if !strings.HasPrefix(mediaType, "image/") {
		mediaType = "image/png"
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(image)
}
