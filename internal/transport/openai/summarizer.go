package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/snapnote/internal/domain"
	"github.com/kailas-cloud/snapnote/internal/metrics"
)

// DefaultSummaryPrompt asks the model for the record the pipeline stores.
const DefaultSummaryPrompt = `You turn OCR output into a short note.
Reply with a single JSON object and nothing else:
{"title": "<short title>", "summary": "<two or three sentences>", "tags": ["<tag>", "..."]}
Use at most five lowercase tags. If the text is empty or unreadable, say so in the summary.`

// Summarizer condenses text through an OpenAI-compatible chat completion.
type Summarizer struct {
	client      *openai.Client
	apiKey      string
	model       string
	prompt      string
	temperature float32
	maxTokens   int
	provider    string
	logger      *zap.Logger
}

// NewSummarizer creates a summarizer. An empty API key is reported on first use.
func NewSummarizer(cfg *Config) *Summarizer {
	prompt := cfg.Prompt
	if prompt == "" {
		prompt = DefaultSummaryPrompt
	}
	return &Summarizer{
		client:      newClient(cfg),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		prompt:      prompt,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		provider:    cfg.Provider,
		logger:      loggerOrNop(cfg.Logger),
	}
}

// Summarize implements domain.Summarizer. The reply is requested in JSON mode;
// anything that is not a JSON object comes back as a plain summary.
func (s *Summarizer) Summarize(ctx context.Context, text string) (domain.Summary, error) {
	if s.apiKey == "" {
		metrics.ObserveUpstream(metrics.StageSummarize, s.provider, 0, "config_missing")
		return domain.Summary{}, domain.NewMissingConfig(s.provider + " api_key")
	}

	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: s.prompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	}

	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.ObserveUpstream(metrics.StageSummarize, s.provider, duration, errorType(err))
		return domain.Summary{}, parseAPIError("summarizer", err, domain.ErrSummarizerProvider)
	}
	if len(resp.Choices) == 0 {
		metrics.ObserveUpstream(metrics.StageSummarize, s.provider, duration, "empty_response")
		return domain.Summary{}, fmt.Errorf("empty completion response: %w", domain.ErrSummarizerProvider)
	}

	metrics.ObserveUpstream(metrics.StageSummarize, s.provider, duration, "")
	metrics.ObserveTokens(s.provider, s.model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonLength {
		// a JSON reply cut at max_tokens is no longer an object
		s.logger.Warn("summary truncated at token limit",
			zap.String("model", s.model),
			zap.Int("max_tokens", s.maxTokens),
			zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		)
	}

	summary := domain.ParseSummary(choice.Message.Content)
	s.logger.Debug("summary received",
		zap.String("kind", summary.Kind().String()),
		zap.Duration("duration", duration),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
	)
	return summary, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (s *Summarizer) HealthCheck(ctx context.Context) error {
	return listModels(ctx, s.client, s.apiKey, s.provider)
}

func listModels(ctx context.Context, client *openai.Client, apiKey, provider string) error {
	if apiKey == "" {
		return domain.NewMissingConfig(provider + " api_key")
	}
	if _, err := client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
