package snapnote

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/snapnote/internal/config"
	"github.com/kailas-cloud/snapnote/internal/domain"
	"github.com/kailas-cloud/snapnote/internal/transport/notion"
	openaiTransport "github.com/kailas-cloud/snapnote/internal/transport/openai"
)

// GeminiBaseURL is the OpenAI-compatible endpoint of the Gemini API.
const GeminiBaseURL = config.GeminiBaseURL

// Notion defaults used by WithNotion.
const (
	NotionBaseURL = "https://api.notion.com/v1"
	NotionVersion = "2022-06-28"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	extractor  domain.TextExtractor
	summarizer domain.Summarizer
	pages      storeOpener

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithTextExtractor sets the OCR adapter.
func WithTextExtractor(e TextExtractor) Option {
	return optionFunc(func(c *clientConfig) {
		c.extractor = e
	})
}

// WithSummarizer sets the summarization adapter.
func WithSummarizer(s Summarizer) Option {
	return optionFunc(func(c *clientConfig) {
		c.summarizer = s
	})
}

// WithPageStore sets a page store used for every call.
func WithPageStore(s PageStore) Option {
	return optionFunc(func(c *clientConfig) {
		c.pages = staticOpener{store: s}
	})
}

// WithOpenAI configures both OCR and summarization against one
// OpenAI-compatible endpoint with a vision-capable model.
// An empty apiKey fails each call with ErrConfigurationMissing.
func WithOpenAI(apiKey, baseURL, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.extractor = openaiTransport.NewVisionOCR(&openaiTransport.Config{
			APIKey:   apiKey,
			BaseURL:  baseURL,
			Model:    model,
			Provider: "openai",
		})
		c.summarizer = openaiTransport.NewSummarizer(&openaiTransport.Config{
			APIKey:    apiKey,
			BaseURL:   baseURL,
			Model:     model,
			MaxTokens: 1024,
			Provider:  "openai",
		})
	})
}

// WithNotion configures the Notion page store with a fixed integration token
// and database. Properties are named Title, Summary and Tags.
func WithNotion(apiKey, databaseID string) Option {
	return optionFunc(func(c *clientConfig) {
		secrets := staticSecrets{
			notionKeyName: apiKey,
			notionDBName:  databaseID,
		}
		c.pages = notion.NewFactory(secrets, &http.Client{Timeout: 30 * time.Second}, notion.FactoryConfig{
			BaseURL:       NotionBaseURL,
			Version:       NotionVersion,
			APIKeyEnv:     notionKeyName,
			DatabaseIDEnv: notionDBName,
			Properties:    notion.Properties{Title: "Title", Summary: "Summary", Tags: "Tags"},
		})
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

const (
	notionKeyName = "NOTION_API_KEY"
	notionDBName  = "NOTION_DB_ID"
)

// staticSecrets serves credentials passed in code.
type staticSecrets map[string]string

func (s staticSecrets) Lookup(name string) (string, error) {
	if v := s[name]; v != "" {
		return v, nil
	}
	return "", domain.NewMissingConfig(name)
}
