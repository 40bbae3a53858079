package main

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/snapnote/internal/config"
	"github.com/kailas-cloud/snapnote/internal/metrics"
	chiTransport "github.com/kailas-cloud/snapnote/internal/transport/chi"
	"github.com/kailas-cloud/snapnote/internal/transport/notion"
	openaiTransport "github.com/kailas-cloud/snapnote/internal/transport/openai"
	"github.com/kailas-cloud/snapnote/internal/transport/tesseract"
	healthuc "github.com/kailas-cloud/snapnote/internal/usecase/health"
	ocruc "github.com/kailas-cloud/snapnote/internal/usecase/ocr"
	pipelineuc "github.com/kailas-cloud/snapnote/internal/usecase/pipeline"
)

// app is the assembled service. Built once per process.
type app struct {
	pipeline *pipelineuc.Service
	handler  http.Handler
}

// ocrEngine is an extractor that can also report its health.
type ocrEngine interface {
	ocruc.Extractor
	healthuc.Checker
}

// buildApp is the composition root.
func buildApp(cfg config.Config, logger *zap.Logger) (*app, error) {
	metrics.RegisterUpstreamMetrics()

	engine, err := buildOCREngine(cfg, logger)
	if err != nil {
		return nil, err
	}
	var extractor ocruc.Extractor = engine
	if cfg.OCR.MaxDimension > 0 {
		extractor = ocruc.NewNormalizer(engine, cfg.OCR.MaxDimension, logger)
	}

	sumProvider := cfg.Providers[cfg.Summarizer.Provider]
	summarizer := openaiTransport.NewSummarizer(&openaiTransport.Config{
		APIKey:      sumProvider.APIKey,
		BaseURL:     sumProvider.BaseURL,
		Model:       cfg.Summarizer.Model,
		Prompt:      cfg.Summarizer.Prompt,
		Temperature: cfg.Summarizer.Temperature,
		MaxTokens:   cfg.Summarizer.MaxTokens,
		Provider:    cfg.Summarizer.Provider,
		Logger:      logger,
	})

	// One connection pool for every Notion client; credentials are loaded per call.
	notionTimeout := time.Duration(cfg.Notion.TimeoutSec) * time.Second
	pages := notion.NewFactory(
		config.NewSecrets(cfg.Notion.EnvFile),
		&http.Client{Timeout: notionTimeout},
		notion.FactoryConfig{
			BaseURL:       cfg.Notion.BaseURL,
			Version:       cfg.Notion.Version,
			Timeout:       notionTimeout,
			APIKeyEnv:     cfg.Notion.APIKeyEnv,
			DatabaseIDEnv: cfg.Notion.DatabaseIDEnv,
			Properties: notion.Properties{
				Title:   cfg.Notion.TitleProperty,
				Summary: cfg.Notion.SummaryProperty,
				Tags:    cfg.Notion.TagsProperty,
			},
			Logger: logger,
		},
	)

	pipeline := pipelineuc.New(extractor, summarizer, pages, logger)
	health := healthuc.New(engine, summarizer, pages)

	server := chiTransport.NewServer(pipeline, health, cfg.HTTP.MaxUploadBytes(), logger)
	handler := chiTransport.NewRouter(server, cfg.CORS, logger)

	return &app{pipeline: pipeline, handler: handler}, nil
}

func buildOCREngine(cfg config.Config, logger *zap.Logger) (ocrEngine, error) {
	switch cfg.OCR.Engine {
	case config.EngineVision:
		p := cfg.Providers[cfg.OCR.Provider]
		return openaiTransport.NewVisionOCR(&openaiTransport.Config{
			APIKey:   p.APIKey,
			BaseURL:  p.BaseURL,
			Model:    cfg.OCR.Model,
			Prompt:   cfg.OCR.Prompt,
			Provider: cfg.OCR.Provider,
			Logger:   logger,
		}), nil
	case config.EngineTesseract:
		return tesseract.NewEngine(cfg.OCR.Languages, logger), nil
	default:
		return nil, fmt.Errorf("unknown OCR engine %q", cfg.OCR.Engine)
	}
}
