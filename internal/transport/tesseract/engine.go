// Package tesseract runs OCR locally through the Tesseract library.
package tesseract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/snapnote/internal/domain"
	"github.com/kailas-cloud/snapnote/internal/metrics"
)

const provider = "tesseract"

// Engine implements domain.TextExtractor with a gosseract client per call.
type Engine struct {
	clientFactory func() *gosseract.Client
	languages     []string
	logger        *zap.Logger
}

// NewEngine constructs a Tesseract-backed text extractor.
func NewEngine(languages []string, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		clientFactory: gosseract.NewClient,
		languages:     languages,
		logger:        logger,
	}
}

// ExtractText implements domain.TextExtractor.
func (e *Engine) ExtractText(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	start := time.Now()
	text, err := e.recognize(image)
	duration := time.Since(start)
	if err != nil {
		metrics.ObserveUpstream(metrics.StageOCR, provider, duration, "engine_error")
		return "", fmt.Errorf("tesseract: %v: %w", err, domain.ErrOCRProvider)
	}
	metrics.ObserveUpstream(metrics.StageOCR, provider, duration, "")

	e.logger.Debug("ocr text recognized",
		zap.Int("image_bytes", len(image)),
		zap.Int("text_len", len(text)),
		zap.Duration("duration", duration),
	)
	return text, nil
}

func (e *Engine) recognize(image []byte) (string, error) {
	c := e.clientFactory()
	defer c.Close()

	if len(e.languages) > 0 {
		if err := c.SetLanguage(e.languages...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}
	if err := c.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// HealthCheck reports whether the Tesseract library is usable.
func (e *Engine) HealthCheck(_ context.Context) error {
	if gosseract.Version() == "" {
		return fmt.Errorf("tesseract library unavailable: %w", domain.ErrOCRProvider)
	}
	return nil
}
