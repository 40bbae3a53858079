// Package pipeline sequences OCR, summarization and page creation.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/snapnote/internal/domain"
	"github.com/kailas-cloud/snapnote/internal/logger"
	"github.com/kailas-cloud/snapnote/internal/metrics"
)

// Service runs the single-step operations and the full pipeline.
// It holds no per-request state.
type Service struct {
	ocr        TextExtractor
	summarizer Summarizer
	stores     StoreOpener
	logger     *zap.Logger
}

// New creates a pipeline service. logger is the fallback when the request
// context carries none.
func New(ocr TextExtractor, summarizer Summarizer, stores StoreOpener, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{ocr: ocr, summarizer: summarizer, stores: stores, logger: logger}
}

// ExtractText runs OCR on one image.
func (s *Service) ExtractText(ctx context.Context, image []byte) (string, error) {
	start := time.Now()
	text, err := s.ocr.ExtractText(ctx, image)
	if err != nil {
		s.stageFailed(ctx, metrics.StageOCR, start, err)
		return "", fmt.Errorf("extract text: %w", err)
	}

	s.log(ctx).Debug("OCR completed",
		zap.String("stage", metrics.StageOCR),
		zap.Duration("duration", time.Since(start)),
		zap.Int("image_bytes", len(image)),
		zap.Int("text_len", len(text)),
	)
	return text, nil
}

// Summarize condenses text. Empty text is passed through to the model.
func (s *Service) Summarize(ctx context.Context, text string) (domain.Summary, error) {
	start := time.Now()
	summary, err := s.summarizer.Summarize(ctx, text)
	if err != nil {
		s.stageFailed(ctx, metrics.StageSummarize, start, err)
		return domain.Summary{}, fmt.Errorf("summarize: %w", err)
	}

	s.log(ctx).Debug("Summary completed",
		zap.String("stage", metrics.StageSummarize),
		zap.Duration("duration", time.Since(start)),
		zap.String("kind", summary.Kind().String()),
	)
	return summary, nil
}

// CreatePage flattens the draft's tags and creates one page. Identical drafts
// create distinct pages.
func (s *Service) CreatePage(ctx context.Context, draft domain.PageDraft) (domain.PageDescriptor, error) {
	start := time.Now()

	store, err := s.stores.Open(ctx)
	if err != nil {
		s.stageFailed(ctx, metrics.StageNotion, start, err)
		return domain.PageDescriptor{}, fmt.Errorf("open page store: %w", err)
	}

	page, err := store.CreatePage(ctx, draft.Title, draft.Summary, domain.JoinTags(draft.Tags))
	if err != nil {
		s.stageFailed(ctx, metrics.StageNotion, start, err)
		return domain.PageDescriptor{}, fmt.Errorf("create page: %w", err)
	}

	s.log(ctx).Debug("Page created",
		zap.String("stage", metrics.StageNotion),
		zap.Duration("duration", time.Since(start)),
		zap.String("page_id", page.ID()),
		zap.Int("tags", len(draft.Tags)),
	)
	return page, nil
}

// Process runs OCR, then summarization, then page creation. A failing step
// ends the run; nothing is created before the last step.
func (s *Service) Process(ctx context.Context, image []byte) (domain.ProcessResult, error) {
	start := time.Now()

	text, err := s.ExtractText(ctx, image)
	if err != nil {
		recordRun(metrics.StageOCR, err)
		return domain.ProcessResult{}, err
	}

	summary, err := s.Summarize(ctx, text)
	if err != nil {
		recordRun(metrics.StageSummarize, err)
		return domain.ProcessResult{}, err
	}

	record := summary.Record(domain.DefaultProcessTitle)

	page, err := s.CreatePage(ctx, domain.DraftFromRecord(record))
	if err != nil {
		recordRun(metrics.StageNotion, err)
		return domain.ProcessResult{}, err
	}
	recordRun("", nil)

	s.log(ctx).Info("Pipeline completed",
		zap.Duration("duration", time.Since(start)),
		zap.String("summary_kind", summary.Kind().String()),
		zap.String("page_id", page.ID()),
	)
	return domain.ProcessResult{OCRText: text, Summary: record, Page: page}, nil
}

// CheckConnection lists the property names declared by the page store's database.
func (s *Service) CheckConnection(ctx context.Context) ([]string, error) {
	store, err := s.stores.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open page store: %w", err)
	}
	names, err := store.PropertyNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("read database schema: %w", err)
	}
	return names, nil
}

func (s *Service) log(ctx context.Context) *zap.Logger {
	return logger.FromContext(ctx, s.logger)
}

func (s *Service) stageFailed(ctx context.Context, stage string, start time.Time, err error) {
	s.log(ctx).Error("Pipeline stage failed",
		zap.String("stage", stage),
		zap.Duration("duration", time.Since(start)),
		zap.Error(err),
	)
}

func recordRun(failedStage string, err error) {
	if err != nil {
		metrics.PipelineRunsTotal.WithLabelValues("error", failedStage).Inc()
		return
	}
	metrics.PipelineRunsTotal.WithLabelValues("success", "").Inc()
}
