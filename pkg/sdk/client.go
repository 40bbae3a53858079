package snapnote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/snapnote/internal/domain"
	healthuc "github.com/kailas-cloud/snapnote/internal/usecase/health"
	pipelineuc "github.com/kailas-cloud/snapnote/internal/usecase/pipeline"
)

// pipelineUseCase is the internal interface swapped in tests.
type pipelineUseCase interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
	Summarize(ctx context.Context, text string) (domain.Summary, error)
	CreatePage(ctx context.Context, draft domain.PageDraft) (domain.PageDescriptor, error)
	Process(ctx context.Context, image []byte) (domain.ProcessResult, error)
	CheckConnection(ctx context.Context) ([]string, error)
}

// storeOpener yields the page store for one call.
type storeOpener interface {
	Open(ctx context.Context) (domain.PageStore, error)
}

// Client is the snapnote SDK entry point. It is safe for concurrent use.
type Client struct {
	pipeline  pipelineUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client. All three adapters are required.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	switch {
	case cfg.extractor == nil:
		return nil, errors.New("snapnote: text extractor required (use WithTextExtractor or WithOpenAI)")
	case cfg.summarizer == nil:
		return nil, errors.New("snapnote: summarizer required (use WithSummarizer or WithOpenAI)")
	case cfg.pages == nil:
		return nil, errors.New("snapnote: page store required (use WithPageStore or WithNotion)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	pipeline := pipelineuc.New(cfg.extractor, cfg.summarizer, cfg.pages, nil)
	healthSvc := healthuc.New(asChecker(cfg.extractor), asChecker(cfg.summarizer), asChecker(cfg.pages))

	return &Client{pipeline: pipeline, healthSvc: healthSvc, obs: obs}, nil
}

// ExtractText runs OCR on one image.
func (c *Client) ExtractText(ctx context.Context, image []byte) (text string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ocr", start, err) }()

	text, err = c.pipeline.ExtractText(ctx, image)
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	return text, nil
}

// Summarize condenses text. The reply is returned as the model produced it.
func (c *Client) Summarize(ctx context.Context, text string) (s Summary, err error) {
	start := time.Now()
	defer func() { c.obs.observe("summarize", start, err) }()

	s, err = c.pipeline.Summarize(ctx, text)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize: %w", err)
	}
	return s, nil
}

// CreatePage creates one page. Tags are joined with ", ".
// Repeated calls create repeated pages.
func (c *Client) CreatePage(ctx context.Context, draft PageDraft) (p PageDescriptor, err error) {
	start := time.Now()
	defer func() { c.obs.observe("page.create", start, err) }()

	p, err = c.pipeline.CreatePage(ctx, draft)
	if err != nil {
		return PageDescriptor{}, fmt.Errorf("create page: %w", err)
	}
	return p, nil
}

// Process runs OCR, summarization and page creation in order.
// The first failing step ends the run.
func (c *Client) Process(ctx context.Context, image []byte) (res ProcessResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("process", start, err) }()

	res, err = c.pipeline.Process(ctx, image)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("process: %w", err)
	}
	return res, nil
}

// CheckConnection reads the page database schema and returns its property names.
func (c *Client) CheckConnection(ctx context.Context) (names []string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("page.check", start, err) }()

	names, err = c.pipeline.CheckConnection(ctx)
	if err != nil {
		return nil, fmt.Errorf("check connection: %w", err)
	}
	return names, nil
}

// staticOpener hands out the same store on every call.
type staticOpener struct {
	store domain.PageStore
}

func (o staticOpener) Open(_ context.Context) (domain.PageStore, error) {
	return o.store, nil
}

func (o staticOpener) HealthCheck(ctx context.Context) error {
	if hc, ok := o.store.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	_, err := o.store.PropertyNames(ctx)
	return err
}

// asChecker returns a nil interface for adapters that cannot report health,
// so the health service skips them.
func asChecker(v any) healthuc.Checker {
	if hc, ok := v.(healthuc.Checker); ok {
		return hc
	}
	return nil
}
