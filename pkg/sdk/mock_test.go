package snapnote

import (
	"context"

	"github.com/kailas-cloud/snapnote/internal/domain"
	healthuc "github.com/kailas-cloud/snapnote/internal/usecase/health"
)

// --- adapter mocks ---

type mockExtractor struct {
	fn       func(ctx context.Context, image []byte) (string, error)
	healthFn func(ctx context.Context) error
}

func (m *mockExtractor) ExtractText(ctx context.Context, image []byte) (string, error) {
	return m.fn(ctx, image)
}

// checkingExtractor additionally reports health.
type checkingExtractor struct {
	mockExtractor
}

func (m *checkingExtractor) HealthCheck(ctx context.Context) error {
	return m.healthFn(ctx)
}

type mockSummarizer struct {
	fn func(ctx context.Context, text string) (domain.Summary, error)
}

func (m *mockSummarizer) Summarize(ctx context.Context, text string) (domain.Summary, error) {
	return m.fn(ctx, text)
}

type pageCall struct {
	title, body, tags string
}

type mockStore struct {
	calls   []pageCall
	reply   string
	err     error
	names   []string
	namesFn func(ctx context.Context) ([]string, error)
}

func (m *mockStore) CreatePage(_ context.Context, title, body, tags string) (domain.PageDescriptor, error) {
	m.calls = append(m.calls, pageCall{title: title, body: body, tags: tags})
	if m.err != nil {
		return domain.PageDescriptor{}, m.err
	}
	return domain.NewPageDescriptor([]byte(m.reply)), nil
}

func (m *mockStore) PropertyNames(ctx context.Context) ([]string, error) {
	if m.namesFn != nil {
		return m.namesFn(ctx)
	}
	return m.names, nil
}

// --- use case mocks ---

type mockPipelineUC struct {
	extractFn   func(ctx context.Context, image []byte) (string, error)
	summarizeFn func(ctx context.Context, text string) (domain.Summary, error)
	createFn    func(ctx context.Context, draft domain.PageDraft) (domain.PageDescriptor, error)
	processFn   func(ctx context.Context, image []byte) (domain.ProcessResult, error)
	checkFn     func(ctx context.Context) ([]string, error)
}

func (m *mockPipelineUC) ExtractText(ctx context.Context, image []byte) (string, error) {
	return m.extractFn(ctx, image)
}

func (m *mockPipelineUC) Summarize(ctx context.Context, text string) (domain.Summary, error) {
	return m.summarizeFn(ctx, text)
}

func (m *mockPipelineUC) CreatePage(ctx context.Context, draft domain.PageDraft) (domain.PageDescriptor, error) {
	return m.createFn(ctx, draft)
}

func (m *mockPipelineUC) Process(ctx context.Context, image []byte) (domain.ProcessResult, error) {
	return m.processFn(ctx, image)
}

func (m *mockPipelineUC) CheckConnection(ctx context.Context) ([]string, error) {
	return m.checkFn(ctx)
}

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report {
	return m.report
}

// testClient builds a Client around use case mocks.
func testClient(p pipelineUseCase, h healthUseCase, obs *observer) *Client {
	return &Client{pipeline: p, healthSvc: h, obs: obs}
}
