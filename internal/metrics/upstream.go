package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Pipeline stages, used as the "stage" label.
const (
	StageOCR       = "ocr"
	StageSummarize = "summarize"
	StageNotion    = "notion"
)

// Upstream Prometheus metrics.
var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "snapnote",
			Name:      "upstream_requests_total",
			Help:      "Total number of calls to external services",
		},
		[]string{"stage", "provider", "status"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "snapnote",
			Name:      "upstream_request_duration_seconds",
			Help:      "External service call duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"stage", "provider"},
	)

	UpstreamErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "snapnote",
			Name:      "upstream_errors_total",
			Help:      "Total external service errors",
		},
		[]string{"stage", "provider", "error_type"},
	)

	SummarizerTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "snapnote",
			Name:      "summarizer_tokens_total",
			Help:      "Total tokens consumed by summarization and vision OCR",
		},
		[]string{"provider", "model", "type"},
	)

	PipelineRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "snapnote",
			Name:      "pipeline_runs_total",
			Help:      "Total OCR -> summarize -> store pipeline runs",
		},
		[]string{"status", "failed_stage"},
	)
)

var registerUpstreamOnce sync.Once

// RegisterUpstreamMetrics registers the upstream metrics. Safe to call more than once.
func RegisterUpstreamMetrics() {
	registerUpstreamOnce.Do(func() {
		prometheus.MustRegister(UpstreamRequestsTotal)
		prometheus.MustRegister(UpstreamRequestDuration)
		prometheus.MustRegister(UpstreamErrorsTotal)
		prometheus.MustRegister(SummarizerTokensTotal)
		prometheus.MustRegister(PipelineRunsTotal)
	})
}

// ObserveUpstream records one external call. An empty errorType means success.
func ObserveUpstream(stage, provider string, duration time.Duration, errorType string) {
	if errorType != "" {
		UpstreamRequestsTotal.WithLabelValues(stage, provider, "error").Inc()
		UpstreamErrorsTotal.WithLabelValues(stage, provider, errorType).Inc()
		return
	}
	UpstreamRequestsTotal.WithLabelValues(stage, provider, "success").Inc()
	UpstreamRequestDuration.WithLabelValues(stage, provider).Observe(duration.Seconds())
}

// ObserveTokens records token usage reported by a model provider.
func ObserveTokens(provider, model string, prompt, completion int) {
	if prompt > 0 {
		SummarizerTokensTotal.WithLabelValues(provider, model, "prompt").Add(float64(prompt))
	}
	if completion > 0 {
		SummarizerTokensTotal.WithLabelValues(provider, model, "completion").Add(float64(completion))
	}
}
