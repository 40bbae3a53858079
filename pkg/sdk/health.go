package snapnote

import (
	"context"
	"fmt"
	"time"

	healthuc "github.com/kailas-cloud/snapnote/internal/usecase/health"
)

// HealthStatus represents the aggregated upstream health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // "ocr", "summarizer", "notion" → "ok"/"error"
}

// Health checks the adapters that can report their availability.
// Adapters without a HealthCheck method are left out of Checks.
func (c *Client) Health(ctx context.Context) HealthStatus {
	start := time.Now()
	report := c.healthSvc.Check(ctx)

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	var err error
	if report.Status != healthuc.Healthy {
		err = fmt.Errorf("health %s", report.Status)
	}
	c.obs.observe("health", start, err)

	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
