package health

import "context"

// Checker checks one upstream's availability.
type Checker interface {
	HealthCheck(ctx context.Context) error
}
