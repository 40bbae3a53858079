package snapnote

import "github.com/kailas-cloud/snapnote/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidInput         = domain.ErrInvalidInput
	ErrConfigurationMissing = domain.ErrConfigurationMissing
	ErrUpstream             = domain.ErrUpstream
	ErrOCRProvider          = domain.ErrOCRProvider
	ErrSummarizerProvider   = domain.ErrSummarizerProvider
	ErrPageStoreProvider    = domain.ErrPageStoreProvider
)

// MissingConfigError names the secret or identifier that was absent.
type MissingConfigError = domain.MissingConfigError
