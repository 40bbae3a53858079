package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput signals a request the service cannot act on (missing upload, malformed JSON).
	ErrInvalidInput = errors.New("invalid input")
	// ErrConfigurationMissing signals a secret or identifier absent at the moment it is needed.
	ErrConfigurationMissing = errors.New("configuration missing")
	// ErrUpstream signals a failure reported by one of the external services.
	ErrUpstream = errors.New("upstream service error")

	// ErrOCRProvider signals a text extraction failure.
	ErrOCRProvider = fmt.Errorf("ocr provider error: %w", ErrUpstream)
	// ErrSummarizerProvider signals a summarization failure.
	ErrSummarizerProvider = fmt.Errorf("summarizer provider error: %w", ErrUpstream)
	// ErrPageStoreProvider signals a page store failure.
	ErrPageStoreProvider = fmt.Errorf("page store provider error: %w", ErrUpstream)
)

// MissingConfigError wraps ErrConfigurationMissing with the name of the absent value.
type MissingConfigError struct {
	Name string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("%s: %s is not set", ErrConfigurationMissing.Error(), e.Name)
}

func (e *MissingConfigError) Unwrap() error { return ErrConfigurationMissing }

// NewMissingConfig creates a configuration missing error for the named value.
func NewMissingConfig(name string) error {
	return &MissingConfigError{Name: name}
}
