package pipeline

import (
	"context"

	"github.com/kailas-cloud/snapnote/internal/domain"
)

// TextExtractor turns image bytes into text.
type TextExtractor interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// Summarizer condenses text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (domain.Summary, error)
}

// StoreOpener builds a page store from credentials loaded for this call.
type StoreOpener interface {
	Open(ctx context.Context) (domain.PageStore, error)
}
