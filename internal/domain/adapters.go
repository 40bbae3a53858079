package domain

import "context"

// TextExtractor turns image bytes into text (OCR).
type TextExtractor interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// Summarizer condenses text through a generative model.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (Summary, error)
}

// PageStore creates pages in the workspace database.
type PageStore interface {
	CreatePage(ctx context.Context, title, body, tags string) (PageDescriptor, error)
	// PropertyNames lists the property names declared by the database schema.
	PropertyNames(ctx context.Context) ([]string, error)
}

// PageStoreFactory builds a PageStore for a single invocation from freshly
// loaded credentials.
type PageStoreFactory interface {
	Open(ctx context.Context) (PageStore, error)
}

// HealthChecker verifies upstream availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
