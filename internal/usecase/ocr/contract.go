package ocr

import "context"

// Extractor turns image bytes into text.
type Extractor interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}
