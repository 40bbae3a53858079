// Package ocr prepares uploaded images before they reach a text extractor.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	// WebP decoder for phone screenshots; imaging registers BMP and TIFF.
	_ "golang.org/x/image/webp"
)

// Normalizer decodes, auto-orients and downsizes images before delegating.
type Normalizer struct {
	next         Extractor
	maxDimension int
	logger       *zap.Logger
}

// NewNormalizer wraps next. maxDimension bounds both width and height.
func NewNormalizer(next Extractor, maxDimension int, logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{next: next, maxDimension: maxDimension, logger: logger}
}

// ExtractText implements domain.TextExtractor.
func (n *Normalizer) ExtractText(ctx context.Context, data []byte) (string, error) {
	prepared, err := n.Normalize(data)
	if err != nil {
		return "", err
	}
	return n.next.ExtractText(ctx, prepared)
}

// Normalize returns the image re-encoded as PNG, EXIF-oriented and fit into
// maxDimension x maxDimension. Formats it cannot decode (HEIC, AVIF, garbage)
// are returned untouched: judging them is the extractor's job.
func (n *Normalizer) Normalize(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		n.logger.Debug("image not decodable, passing through",
			zap.Int("image_bytes", len(data)),
			zap.Error(err),
		)
		return data, nil
	}

	bounds := img.Bounds()
	if n.maxDimension > 0 && (bounds.Dx() > n.maxDimension || bounds.Dy() > n.maxDimension) {
		img = imaging.Fit(img, n.maxDimension, n.maxDimension, imaging.Lanczos)
		n.logger.Debug("image downsized",
			zap.Int("from_width", bounds.Dx()),
			zap.Int("from_height", bounds.Dy()),
			zap.Int("to_width", img.Bounds().Dx()),
			zap.Int("to_height", img.Bounds().Dy()),
		)
	}

	return encodePNG(img)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}
