package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/kailas-cloud/snapnote/internal/domain"
)

// --- Mocks ---

type mockExtractor struct {
	got  []byte
	text string
	err  error
}

func (m *mockExtractor) ExtractText(_ context.Context, image []byte) (string, error) {
	m.got = image
	return m.text, m.err
}

func jpegImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return img
}

// --- Tests ---

func TestNormalizer_Downsizes(t *testing.T) {
	next := &mockExtractor{text: "hello"}
	n := NewNormalizer(next, 100, nil)

	text, err := n.ExtractText(context.Background(), jpegImage(t, 400, 200))
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if text != "hello" {
		t.Errorf("expected delegated text, got %q", text)
	}

	if !bytes.HasPrefix(next.got, []byte("\x89PNG")) {
		t.Fatal("expected PNG to be forwarded")
	}
	b := decode(t, next.got).Bounds()
	if b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("expected 100x50, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestNormalizer_KeepsSmallImages(t *testing.T) {
	next := &mockExtractor{}
	n := NewNormalizer(next, 1000, nil)

	if _, err := n.ExtractText(context.Background(), jpegImage(t, 40, 30)); err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	b := decode(t, next.got).Bounds()
	if b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("expected 40x30, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestNormalizer_UndecodablePassesThrough(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		// ISO-BMFF header of a HEIC photo
		{"heic", []byte("\x00\x00\x00\x18ftypheic\x00\x00\x00\x00mif1heic")},
		{"garbage", []byte("definitely not an image")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next := &mockExtractor{text: "from upstream"}
			n := NewNormalizer(next, 2048, nil)

			text, err := n.ExtractText(context.Background(), tc.data)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if text != "from upstream" {
				t.Errorf("expected extractor text, got %q", text)
			}
			if !bytes.Equal(next.got, tc.data) {
				t.Errorf("extractor must receive the original bytes, got %q", next.got)
			}
		})
	}
}

func TestNormalizer_UndecodableUpstreamError(t *testing.T) {
	next := &mockExtractor{err: fmt.Errorf("vision API error 400: unsupported image: %w", domain.ErrOCRProvider)}
	n := NewNormalizer(next, 2048, nil)

	_, err := n.ExtractText(context.Background(), []byte("not an image"))
	if !errors.Is(err, domain.ErrOCRProvider) {
		t.Fatalf("expected the extractor's error, got %v", err)
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		t.Error("normalizer must not reject input on its own")
	}
}

func TestNormalizer_PropagatesExtractorError(t *testing.T) {
	next := &mockExtractor{err: domain.ErrOCRProvider}
	n := NewNormalizer(next, 100, nil)

	_, err := n.ExtractText(context.Background(), jpegImage(t, 10, 10))
	if !errors.Is(err, domain.ErrOCRProvider) {
		t.Fatalf("expected ErrOCRProvider, got %v", err)
	}
}
