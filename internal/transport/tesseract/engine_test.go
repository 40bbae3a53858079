package tesseract

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os/exec"
	"testing"

	"github.com/kailas-cloud/snapnote/internal/domain"
)

func requireTesseract(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract not installed")
	}
}

func blankPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestEngine_BlankImage(t *testing.T) {
	requireTesseract(t)

	e := NewEngine([]string{"eng"}, nil)
	text, err := e.ExtractText(context.Background(), blankPNG(t))
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if text != "" {
		t.Errorf("expected no text on a blank image, got %q", text)
	}
}

func TestEngine_InvalidImage(t *testing.T) {
	requireTesseract(t)

	e := NewEngine(nil, nil)
	_, err := e.ExtractText(context.Background(), []byte("not an image"))
	if !errors.Is(err, domain.ErrOCRProvider) {
		t.Fatalf("expected ErrOCRProvider, got %v", err)
	}
}

func TestEngine_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewEngine(nil, nil)
	if _, err := e.ExtractText(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestEngine_HealthCheck(t *testing.T) {
	requireTesseract(t)

	if err := NewEngine(nil, nil).HealthCheck(context.Background()); err != nil {
		t.Errorf("expected healthy, got %v", err)
	}
}
