package vision

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/cynsight/assistivox-ai/internal/pkg/config"
	"github.com/cynsight/assistivox-ai/internal/pkg/logger"

	"github.com/otiai10/gosseract/v2"
)

// maxOCRWidth bounds the pixel width handed to Tesseract; high-DPI renders
// of large pages are downscaled first.
const maxOCRWidth = 2500

// TesseractEngine implements vision.Recognizer using the gosseract client.
type TesseractEngine struct {
	clientFactory func() *gosseract.Client
	languages     []string
	dpi           int
	logger        logger.Logger
}

// NewTesseractEngine creates a Tesseract-backed recognizer with the
// configured languages and DPI hint.
func NewTesseractEngine(settings config.VisionSettings, logger logger.Logger) (*TesseractEngine, error) {
	return &TesseractEngine{
		clientFactory: gosseract.NewClient,
		languages:     settings.Languages,
		dpi:           settings.DPI,
		logger:        logger,
	}, nil
}

// Recognize runs OCR over a decoded image.
func (e *TesseractEngine) Recognize(ctx context.Context, img image.Image) (string, error) {
	img = ScaleToWidth(img, maxOCRWidth)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode page image: %w", err)
	}
	return e.RecognizeBytes(ctx, buf.Bytes())
}

// RecognizeBytes runs OCR over an encoded image.
func (e *TesseractEngine) RecognizeBytes(ctx context.Context, data []byte) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	client := e.clientFactory()
	defer func() {
		_ = client.Close()
	}()

	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to set OCR image: %w", err)
	}
	if len(e.languages) > 0 {
		if err := client.SetLanguage(e.languages...); err != nil {
			return "", fmt.Errorf("failed to set OCR languages: %w", err)
		}
	}
	if e.dpi > 0 {
		if err := client.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(e.dpi)); err != nil {
			return "", fmt.Errorf("failed to set OCR dpi: %w", err)
		}
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("failed to recognize text: %w", err)
	}
	return strings.TrimSpace(text), nil
}
