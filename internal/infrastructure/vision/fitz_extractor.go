// Package vision implements PDF text extraction and OCR: MuPDF (go-fitz)
// for the embedded text layer and page rendering, Tesseract (gosseract) for
// recognition.
package vision

import (
	"fmt"
	"image"

	"github.com/cynsight/assistivox-ai/internal/pkg/logger"

	"github.com/gen2brain/go-fitz"
)

// FitzExtractor implements vision.PageExtractor and vision.PageRenderer with
// MuPDF. Documents are opened per call; fitz handles are not safe to share
// across goroutines.
type FitzExtractor struct {
	logger logger.Logger
}

// NewFitzExtractor creates a MuPDF-backed extractor.
func NewFitzExtractor(logger logger.Logger) (*FitzExtractor, error) {
	return &FitzExtractor{logger: logger}, nil
}

// PageCount returns the number of pages in the PDF.
func (e *FitzExtractor) PageCount(path string) (int, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer func() {
		_ = doc.Close()
	}()

	return doc.NumPage(), nil
}

// ExtractPage returns the embedded text of the 1-based page num.
func (e *FitzExtractor) ExtractPage(path string, num int) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer func() {
		_ = doc.Close()
	}()

	if num < 1 || num > doc.NumPage() {
		return "", fmt.Errorf("page %d out of range 1..%d", num, doc.NumPage())
	}

	text, err := doc.Text(num - 1)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from page %d: %w", num, err)
	}
	return text, nil
}

// RenderPage rasterizes the 1-based page num at the given DPI.
func (e *FitzExtractor) RenderPage(path string, num int, dpi int) (image.Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer func() {
		_ = doc.Close()
	}()

	if num < 1 || num > doc.NumPage() {
		return nil, fmt.Errorf("page %d out of range 1..%d", num, doc.NumPage())
	}

	img, err := doc.ImageDPI(num-1, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", num, err)
	}
	return img, nil
}
