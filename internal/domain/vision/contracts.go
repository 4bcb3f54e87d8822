package vision

import (
	"context"
	"image"

	"github.com/cynsight/assistivox-ai/internal/pkg/asvx"
)

// PageExtractor defines methods for reading a PDF's embedded text layer.
type PageExtractor interface {
	// PageCount returns the number of pages in the PDF.
	PageCount(path string) (int, error)

	// ExtractPage returns the embedded text of the 1-based page num.
	ExtractPage(path string, num int) (string, error)
}

// PageRenderer defines methods for rasterizing PDF pages for OCR.
type PageRenderer interface {
	// RenderPage rasterizes the 1-based page num at the given DPI.
	RenderPage(path string, num int, dpi int) (image.Image, error)
}

// Recognizer defines methods for optical character recognition.
type Recognizer interface {
	// Recognize runs OCR over the image and returns the recognized text.
	Recognize(ctx context.Context, img image.Image) (string, error)

	// RecognizeBytes runs OCR over an encoded image (PNG, JPEG).
	RecognizeBytes(ctx context.Context, data []byte) (string, error)
}

// ExtractionService defines methods for turning PDFs and images into text.
type ExtractionService interface {
	// ExtractPDF extracts the requested page range into an ASVX document
	// with per-page boundaries and the source PDF recorded in metadata.
	ExtractPDF(ctx context.Context, request *ExtractionRequest) (*asvx.Document, error)

	// RecognizeImage runs OCR over a single encoded image.
	RecognizeImage(ctx context.Context, data []byte) (string, error)
}
