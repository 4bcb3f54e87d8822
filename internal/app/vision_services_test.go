//go:build unit
// +build unit

package app

import (
	"context"
	"fmt"
	"image"
	"strings"
	"sync"
	"testing"

	"github.com/cynsight/assistivox-ai/internal/domain/vision"
	"github.com/cynsight/assistivox-ai/internal/pkg/asvx"
	"github.com/cynsight/assistivox-ai/internal/pkg/config"
	"github.com/cynsight/assistivox-ai/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePDF serves canned per-page text and counts renders.
type fakePDF struct {
	mu       sync.Mutex
	pages    []string
	rendered []int
}

func (f *fakePDF) PageCount(path string) (int, error) {
	if len(f.pages) == 0 {
		return 0, fmt.Errorf("failed to open %s", path)
	}
	return len(f.pages), nil
}

func (f *fakePDF) ExtractPage(path string, num int) (string, error) {
	if num < 1 || num > len(f.pages) {
		return "", fmt.Errorf("page %d out of range", num)
	}
	return f.pages[num-1], nil
}

func (f *fakePDF) RenderPage(path string, num int, dpi int) (image.Image, error) {
	f.mu.Lock()
	f.rendered = append(f.rendered, num)
	f.mu.Unlock()
	return image.NewRGBA(image.Rect(0, 0, num, dpi)), nil
}

// fakeOCR derives text from the image dimensions fakePDF encodes into them.
type fakeOCR struct {
	err error
}

func (f *fakeOCR) Recognize(ctx context.Context, img image.Image) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("ocr page %d", img.Bounds().Dx()), nil
}

func (f *fakeOCR) RecognizeBytes(ctx context.Context, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "ocr " + strings.TrimSpace(string(data)), nil
}

func newTestExtractionService(t *testing.T, pdf *fakePDF, ocr *fakeOCR) vision.ExtractionService {
	t.Helper()

	settings := config.VisionSettings{
		OCREngine: config.OCREngineTesseract,
		Languages: []string{"eng"},
		DPI:       300,
		Workers:   2,
	}

	service, err := NewExtractionService(pdf, pdf, ocr, settings, testutil.SetupTestLogger(t))
	require.NoError(t, err)
	return service
}

func TestExtractPDFTextMode(t *testing.T) {
	pdf := &fakePDF{pages: []string{"page one", "page two", "page three"}}
	service := newTestExtractionService(t, pdf, &fakeOCR{})

	doc, err := service.ExtractPDF(context.Background(), &vision.ExtractionRequest{
		PDFPath: "/tmp/sample.pdf",
		Mode:    vision.ModeText,
	})

	require.NoError(t, err)
	assert.Equal(t, "/tmp/sample.pdf", doc.PDFPath)
	assert.Equal(t, []asvx.Page{
		{Num: 1, Markdown: "page one"},
		{Num: 2, Markdown: "page two"},
		{Num: 3, Markdown: "page three"},
	}, doc.Pages)
	assert.Empty(t, pdf.rendered)
}

func TestExtractPDFTextModePageRange(t *testing.T) {
	pdf := &fakePDF{pages: []string{"one", "two", "three", "four"}}
	service := newTestExtractionService(t, pdf, &fakeOCR{})

	doc, err := service.ExtractPDF(context.Background(), &vision.ExtractionRequest{
		PDFPath:   "/tmp/sample.pdf",
		Mode:      vision.ModeText,
		FirstPage: 2,
		LastPage:  3,
	})

	require.NoError(t, err)
	require.Len(t, doc.Pages, 2)
	assert.Equal(t, asvx.Page{Num: 2, Markdown: "two"}, doc.Pages[0])
	assert.Equal(t, asvx.Page{Num: 3, Markdown: "three"}, doc.Pages[1])
}

func TestExtractPDFTextModeOpenEndedRange(t *testing.T) {
	pdf := &fakePDF{pages: []string{"one", "two", "three", "four"}}
	service := newTestExtractionService(t, pdf, &fakeOCR{})

	doc, err := service.ExtractPDF(context.Background(), &vision.ExtractionRequest{
		PDFPath:   "/tmp/sample.pdf",
		Mode:      vision.ModeText,
		FirstPage: 3,
	})

	require.NoError(t, err)
	require.Len(t, doc.Pages, 2)
	assert.Equal(t, asvx.Page{Num: 3, Markdown: "three"}, doc.Pages[0])
	assert.Equal(t, asvx.Page{Num: 4, Markdown: "four"}, doc.Pages[1])
}

func TestExtractPDFRejectsReversedPageRange(t *testing.T) {
	service := newTestExtractionService(t, &fakePDF{pages: []string{"one", "two", "three"}}, &fakeOCR{})

	_, err := service.ExtractPDF(context.Background(), &vision.ExtractionRequest{
		PDFPath:   "/tmp/sample.pdf",
		Mode:      vision.ModeText,
		FirstPage: 3,
		LastPage:  2,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "before FirstPage")
}

func TestExtractPDFOCRModePreservesPageOrder(t *testing.T) {
	pdf := &fakePDF{pages: []string{"", "", "", ""}}
	service := newTestExtractionService(t, pdf, &fakeOCR{})

	doc, err := service.ExtractPDF(context.Background(), &vision.ExtractionRequest{
		PDFPath: "/tmp/scanned.pdf",
		Mode:    vision.ModeOCR,
	})

	require.NoError(t, err)
	require.Len(t, doc.Pages, 4)
	for i, page := range doc.Pages {
		assert.Equal(t, i+1, page.Num)
		assert.Equal(t, fmt.Sprintf("ocr page %d", i+1), page.Markdown)
	}
	assert.Len(t, pdf.rendered, 4)
}

func TestExtractPDFRejectsOutOfRangePages(t *testing.T) {
	pdf := &fakePDF{pages: []string{"one", "two"}}
	service := newTestExtractionService(t, pdf, &fakeOCR{})

	_, err := service.ExtractPDF(context.Background(), &vision.ExtractionRequest{
		PDFPath:   "/tmp/sample.pdf",
		Mode:      vision.ModeText,
		FirstPage: 1,
		LastPage:  5,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of bounds")
}

func TestExtractPDFRejectsInvalidRequest(t *testing.T) {
	service := newTestExtractionService(t, &fakePDF{pages: []string{"one"}}, &fakeOCR{})

	_, err := service.ExtractPDF(context.Background(), &vision.ExtractionRequest{
		PDFPath: "/tmp/sample.pdf",
		Mode:    "scan",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation error")
}

func TestExtractPDFSurfacesOCRFailures(t *testing.T) {
	pdf := &fakePDF{pages: []string{"", ""}}
	service := newTestExtractionService(t, pdf, &fakeOCR{err: fmt.Errorf("tesseract not available")})

	_, err := service.ExtractPDF(context.Background(), &vision.ExtractionRequest{
		PDFPath: "/tmp/scanned.pdf",
		Mode:    vision.ModeOCR,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "tesseract not available")
}

func TestRecognizeImage(t *testing.T) {
	service := newTestExtractionService(t, &fakePDF{pages: []string{"one"}}, &fakeOCR{})

	text, err := service.RecognizeImage(context.Background(), []byte("screenshot"))

	require.NoError(t, err)
	assert.Equal(t, "ocr screenshot", text)
}

func TestRecognizeImageRejectsEmptyData(t *testing.T) {
	service := newTestExtractionService(t, &fakePDF{pages: []string{"one"}}, &fakeOCR{})

	_, err := service.RecognizeImage(context.Background(), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}
