package app

import (
	"context"
	"fmt"

	"github.com/cynsight/assistivox-ai/internal/domain/vision"
	"github.com/cynsight/assistivox-ai/internal/pkg/asvx"
	"github.com/cynsight/assistivox-ai/internal/pkg/config"
	"github.com/cynsight/assistivox-ai/internal/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// extractionService implements the ExtractionService interface for turning
// PDFs and images into ASVX text
type extractionService struct {
	extractor  vision.PageExtractor
	renderer   vision.PageRenderer
	recognizer vision.Recognizer
	settings   config.VisionSettings
	logger     logger.Logger
}

// NewExtractionService creates a new instance of ExtractionService
func NewExtractionService(
	extractor vision.PageExtractor,
	renderer vision.PageRenderer,
	recognizer vision.Recognizer,
	settings config.VisionSettings,
	logger logger.Logger,
) (vision.ExtractionService, error) {
	return &extractionService{
		extractor:  extractor,
		renderer:   renderer,
		recognizer: recognizer,
		settings:   settings,
		logger:     logger,
	}, nil
}

// ExtractPDF extracts the requested page range into an ASVX document
func (s *extractionService) ExtractPDF(ctx context.Context, request *vision.ExtractionRequest) (*asvx.Document, error) {
	if err := request.Validate(); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	pageCount, err := s.extractor.PageCount(request.PDFPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	first, last, err := resolvePageRange(request, pageCount)
	if err != nil {
		return nil, err
	}

	var pages []asvx.Page
	switch request.Mode {
	case vision.ModeText:
		pages, err = s.extractTextPages(request.PDFPath, first, last)
	case vision.ModeOCR:
		pages, err = s.recognizePages(ctx, request.PDFPath, first, last)
	default:
		return nil, fmt.Errorf("unsupported extraction mode: %s", request.Mode)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Extracted ", len(pages), " pages from ", request.PDFPath, " in ", request.Mode, " mode")
	return &asvx.Document{PDFPath: request.PDFPath, Pages: pages}, nil
}

// RecognizeImage runs OCR over a single encoded image
func (s *extractionService) RecognizeImage(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("image data is empty")
	}

	text, err := s.recognizer.RecognizeBytes(ctx, data)
	if err != nil {
		return "", fmt.Errorf("%w", err)
	}
	return text, nil
}

// extractTextPages reads the embedded text layer page by page.
func (s *extractionService) extractTextPages(path string, first, last int) ([]asvx.Page, error) {
	pages := make([]asvx.Page, 0, last-first+1)
	for num := first; num <= last; num++ {
		text, err := s.extractor.ExtractPage(path, num)
		if err != nil {
			return nil, fmt.Errorf("failed to extract page %d: %w", num, err)
		}
		pages = append(pages, asvx.Page{Num: num, Markdown: text})
	}
	return pages, nil
}

// recognizePages renders and OCRs pages with bounded parallelism, keeping
// the output in page order.
func (s *extractionService) recognizePages(ctx context.Context, path string, first, last int) ([]asvx.Page, error) {
	pages := make([]asvx.Page, last-first+1)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.settings.Workers)

	for num := first; num <= last; num++ {
		num := num // per-iteration copy; required under Go <1.22 loop semantics
		group.Go(func() error {
			img, err := s.renderer.RenderPage(path, num, s.settings.DPI)
			if err != nil {
				return fmt.Errorf("failed to render page %d: %w", num, err)
			}

			text, err := s.recognizer.Recognize(groupCtx, img)
			if err != nil {
				return fmt.Errorf("failed to recognize page %d: %w", num, err)
			}

			pages[num-first] = asvx.Page{Num: num, Markdown: text}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

// resolvePageRange turns the request's page bounds into a concrete 1-based
// inclusive range. Zero bounds select the whole document.
func resolvePageRange(request *vision.ExtractionRequest, pageCount int) (int, int, error) {
	if pageCount < 1 {
		return 0, 0, fmt.Errorf("PDF has no pages")
	}

	first := request.FirstPage
	last := request.LastPage
	if first == 0 {
		first = 1
	}
	if last == 0 {
		last = pageCount
	}

	if first > pageCount || last > pageCount {
		return 0, 0, fmt.Errorf("page range %d-%d is out of bounds, document has %d pages", first, last, pageCount)
	}
	return first, last, nil
}
