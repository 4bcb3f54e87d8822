package app

import (
	"context"
	"fmt"
	"time"

	"github.com/cynsight/assistivox-ai/internal/domain/documents"
	"github.com/cynsight/assistivox-ai/internal/pkg/asvx"
	"github.com/cynsight/assistivox-ai/internal/pkg/logger"
	"github.com/cynsight/assistivox-ai/internal/pkg/mdtext"

	"github.com/google/uuid"
)

// documentService implements the DocumentService interface for storing,
// retrieving and converting documents
type documentService struct {
	documentRepository documents.DocumentRepository
	contentStore       documents.ContentStore
	pdfExporter        documents.PDFExporter
	logger             logger.Logger
}

// NewDocumentService creates a new instance of DocumentService
func NewDocumentService(
	documentRepository documents.DocumentRepository,
	contentStore documents.ContentStore,
	pdfExporter documents.PDFExporter,
	logger logger.Logger,
) (documents.DocumentService, error) {
	return &documentService{
		documentRepository: documentRepository,
		contentStore:       contentStore,
		pdfExporter:        pdfExporter,
		logger:             logger,
	}, nil
}

// Create stores a new document with the given title, format and content
func (s *documentService) Create(ctx context.Context, title, format, content string) (*documents.DocumentMeta, error) {
	pageCount, sourcePDF, err := inspectContent(format, content)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	meta := &documents.DocumentMeta{
		ID:               uuid.NewString(),
		DateTimeCreated:  now,
		DateTimeModified: now,
		Title:            title,
		Format:           format,
		PageCount:        pageCount,
		SourcePDF:        sourcePDF,
	}
	if err := meta.Validate(); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	if _, err := s.contentStore.Write(meta.ID, meta.Format, content); err != nil {
		return nil, fmt.Errorf("failed to store document content: %w", err)
	}

	if err := s.documentRepository.Create(ctx, meta); err != nil {
		// Roll the content file back so metadata and disk stay consistent.
		_ = s.contentStore.Delete(meta.ID, meta.Format)
		return nil, fmt.Errorf("%w", err)
	}

	s.logger.Info("Created document with id ", meta.ID, " (", meta.PageCount, " pages)")
	return meta, nil
}

// List retrieves all documents' metadata considering a query filter
func (s *documentService) List(ctx context.Context, query *documents.DocumentMetaQuery) ([]*documents.DocumentMeta, error) {
	metas, err := s.documentRepository.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return metas, nil
}

// GetByID retrieves a document's metadata by ID
func (s *documentService) GetByID(ctx context.Context, documentID string) (*documents.DocumentMeta, error) {
	meta, err := s.documentRepository.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return meta, nil
}

// GetContent retrieves a document's on-disk content by ID
func (s *documentService) GetContent(ctx context.Context, documentID string) (string, error) {
	meta, err := s.documentRepository.GetByID(ctx, documentID)
	if err != nil {
		return "", fmt.Errorf("%w", err)
	}

	content, err := s.contentStore.Read(meta.ID, meta.Format)
	if err != nil {
		return "", fmt.Errorf("%w", err)
	}
	return content, nil
}

// UpdateContent replaces a document's content and refreshes its metadata
func (s *documentService) UpdateContent(ctx context.Context, documentID, content string) (*documents.DocumentMeta, error) {
	meta, err := s.documentRepository.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	pageCount, sourcePDF, err := inspectContent(meta.Format, content)
	if err != nil {
		return nil, err
	}

	if _, err := s.contentStore.Write(meta.ID, meta.Format, content); err != nil {
		return nil, fmt.Errorf("failed to store document content: %w", err)
	}

	meta.DateTimeModified = time.Now()
	meta.PageCount = pageCount
	if sourcePDF != nil {
		meta.SourcePDF = sourcePDF
	}

	if err := s.documentRepository.UpdateByID(ctx, meta); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return meta, nil
}

// DeleteByID deletes a document and its content file by ID
func (s *documentService) DeleteByID(ctx context.Context, documentID string) error {
	meta, err := s.documentRepository.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	if err := s.documentRepository.DeleteByID(ctx, documentID); err != nil {
		return fmt.Errorf("%w", err)
	}

	if err := s.contentStore.Delete(meta.ID, meta.Format); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// Export converts a document to the target format and returns the exported
// bytes with a suggested file name
func (s *documentService) Export(ctx context.Context, documentID, target string) ([]byte, string, error) {
	meta, err := s.documentRepository.GetByID(ctx, documentID)
	if err != nil {
		return nil, "", fmt.Errorf("%w", err)
	}

	content, err := s.contentStore.Read(meta.ID, meta.Format)
	if err != nil {
		return nil, "", fmt.Errorf("%w", err)
	}

	markdown, err := toMarkdown(meta.Format, content)
	if err != nil {
		return nil, "", err
	}

	var exported []byte
	switch target {
	case documents.ExportMarkdown:
		exported = []byte(markdown)
	case documents.ExportPlainText:
		plain, err := mdtext.ToPlainText(markdown)
		if err != nil {
			return nil, "", fmt.Errorf("failed to convert document to plain text: %w", err)
		}
		exported = []byte(plain)
	case documents.ExportHTML:
		html, err := mdtext.ToHTML(markdown)
		if err != nil {
			return nil, "", fmt.Errorf("failed to convert document to HTML: %w", err)
		}
		exported = []byte(html)
	case documents.ExportPDF:
		pdf, err := s.pdfExporter.Export(ctx, markdown)
		if err != nil {
			return nil, "", fmt.Errorf("%w", err)
		}
		exported = pdf
	default:
		return nil, "", fmt.Errorf("unsupported export target: %s", target)
	}

	s.logger.Info("Exported document with id ", meta.ID, " to ", target)
	return exported, meta.Title + "." + target, nil
}

// inspectContent derives page count and source PDF from document content.
func inspectContent(format, content string) (int, *string, error) {
	switch format {
	case documents.FormatASVX:
		doc, err := asvx.Parse(content)
		if err != nil {
			return 0, nil, fmt.Errorf("invalid asvx content: %w", err)
		}
		var sourcePDF *string
		if doc.PDFPath != "" {
			sourcePDF = &doc.PDFPath
		}
		return len(doc.Pages), sourcePDF, nil
	case documents.FormatMarkdown:
		return len(asvx.FromMarkdown(content).Pages), nil, nil
	default:
		return 0, nil, fmt.Errorf("unsupported document format: %s", format)
	}
}

// toMarkdown renders stored content as markdown, turning asvx page tags into
// the page-break markers the editor shows.
func toMarkdown(format, content string) (string, error) {
	if format != documents.FormatASVX {
		return content, nil
	}
	doc, err := asvx.Parse(content)
	if err != nil {
		return "", fmt.Errorf("invalid asvx content: %w", err)
	}
	return doc.ToMarkdown(), nil
}
