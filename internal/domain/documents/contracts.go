package documents

import (
	"context"
)

// DocumentService defines methods for storing, retrieving and converting
// documents.
type DocumentService interface {
	// Create stores a new document with the given title, format and content.
	// It returns the metadata for the created document.
	Create(ctx context.Context, title, format, content string) (*DocumentMeta, error)

	// List retrieves all documents' metadata considering a query filter when set.
	List(ctx context.Context, query *DocumentMetaQuery) ([]*DocumentMeta, error)

	// GetByID retrieves the document metadata by ID.
	GetByID(ctx context.Context, documentID string) (*DocumentMeta, error)

	// GetContent retrieves a document's on-disk content by ID.
	GetContent(ctx context.Context, documentID string) (string, error)

	// UpdateContent replaces a document's content and refreshes its
	// modification timestamp and page count.
	UpdateContent(ctx context.Context, documentID, content string) (*DocumentMeta, error)

	// DeleteByID deletes a document and its content file by ID.
	DeleteByID(ctx context.Context, documentID string) error

	// Export converts a document to the target format (md, txt, html or pdf)
	// and returns the exported bytes with a suggested file name.
	Export(ctx context.Context, documentID, target string) ([]byte, string, error)
}

// DocumentRepository defines the interface for document metadata persistence.
type DocumentRepository interface {
	// Create adds a new DocumentMeta to the database
	Create(ctx context.Context, doc *DocumentMeta) error
	// List lists DocumentMetas in the database with optional filter
	List(ctx context.Context, query *DocumentMetaQuery) ([]*DocumentMeta, error)
	// GetByID retrieves a DocumentMeta from the database by ID
	GetByID(ctx context.Context, documentID string) (*DocumentMeta, error)
	// UpdateByID updates a DocumentMeta in the database by ID
	UpdateByID(ctx context.Context, doc *DocumentMeta) error
	// DeleteByID deletes a DocumentMeta in the database by ID
	DeleteByID(ctx context.Context, documentID string) error
}

// ContentStore is an interface for reading and writing document content files.
type ContentStore interface {
	// Write stores content for a document, returning the path written.
	Write(documentID, format, content string) (string, error)
	// Read returns the content of a document.
	Read(documentID, format string) (string, error)
	// Delete removes a document's content file.
	Delete(documentID, format string) error
}

// PDFExporter renders markdown to PDF.
type PDFExporter interface {
	// Export renders markdown content and returns the PDF bytes.
	Export(ctx context.Context, markdown string) ([]byte, error)
}
