package documents

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Document formats stored on disk.
const (
	FormatASVX     = "asvx"
	FormatMarkdown = "md"
)

// Export targets supported for a stored document.
const (
	ExportMarkdown  = "md"
	ExportPlainText = "txt"
	ExportHTML      = "html"
	ExportPDF       = "pdf"
)

// DocumentMeta entity
type DocumentMeta struct {
	ID               string    `validate:"required,uuid4"`
	DateTimeCreated  time.Time `validate:"required"`
	DateTimeModified time.Time `validate:"required"`
	Title            string    `validate:"required,min=1,max=255"`
	Format           string    `validate:"required,oneof=asvx md"`
	PageCount        int       `validate:"min=0"`
	// SourcePDF is the PDF the document was extracted from, if any.
	SourcePDF *string `validate:"omitempty,min=1"`
}

// Validate for validating DocumentMeta struct
func (d *DocumentMeta) Validate() error {
	validate := validator.New()

	err := validate.Struct(d)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("validation failed: %v", messages)
		}
		return fmt.Errorf("validation error: %w", err)
	}

	return nil
}

// MaxListLimit caps how many documents a single listing returns. It doubles
// as the default page size.
const MaxListLimit = 100

// DocumentMetaQuery filters document listings.
type DocumentMetaQuery struct {
	Title     string `validate:"omitempty,max=255"`
	Format    string `validate:"omitempty,oneof=asvx md"`
	Limit     int    `validate:"min=0,max=100"`
	Offset    int    `validate:"min=0"`
	SortBy    string `validate:"omitempty,oneof=title created_at updated_at"`
	SortOrder string `validate:"omitempty,oneof=asc desc"`
}

// NewDocumentMetaQuery returns a query with default paging applied.
func NewDocumentMetaQuery() *DocumentMetaQuery {
	return &DocumentMetaQuery{
		Limit:     MaxListLimit,
		Offset:    0,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
}

// Validate for validating DocumentMetaQuery struct
func (q *DocumentMetaQuery) Validate() error {
	validate := validator.New()

	err := validate.Struct(q)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("validation failed: %v", messages)
		}
		return fmt.Errorf("validation error: %w", err)
	}

	return nil
}
