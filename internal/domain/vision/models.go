package vision

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Extraction modes.
const (
	// ModeText reads the PDF's embedded text layer.
	ModeText = "text"
	// ModeOCR renders pages and recognizes them with Tesseract.
	ModeOCR = "ocr"
)

// ExtractionRequest entity
type ExtractionRequest struct {
	PDFPath string `validate:"required,min=1"`
	Mode    string `validate:"required,oneof=text ocr"`
	// FirstPage and LastPage select a 1-based inclusive page range. Zero
	// values mean the whole document.
	FirstPage int `validate:"min=0"`
	LastPage  int `validate:"min=0"`
}

// Validate for validating ExtractionRequest struct
func (r *ExtractionRequest) Validate() error {
	validate := validator.New()

	err := validate.Struct(r)
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

	// A zero LastPage is open-ended, so the field tags cannot compare the
	// bounds themselves.
	if r.LastPage != 0 && r.LastPage < r.FirstPage {
		return fmt.Errorf("validation failed: LastPage %d is before FirstPage %d", r.LastPage, r.FirstPage)
	}

	return nil
}

// PageText is the extracted text of one PDF page.
type PageText struct {
	Num  int
	Text string
}
