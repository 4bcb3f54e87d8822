package v1

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the error envelope every endpoint returns on failure.
type ErrorResponse struct {
	Message string `json:"message"`
}

// InfoResponse carries a human-readable status message.
type InfoResponse struct {
	Message string `json:"message"`
}

// CreateDocumentRequest is the payload for creating a document.
type CreateDocumentRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Format  string `json:"format" validate:"required,oneof=asvx md"`
	Content string `json:"content"`
}

// Validate checks that all fields in CreateDocumentRequest are valid
func (r *CreateDocumentRequest) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("validation failed for CreateDocumentRequest: %w", err)
	}
	return nil
}

// UpdateDocumentRequest is the payload for replacing a document's content.
type UpdateDocumentRequest struct {
	Content string `json:"content"`
}

// DocumentMetaResponse is the wire representation of document metadata.
type DocumentMetaResponse struct {
	ID               string    `json:"id"`
	DateTimeCreated  time.Time `json:"dateTimeCreated"`
	DateTimeModified time.Time `json:"dateTimeModified"`
	Title            string    `json:"title"`
	Format           string    `json:"format"`
	PageCount        int       `json:"pageCount"`
	SourcePDF        *string   `json:"sourcePdf,omitempty"`
}

// SpeakRequest is the payload for one-shot synthesis.
type SpeakRequest struct {
	Text  string  `json:"text" validate:"required"`
	Voice string  `json:"voice"`
	Speed float64 `json:"speed" validate:"omitempty,gt=0,lte=4"`
}

// Validate checks that all fields in SpeakRequest are valid
func (r *SpeakRequest) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("validation failed for SpeakRequest: %w", err)
	}
	return nil
}

// VoiceResponse is one available synthesis voice.
type VoiceResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Engine string `json:"engine"`
}

// ExtractPDFRequest is the payload for PDF text extraction.
type ExtractPDFRequest struct {
	PDFPath   string `json:"pdfPath" validate:"required"`
	Mode      string `json:"mode" validate:"required,oneof=text ocr"`
	FirstPage int    `json:"firstPage" validate:"min=0"`
	LastPage  int    `json:"lastPage" validate:"min=0"`
}

// Validate checks that all fields in ExtractPDFRequest are valid
func (r *ExtractPDFRequest) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("validation failed for ExtractPDFRequest: %w", err)
	}
	return nil
}

// ExtractionResponse is the result of a PDF extraction: the document in
// ASVX form plus the number of pages extracted.
type ExtractionResponse struct {
	Content   string `json:"content"`
	PageCount int    `json:"pageCount"`
}

// OCRResponse is the text recognized from a single image.
type OCRResponse struct {
	Text string `json:"text"`
}

// CatalogEntryResponse is one downloadable model.
type CatalogEntryResponse struct {
	Engine      string `json:"engine"`
	Name        string `json:"name"`
	ID          string `json:"id"`
	Description string `json:"description"`
	SizeMB      int    `json:"sizeMb"`
	Installed   bool   `json:"installed"`
}

// InstalledModelResponse is a model found on disk.
type InstalledModelResponse struct {
	Engine string `json:"engine"`
	ID     string `json:"id"`
	Path   string `json:"path"`
}

// DictationStatusResponse reports whether dictation is ready to start.
type DictationStatusResponse struct {
	Engine         string `json:"engine"`
	ModelInstalled bool   `json:"modelInstalled"`
}
