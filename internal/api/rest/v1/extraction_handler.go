package v1

import (
	"fmt"
	"io"
	"net/http"

	"github.com/cynsight/assistivox-ai/internal/domain/vision"

	"github.com/gin-gonic/gin"
)

// maxImageUploadBytes caps OCR image uploads.
const maxImageUploadBytes = 32 << 20

// ExtractionHandler defines the interface for handling PDF and image extraction
type ExtractionHandler interface {
	ExtractPDF(ctx *gin.Context)
	RecognizeImage(ctx *gin.Context)
}

// extractionHandler struct holds the extraction service
type extractionHandler struct {
	extractionService vision.ExtractionService
}

// NewExtractionHandler creates a new ExtractionHandler
func NewExtractionHandler(extractionService vision.ExtractionService) ExtractionHandler {
	return &extractionHandler{
		extractionService: extractionService,
	}
}

// ExtractPDF extracts a PDF's pages into an ASVX document
func (handler *extractionHandler) ExtractPDF(ctx *gin.Context) {
	var request ExtractPDFRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	if err := request.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("validation failed: %v", err)})
		return
	}

	doc, err := handler.extractionService.ExtractPDF(ctx, &vision.ExtractionRequest{
		PDFPath:   request.PDFPath,
		Mode:      request.Mode,
		FirstPage: request.FirstPage,
		LastPage:  request.LastPage,
	})
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("extraction failed: %v", err)})
		return
	}

	ctx.JSON(http.StatusOK, ExtractionResponse{
		Content:   doc.Serialize(),
		PageCount: len(doc.Pages),
	})
}

// RecognizeImage runs OCR over an uploaded image
func (handler *extractionHandler) RecognizeImage(ctx *gin.Context) {
	file, _, err := ctx.Request.FormFile("image")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "image form file is required"})
		return
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(file, maxImageUploadBytes))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("could not read image: %v", err)})
		return
	}

	text, err := handler.extractionService.RecognizeImage(ctx, data)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("recognition failed: %v", err)})
		return
	}

	ctx.JSON(http.StatusOK, OCRResponse{Text: text})
}
