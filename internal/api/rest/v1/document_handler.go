package v1

import (
	"fmt"
	"net/http"

	"github.com/cynsight/assistivox-ai/internal/domain/documents"
	"github.com/cynsight/assistivox-ai/internal/pkg/strutil"

	"github.com/gin-gonic/gin"
)

// DocumentHandler defines the interface for handling document-related operations
type DocumentHandler interface {
	Create(ctx *gin.Context)
	ListMetadata(ctx *gin.Context)
	GetMetadataByID(ctx *gin.Context)
	DownloadByID(ctx *gin.Context)
	UpdateContentByID(ctx *gin.Context)
	DeleteByID(ctx *gin.Context)
	Export(ctx *gin.Context)
}

// documentHandler struct holds the document service
type documentHandler struct {
	documentService documents.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documentService documents.DocumentService) DocumentHandler {
	return &documentHandler{
		documentService: documentService,
	}
}

func toDocumentMetaResponse(meta *documents.DocumentMeta) DocumentMetaResponse {
	return DocumentMetaResponse{
		ID:               meta.ID,
		DateTimeCreated:  meta.DateTimeCreated,
		DateTimeModified: meta.DateTimeModified,
		Title:            meta.Title,
		Format:           meta.Format,
		PageCount:        meta.PageCount,
		SourcePDF:        meta.SourcePDF,
	}
}

// Create stores a new document
func (handler *documentHandler) Create(ctx *gin.Context) {
	var request CreateDocumentRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	if err := request.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("validation failed: %v", err)})
		return
	}

	meta, err := handler.documentService.Create(ctx, request.Title, request.Format, request.Content)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("error creating document: %v", err)})
		return
	}

	ctx.JSON(http.StatusCreated, toDocumentMetaResponse(meta))
}

// ListMetadata fetches documents metadata optionally with query parameters
func (handler *documentHandler) ListMetadata(ctx *gin.Context) {
	query := documents.NewDocumentMetaQuery()

	if title := ctx.Query("title"); len(title) > 0 {
		query.Title = title
	}

	if format := ctx.Query("format"); len(format) > 0 {
		query.Format = format
	}

	if limit := ctx.Query("limit"); len(limit) > 0 {
		// Unparseable limits come back as 0, which would skip the Limit
		// clause and return unbounded rows. Keep the default cap instead.
		if parsed := strutil.ConvertToInt(limit); parsed > 0 {
			query.Limit = parsed
		}
	}

	if offset := ctx.Query("offset"); len(offset) > 0 {
		query.Offset = strutil.ConvertToInt(offset)
	}

	if sortBy := ctx.Query("sortBy"); len(sortBy) > 0 {
		query.SortBy = sortBy
	}

	if sortOrder := ctx.Query("sortOrder"); len(sortOrder) > 0 {
		query.SortOrder = sortOrder
	}

	if err := query.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("validation failed: %v", err)})
		return
	}

	metas, err := handler.documentService.List(ctx, query)
	if err != nil {
		ctx.JSON(http.StatusNotFound, ErrorResponse{Message: fmt.Sprintf("list query failed: %v", err)})
		return
	}

	listResponse := []DocumentMetaResponse{}
	for _, meta := range metas {
		listResponse = append(listResponse, toDocumentMetaResponse(meta))
	}

	ctx.JSON(http.StatusOK, listResponse)
}

// GetMetadataByID fetches document metadata by ID
func (handler *documentHandler) GetMetadataByID(ctx *gin.Context) {
	documentID := ctx.Param("id")

	meta, err := handler.documentService.GetByID(ctx, documentID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, ErrorResponse{Message: fmt.Sprintf("document with id %s not found", documentID)})
		return
	}

	ctx.JSON(http.StatusOK, toDocumentMetaResponse(meta))
}

// DownloadByID downloads a document's content file by ID
func (handler *documentHandler) DownloadByID(ctx *gin.Context) {
	documentID := ctx.Param("id")

	meta, err := handler.documentService.GetByID(ctx, documentID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, ErrorResponse{Message: fmt.Sprintf("document with id %s not found", documentID)})
		return
	}

	content, err := handler.documentService.GetContent(ctx, documentID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, ErrorResponse{Message: fmt.Sprintf("could not read content of document %s: %v", documentID, err)})
		return
	}

	filename := meta.Title + "." + meta.Format
	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	ctx.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(content))
}

// UpdateContentByID replaces a document's content
func (handler *documentHandler) UpdateContentByID(ctx *gin.Context) {
	documentID := ctx.Param("id")

	var request UpdateDocumentRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	meta, err := handler.documentService.UpdateContent(ctx, documentID, request.Content)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("error updating document %s: %v", documentID, err)})
		return
	}

	ctx.JSON(http.StatusOK, toDocumentMetaResponse(meta))
}

// DeleteByID deletes a document by ID
func (handler *documentHandler) DeleteByID(ctx *gin.Context) {
	documentID := ctx.Param("id")

	if err := handler.documentService.DeleteByID(ctx, documentID); err != nil {
		ctx.JSON(http.StatusNotFound, ErrorResponse{Message: fmt.Sprintf("document with id %s not found", documentID)})
		return
	}

	ctx.JSON(http.StatusNoContent, InfoResponse{Message: fmt.Sprintf("deleted document with id %s", documentID)})
}

// Export converts a document to the requested target format
func (handler *documentHandler) Export(ctx *gin.Context) {
	documentID := ctx.Param("id")

	target := ctx.Query("target")
	if target == "" {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "target query parameter is required (md, txt, html or pdf)"})
		return
	}

	data, filename, err := handler.documentService.Export(ctx, documentID, target)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("could not export document %s: %v", documentID, err)})
		return
	}

	contentType := "application/octet-stream"
	switch target {
	case documents.ExportMarkdown, documents.ExportPlainText:
		contentType = "text/plain; charset=utf-8"
	case documents.ExportHTML:
		contentType = "text/html; charset=utf-8"
	case documents.ExportPDF:
		contentType = "application/pdf"
	}

	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	ctx.Data(http.StatusOK, contentType, data)
}
