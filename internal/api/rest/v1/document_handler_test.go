//go:build unit
// +build unit

package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cynsight/assistivox-ai/internal/domain/documents"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDocumentTestRouter(service documents.DocumentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	handler := NewDocumentHandler(service)
	r.POST("/documents", handler.Create)
	r.GET("/documents", handler.ListMetadata)
	r.GET("/documents/:id", handler.GetMetadataByID)
	r.GET("/documents/:id/file", handler.DownloadByID)
	r.PUT("/documents/:id", handler.UpdateContentByID)
	r.DELETE("/documents/:id", handler.DeleteByID)
	r.GET("/documents/:id/export", handler.Export)
	return r
}

func sampleMeta() *documents.DocumentMeta {
	return &documents.DocumentMeta{
		ID:               "3c0f6bd4-ff46-49ae-bd4c-af5a27c2a2f6",
		DateTimeCreated:  time.Now(),
		DateTimeModified: time.Now(),
		Title:            "Meeting Notes",
		Format:           documents.FormatMarkdown,
		PageCount:        1,
	}
}

func TestDocumentHandlerCreate(t *testing.T) {
	service := new(MockDocumentService)
	meta := sampleMeta()
	service.On("Create", mock.Anything, "Meeting Notes", "md", "# Agenda").Return(meta, nil)

	body, _ := json.Marshal(CreateDocumentRequest{Title: "Meeting Notes", Format: "md", Content: "# Agenda"})
	req, _ := http.NewRequest("POST", "/documents", bytes.NewReader(body))
	w := httptest.NewRecorder()
	newDocumentTestRouter(service).ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var response DocumentMetaResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, meta.ID, response.ID)
	assert.Equal(t, "Meeting Notes", response.Title)
	service.AssertExpectations(t)
}

func TestDocumentHandlerCreateRejectsInvalidFormat(t *testing.T) {
	service := new(MockDocumentService)

	body, _ := json.Marshal(CreateDocumentRequest{Title: "Notes", Format: "docx"})
	req, _ := http.NewRequest("POST", "/documents", bytes.NewReader(body))
	w := httptest.NewRecorder()
	newDocumentTestRouter(service).ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response.Message, "validation failed")
	service.AssertNotCalled(t, "Create")
}

func TestDocumentHandlerList(t *testing.T) {
	service := new(MockDocumentService)
	service.On("List", mock.Anything, mock.MatchedBy(func(query *documents.DocumentMetaQuery) bool {
		return query.Format == "asvx" && query.Limit == 10
	})).Return([]*documents.DocumentMeta{sampleMeta()}, nil)

	req, _ := http.NewRequest("GET", "/documents?format=asvx&limit=10", nil)
	w := httptest.NewRecorder()
	newDocumentTestRouter(service).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var response []DocumentMetaResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response, 1)
	service.AssertExpectations(t)
}

func TestDocumentHandlerListKeepsDefaultLimitForUnparseableValues(t *testing.T) {
	service := new(MockDocumentService)
	service.On("List", mock.Anything, mock.MatchedBy(func(query *documents.DocumentMetaQuery) bool {
		return query.Limit == documents.MaxListLimit
	})).Return([]*documents.DocumentMeta{}, nil)

	for _, limit := range []string{"0", "abc"} {
		req, _ := http.NewRequest("GET", "/documents?limit="+limit, nil)
		w := httptest.NewRecorder()
		newDocumentTestRouter(service).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
	}
	service.AssertExpectations(t)
}

func TestDocumentHandlerListRejectsInvalidQuery(t *testing.T) {
	service := new(MockDocumentService)

	req, _ := http.NewRequest("GET", "/documents?sortBy=color", nil)
	w := httptest.NewRecorder()
	newDocumentTestRouter(service).ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	service.AssertNotCalled(t, "List")
}

func TestDocumentHandlerGetMetadataNotFound(t *testing.T) {
	service := new(MockDocumentService)
	service.On("GetByID", mock.Anything, "missing").Return(nil, fmt.Errorf("not found"))

	req, _ := http.NewRequest("GET", "/documents/missing", nil)
	w := httptest.NewRecorder()
	newDocumentTestRouter(service).ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDocumentHandlerDownload(t *testing.T) {
	service := new(MockDocumentService)
	meta := sampleMeta()
	service.On("GetByID", mock.Anything, meta.ID).Return(meta, nil)
	service.On("GetContent", mock.Anything, meta.ID).Return("# Agenda", nil)

	req, _ := http.NewRequest("GET", "/documents/"+meta.ID+"/file", nil)
	w := httptest.NewRecorder()
	newDocumentTestRouter(service).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "# Agenda", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Meeting Notes.md")
}

func TestDocumentHandlerUpdateContent(t *testing.T) {
	service := new(MockDocumentService)
	meta := sampleMeta()
	service.On("UpdateContent", mock.Anything, meta.ID, "updated text").Return(meta, nil)

	body, _ := json.Marshal(UpdateDocumentRequest{Content: "updated text"})
	req, _ := http.NewRequest("PUT", "/documents/"+meta.ID, bytes.NewReader(body))
	w := httptest.NewRecorder()
	newDocumentTestRouter(service).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	service.AssertExpectations(t)
}

func TestDocumentHandlerDelete(t *testing.T) {
	service := new(MockDocumentService)
	service.On("DeleteByID", mock.Anything, "doc-1").Return(nil)

	req, _ := http.NewRequest("DELETE", "/documents/doc-1", nil)
	w := httptest.NewRecorder()
	newDocumentTestRouter(service).ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	service.AssertExpectations(t)
}

func TestDocumentHandlerExport(t *testing.T) {
	service := new(MockDocumentService)
	service.On("Export", mock.Anything, "doc-1", "pdf").Return([]byte("%PDF-1.4"), "Meeting Notes.pdf", nil)

	req, _ := http.NewRequest("GET", "/documents/doc-1/export?target=pdf", nil)
	w := httptest.NewRecorder()
	newDocumentTestRouter(service).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Meeting Notes.pdf")
	assert.Equal(t, "%PDF-1.4", w.Body.String())
}

func TestDocumentHandlerExportRequiresTarget(t *testing.T) {
	service := new(MockDocumentService)

	req, _ := http.NewRequest("GET", "/documents/doc-1/export", nil)
	w := httptest.NewRecorder()
	newDocumentTestRouter(service).ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	service.AssertNotCalled(t, "Export")
}
