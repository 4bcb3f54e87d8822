//go:build unit
// +build unit

package models

import (
	"testing"
	"time"

	"github.com/cynsight/assistivox-ai/internal/domain/documents"
	"github.com/stretchr/testify/assert"
)

func TestDocumentModel_ToDomain(t *testing.T) {
	source := "/home/user/report.pdf"
	model := &DocumentModel{
		ID:               "test-id",
		DateTimeCreated:  time.Now(),
		DateTimeModified: time.Now(),
		Title:            "Quarterly report",
		Format:           documents.FormatASVX,
		PageCount:        12,
		SourcePDF:        &source,
	}

	meta := model.ToDomain()

	assert.Equal(t, model.ID, meta.ID)
	assert.Equal(t, model.DateTimeCreated, meta.DateTimeCreated)
	assert.Equal(t, model.DateTimeModified, meta.DateTimeModified)
	assert.Equal(t, model.Title, meta.Title)
	assert.Equal(t, model.Format, meta.Format)
	assert.Equal(t, model.PageCount, meta.PageCount)
	assert.Equal(t, &source, meta.SourcePDF)
}

func TestDocumentModel_FromDomain(t *testing.T) {
	meta := &documents.DocumentMeta{
		ID:               "test-id",
		DateTimeCreated:  time.Now(),
		DateTimeModified: time.Now(),
		Title:            "Meeting notes",
		Format:           documents.FormatMarkdown,
		PageCount:        1,
		SourcePDF:        nil,
	}

	model := &DocumentModel{}
	model.FromDomain(meta)

	assert.Equal(t, meta.ID, model.ID)
	assert.Equal(t, meta.DateTimeCreated, model.DateTimeCreated)
	assert.Equal(t, meta.DateTimeModified, model.DateTimeModified)
	assert.Equal(t, meta.Title, model.Title)
	assert.Equal(t, meta.Format, model.Format)
	assert.Equal(t, meta.PageCount, model.PageCount)
	assert.Nil(t, model.SourcePDF)
}
