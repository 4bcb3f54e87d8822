package models

import (
	"time"

	"github.com/cynsight/assistivox-ai/internal/domain/documents"
)

// DocumentModel is the GORM database model for documents (infrastructure concern)
type DocumentModel struct {
	ID               string    `gorm:"primaryKey;type:uuid"`
	DateTimeCreated  time.Time `gorm:"not null;column:created_at"`
	DateTimeModified time.Time `gorm:"not null;column:updated_at"`
	Title            string    `gorm:"not null;index;type:varchar(255)"`
	Format           string    `gorm:"not null;type:varchar(10)"`
	PageCount        int       `gorm:"not null"`
	SourcePDF        *string   `gorm:"type:varchar(1024)"`
}

// TableName specifies the table name for GORM
func (DocumentModel) TableName() string {
	return "documents"
}

// ToDomain converts GORM model to domain entity
func (m *DocumentModel) ToDomain() *documents.DocumentMeta {
	return &documents.DocumentMeta{
		ID:               m.ID,
		DateTimeCreated:  m.DateTimeCreated,
		DateTimeModified: m.DateTimeModified,
		Title:            m.Title,
		Format:           m.Format,
		PageCount:        m.PageCount,
		SourcePDF:        m.SourcePDF,
	}
}

// FromDomain converts domain entity to GORM model
func (m *DocumentModel) FromDomain(d *documents.DocumentMeta) {
	m.ID = d.ID
	m.DateTimeCreated = d.DateTimeCreated
	m.DateTimeModified = d.DateTimeModified
	m.Title = d.Title
	m.Format = d.Format
	m.PageCount = d.PageCount
	m.SourcePDF = d.SourcePDF
}
