//go:build integration
// +build integration

package persistence

import (
	"strings"
	"testing"
	"time"

	"github.com/cynsight/assistivox-ai/internal/domain/documents"
	"github.com/cynsight/assistivox-ai/internal/infrastructure/persistence/models"
	"github.com/cynsight/assistivox-ai/internal/pkg/config"
	"github.com/cynsight/assistivox-ai/internal/pkg/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestContext holds test database and repositories
type TestContext struct {
	DB           *gorm.DB
	DocumentRepo documents.DocumentRepository
}

// SetupTestDB initializes test database with automatic cleanup
func SetupTestDB(t *testing.T, dbType string) *TestContext {
	t.Helper()

	var settings config.DatabaseSettings
	var cleanupFunc func()

	switch dbType {
	case config.SqliteDbType:
		settings = config.DatabaseSettings{
			Type: config.SqliteDbType,
			DSN:  ":memory:",
		}
		cleanupFunc = func() {
			// SQLite in-memory cleanup is automatic
		}

	case config.PostgresDbType:
		uniqueDBName := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
		settings = config.DatabaseSettings{
			Type:   config.PostgresDbType,
			DSN:    "user=postgres password=postgres host=localhost port=5432 sslmode=disable",
			DBName: uniqueDBName,
		}
		cleanupFunc = func() {
			adminDSN := "user=postgres password=postgres host=localhost port=5432 dbname=postgres sslmode=disable"
			_ = DropDatabase(adminDSN, uniqueDBName)
		}

	default:
		t.Fatalf("Unsupported database type: %s", dbType)
	}

	// Create connection
	db, err := NewDBConnection(settings)
	require.NoError(t, err, "Failed to create database connection")

	// Register cleanup
	t.Cleanup(func() {
		_ = CloseDB(db)
		cleanupFunc()
	})

	// Migrate schema
	err = db.AutoMigrate(&models.DocumentModel{})
	require.NoError(t, err, "Failed to migrate schema")

	// Create repositories
	logger := testutil.SetupTestLogger(t)

	documentRepo, err := NewGormDocumentRepository(db, logger)
	require.NoError(t, err, "Failed to create document repository")

	return &TestContext{
		DB:           db,
		DocumentRepo: documentRepo,
	}
}

// CreateTestDocument creates a test document with default values
func CreateTestDocument(t *testing.T, title string) *documents.DocumentMeta {
	t.Helper()

	if title == "" {
		title = "test-document"
	}

	now := time.Now()
	return &documents.DocumentMeta{
		ID:               uuid.NewString(),
		DateTimeCreated:  now,
		DateTimeModified: now,
		Title:            title,
		Format:           documents.FormatASVX,
		PageCount:        1,
	}
}

// CreateTestDocumentWithOptions creates a test document with custom options
func CreateTestDocumentWithOptions(t *testing.T, title, format string, pageCount int) *documents.DocumentMeta {
	t.Helper()

	now := time.Now()
	return &documents.DocumentMeta{
		ID:               uuid.NewString(),
		DateTimeCreated:  now,
		DateTimeModified: now,
		Title:            title,
		Format:           format,
		PageCount:        pageCount,
	}
}
