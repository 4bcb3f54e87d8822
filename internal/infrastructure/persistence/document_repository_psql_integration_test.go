//go:build integration
// +build integration

package persistence

import (
	"context"
	"testing"

	"github.com/cynsight/assistivox-ai/internal/domain/documents"
	"github.com/cynsight/assistivox-ai/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requires a local PostgreSQL reachable with the credentials in SetupTestDB.

func TestDocumentPsqlRepository_CreateAndGet(t *testing.T) {
	ctx := SetupTestDB(t, config.PostgresDbType)

	doc := CreateTestDocument(t, "psql-document")
	require.NoError(t, ctx.DocumentRepo.Create(context.Background(), doc))

	fetched, err := ctx.DocumentRepo.GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, fetched.ID)
	assert.Equal(t, doc.Title, fetched.Title)
}

func TestDocumentPsqlRepository_List_Empty(t *testing.T) {
	ctx := SetupTestDB(t, config.PostgresDbType)

	list, err := ctx.DocumentRepo.List(context.Background(), &documents.DocumentMetaQuery{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDocumentPsqlRepository_List_FilterByFormat(t *testing.T) {
	ctx := SetupTestDB(t, config.PostgresDbType)

	asvxDoc := CreateTestDocumentWithOptions(t, "asvx-doc", documents.FormatASVX, 2)
	mdDoc := CreateTestDocumentWithOptions(t, "md-doc", documents.FormatMarkdown, 1)
	require.NoError(t, ctx.DocumentRepo.Create(context.Background(), asvxDoc))
	require.NoError(t, ctx.DocumentRepo.Create(context.Background(), mdDoc))

	query := &documents.DocumentMetaQuery{Format: documents.FormatMarkdown}
	list, err := ctx.DocumentRepo.List(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "md-doc", list[0].Title)
}

func TestDocumentPsqlRepository_Delete(t *testing.T) {
	ctx := SetupTestDB(t, config.PostgresDbType)

	doc := CreateTestDocument(t, "psql-document")
	require.NoError(t, ctx.DocumentRepo.Create(context.Background(), doc))
	require.NoError(t, ctx.DocumentRepo.DeleteByID(context.Background(), doc.ID))

	_, err := ctx.DocumentRepo.GetByID(context.Background(), doc.ID)
	assert.Error(t, err)
}
