//go:build unit
// +build unit

package connector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cynsight/assistivox-ai/internal/domain/documents"
	"github.com/cynsight/assistivox-ai/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupContentStore(t *testing.T) documents.ContentStore {
	t.Helper()

	store, err := NewFileContentStore(t.TempDir(), testutil.SetupTestLogger(t))
	require.NoError(t, err)
	return store
}

func TestFileContentStore_WriteAndRead(t *testing.T) {
	store := setupContentStore(t)

	path, err := store.Write("doc-1", documents.FormatASVX, "{asvx|page|num:1}\n\nhello")
	require.NoError(t, err)
	assert.Equal(t, "doc-1.asvx", filepath.Base(path))

	content, err := store.Read("doc-1", documents.FormatASVX)
	require.NoError(t, err)
	assert.Equal(t, "{asvx|page|num:1}\n\nhello", content)
}

func TestFileContentStore_WriteOverwrites(t *testing.T) {
	store := setupContentStore(t)

	_, err := store.Write("doc-1", documents.FormatMarkdown, "first")
	require.NoError(t, err)
	_, err = store.Write("doc-1", documents.FormatMarkdown, "second")
	require.NoError(t, err)

	content, err := store.Read("doc-1", documents.FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "second", content)
}

func TestFileContentStore_ReadMissing(t *testing.T) {
	store := setupContentStore(t)

	_, err := store.Read("missing", documents.FormatASVX)
	assert.Error(t, err)
}

func TestFileContentStore_Delete(t *testing.T) {
	store := setupContentStore(t)

	path, err := store.Write("doc-1", documents.FormatASVX, "content")
	require.NoError(t, err)

	require.NoError(t, store.Delete("doc-1", documents.FormatASVX))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Deleting a missing document is a no-op.
	assert.NoError(t, store.Delete("doc-1", documents.FormatASVX))
}
