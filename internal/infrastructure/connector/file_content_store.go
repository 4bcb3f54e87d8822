// Package connector provides implementations for the external resources the
// services depend on: document content files on disk and model archives
// fetched over HTTP.
package connector

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cynsight/assistivox-ai/internal/domain/documents"
	"github.com/cynsight/assistivox-ai/internal/pkg/logger"
)

type fileContentStore struct {
	rootDir string
	logger  logger.Logger
}

// NewFileContentStore creates a ContentStore that keeps document content
// under <rootDir>/documents, one file per document.
func NewFileContentStore(rootDir string, logger logger.Logger) (documents.ContentStore, error) {
	dir := filepath.Join(rootDir, "documents")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create documents directory: %w", err)
	}
	return &fileContentStore{
		rootDir: dir,
		logger:  logger,
	}, nil
}

func (s *fileContentStore) path(documentID, format string) string {
	return filepath.Join(s.rootDir, documentID+"."+format)
}

func (s *fileContentStore) Write(documentID, format, content string) (string, error) {
	path := s.path(documentID, format)

	// Write-then-rename so a crash never leaves a half-written document.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write document content: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("failed to finalize document content: %w", err)
	}

	s.logger.Info("Stored document content at ", path)
	return path, nil
}

func (s *fileContentStore) Read(documentID, format string) (string, error) {
	data, err := os.ReadFile(s.path(documentID, format))
	if err != nil {
		return "", fmt.Errorf("failed to read document content: %w", err)
	}
	return string(data), nil
}

func (s *fileContentStore) Delete(documentID, format string) error {
	path := s.path(documentID, format)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete document content: %w", err)
	}

	s.logger.Info("Deleted document content at ", path)
	return nil
}
