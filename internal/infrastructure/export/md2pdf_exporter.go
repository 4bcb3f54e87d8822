// Package export renders markdown to PDF by delegating to the md2pdf Docker
// image with a mounted cache directory.
package export

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cynsight/assistivox-ai/internal/domain/documents"
	"github.com/cynsight/assistivox-ai/internal/pkg/logger"
)

const md2pdfImage = "jmaupetit/md2pdf"

type md2pdfExporter struct {
	cacheDir string
	logger   logger.Logger
}

// NewMd2PDFExporter creates a PDFExporter that runs md2pdf in Docker,
// exchanging files through <rootDir>/cache.
func NewMd2PDFExporter(rootDir string, logger logger.Logger) (documents.PDFExporter, error) {
	cacheDir := filepath.Join(rootDir, "cache")
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &md2pdfExporter{
		cacheDir: cacheDir,
		logger:   logger,
	}, nil
}

// Export writes the markdown into the cache directory, converts it inside
// the container and returns the produced PDF.
func (e *md2pdfExporter) Export(ctx context.Context, markdown string) ([]byte, error) {
	if err := exec.CommandContext(ctx, "docker", "--version").Run(); err != nil {
		return nil, fmt.Errorf("docker is not available for PDF export: %w", err)
	}

	mdPath := filepath.Join(e.cacheDir, "temp_document.md")
	pdfPath := filepath.Join(e.cacheDir, "temp_document.pdf")
	defer func() {
		_ = os.Remove(mdPath)
		_ = os.Remove(pdfPath)
	}()

	if err := os.WriteFile(mdPath, []byte(markdown), 0o644); err != nil {
		return nil, fmt.Errorf("failed to stage markdown: %w", err)
	}

	args := []string{
		"run", "--rm",
		"-v", e.cacheDir + ":/app",
		"-w", "/app",
		md2pdfImage,
		"temp_document.md", "temp_document.pdf",
	}
	if out, err := exec.CommandContext(ctx, "docker", args...).CombinedOutput(); err != nil {
		return nil, fmt.Errorf("md2pdf conversion failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	pdf, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("md2pdf produced no output: %w", err)
	}

	e.logger.Info("Exported PDF via md2pdf (", len(pdf), " bytes)")
	return pdf, nil
}
