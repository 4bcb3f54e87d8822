package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cynsight/assistivox-ai/internal/domain/documents"
	"github.com/cynsight/assistivox-ai/internal/infrastructure/export"
	"github.com/cynsight/assistivox-ai/internal/pkg/asvx"
	"github.com/cynsight/assistivox-ai/internal/pkg/config"
	"github.com/cynsight/assistivox-ai/internal/pkg/logger"
	"github.com/cynsight/assistivox-ai/internal/pkg/mdtext"

	"github.com/spf13/cobra"
)

// DocumentCommandHandler encapsulates logic for local document conversion via CLI.
type DocumentCommandHandler struct {
	logger logger.Logger
}

// NewDocumentCommandHandler initializes and returns a DocumentCommandHandler
// instance with a configured logger.
func NewDocumentCommandHandler() (*DocumentCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	return &DocumentCommandHandler{
		logger: loggerInstance,
	}, nil
}

// loadAsMarkdown reads an asvx or markdown file and returns its markdown form.
func loadAsMarkdown(path string) (string, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}

	if asvx.IsASVXFile(path) {
		doc, err := asvx.Parse(string(data))
		if err != nil {
			return "", fmt.Errorf("invalid asvx content: %w", err)
		}
		return doc.ToMarkdown(), nil
	}
	return string(data), nil
}

// ExportDocumentCmd converts an asvx or markdown file to md, txt, html or pdf
func (commandHandler *DocumentCommandHandler) ExportDocumentCmd(cmd *cobra.Command, _ []string) {
	inputFilePath, err := cmd.Flags().GetString("input-file")
	if err != nil {
		commandHandler.logger.Error("invalid input-file flag ", err)
		return
	}
	outputFilePath, err := cmd.Flags().GetString("output-file")
	if err != nil {
		commandHandler.logger.Error("invalid output-file flag ", err)
		return
	}
	target, err := cmd.Flags().GetString("target")
	if err != nil {
		commandHandler.logger.Error("invalid target flag ", err)
		return
	}

	markdown, err := loadAsMarkdown(inputFilePath)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	var exported []byte
	switch target {
	case documents.ExportMarkdown:
		exported = []byte(markdown)
	case documents.ExportPlainText:
		plain, err := mdtext.ToPlainText(markdown)
		if err != nil {
			commandHandler.logger.Error(err)
			return
		}
		exported = []byte(plain)
	case documents.ExportHTML:
		html, err := mdtext.ToHTML(markdown)
		if err != nil {
			commandHandler.logger.Error(err)
			return
		}
		exported = []byte(html)
	case documents.ExportPDF:
		pdfExporter, err := export.NewMd2PDFExporter(config.DefaultRootDir(), commandHandler.logger)
		if err != nil {
			commandHandler.logger.Error(err)
			return
		}
		pdf, err := pdfExporter.Export(context.Background(), markdown)
		if err != nil {
			commandHandler.logger.Error(err)
			return
		}
		exported = pdf
	default:
		commandHandler.logger.Error("unsupported export target ", target)
		return
	}

	if outputFilePath == "" {
		base := filepath.Base(inputFilePath)
		outputFilePath = strings.TrimSuffix(base, filepath.Ext(base)) + "." + target
	}

	if err := os.WriteFile(outputFilePath, exported, 0600); err != nil {
		commandHandler.logger.Error(err)
		return
	}
	commandHandler.logger.Info("Exported document to ", outputFilePath)
}

// ConvertDocumentCmd converts between asvx and markdown in place
func (commandHandler *DocumentCommandHandler) ConvertDocumentCmd(cmd *cobra.Command, _ []string) {
	inputFilePath, err := cmd.Flags().GetString("input-file")
	if err != nil {
		commandHandler.logger.Error("invalid input-file flag ", err)
		return
	}
	outputFilePath, err := cmd.Flags().GetString("output-file")
	if err != nil {
		commandHandler.logger.Error("invalid output-file flag ", err)
		return
	}

	data, err := os.ReadFile(filepath.Clean(inputFilePath))
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	var converted string
	var extension string
	if asvx.IsASVXFile(inputFilePath) {
		doc, err := asvx.Parse(string(data))
		if err != nil {
			commandHandler.logger.Error(err)
			return
		}
		converted = doc.ToMarkdown()
		extension = ".md"
	} else {
		converted = asvx.FromMarkdown(string(data)).Serialize()
		extension = asvx.Extension
	}

	if outputFilePath == "" {
		base := filepath.Base(inputFilePath)
		outputFilePath = strings.TrimSuffix(base, filepath.Ext(base)) + extension
	}

	if err := os.WriteFile(outputFilePath, []byte(converted), 0600); err != nil {
		commandHandler.logger.Error(err)
		return
	}
	commandHandler.logger.Info("Converted document to ", outputFilePath)
}

// InitDocumentCommands registers document-related commands
func InitDocumentCommands(rootCmd *cobra.Command) error {
	handler, err := NewDocumentCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create document command handler %w", err)
	}

	var exportCmd = &cobra.Command{
		Use:   "export-document",
		Short: "Export an ASVX or markdown file to md, txt, html or pdf",
		Run:   handler.ExportDocumentCmd,
	}
	exportCmd.Flags().StringP("input-file", "", "", "Path to the ASVX or markdown file")
	exportCmd.Flags().StringP("output-file", "", "", "Path to the exported output file")
	exportCmd.Flags().StringP("target", "", "txt", "Export target (md, txt, html or pdf)")
	rootCmd.AddCommand(exportCmd)

	var convertCmd = &cobra.Command{
		Use:   "convert-document",
		Short: "Convert between ASVX and markdown",
		Run:   handler.ConvertDocumentCmd,
	}
	convertCmd.Flags().StringP("input-file", "", "", "Path to the ASVX or markdown file")
	convertCmd.Flags().StringP("output-file", "", "", "Path to the converted output file")
	rootCmd.AddCommand(convertCmd)

	return nil
}
