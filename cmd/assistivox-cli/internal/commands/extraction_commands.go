package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cynsight/assistivox-ai/internal/app"
	"github.com/cynsight/assistivox-ai/internal/domain/vision"
	infravision "github.com/cynsight/assistivox-ai/internal/infrastructure/vision"
	"github.com/cynsight/assistivox-ai/internal/pkg/config"
	"github.com/cynsight/assistivox-ai/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// ExtractionCommandHandler encapsulates logic for PDF and image extraction via CLI.
type ExtractionCommandHandler struct {
	extractionService vision.ExtractionService
	logger            logger.Logger
}

// NewExtractionCommandHandler initializes and returns an ExtractionCommandHandler
// instance with configured logger and extraction service.
func NewExtractionCommandHandler() (*ExtractionCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	settings := config.VisionSettings{
		OCREngine: config.OCREngineTesseract,
		Languages: []string{"eng"},
		DPI:       300,
		Workers:   2,
	}

	extractor, err := infravision.NewFitzExtractor(loggerInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF extractor: %w", err)
	}

	ocrEngine, err := infravision.NewTesseractEngine(settings, loggerInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to create OCR engine: %w", err)
	}

	extractionService, err := app.NewExtractionService(extractor, extractor, ocrEngine, settings, loggerInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction service: %w", err)
	}

	return &ExtractionCommandHandler{
		extractionService: extractionService,
		logger:            loggerInstance,
	}, nil
}

// ExtractPDFCmd extracts a PDF into an ASVX file
func (commandHandler *ExtractionCommandHandler) ExtractPDFCmd(cmd *cobra.Command, _ []string) {
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
	mode, err := cmd.Flags().GetString("mode")
	if err != nil {
		commandHandler.logger.Error("invalid mode flag ", err)
		return
	}
	firstPage, err := cmd.Flags().GetInt("first-page")
	if err != nil {
		commandHandler.logger.Error("invalid first-page flag ", err)
		return
	}
	lastPage, err := cmd.Flags().GetInt("last-page")
	if err != nil {
		commandHandler.logger.Error("invalid last-page flag ", err)
		return
	}

	doc, err := commandHandler.extractionService.ExtractPDF(context.Background(), &vision.ExtractionRequest{
		PDFPath:   inputFilePath,
		Mode:      mode,
		FirstPage: firstPage,
		LastPage:  lastPage,
	})
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	if outputFilePath == "" {
		base := filepath.Base(inputFilePath)
		outputFilePath = base[:len(base)-len(filepath.Ext(base))] + ".asvx"
	}

	if err := os.WriteFile(outputFilePath, []byte(doc.Serialize()), 0600); err != nil {
		commandHandler.logger.Error(err)
		return
	}
	commandHandler.logger.Info("Extracted ", len(doc.Pages), " pages to ", outputFilePath)
}

// OCRImageCmd recognizes text in an image file and prints it
func (commandHandler *ExtractionCommandHandler) OCRImageCmd(cmd *cobra.Command, _ []string) {
	inputFilePath, err := cmd.Flags().GetString("input-file")
	if err != nil {
		commandHandler.logger.Error("invalid input-file flag ", err)
		return
	}

	data, err := os.ReadFile(filepath.Clean(inputFilePath))
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	text, err := commandHandler.extractionService.RecognizeImage(context.Background(), data)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	fmt.Println(text)
}

// InitExtractionCommands registers extraction-related commands
func InitExtractionCommands(rootCmd *cobra.Command) error {
	handler, err := NewExtractionCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create extraction command handler %w", err)
	}

	var extractPDFCmd = &cobra.Command{
		Use:   "extract-pdf",
		Short: "Extract a PDF's text into an ASVX file",
		Run:   handler.ExtractPDFCmd,
	}
	extractPDFCmd.Flags().StringP("input-file", "", "", "Path to the PDF file")
	extractPDFCmd.Flags().StringP("output-file", "", "", "Path to the ASVX output file")
	extractPDFCmd.Flags().StringP("mode", "", "text", "Extraction mode (text or ocr)")
	extractPDFCmd.Flags().IntP("first-page", "", 0, "First page to extract (0 means from the start)")
	extractPDFCmd.Flags().IntP("last-page", "", 0, "Last page to extract (0 means to the end)")
	rootCmd.AddCommand(extractPDFCmd)

	var ocrImageCmd = &cobra.Command{
		Use:   "ocr-image",
		Short: "Recognize text in an image file",
		Run:   handler.OCRImageCmd,
	}
	ocrImageCmd.Flags().StringP("input-file", "", "", "Path to the image file")
	rootCmd.AddCommand(ocrImageCmd)

	return nil
}
