package v1

import (
	"net/http"

	"github.com/cynsight/assistivox-ai/internal/domain/dictation"
	"github.com/cynsight/assistivox-ai/internal/domain/documents"
	"github.com/cynsight/assistivox-ai/internal/domain/models"
	"github.com/cynsight/assistivox-ai/internal/domain/speech"
	"github.com/cynsight/assistivox-ai/internal/domain/vision"
	"github.com/cynsight/assistivox-ai/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up all the API routes for version 1.
func SetupRoutes(r *gin.Engine,
	documentService documents.DocumentService,
	synthesizer speech.Synthesizer,
	voiceProvider speech.VoiceProvider,
	extractionService vision.ExtractionService,
	modelService models.ModelService,
	dictationService dictation.DictationService,
	engineName string,
	log logger.Logger) {

	v1 := r.Group(BasePath) // lookup in version file

	v1.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, InfoResponse{Message: "ok"})
	})

	// Documents Routes
	documentHandler := NewDocumentHandler(documentService)
	v1.POST("/documents", documentHandler.Create)
	v1.GET("/documents", documentHandler.ListMetadata)
	v1.GET("/documents/:id", documentHandler.GetMetadataByID)
	v1.GET("/documents/:id/file", documentHandler.DownloadByID)
	v1.PUT("/documents/:id", documentHandler.UpdateContentByID)
	v1.DELETE("/documents/:id", documentHandler.DeleteByID)
	v1.GET("/documents/:id/export", documentHandler.Export)

	// Speech Routes
	speechHandler := NewSpeechHandler(synthesizer, voiceProvider)
	v1.POST("/speech", speechHandler.Synthesize)
	v1.GET("/speech/voices", speechHandler.ListVoices)

	// Extraction Routes
	extractionHandler := NewExtractionHandler(extractionService)
	v1.POST("/extractions", extractionHandler.ExtractPDF)
	v1.POST("/extractions/ocr", extractionHandler.RecognizeImage)

	// Models Routes
	modelHandler := NewModelHandler(modelService)
	v1.GET("/models", modelHandler.ListCatalog)
	v1.GET("/models/installed", modelHandler.ListInstalled)
	v1.POST("/models/:engine/:name", modelHandler.Install)

	// Dictation Routes
	dictationHandler := NewDictationHandler(dictationService, engineName, log)
	v1.GET("/dictation", dictationHandler.Stream)
	v1.GET("/dictation/status", dictationHandler.Status)
}
