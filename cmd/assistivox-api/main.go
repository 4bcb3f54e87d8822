// cmd/assistivox-api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "github.com/cynsight/assistivox-ai/internal/api/rest/v1"
	"github.com/cynsight/assistivox-ai/internal/app"
	"github.com/cynsight/assistivox-ai/internal/domain/dictation"
	"github.com/cynsight/assistivox-ai/internal/domain/documents"
	domainmodels "github.com/cynsight/assistivox-ai/internal/domain/models"
	"github.com/cynsight/assistivox-ai/internal/domain/speech"
	"github.com/cynsight/assistivox-ai/internal/domain/vision"
	"github.com/cynsight/assistivox-ai/internal/infrastructure/connector"
	"github.com/cynsight/assistivox-ai/internal/infrastructure/export"
	"github.com/cynsight/assistivox-ai/internal/infrastructure/persistence"
	"github.com/cynsight/assistivox-ai/internal/infrastructure/persistence/models"
	"github.com/cynsight/assistivox-ai/internal/infrastructure/stt"
	"github.com/cynsight/assistivox-ai/internal/infrastructure/tts"
	infravision "github.com/cynsight/assistivox-ai/internal/infrastructure/vision"
	"github.com/cynsight/assistivox-ai/internal/pkg/config"
	"github.com/cynsight/assistivox-ai/internal/pkg/logger"
	"github.com/gin-contrib/cors"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "../../configs/rest-app.yaml"
	}

	restConfig, err := config.InitializeRestConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	// Initialize logger
	if err := logger.InitLogger(&restConfig.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log, err := logger.GetLogger()
	if err != nil {
		return fmt.Errorf("failed to get logger: %w", err)
	}

	// Initialize application dependencies
	deps, err := initializeDependencies(restConfig, log)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.shutdown(log)

	// Setup and start server with graceful shutdown
	return startServerWithGracefulShutdown(restConfig, deps, log)
}

// appDependencies holds all initialized application components
type appDependencies struct {
	services      *appServices
	dockerManager *tts.DockerManager
}

type appServices struct {
	document      documents.DocumentService
	synthesizer   speech.Synthesizer
	voiceProvider speech.VoiceProvider
	extraction    vision.ExtractionService
	model         domainmodels.ModelService
	dictation     dictation.DictationService
	engineName    string
}

// shutdown releases resources acquired at startup.
func (deps *appDependencies) shutdown(log logger.Logger) {
	if deps.dockerManager != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := deps.dockerManager.StopContainer(ctx); err != nil {
			log.Warn("Failed to stop kokoro container: ", err)
		}
	}
}

// initializeDependencies sets up all application components
func initializeDependencies(cfg *config.RestConfig, log logger.Logger) (*appDependencies, error) {
	// Initialize database
	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}

	// Run migrations
	if err := db.AutoMigrate(&models.DocumentModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	log.Info("Database migrations completed successfully")

	// Initialize repositories and stores
	documentRepo, err := persistence.NewGormDocumentRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create document repository: %w", err)
	}

	contentStore, err := connector.NewFileContentStore(cfg.Models.RootDir, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create content store: %w", err)
	}

	pdfExporter, err := export.NewMd2PDFExporter(cfg.Models.RootDir, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF exporter: %w", err)
	}

	// Initialize synthesis engine
	synthesizer, voiceProvider, dockerManager, err := initializeSynthesis(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize synthesis: %w", err)
	}

	// Initialize services
	services, err := initializeApplicationServices(cfg, documentRepo, contentStore, pdfExporter, synthesizer, voiceProvider, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &appDependencies{
		services:      services,
		dockerManager: dockerManager,
	}, nil
}

// initializeSynthesis sets up the configured TTS engine. With kokoro and
// container management enabled it also starts the Docker container.
func initializeSynthesis(cfg *config.RestConfig, log logger.Logger) (speech.Synthesizer, speech.VoiceProvider, *tts.DockerManager, error) {
	switch cfg.TTS.Engine {
	case config.TTSEngineKokoro:
		var dockerManager *tts.DockerManager
		if cfg.TTS.Kokoro.ManageContainer {
			manager, err := tts.NewDockerManager(cfg.TTS.Kokoro, log)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("failed to create docker manager: %w", err)
			}
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			if err := manager.StartContainer(ctx); err != nil {
				return nil, nil, nil, fmt.Errorf("failed to start kokoro container: %w", err)
			}
			dockerManager = manager
		}

		client, err := tts.NewKokoroClient(cfg.TTS.Kokoro, log)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create kokoro client: %w", err)
		}
		return client, client, dockerManager, nil
	case config.TTSEnginePiper:
		engine, err := tts.NewPiperEngine(cfg.TTS.Piper, log)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create piper engine: %w", err)
		}
		return engine, engine, nil, nil
	default:
		return nil, nil, nil, fmt.Errorf("unsupported TTS engine: %s", cfg.TTS.Engine)
	}
}

// initializeRecognizer sets up the configured dictation engine.
func initializeRecognizer(cfg *config.RestConfig, log logger.Logger) (dictation.Recognizer, error) {
	switch cfg.Dictation.Engine {
	case config.DictationEngineVosk:
		return stt.NewVoskRecognizer(cfg.Dictation.Vosk, log)
	case config.DictationEngineWhisper:
		return stt.NewWhisperRecognizer(cfg.Dictation.Whisper, cfg.Dictation.EnableSubstitutionCommands, log)
	default:
		return nil, fmt.Errorf("unsupported dictation engine: %s", cfg.Dictation.Engine)
	}
}

// initializeApplicationServices sets up all application services
func initializeApplicationServices(
	cfg *config.RestConfig,
	documentRepo documents.DocumentRepository,
	contentStore documents.ContentStore,
	pdfExporter documents.PDFExporter,
	synthesizer speech.Synthesizer,
	voiceProvider speech.VoiceProvider,
	log logger.Logger,
) (*appServices, error) {
	documentService, err := app.NewDocumentService(documentRepo, contentStore, pdfExporter, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create document service: %w", err)
	}

	extractor, err := infravision.NewFitzExtractor(log)
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF extractor: %w", err)
	}

	ocrEngine, err := infravision.NewTesseractEngine(cfg.Vision, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create OCR engine: %w", err)
	}

	extractionService, err := app.NewExtractionService(extractor, extractor, ocrEngine, cfg.Vision, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction service: %w", err)
	}

	downloader, err := connector.NewHTTPDownloader(log)
	if err != nil {
		return nil, fmt.Errorf("failed to create downloader: %w", err)
	}

	modelService, err := app.NewModelService(cfg.Models, downloader, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create model service: %w", err)
	}

	recognizer, err := initializeRecognizer(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create recognizer: %w", err)
	}

	dictationService, err := app.NewDictationService(recognizer, modelService, cfg.Dictation, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create dictation service: %w", err)
	}

	log.Info("Application services initialized successfully")
	return &appServices{
		document:      documentService,
		synthesizer:   synthesizer,
		voiceProvider: voiceProvider,
		extraction:    extractionService,
		model:         modelService,
		dictation:     dictationService,
		engineName:    cfg.Dictation.Engine,
	}, nil
}

// startServerWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func startServerWithGracefulShutdown(cfg *config.RestConfig, deps *appDependencies, log logger.Logger) error {
	// Setup router
	r := gin.Default()

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup API routes
	v1.SetupRoutes(r,
		deps.services.document,
		deps.services.synthesizer,
		deps.services.voiceProvider,
		deps.services.extraction,
		deps.services.model,
		deps.services.dictation,
		deps.services.engineName,
		log,
	)

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attack
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting server on port ", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or server error
	select {
	case err := <-serverErrors:
		return err
	case sig := <-quit:
		log.Info("Received signal ", sig, ", initiating graceful shutdown")
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	log.Info("Shutting down server...")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
