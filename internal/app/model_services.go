package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cynsight/assistivox-ai/internal/domain/models"
	"github.com/cynsight/assistivox-ai/internal/pkg/config"
	"github.com/cynsight/assistivox-ai/internal/pkg/logger"
)

// whisperRequiredFiles must all be present for a whisper model to count as
// installed.
var whisperRequiredFiles = []string{"config.json", "model.bin", "tokenizer.json"}

// modelService implements the ModelService interface for downloading and
// locating speech models on disk
type modelService struct {
	rootDir    string
	downloader models.Downloader
	logger     logger.Logger
}

// NewModelService creates a new instance of ModelService rooted at the
// configured model directory
func NewModelService(
	settings config.ModelSettings,
	downloader models.Downloader,
	logger logger.Logger,
) (models.ModelService, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &modelService{
		rootDir:    settings.RootDir,
		downloader: downloader,
		logger:     logger,
	}, nil
}

// Catalog returns the entries available for download
func (s *modelService) Catalog() []models.CatalogEntry {
	return models.Catalog()
}

// Installed scans the model root and returns every installed model
func (s *modelService) Installed(ctx context.Context) ([]*models.InstalledModel, error) {
	installed := []*models.InstalledModel{}

	for _, engine := range []string{models.EngineVosk, models.EngineWhisper} {
		engineDir := filepath.Join(s.rootDir, "stt-models", engine)
		entries, err := os.ReadDir(engineDir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s models: %w", engine, err)
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			ok, err := s.IsInstalled(ctx, engine, entry.Name())
			if err != nil {
				return nil, err
			}
			if ok {
				installed = append(installed, &models.InstalledModel{
					Engine: engine,
					ID:     entry.Name(),
					Path:   filepath.Join(engineDir, entry.Name()),
				})
			}
		}
	}

	voicesDir := s.piperVoicesDir()
	if entries, err := os.ReadDir(voicesDir); err == nil {
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".onnx" {
				continue
			}
			voiceID := entry.Name()[:len(entry.Name())-len(".onnx")]
			installed = append(installed, &models.InstalledModel{
				Engine: models.EnginePiper,
				ID:     voiceID,
				Path:   filepath.Join(voicesDir, entry.Name()),
			})
		}
	}

	runtime := s.piperRuntimeDir()
	if info, err := os.Stat(filepath.Join(runtime, "piper")); err == nil && !info.IsDir() {
		installed = append(installed, &models.InstalledModel{
			Engine: models.EnginePiper,
			ID:     "piper",
			Path:   runtime,
		})
	}

	return installed, nil
}

// IsInstalled reports whether the model identified by engine and ID is
// present and structurally complete on disk
func (s *modelService) IsInstalled(ctx context.Context, engine, modelID string) (bool, error) {
	switch engine {
	case models.EngineVosk:
		return voskModelComplete(s.installDir(engine, modelID)), nil
	case models.EngineWhisper:
		return whisperModelComplete(s.installDir(engine, modelID)), nil
	case models.EnginePiper:
		if modelID == "piper" {
			info, err := os.Stat(filepath.Join(s.piperRuntimeDir(), "piper"))
			return err == nil && !info.IsDir(), nil
		}
		_, err := os.Stat(filepath.Join(s.piperVoicesDir(), modelID+".onnx"))
		return err == nil, nil
	default:
		return false, fmt.Errorf("unsupported model engine: %s", engine)
	}
}

// Install downloads and unpacks a catalog entry
func (s *modelService) Install(ctx context.Context, engine, name string, progress models.ProgressFunc) (*models.InstalledModel, error) {
	entry, ok := models.FindCatalogEntry(engine, name)
	if !ok {
		return nil, fmt.Errorf("no catalog entry %s for engine %s", name, engine)
	}

	destDir := s.entryDestDir(entry)
	resultPath := s.entryResultPath(entry)

	installed, err := s.IsInstalled(ctx, engine, entry.ID)
	if err != nil {
		return nil, err
	}
	if installed {
		s.logger.Info("Model ", entry.ID, " is already installed")
		return &models.InstalledModel{Engine: engine, ID: entry.ID, Path: resultPath}, nil
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create model directory: %w", err)
	}

	for _, url := range entry.URLs {
		if err := s.downloader.Fetch(ctx, url, destDir, entry.Archive, progress); err != nil {
			return nil, fmt.Errorf("failed to download %s model %s: %w", engine, name, err)
		}
	}

	installed, err = s.IsInstalled(ctx, engine, entry.ID)
	if err != nil {
		return nil, err
	}
	if !installed {
		return nil, fmt.Errorf("%s model %s downloaded but its files are incomplete", engine, name)
	}

	s.logger.Info("Installed ", engine, " model ", entry.ID, " at ", resultPath)
	return &models.InstalledModel{Engine: engine, ID: entry.ID, Path: resultPath}, nil
}

// installDir is where a vosk or whisper model lives.
func (s *modelService) installDir(engine, modelID string) string {
	return filepath.Join(s.rootDir, "stt-models", engine, modelID)
}

// piperRuntimeDir is where the piper binary tarball unpacks to.
func (s *modelService) piperRuntimeDir() string {
	return filepath.Join(s.rootDir, "tts-models", "piper")
}

func (s *modelService) piperVoicesDir() string {
	return filepath.Join(s.piperRuntimeDir(), "voices")
}

// entryDestDir is the directory a catalog entry downloads into. The piper
// runtime tarball already contains a piper/ top-level directory, so it
// extracts one level up.
func (s *modelService) entryDestDir(entry models.CatalogEntry) string {
	switch entry.Engine {
	case models.EnginePiper:
		if entry.ID == "piper" {
			return filepath.Join(s.rootDir, "tts-models")
		}
		return s.piperVoicesDir()
	default:
		return s.installDir(entry.Engine, entry.ID)
	}
}

// entryResultPath is where the installed entry ends up.
func (s *modelService) entryResultPath(entry models.CatalogEntry) string {
	switch entry.Engine {
	case models.EnginePiper:
		if entry.ID == "piper" {
			return s.piperRuntimeDir()
		}
		return filepath.Join(s.piperVoicesDir(), entry.ID+".onnx")
	default:
		return s.installDir(entry.Engine, entry.ID)
	}
}

// voskModelComplete checks for the am/ acoustic-model directory, either
// directly or nested one level as zip archives often unpack.
func voskModelComplete(dir string) bool {
	if dirExists(filepath.Join(dir, "am")) {
		return true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() && dirExists(filepath.Join(dir, entry.Name(), "am")) {
			return true
		}
	}
	return false
}

func whisperModelComplete(dir string) bool {
	for _, name := range whisperRequiredFiles {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil || info.IsDir() {
			return false
		}
	}
	return true
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
