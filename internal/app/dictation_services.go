package app

import (
	"context"
	"fmt"

	"github.com/cynsight/assistivox-ai/internal/domain/dictation"
	"github.com/cynsight/assistivox-ai/internal/domain/models"
	"github.com/cynsight/assistivox-ai/internal/pkg/config"
	"github.com/cynsight/assistivox-ai/internal/pkg/logger"
)

// dictationService implements the DictationService interface, opening
// recognition sessions with the configured engine
type dictationService struct {
	recognizer   dictation.Recognizer
	modelService models.ModelService
	settings     config.DictationSettings
	logger       logger.Logger
}

// NewDictationService creates a new instance of DictationService
func NewDictationService(
	recognizer dictation.Recognizer,
	modelService models.ModelService,
	settings config.DictationSettings,
	logger logger.Logger,
) (dictation.DictationService, error) {
	if recognizer.Name() != settings.Engine {
		return nil, fmt.Errorf("recognizer %s does not match configured engine %s", recognizer.Name(), settings.Engine)
	}
	return &dictationService{
		recognizer:   recognizer,
		modelService: modelService,
		settings:     settings,
		logger:       logger,
	}, nil
}

// ModelInstalled reports whether the configured engine's model is on disk
func (s *dictationService) ModelInstalled(ctx context.Context) (bool, error) {
	modelID, err := s.configuredModelID()
	if err != nil {
		return false, err
	}

	installed, err := s.modelService.IsInstalled(ctx, s.settings.Engine, modelID)
	if err != nil {
		return false, fmt.Errorf("%w", err)
	}
	return installed, nil
}

// Start verifies the model is installed and opens a recognition session
func (s *dictationService) Start(ctx context.Context) (dictation.Session, error) {
	installed, err := s.ModelInstalled(ctx)
	if err != nil {
		return nil, err
	}
	if !installed {
		return nil, fmt.Errorf("no %s model is installed, download one first", s.settings.Engine)
	}

	session, err := s.recognizer.Start(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start %s session: %w", s.settings.Engine, err)
	}

	s.logger.Info("Started ", s.settings.Engine, " dictation session")
	return session, nil
}

// configuredModelID resolves the model for the active engine, falling back
// to the catalog default when none is configured.
func (s *dictationService) configuredModelID() (string, error) {
	var configured string
	switch s.settings.Engine {
	case config.DictationEngineVosk:
		configured = s.settings.Vosk.Model
	case config.DictationEngineWhisper:
		configured = s.settings.Whisper.Model
	default:
		return "", fmt.Errorf("unsupported dictation engine: %s", s.settings.Engine)
	}
	if configured != "" {
		return configured, nil
	}

	for _, entry := range models.Catalog() {
		if entry.Engine == s.settings.Engine {
			return entry.ID, nil
		}
	}
	return "", fmt.Errorf("no catalog model available for engine %s", s.settings.Engine)
}
