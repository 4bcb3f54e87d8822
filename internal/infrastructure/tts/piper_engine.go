package tts

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cynsight/assistivox-ai/internal/domain/speech"
	"github.com/cynsight/assistivox-ai/internal/pkg/config"
	"github.com/cynsight/assistivox-ai/internal/pkg/logger"
	"github.com/cynsight/assistivox-ai/internal/pkg/wav"
)

// PiperEngine implements speech.Synthesizer and speech.VoiceProvider with a
// local piper subprocess.
type PiperEngine struct {
	binaryPath   string
	voicesDir    string
	defaultVoice string
	logger       logger.Logger
}

// NewPiperEngine creates a Synthesizer that shells out to the piper binary.
func NewPiperEngine(settings config.PiperSettings, logger logger.Logger) (*PiperEngine, error) {
	if settings.BinaryPath == "" {
		return nil, fmt.Errorf("piper binary path is not configured")
	}
	if _, err := os.Stat(settings.BinaryPath); err != nil {
		return nil, fmt.Errorf("piper binary not found: %w", err)
	}

	engine := &PiperEngine{
		binaryPath:   settings.BinaryPath,
		voicesDir:    settings.VoicesDir,
		defaultVoice: settings.Voice,
		logger:       logger,
	}
	engine.setupEspeakPath()
	return engine, nil
}

// Name returns the engine identifier.
func (e *PiperEngine) Name() string {
	return config.TTSEnginePiper
}

// setupEspeakPath points ESPEAK_DATA_PATH at the espeak-ng-data directory
// shipped near the piper binary. An already-set variable wins.
func (e *PiperEngine) setupEspeakPath() {
	if os.Getenv("ESPEAK_DATA_PATH") != "" {
		return
	}

	piperDir := filepath.Dir(filepath.Dir(e.binaryPath))
	candidates := []string{
		filepath.Join(piperDir, "espeak-ng-data"),
		filepath.Join(piperDir, "build", "piper", "share", "espeak-ng-data"),
		filepath.Join(piperDir, "build", "share", "espeak-ng-data"),
		filepath.Join(piperDir, "share", "espeak-ng-data"),
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(filepath.Join(candidate, "phontab")); err == nil {
			_ = os.Setenv("ESPEAK_DATA_PATH", candidate)
			e.logger.Info("Set ESPEAK_DATA_PATH to ", candidate)
			return
		}
	}

	e.logger.Warn("Could not find espeak-ng-data directory; piper may fail to run")
}

// voicePaths resolves a voice name to its model and config files.
func (e *PiperEngine) voicePaths(voice string) (string, string, error) {
	model := filepath.Join(e.voicesDir, voice+".onnx")
	if _, err := os.Stat(model); err != nil {
		return "", "", fmt.Errorf("piper voice %q is not installed: %w", voice, err)
	}
	return model, model + ".json", nil
}

// Synthesize runs piper with text on stdin and collects WAV from stdout.
// Speed maps to piper's length scale, which is its inverse.
func (e *PiperEngine) Synthesize(ctx context.Context, request *speech.SynthesisRequest) ([]byte, error) {
	request.Normalize()
	if request.Voice == "" {
		request.Voice = e.defaultVoice
	}
	if err := request.Validate(); err != nil {
		return nil, fmt.Errorf("invalid synthesis request: %w", err)
	}

	model, modelConfig, err := e.voicePaths(request.Voice)
	if err != nil {
		return nil, err
	}

	args := []string{
		"--model", model,
		"--config", modelConfig,
		"--output_file", "-",
	}
	if request.Speed != 1.0 {
		args = append(args, "--length_scale", fmt.Sprintf("%.3f", 1.0/request.Speed))
	}

	cmd := exec.CommandContext(ctx, e.binaryPath, args...)
	cmd.Stdin = strings.NewReader(request.Text)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("piper failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	audio := stdout.Bytes()
	if err := wav.RepairHeader(audio); err != nil {
		return nil, fmt.Errorf("piper produced invalid audio: %w", err)
	}

	if request.LeadingSilenceMs > 0 {
		audio, err = withLeadingSilence(audio, request.LeadingSilenceMs)
		if err != nil {
			return nil, err
		}
	}

	return audio, nil
}

// Voices lists the installed voices by scanning the voices directory for
// onnx models.
func (e *PiperEngine) Voices(ctx context.Context) ([]*speech.Voice, error) {
	entries, err := os.ReadDir(e.voicesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read piper voices directory: %w", err)
	}

	var voices []*speech.Voice
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".onnx") {
			continue
		}
		id := strings.TrimSuffix(name, ".onnx")
		voices = append(voices, &speech.Voice{
			ID:     id,
			Name:   id,
			Engine: config.TTSEnginePiper,
		})
	}
	return voices, nil
}
