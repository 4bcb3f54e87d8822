//go:build unit
// +build unit

package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cynsight/assistivox-ai/internal/domain/models"
	"github.com/cynsight/assistivox-ai/internal/pkg/config"
	"github.com/cynsight/assistivox-ai/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDownloader materializes model files instead of fetching them.
type stubDownloader struct {
	fetched  []string
	populate func(destDir string) error
}

func (d *stubDownloader) Fetch(ctx context.Context, url, destDir, archive string, progress models.ProgressFunc) error {
	d.fetched = append(d.fetched, url)
	if d.populate != nil {
		return d.populate(destDir)
	}
	return nil
}

func newTestModelService(t *testing.T, downloader models.Downloader) (models.ModelService, string) {
	t.Helper()

	rootDir := t.TempDir()
	service, err := NewModelService(config.ModelSettings{RootDir: rootDir}, downloader, testutil.SetupTestLogger(t))
	require.NoError(t, err)
	return service, rootDir
}

func writeModelFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("model data"), 0o644))
}

func TestIsInstalledVoskRequiresAcousticModel(t *testing.T) {
	service, rootDir := newTestModelService(t, &stubDownloader{})
	modelDir := filepath.Join(rootDir, "stt-models", "vosk", "vosk-model-small-en-us-0.15")

	installed, err := service.IsInstalled(context.Background(), models.EngineVosk, "vosk-model-small-en-us-0.15")
	require.NoError(t, err)
	assert.False(t, installed)

	require.NoError(t, os.MkdirAll(filepath.Join(modelDir, "am"), 0o755))

	installed, err = service.IsInstalled(context.Background(), models.EngineVosk, "vosk-model-small-en-us-0.15")
	require.NoError(t, err)
	assert.True(t, installed)
}

func TestIsInstalledVoskFindsNestedModelDir(t *testing.T) {
	service, rootDir := newTestModelService(t, &stubDownloader{})
	// Zip archives often unpack with the model name repeated one level down.
	nested := filepath.Join(rootDir, "stt-models", "vosk", "vosk-model-small-en-us-0.15", "vosk-model-small-en-us-0.15", "am")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	installed, err := service.IsInstalled(context.Background(), models.EngineVosk, "vosk-model-small-en-us-0.15")
	require.NoError(t, err)
	assert.True(t, installed)
}

func TestIsInstalledWhisperRequiresAllFiles(t *testing.T) {
	service, rootDir := newTestModelService(t, &stubDownloader{})
	modelDir := filepath.Join(rootDir, "stt-models", "whisper", "faster-whisper-base.en")

	writeModelFile(t, filepath.Join(modelDir, "config.json"))
	writeModelFile(t, filepath.Join(modelDir, "model.bin"))

	installed, err := service.IsInstalled(context.Background(), models.EngineWhisper, "faster-whisper-base.en")
	require.NoError(t, err)
	assert.False(t, installed)

	writeModelFile(t, filepath.Join(modelDir, "tokenizer.json"))

	installed, err = service.IsInstalled(context.Background(), models.EngineWhisper, "faster-whisper-base.en")
	require.NoError(t, err)
	assert.True(t, installed)
}

func TestIsInstalledPiperVoiceAndRuntime(t *testing.T) {
	service, rootDir := newTestModelService(t, &stubDownloader{})

	writeModelFile(t, filepath.Join(rootDir, "tts-models", "piper", "voices", "en_US-amy-medium.onnx"))
	writeModelFile(t, filepath.Join(rootDir, "tts-models", "piper", "piper"))

	voice, err := service.IsInstalled(context.Background(), models.EnginePiper, "en_US-amy-medium")
	require.NoError(t, err)
	assert.True(t, voice)

	runtime, err := service.IsInstalled(context.Background(), models.EnginePiper, "piper")
	require.NoError(t, err)
	assert.True(t, runtime)

	missing, err := service.IsInstalled(context.Background(), models.EnginePiper, "en_GB-alba-medium")
	require.NoError(t, err)
	assert.False(t, missing)
}

func TestIsInstalledRejectsUnknownEngine(t *testing.T) {
	service, _ := newTestModelService(t, &stubDownloader{})

	_, err := service.IsInstalled(context.Background(), "espeak", "whatever")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported model engine")
}

func TestInstallWhisperFetchesEveryURL(t *testing.T) {
	downloader := &stubDownloader{
		populate: func(destDir string) error {
			for _, name := range []string{"config.json", "model.bin", "tokenizer.json", "vocabulary.txt"} {
				if err := os.WriteFile(filepath.Join(destDir, name), []byte("x"), 0o644); err != nil {
					return err
				}
			}
			return nil
		},
	}
	service, rootDir := newTestModelService(t, downloader)

	installed, err := service.Install(context.Background(), models.EngineWhisper, "base-en", nil)

	require.NoError(t, err)
	assert.Len(t, downloader.fetched, 4)
	assert.Equal(t, models.EngineWhisper, installed.Engine)
	assert.Equal(t, "faster-whisper-base.en", installed.ID)
	assert.Equal(t, filepath.Join(rootDir, "stt-models", "whisper", "faster-whisper-base.en"), installed.Path)
}

func TestInstallIsIdempotent(t *testing.T) {
	downloader := &stubDownloader{}
	service, rootDir := newTestModelService(t, downloader)
	require.NoError(t, os.MkdirAll(filepath.Join(rootDir, "stt-models", "vosk", "vosk-model-small-en-us-0.15", "am"), 0o755))

	installed, err := service.Install(context.Background(), models.EngineVosk, "small-en", nil)

	require.NoError(t, err)
	assert.Empty(t, downloader.fetched)
	assert.Equal(t, "vosk-model-small-en-us-0.15", installed.ID)
}

func TestInstallFailsWhenDownloadIsIncomplete(t *testing.T) {
	downloader := &stubDownloader{
		populate: func(destDir string) error {
			return os.WriteFile(filepath.Join(destDir, "config.json"), []byte("x"), 0o644)
		},
	}
	service, _ := newTestModelService(t, downloader)

	_, err := service.Install(context.Background(), models.EngineWhisper, "base-en", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "incomplete")
}

func TestInstallRejectsUnknownCatalogEntry(t *testing.T) {
	service, _ := newTestModelService(t, &stubDownloader{})

	_, err := service.Install(context.Background(), models.EngineVosk, "giant-en", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no catalog entry")
}

func TestInstalledScansAllEngines(t *testing.T) {
	service, rootDir := newTestModelService(t, &stubDownloader{})

	require.NoError(t, os.MkdirAll(filepath.Join(rootDir, "stt-models", "vosk", "vosk-model-small-en-us-0.15", "am"), 0o755))
	for _, name := range []string{"config.json", "model.bin", "tokenizer.json"} {
		writeModelFile(t, filepath.Join(rootDir, "stt-models", "whisper", "faster-whisper-base.en", name))
	}
	writeModelFile(t, filepath.Join(rootDir, "tts-models", "piper", "voices", "en_US-amy-medium.onnx"))
	// Incomplete models are skipped.
	require.NoError(t, os.MkdirAll(filepath.Join(rootDir, "stt-models", "vosk", "half-downloaded"), 0o755))

	installed, err := service.Installed(context.Background())
	require.NoError(t, err)

	byID := map[string]string{}
	for _, model := range installed {
		byID[model.ID] = model.Engine
	}
	assert.Equal(t, map[string]string{
		"vosk-model-small-en-us-0.15": models.EngineVosk,
		"faster-whisper-base.en":      models.EngineWhisper,
		"en_US-amy-medium":            models.EnginePiper,
	}, byID)
}

func TestInstalledEmptyRoot(t *testing.T) {
	service, _ := newTestModelService(t, &stubDownloader{})

	installed, err := service.Installed(context.Background())

	require.NoError(t, err)
	assert.Empty(t, installed)
}
