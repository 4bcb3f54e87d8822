package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// TTS engine constants
const (
	TTSEngineKokoro = "kokoro"
	TTSEnginePiper  = "piper"
)

// Dictation engine constants
const (
	DictationEngineVosk    = "vosk"
	DictationEngineWhisper = "whisper"
)

// OCR engine constants
const (
	OCREngineTesseract = "tesseract"
)

// KokoroSettings configures the Kokoro TTS HTTP service and its optional
// Docker-managed lifecycle.
type KokoroSettings struct {
	BaseURL         string `mapstructure:"base_url" validate:"required,url"`
	Voice           string `mapstructure:"voice"`
	UseGPU          bool   `mapstructure:"use_gpu"`
	ManageContainer bool   `mapstructure:"manage_container"`
}

// PiperSettings configures the local Piper TTS subprocess.
type PiperSettings struct {
	BinaryPath string `mapstructure:"binary_path"`
	VoicesDir  string `mapstructure:"voices_dir"`
	Voice      string `mapstructure:"voice"`
}

// TTSSettings selects the speech engine and reading behavior.
type TTSSettings struct {
	Engine  string         `mapstructure:"engine" validate:"required,oneof=kokoro piper"`
	Speed   float64        `mapstructure:"speed" validate:"omitempty,gt=0,lte=4"`
	PauseMs int            `mapstructure:"pause_ms" validate:"gte=0,lte=5000"`
	Kokoro  KokoroSettings `mapstructure:"kokoro"`
	Piper   PiperSettings  `mapstructure:"piper"`
}

// Validate checks that all fields in TTSSettings are valid
func (s *TTSSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for TTSSettings: %w", err)
	}

	switch s.Engine {
	case TTSEngineKokoro:
		if s.Kokoro.Voice == "" {
			return fmt.Errorf("kokoro voice is not configured")
		}
	case TTSEnginePiper:
		if s.Piper.Voice == "" {
			return fmt.Errorf("piper voice is not configured")
		}
		if s.Piper.BinaryPath == "" {
			return fmt.Errorf("piper binary path is not configured")
		}
	}
	return nil
}

// VoskSettings configures the vosk-server connection and model selection.
type VoskSettings struct {
	ServerURL string `mapstructure:"server_url" validate:"required"`
	Model     string `mapstructure:"model"`
}

// WhisperSettings configures the whisper inference server and model selection.
type WhisperSettings struct {
	ServerURL string `mapstructure:"server_url" validate:"required,url"`
	Model     string `mapstructure:"model"`
	UseGPU    bool   `mapstructure:"use_gpu"`
}

// DictationSettings selects the speech-to-text engine and behavior.
type DictationSettings struct {
	Engine string `mapstructure:"engine" validate:"required,oneof=vosk whisper"`
	// EnableSubstitutionCommands controls spoken-punctuation handling; when
	// enabled the trailing period whisper appends automatically is stripped
	// from utterances that end in spoken punctuation.
	EnableSubstitutionCommands bool            `mapstructure:"enable_substitution_commands"`
	Vosk                       VoskSettings    `mapstructure:"vosk"`
	Whisper                    WhisperSettings `mapstructure:"whisper"`
}

// Validate checks that all fields in DictationSettings are valid
func (s *DictationSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for DictationSettings: %w", err)
	}
	return nil
}

// VisionSettings configures PDF extraction and OCR.
type VisionSettings struct {
	OCREngine string   `mapstructure:"ocr_engine" validate:"required,oneof=tesseract"`
	Languages []string `mapstructure:"languages"`
	DPI       int      `mapstructure:"dpi" validate:"gte=72,lte=600"`
	Workers   int      `mapstructure:"workers" validate:"gte=1,lte=16"`
}

// Validate checks that all fields in VisionSettings are valid
func (s *VisionSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for VisionSettings: %w", err)
	}
	return nil
}

// ModelSettings locates the on-disk model store (the .assistivox directory).
type ModelSettings struct {
	RootDir string `mapstructure:"root_dir" validate:"required"`
}

// Validate checks that all fields in ModelSettings are valid
func (s *ModelSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for ModelSettings: %w", err)
	}
	return nil
}
