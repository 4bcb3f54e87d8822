package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// RestConfig aggregates all settings for the REST API daemon.
type RestConfig struct {
	Port      string            `mapstructure:"port" validate:"required"`
	Logger    LoggerSettings    `mapstructure:"logger"`
	Database  DatabaseSettings  `mapstructure:"database"`
	TTS       TTSSettings       `mapstructure:"tts"`
	Dictation DictationSettings `mapstructure:"dictation"`
	Vision    VisionSettings    `mapstructure:"vision"`
	Models    ModelSettings     `mapstructure:"models"`
}

// Validate checks every settings section of the RestConfig
func (c *RestConfig) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if err := c.Logger.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.TTS.Validate(); err != nil {
		return err
	}
	if err := c.Dictation.Validate(); err != nil {
		return err
	}
	if err := c.Vision.Validate(); err != nil {
		return err
	}
	return c.Models.Validate()
}

// InitializeRestConfig loads the REST daemon configuration from the YAML file
// at configPath, applying defaults for anything the file omits.
func InitializeRestConfig(configPath string) (*RestConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var cfg RestConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// DefaultRootDir returns the default .assistivox directory in the user's home.
func DefaultRootDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".assistivox"
	}
	return filepath.Join(home, ".assistivox")
}

func setDefaults(v *viper.Viper) {
	root := DefaultRootDir()

	v.SetDefault("port", "8970")
	v.SetDefault("logger.log_level", LogLevelInfo)
	v.SetDefault("logger.log_type", LogTypeConsole)
	v.SetDefault("database.type", SqliteDbType)
	v.SetDefault("database.dsn", filepath.Join(root, "assistivox.db"))
	v.SetDefault("tts.engine", TTSEngineKokoro)
	v.SetDefault("tts.speed", 1.0)
	v.SetDefault("tts.pause_ms", 0)
	v.SetDefault("tts.kokoro.base_url", "http://localhost:8880")
	v.SetDefault("tts.kokoro.voice", "af_heart")
	v.SetDefault("tts.piper.binary_path", filepath.Join(root, "tts-models", "piper", "piper"))
	v.SetDefault("tts.piper.voices_dir", filepath.Join(root, "tts-models", "piper", "voices"))
	v.SetDefault("dictation.engine", DictationEngineVosk)
	v.SetDefault("dictation.vosk.server_url", "ws://localhost:2700")
	v.SetDefault("dictation.whisper.server_url", "http://localhost:8178")
	v.SetDefault("vision.ocr_engine", OCREngineTesseract)
	v.SetDefault("vision.languages", []string{"eng"})
	v.SetDefault("vision.dpi", 300)
	v.SetDefault("vision.workers", 2)
	v.SetDefault("models.root_dir", root)
}
