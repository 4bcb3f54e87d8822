package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cynsight/assistivox-ai/internal/app"
	"github.com/cynsight/assistivox-ai/internal/domain/speech"
	"github.com/cynsight/assistivox-ai/internal/infrastructure/audio"
	"github.com/cynsight/assistivox-ai/internal/infrastructure/tts"
	"github.com/cynsight/assistivox-ai/internal/pkg/config"
	"github.com/cynsight/assistivox-ai/internal/pkg/logger"
	"github.com/cynsight/assistivox-ai/internal/pkg/sentence"

	"github.com/spf13/cobra"
)

// SpeechCommandHandler encapsulates logic for synthesis and reading via CLI.
type SpeechCommandHandler struct {
	logger logger.Logger
}

// NewSpeechCommandHandler initializes and returns a SpeechCommandHandler
// instance with a configured logger.
func NewSpeechCommandHandler() (*SpeechCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	return &SpeechCommandHandler{
		logger: loggerInstance,
	}, nil
}

// ttsSettingsFromFlags assembles TTS settings from command flags.
func ttsSettingsFromFlags(cmd *cobra.Command) (config.TTSSettings, error) {
	engine, err := cmd.Flags().GetString("engine")
	if err != nil {
		return config.TTSSettings{}, fmt.Errorf("invalid engine flag: %w", err)
	}
	voice, err := cmd.Flags().GetString("voice")
	if err != nil {
		return config.TTSSettings{}, fmt.Errorf("invalid voice flag: %w", err)
	}
	speed, err := cmd.Flags().GetFloat64("speed")
	if err != nil {
		return config.TTSSettings{}, fmt.Errorf("invalid speed flag: %w", err)
	}
	pauseMs, err := cmd.Flags().GetInt("pause-ms")
	if err != nil {
		return config.TTSSettings{}, fmt.Errorf("invalid pause-ms flag: %w", err)
	}
	kokoroURL, err := cmd.Flags().GetString("kokoro-url")
	if err != nil {
		return config.TTSSettings{}, fmt.Errorf("invalid kokoro-url flag: %w", err)
	}
	piperBinary, err := cmd.Flags().GetString("piper-binary")
	if err != nil {
		return config.TTSSettings{}, fmt.Errorf("invalid piper-binary flag: %w", err)
	}
	voicesDir, err := cmd.Flags().GetString("voices-dir")
	if err != nil {
		return config.TTSSettings{}, fmt.Errorf("invalid voices-dir flag: %w", err)
	}

	root := config.DefaultRootDir()
	if piperBinary == "" {
		piperBinary = filepath.Join(root, "tts-models", "piper", "piper")
	}
	if voicesDir == "" {
		voicesDir = filepath.Join(root, "tts-models", "piper", "voices")
	}

	settings := config.TTSSettings{
		Engine:  engine,
		Speed:   speed,
		PauseMs: pauseMs,
		Kokoro: config.KokoroSettings{
			BaseURL: kokoroURL,
			Voice:   voice,
		},
		Piper: config.PiperSettings{
			BinaryPath: piperBinary,
			VoicesDir:  voicesDir,
			Voice:      voice,
		},
	}
	return settings, nil
}

// buildSynthesizer creates the engine selected by the flags.
func (commandHandler *SpeechCommandHandler) buildSynthesizer(settings config.TTSSettings) (speech.Synthesizer, speech.VoiceProvider, error) {
	switch settings.Engine {
	case config.TTSEngineKokoro:
		client, err := tts.NewKokoroClient(settings.Kokoro, commandHandler.logger)
		if err != nil {
			return nil, nil, err
		}
		return client, client, nil
	case config.TTSEnginePiper:
		engine, err := tts.NewPiperEngine(settings.Piper, commandHandler.logger)
		if err != nil {
			return nil, nil, err
		}
		return engine, engine, nil
	default:
		return nil, nil, fmt.Errorf("unsupported TTS engine: %s", settings.Engine)
	}
}

// readInputText resolves the text to speak from flags.
func readInputText(cmd *cobra.Command) (string, error) {
	text, err := cmd.Flags().GetString("text")
	if err != nil {
		return "", fmt.Errorf("invalid text flag: %w", err)
	}
	inputFile, err := cmd.Flags().GetString("input-file")
	if err != nil {
		return "", fmt.Errorf("invalid input-file flag: %w", err)
	}

	if text != "" {
		return text, nil
	}
	if inputFile == "" {
		return "", fmt.Errorf("either --text or --input-file is required")
	}

	data, err := os.ReadFile(filepath.Clean(inputFile))
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	return string(data), nil
}

// SpeakCmd reads text aloud sentence by sentence on the default audio device
func (commandHandler *SpeechCommandHandler) SpeakCmd(cmd *cobra.Command, _ []string) {
	settings, err := ttsSettingsFromFlags(cmd)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	text, err := readInputText(cmd)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	synthesizer, _, err := commandHandler.buildSynthesizer(settings)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	player, err := audio.NewPlayer(commandHandler.logger)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	defer func() {
		_ = audio.Terminate()
	}()

	detector, err := sentence.NewDetector()
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	reader, err := app.NewSpeechReader(synthesizer, player, detector, settings, commandHandler.logger)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	result, err := reader.Read(cmd.Context(), text, speech.Position{}, func(pos speech.Position) {
		commandHandler.logger.Info("Reading block ", pos.Block, " sentence ", pos.Sentence)
	})
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	if result.Finished {
		commandHandler.logger.Info("Finished reading")
	}
}

// SynthesizeCmd renders text to a WAV file
func (commandHandler *SpeechCommandHandler) SynthesizeCmd(cmd *cobra.Command, _ []string) {
	settings, err := ttsSettingsFromFlags(cmd)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	text, err := readInputText(cmd)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	outputFile, err := cmd.Flags().GetString("output-file")
	if err != nil {
		commandHandler.logger.Error("invalid output-file flag ", err)
		return
	}

	synthesizer, _, err := commandHandler.buildSynthesizer(settings)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	voice := settings.Kokoro.Voice
	if settings.Engine == config.TTSEnginePiper {
		voice = settings.Piper.Voice
	}

	wavData, err := synthesizer.Synthesize(context.Background(), &speech.SynthesisRequest{
		Text:  text,
		Voice: voice,
		Speed: settings.Speed,
	})
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	if err := os.WriteFile(outputFile, wavData, 0600); err != nil {
		commandHandler.logger.Error(err)
		return
	}
	commandHandler.logger.Info("Audio saved to ", outputFile)
}

// ListVoicesCmd lists the voices the selected engine offers
func (commandHandler *SpeechCommandHandler) ListVoicesCmd(cmd *cobra.Command, _ []string) {
	settings, err := ttsSettingsFromFlags(cmd)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	_, voiceProvider, err := commandHandler.buildSynthesizer(settings)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	voices, err := voiceProvider.Voices(context.Background())
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	names := make([]string, 0, len(voices))
	for _, voice := range voices {
		names = append(names, voice.ID)
	}
	commandHandler.logger.Info("Available ", settings.Engine, " voices: ", strings.Join(names, ", "))
}

// addEngineFlags registers the flags shared by all speech commands.
func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("engine", "", "kokoro", "TTS engine (kokoro or piper)")
	cmd.Flags().StringP("voice", "", "af_heart", "Voice to synthesize with")
	cmd.Flags().Float64P("speed", "", 1.0, "Speech rate multiplier")
	cmd.Flags().StringP("kokoro-url", "", "http://localhost:8880", "Base URL of the kokoro server")
	cmd.Flags().StringP("piper-binary", "", "", "Path to the piper binary")
	cmd.Flags().StringP("voices-dir", "", "", "Directory holding piper voices")
}

// InitSpeechCommands registers synthesis-related commands
func InitSpeechCommands(rootCmd *cobra.Command) error {
	handler, err := NewSpeechCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create speech command handler %w", err)
	}

	var speakCmd = &cobra.Command{
		Use:   "speak",
		Short: "Read text aloud sentence by sentence",
		Run:   handler.SpeakCmd,
	}
	addEngineFlags(speakCmd)
	speakCmd.Flags().StringP("text", "", "", "Text to read")
	speakCmd.Flags().StringP("input-file", "", "", "Path to a text file to read")
	speakCmd.Flags().IntP("pause-ms", "", 0, "Silence inserted between sentences in milliseconds")
	rootCmd.AddCommand(speakCmd)

	var synthesizeCmd = &cobra.Command{
		Use:   "synthesize",
		Short: "Render text to a WAV file",
		Run:   handler.SynthesizeCmd,
	}
	addEngineFlags(synthesizeCmd)
	synthesizeCmd.Flags().StringP("text", "", "", "Text to synthesize")
	synthesizeCmd.Flags().StringP("input-file", "", "", "Path to a text file to synthesize")
	synthesizeCmd.Flags().StringP("output-file", "", "speech.wav", "Path to the WAV output file")
	synthesizeCmd.Flags().IntP("pause-ms", "", 0, "Silence inserted between sentences in milliseconds")
	rootCmd.AddCommand(synthesizeCmd)

	var voicesCmd = &cobra.Command{
		Use:   "voices",
		Short: "List the voices the selected engine offers",
		Run:   handler.ListVoicesCmd,
	}
	addEngineFlags(voicesCmd)
	voicesCmd.Flags().IntP("pause-ms", "", 0, "Silence inserted between sentences in milliseconds")
	rootCmd.AddCommand(voicesCmd)

	return nil
}
