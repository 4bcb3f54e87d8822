package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cynsight/assistivox-ai/internal/domain/dictation"
	"github.com/cynsight/assistivox-ai/internal/infrastructure/audio"
	"github.com/cynsight/assistivox-ai/internal/infrastructure/stt"
	"github.com/cynsight/assistivox-ai/internal/pkg/config"
	"github.com/cynsight/assistivox-ai/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// DictationCommandHandler encapsulates logic for microphone dictation via CLI.
type DictationCommandHandler struct {
	logger logger.Logger
}

// NewDictationCommandHandler initializes and returns a DictationCommandHandler
// instance with a configured logger.
func NewDictationCommandHandler() (*DictationCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	return &DictationCommandHandler{
		logger: loggerInstance,
	}, nil
}

// buildRecognizer creates the engine selected by the flags.
func (commandHandler *DictationCommandHandler) buildRecognizer(cmd *cobra.Command) (dictation.Recognizer, error) {
	engine, err := cmd.Flags().GetString("engine")
	if err != nil {
		return nil, fmt.Errorf("invalid engine flag: %w", err)
	}
	serverURL, err := cmd.Flags().GetString("server-url")
	if err != nil {
		return nil, fmt.Errorf("invalid server-url flag: %w", err)
	}

	switch engine {
	case config.DictationEngineVosk:
		if serverURL == "" {
			serverURL = "ws://localhost:2700"
		}
		return stt.NewVoskRecognizer(config.VoskSettings{ServerURL: serverURL}, commandHandler.logger)
	case config.DictationEngineWhisper:
		if serverURL == "" {
			serverURL = "http://localhost:8178"
		}
		return stt.NewWhisperRecognizer(config.WhisperSettings{ServerURL: serverURL}, false, commandHandler.logger)
	default:
		return nil, fmt.Errorf("unsupported dictation engine: %s", engine)
	}
}

// DictateCmd streams microphone audio to the recognizer and prints results
// until interrupted
func (commandHandler *DictationCommandHandler) DictateCmd(cmd *cobra.Command, _ []string) {
	recognizer, err := commandHandler.buildRecognizer(cmd)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	capturer, err := audio.NewCapturer(commandHandler.logger)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	defer func() {
		_ = audio.Terminate()
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	session, err := recognizer.Start(ctx)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	commandHandler.logger.Info("Dictating with ", recognizer.Name(), ", press Ctrl+C to stop")

	// Print recognition results as they arrive.
	printDone := make(chan struct{})
	go func() {
		defer close(printDone)
		for segment := range session.Segments() {
			if segment.Err != nil {
				commandHandler.logger.Error(segment.Err)
				cancel()
				return
			}
			switch segment.Kind {
			case dictation.SegmentPartial:
				fmt.Fprintf(os.Stderr, "\r%s", segment.Text)
			case dictation.SegmentFinal:
				fmt.Fprint(os.Stderr, "\r")
				fmt.Print(segment.Text)
			}
		}
	}()

	err = capturer.Capture(ctx, func(chunk []byte) error {
		return session.WritePCM(chunk)
	})
	if err != nil && ctx.Err() == nil {
		commandHandler.logger.Error(err)
	}

	if err := session.Close(); err != nil {
		commandHandler.logger.Error(err)
	}
	<-printDone
	fmt.Println()
}

// InitDictationCommands registers dictation-related commands
func InitDictationCommands(rootCmd *cobra.Command) error {
	handler, err := NewDictationCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create dictation command handler %w", err)
	}

	var dictateCmd = &cobra.Command{
		Use:   "dictate",
		Short: "Transcribe microphone audio to stdout",
		Run:   handler.DictateCmd,
	}
	dictateCmd.Flags().StringP("engine", "", "vosk", "Dictation engine (vosk or whisper)")
	dictateCmd.Flags().StringP("server-url", "", "", "Recognition server URL")
	rootCmd.AddCommand(dictateCmd)

	return nil
}
