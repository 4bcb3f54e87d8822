// Package main is the entry point for the assistivox-cli application.
// It initializes the root command and registers the speech, dictation,
// extraction, document and model sub-commands, then executes the
// command-line interface.
package main

import (
	"fmt"
	"log"
	"os"

	commands "github.com/cynsight/assistivox-ai/cmd/assistivox-cli/internal/commands"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "assistivox-cli",
		Short: "Accessibility toolkit CLI",
		Long: `assistivox-cli is a command-line tool for reading documents aloud,
dictating text, extracting PDFs and managing local speech models.
Synthesis runs against a local kokoro server or the piper binary; dictation
streams microphone audio to a local vosk or whisper server. No audio or text
leaves the machine.`,
	}

	// Initialize all command groups BEFORE executing
	if err := initializeCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize commands: %w", err)
	}

	// Execute root command ONCE after all commands are registered
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// initializeCommands registers all command groups with the root command.
func initializeCommands(rootCmd *cobra.Command) error {
	if err := commands.InitSpeechCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize speech commands: %w", err)
	}

	if err := commands.InitDictationCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize dictation commands: %w", err)
	}

	if err := commands.InitExtractionCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize extraction commands: %w", err)
	}

	if err := commands.InitDocumentCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize document commands: %w", err)
	}

	if err := commands.InitModelCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize model commands: %w", err)
	}

	return nil
}

// init sets up any necessary initialization before main runs.
func init() {
	// Set log flags for better error messages
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	// Ensure proper exit codes on errors
	log.SetOutput(os.Stderr)
}
