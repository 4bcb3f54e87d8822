package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/cynsight/assistivox-ai/internal/app"
	"github.com/cynsight/assistivox-ai/internal/domain/models"
	"github.com/cynsight/assistivox-ai/internal/infrastructure/connector"
	"github.com/cynsight/assistivox-ai/internal/pkg/config"
	"github.com/cynsight/assistivox-ai/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// ModelCommandHandler encapsulates logic for model management via CLI.
type ModelCommandHandler struct {
	logger logger.Logger
}

// NewModelCommandHandler initializes and returns a ModelCommandHandler
// instance with a configured logger.
func NewModelCommandHandler() (*ModelCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	return &ModelCommandHandler{
		logger: loggerInstance,
	}, nil
}

// buildModelService creates the model service rooted at the --root-dir flag.
func (commandHandler *ModelCommandHandler) buildModelService(cmd *cobra.Command) (models.ModelService, error) {
	rootDir, err := cmd.Flags().GetString("root-dir")
	if err != nil {
		return nil, fmt.Errorf("invalid root-dir flag: %w", err)
	}
	if rootDir == "" {
		rootDir = config.DefaultRootDir()
	}

	downloader, err := connector.NewHTTPDownloader(commandHandler.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create downloader: %w", err)
	}

	return app.NewModelService(config.ModelSettings{RootDir: rootDir}, downloader, commandHandler.logger)
}

// ListModelsCmd prints the model catalog with install state
func (commandHandler *ModelCommandHandler) ListModelsCmd(cmd *cobra.Command, _ []string) {
	modelService, err := commandHandler.buildModelService(cmd)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	ctx := context.Background()
	for _, entry := range modelService.Catalog() {
		installed, err := modelService.IsInstalled(ctx, entry.Engine, entry.ID)
		if err != nil {
			commandHandler.logger.Error(err)
			return
		}
		state := " "
		if installed {
			state = "*"
		}
		fmt.Printf("[%s] %-8s %-16s %4d MB  %s\n", state, entry.Engine, entry.Name, entry.SizeMB, entry.Description)
	}
}

// InstallModelCmd downloads and unpacks a catalog model
func (commandHandler *ModelCommandHandler) InstallModelCmd(cmd *cobra.Command, _ []string) {
	engine, err := cmd.Flags().GetString("engine")
	if err != nil {
		commandHandler.logger.Error("invalid engine flag ", err)
		return
	}
	name, err := cmd.Flags().GetString("name")
	if err != nil {
		commandHandler.logger.Error("invalid name flag ", err)
		return
	}

	modelService, err := commandHandler.buildModelService(cmd)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	progress := func(received, total int64) {
		if total > 0 {
			fmt.Fprintf(os.Stderr, "\rDownloading %s %s: %3d%%", engine, name, received*100/total)
		} else {
			fmt.Fprintf(os.Stderr, "\rDownloading %s %s: %d MB", engine, name, received>>20)
		}
	}

	installed, err := modelService.Install(context.Background(), engine, name, progress)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	commandHandler.logger.Info("Installed ", installed.Engine, " model ", installed.ID, " at ", installed.Path)
}

// InitModelCommands registers model-related commands
func InitModelCommands(rootCmd *cobra.Command) error {
	handler, err := NewModelCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create model command handler %w", err)
	}

	var listModelsCmd = &cobra.Command{
		Use:   "list-models",
		Short: "List downloadable speech models",
		Run:   handler.ListModelsCmd,
	}
	listModelsCmd.Flags().StringP("root-dir", "", "", "Model store root (defaults to ~/.assistivox)")
	rootCmd.AddCommand(listModelsCmd)

	var installModelCmd = &cobra.Command{
		Use:   "install-model",
		Short: "Download and install a speech model",
		Run:   handler.InstallModelCmd,
	}
	installModelCmd.Flags().StringP("engine", "", "", "Model engine (vosk, whisper or piper)")
	installModelCmd.Flags().StringP("name", "", "", "Catalog name, e.g. small-en")
	installModelCmd.Flags().StringP("root-dir", "", "", "Model store root (defaults to ~/.assistivox)")
	rootCmd.AddCommand(installModelCmd)

	return nil
}
