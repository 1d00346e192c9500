package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"pcb-inspector/config"
	"pcb-inspector/internal/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pcb-inspector",
		Short: "Printed circuit board defect inspection service",
		Long: `Inspect photos of printed circuit boards for defects.

The image is resized to at most MAX_IMAGE_SIDE pixels, its luminance is
equalized with CLAHE, and detected defects are drawn as labelled boxes.

Configuration is read from the environment and an optional .env file.`,
		Example: `  # HTTP API on :5001 (and the Telegram bot when TELEGRAM_TOKEN is set)
  pcb-inspector serve

  # Offline run on a single file
  pcb-inspector inspect board.png -o board_result.jpg

  # Machine readable result
  pcb-inspector inspect board.png --json`,
		SilenceUsage: true,
	}

	root.Version = version
	root.SetVersionTemplate("pcb-inspector {{.Version}}\n")

	root.AddCommand(newServeCmd(), newInspectCmd(), newVersionCmd())
	return root
}

// loadRuntime читает конфигурацию и настраивает логгер.
func loadRuntime(w io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, w)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}
