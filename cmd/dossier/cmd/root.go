package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"dossier/internal/platform/config"
	"dossier/internal/platform/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "dossier",
	Short: "Procurement validation engine",
	Long: `dossier validates procurement documents: submission periods,
submissions and their lifecycle, and evaluation criteria with their
conversions. Commands arrive as JSON envelopes on POST /command.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "TOML config file (default: $DOSSIER_CONFIG)")
}

// loadConfig applies --config before the environment so env vars still win.
func loadConfig() (config.Config, *slog.Logger, error) {
	if cfgFile != "" {
		if err := os.Setenv("DOSSIER_CONFIG", cfgFile); err != nil {
			return config.Config{}, nil, fmt.Errorf("set config path: %w", err)
		}
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)
	return cfg, log, nil
}
