// Package cmd implements the CLI commands for automerch.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/automerch/internal/config"
	"github.com/donaldgifford/automerch/pkg/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "automerch",
	Short: "Automate an Etsy print-on-demand shop",
	Long: "An API-first service that connects Etsy shops over OAuth, creates Printful\n" +
		"products and Etsy draft listings, and keeps prices and inventory in sync.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.AddCommand(versionCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config file and builds the logger it describes.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, logger.New(cfg.Logging.Level, cfg.Logging.Format), nil
}
