// Package main provides the edgecast command line entry point.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yourusername/edgecast/internal/config"
	"github.com/yourusername/edgecast/internal/logger"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	cfg        *config.Config
	appLog     *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "edgecast",
	Short: "Prediction market stake recommendations and backtesting",
	Long: `edgecast compares model probability estimates with prediction market prices,
records guard-railed Kelly stake recommendations, reconciles them against
settlements and reports calibration and compounded return.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(cmd.Context(), configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
		appLog = logger.NewLoggerForEnvironment(cfg.App.LogLevel, cfg.App.Environment)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.AddCommand(evaluateCmd, reconcileCmd, backtestCmd, serveCmd)
	rootCmd.Version = fmt.Sprintf("%s (%s)", Version, GitCommit)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// loadConfig reads the file, overlays AWS secrets when enabled and validates
func loadConfig(ctx context.Context, path string) (*config.Config, error) {
	loaded, err := config.LoadWithDefaults(path)
	if err != nil {
		return nil, err
	}
	if err := config.LoadSecretsFromAWS(ctx, loaded); err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}
	if err := config.Validate(loaded); err != nil {
		return nil, err
	}
	return loaded, nil
}
