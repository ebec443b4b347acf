package main

import (
	"alcyxob/fitplan/internal/app"
	"alcyxob/fitplan/internal/config"
	"alcyxob/fitplan/internal/logging"
	"context"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:           "coachctl",
	Short:         "Offline tools for the FitPlan store: backups, PDF rendering and migrations",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", ".", "Directory holding config.yaml")
}

// openApp loads the config and opens the store with every service wired.
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, err
	}
	logging.Setup(logging.LoggerSetupParams{
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})
	// stdout carries command output
	log.SetOutput(os.Stderr)
	return app.New(ctx, cfg)
}
