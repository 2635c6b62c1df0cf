package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AlcMaple/bridge-inspection-backend/internal/app"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "bridge-inspection",
	Short: "Bridge inspection scoring and weight allocation service",
	Long: `bridge-inspection serves the scoring API and offers maintenance commands
for the inspection database: migrations, taxonomy seeding and allocation previews.

Configuration comes from an optional YAML file (--config or BRIDGE_CONFIG)
overridden by BRIDGE_* environment variables.`,
	SilenceUsage: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (yaml|json|toml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(weightsCmd)
	rootCmd.AddCommand(scoreCmd)
}

// bootstrap loads config and the logger shared by every subcommand.
func bootstrap() (app.Config, *logger.Logger, error) {
	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		return app.Config{}, nil, fmt.Errorf("error loading configuration: %w", err)
	}
	log, err := app.NewLogger(cfg)
	if err != nil {
		return app.Config{}, nil, err
	}
	return cfg, log, nil
}
