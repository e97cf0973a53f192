package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"pantry-planner/internal/app"
	"pantry-planner/internal/config"
	"pantry-planner/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string

	application *app.App
	log         *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "pantry-planner",
	Short:         "Plan meals from what is in your kitchen",
	Long:          `pantry-planner keeps an inventory of ingredients and a recipe collection, and generates meal plans that favour what you can cook right now.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		level := cfg.LogLevel
		if cmd.Flags().Changed("log-level") {
			level = logLevel
		}
		log = logger.New(logger.Config{Level: level, Format: logFormat})

		application, err = app.New(cmd.Context(), cfg, log)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		defer log.Sync()
		return application.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML, JSON or TOML); environment variables override it")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console or json)")

	rootCmd.AddCommand(inventoryCmd(), recipesCmd(), planCmd(), prefsCmd(), suggestCmd(), toolsCmd(), metricsCmd())
}

func main() {
	// Ctrl-C cancels a pending AI call; the plan still falls back and is stored.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
