package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"shiftdeck/internal/config"
	"shiftdeck/internal/logger"
	"shiftdeck/pkg/logging"
)

var (
	configFile   string
	clearCurrent bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shiftdeck",
		Short: "Rules engine for manufacturing shift coaching prompts",
		Long:  "Shiftdeck evaluates authored rules against shift records and writes ranked coaching prompts back into the workbook",
		RunE:  analyzeCmd().RunE,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (required)")

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(exportRulesCmd())
	rootCmd.AddCommand(archiveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// run loads the config, builds the logger, and hands a signal-aware
// context to the command body.
func run(fn func(ctx context.Context, app *App) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		earlyLog := logging.NewEarlyLog()

		if configFile == "" {
			configFile = os.Getenv("CONFIG_FILE")
			if configFile == "" {
				earlyLog.Error("Config file is required. Use --config flag or CONFIG_FILE environment variable")
				return fmt.Errorf("config file is required")
			}
		}

		cfg, err := config.LoadConfig(configFile)
		if err != nil {
			earlyLog.Error("Failed to load config: %v", err)
			return err
		}

		log, err := logger.New(cfg.Logging.Level)
		if err != nil {
			earlyLog.Error("Failed to init logger: %v", err)
			return err
		}
		defer log.Sync()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		return fn(ctx, NewApp(cfg, log))
	}
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Evaluate rules against the workbook and write the analysis report",
		RunE: run(func(ctx context.Context, app *App) error {
			return app.Analyze(ctx)
		}),
	}
}

func exportRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-rules",
		Short: "Export the authored rule table to the rule document",
		RunE: run(func(ctx context.Context, app *App) error {
			return app.ExportRules(ctx)
		}),
	}
}

func archiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Archive workbook logs into the history database",
		RunE: run(func(ctx context.Context, app *App) error {
			return app.Archive(ctx, clearCurrent)
		}),
	}
	cmd.Flags().BoolVar(&clearCurrent, "clear", false, "Clear the workbook logs after a successful archive")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending history database migrations",
		RunE: run(func(ctx context.Context, app *App) error {
			return app.Migrate(ctx)
		}),
	}
}
