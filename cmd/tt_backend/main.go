package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/timesheet_app/internal/platform/config"
	"github.com/spf13/cobra"
)

// @title Timesheet Backend API
// @version 1.0
// @description Weekly timesheets, timers, approvals and project hour rollups.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tt_backend",
		Short: "Timesheet tracking backend",
		Long: `tt_backend serves the timesheet API: weekly timesheets with manual and timer
entries, the submit/approve workflow, and per-project hour rollups.

Running it without a subcommand starts the server.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	rootCmd.AddCommand(newServeCmd(), newMigrateCmd())
	return rootCmd
}

// bootstrap loads configuration and installs the JSON logger as default.
func bootstrap() (*config.Config, *slog.Logger, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, logger, nil
}
