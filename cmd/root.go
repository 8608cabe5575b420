package cmd

import (
	"errors"
	"fmt"
	"os"

	"controller-migrate/core/logger"
	"controller-migrate/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "controller-migrate",
	Short: "AWX to AAP migration tool",
	Long: `controller-migrate copies projects, job templates, and schedules from
an AWX instance into an Ansible Automation Platform gateway. Objects are
matched by normalized comparison keys so re-runs are idempotent, and
every run writes a receipt recording what happened to each object.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Use the application's standard logger for error reporting
		// We default to console format to match user expectations (CLI tool)
		// We use "debug" level configuration to get ISO8601 timestamps (DevConfig) instead of Epoch (ProdConfig)
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			// Log the error with structured logger (Console encoding will make it pretty)
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}

		// Partial failures carry their own exit code so wrappers can
		// distinguish "some objects failed" from "the run never ran".
		if errors.Is(err, reconcile.ErrPartialFailure) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func init() {

}
