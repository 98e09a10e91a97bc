// Command shieldctl is the operator CLI: schema migrations, fixture seeding,
// and a few offline helpers for development.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/samirrijal/digitalshield/internal/pkg/config"
	"github.com/samirrijal/digitalshield/internal/pkg/logging"
)

var (
	verbose bool
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "shieldctl",
	Short: "Digital Shield operator tool",
	Long: `shieldctl manages a Digital Shield deployment.

migrate, seed, publish-location and token read the same configuration as
the services: ./config.yaml, ./configs/config.yaml and DIGITALSHIELD_*
environment variables. case-id and check-link work offline.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "warn"
		if verbose {
			level = "debug"
		}
		logging.Setup(level, "text", "shieldctl")
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "deadline for database commands")

	rootCmd.AddCommand(migrateCmd, seedCmd, caseIDCmd, checkLinkCmd, tokenCmd, publishLocationCmd)
	migrateCmd.AddCommand(migrateUpCmd)
}

// commandContext is cancelled on SIGINT/SIGTERM or after --timeout.
func commandContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load("shieldctl")
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Debug("command failed", "error", err)
		os.Exit(1)
	}
}
