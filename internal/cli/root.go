// Package cli wires the regimes command tree.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/regimes/internal/config"
	"github.com/rustyeddy/regimes/internal/logging"
)

const version = "0.3.0"

// RootConfig holds the persistent flags and the configuration resolved from
// them before any subcommand runs.
type RootConfig struct {
	ConfigPath string
	DBPath     string
	LogLevel   string
	LogFormat  string

	cfg *config.Config
}

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:   "regimes",
		Short: "Regime shift detection for hydrological time series",
		Long: `Regimes detects abrupt shifts in the mean level of a time series with
Rodionov's sequential t-test (STARS).

It provides tools for:
  - Detecting regime shifts in a dated CSV series (e.g. daily streamflow)
  - Sweeping the regime length to see how stable the shifts are
  - Journaling runs to SQLite or CSV and reviewing them as Org blocks`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global / persistent flags
	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&rc.DBPath, "db", "", "SQLite journal database (overrides journal.db_path)")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "", "Log level: debug|info|warn|error")
	cmd.PersistentFlags().StringVar(&rc.LogFormat, "log-format", "", "Log format: console|json")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if rc.ConfigPath != "" {
			loaded, err := config.LoadFromFile(rc.ConfigPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		if rc.DBPath != "" {
			cfg.Journal.Type = "sqlite"
			cfg.Journal.DBPath = rc.DBPath
		}
		if rc.LogLevel != "" {
			cfg.Log.Level = rc.LogLevel
		}
		if rc.LogFormat != "" {
			cfg.Log.Format = rc.LogFormat
		}
		if err := logging.Setup(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr()); err != nil {
			return err
		}
		rc.cfg = cfg
		log.Debug().Str("config", rc.ConfigPath).Str("journal", cfg.Journal.Type).Msg("configuration loaded")
		return nil
	}

	cmd.AddCommand(
		newDetectCmd(rc),
		newSweepCmd(rc),
		newRunsCmd(rc),
		newConfigCmd(rc),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "regimes version %s\n", version)
		},
	})

	return cmd
}

func Execute(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
