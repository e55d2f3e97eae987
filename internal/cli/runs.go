package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/regimes/pkg/journal"
)

func newRunsCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Query journaled detection runs",
		Long: `Query detection runs recorded in the SQLite journal.

Examples:
  regimes runs list --limit 5
  regimes runs show <run-id>`,
	}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the most recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := openSQLite(rc)
			if err != nil {
				return err
			}
			defer j.Close()

			runs, err := j.ListRuns(limit)
			if err != nil {
				return fmt.Errorf("query runs: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), journal.FormatRunsOrg(runs))
			return nil
		},
	}
	listCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list (0 = all)")

	showCmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a run and its shifts as an Org block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := openSQLite(rc)
			if err != nil {
				return err
			}
			defer j.Close()

			run, err := j.GetRun(args[0])
			if err != nil {
				return fmt.Errorf("get run: %w", err)
			}
			shifts, err := j.ListShiftsByRunID(run.RunID)
			if err != nil {
				return fmt.Errorf("query shifts: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), journal.FormatRunOrg(run, shifts))
			return nil
		},
	}

	cmd.AddCommand(listCmd, showCmd)
	return cmd
}

func openSQLite(rc *RootConfig) (*journal.SQLiteJournal, error) {
	if rc.cfg.Journal.Type != "sqlite" {
		return nil, fmt.Errorf("runs needs a sqlite journal (configured: %s)", rc.cfg.Journal.Type)
	}
	j, err := journal.NewSQLite(rc.cfg.Journal.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}
