package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/regimes/internal/series"
	"github.com/rustyeddy/regimes/pkg/id"
	"github.com/rustyeddy/regimes/pkg/journal"
	"github.com/rustyeddy/regimes/pkg/rodionov"
)

func newDetectCmd(rc *RootConfig) *cobra.Command {
	var (
		inputPath string
		l         int
		p         float64
		tracePath string
		org       bool
	)

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect regime shifts in a series",
		Long: `Run Rodionov's sequential regime shift test once over a dated CSV series.

Example:
  regimes detect --input usgs_01434000_daily_cms.csv -l 10 -p 0.05 --trace trace.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rc.cfg
			if cmd.Flags().Changed("input") {
				cfg.Input.Path = inputPath
			}
			if cmd.Flags().Changed("regime-length") {
				cfg.Detect.L = l
			}
			if cmd.Flags().Changed("significance") {
				cfg.Detect.P = p
			}

			s, err := loadInput(cfg.Input)
			if err != nil {
				return err
			}

			start := time.Now()
			values := s.Values()
			res, err := rodionov.Detect(values, cfg.Detect.L, cfg.Detect.P)
			if err != nil {
				return fmt.Errorf("detect: %w", err)
			}

			runID := id.New()
			log.Info().
				Str("run_id", runID).
				Int("l", cfg.Detect.L).
				Float64("p", cfg.Detect.P).
				Float64("diff", res.Threshold.Diff).
				Int("shifts", len(res.Shifts)).
				Dur("took", time.Since(start)).
				Msg("detection complete")

			run := journal.NewRun(runID, s.Name, journal.ModeDetect, start, len(values), cfg.Detect.L, cfg.Detect.P, res)
			shifts := journal.NewShifts(runID, s.Times(), values, res)

			j, err := openJournal(cfg.Journal)
			if err != nil {
				return err
			}
			defer j.Close()
			if err := journal.Record(j, run, shifts); err != nil {
				return fmt.Errorf("journal run: %w", err)
			}

			if tracePath != "" {
				if err := writeTrace(tracePath, s, res); err != nil {
					return err
				}
				log.Info().Str("path", tracePath).Msg("trace written")
			}

			out := cmd.OutOrStdout()
			if org {
				fmt.Fprint(out, journal.FormatRunOrg(run, shifts))
				return nil
			}
			printShifts(out, run, shifts)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Series CSV (date,value)")
	cmd.Flags().IntVarP(&l, "regime-length", "l", 10, "Minimum regime length")
	cmd.Flags().Float64VarP(&p, "significance", "p", 0.05, "Significance probability")
	cmd.Flags().StringVar(&tracePath, "trace", "", "Write the per-observation RSI trace to this CSV")
	cmd.Flags().BoolVar(&org, "org", false, "Print the run as an Org block")

	return cmd
}

func writeTrace(path string, s series.Series, res rodionov.Result) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trace: %w", err)
	}
	if err := journal.WriteTraceCSV(fh, s.Times(), s.Values(), res); err != nil {
		_ = fh.Close()
		return fmt.Errorf("write trace: %w", err)
	}
	return fh.Close()
}

func printShifts(w io.Writer, run journal.RunRecord, shifts []journal.ShiftRecord) {
	fmt.Fprintf(w, "run %s: n=%d l=%d p=%g diff=%.4f shifts=%d\n",
		run.RunID, run.N, run.L, run.P, run.Diff, run.Shifts)
	for _, s := range shifts {
		date := "-"
		if !s.Time.IsZero() {
			date = s.Time.Format(time.DateOnly)
		}
		fmt.Fprintf(w, "  %s  index=%d  rsi=%.4f  mean %.3f -> %.3f\n",
			date, s.Index, s.RSI, s.MeanBefore, s.MeanAfter)
	}
}
