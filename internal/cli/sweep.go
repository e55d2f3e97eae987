package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/regimes/pkg/id"
	"github.com/rustyeddy/regimes/pkg/journal"
	"github.com/rustyeddy/regimes/pkg/rodionov"
)

func newSweepCmd(rc *RootConfig) *cobra.Command {
	var (
		inputPath string
		lMin      int
		lMax      int
		p         float64
		workers   int
		top       int
		freqPath  string
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run detection over a range of regime lengths",
		Long: `Run the detector for every regime length in [l-min, l-max) and report
how often each observation was found to start a new regime.

Example:
  regimes sweep --input usgs_01434000_daily_cms.csv --l-min 5 --l-max 40 --freq freq.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rc.cfg
			flags := cmd.Flags()
			if flags.Changed("input") {
				cfg.Input.Path = inputPath
			}
			if flags.Changed("l-min") {
				cfg.Sweep.LMin = lMin
			}
			if flags.Changed("l-max") {
				cfg.Sweep.LMax = lMax
			}
			if flags.Changed("significance") {
				cfg.Detect.P = p
			}
			if flags.Changed("workers") {
				cfg.Sweep.Workers = workers
			}

			s, err := loadInput(cfg.Input)
			if err != nil {
				return err
			}

			start := time.Now()
			values := s.Values()
			sr, err := rodionov.Sweep(cmd.Context(), values, cfg.Sweep.LMin, cfg.Sweep.LMax, cfg.Detect.P, cfg.Sweep.Workers)
			if err != nil {
				return fmt.Errorf("sweep: %w", err)
			}
			log.Info().
				Int("l_min", cfg.Sweep.LMin).
				Int("l_max", cfg.Sweep.LMax).
				Float64("p", cfg.Detect.P).
				Int("runs", len(sr.Runs)).
				Dur("took", time.Since(start)).
				Msg("sweep complete")

			j, err := openJournal(cfg.Journal)
			if err != nil {
				return err
			}
			defer j.Close()

			times := s.Times()
			for _, r := range sr.Runs {
				runID := id.New()
				run := journal.NewRun(runID, s.Name, journal.ModeSweep, start, len(values), r.L, sr.P, r.Result)
				if err := journal.Record(j, run, journal.NewShifts(runID, times, values, r.Result)); err != nil {
					return fmt.Errorf("journal run l=%d: %w", r.L, err)
				}
				log.Debug().Str("run_id", runID).Int("l", r.L).Int("shifts", run.Shifts).Msg("run journaled")
			}

			if freqPath != "" {
				fh, err := os.Create(freqPath)
				if err != nil {
					return fmt.Errorf("create frequency file: %w", err)
				}
				if err := journal.WriteFrequencyCSV(fh, times, sr); err != nil {
					_ = fh.Close()
					return fmt.Errorf("write frequency file: %w", err)
				}
				if err := fh.Close(); err != nil {
					return err
				}
				log.Info().Str("path", freqPath).Msg("frequency written")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d runs over l=[%d,%d) p=%g on %d observations\n",
				len(sr.Runs), cfg.Sweep.LMin, cfg.Sweep.LMax, sr.P, len(values))
			for _, i := range sr.Top(top) {
				fmt.Fprintf(out, "  %s  index=%d  found=%d  freq=%.2f\n",
					times[i].Format(time.DateOnly), i, sr.Counts[i], sr.Frequency[i])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Series CSV (date,value)")
	cmd.Flags().IntVar(&lMin, "l-min", 5, "Smallest regime length (inclusive)")
	cmd.Flags().IntVar(&lMax, "l-max", 40, "Largest regime length (exclusive)")
	cmd.Flags().Float64VarP(&p, "significance", "p", 0.05, "Significance probability")
	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "Concurrent runs (0 = GOMAXPROCS)")
	cmd.Flags().IntVar(&top, "top", 10, "Number of most frequent shift positions to print")
	cmd.Flags().StringVar(&freqPath, "freq", "", "Write per-observation shift frequency to this CSV")

	return cmd
}
