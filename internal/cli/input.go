package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/regimes/internal/config"
	"github.com/rustyeddy/regimes/internal/series"
	"github.com/rustyeddy/regimes/pkg/journal"
)

// loadInput reads and prepares the configured series.
func loadInput(in config.InputConfig) (series.Series, error) {
	if in.Path == "" {
		return series.Series{}, fmt.Errorf("--input is required")
	}
	tr, err := in.Transform()
	if err != nil {
		return series.Series{}, err
	}

	raw, err := series.LoadCSV(in.Path, in.CSVOptions())
	if err != nil {
		return series.Series{}, fmt.Errorf("load series: %w", err)
	}
	s, err := series.Prepare(raw, tr)
	if err != nil {
		return series.Series{}, fmt.Errorf("prepare series: %w", err)
	}

	log.Info().
		Str("series", s.Name).
		Int("raw", raw.Len()).
		Int("n", s.Len()).
		Str("resample", string(tr.Resample)).
		Bool("log", tr.Log).
		Bool("standardize", tr.Standardize).
		Msg("series loaded")
	return s, nil
}

// openJournal opens the configured journal.
func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "sqlite":
		j, err := journal.NewSQLite(jc.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		return j, nil
	case "csv":
		j, err := journal.NewCSV(jc.RunsFile, jc.ShiftsFile)
		if err != nil {
			return nil, fmt.Errorf("open csv journal: %w", err)
		}
		return j, nil
	case "none", "":
		return journal.Nop{}, nil
	}
	return nil, fmt.Errorf("unknown journal type %q", jc.Type)
}
