package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	runs   *csv.Writer
	shifts *csv.Writer
	rf, sf *os.File
}

func NewCSV(runsPath, shiftsPath string) (*CSVJournal, error) {
	rf, err := os.Create(runsPath)
	if err != nil {
		return nil, err
	}
	sf, err := os.Create(shiftsPath)
	if err != nil {
		_ = rf.Close()
		return nil, err
	}

	rw := csv.NewWriter(rf)
	sw := csv.NewWriter(sf)

	if err := rw.Write([]string{"run_id", "created", "dataset", "mode", "l", "p", "n", "t_stat", "avg_var", "diff", "shifts"}); err != nil {
		return nil, err
	}
	if err := sw.Write([]string{"run_id", "index", "time", "rsi", "mean_before", "mean_after"}); err != nil {
		return nil, err
	}

	rw.Flush()
	if err := rw.Error(); err != nil {
		return nil, err
	}
	sw.Flush()
	if err := sw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{rw, sw, rf, sf}, nil
}

func (j *CSVJournal) RecordRun(r RunRecord) error {
	err := j.runs.Write([]string{
		r.RunID,
		r.Created.UTC().Format(time.RFC3339),
		r.Dataset,
		r.Mode,
		strconv.Itoa(r.L),
		f(r.P),
		strconv.Itoa(r.N),
		f(r.TStat),
		f(r.AvgVar),
		f(r.Diff),
		strconv.Itoa(r.Shifts),
	})
	if err != nil {
		return err
	}

	j.runs.Flush()
	return j.runs.Error()
}

func (j *CSVJournal) RecordShift(s ShiftRecord) error {
	err := j.shifts.Write([]string{
		s.RunID,
		strconv.Itoa(s.Index),
		formatTime(s.Time),
		f(s.RSI),
		f(s.MeanBefore),
		f(s.MeanAfter),
	})
	if err != nil {
		return err
	}

	j.shifts.Flush()
	return j.shifts.Error()
}

func (j *CSVJournal) Close() error {
	j.runs.Flush()
	if err := j.runs.Error(); err != nil {
		return err
	}
	j.shifts.Flush()
	if err := j.shifts.Error(); err != nil {
		return err
	}

	if err := j.rf.Close(); err != nil {
		return err
	}
	if err := j.sf.Close(); err != nil {
		return err
	}
	return nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// formatTime renders dates without a clock and leaves zero times empty.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}
