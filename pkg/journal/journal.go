// Package journal records regime detection runs and their confirmed shifts.
package journal

import (
	"time"

	"github.com/rustyeddy/regimes/pkg/rodionov"
)

// Run modes.
const (
	ModeDetect = "detect"
	ModeSweep  = "sweep"
)

// RunRecord describes one detection run.
type RunRecord struct {
	RunID   string
	Created time.Time
	Dataset string
	Mode    string

	L int
	P float64
	N int

	TStat  float64
	AvgVar float64
	Diff   float64

	Shifts int
}

// ShiftRecord is one confirmed regime shift of a run.
type ShiftRecord struct {
	RunID      string
	Index      int
	Time       time.Time // zero when the series carries no dates
	RSI        float64
	MeanBefore float64
	MeanAfter  float64
}

type Journal interface {
	RecordRun(RunRecord) error
	RecordShift(ShiftRecord) error
	Close() error
}

// NewRun builds the run record for a detection result.
func NewRun(runID, dataset, mode string, created time.Time, n, l int, p float64, res rodionov.Result) RunRecord {
	return RunRecord{
		RunID:   runID,
		Created: created,
		Dataset: dataset,
		Mode:    mode,
		L:       l,
		P:       p,
		N:       n,
		TStat:   res.Threshold.TStat,
		AvgVar:  res.Threshold.AvgVar,
		Diff:    res.Threshold.Diff,
		Shifts:  len(res.Shifts),
	}
}

// NewShifts builds one record per confirmed shift. times may be nil or must
// be aligned with data.
func NewShifts(runID string, times []time.Time, data []float64, res rodionov.Result) []ShiftRecord {
	regimes := rodionov.Regimes(data, res.Shifts)

	out := make([]ShiftRecord, 0, len(res.Shifts))
	for _, s := range res.Shifts {
		rec := ShiftRecord{RunID: runID, Index: s, RSI: res.RSI[s]}
		if s < len(times) {
			rec.Time = times[s]
		}
		rec.MeanBefore, _ = rodionov.MeanAt(regimes, s-1)
		rec.MeanAfter, _ = rodionov.MeanAt(regimes, s)
		out = append(out, rec)
	}
	return out
}

// Record writes a run and its shifts.
func Record(j Journal, run RunRecord, shifts []ShiftRecord) error {
	if err := j.RecordRun(run); err != nil {
		return err
	}
	for _, s := range shifts {
		if err := j.RecordShift(s); err != nil {
			return err
		}
	}
	return nil
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordRun(RunRecord) error     { return nil }
func (Nop) RecordShift(ShiftRecord) error { return nil }
func (Nop) Close() error                  { return nil }
