package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/rustyeddy/regimes/pkg/rodionov"
)

// WriteTraceCSV writes one row per observation:
//
//	time,value,rsi,regime_mean,shift
//
// times may be nil, in which case the time column holds the index.
func WriteTraceCSV(w io.Writer, times []time.Time, values []float64, res rodionov.Result) error {
	if len(res.RSI) != len(values) {
		return fmt.Errorf("trace: %d rsi values for %d observations", len(res.RSI), len(values))
	}
	if times != nil && len(times) != len(values) {
		return fmt.Errorf("trace: %d times for %d observations", len(times), len(values))
	}

	regimes := rodionov.Regimes(values, res.Shifts)
	shifts := make(map[int]bool, len(res.Shifts))
	for _, s := range res.Shifts {
		shifts[s] = true
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "value", "rsi", "regime_mean", "shift"}); err != nil {
		return err
	}
	for i, v := range values {
		ts := strconv.Itoa(i)
		if times != nil {
			ts = formatTime(times[i])
		}
		mean, _ := rodionov.MeanAt(regimes, i)
		if err := cw.Write([]string{ts, f(v), f(res.RSI[i]), f(mean), strconv.FormatBool(shifts[i])}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFrequencyCSV writes the per-observation shift counts of a sweep.
func WriteFrequencyCSV(w io.Writer, times []time.Time, sr rodionov.SweepResult) error {
	if times != nil && len(times) != len(sr.Counts) {
		return fmt.Errorf("frequency: %d times for %d observations", len(times), len(sr.Counts))
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "count", "frequency"}); err != nil {
		return err
	}
	for i, c := range sr.Counts {
		ts := strconv.Itoa(i)
		if times != nil {
			ts = formatTime(times[i])
		}
		if err := cw.Write([]string{ts, strconv.Itoa(c), f(sr.Frequency[i])}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
