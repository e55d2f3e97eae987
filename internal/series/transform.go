package series

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Period is a resampling bucket.
type Period string

const (
	None  Period = ""
	Month Period = "month"
	Year  Period = "year"
)

// ParsePeriod validates a resample period name.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case None, Month, Year:
		return p, nil
	}
	return None, fmt.Errorf("unknown resample period %q (want month or year)", s)
}

// Transform selects the preparation steps applied before detection.
type Transform struct {
	Resample    Period
	Log         bool
	Standardize bool
}

// Prepare resamples, log-transforms and standardizes s, in that order, as
// selected by t.
func Prepare(s Series, t Transform) (Series, error) {
	var err error
	if t.Resample != None {
		if s, err = Resample(s, t.Resample); err != nil {
			return Series{}, err
		}
	}
	if t.Log {
		if s, err = Log(s); err != nil {
			return Series{}, err
		}
	}
	if t.Standardize {
		if s, err = Standardize(s); err != nil {
			return Series{}, err
		}
	}
	return s, nil
}

// Resample averages the observations falling into each period. Each bucket
// is stamped with the start of its period. s must be time ordered.
func Resample(s Series, p Period) (Series, error) {
	var bucket func(time.Time) time.Time
	switch p {
	case None:
		return s, nil
	case Month:
		bucket = func(t time.Time) time.Time {
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		}
	case Year:
		bucket = func(t time.Time) time.Time {
			return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		}
	default:
		return Series{}, fmt.Errorf("unknown resample period %q", p)
	}

	out := Series{Name: s.Name}
	var (
		cur   time.Time
		group []float64
	)
	flush := func() {
		if len(group) > 0 {
			out.Points = append(out.Points, Point{Time: cur, Value: stat.Mean(group, nil)})
		}
		group = group[:0]
	}
	for _, pt := range s.Points {
		b := bucket(pt.Time)
		if !b.Equal(cur) {
			flush()
			cur = b
		}
		group = append(group, pt.Value)
	}
	flush()
	return out, nil
}

// Log applies the natural logarithm. Every value must be positive.
func Log(s Series) (Series, error) {
	values := s.Values()
	for i, v := range values {
		if v <= 0 {
			return Series{}, fmt.Errorf("log: value %g at %s is not positive", v, s.Points[i].Time.Format(time.DateOnly))
		}
		values[i] = math.Log(v)
	}
	return s.withValues(values), nil
}

// Standardize converts values to z-scores using the sample mean and standard
// deviation.
func Standardize(s Series) (Series, error) {
	if s.Len() < 2 {
		return Series{}, fmt.Errorf("standardize: need at least 2 values, got %d", s.Len())
	}
	values := s.Values()
	mean, sd := stat.MeanStdDev(values, nil)
	if sd == 0 || math.IsNaN(sd) {
		return Series{}, fmt.Errorf("standardize: standard deviation is zero")
	}
	for i, v := range values {
		values[i] = (v - mean) / sd
	}
	return s.withValues(values), nil
}
