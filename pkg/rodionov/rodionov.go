// Package rodionov implements Rodionov's sequential t-test for regime shifts
// (STARS) in the mean level of a time series.
//
// Rodionov, S. N. (2004). A sequential algorithm for testing climate regime
// shifts. Geophysical Research Letters, 31(9).
package rodionov

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrInvalidParameter is returned for a bad l, p, or length relationship.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrDegenerateInput is returned when the average window variance is
	// zero (or negligible), leaving the significance threshold undefined.
	ErrDegenerateInput = errors.New("degenerate input")
)

// degenerateTolerance bounds avg_var relative to the squared magnitude of the
// data. Below it the variance is rounding noise, not signal.
const degenerateTolerance = 1e-24

// Threshold holds the per-run constants computed once over the whole series.
type Threshold struct {
	TStat  float64 // |t| critical value for p with 2l-2 degrees of freedom
	AvgVar float64 // mean population variance of all length-l windows
	Diff   float64 // minimum significant difference between two regime means
}

// Result is the output of one detection run.
type Result struct {
	// Shifts are the indices of the first observation of each confirmed
	// regime, strictly increasing.
	Shifts []int

	// RSI has one entry per input value. It is positive exactly at Shifts
	// and zero everywhere else.
	RSI []float64

	Threshold Threshold
}

// regime is the mutable state threaded through the scan.
type regime struct {
	mean  float64
	lower float64
	upper float64
	diff  float64
}

func (r *regime) anchor(mean float64) {
	r.mean = mean
	r.lower = mean - r.diff
	r.upper = mean + r.diff
}

// Detect scans data left to right and returns the confirmed regime shifts and
// the regime shift index trace. l is the minimum regime length and p the
// significance probability used for the t-test lookup.
func Detect(data []float64, l int, p float64) (Result, error) {
	th, err := ComputeThreshold(data, l, p)
	if err != nil {
		return Result{}, err
	}

	n := len(data)
	rsi := make([]float64, n)
	shifts := []int{}

	r := regime{diff: th.Diff}
	r.anchor(stat.Mean(data[:l], nil))

	scale := th.AvgVar * float64(l)

	for i := l + 1; i < n; i++ {
		x := data[i]
		if x >= r.lower && x <= r.upper {
			// Smoothing moves the mean only; the band stays where the
			// regime was last anchored.
			r.mean = (float64(l-1)*r.mean + x) / float64(l)
			continue
		}

		j := i
		up := data[j] > r.mean
		testR2 := r.upper
		if x < r.lower {
			testR2 = r.lower
		}

		end := min(j+l, n)
		for k := j + 1; k < end; k++ {
			if up {
				rsi[j] += (data[k] - testR2) / scale
			} else {
				rsi[j] += (testR2 - data[k]) / scale
			}
			if rsi[j] < 0 {
				rsi[j] = 0
				break
			}
		}

		if rsi[j] > 0 {
			shifts = append(shifts, j)
			// The new regime's window is truncated at the end of the series.
			r.anchor(stat.Mean(data[j:end], nil))
		}

		// The observation right after a candidate is never tested itself.
		i = j + 1
	}

	return Result{Shifts: shifts, RSI: rsi, Threshold: th}, nil
}

// ComputeThreshold validates the inputs and computes the t critical value,
// the average window variance and the significant mean difference.
func ComputeThreshold(data []float64, l int, p float64) (Threshold, error) {
	if err := validate(data, l, p); err != nil {
		return Threshold{}, err
	}

	n := len(data)
	student := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(2*l - 2)}
	tStat := math.Abs(student.Quantile(p))

	var sum float64
	for i := 0; i < n-l; i++ {
		sum += stat.PopVariance(data[i:i+l], nil)
	}
	avgVar := sum / float64(n-l)

	var peak float64
	for _, x := range data {
		peak = math.Max(peak, math.Abs(x))
	}
	if math.IsNaN(avgVar) || math.IsInf(avgVar, 0) || avgVar <= degenerateTolerance*peak*peak {
		return Threshold{}, fmt.Errorf("%w: average window variance %g is zero or negligible", ErrDegenerateInput, avgVar)
	}

	return Threshold{
		TStat:  tStat,
		AvgVar: avgVar,
		Diff:   tStat * math.Sqrt(2*avgVar/float64(l)),
	}, nil
}

func validate(data []float64, l int, p float64) error {
	n := len(data)
	if n < 1 {
		return fmt.Errorf("%w: empty series", ErrInvalidParameter)
	}
	if l < 2 {
		return fmt.Errorf("%w: l must be at least 2, got %d", ErrInvalidParameter, l)
	}
	if l >= n {
		return fmt.Errorf("%w: l must be less than the series length %d, got %d", ErrInvalidParameter, n, l)
	}
	if !(p > 0 && p < 1) {
		return fmt.Errorf("%w: p must be in (0, 1), got %v", ErrInvalidParameter, p)
	}
	for i, x := range data {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%w: data[%d] is not finite (%v)", ErrInvalidParameter, i, x)
		}
	}
	return nil
}
