package rodionov

import "gonum.org/v1/gonum/stat"

// Regime is the half-open segment [Start, End) of a series sharing one mean.
type Regime struct {
	Start int
	End   int
	Mean  float64
}

// Len returns the number of observations in the regime.
func (r Regime) Len() int { return r.End - r.Start }

// Regimes splits data at the given shift indices and returns each segment
// with its mean. Shifts outside (0, len(data)) are ignored.
func Regimes(data []float64, shifts []int) []Regime {
	n := len(data)
	if n == 0 {
		return nil
	}

	var out []Regime
	start := 0
	for _, s := range shifts {
		if s <= start || s >= n {
			continue
		}
		out = append(out, Regime{Start: start, End: s, Mean: stat.Mean(data[start:s], nil)})
		start = s
	}
	out = append(out, Regime{Start: start, End: n, Mean: stat.Mean(data[start:], nil)})
	return out
}

// MeanAt returns the mean of the regime containing index i, and false when i
// is out of range.
func MeanAt(regimes []Regime, i int) (float64, bool) {
	for _, r := range regimes {
		if i >= r.Start && i < r.End {
			return r.Mean, true
		}
	}
	return 0, false
}
