package rodionov

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// SweepRun is one detection run of a sweep.
type SweepRun struct {
	L      int
	Result Result
}

// SweepResult aggregates detection runs over a range of regime lengths.
type SweepResult struct {
	P    float64
	Runs []SweepRun // ordered by L

	// Counts[i] is the number of runs that confirmed a shift at index i.
	Counts []int

	// Frequency[i] is Counts[i] divided by the number of runs.
	Frequency []float64
}

// Sweep runs Detect for every l in [lMin, lMax) with the same p. Runs share
// no state and execute on up to workers goroutines (GOMAXPROCS when
// workers <= 0). The first failure cancels the remaining runs.
func Sweep(ctx context.Context, data []float64, lMin, lMax int, p float64, workers int) (SweepResult, error) {
	if lMin >= lMax {
		return SweepResult{}, fmt.Errorf("%w: l range [%d, %d) is empty", ErrInvalidParameter, lMin, lMax)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	runs := make([]SweepRun, lMax-lMin)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for idx := range runs {
		idx := idx
		l := lMin + idx
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := Detect(data, l, p)
			if err != nil {
				return fmt.Errorf("l=%d: %w", l, err)
			}
			runs[idx] = SweepRun{L: l, Result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SweepResult{}, err
	}

	out := SweepResult{
		P:         p,
		Runs:      runs,
		Counts:    make([]int, len(data)),
		Frequency: make([]float64, len(data)),
	}
	for _, r := range runs {
		for _, s := range r.Result.Shifts {
			out.Counts[s]++
		}
	}
	for i, c := range out.Counts {
		out.Frequency[i] = float64(c) / float64(len(runs))
	}
	return out, nil
}

// Top returns up to k indices with the highest non-zero counts, highest first
// and ties broken by index.
func (s SweepResult) Top(k int) []int {
	var idx []int
	for i, c := range s.Counts {
		if c > 0 {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return s.Counts[idx[a]] > s.Counts[idx[b]]
	})
	if k >= 0 && len(idx) > k {
		idx = idx[:k]
	}
	return idx
}
