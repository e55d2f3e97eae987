package series

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func daily(start time.Time, values ...float64) Series {
	s := Series{Name: "test"}
	for i, v := range values {
		s.Points = append(s.Points, Point{Time: start.AddDate(0, 0, i), Value: v})
	}
	return s
}

func TestResample(t *testing.T) {
	t.Parallel()

	// Dec 30 .. Jan 2 straddles a month and a year boundary.
	s := daily(day(1999, 12, 30), 1, 3, 10, 20)

	monthly, err := Resample(s, Month)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 15}, monthly.Values())
	assert.Equal(t, []time.Time{day(1999, 12, 1), day(2000, 1, 1)}, monthly.Times())

	yearly, err := Resample(s, Year)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{day(1999, 1, 1), day(2000, 1, 1)}, yearly.Times())

	same, err := Resample(s, None)
	require.NoError(t, err)
	assert.Equal(t, s, same)

	_, err = Resample(s, Period("week"))
	assert.Error(t, err)
}

func TestParsePeriod(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "month", "year"} {
		p, err := ParsePeriod(name)
		require.NoError(t, err)
		assert.Equal(t, Period(name), p)
	}
	_, err := ParsePeriod("decade")
	assert.Error(t, err)
}

func TestLog(t *testing.T) {
	t.Parallel()

	s := daily(day(2000, 1, 1), 1, math.E, math.E*math.E)
	out, err := Log(s)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 1, 2}, out.Values(), 1e-12)
	assert.Equal(t, 1.0, s.Points[0].Value, "input is not modified")

	_, err = Log(daily(day(2000, 1, 1), 1, 0))
	assert.Error(t, err)
}

func TestStandardize(t *testing.T) {
	t.Parallel()

	s := daily(day(2000, 1, 1), 2, 4, 4, 4, 5, 5, 7, 9)
	out, err := Standardize(s)
	require.NoError(t, err)

	mean, sd := stat.MeanStdDev(out.Values(), nil)
	assert.InDelta(t, 0, mean, 1e-12)
	assert.InDelta(t, 1, sd, 1e-12)
	assert.Equal(t, s.Times(), out.Times())

	_, err = Standardize(daily(day(2000, 1, 1), 3, 3, 3))
	assert.Error(t, err)
	_, err = Standardize(daily(day(2000, 1, 1), 3))
	assert.Error(t, err)
}

func TestPrepare(t *testing.T) {
	t.Parallel()

	s := daily(day(2000, 12, 30), 1, 1, 100, 100)

	out, err := Prepare(s, Transform{Resample: Month, Log: true, Standardize: true})
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())
	// Two buckets at log(1) and log(100) standardize to ∓1/√2.
	assert.InDelta(t, -math.Sqrt2/2, out.Points[0].Value, 1e-12)
	assert.InDelta(t, math.Sqrt2/2, out.Points[1].Value, 1e-12)

	same, err := Prepare(s, Transform{})
	require.NoError(t, err)
	assert.Equal(t, s, same)

	_, err = Prepare(daily(day(2000, 1, 1), -1, 2), Transform{Log: true})
	assert.Error(t, err)
}
