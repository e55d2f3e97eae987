package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatRunOrg(t *testing.T) {
	t.Parallel()

	run := testRun("01H4PJ0000AAAAAAAAAA12345678", time.Date(2023, 7, 6, 10, 30, 0, 0, time.UTC))
	shifts := []ShiftRecord{
		{RunID: run.RunID, Index: 20, Time: time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC), RSI: 1.25, MeanBefore: 0.01, MeanAfter: 9.99},
		{RunID: run.RunID, Index: 31, RSI: 0.5, MeanBefore: 9.99, MeanAfter: 4},
	}

	result := FormatRunOrg(run, shifts)

	assert.Contains(t, result, "** Regimes: usgs_01434000_daily_cms.csv l=10 p=0.05 (12345678)")
	assert.Contains(t, result, ":PROPERTIES:")
	assert.Contains(t, result, ":RUN_ID: 01H4PJ0000AAAAAAAAAA12345678")
	assert.Contains(t, result, ":MODE: detect")
	assert.Contains(t, result, ":N: 40")
	assert.Contains(t, result, ":T_STAT: 1.7341")
	assert.Contains(t, result, ":DIFF: 1.82")
	assert.Contains(t, result, ":SHIFTS: 1")
	assert.Contains(t, result, ":END:")

	assert.Contains(t, result, "| 20 | 1950-01-01 | 1.2500 | 0.010 | 9.990 |")
	assert.Contains(t, result, "| 31 | - | 0.5000 | 9.990 | 4.000 |")
}

func TestFormatRunOrgNoShifts(t *testing.T) {
	t.Parallel()

	run := testRun("short", time.Now())
	run.Dataset = ""

	result := FormatRunOrg(run, nil)
	assert.Contains(t, result, "(dataset?)")
	assert.Contains(t, result, "(short)")
	assert.Contains(t, result, "No regime shifts confirmed.")
	assert.NotContains(t, result, "| Index |")
}

func TestFormatRunsOrg(t *testing.T) {
	t.Parallel()

	runs := []RunRecord{
		testRun("run-a", time.Now()),
		testRun("run-b", time.Now()),
	}
	runs[1].Mode = ModeSweep
	runs[1].L = 12

	result := FormatRunsOrg(runs)
	lines := strings.Split(strings.TrimSpace(result), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "run-a")
	assert.Contains(t, lines[1], "sweep l=12 p=0.05 shifts=1")
}
