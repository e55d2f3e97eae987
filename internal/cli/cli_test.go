package cli

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeStepSeries writes 40 annual values with a level shift in 1970.
func writeStepSeries(t *testing.T, dir string) string {
	t.Helper()

	rng := rand.New(rand.NewSource(42))
	var b strings.Builder
	b.WriteString("date,USGS-01434000\n")
	for i := 0; i < 40; i++ {
		level := 50.0
		if i >= 20 {
			level = 150
		}
		date := time.Date(1950+i, 1, 1, 0, 0, 0, 0, time.UTC)
		fmt.Fprintf(&b, "%s,%.3f\n", date.Format(time.DateOnly), level+rng.NormFloat64())
	}

	path := filepath.Join(dir, "flow.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

var runIDPattern = regexp.MustCompile(`run ([0-9A-Z]{26}):`)

func TestDetectAndShow(t *testing.T) {
	dir := t.TempDir()
	input := writeStepSeries(t, dir)
	db := filepath.Join(dir, "regimes.sqlite")
	trace := filepath.Join(dir, "trace.csv")

	out, err := run(t, "detect", "--db", db, "--log-level", "error", "-i", input, "-l", "10", "-p", "0.05", "--trace", trace)
	require.NoError(t, err)
	assert.Contains(t, out, "shifts=1")
	assert.Contains(t, out, "1970-01-01  index=20")

	m := runIDPattern.FindStringSubmatch(out)
	require.Len(t, m, 2)
	runID := m[1]

	fh, err := os.Open(trace)
	require.NoError(t, err)
	defer fh.Close()
	rows, err := csv.NewReader(fh).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 41)
	assert.Equal(t, "1970-01-01", rows[21][0])
	assert.Equal(t, "true", rows[21][4])

	out, err = run(t, "runs", "list", "--db", db, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, runID)
	assert.Contains(t, out, "detect l=10 p=0.05 shifts=1")

	out, err = run(t, "runs", "show", runID, "--db", db, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, ":RUN_ID: "+runID)
	assert.Contains(t, out, "| 20 | 1970-01-01 |")

	_, err = run(t, "runs", "show", "missing", "--db", db, "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestDetectErrors(t *testing.T) {
	dir := t.TempDir()
	input := writeStepSeries(t, dir)
	db := filepath.Join(dir, "regimes.sqlite")

	_, err := run(t, "detect", "--db", db, "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--input is required")

	_, err = run(t, "detect", "--db", db, "--log-level", "error", "-i", input, "-l", "40")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid parameter")

	_, err = run(t, "detect", "--db", db, "--log-level", "loud", "-i", input)
	assert.Error(t, err)
}

func TestDetectOrgWithConfig(t *testing.T) {
	dir := t.TempDir()
	input := writeStepSeries(t, dir)
	cfgPath := filepath.Join(dir, "regimes.yaml")

	cfgYAML := fmt.Sprintf(`input:
  path: %s
  date_column: 0
  value_column: 1
  standardize: false
detect:
  l: 8
  p: 0.1
sweep:
  l_min: 5
  l_max: 10
  workers: 2
journal:
  type: csv
  runs_file: %s
  shifts_file: %s
log:
  level: error
  format: json
`, input, filepath.Join(dir, "runs.csv"), filepath.Join(dir, "shifts.csv"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgYAML), 0o644))

	out, err := run(t, "detect", "--config", cfgPath, "--org")
	require.NoError(t, err)
	assert.Contains(t, out, ":L: 8")
	assert.Contains(t, out, ":P: 0.1")
	assert.Contains(t, out, ":DATASET: USGS-01434000")

	data, err := os.ReadFile(filepath.Join(dir, "shifts.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), ",20,1970-01-01,")
}

func TestSweep(t *testing.T) {
	dir := t.TempDir()
	input := writeStepSeries(t, dir)
	db := filepath.Join(dir, "regimes.sqlite")
	freq := filepath.Join(dir, "freq.csv")

	out, err := run(t, "sweep", "--db", db, "--log-level", "error", "-i", input,
		"--l-min", "5", "--l-max", "15", "-w", "3", "--top", "1", "--freq", freq)
	require.NoError(t, err)
	assert.Contains(t, out, "10 runs over l=[5,15)")
	assert.Contains(t, out, "1970-01-01  index=20  found=10  freq=1.00")

	fh, err := os.Open(freq)
	require.NoError(t, err)
	defer fh.Close()
	rows, err := csv.NewReader(fh).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"1970-01-01", "10", "1"}, rows[21])

	out, err = run(t, "runs", "list", "--db", db, "--log-level", "error", "-n", "0")
	require.NoError(t, err)
	assert.Equal(t, 10, strings.Count(out, " sweep "))
}

func TestConfigInitAndValidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "regimes.yaml")

	out, err := run(t, "config", "init", "-o", path, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Created default configuration")

	out, err = run(t, "config", "validate", "-f", path, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Detect: l=10 p=0.05")
	assert.Contains(t, out, "Journal: sqlite")

	_, err = run(t, "config", "validate", "-f", filepath.Join(dir, "missing.yaml"), "--log-level", "error")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "regimes version "+version)
}
