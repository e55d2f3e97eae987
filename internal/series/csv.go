package series

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// CSVOptions selects the columns of a dated CSV file.
type CSVOptions struct {
	DateColumn  int
	ValueColumn int
	DateLayout  string // defaults to 2006-01-02
}

// DefaultCSVOptions matches the date,value layout of a gauge export.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{DateColumn: 0, ValueColumn: 1, DateLayout: time.DateOnly}
}

// LoadCSV reads a series from a CSV file. The series is named after the value
// column header, or the file name when there is no header.
func LoadCSV(path string, opts CSVOptions) (Series, error) {
	fh, err := os.Open(path)
	if err != nil {
		return Series{}, err
	}
	defer fh.Close()

	s, err := ReadCSV(fh, opts)
	if err != nil {
		return Series{}, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = filepath.Base(path)
	}
	return s, nil
}

// ReadCSV parses dated values. A first row whose value cell is not a number
// is taken as the header. Rows with an empty or NaN value are gaps and are
// dropped; a repeated date keeps its first value. The result is time ordered.
func ReadCSV(r io.Reader, opts CSVOptions) (Series, error) {
	if opts.DateLayout == "" {
		opts.DateLayout = time.DateOnly
	}
	if opts.DateColumn < 0 || opts.ValueColumn < 0 || opts.DateColumn == opts.ValueColumn {
		return Series{}, fmt.Errorf("invalid columns: date=%d value=%d", opts.DateColumn, opts.ValueColumn)
	}
	need := max(opts.DateColumn, opts.ValueColumn) + 1

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		s     Series
		seen  = map[time.Time]bool{}
		line  = 0
		first = true
	)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Series{}, err
		}
		line++
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}
		if len(row) < need {
			return Series{}, fmt.Errorf("line %d: expected at least %d columns, got %d", line, need, len(row))
		}

		raw := strings.TrimSpace(row[opts.ValueColumn])
		if first {
			first = false
			if _, err := strconv.ParseFloat(raw, 64); err != nil && raw != "" && !strings.EqualFold(raw, "nan") {
				s.Name = raw
				continue
			}
		}

		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Series{}, fmt.Errorf("line %d: bad value %q: %w", line, raw, err)
		}
		if math.IsNaN(v) {
			continue
		}
		if math.IsInf(v, 0) {
			return Series{}, fmt.Errorf("line %d: value is infinite", line)
		}

		ts, err := parseDate(strings.TrimSpace(row[opts.DateColumn]), opts.DateLayout)
		if err != nil {
			return Series{}, fmt.Errorf("line %d: %w", line, err)
		}
		if seen[ts] {
			continue
		}
		seen[ts] = true
		s.Points = append(s.Points, Point{Time: ts, Value: v})
	}

	sort.SliceStable(s.Points, func(i, j int) bool {
		return s.Points[i].Time.Before(s.Points[j].Time)
	})
	return s, nil
}

// parseDate accepts the configured layout, falling back to RFC3339 and to a
// date prefix of a timestamp ("2023-07-06 00:00:00").
func parseDate(s, layout string) (time.Time, error) {
	ts, err := time.Parse(layout, s)
	if err == nil {
		return ts.UTC(), nil
	}
	if ts, err2 := time.Parse(time.RFC3339, s); err2 == nil {
		return ts.UTC(), nil
	}
	if len(s) > len(time.DateOnly) {
		if ts, err2 := time.Parse(time.DateOnly, s[:len(time.DateOnly)]); err2 == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("bad date %q: %w", s, err)
}
