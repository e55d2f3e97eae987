package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatRunOrg renders a run and its shifts as an Org-mode block. Structured
// facts go into the PROPERTIES drawer, shifts into a table.
func FormatRunOrg(r RunRecord, shifts []ShiftRecord) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("** Regimes: %s l=%d p=%g (%s)\n", datasetName(r.Dataset), r.L, r.P, shortID(r.RunID)))
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":RUN_ID: %s\n", r.RunID))
	b.WriteString(fmt.Sprintf(":MODE: %s\n", r.Mode))
	b.WriteString(fmt.Sprintf(":DATASET: %s\n", datasetName(r.Dataset)))
	b.WriteString(fmt.Sprintf(":CREATED: [%s]\n", r.Created.Local().Format("2006-01-02 Mon 15:04")))
	b.WriteString(fmt.Sprintf(":N: %d\n", r.N))
	b.WriteString(fmt.Sprintf(":L: %d\n", r.L))
	b.WriteString(fmt.Sprintf(":P: %g\n", r.P))
	b.WriteString(fmt.Sprintf(":T_STAT: %.4f\n", r.TStat))
	b.WriteString(fmt.Sprintf(":AVG_VAR: %.6g\n", r.AvgVar))
	b.WriteString(fmt.Sprintf(":DIFF: %.6g\n", r.Diff))
	b.WriteString(fmt.Sprintf(":SHIFTS: %d\n", r.Shifts))
	b.WriteString(":END:\n")

	if len(shifts) == 0 {
		b.WriteString("\nNo regime shifts confirmed.\n")
		return b.String()
	}

	b.WriteString("\n| Index | Date | RSI | Mean before | Mean after |\n")
	b.WriteString("|-------+------+-----+-------------+------------|\n")
	for _, s := range shifts {
		date := "-"
		if !s.Time.IsZero() {
			date = s.Time.UTC().Format(time.DateOnly)
		}
		b.WriteString(fmt.Sprintf("| %d | %s | %.4f | %.3f | %.3f |\n", s.Index, date, s.RSI, s.MeanBefore, s.MeanAfter))
	}
	return b.String()
}

// FormatRunsOrg renders a compact one-line-per-run listing.
func FormatRunsOrg(runs []RunRecord) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(fmt.Sprintf("- %s %s %s l=%d p=%g shifts=%d\n",
			r.RunID, r.Created.Local().Format("2006-01-02 15:04"), r.Mode, r.L, r.P, r.Shifts))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[len(full)-8:]
}

func datasetName(s string) string {
	if s == "" {
		return "(dataset?)"
	}
	return s
}
